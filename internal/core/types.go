package core

import "myersadmin/pkg/domain"

type (
	EntityType         = domain.EntityType
	Severity           = domain.Severity
	Base               = domain.Base
	User               = domain.User
	Dispensary         = domain.Dispensary
	ServiceRequest     = domain.ServiceRequest
	ResponseNote       = domain.ResponseNote
	Invoice            = domain.Invoice
	InvoiceItem        = domain.InvoiceItem
	Payment            = domain.Payment
	ServiceAgreement   = domain.ServiceAgreement
	KnowledgeBaseEntry = domain.KnowledgeBaseEntry
	Amount             = domain.Amount
	Change             = domain.Change
	Action             = domain.Action
	Violation          = domain.Violation
	Result             = domain.Result
	RuleViolationError = domain.RuleViolationError
	Rule               = domain.Rule
	RuleView           = domain.RuleView
	RulesEngine        = domain.RulesEngine
)

const (
	EntityUser             = domain.EntityUser
	EntitySupportEngineer  = domain.EntitySupportEngineer
	EntityDispensary       = domain.EntityDispensary
	EntityServiceRequest   = domain.EntityServiceRequest
	EntityInvoice          = domain.EntityInvoice
	EntityPayment          = domain.EntityPayment
	EntityServiceAgreement = domain.EntityServiceAgreement
	EntityKnowledgeBase    = domain.EntityKnowledgeBase
)

const (
	SeverityBlock = domain.SeverityBlock
	SeverityWarn  = domain.SeverityWarn
	SeverityLog   = domain.SeverityLog
)

const (
	ActionCreate = domain.ActionCreate
	ActionUpdate = domain.ActionUpdate
	ActionDelete = domain.ActionDelete
)
