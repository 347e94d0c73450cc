package domain

import (
	"encoding/json"
	"fmt"
)

// Role governs authorization decisions. The zero value means "no principal".
type Role string

// Canonical roles.
const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

// UserStatus enumerates principal account states.
type UserStatus string

// Canonical user statuses.
const (
	UserActive   UserStatus = "active"
	UserInactive UserStatus = "inactive"
)

// DispensaryCategory enumerates the licence categories a dispensary trades under.
type DispensaryCategory string

// Canonical dispensary categories.
const (
	CategoryMedical      DispensaryCategory = "medical"
	CategoryRecreational DispensaryCategory = "recreational"
	CategoryBoth         DispensaryCategory = "both"
)

// DispensaryStatus enumerates the operating state of a dispensary.
type DispensaryStatus string

// Canonical dispensary statuses.
const (
	DispensaryOpen             DispensaryStatus = "open"
	DispensaryUnderMaintenance DispensaryStatus = "under-maintenance"
	DispensaryClosed           DispensaryStatus = "closed"
)

// RequestStatus enumerates service request workflow states.
type RequestStatus string

// Canonical service request statuses. Resolved is terminal.
const (
	RequestPending    RequestStatus = "pending"
	RequestInProgress RequestStatus = "in-progress"
	RequestResolved   RequestStatus = "resolved"
)

// RequestPriority enumerates service request urgency.
type RequestPriority string

// Canonical priorities.
const (
	PriorityLow    RequestPriority = "low"
	PriorityMedium RequestPriority = "medium"
	PriorityHigh   RequestPriority = "high"
)

// InvoiceStatus enumerates invoice settlement states.
type InvoiceStatus string

// Canonical invoice statuses.
const (
	InvoicePending InvoiceStatus = "pending"
	InvoicePaid    InvoiceStatus = "paid"
	InvoiceOverdue InvoiceStatus = "overdue"
)

// PaymentMethod enumerates accepted payment instruments.
type PaymentMethod string

// Canonical payment methods.
const (
	MethodCreditCard   PaymentMethod = "credit_card"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodCheck        PaymentMethod = "check"
	MethodCash         PaymentMethod = "cash"
)

// PaymentStatus enumerates payment processing outcomes.
type PaymentStatus string

// Canonical payment statuses.
const (
	PaymentProcessed PaymentStatus = "processed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// AgreementStatus enumerates service agreement states.
type AgreementStatus string

// Canonical agreement statuses.
const (
	AgreementActive     AgreementStatus = "active"
	AgreementPending    AgreementStatus = "pending"
	AgreementExpired    AgreementStatus = "expired"
	AgreementTerminated AgreementStatus = "terminated"
)

// KnowledgeCategory enumerates knowledge base sections.
type KnowledgeCategory string

// Canonical knowledge base categories.
const (
	KnowledgeServices     KnowledgeCategory = "Services"
	KnowledgeCaseStudies  KnowledgeCategory = "Case Studies"
	KnowledgeTestimonials KnowledgeCategory = "Testimonials"
)

// EntryStatus enumerates knowledge base publication states.
type EntryStatus string

// Canonical knowledge base entry statuses.
const (
	EntryActive   EntryStatus = "active"
	EntryInactive EntryStatus = "inactive"
)

// ThemeMode enumerates UI themes.
type ThemeMode string

// Canonical theme modes.
const (
	ThemeLight ThemeMode = "light"
	ThemeDark  ThemeMode = "dark"
)

var (
	roles               = enumSet(RoleAdmin, RoleManager, RoleUser)
	userStatuses        = enumSet(UserActive, UserInactive)
	dispensaryCategory  = enumSet(CategoryMedical, CategoryRecreational, CategoryBoth)
	dispensaryStatuses  = enumSet(DispensaryOpen, DispensaryUnderMaintenance, DispensaryClosed)
	requestStatuses     = enumSet(RequestPending, RequestInProgress, RequestResolved)
	requestPriorities   = enumSet(PriorityLow, PriorityMedium, PriorityHigh)
	invoiceStatuses     = enumSet(InvoicePending, InvoicePaid, InvoiceOverdue)
	paymentMethods      = enumSet(MethodCreditCard, MethodBankTransfer, MethodCheck, MethodCash)
	paymentStatuses     = enumSet(PaymentProcessed, PaymentFailed, PaymentRefunded)
	agreementStatuses   = enumSet(AgreementActive, AgreementPending, AgreementExpired, AgreementTerminated)
	knowledgeCategories = enumSet(KnowledgeServices, KnowledgeCaseStudies, KnowledgeTestimonials)
	entryStatuses       = enumSet(EntryActive, EntryInactive)
	themeModes          = enumSet(ThemeLight, ThemeDark)
)

func enumSet[T ~string](values ...T) map[T]struct{} {
	set := make(map[T]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func inSet[T comparable](set map[T]struct{}, v T) bool {
	_, ok := set[v]
	return ok
}

// decodeEnum rejects any value outside the closed set so that a corrupt or
// hand-edited snapshot fails at the deserialization boundary.
func decodeEnum[T ~string](data []byte, set map[T]struct{}, label string) (T, error) {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return "", fmt.Errorf("decode %s: %w", label, err)
	}
	v := T(raw)
	if _, ok := set[v]; !ok {
		return "", fmt.Errorf("invalid %s %q", label, raw)
	}
	return v, nil
}

// Valid reports whether r is one of the canonical roles.
func (r Role) Valid() bool { return inSet(roles, r) }

// UnmarshalJSON implements json.Unmarshaler.
func (r *Role) UnmarshalJSON(b []byte) (err error) {
	*r, err = decodeEnum(b, roles, "role")
	return err
}

// Valid reports whether s is a canonical user status.
func (s UserStatus) Valid() bool { return inSet(userStatuses, s) }

// UnmarshalJSON implements json.Unmarshaler.
func (s *UserStatus) UnmarshalJSON(b []byte) (err error) {
	*s, err = decodeEnum(b, userStatuses, "user status")
	return err
}

// Valid reports whether c is a canonical dispensary category.
func (c DispensaryCategory) Valid() bool { return inSet(dispensaryCategory, c) }

// UnmarshalJSON implements json.Unmarshaler.
func (c *DispensaryCategory) UnmarshalJSON(b []byte) (err error) {
	*c, err = decodeEnum(b, dispensaryCategory, "dispensary category")
	return err
}

// Valid reports whether s is a canonical dispensary status.
func (s DispensaryStatus) Valid() bool { return inSet(dispensaryStatuses, s) }

// UnmarshalJSON implements json.Unmarshaler.
func (s *DispensaryStatus) UnmarshalJSON(b []byte) (err error) {
	*s, err = decodeEnum(b, dispensaryStatuses, "dispensary status")
	return err
}

// Valid reports whether s is a canonical request status.
func (s RequestStatus) Valid() bool { return inSet(requestStatuses, s) }

// UnmarshalJSON implements json.Unmarshaler.
func (s *RequestStatus) UnmarshalJSON(b []byte) (err error) {
	*s, err = decodeEnum(b, requestStatuses, "request status")
	return err
}

// Valid reports whether p is a canonical priority.
func (p RequestPriority) Valid() bool { return inSet(requestPriorities, p) }

// UnmarshalJSON implements json.Unmarshaler.
func (p *RequestPriority) UnmarshalJSON(b []byte) (err error) {
	*p, err = decodeEnum(b, requestPriorities, "request priority")
	return err
}

// Valid reports whether s is a canonical invoice status.
func (s InvoiceStatus) Valid() bool { return inSet(invoiceStatuses, s) }

// UnmarshalJSON implements json.Unmarshaler.
func (s *InvoiceStatus) UnmarshalJSON(b []byte) (err error) {
	*s, err = decodeEnum(b, invoiceStatuses, "invoice status")
	return err
}

// Valid reports whether m is a canonical payment method.
func (m PaymentMethod) Valid() bool { return inSet(paymentMethods, m) }

// UnmarshalJSON implements json.Unmarshaler.
func (m *PaymentMethod) UnmarshalJSON(b []byte) (err error) {
	*m, err = decodeEnum(b, paymentMethods, "payment method")
	return err
}

// Valid reports whether s is a canonical payment status.
func (s PaymentStatus) Valid() bool { return inSet(paymentStatuses, s) }

// UnmarshalJSON implements json.Unmarshaler.
func (s *PaymentStatus) UnmarshalJSON(b []byte) (err error) {
	*s, err = decodeEnum(b, paymentStatuses, "payment status")
	return err
}

// Valid reports whether s is a canonical agreement status.
func (s AgreementStatus) Valid() bool { return inSet(agreementStatuses, s) }

// UnmarshalJSON implements json.Unmarshaler.
func (s *AgreementStatus) UnmarshalJSON(b []byte) (err error) {
	*s, err = decodeEnum(b, agreementStatuses, "agreement status")
	return err
}

// Valid reports whether c is a canonical knowledge base category.
func (c KnowledgeCategory) Valid() bool { return inSet(knowledgeCategories, c) }

// UnmarshalJSON implements json.Unmarshaler.
func (c *KnowledgeCategory) UnmarshalJSON(b []byte) (err error) {
	*c, err = decodeEnum(b, knowledgeCategories, "knowledge base category")
	return err
}

// Valid reports whether s is a canonical entry status.
func (s EntryStatus) Valid() bool { return inSet(entryStatuses, s) }

// UnmarshalJSON implements json.Unmarshaler.
func (s *EntryStatus) UnmarshalJSON(b []byte) (err error) {
	*s, err = decodeEnum(b, entryStatuses, "entry status")
	return err
}

// Valid reports whether m is a canonical theme mode.
func (m ThemeMode) Valid() bool { return inSet(themeModes, m) }

// UnmarshalJSON implements json.Unmarshaler.
func (m *ThemeMode) UnmarshalJSON(b []byte) (err error) {
	*m, err = decodeEnum(b, themeModes, "theme mode")
	return err
}
