// Package domain defines the persistent entities, value types, and rule
// evaluation primitives used by the Myers Security admin core.
package domain

import "time"

// EntityType identifies the type of record stored in an entity collection.
type EntityType string

// Supported entity type identifiers used in Change records, policies and slot keys.
const (
	EntityUser             EntityType = "user"
	EntitySupportEngineer  EntityType = "support_engineer"
	EntityDispensary       EntityType = "dispensary"
	EntityServiceRequest   EntityType = "service_request"
	EntityInvoice          EntityType = "invoice"
	EntityPayment          EntityType = "payment"
	EntityServiceAgreement EntityType = "service_agreement"
	EntityKnowledgeBase    EntityType = "knowledge_base_entry"
	EntityDashboard        EntityType = "dashboard"
	EntitySettings         EntityType = "settings"
)

// Record is implemented by every entity stored in a keyed collection.
type Record interface {
	RecordID() string
}

// Base contains common fields for all domain records.
type Base struct {
	ID        string    `json:"id" validate:"required"`
	CreatedAt time.Time `json:"createdAt"`
}

// RecordID returns the opaque unique identifier of the record.
func (b Base) RecordID() string { return b.ID }

// User is an authenticated actor (a principal). It is distinct from the
// RoleUser role value.
type User struct {
	Base
	Name   string     `json:"name" validate:"required"`
	Email  string     `json:"email" validate:"required,email"`
	Role   Role       `json:"role" validate:"required,enum"`
	Status UserStatus `json:"status" validate:"required,enum"`
}

// Dispensary is a serviced site. Engineers holds user ids; the reference is
// not enforced by storage.
type Dispensary struct {
	Base
	Name      string             `json:"name" validate:"required"`
	Address   string             `json:"address" validate:"required"`
	Category  DispensaryCategory `json:"category" validate:"required,enum"`
	Status    DispensaryStatus   `json:"status" validate:"required,enum"`
	Engineers []string           `json:"engineers"`
}

// ServiceRequest is a support ticket raised against a dispensary.
type ServiceRequest struct {
	Base
	Title         string          `json:"title" validate:"required"`
	Description   string          `json:"description"`
	Status        RequestStatus   `json:"status" validate:"required,enum"`
	Priority      RequestPriority `json:"priority" validate:"required,enum"`
	ResolvedAt    *time.Time      `json:"resolvedAt,omitempty"`
	DispensaryID  string          `json:"dispensaryId" validate:"required"`
	ResponseNotes []ResponseNote  `json:"responseNotes"`
}

// ResponseNote is a free-text reply appended to a service request.
type ResponseNote struct {
	ID        string    `json:"id" validate:"required"`
	Text      string    `json:"text" validate:"required"`
	CreatedAt time.Time `json:"createdAt"`
	CreatedBy string    `json:"createdBy" validate:"required"`
}

// Invoice bills a dispensary.
type Invoice struct {
	Base
	DispensaryID string        `json:"dispensaryId" validate:"required"`
	Amount       Amount        `json:"amount" validate:"gte=0"`
	DueDate      time.Time     `json:"dueDate" validate:"required"`
	Status       InvoiceStatus `json:"status" validate:"required,enum"`
	Items        []InvoiceItem `json:"items" validate:"dive"`
}

// InvoiceItem is a single invoice line.
type InvoiceItem struct {
	Description string `json:"description" validate:"required"`
	Quantity    int    `json:"quantity" validate:"gte=0"`
	UnitPrice   Amount `json:"unitPrice" validate:"gte=0"`
}

// Total returns quantity times unit price.
func (i InvoiceItem) Total() Amount { return i.UnitPrice * Amount(i.Quantity) }

// Payment settles (part of) an invoice.
type Payment struct {
	Base
	DispensaryID string        `json:"dispensaryId" validate:"required"`
	InvoiceID    string        `json:"invoiceId" validate:"required"`
	Amount       Amount        `json:"amount" validate:"gte=0"`
	Method       PaymentMethod `json:"method" validate:"required,enum"`
	Status       PaymentStatus `json:"status" validate:"required,enum"`
}

// ServiceAgreement captures the contract terms for a dispensary.
type ServiceAgreement struct {
	Base
	DispensaryID string          `json:"dispensaryId" validate:"required"`
	StartDate    time.Time       `json:"startDate" validate:"required"`
	EndDate      time.Time       `json:"endDate" validate:"required"`
	Status       AgreementStatus `json:"status" validate:"required,enum"`
	Terms        string          `json:"terms"`
}

// KnowledgeBaseEntry is a published piece of marketing or support content.
type KnowledgeBaseEntry struct {
	Base
	Title       string            `json:"title" validate:"required"`
	Category    KnowledgeCategory `json:"category" validate:"required,enum"`
	Description string            `json:"description"`
	VideoURL    string            `json:"videoUrl,omitempty" validate:"omitempty,url"`
	BlogURL     string            `json:"blogUrl,omitempty" validate:"omitempty,url"`
	FileURL     string            `json:"fileUrl,omitempty" validate:"omitempty,url"`
	Status      EntryStatus       `json:"status" validate:"required,enum"`
}

// AuthState is the persisted mock session.
type AuthState struct {
	IsAuthenticated bool  `json:"isAuthenticated"`
	User            *User `json:"user"`
}

// ThemeState is the persisted UI theme preference.
type ThemeState struct {
	Mode ThemeMode `json:"mode"`
}
