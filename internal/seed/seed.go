// Package seed holds the built-in default collections written to an empty
// slot on first load.
package seed

import (
	"time"

	"myersadmin/pkg/domain"
)

// Data bundles the default contents of every collection.
type Data struct {
	Users             []domain.User
	Dispensaries      []domain.Dispensary
	ServiceRequests   []domain.ServiceRequest
	Invoices          []domain.Invoice
	Payments          []domain.Payment
	ServiceAgreements []domain.ServiceAgreement
	KnowledgeBase     []domain.KnowledgeBaseEntry
}

// Empty returns a Data with empty, non-nil collections.
func Empty() Data {
	return Data{
		Users:             []domain.User{},
		Dispensaries:      []domain.Dispensary{},
		ServiceRequests:   []domain.ServiceRequest{},
		Invoices:          []domain.Invoice{},
		Payments:          []domain.Payment{},
		ServiceAgreements: []domain.ServiceAgreement{},
		KnowledgeBase:     []domain.KnowledgeBaseEntry{},
	}
}

func at(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return t
}

func base(id, created string) domain.Base {
	return domain.Base{ID: id, CreatedAt: at(created)}
}

// Default returns the stock dataset: three staff accounts, three dispensaries
// and a small billing history. Every call returns fresh slices.
func Default() Data {
	resolved3 := at("2023-04-07T16:30:00Z")
	resolved5 := at("2023-04-03T15:00:00Z")
	return Data{
		Users: []domain.User{
			{Base: base("user-001", "2023-01-01T00:00:00Z"), Name: "Admin User", Email: "admin@myerssecurity.com", Role: domain.RoleAdmin, Status: domain.UserActive},
			{Base: base("user-002", "2023-01-02T00:00:00Z"), Name: "Manager User", Email: "manager@myerssecurity.com", Role: domain.RoleManager, Status: domain.UserActive},
			{Base: base("user-003", "2023-01-03T00:00:00Z"), Name: "Regular User", Email: "user@myerssecurity.com", Role: domain.RoleUser, Status: domain.UserActive},
		},
		Dispensaries: []domain.Dispensary{
			{Base: base("disp-001", "2023-02-15T00:00:00Z"), Name: "Green Leaf Dispensary", Address: "123 Main St, Anytown", Category: domain.CategoryMedical, Status: domain.DispensaryOpen, Engineers: []string{}},
			{Base: base("disp-002", "2023-03-01T00:00:00Z"), Name: "Herbal Wellness", Address: "456 Elm St, Anytown", Category: domain.CategoryRecreational, Status: domain.DispensaryClosed, Engineers: []string{}},
			{Base: base("disp-003", "2023-03-15T00:00:00Z"), Name: "MediGreen", Address: "789 Oak St, Anytown", Category: domain.CategoryBoth, Status: domain.DispensaryOpen, Engineers: []string{}},
		},
		ServiceRequests: []domain.ServiceRequest{
			{
				Base:          base("sr-001", "2023-04-15T08:30:00Z"),
				Title:         "Security System Malfunction",
				Description:   "Main entrance security camera is not recording properly.",
				Status:        domain.RequestPending,
				Priority:      domain.PriorityHigh,
				DispensaryID:  "disp-001",
				ResponseNotes: []domain.ResponseNote{},
			},
			{
				Base:         base("sr-002", "2023-04-10T14:15:00Z"),
				Title:        "Alarm System False Triggers",
				Description:  "The alarm system has been triggering without apparent reason during closing hours.",
				Status:       domain.RequestInProgress,
				Priority:     domain.PriorityMedium,
				DispensaryID: "disp-002",
				ResponseNotes: []domain.ResponseNote{
					{ID: "note-001", Text: "Initial investigation shows sensor malfunction. Replacement ordered.", CreatedAt: at("2023-04-11T09:22:00Z"), CreatedBy: "user-002"},
				},
			},
			{
				Base:         base("sr-003", "2023-04-05T11:45:00Z"),
				Title:        "Access Control Issue",
				Description:  "Staff are having trouble with their access cards at the storage room door.",
				Status:       domain.RequestResolved,
				Priority:     domain.PriorityLow,
				DispensaryID: "disp-003",
				ResolvedAt:   &resolved3,
				ResponseNotes: []domain.ResponseNote{
					{ID: "note-002", Text: "Reader was recalibrated and cards were reprogrammed successfully.", CreatedAt: at("2023-04-06T13:40:00Z"), CreatedBy: "user-003"},
					{ID: "note-003", Text: "Issue resolved, no further action needed.", CreatedAt: at("2023-04-07T16:28:00Z"), CreatedBy: "user-003"},
				},
			},
			{
				Base:          base("sr-004", "2023-04-16T10:20:00Z"),
				Title:         "Emergency Exit Door Alarm",
				Description:   "Emergency exit door alarm is not sounding when the door is opened",
				Status:        domain.RequestPending,
				Priority:      domain.PriorityHigh,
				DispensaryID:  "disp-001",
				ResponseNotes: []domain.ResponseNote{},
			},
			{
				Base:         base("sr-005", "2023-04-01T09:00:00Z"),
				Title:        "Security System Training Request",
				Description:  "New staff members need training on the security systems",
				Status:       domain.RequestResolved,
				Priority:     domain.PriorityMedium,
				DispensaryID: "disp-002",
				ResolvedAt:   &resolved5,
				ResponseNotes: []domain.ResponseNote{
					{ID: "note-004", Text: "Training session scheduled for April 3rd.", CreatedAt: at("2023-04-01T15:10:00Z"), CreatedBy: "user-002"},
					{ID: "note-005", Text: "Training completed successfully with 5 staff members.", CreatedAt: at("2023-04-03T15:00:00Z"), CreatedBy: "user-001"},
				},
			},
		},
		Invoices: []domain.Invoice{
			{Base: base("inv-001", "2023-04-01T00:00:00Z"), DispensaryID: "disp-001", Amount: domain.AmountFromFloat(500), DueDate: at("2023-04-30T00:00:00Z"), Status: domain.InvoicePaid, Items: []domain.InvoiceItem{}},
			{Base: base("inv-002", "2023-04-15T00:00:00Z"), DispensaryID: "disp-002", Amount: domain.AmountFromFloat(750), DueDate: at("2023-05-15T00:00:00Z"), Status: domain.InvoicePending, Items: []domain.InvoiceItem{}},
			{Base: base("inv-003", "2023-05-01T00:00:00Z"), DispensaryID: "disp-003", Amount: domain.AmountFromFloat(1000), DueDate: at("2023-05-31T00:00:00Z"), Status: domain.InvoicePaid, Items: []domain.InvoiceItem{}},
		},
		Payments: []domain.Payment{
			{Base: base("pay-001", "2023-04-28T00:00:00Z"), InvoiceID: "inv-001", DispensaryID: "disp-001", Amount: domain.AmountFromFloat(500), Method: domain.MethodCreditCard, Status: domain.PaymentProcessed},
			{Base: base("pay-002", "2023-05-29T00:00:00Z"), InvoiceID: "inv-003", DispensaryID: "disp-003", Amount: domain.AmountFromFloat(1000), Method: domain.MethodBankTransfer, Status: domain.PaymentProcessed},
		},
		ServiceAgreements: []domain.ServiceAgreement{
			{Base: base("sa-001", "2023-01-01T00:00:00Z"), DispensaryID: "disp-001", StartDate: at("2023-01-01T00:00:00Z"), EndDate: at("2023-12-31T00:00:00Z"), Terms: "Standard security services agreement.", Status: domain.AgreementActive},
			{Base: base("sa-002", "2023-02-01T00:00:00Z"), DispensaryID: "disp-002", StartDate: at("2023-02-01T00:00:00Z"), EndDate: at("2024-01-31T00:00:00Z"), Terms: "Enhanced security services agreement.", Status: domain.AgreementActive},
			{Base: base("sa-003", "2023-03-01T00:00:00Z"), DispensaryID: "disp-003", StartDate: at("2023-03-01T00:00:00Z"), EndDate: at("2024-02-29T00:00:00Z"), Terms: "Premium security services agreement.", Status: domain.AgreementActive},
		},
		KnowledgeBase: []domain.KnowledgeBaseEntry{},
	}
}
