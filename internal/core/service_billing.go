package core

import (
	"context"
	"fmt"
	"strings"

	"myersadmin/internal/notify"
	"myersadmin/pkg/domain"
)

const (
	opInvoiceList     = "invoice.list"
	opInvoiceGet      = "invoice.get"
	opInvoiceCreate   = "invoice.create"
	opInvoiceUpdate   = "invoice.update"
	opInvoiceDelete   = "invoice.delete"
	opPaymentList     = "payment.list"
	opPaymentGet      = "payment.get"
	opPaymentCreate   = "payment.create"
	opPaymentDelete   = "payment.delete"
	opAgreementList   = "service_agreement.list"
	opAgreementGet    = "service_agreement.get"
	opAgreementCreate = "service_agreement.create"
	opAgreementUpdate = "service_agreement.update"
	opAgreementDelete = "service_agreement.delete"
)

// ListInvoices pages invoices matching q.Status and q.DispensaryID. q.Search
// matches the invoice id.
func (s *Service) ListInvoices(ctx context.Context, actor *domain.User, q Query) (Page[domain.Invoice], error) {
	var page Page[domain.Invoice]
	err := s.run(ctx, opInvoiceList, func(ctx context.Context) (notify.Notification, error) {
		if err := s.authorize(actor, domain.EntityInvoice, domain.ActionView); err != nil {
			return notify.Notification{}, err
		}
		page = list(s.invoices.All(ctx), q, s.pageSize, func(inv domain.Invoice) bool {
			return contains(q.Search, inv.ID) && matches(q.Status, inv.Status) && (q.DispensaryID == "" || inv.DispensaryID == q.DispensaryID)
		}, nil)
		return notify.Notification{}, nil
	})
	return page, err
}

// GetInvoice returns the invoice carrying id.
func (s *Service) GetInvoice(ctx context.Context, actor *domain.User, id string) (domain.Invoice, error) {
	var inv domain.Invoice
	err := s.run(ctx, opInvoiceGet, func(ctx context.Context) (notify.Notification, error) {
		if err := s.authorize(actor, domain.EntityInvoice, domain.ActionView); err != nil {
			return notify.Notification{}, err
		}
		var err error
		inv, err = get(ctx, s.invoices, domain.EntityInvoice, id)
		return notify.Notification{}, err
	})
	return inv, err
}

// CreateInvoice bills an existing dispensary. Status defaults to pending and
// a zero amount is taken from the line items.
func (s *Service) CreateInvoice(ctx context.Context, actor *domain.User, in domain.Invoice) (domain.Invoice, Result, error) {
	var res Result
	err := s.run(ctx, opInvoiceCreate, func(ctx context.Context) (notify.Notification, error) {
		if err := s.authorize(actor, domain.EntityInvoice, domain.ActionCreate); err != nil {
			return notify.Notification{}, err
		}
		if _, err := s.requireDispensary(ctx, domain.EntityInvoice, in.DispensaryID); err != nil {
			return notify.Notification{}, err
		}
		if in.Status == "" {
			in.Status = domain.InvoicePending
		}
		normalizeInvoice(&in)
		if in.Amount == 0 {
			for _, item := range in.Items {
				in.Amount += item.Total()
			}
		}
		s.stamp(&in.Base)
		var err error
		res, err = create(ctx, s, s.invoices, domain.EntityInvoice, in)
		if err != nil {
			return notify.Notification{}, err
		}
		return notify.Success("Invoice created", fmt.Sprintf("Invoice for %s created", in.Amount)), nil
	})
	if err != nil {
		return domain.Invoice{}, res, err
	}
	return in, res, nil
}

// UpdateInvoice replaces an invoice. The amount is stored as given: a zero
// amount is not recomputed from the line items.
func (s *Service) UpdateInvoice(ctx context.Context, actor *domain.User, in domain.Invoice) (domain.Invoice, Result, error) {
	var (
		out domain.Invoice
		res Result
	)
	err := s.run(ctx, opInvoiceUpdate, func(ctx context.Context) (notify.Notification, error) {
		if err := s.authorize(actor, domain.EntityInvoice, domain.ActionUpdate); err != nil {
			return notify.Notification{}, err
		}
		if _, err := s.requireDispensary(ctx, domain.EntityInvoice, in.DispensaryID); err != nil {
			return notify.Notification{}, err
		}
		normalizeInvoice(&in)
		var err error
		out, res, err = replace(ctx, s, s.invoices, domain.EntityInvoice, in, func(before domain.Invoice, next *domain.Invoice) error {
			keepCreatedAt(&before.Base, &next.Base)
			return nil
		})
		if err != nil {
			return notify.Notification{}, err
		}
		return notify.Success("Invoice updated", fmt.Sprintf("Invoice %s updated", out.ID)), nil
	})
	return out, res, err
}

// DeleteInvoice removes an invoice that no payment references.
func (s *Service) DeleteInvoice(ctx context.Context, actor *domain.User, id string) (Result, error) {
	var res Result
	err := s.run(ctx, opInvoiceDelete, func(ctx context.Context) (notify.Notification, error) {
		if err := s.authorize(actor, domain.EntityInvoice, domain.ActionDelete); err != nil {
			return notify.Notification{}, err
		}
		for _, p := range s.payments.All(ctx) {
			if p.InvoiceID == id {
				return notify.Notification{}, domain.ValidationError{Entity: domain.EntityInvoice, Reason: fmt.Sprintf("invoice %s has payment %s", id, p.ID)}
			}
		}
		var err error
		res, err = remove(ctx, s, s.invoices, domain.EntityInvoice, id, nil)
		if err != nil {
			return notify.Notification{}, err
		}
		return notify.Success("Invoice deleted", "Invoice deleted successfully"), nil
	})
	return res, err
}

func normalizeInvoice(inv *domain.Invoice) {
	if inv.Items == nil {
		inv.Items = []domain.InvoiceItem{}
	}
	for i := range inv.Items {
		inv.Items[i].Description = strings.TrimSpace(inv.Items[i].Description)
	}
}

// ListPayments pages payments matching q.Status and q.DispensaryID. q.Search
// matches the payment or invoice id.
func (s *Service) ListPayments(ctx context.Context, actor *domain.User, q Query) (Page[domain.Payment], error) {
	var page Page[domain.Payment]
	err := s.run(ctx, opPaymentList, func(ctx context.Context) (notify.Notification, error) {
		if err := s.authorize(actor, domain.EntityPayment, domain.ActionView); err != nil {
			return notify.Notification{}, err
		}
		page = list(s.payments.All(ctx), q, s.pageSize, func(p domain.Payment) bool {
			return contains(q.Search, p.ID, p.InvoiceID) && matches(q.Status, p.Status) && (q.DispensaryID == "" || p.DispensaryID == q.DispensaryID)
		}, nil)
		return notify.Notification{}, nil
	})
	return page, err
}

// GetPayment returns the payment carrying id.
func (s *Service) GetPayment(ctx context.Context, actor *domain.User, id string) (domain.Payment, error) {
	var p domain.Payment
	err := s.run(ctx, opPaymentGet, func(ctx context.Context) (notify.Notification, error) {
		if err := s.authorize(actor, domain.EntityPayment, domain.ActionView); err != nil {
			return notify.Notification{}, err
		}
		var err error
		p, err = get(ctx, s.payments, domain.EntityPayment, id)
		return notify.Notification{}, err
	})
	return p, err
}

// CreatePayment records a payment against an existing invoice. The
// dispensary defaults to the invoice's and must match it. Status defaults to
// processed.
func (s *Service) CreatePayment(ctx context.Context, actor *domain.User, in domain.Payment) (domain.Payment, Result, error) {
	var res Result
	err := s.run(ctx, opPaymentCreate, func(ctx context.Context) (notify.Notification, error) {
		if err := s.authorize(actor, domain.EntityPayment, domain.ActionCreate); err != nil {
			return notify.Notification{}, err
		}
		inv, ok := s.invoices.Find(ctx, in.InvoiceID)
		if !ok {
			return notify.Notification{}, domain.ValidationError{Entity: domain.EntityPayment, Field: "invoiceId", Reason: fmt.Sprintf("invoice %q does not exist", in.InvoiceID)}
		}
		if in.DispensaryID == "" {
			in.DispensaryID = inv.DispensaryID
		}
		if _, err := s.requireDispensary(ctx, domain.EntityPayment, in.DispensaryID); err != nil {
			return notify.Notification{}, err
		}
		if in.DispensaryID != inv.DispensaryID {
			return notify.Notification{}, domain.ValidationError{Entity: domain.EntityPayment, Field: "dispensaryId", Reason: fmt.Sprintf("invoice %s belongs to dispensary %s", inv.ID, inv.DispensaryID)}
		}
		if in.Status == "" {
			in.Status = domain.PaymentProcessed
		}
		s.stamp(&in.Base)
		var err error
		res, err = create(ctx, s, s.payments, domain.EntityPayment, in)
		if err != nil {
			return notify.Notification{}, err
		}
		return notify.Success("Payment recorded", fmt.Sprintf("Payment of %s recorded for invoice %s", in.Amount, inv.ID)), nil
	})
	if err != nil {
		return domain.Payment{}, res, err
	}
	return in, res, nil
}

// DeletePayment removes a payment.
func (s *Service) DeletePayment(ctx context.Context, actor *domain.User, id string) (Result, error) {
	var res Result
	err := s.run(ctx, opPaymentDelete, func(ctx context.Context) (notify.Notification, error) {
		if err := s.authorize(actor, domain.EntityPayment, domain.ActionDelete); err != nil {
			return notify.Notification{}, err
		}
		var err error
		res, err = remove(ctx, s, s.payments, domain.EntityPayment, id, nil)
		if err != nil {
			return notify.Notification{}, err
		}
		return notify.Success("Payment deleted", "Payment deleted successfully"), nil
	})
	return res, err
}

// ListServiceAgreements pages agreements matching q.Status and
// q.DispensaryID. q.Search matches the terms.
func (s *Service) ListServiceAgreements(ctx context.Context, actor *domain.User, q Query) (Page[domain.ServiceAgreement], error) {
	var page Page[domain.ServiceAgreement]
	err := s.run(ctx, opAgreementList, func(ctx context.Context) (notify.Notification, error) {
		if err := s.authorize(actor, domain.EntityServiceAgreement, domain.ActionView); err != nil {
			return notify.Notification{}, err
		}
		page = list(s.agreements.All(ctx), q, s.pageSize, func(a domain.ServiceAgreement) bool {
			return contains(q.Search, a.Terms) && matches(q.Status, a.Status) && (q.DispensaryID == "" || a.DispensaryID == q.DispensaryID)
		}, nil)
		return notify.Notification{}, nil
	})
	return page, err
}

// GetServiceAgreement returns the agreement carrying id.
func (s *Service) GetServiceAgreement(ctx context.Context, actor *domain.User, id string) (domain.ServiceAgreement, error) {
	var a domain.ServiceAgreement
	err := s.run(ctx, opAgreementGet, func(ctx context.Context) (notify.Notification, error) {
		if err := s.authorize(actor, domain.EntityServiceAgreement, domain.ActionView); err != nil {
			return notify.Notification{}, err
		}
		var err error
		a, err = get(ctx, s.agreements, domain.EntityServiceAgreement, id)
		return notify.Notification{}, err
	})
	return a, err
}

// CreateServiceAgreement adds an agreement for an existing dispensary.
// Status defaults to pending; the end date must follow the start date.
func (s *Service) CreateServiceAgreement(ctx context.Context, actor *domain.User, in domain.ServiceAgreement) (domain.ServiceAgreement, Result, error) {
	var res Result
	err := s.run(ctx, opAgreementCreate, func(ctx context.Context) (notify.Notification, error) {
		if err := s.authorize(actor, domain.EntityServiceAgreement, domain.ActionCreate); err != nil {
			return notify.Notification{}, err
		}
		if _, err := s.requireDispensary(ctx, domain.EntityServiceAgreement, in.DispensaryID); err != nil {
			return notify.Notification{}, err
		}
		if in.Status == "" {
			in.Status = domain.AgreementPending
		}
		in.Terms = strings.TrimSpace(in.Terms)
		s.stamp(&in.Base)
		var err error
		res, err = create(ctx, s, s.agreements, domain.EntityServiceAgreement, in)
		if err != nil {
			return notify.Notification{}, err
		}
		return notify.Success("Agreement created", "Service agreement created successfully"), nil
	})
	if err != nil {
		return domain.ServiceAgreement{}, res, err
	}
	return in, res, nil
}

// UpdateServiceAgreement replaces an agreement.
func (s *Service) UpdateServiceAgreement(ctx context.Context, actor *domain.User, in domain.ServiceAgreement) (domain.ServiceAgreement, Result, error) {
	var (
		out domain.ServiceAgreement
		res Result
	)
	err := s.run(ctx, opAgreementUpdate, func(ctx context.Context) (notify.Notification, error) {
		if err := s.authorize(actor, domain.EntityServiceAgreement, domain.ActionUpdate); err != nil {
			return notify.Notification{}, err
		}
		if _, err := s.requireDispensary(ctx, domain.EntityServiceAgreement, in.DispensaryID); err != nil {
			return notify.Notification{}, err
		}
		in.Terms = strings.TrimSpace(in.Terms)
		var err error
		out, res, err = replace(ctx, s, s.agreements, domain.EntityServiceAgreement, in, func(before domain.ServiceAgreement, next *domain.ServiceAgreement) error {
			keepCreatedAt(&before.Base, &next.Base)
			return nil
		})
		if err != nil {
			return notify.Notification{}, err
		}
		return notify.Success("Agreement updated", "Service agreement updated successfully"), nil
	})
	return out, res, err
}

// DeleteServiceAgreement removes an agreement.
func (s *Service) DeleteServiceAgreement(ctx context.Context, actor *domain.User, id string) (Result, error) {
	var res Result
	err := s.run(ctx, opAgreementDelete, func(ctx context.Context) (notify.Notification, error) {
		if err := s.authorize(actor, domain.EntityServiceAgreement, domain.ActionDelete); err != nil {
			return notify.Notification{}, err
		}
		var err error
		res, err = remove(ctx, s, s.agreements, domain.EntityServiceAgreement, id, nil)
		if err != nil {
			return notify.Notification{}, err
		}
		return notify.Success("Agreement deleted", "Service agreement deleted successfully"), nil
	})
	return res, err
}
