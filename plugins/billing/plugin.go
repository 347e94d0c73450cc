// Package billing contributes advisory rules for invoices and payments.
package billing

import (
	"context"
	"fmt"

	"myersadmin/internal/core"
)

const (
	ruleInvoiceTotal   = "invoice_total_matches_items"
	rulePaymentAmounts = "payment_within_invoice"
)

// Plugin registers the billing consistency rules.
type Plugin struct{}

// New constructs a billing plugin instance.
func New() Plugin {
	return Plugin{}
}

// Name returns the plugin identifier.
func (Plugin) Name() string { return "billing" }

// Version returns the plugin semantic version.
func (Plugin) Version() string { return "0.1.0" }

// Register wires the billing rules.
func (Plugin) Register(registry *core.PluginRegistry) error {
	registry.RegisterRule(invoiceTotalRule{})
	registry.RegisterRule(paymentAmountRule{})
	return nil
}

type invoiceTotalRule struct{}

func (invoiceTotalRule) Name() string { return ruleInvoiceTotal }

func (invoiceTotalRule) Evaluate(_ context.Context, _ core.RuleView, changes []core.Change) (core.Result, error) {
	var result core.Result
	for _, change := range changes {
		if change.Entity != core.EntityInvoice || change.Action == core.ActionDelete {
			continue
		}
		invoice, ok := change.After.(core.Invoice)
		if !ok || len(invoice.Items) == 0 {
			continue
		}
		var sum core.Amount
		for _, item := range invoice.Items {
			sum += item.Total()
		}
		if sum == invoice.Amount {
			continue
		}
		result.Violations = append(result.Violations, core.Violation{
			Rule:     ruleInvoiceTotal,
			Severity: core.SeverityWarn,
			Message:  fmt.Sprintf("invoice amount %s differs from line item total %s", invoice.Amount, sum),
			Entity:   core.EntityInvoice,
			EntityID: invoice.ID,
		})
	}
	return result, nil
}

type paymentAmountRule struct{}

func (paymentAmountRule) Name() string { return rulePaymentAmounts }

func (paymentAmountRule) Evaluate(_ context.Context, view core.RuleView, changes []core.Change) (core.Result, error) {
	var result core.Result
	for _, change := range changes {
		if change.Entity != core.EntityPayment || change.Action != core.ActionCreate {
			continue
		}
		payment, ok := change.After.(core.Payment)
		if !ok {
			continue
		}
		invoice, ok := view.FindInvoice(payment.InvoiceID)
		if !ok || payment.Amount <= invoice.Amount {
			continue
		}
		result.Violations = append(result.Violations, core.Violation{
			Rule:     rulePaymentAmounts,
			Severity: core.SeverityWarn,
			Message:  fmt.Sprintf("payment of %s exceeds invoice %s amount %s", payment.Amount, invoice.ID, invoice.Amount),
			Entity:   core.EntityPayment,
			EntityID: payment.ID,
		})
	}
	return result, nil
}
