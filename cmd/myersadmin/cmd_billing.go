package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"myersadmin/internal/core"
	"myersadmin/pkg/domain"
)

// invoiceInput collects invoice flags before conversion.
type invoiceInput struct {
	dispensary string
	amount     float64
	due        string
	status     string
	items      []string
}

func (in *invoiceInput) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&in.dispensary, "dispensary", "", "dispensary id")
	f.Float64Var(&in.amount, "amount", 0, "total in dollars; derived from items when zero")
	f.StringVar(&in.due, "due", "", "due date (YYYY-MM-DD)")
	f.StringVar(&in.status, "status", "", "pending, paid or overdue")
	f.StringArrayVar(&in.items, "item", nil, "line item as description:quantity:unit-price (repeatable)")
}

func parseItem(raw string) (domain.InvoiceItem, error) {
	parts := strings.Split(raw, ":")
	if len(parts) != 3 {
		return domain.InvoiceItem{}, fmt.Errorf("--item %q: expected description:quantity:unit-price", raw)
	}
	qty, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return domain.InvoiceItem{}, fmt.Errorf("--item %q: quantity: %w", raw, err)
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
	if err != nil {
		return domain.InvoiceItem{}, fmt.Errorf("--item %q: unit price: %w", raw, err)
	}
	return domain.InvoiceItem{Description: strings.TrimSpace(parts[0]), Quantity: qty, UnitPrice: domain.AmountFromFloat(price)}, nil
}

// apply copies the flags the user set onto inv.
func (in *invoiceInput) apply(cmd *cobra.Command, inv *domain.Invoice) error {
	f := cmd.Flags()
	if f.Changed("dispensary") {
		inv.DispensaryID = in.dispensary
	}
	if f.Changed("amount") {
		inv.Amount = domain.AmountFromFloat(in.amount)
	}
	if f.Changed("due") {
		due, err := parseDate("due", in.due)
		if err != nil {
			return err
		}
		inv.DueDate = due
	}
	if f.Changed("status") {
		inv.Status = domain.InvoiceStatus(in.status)
	}
	if f.Changed("item") {
		inv.Items = inv.Items[:0:0]
		for _, raw := range in.items {
			item, err := parseItem(raw)
			if err != nil {
				return err
			}
			inv.Items = append(inv.Items, item)
		}
	}
	return nil
}

func newInvoicesCmd(a *app) *cobra.Command {
	root := &cobra.Command{Use: "invoices", Short: "Manage invoices"}

	var q core.Query
	list := &cobra.Command{
		Use:   "list",
		Short: "List invoices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := a.svc.ListInvoices(cmd.Context(), a.principal(cmd), q)
			if err != nil {
				return done(err)
			}
			rows := make([][]string, 0, len(page.Items))
			for _, inv := range page.Items {
				rows = append(rows, []string{inv.ID, inv.DispensaryID, inv.Amount.String(), date(inv.DueDate), string(inv.Status), strconv.Itoa(len(inv.Items))})
			}
			a.table([]string{"ID", "DISPENSARY", "AMOUNT", "DUE", "STATUS", "ITEMS"}, rows)
			a.pageFooter(page.Page, page.TotalPages, page.Total)
			return nil
		},
	}
	queryFlags(list, &q)
	list.Flags().StringVar(&q.DispensaryID, "dispensary", "", "filter by dispensary id")

	var addIn invoiceInput
	add := &cobra.Command{
		Use:   "add",
		Short: "Create an invoice",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var inv domain.Invoice
			if err := addIn.apply(cmd, &inv); err != nil {
				return err
			}
			out, res, err := a.svc.CreateInvoice(cmd.Context(), a.principal(cmd), inv)
			if err != nil {
				return done(err)
			}
			a.warnings(res)
			fmt.Fprintf(a.stdout, "%s %s\n", out.ID, out.Amount)
			return nil
		},
	}
	addIn.bind(add)
	_ = add.MarkFlagRequired("dispensary")
	_ = add.MarkFlagRequired("due")

	var editIn invoiceInput
	edit := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an invoice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, actor := cmd.Context(), a.principal(cmd)
			current, err := a.svc.GetInvoice(ctx, actor, args[0])
			if err != nil {
				return done(err)
			}
			if err := editIn.apply(cmd, &current); err != nil {
				return err
			}
			out, res, err := a.svc.UpdateInvoice(ctx, actor, current)
			if err != nil {
				return done(err)
			}
			a.warnings(res)
			fmt.Fprintf(a.stdout, "%s %s\n", out.ID, out.Amount)
			return nil
		},
	}
	editIn.bind(edit)

	remove := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an invoice without payments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.svc.DeleteInvoice(cmd.Context(), a.principal(cmd), args[0])
			if err != nil {
				return done(err)
			}
			a.warnings(res)
			return nil
		},
	}

	root.AddCommand(list, add, edit, remove)
	return root
}

func newPaymentsCmd(a *app) *cobra.Command {
	root := &cobra.Command{Use: "payments", Short: "Manage payments"}

	var q core.Query
	list := &cobra.Command{
		Use:   "list",
		Short: "List payments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := a.svc.ListPayments(cmd.Context(), a.principal(cmd), q)
			if err != nil {
				return done(err)
			}
			rows := make([][]string, 0, len(page.Items))
			for _, p := range page.Items {
				rows = append(rows, []string{p.ID, p.InvoiceID, p.DispensaryID, p.Amount.String(), string(p.Method), string(p.Status), date(p.CreatedAt)})
			}
			a.table([]string{"ID", "INVOICE", "DISPENSARY", "AMOUNT", "METHOD", "STATUS", "DATE"}, rows)
			a.pageFooter(page.Page, page.TotalPages, page.Total)
			return nil
		},
	}
	queryFlags(list, &q)
	list.Flags().StringVar(&q.DispensaryID, "dispensary", "", "filter by dispensary id")

	var (
		in             domain.Payment
		amount         float64
		method, status string
	)
	add := &cobra.Command{
		Use:   "add",
		Short: "Record a payment against an invoice",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in.Amount = domain.AmountFromFloat(amount)
			in.Method, in.Status = domain.PaymentMethod(method), domain.PaymentStatus(status)
			out, res, err := a.svc.CreatePayment(cmd.Context(), a.principal(cmd), in)
			if err != nil {
				return done(err)
			}
			a.warnings(res)
			fmt.Fprintf(a.stdout, "%s %s\n", out.ID, out.Amount)
			return nil
		},
	}
	f := add.Flags()
	f.StringVar(&in.InvoiceID, "invoice", "", "invoice id")
	f.StringVar(&in.DispensaryID, "dispensary", "", "dispensary id; defaults to the invoice's")
	f.Float64Var(&amount, "amount", 0, "amount in dollars")
	f.StringVar(&method, "method", string(domain.MethodBankTransfer), "credit_card, bank_transfer, check or cash")
	f.StringVar(&status, "status", "", "processed, failed or refunded")
	_ = add.MarkFlagRequired("invoice")
	_ = add.MarkFlagRequired("amount")

	remove := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a payment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.svc.DeletePayment(cmd.Context(), a.principal(cmd), args[0])
			if err != nil {
				return done(err)
			}
			a.warnings(res)
			return nil
		},
	}

	root.AddCommand(list, add, remove)
	return root
}

// agreementInput collects agreement flags before conversion.
type agreementInput struct {
	dispensary string
	start, end string
	status     string
	terms      string
}

func (in *agreementInput) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&in.dispensary, "dispensary", "", "dispensary id")
	f.StringVar(&in.start, "start", "", "start date (YYYY-MM-DD)")
	f.StringVar(&in.end, "end", "", "end date (YYYY-MM-DD)")
	f.StringVar(&in.status, "status", "", "active, pending, expired or terminated")
	f.StringVar(&in.terms, "terms", "", "contract terms")
}

func (in *agreementInput) apply(cmd *cobra.Command, sa *domain.ServiceAgreement) error {
	f := cmd.Flags()
	if f.Changed("dispensary") {
		sa.DispensaryID = in.dispensary
	}
	if f.Changed("start") {
		t, err := parseDate("start", in.start)
		if err != nil {
			return err
		}
		sa.StartDate = t
	}
	if f.Changed("end") {
		t, err := parseDate("end", in.end)
		if err != nil {
			return err
		}
		sa.EndDate = t
	}
	if f.Changed("status") {
		sa.Status = domain.AgreementStatus(in.status)
	}
	if f.Changed("terms") {
		sa.Terms = in.terms
	}
	return nil
}

func newAgreementsCmd(a *app) *cobra.Command {
	root := &cobra.Command{Use: "agreements", Short: "Manage service agreements"}

	var q core.Query
	list := &cobra.Command{
		Use:   "list",
		Short: "List service agreements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := a.svc.ListServiceAgreements(cmd.Context(), a.principal(cmd), q)
			if err != nil {
				return done(err)
			}
			rows := make([][]string, 0, len(page.Items))
			for _, sa := range page.Items {
				rows = append(rows, []string{sa.ID, sa.DispensaryID, date(sa.StartDate), date(sa.EndDate), string(sa.Status)})
			}
			a.table([]string{"ID", "DISPENSARY", "START", "END", "STATUS"}, rows)
			a.pageFooter(page.Page, page.TotalPages, page.Total)
			return nil
		},
	}
	queryFlags(list, &q)
	list.Flags().StringVar(&q.DispensaryID, "dispensary", "", "filter by dispensary id")

	var addIn agreementInput
	add := &cobra.Command{
		Use:   "add",
		Short: "Create a service agreement",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var sa domain.ServiceAgreement
			if err := addIn.apply(cmd, &sa); err != nil {
				return err
			}
			out, res, err := a.svc.CreateServiceAgreement(cmd.Context(), a.principal(cmd), sa)
			if err != nil {
				return done(err)
			}
			a.warnings(res)
			fmt.Fprintln(a.stdout, out.ID)
			return nil
		},
	}
	addIn.bind(add)
	for _, name := range []string{"dispensary", "start", "end"} {
		_ = add.MarkFlagRequired(name)
	}

	var editIn agreementInput
	edit := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a service agreement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, actor := cmd.Context(), a.principal(cmd)
			current, err := a.svc.GetServiceAgreement(ctx, actor, args[0])
			if err != nil {
				return done(err)
			}
			if err := editIn.apply(cmd, &current); err != nil {
				return err
			}
			out, res, err := a.svc.UpdateServiceAgreement(ctx, actor, current)
			if err != nil {
				return done(err)
			}
			a.warnings(res)
			fmt.Fprintln(a.stdout, out.ID)
			return nil
		},
	}
	editIn.bind(edit)

	remove := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a service agreement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.svc.DeleteServiceAgreement(cmd.Context(), a.principal(cmd), args[0])
			if err != nil {
				return done(err)
			}
			a.warnings(res)
			return nil
		},
	}

	root.AddCommand(list, add, edit, remove)
	return root
}
