package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"myersadmin/internal/core"
	"myersadmin/pkg/domain"
)

func newDispensariesCmd(a *app) *cobra.Command {
	root := &cobra.Command{Use: "dispensaries", Aliases: []string{"disp"}, Short: "Manage dispensaries"}

	var q core.Query
	list := &cobra.Command{
		Use:   "list",
		Short: "List dispensaries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := a.svc.ListDispensaries(cmd.Context(), a.principal(cmd), q)
			if err != nil {
				return done(err)
			}
			rows := make([][]string, 0, len(page.Items))
			for _, d := range page.Items {
				rows = append(rows, []string{d.ID, d.Name, d.Address, string(d.Category), string(d.Status), strings.Join(d.Engineers, ",")})
			}
			a.table([]string{"ID", "NAME", "ADDRESS", "CATEGORY", "STATUS", "ENGINEERS"}, rows)
			a.pageFooter(page.Page, page.TotalPages, page.Total)
			return nil
		},
	}
	queryFlags(list, &q)
	list.Flags().StringVar(&q.Category, "category", "", "filter by category")

	var in domain.Dispensary
	var category, status string
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a dispensary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in.Category, in.Status = domain.DispensaryCategory(category), domain.DispensaryStatus(status)
			out, res, err := a.svc.CreateDispensary(cmd.Context(), a.principal(cmd), in)
			if err != nil {
				return done(err)
			}
			a.warnings(res)
			fmt.Fprintln(a.stdout, out.ID)
			return nil
		},
	}
	dispensaryFlags(add, &in, &category, &status)
	_ = add.MarkFlagRequired("name")
	_ = add.MarkFlagRequired("address")
	_ = add.MarkFlagRequired("category")

	var patch domain.Dispensary
	var patchCategory, patchStatus string
	edit := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a dispensary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, actor := cmd.Context(), a.principal(cmd)
			current, err := a.svc.GetDispensary(ctx, actor, args[0])
			if err != nil {
				return done(err)
			}
			f := cmd.Flags()
			if f.Changed("name") {
				current.Name = patch.Name
			}
			if f.Changed("address") {
				current.Address = patch.Address
			}
			if f.Changed("category") {
				current.Category = domain.DispensaryCategory(patchCategory)
			}
			if f.Changed("status") {
				current.Status = domain.DispensaryStatus(patchStatus)
			}
			out, res, err := a.svc.UpdateDispensary(ctx, actor, current)
			if err != nil {
				return done(err)
			}
			a.warnings(res)
			fmt.Fprintln(a.stdout, out.ID)
			return nil
		},
	}
	dispensaryFlags(edit, &patch, &patchCategory, &patchStatus)

	remove := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a dispensary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.svc.DeleteDispensary(cmd.Context(), a.principal(cmd), args[0])
			if err != nil {
				return done(err)
			}
			a.warnings(res)
			return nil
		},
	}

	assign := &cobra.Command{
		Use:   "assign <dispensary-id> <engineer-id>",
		Short: "Assign a support engineer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := a.svc.AssignEngineer(cmd.Context(), a.principal(cmd), args[0], args[1])
			if err != nil {
				return done(err)
			}
			fmt.Fprintln(a.stdout, strings.Join(out.Engineers, ","))
			return nil
		},
	}

	unassign := &cobra.Command{
		Use:   "unassign <dispensary-id> <engineer-id>",
		Short: "Remove a support engineer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := a.svc.UnassignEngineer(cmd.Context(), a.principal(cmd), args[0], args[1])
			if err != nil {
				return done(err)
			}
			fmt.Fprintln(a.stdout, strings.Join(out.Engineers, ","))
			return nil
		},
	}

	root.AddCommand(list, add, edit, remove, assign, unassign)
	return root
}

func dispensaryFlags(cmd *cobra.Command, d *domain.Dispensary, category, status *string) {
	f := cmd.Flags()
	f.StringVar(&d.Name, "name", "", "dispensary name")
	f.StringVar(&d.Address, "address", "", "street address")
	f.StringVar(category, "category", "", "medical, recreational or both")
	f.StringVar(status, "status", "", "open, under-maintenance or closed")
}
