package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"myersadmin/internal/core"
	"myersadmin/pkg/domain"
)

func newRequestsCmd(a *app) *cobra.Command {
	root := &cobra.Command{Use: "requests", Short: "Manage service requests"}

	var q core.Query
	list := &cobra.Command{
		Use:   "list",
		Short: "List service requests, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := a.svc.ListServiceRequests(cmd.Context(), a.principal(cmd), q)
			if err != nil {
				return done(err)
			}
			rows := make([][]string, 0, len(page.Items))
			for _, r := range page.Items {
				rows = append(rows, []string{r.ID, r.Title, r.DispensaryID, string(r.Status), string(r.Priority), strconv.Itoa(len(r.ResponseNotes)), date(r.CreatedAt)})
			}
			a.table([]string{"ID", "TITLE", "DISPENSARY", "STATUS", "PRIORITY", "NOTES", "CREATED"}, rows)
			a.pageFooter(page.Page, page.TotalPages, page.Total)
			return nil
		},
	}
	queryFlags(list, &q)
	list.Flags().StringVar(&q.Priority, "priority", "", "filter by priority")
	list.Flags().StringVar(&q.DispensaryID, "dispensary", "", "filter by dispensary id")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a request with its notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.svc.GetServiceRequest(cmd.Context(), a.principal(cmd), args[0])
			if err != nil {
				return done(err)
			}
			fmt.Fprintf(a.stdout, "%s  %s\n", r.ID, r.Title)
			fmt.Fprintf(a.stdout, "status: %s  priority: %s  dispensary: %s\n", r.Status, r.Priority, r.DispensaryID)
			if r.ResolvedAt != nil {
				fmt.Fprintf(a.stdout, "resolved: %s\n", date(*r.ResolvedAt))
			}
			if r.Description != "" {
				fmt.Fprintln(a.stdout, r.Description)
			}
			for _, n := range r.ResponseNotes {
				fmt.Fprintf(a.stdout, "- %s (%s, %s)\n", n.Text, n.CreatedBy, date(n.CreatedAt))
			}
			return nil
		},
	}

	var in domain.ServiceRequest
	var priority string
	add := &cobra.Command{
		Use:   "add",
		Short: "Open a service request",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in.Priority = domain.RequestPriority(priority)
			out, res, err := a.svc.CreateServiceRequest(cmd.Context(), a.principal(cmd), in)
			if err != nil {
				return done(err)
			}
			a.warnings(res)
			fmt.Fprintln(a.stdout, out.ID)
			return nil
		},
	}
	requestFlags(add, &in, &priority)
	_ = add.MarkFlagRequired("title")
	_ = add.MarkFlagRequired("dispensary")

	var patch domain.ServiceRequest
	var patchPriority string
	edit := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit title, description, priority or dispensary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, actor := cmd.Context(), a.principal(cmd)
			current, err := a.svc.GetServiceRequest(ctx, actor, args[0])
			if err != nil {
				return done(err)
			}
			f := cmd.Flags()
			if f.Changed("title") {
				current.Title = patch.Title
			}
			if f.Changed("description") {
				current.Description = patch.Description
			}
			if f.Changed("priority") {
				current.Priority = domain.RequestPriority(patchPriority)
			}
			if f.Changed("dispensary") {
				current.DispensaryID = patch.DispensaryID
			}
			out, res, err := a.svc.UpdateServiceRequest(ctx, actor, current)
			if err != nil {
				return done(err)
			}
			a.warnings(res)
			fmt.Fprintln(a.stdout, out.ID)
			return nil
		},
	}
	requestFlags(edit, &patch, &patchPriority)

	remove := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a service request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.svc.DeleteServiceRequest(cmd.Context(), a.principal(cmd), args[0])
			if err != nil {
				return done(err)
			}
			a.warnings(res)
			return nil
		},
	}

	respond := &cobra.Command{
		Use:   "respond <id> <text>",
		Short: "Add a response note",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := a.svc.AddResponseNote(cmd.Context(), a.principal(cmd), args[0], args[1])
			if err != nil {
				return done(err)
			}
			fmt.Fprintln(a.stdout, out.Status)
			return nil
		},
	}

	status := &cobra.Command{
		Use:       "status <id> <pending|in-progress|resolved>",
		Short:     "Change the request status",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"pending", "in-progress", "resolved"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := a.svc.UpdateServiceRequestStatus(cmd.Context(), a.principal(cmd), args[0], domain.RequestStatus(args[1]))
			if err != nil {
				return done(err)
			}
			fmt.Fprintln(a.stdout, out.Status)
			return nil
		},
	}

	root.AddCommand(list, show, add, edit, remove, respond, status)
	return root
}

func requestFlags(cmd *cobra.Command, r *domain.ServiceRequest, priority *string) {
	f := cmd.Flags()
	f.StringVar(&r.Title, "title", "", "short summary")
	f.StringVarP(&r.Description, "description", "d", "", "details")
	f.StringVar(priority, "priority", "", "low, medium or high")
	f.StringVar(&r.DispensaryID, "dispensary", "", "dispensary id")
}
