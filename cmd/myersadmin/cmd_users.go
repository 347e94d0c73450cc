package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"myersadmin/internal/core"
	"myersadmin/pkg/domain"
)

// userOps binds the user commands to either the users or the support
// engineers operations.
type userOps struct {
	list   func(context.Context, *domain.User, core.Query) (core.Page[domain.User], error)
	create func(context.Context, *domain.User, domain.User) (domain.User, core.Result, error)
	update func(context.Context, *domain.User, domain.User) (domain.User, core.Result, error)
	remove func(context.Context, *domain.User, string) (core.Result, error)
}

func newUsersCmd(a *app) *cobra.Command {
	return newUserCmds(a, "users", "Manage users", func() userOps {
		return userOps{
			list:   a.svc.ListUsers,
			create: a.svc.CreateUser,
			update: a.svc.UpdateUser,
			remove: a.svc.DeleteUser,
		}
	})
}

func newEngineersCmd(a *app) *cobra.Command {
	return newUserCmds(a, "engineers", "Manage support engineers", func() userOps {
		return userOps{
			list:   a.svc.ListSupportEngineers,
			create: a.svc.AddSupportEngineer,
			update: a.svc.EditSupportEngineer,
			remove: a.svc.DeleteSupportEngineer,
		}
	})
}

// newUserCmds builds the command tree. ops is resolved at run time because
// the service only exists after the root pre-run.
func newUserCmds(a *app, use, short string, ops func() userOps) *cobra.Command {
	root := &cobra.Command{Use: use, Short: short}

	var q core.Query
	list := &cobra.Command{
		Use:   "list",
		Short: "List " + use,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := ops().list(cmd.Context(), a.principal(cmd), q)
			if err != nil {
				return done(err)
			}
			rows := make([][]string, 0, len(page.Items))
			for _, u := range page.Items {
				rows = append(rows, []string{u.ID, u.Name, u.Email, string(u.Role), string(u.Status), date(u.CreatedAt)})
			}
			a.table([]string{"ID", "NAME", "EMAIL", "ROLE", "STATUS", "CREATED"}, rows)
			a.pageFooter(page.Page, page.TotalPages, page.Total)
			return nil
		},
	}
	queryFlags(list, &q)
	list.Flags().StringVar(&q.Role, "role", "", "filter by role")

	var in domain.User
	var role, status string
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a " + use[:len(use)-1],
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in.Role, in.Status = domain.Role(role), domain.UserStatus(status)
			out, res, err := ops().create(cmd.Context(), a.principal(cmd), in)
			if err != nil {
				return done(err)
			}
			a.warnings(res)
			fmt.Fprintln(a.stdout, out.ID)
			return nil
		},
	}
	userFlags(add, &in, &role, &status)
	_ = add.MarkFlagRequired("name")
	_ = add.MarkFlagRequired("email")

	var patch domain.User
	var patchRole, patchStatus string
	edit := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a " + use[:len(use)-1],
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, actor := cmd.Context(), a.principal(cmd)
			current, err := a.svc.GetUser(ctx, actor, args[0])
			if err != nil {
				return done(err)
			}
			f := cmd.Flags()
			if f.Changed("name") {
				current.Name = patch.Name
			}
			if f.Changed("email") {
				current.Email = patch.Email
			}
			if f.Changed("role") {
				current.Role = domain.Role(patchRole)
			}
			if f.Changed("status") {
				current.Status = domain.UserStatus(patchStatus)
			}
			out, res, err := ops().update(ctx, actor, current)
			if err != nil {
				return done(err)
			}
			a.warnings(res)
			fmt.Fprintln(a.stdout, out.ID)
			return nil
		},
	}
	userFlags(edit, &patch, &patchRole, &patchStatus)

	remove := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a " + use[:len(use)-1],
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := ops().remove(cmd.Context(), a.principal(cmd), args[0])
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

func userFlags(cmd *cobra.Command, u *domain.User, role, status *string) {
	f := cmd.Flags()
	f.StringVar(&u.Name, "name", "", "full name")
	f.StringVar(&u.Email, "email", "", "email address")
	f.StringVar(role, "role", "", "admin, manager or user")
	f.StringVar(status, "status", "", "active or inactive")
}
