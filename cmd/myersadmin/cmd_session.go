package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"myersadmin/internal/access"
	"myersadmin/pkg/domain"
)

func newLoginCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login <email>",
		Short: "Start a session as the active user with this email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.svc.Login(cmd.Context(), args[0])
			if err != nil {
				return done(err)
			}
			fmt.Fprintf(a.stdout, "%s <%s> (%s)\n", user.Name, user.Email, user.Role)
			return nil
		},
	}
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return done(a.svc.Logout(cmd.Context()))
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user := a.principal(cmd)
			if user == nil {
				return domain.ErrUnauthenticated
			}
			fmt.Fprintf(a.stdout, "%s <%s> (%s)\n", user.Name, user.Email, user.Role)
			return nil
		},
	}
}

func newMenuCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "List the navigation entries visible to the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var role domain.Role
			if user := a.principal(cmd); user != nil {
				role = user.Role
			}
			rows := [][]string{}
			for _, item := range access.VisibleMenu(role) {
				rows = append(rows, []string{item.Title, item.Path})
			}
			a.table([]string{"TITLE", "PATH"}, rows)
			return nil
		},
	}
}

func newDashboardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show summary counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := a.svc.Dashboard(cmd.Context(), a.principal(cmd))
			if err != nil {
				return done(err)
			}
			fmt.Fprintf(a.stdout, "users: %d (%d active)\n", d.TotalUsers, d.ActiveUsers)
			fmt.Fprintf(a.stdout, "dispensaries: %d (open %d, maintenance %d, closed %d)\n",
				d.TotalDispensaries,
				d.DispensariesByStatus[domain.DispensaryOpen],
				d.DispensariesByStatus[domain.DispensaryUnderMaintenance],
				d.DispensariesByStatus[domain.DispensaryClosed])
			fmt.Fprintf(a.stdout, "requests: pending %d, in progress %d, resolved %d\n",
				d.RequestsByStatus[domain.RequestPending],
				d.RequestsByStatus[domain.RequestInProgress],
				d.RequestsByStatus[domain.RequestResolved])
			rows := make([][]string, 0, len(d.RequestsPerDay))
			for _, day := range d.RequestsPerDay {
				rows = append(rows, []string{day.Date, strconv.Itoa(day.Count)})
			}
			a.table([]string{"DAY", "REQUESTS"}, rows)
			return nil
		},
	}
}

func newThemeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark|toggle]",
		Short:     "Show or change the theme preference",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"light", "dark", "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			switch {
			case len(args) == 0:
			case args[0] == "toggle":
				if _, err := a.svc.ToggleTheme(ctx); err != nil {
					return done(err)
				}
			default:
				if err := a.svc.SetTheme(ctx, domain.ThemeMode(args[0])); err != nil {
					return done(err)
				}
			}
			fmt.Fprintln(a.stdout, a.svc.Theme(ctx))
			return nil
		},
	}
}
