package core

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"myersadmin/internal/access"
	"myersadmin/internal/notify"
	"myersadmin/pkg/domain"
)

func TestUserRoleCannotDeleteUsers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	before := f.svc.users.All(ctx)

	_, err := f.svc.DeleteUser(ctx, f.engineer, f.manager.ID)
	if !domain.IsForbidden(err) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if diff := cmp.Diff(before, f.svc.users.All(ctx)); diff != "" {
		t.Fatalf("users changed after rejected delete:\n%s", diff)
	}
	n := f.last(t)
	if !n.Destructive() || n.Title != "Access denied" {
		t.Fatalf("expected destructive access denied, got %+v", n)
	}
	if len(f.notes.All()) != 1 {
		t.Fatalf("expected exactly one notification, got %d", len(f.notes.All()))
	}
}

func TestAdminCannotChangeOwnRole(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	edit := *f.admin
	edit.Role = domain.RoleManager
	_, _, err := f.svc.UpdateUser(ctx, f.admin, edit)
	var fe domain.ForbiddenError
	if !errors.As(err, &fe) || fe.Reason != access.MsgOwnRole {
		t.Fatalf("expected own-role rejection, got %v", err)
	}
	stored, _ := f.svc.GetUser(ctx, f.admin, f.admin.ID)
	if stored.Role != domain.RoleAdmin {
		t.Fatalf("role changed despite rejection")
	}
	if n := f.last(t); n.Description != access.MsgOwnRole || !n.Destructive() {
		t.Fatalf("unexpected notification %+v", n)
	}

	edit = *f.admin
	edit.Name = "Chief Admin"
	got, _, err := f.svc.UpdateUser(ctx, f.admin, edit)
	if err != nil || got.Name != "Chief Admin" {
		t.Fatalf("editing own name should succeed: %+v %v", got, err)
	}
}

func TestAdminCannotDeleteSelf(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.DeleteUser(context.Background(), f.admin, f.admin.ID)
	var fe domain.ForbiddenError
	if !errors.As(err, &fe) || fe.Reason != access.MsgOwnAccount {
		t.Fatalf("expected own-account rejection, got %v", err)
	}
}

func TestManagerCannotGrantAdmin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	promote := *f.engineer
	promote.Role = domain.RoleAdmin
	if _, _, err := f.svc.UpdateUser(ctx, f.manager, promote); !domain.IsForbidden(err) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if _, _, err := f.svc.CreateUser(ctx, f.manager, domain.User{Name: "Root", Email: "root@myers.test", Role: domain.RoleAdmin}); !domain.IsForbidden(err) {
		t.Fatalf("expected forbidden create, got %v", err)
	}
	if _, _, err := f.svc.UpdateUser(ctx, f.admin, promote); err != nil {
		t.Fatalf("admin may grant admin: %v", err)
	}
}

func TestCreateUserDefaultsAndDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	got, _, err := f.svc.CreateUser(ctx, f.manager, domain.User{Name: " Dana ", Email: "dana@myers.test"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	want := domain.User{Base: domain.Base{ID: "id-001", CreatedAt: testNow}, Name: "Dana", Email: "dana@myers.test", Role: domain.RoleUser, Status: domain.UserActive}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("created user mismatch (-want +got):\n%s", diff)
	}
	if n := f.last(t); n.Title != "Success" || n.Description != "User added successfully" {
		t.Fatalf("unexpected notification %+v", n)
	}

	_, _, err = f.svc.CreateUser(ctx, f.admin, domain.User{Name: "Dup", Email: "ADMIN@myerssecurity.com"})
	var ve domain.ValidationError
	if !errors.As(err, &ve) || ve.Reason != MsgDuplicateEmail {
		t.Fatalf("expected duplicate email, got %v", err)
	}
	rename := got
	rename.Email = "manager@myerssecurity.com"
	if _, _, err := f.svc.UpdateUser(ctx, f.admin, rename); !errors.As(err, &ve) || ve.Field != "email" {
		t.Fatalf("expected duplicate email on update, got %v", err)
	}
	rename.Email = "DANA@myers.test"
	if _, _, err := f.svc.UpdateUser(ctx, f.admin, rename); err != nil {
		t.Fatalf("keeping own email must not count as duplicate: %v", err)
	}
	if _, _, err := f.svc.CreateUser(ctx, f.admin, domain.User{Name: "Bad", Email: "not-an-email"}); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateUserKeepsCreatedAtAndRejectsUnknown(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	edit := *f.engineer
	edit.CreatedAt = testNow
	edit.Status = domain.UserInactive
	got, _, err := f.svc.UpdateUser(ctx, f.manager, edit)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !got.CreatedAt.Equal(f.engineer.CreatedAt) || got.Status != domain.UserInactive {
		t.Fatalf("unexpected update result %+v", got)
	}
	ghost := edit
	ghost.ID = "user-404"
	if _, _, err := f.svc.UpdateUser(ctx, f.manager, ghost); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListUsersFilters(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	page, err := f.svc.ListUsers(ctx, f.manager, Query{Search: "MANAGER"})
	if err != nil || page.Total != 1 || page.Items[0].ID != f.manager.ID {
		t.Fatalf("search by name: %+v %v", page, err)
	}
	page, _ = f.svc.ListUsers(ctx, f.manager, Query{Role: "admin"})
	if page.Total != 1 || page.Items[0].Role != domain.RoleAdmin {
		t.Fatalf("role filter: %+v", page)
	}
	page, _ = f.svc.ListUsers(ctx, f.manager, Query{Page: 2, PageSize: 2})
	if page.Page != 2 || len(page.Items) != 1 || page.TotalPages != 2 {
		t.Fatalf("pagination: %+v", page)
	}
	if _, err := f.svc.ListUsers(ctx, f.engineer, Query{}); !domain.IsForbidden(err) {
		t.Fatalf("engineer may not list users, got %v", err)
	}
	if _, err := f.svc.ListUsers(ctx, nil, Query{}); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
	if n := f.last(t); n.Title != "Not signed in" {
		t.Fatalf("unexpected notification %+v", n)
	}
}

func TestSupportEngineers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	eng, _, err := f.svc.AddSupportEngineer(ctx, f.manager, domain.User{Name: "Eve", Email: "eve@myers.test", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("add engineer: %v", err)
	}
	if eng.Role != domain.RoleUser {
		t.Fatalf("engineer role must be forced to user, got %s", eng.Role)
	}
	page, _ := f.svc.ListSupportEngineers(ctx, f.manager, Query{})
	if page.Total != 2 {
		t.Fatalf("expected 2 engineers, got %d", page.Total)
	}
	for _, u := range page.Items {
		if u.Role != domain.RoleUser {
			t.Fatalf("non-engineer listed: %+v", u)
		}
	}

	promote := eng
	promote.Role = domain.RoleManager
	got, _, err := f.svc.EditSupportEngineer(ctx, f.admin, promote)
	if err != nil || got.Role != domain.RoleUser {
		t.Fatalf("edit engineer should keep role user: %+v %v", got, err)
	}
	notEngineer := *f.manager
	if _, _, err := f.svc.EditSupportEngineer(ctx, f.admin, notEngineer); !domain.IsNotFound(err) {
		t.Fatalf("editing a manager as engineer should be not found, got %v", err)
	}
	if _, err := f.svc.DeleteSupportEngineer(ctx, f.admin, f.manager.ID); !domain.IsNotFound(err) {
		t.Fatalf("deleting a manager as engineer should be not found, got %v", err)
	}
	if _, err := f.svc.DeleteSupportEngineer(ctx, f.admin, eng.ID); err != nil {
		t.Fatalf("delete engineer: %v", err)
	}
	if n := f.last(t); n.Description != "Support engineer deleted successfully" {
		t.Fatalf("unexpected notification %+v", n)
	}
}

func TestLoginSessionAndTheme(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	if _, ok := f.svc.CurrentPrincipal(ctx); ok {
		t.Fatalf("expected no session before login")
	}
	if _, err := f.svc.Login(ctx, "nobody@myers.test"); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
	if n := f.last(t); n.Title != "Login failed" || n.Description != "Invalid email or password" || !n.Destructive() {
		t.Fatalf("unexpected notification %+v", n)
	}

	user, err := f.svc.Login(ctx, "  Manager@MyersSecurity.com ")
	if err != nil || user.ID != f.manager.ID {
		t.Fatalf("login: %+v %v", user, err)
	}
	if n := f.last(t); n.Description != "Welcome back, Manager User!" {
		t.Fatalf("unexpected notification %+v", n)
	}
	principal, ok := f.svc.CurrentPrincipal(ctx)
	if !ok || principal.ID != f.manager.ID {
		t.Fatalf("expected manager session, got %+v", principal)
	}

	deactivate := *f.manager
	deactivate.Status = domain.UserInactive
	if _, _, err := f.svc.UpdateUser(ctx, f.admin, deactivate); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, ok := f.svc.CurrentPrincipal(ctx); ok {
		t.Fatalf("inactive user must be treated as signed out")
	}
	if _, err := f.svc.Login(ctx, "manager@myerssecurity.com"); err == nil {
		t.Fatalf("inactive user must not log in")
	}
	if err := f.svc.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if n := f.last(t); n.Title != "Logged out" {
		t.Fatalf("unexpected notification %+v", n)
	}

	if f.svc.Theme(ctx) != domain.ThemeLight {
		t.Fatalf("expected light default")
	}
	if mode, err := f.svc.ToggleTheme(ctx); err != nil || mode != domain.ThemeDark {
		t.Fatalf("toggle: %s %v", mode, err)
	}
	if mode, _ := f.svc.ToggleTheme(ctx); mode != domain.ThemeLight {
		t.Fatalf("second toggle should return light, got %s", mode)
	}
	if err := f.svc.SetTheme(ctx, "sepia"); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := f.svc.SetTheme(ctx, domain.ThemeDark); err != nil || f.svc.Theme(ctx) != domain.ThemeDark {
		t.Fatalf("set theme: %v", err)
	}
}

func TestThemeChangesAreSilent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.notes.Reset()
	if _, err := f.svc.ToggleTheme(ctx); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if err := f.svc.SetTheme(ctx, domain.ThemeLight); err != nil {
		t.Fatalf("set theme: %v", err)
	}
	if got := f.notes.All(); len(got) != 0 {
		t.Fatalf("theme changes must not notify, got %+v", got)
	}
	if err := f.svc.SetTheme(ctx, "sepia"); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if got := f.notes.All(); len(got) != 1 || got[0].Variant != notify.VariantDestructive {
		t.Fatalf("expected one failure notification, got %+v", got)
	}
}
