package core

import (
	"context"
	"fmt"
	"strings"

	"myersadmin/internal/notify"
	"myersadmin/pkg/domain"
)

const (
	opLogin       = "auth.login"
	opLogout      = "auth.logout"
	opThemeSet    = "theme.set"
	opThemeToggle = "theme.toggle"
)

// Login starts a mock session for the active user whose email matches,
// ignoring case. No password is checked.
func (s *Service) Login(ctx context.Context, email string) (domain.User, error) {
	var signedIn domain.User
	err := s.run(ctx, opLogin, func(ctx context.Context) (notify.Notification, error) {
		needle := strings.TrimSpace(email)
		if needle == "" {
			return notify.Notification{}, domain.ErrUnauthenticated
		}
		var (
			user  domain.User
			found bool
		)
		for _, u := range s.users.All(ctx) {
			if strings.EqualFold(u.Email, needle) && u.Status == domain.UserActive {
				user, found = u, true
				break
			}
		}
		if !found {
			return notify.Notification{}, domain.ErrUnauthenticated
		}
		if err := s.auth.Set(ctx, domain.AuthState{IsAuthenticated: true, User: &user}); err != nil {
			return notify.Notification{}, err
		}
		signedIn = user
		return notify.Success("Login successful", fmt.Sprintf("Welcome back, %s!", user.Name)), nil
	})
	return signedIn, err
}

// Logout clears the session.
func (s *Service) Logout(ctx context.Context) error {
	return s.run(ctx, opLogout, func(ctx context.Context) (notify.Notification, error) {
		if err := s.auth.Set(ctx, domain.AuthState{}); err != nil {
			return notify.Notification{}, err
		}
		return notify.Success("Logged out", "You have been logged out successfully"), nil
	})
}

// CurrentPrincipal returns the signed-in user as currently stored, so role
// and status edits apply to an open session. A deleted or inactive user is
// treated as signed out.
func (s *Service) CurrentPrincipal(ctx context.Context) (*domain.User, bool) {
	state := s.auth.Get(ctx)
	if !state.IsAuthenticated || state.User == nil {
		return nil, false
	}
	user, ok := s.users.Find(ctx, state.User.ID)
	if !ok || user.Status != domain.UserActive {
		return nil, false
	}
	return &user, true
}

// Theme returns the stored theme preference.
func (s *Service) Theme(ctx context.Context) domain.ThemeMode {
	mode := s.theme.Get(ctx).Mode
	if !mode.Valid() {
		return domain.ThemeLight
	}
	return mode
}

// SetTheme stores mode.
func (s *Service) SetTheme(ctx context.Context, mode domain.ThemeMode) error {
	return s.run(ctx, opThemeSet, func(ctx context.Context) (notify.Notification, error) {
		if !mode.Valid() {
			return notify.Notification{}, domain.ValidationError{Entity: domain.EntitySettings, Field: "mode", Reason: fmt.Sprintf("unknown value %q", mode)}
		}
		return notify.Notification{}, s.theme.Set(ctx, domain.ThemeState{Mode: mode})
	})
}

// ToggleTheme flips between light and dark and returns the new mode.
func (s *Service) ToggleTheme(ctx context.Context) (domain.ThemeMode, error) {
	next := domain.ThemeDark
	err := s.run(ctx, opThemeToggle, func(ctx context.Context) (notify.Notification, error) {
		if s.Theme(ctx) == domain.ThemeDark {
			next = domain.ThemeLight
		}
		return notify.Notification{}, s.theme.Set(ctx, domain.ThemeState{Mode: next})
	})
	if err != nil {
		return s.Theme(ctx), err
	}
	return next, nil
}
