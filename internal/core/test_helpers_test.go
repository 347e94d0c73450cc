package core

import (
	"context"
	"fmt"
	"testing"
	"time"

	"myersadmin/internal/notify"
	"myersadmin/pkg/domain"
)

var testNow = time.Date(2024, 6, 10, 14, 30, 0, 0, time.UTC)

type stubClock struct{ t time.Time }

func (s stubClock) Now() time.Time { return s.t }

type captureLogger struct{ calls []string }

func (c *captureLogger) Debug(msg string, _ ...any) { c.calls = append(c.calls, "d:"+msg) }
func (c *captureLogger) Info(msg string, _ ...any)  { c.calls = append(c.calls, "i:"+msg) }
func (c *captureLogger) Warn(msg string, _ ...any)  { c.calls = append(c.calls, "w:"+msg) }
func (c *captureLogger) Error(msg string, _ ...any) { c.calls = append(c.calls, "e:"+msg) }

func (c *captureLogger) has(call string) bool {
	for _, got := range c.calls {
		if got == call {
			return true
		}
	}
	return false
}

// fixture bundles a seeded in-memory service with its seeded principals.
type fixture struct {
	svc      *Service
	notes    *notify.Recorder
	admin    *domain.User
	manager  *domain.User
	engineer *domain.User
}

func newFixture(t *testing.T, opts ...ServiceOption) fixture {
	t.Helper()
	seq := 0
	notes := &notify.Recorder{}
	base := []ServiceOption{
		WithClock(stubClock{t: testNow}),
		WithNotifier(notes),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("id-%03d", seq)
		}),
	}
	svc := NewInMemoryService(append(base, opts...)...)
	f := fixture{svc: svc, notes: notes}
	ctx := context.Background()
	for _, u := range svc.users.All(ctx) {
		u := u
		switch u.Role {
		case domain.RoleAdmin:
			f.admin = &u
		case domain.RoleManager:
			f.manager = &u
		case domain.RoleUser:
			f.engineer = &u
		}
	}
	if f.admin == nil || f.manager == nil || f.engineer == nil {
		t.Fatalf("seed is missing a principal per role")
	}
	return f
}

// last returns the most recent notification, failing when none was sent.
func (f fixture) last(t *testing.T) notify.Notification {
	t.Helper()
	n, ok := f.notes.Last()
	if !ok {
		t.Fatalf("expected a notification")
	}
	return n
}
