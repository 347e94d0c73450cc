package core

import (
	"context"
	"errors"
	"testing"

	"myersadmin/internal/seed"
	"myersadmin/internal/slot"
	"myersadmin/pkg/domain"
)

func TestServiceDefaultsAndNilOptions(t *testing.T) {
	svc := NewInMemoryService(WithClock(nil), WithLogger(nil), WithMetricsRecorder(nil), WithTracer(nil), WithNotifier(nil), WithRulesEngine(nil), WithPageSize(0), WithIDGenerator(nil))
	if svc.PageSize() != DefaultPageSize {
		t.Fatalf("expected default page size, got %d", svc.PageSize())
	}
	if len(svc.Rules()) != 3 {
		t.Fatalf("expected default rules, got %v", svc.Rules())
	}
	if svc.newID() == svc.newID() {
		t.Fatalf("default ids must be unique")
	}
	if svc.now().Location().String() != "UTC" {
		t.Fatalf("service time must be UTC")
	}
	WithPageSize(9)(svc)
	if svc.PageSize() != 9 {
		t.Fatalf("page size option ignored")
	}
}

func TestServicePersistsThroughSlot(t *testing.T) {
	ctx := context.Background()
	store := slot.NewMemory()
	first := NewService(store, WithClock(stubClock{t: testNow}))
	admin, err := first.Login(ctx, "admin@myerssecurity.com")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	created, _, err := first.CreateDispensary(ctx, &admin, domain.Dispensary{Name: "Persisted", Address: "9 Hill", Category: domain.CategoryBoth})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	second := NewService(store, WithSeed(seed.Empty()))
	principal, ok := second.CurrentPrincipal(ctx)
	if !ok || principal.ID != admin.ID {
		t.Fatalf("session should survive a restart")
	}
	got, err := second.GetDispensary(ctx, principal, created.ID)
	if err != nil || got.Name != "Persisted" {
		t.Fatalf("dispensary not persisted: %+v %v", got, err)
	}
}

func TestEmptySeedStartsEmpty(t *testing.T) {
	svc := NewInMemoryService(WithSeed(seed.Empty()))
	if _, err := svc.Login(context.Background(), "admin@myerssecurity.com"); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("empty seed should have no users, got %v", err)
	}
}

type failingSlot struct{ inner slot.Store }

func (f failingSlot) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return f.inner.Get(ctx, key)
}

func (failingSlot) Set(context.Context, string, []byte) error { return errors.New("disk full") }

func TestWriteFailureSurfacesAsError(t *testing.T) {
	notes := &captureLogger{}
	svc := NewService(failingSlot{inner: slot.NewMemory()}, WithLogger(notes))
	admin := domain.User{Base: domain.Base{ID: "user-001"}, Role: domain.RoleAdmin, Status: domain.UserActive}
	_, _, err := svc.CreateDispensary(context.Background(), &admin, domain.Dispensary{Name: "A", Address: "B", Category: domain.CategoryBoth})
	if err == nil {
		t.Fatalf("expected write failure")
	}
	if !notes.has("e:operation failed") {
		t.Fatalf("expected failure to be logged, got %v", notes.calls)
	}
}
