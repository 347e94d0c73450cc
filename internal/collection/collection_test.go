package collection

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"myersadmin/pkg/domain"
)

type fakeSlot struct {
	data   map[string][]byte
	getErr error
	setErr error
	sets   int
}

func newFakeSlot() *fakeSlot { return &fakeSlot{data: map[string][]byte{}} }

func (f *fakeSlot) Get(_ context.Context, key string) ([]byte, bool, error) {
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *fakeSlot) Set(_ context.Context, key string, value []byte) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.sets++
	f.data[key] = append([]byte(nil), value...)
	return nil
}

type recordingLogger struct{ msgs []string }

func (r *recordingLogger) Warn(msg string, _ ...any) { r.msgs = append(r.msgs, msg) }

func sampleUsers() []domain.User {
	created := time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)
	return []domain.User{
		{Base: domain.Base{ID: "1", CreatedAt: created}, Name: "Admin User", Email: "admin@myers.test", Role: domain.RoleAdmin, Status: domain.UserActive},
		{Base: domain.Base{ID: "2", CreatedAt: created.Add(time.Hour)}, Name: "Manager", Email: "manager@myers.test", Role: domain.RoleManager, Status: domain.UserActive},
		{Base: domain.Base{ID: "3", CreatedAt: created.Add(2 * time.Hour)}, Name: "Engineer", Email: "eng@myers.test", Role: domain.RoleUser, Status: domain.UserInactive},
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	slot := newFakeSlot()
	users := sampleUsers()
	users[0].Name = "Changed"
	if err := Save(ctx, slot, domain.KeyUsers, users); err != nil {
		t.Fatalf("save: %v", err)
	}
	got := Load(ctx, slot, domain.KeyUsers, sampleUsers(), nil)
	if diff := cmp.Diff(users, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadAbsentPersistsDefault(t *testing.T) {
	ctx := context.Background()
	slot := newFakeSlot()
	got := Load(ctx, slot, domain.KeyUsers, sampleUsers(), nil)
	if diff := cmp.Diff(sampleUsers(), got); diff != "" {
		t.Fatalf("default mismatch (-want +got):\n%s", diff)
	}
	if _, ok := slot.data[domain.KeyUsers]; !ok {
		t.Fatalf("expected default to be persisted")
	}
	again := Load(ctx, slot, domain.KeyUsers, []domain.User(nil), nil)
	if diff := cmp.Diff(sampleUsers(), again); diff != "" {
		t.Fatalf("persisted default not returned (-want +got):\n%s", diff)
	}
}

func TestLoadCorruptSnapshotFallsBack(t *testing.T) {
	ctx := context.Background()
	for name, raw := range map[string]string{
		"garbage":      "{not json",
		"null":         "null",
		"empty":        "   ",
		"wrong shape":  `{"id":"1"}`,
		"invalid enum": `[{"id":"1","name":"x","email":"x@y.z","role":"root","status":"active"}]`,
	} {
		t.Run(name, func(t *testing.T) {
			slot := newFakeSlot()
			slot.data[domain.KeyUsers] = []byte(raw)
			log := &recordingLogger{}
			got := Load(ctx, slot, domain.KeyUsers, sampleUsers(), log)
			if diff := cmp.Diff(sampleUsers(), got); diff != "" {
				t.Fatalf("expected defaults (-want +got):\n%s", diff)
			}
			if len(log.msgs) == 0 {
				t.Fatalf("expected warning to be logged")
			}
			if strings.Contains(string(slot.data[domain.KeyUsers]), "root") {
				t.Fatalf("expected corrupt snapshot to be overwritten")
			}
		})
	}
}

func TestLoadReadErrorDoesNotOverwrite(t *testing.T) {
	slot := newFakeSlot()
	slot.data[domain.KeyUsers] = []byte(`[]`)
	slot.getErr = errors.New("disk gone")
	got := Load(context.Background(), slot, domain.KeyUsers, sampleUsers(), nil)
	if len(got) != 3 {
		t.Fatalf("expected defaults on read error, got %d items", len(got))
	}
	if slot.sets != 0 {
		t.Fatalf("read error must not overwrite the slot")
	}
}

func TestLoadDefaultPersistFailureStillReturnsDefault(t *testing.T) {
	slot := newFakeSlot()
	slot.setErr = errors.New("read only")
	log := &recordingLogger{}
	got := Load(context.Background(), slot, domain.KeyUsers, sampleUsers(), log)
	if len(got) != 3 || len(log.msgs) != 1 {
		t.Fatalf("expected defaults and one warning, got %d items, %v", len(got), log.msgs)
	}
}

func TestSaveNilWritesEmptyArray(t *testing.T) {
	slot := newFakeSlot()
	if err := Save[domain.User](context.Background(), slot, "k", nil); err != nil {
		t.Fatalf("save: %v", err)
	}
	if string(slot.data["k"]) != "[]" {
		t.Fatalf("expected [] got %s", slot.data["k"])
	}
	slot.setErr = errors.New("nope")
	if err := Save(context.Background(), slot, "k", sampleUsers()); err == nil {
		t.Fatalf("expected write error")
	}
}

func TestUpsertByIDAppendsNewRecord(t *testing.T) {
	base := sampleUsers()
	rec := domain.User{Base: domain.Base{ID: "9"}, Name: "New", Email: "new@myers.test", Role: domain.RoleUser, Status: domain.UserActive}
	got := UpsertByID(base, rec)
	if len(got) != len(base)+1 {
		t.Fatalf("expected %d items, got %d", len(base)+1, len(got))
	}
	if diff := cmp.Diff(rec, got[len(got)-1]); diff != "" {
		t.Fatalf("appended record mismatch:\n%s", diff)
	}
	if diff := cmp.Diff(sampleUsers(), base); diff != "" {
		t.Fatalf("input mutated:\n%s", diff)
	}
}

func TestUpsertByIDReplacesExisting(t *testing.T) {
	base := sampleUsers()
	rec := base[1]
	rec.Name = "Renamed"
	got := UpsertByID(base, rec)
	if len(got) != len(base) {
		t.Fatalf("expected same length, got %d", len(got))
	}
	found, ok := FindByID(got, rec.ID)
	if !ok {
		t.Fatalf("record missing")
	}
	if diff := cmp.Diff(rec, found); diff != "" {
		t.Fatalf("replaced record mismatch:\n%s", diff)
	}
	if base[1].Name != "Manager" {
		t.Fatalf("input mutated")
	}
	if IndexByID(got, rec.ID) != 1 {
		t.Fatalf("replacement should keep position")
	}
}

func TestRemoveByIDIdempotent(t *testing.T) {
	base := sampleUsers()
	for _, id := range []string{"1", "2", "3", "missing"} {
		once := RemoveByID(base, id)
		twice := RemoveByID(once, id)
		if diff := cmp.Diff(once, twice); diff != "" {
			t.Fatalf("remove %s not idempotent:\n%s", id, diff)
		}
		if _, ok := FindByID(once, id); ok {
			t.Fatalf("id %s still present", id)
		}
	}
	same := RemoveByID(base, "missing")
	if &same[0] != &base[0] {
		t.Fatalf("absent id should return the input slice")
	}
	if len(RemoveByID(base, "2")) != 2 || len(base) != 3 {
		t.Fatalf("remove must not mutate input")
	}
}

func TestFilterByPreservesOrder(t *testing.T) {
	got := FilterBy(sampleUsers(), func(u domain.User) bool { return u.Status == domain.UserActive })
	ids := []string{}
	for _, u := range got {
		ids = append(ids, u.ID)
	}
	if diff := cmp.Diff([]string{"1", "2"}, ids); diff != "" {
		t.Fatalf("filter order mismatch:\n%s", diff)
	}
	if len(FilterBy(sampleUsers(), nil)) != 3 {
		t.Fatalf("nil predicate should keep everything")
	}
	if got := FilterBy([]domain.User(nil), func(domain.User) bool { return true }); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil result")
	}
}

func TestSortByIsStable(t *testing.T) {
	type row struct {
		key string
		seq int
	}
	rows := []row{{"b", 1}, {"a", 2}, {"b", 3}, {"a", 4}}
	got := SortBy(rows, func(x, y row) int { return strings.Compare(x.key, y.key) })
	want := []row{{"a", 2}, {"a", 4}, {"b", 1}, {"b", 3}}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(row{})); diff != "" {
		t.Fatalf("sort mismatch:\n%s", diff)
	}
	if rows[0].key != "b" {
		t.Fatalf("input mutated")
	}
}

func TestPaginate(t *testing.T) {
	items := make([]int, 12)
	for i := range items {
		items[i] = i + 1
	}
	cases := []struct {
		page, size int
		want       []int
		totalPages int
	}{
		{1, 5, []int{1, 2, 3, 4, 5}, 3},
		{3, 5, []int{11, 12}, 3},
		{4, 5, []int{}, 3},
		{0, 5, []int{}, 3},
		{-1, 5, []int{}, 3},
		{1, 0, []int{1}, 12},
		{2, -3, []int{2}, 12},
		{1, 20, items, 1},
		{1, math.MaxInt, items, 1},
		{2, math.MaxInt, []int{}, 1},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("page%d_size%d", tc.page, tc.size), func(t *testing.T) {
			got := Paginate(items, tc.page, tc.size)
			if got.TotalPages != tc.totalPages {
				t.Fatalf("total pages %d, want %d", got.TotalPages, tc.totalPages)
			}
			if diff := cmp.Diff(tc.want, got.Items); diff != "" {
				t.Fatalf("items mismatch:\n%s", diff)
			}
			if got.Total != 12 {
				t.Fatalf("total %d", got.Total)
			}
		})
	}
	empty := Paginate([]int{}, 1, 5)
	if empty.TotalPages != 0 || len(empty.Items) != 0 {
		t.Fatalf("unexpected empty page %+v", empty)
	}
}
