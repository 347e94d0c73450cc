package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestEnumUnmarshalRejectsUnknownValues(t *testing.T) {
	cases := []struct {
		name string
		data string
		into any
	}{
		{"role", `"superuser"`, new(Role)},
		{"user status", `"banned"`, new(UserStatus)},
		{"dispensary category", `"wholesale"`, new(DispensaryCategory)},
		{"dispensary status", `"paused"`, new(DispensaryStatus)},
		{"request status", `"done"`, new(RequestStatus)},
		{"priority", `"urgent"`, new(RequestPriority)},
		{"invoice status", `"void"`, new(InvoiceStatus)},
		{"payment method", `"crypto"`, new(PaymentMethod)},
		{"payment status", `"pending"`, new(PaymentStatus)},
		{"agreement status", `"draft"`, new(AgreementStatus)},
		{"knowledge category", `"services"`, new(KnowledgeCategory)},
		{"entry status", `"archived"`, new(EntryStatus)},
		{"theme", `"sepia"`, new(ThemeMode)},
		{"not a string", `42`, new(Role)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := json.Unmarshal([]byte(tc.data), tc.into); err == nil {
				t.Fatalf("expected %s to be rejected", tc.data)
			}
		})
	}
}

func TestEnumUnmarshalAcceptsCanonicalValues(t *testing.T) {
	var u User
	raw := `{"id":"1","name":"Ada","email":"ada@myers.test","role":"manager","status":"active","createdAt":"2024-01-02T03:04:05Z"}`
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if u.Role != RoleManager || u.Status != UserActive {
		t.Fatalf("unexpected decoded user %+v", u)
	}
	var d Dispensary
	if err := json.Unmarshal([]byte(`{"id":"d","category":"both","status":"under-maintenance"}`), &d); err != nil {
		t.Fatalf("unmarshal dispensary: %v", err)
	}
	if d.Status != DispensaryUnderMaintenance {
		t.Fatalf("unexpected status %q", d.Status)
	}
}

func TestUserSnapshotWithInvalidRoleFails(t *testing.T) {
	var users []User
	raw := `[{"id":"1","name":"x","email":"x@y.z","role":"root","status":"active"}]`
	if err := json.Unmarshal([]byte(raw), &users); err == nil {
		t.Fatalf("expected snapshot with unknown role to fail")
	}
}

func TestAmountJSON(t *testing.T) {
	inv := Invoice{
		DispensaryID: "disp-001",
		Amount:       AmountFromFloat(1250.5),
		Status:       InvoicePending,
		DueDate:      time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
	}
	data, err := json.Marshal(inv)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"amount":1250.50`) {
		t.Fatalf("expected decimal amount, got %s", data)
	}
	var back Invoice
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Amount != 125050 || back.Status != InvoicePending || !back.DueDate.Equal(inv.DueDate) {
		t.Fatalf("unexpected round trip %+v", back)
	}
	var a Amount
	if err := json.Unmarshal([]byte("null"), &a); err != nil || a != 0 {
		t.Fatalf("expected null to decode as zero, got %v %v", a, err)
	}
	if err := json.Unmarshal([]byte(`"abc"`), &a); err == nil {
		t.Fatalf("expected non-numeric amount to fail")
	}
	if got := Amount(-150).String(); got != "-1.50" {
		t.Fatalf("unexpected negative format %q", got)
	}
	if got := (InvoiceItem{Quantity: 3, UnitPrice: 250}).Total(); got != 750 {
		t.Fatalf("unexpected line total %d", got)
	}
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to RequestStatus
		want     bool
	}{
		{RequestPending, RequestInProgress, true},
		{RequestPending, RequestResolved, true},
		{RequestInProgress, RequestResolved, true},
		{RequestPending, RequestPending, true},
		{RequestInProgress, RequestPending, false},
		{RequestResolved, RequestInProgress, false},
		{RequestResolved, RequestPending, false},
		{RequestResolved, RequestResolved, false},
		{RequestStatus("bogus"), RequestResolved, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
	if !RequestResolved.IsTerminal() || RequestPending.IsTerminal() {
		t.Fatalf("only resolved should be terminal")
	}
}

func TestValidate(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	good := User{Base: Base{ID: "u1", CreatedAt: now}, Name: "Ada", Email: "ada@myers.test", Role: RoleAdmin, Status: UserActive}
	if err := Validate(EntityUser, good); err != nil {
		t.Fatalf("expected valid user, got %v", err)
	}

	cases := []struct {
		name  string
		value any
		field string
	}{
		{"missing name", User{Base: Base{ID: "u"}, Email: "a@b.c", Role: RoleUser, Status: UserActive}, "name"},
		{"bad email", User{Base: Base{ID: "u"}, Name: "n", Email: "nope", Role: RoleUser, Status: UserActive}, "email"},
		{"bad role", User{Base: Base{ID: "u"}, Name: "n", Email: "a@b.c", Role: "root", Status: UserActive}, "role"},
		{"missing id", User{Name: "n", Email: "a@b.c", Role: RoleUser, Status: UserActive}, "id"},
		{"bad url", KnowledgeBaseEntry{Base: Base{ID: "k"}, Title: "t", Category: KnowledgeServices, Status: EntryActive, BlogURL: "not a url"}, "blogUrl"},
		{"negative amount", Invoice{Base: Base{ID: "i"}, DispensaryID: "d", Amount: -1, DueDate: now, Status: InvoicePending}, "amount"},
		{"bad line item", Invoice{Base: Base{ID: "i"}, DispensaryID: "d", DueDate: now, Status: InvoicePending, Items: []InvoiceItem{{Description: "", Quantity: 1}}}, "description"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(EntityUser, tc.value)
			if !IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
			ve := err.(ValidationError)
			if ve.Field != tc.field {
				t.Fatalf("expected field %q, got %q (%v)", tc.field, ve.Field, err)
			}
		})
	}

	entry := KnowledgeBaseEntry{Base: Base{ID: "k"}, Title: "t", Category: KnowledgeCaseStudies, Status: EntryActive, VideoURL: "https://example.com/v"}
	if err := Validate(EntityKnowledgeBase, entry); err != nil {
		t.Fatalf("expected valid entry, got %v", err)
	}
}

func TestErrorHelpers(t *testing.T) {
	if !IsForbidden(ForbiddenError{Role: RoleUser, Entity: EntityUser, Action: ActionDelete}) {
		t.Fatalf("expected forbidden")
	}
	if !IsNotFound(NotFoundError{Entity: EntityDispensary, ID: "x"}) {
		t.Fatalf("expected not found")
	}
	msg := ForbiddenError{Entity: EntityInvoice, Action: ActionDelete}.Error()
	if !strings.Contains(msg, "anonymous") {
		t.Fatalf("expected anonymous role in %q", msg)
	}
	if got := (ForbiddenError{Reason: "You cannot delete your own account"}).Error(); got != "You cannot delete your own account" {
		t.Fatalf("expected reason to win, got %q", got)
	}
	if got := (ValidationError{Entity: EntityUser, Reason: "duplicate"}).Error(); got != "invalid user: duplicate" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestActiveEngineer(t *testing.T) {
	if !(User{Role: RoleUser, Status: UserActive}).ActiveEngineer() {
		t.Fatalf("active user role should be an engineer")
	}
	if (User{Role: RoleManager, Status: UserActive}).ActiveEngineer() {
		t.Fatalf("manager is not an engineer")
	}
	if (User{Role: RoleUser, Status: UserInactive}).ActiveEngineer() {
		t.Fatalf("inactive engineer should not be assignable")
	}
}
