package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

// cli runs commands against one filesystem-backed slot.
type cli struct {
	t *testing.T
}

func newCLI(t *testing.T) cli {
	t.Helper()
	t.Setenv("MYERS_STORAGE_DRIVER", "fs")
	t.Setenv("MYERS_FS_ROOT", t.TempDir())
	t.Setenv("MYERS_LOG_LEVEL", "error")
	t.Setenv("MYERS_PAGE_SIZE", "5")
	return cli{t: t}
}

func (c cli) run(args ...string) (stdout, stderr string, code int) {
	c.t.Helper()
	var out, errOut bytes.Buffer
	code = run(context.Background(), append([]string{"--env-file="}, args...), &out, &errOut)
	return out.String(), errOut.String(), code
}

func (c cli) ok(args ...string) (stdout, stderr string) {
	c.t.Helper()
	stdout, stderr, code := c.run(args...)
	if code != 0 {
		c.t.Fatalf("%v exited %d\nstdout: %s\nstderr: %s", args, code, stdout, stderr)
	}
	return stdout, stderr
}

func (c cli) fail(args ...string) (stdout, stderr string) {
	c.t.Helper()
	stdout, stderr, code := c.run(args...)
	if code == 0 {
		c.t.Fatalf("%v should fail\nstdout: %s\nstderr: %s", args, stdout, stderr)
	}
	return stdout, stderr
}

func TestSessionLifecycle(t *testing.T) {
	c := newCLI(t)
	out, errOut := c.ok("login", "ADMIN@myerssecurity.com")
	if !strings.Contains(out, "Admin User") {
		t.Fatalf("unexpected login output %q", out)
	}
	if !strings.Contains(errOut, "[ok] Login successful: Welcome back, Admin User!") {
		t.Fatalf("expected login notification, got %q", errOut)
	}
	if out, _ := c.ok("whoami"); !strings.Contains(out, "(admin)") {
		t.Fatalf("whoami after login: %q", out)
	}
	c.ok("logout")
	_, errOut = c.fail("whoami")
	if !strings.Contains(errOut, "error: not authenticated") {
		t.Fatalf("expected unauthenticated error, got %q", errOut)
	}
}

func TestLoginUnknownEmailIsReportedOnce(t *testing.T) {
	c := newCLI(t)
	_, errOut := c.fail("login", "nobody@myerssecurity.com")
	if !strings.Contains(errOut, "[!] Login failed: Invalid email or password") {
		t.Fatalf("expected failure notification, got %q", errOut)
	}
	if strings.Contains(errOut, "error:") {
		t.Fatalf("notified errors should not be printed again: %q", errOut)
	}
}

func TestUserRoleCannotDeleteUsers(t *testing.T) {
	c := newCLI(t)
	c.ok("login", "user@myerssecurity.com")
	_, errOut := c.fail("users", "delete", "user-002")
	if !strings.Contains(errOut, "[!] Access denied") {
		t.Fatalf("expected access denied, got %q", errOut)
	}
	c.ok("login", "admin@myerssecurity.com")
	out, _ := c.ok("users", "list", "--search", "manager")
	if !strings.Contains(out, "user-002") || !strings.Contains(out, "page 1 of 1 (1 total)") {
		t.Fatalf("manager should still exist:\n%s", out)
	}
}

func TestMenuFollowsRole(t *testing.T) {
	c := newCLI(t)
	if out, _ := c.ok("menu"); strings.Contains(out, "Dashboard") {
		t.Fatalf("signed-out menu should be empty:\n%s", out)
	}
	c.ok("login", "user@myerssecurity.com")
	out, _ := c.ok("menu")
	if !strings.Contains(out, "Service Requests") || strings.Contains(out, "Users") || strings.Contains(out, "Settings") {
		t.Fatalf("unexpected user menu:\n%s", out)
	}
}

func TestServiceRequestWorkflow(t *testing.T) {
	c := newCLI(t)
	c.ok("login", "manager@myerssecurity.com")
	out, _ := c.ok("requests", "add", "--title", "Camera offline", "--dispensary", "disp-002", "--priority", "high")
	id := strings.TrimSpace(out)
	if id == "" {
		t.Fatalf("expected new request id")
	}
	if out, _ := c.ok("requests", "respond", id, "Technician dispatched"); strings.TrimSpace(out) != "in-progress" {
		t.Fatalf("note should move the request to in-progress, got %q", out)
	}
	_, errOut := c.ok("requests", "status", id, "resolved")
	if !strings.Contains(errOut, "Service request status updated to resolved") {
		t.Fatalf("unexpected notification %q", errOut)
	}
	_, errOut = c.fail("requests", "status", id, "pending")
	if !strings.Contains(errOut, "[!] Validation error") {
		t.Fatalf("resolved request should reject status changes, got %q", errOut)
	}
	out, _ = c.ok("requests", "show", id)
	if !strings.Contains(out, "resolved:") || !strings.Contains(out, "Technician dispatched") {
		t.Fatalf("unexpected request detail:\n%s", out)
	}
	out, _ = c.ok("requests", "list", "--search", "camera")
	if !strings.Contains(out, id) {
		t.Fatalf("new request missing from list:\n%s", out)
	}
}

func TestDispensaryEditKeepsUnsetFields(t *testing.T) {
	c := newCLI(t)
	c.ok("login", "admin@myerssecurity.com")
	c.ok("dispensaries", "edit", "disp-002", "--status", "open")
	out, _ := c.ok("dispensaries", "list", "--search", "herbal")
	if !strings.Contains(out, "456 Elm St") || !strings.Contains(out, "open") {
		t.Fatalf("edit should only change status:\n%s", out)
	}
	if out, _ := c.ok("dispensaries", "assign", "disp-002", "user-003"); strings.TrimSpace(out) != "user-003" {
		t.Fatalf("unexpected engineers %q", out)
	}
}

func TestInvoiceFromLineItems(t *testing.T) {
	c := newCLI(t)
	c.ok("login", "admin@myerssecurity.com")
	out, errOut := c.ok("invoices", "add", "--dispensary", "disp-001", "--due", "2024-07-01", "--item", "Patrol:2:150")
	if !strings.Contains(out, "300.00") {
		t.Fatalf("amount should come from items, got %q", out)
	}
	if !strings.Contains(errOut, "Invoice for 300.00 created") {
		t.Fatalf("unexpected notification %q", errOut)
	}
	_, errOut = c.fail("invoices", "add", "--dispensary", "disp-001", "--due", "next week")
	if !strings.Contains(errOut, "error: --due") {
		t.Fatalf("expected date parse error, got %q", errOut)
	}
	_, errOut = c.fail("invoices", "delete", "inv-001")
	if !strings.Contains(errOut, "[!]") {
		t.Fatalf("invoice with payments should not be deleted, got %q", errOut)
	}
}

func TestThemeToggle(t *testing.T) {
	c := newCLI(t)
	if out, _ := c.ok("theme"); strings.TrimSpace(out) != "light" {
		t.Fatalf("default theme %q", out)
	}
	if out, _ := c.ok("theme", "toggle"); strings.TrimSpace(out) != "dark" {
		t.Fatalf("toggled theme %q", out)
	}
	if out, _ := c.ok("theme"); strings.TrimSpace(out) != "dark" {
		t.Fatalf("theme not persisted: %q", out)
	}
	c.fail("theme", "sepia")
}

func TestMetricsDump(t *testing.T) {
	c := newCLI(t)
	_, errOut := c.ok("--metrics", "login", "admin@myerssecurity.com")
	if !strings.Contains(errOut, `myersadmin_operations_total{operation="auth.login",outcome="success"} 1`) {
		t.Fatalf("expected login counter in metrics dump:\n%s", errOut)
	}
}

func TestUnknownStorageDriver(t *testing.T) {
	c := newCLI(t)
	t.Setenv("MYERS_STORAGE_DRIVER", "floppy")
	_, errOut := c.fail("whoami")
	if !strings.Contains(errOut, "[!]") {
		t.Fatalf("expected configuration failure, got %q", errOut)
	}
}
