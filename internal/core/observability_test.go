package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"expvar"
	"strings"
	"testing"
	"time"

	"myersadmin/pkg/domain"
)

type metricsCall struct {
	op      string
	success bool
}

type captureMetricsRecorder struct {
	calls []metricsCall
}

func (c *captureMetricsRecorder) Observe(_ context.Context, op string, success bool, _ time.Duration) {
	c.calls = append(c.calls, metricsCall{op: op, success: success})
}

func (c *captureMetricsRecorder) has(op string, success bool) bool {
	for _, call := range c.calls {
		if call.op == op && call.success == success {
			return true
		}
	}
	return false
}

type captureTracer struct {
	started []string
	ended   []spanRecord
}

type spanRecord struct {
	op  string
	err error
}

func (c *captureTracer) Start(ctx context.Context, op string) (context.Context, TraceSpan) {
	c.started = append(c.started, op)
	return ctx, &captureSpan{tracer: c, op: op}
}

type captureSpan struct {
	tracer *captureTracer
	op     string
}

func (s *captureSpan) End(err error) {
	s.tracer.ended = append(s.tracer.ended, spanRecord{op: s.op, err: err})
}

func TestServiceObservability(t *testing.T) {
	ctx := context.Background()
	metrics := &captureMetricsRecorder{}
	tracer := &captureTracer{}
	logger := &captureLogger{}
	f := newFixture(t, WithMetricsRecorder(metrics), WithTracer(tracer), WithLogger(logger))

	if _, err := f.svc.ListUsers(ctx, f.admin, Query{}); err != nil {
		t.Fatalf("list: %v", err)
	}
	if _, err := f.svc.DeleteUser(ctx, f.engineer, f.admin.ID); err == nil {
		t.Fatalf("expected forbidden delete")
	}
	if !metrics.has(opUserList, true) || !metrics.has(opUserDelete, false) {
		t.Fatalf("unexpected metrics calls %+v", metrics.calls)
	}
	if len(tracer.started) != 2 || len(tracer.ended) != 2 {
		t.Fatalf("expected 2 spans, got %v / %v", tracer.started, tracer.ended)
	}
	if tracer.ended[0].err != nil || !domain.IsForbidden(tracer.ended[1].err) {
		t.Fatalf("span errors not propagated: %+v", tracer.ended)
	}
	if !logger.has("d:operation complete") || !logger.has("e:operation failed") {
		t.Fatalf("unexpected log calls %v", logger.calls)
	}
}

func TestWarnViolationsAreLogged(t *testing.T) {
	logger := &captureLogger{}
	engine := NewDefaultRulesEngine()
	engine.Register(staticRule{name: "advisory", severity: domain.SeverityWarn})
	engine.Register(staticRule{name: "note", severity: domain.SeverityLog})
	f := newFixture(t, WithLogger(logger), WithRulesEngine(engine))
	_, res, err := f.svc.CreateDispensary(context.Background(), f.admin, domain.Dispensary{Name: "A", Address: "B", Category: domain.CategoryBoth})
	if err != nil {
		t.Fatalf("non-blocking violations must not fail the write: %v", err)
	}
	if len(res.Violations) != 2 {
		t.Fatalf("expected both violations in result, got %+v", res.Violations)
	}
	if !logger.has("w:rule warning") || !logger.has("i:rule note") {
		t.Fatalf("unexpected log calls %v", logger.calls)
	}
}

func TestExpvarMetricsRecorder(t *testing.T) {
	rec := NewExpvarMetricsRecorder("")
	if expvar.Get(rec.Name()) == nil {
		t.Fatalf("recorder not published as %s", rec.Name())
	}
	rec.Observe(context.Background(), "user.list", true, 2*time.Millisecond)
	rec.Observe(context.Background(), "user.list", false, 3*time.Millisecond)
	rec.Observe(context.Background(), "", true, time.Millisecond)
	snap := rec.Snapshot()
	if snap.DurationsMS["user.list"] != 5 {
		t.Fatalf("unexpected duration total %v", snap.DurationsMS)
	}
	if snap.Results["user.list"]["success"] != 1 || snap.Results["user.list"]["error"] != 1 {
		t.Fatalf("unexpected results %v", snap.Results)
	}
	if len(snap.Results) != 1 {
		t.Fatalf("empty operation should be ignored")
	}
	other := NewExpvarMetricsRecorder("")
	if other.Name() == rec.Name() {
		t.Fatalf("generated names must be unique")
	}
}

func TestPrometheusMetricsRecorder(t *testing.T) {
	rec, reg, err := NewPrometheusMetricsRecorder("myersadmin", nil)
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}
	var multi MetricsRecorder = MultiMetricsRecorder{rec, nil}
	multi.Observe(context.Background(), "dispensary.create", true, 10*time.Millisecond)
	multi.Observe(context.Background(), "dispensary.create", true, 20*time.Millisecond)
	multi.Observe(context.Background(), "dispensary.create", false, time.Millisecond)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	counts := map[string]float64{}
	var histograms int
	for _, mf := range families {
		switch mf.GetName() {
		case "myersadmin_operations_total":
			for _, m := range mf.GetMetric() {
				labels := map[string]string{}
				for _, lp := range m.GetLabel() {
					labels[lp.GetName()] = lp.GetValue()
				}
				counts[labels["operation"]+"/"+labels["outcome"]] = m.GetCounter().GetValue()
			}
		case "myersadmin_operation_duration_seconds":
			histograms = len(mf.GetMetric())
		}
	}
	if counts["dispensary.create/success"] != 2 || counts["dispensary.create/error"] != 1 {
		t.Fatalf("unexpected counters %v", counts)
	}
	if histograms != 2 {
		t.Fatalf("expected 2 histogram series, got %d", histograms)
	}
	if _, _, err := NewPrometheusMetricsRecorder("myersadmin", reg); err == nil {
		t.Fatalf("duplicate registration should fail")
	}
}

func TestJSONTracer(t *testing.T) {
	var buf bytes.Buffer
	tracer := NewJSONTracer(&buf)
	_, span := tracer.Start(context.Background(), "user.create")
	span.End(nil)
	_, span = tracer.Start(context.Background(), "user.delete")
	span.End(errors.New("boom"))

	entries := tracer.Entries()
	if len(entries) != 2 || entries[0].Status != "success" || entries[1].Status != "error" || entries[1].Error != "boom" {
		t.Fatalf("unexpected entries %+v", entries)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 json lines, got %q", buf.String())
	}
	var decoded JSONTraceEntry
	if err := json.Unmarshal([]byte(lines[1]), &decoded); err != nil || decoded.Operation != "user.delete" {
		t.Fatalf("decode: %+v %v", decoded, err)
	}
	quiet := NewJSONTracer(nil)
	_, span = quiet.Start(context.Background(), "x")
	span.End(nil)
	if len(quiet.Entries()) != 1 {
		t.Fatalf("nil writer should still retain entries")
	}
}
