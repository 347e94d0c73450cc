package core

import (
	"errors"
	"testing"
)

type testPlugin struct {
	name  string
	rules []Rule
	err   error
}

func (p testPlugin) Name() string {
	if p.name == "" {
		return "test"
	}
	return p.name
}

func (testPlugin) Version() string { return "1.0.0" }

func (p testPlugin) Register(registry *PluginRegistry) error {
	if p.err != nil {
		return p.err
	}
	for _, r := range p.rules {
		registry.RegisterRule(r)
	}
	return nil
}

func TestInstallPlugin(t *testing.T) {
	logger := &captureLogger{}
	f := newFixture(t, WithLogger(logger))
	if _, err := f.svc.InstallPlugin(nil); err == nil {
		t.Fatalf("expected nil plugin error")
	}
	boom := errors.New("bad schema")
	if _, err := f.svc.InstallPlugin(testPlugin{name: "broken", err: boom}); !errors.Is(err, boom) {
		t.Fatalf("expected register error, got %v", err)
	}
	if _, err := f.svc.InstallPlugin(testPlugin{name: "zeta", rules: []Rule{staticRule{name: "z"}}}); err != nil {
		t.Fatalf("install zeta: %v", err)
	}
	if _, err := f.svc.InstallPlugin(testPlugin{name: "alpha"}); err != nil {
		t.Fatalf("install alpha: %v", err)
	}
	if _, err := f.svc.InstallPlugin(testPlugin{name: "alpha"}); err == nil {
		t.Fatalf("expected duplicate error")
	}
	clash := testPlugin{name: "clash", rules: []Rule{staticRule{name: "fresh"}, staticRule{name: ruleServiceRequestLifecycle}}}
	if _, err := f.svc.InstallPlugin(clash); err == nil {
		t.Fatalf("expected rule name clash to be rejected")
	}
	for _, name := range f.svc.Rules() {
		if name == "fresh" {
			t.Fatalf("a rejected plugin must not register any rule")
		}
	}
	plugins := f.svc.RegisteredPlugins()
	if len(plugins) != 2 || plugins[0].Name != "alpha" || plugins[1].Name != "zeta" {
		t.Fatalf("unexpected plugins %+v", plugins)
	}
	rules := f.svc.Rules()
	if rules[len(rules)-1] != "z" {
		t.Fatalf("plugin rule not registered: %v", rules)
	}
	if !logger.has("i:plugin installed") {
		t.Fatalf("expected install to be logged")
	}
}
