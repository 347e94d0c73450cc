package core

import (
	"fmt"
	"sort"
)

// Plugin contributes rules evaluated before every write.
type Plugin interface {
	Name() string
	Version() string
	Register(registry *PluginRegistry) error
}

// PluginRegistry accumulates plugin contributions during registration.
type PluginRegistry struct {
	rules []Rule
}

// NewPluginRegistry constructs a plugin registry.
func NewPluginRegistry() *PluginRegistry {
	return &PluginRegistry{}
}

// RegisterRule adds a rule contributed by the plugin. Nil rules are ignored.
func (r *PluginRegistry) RegisterRule(rule Rule) {
	if rule == nil {
		return
	}
	r.rules = append(r.rules, rule)
}

// Rules returns a copy of registered rules.
func (r *PluginRegistry) Rules() []Rule {
	out := make([]Rule, len(r.rules))
	copy(out, r.rules)
	return out
}

// PluginMetadata describes an installed plugin.
type PluginMetadata struct {
	Name    string
	Version string
	Rules   []string
}

// InstallPlugin registers a plugin and wires its rules into the active engine.
// Rule names must be unique across built-in and plugin rules; a clash installs
// nothing.
func (s *Service) InstallPlugin(plugin Plugin) (PluginMetadata, error) {
	if plugin == nil {
		return PluginMetadata{}, fmt.Errorf("plugin cannot be nil")
	}
	if _, ok := s.plugins[plugin.Name()]; ok {
		return PluginMetadata{}, fmt.Errorf("plugin %s already registered", plugin.Name())
	}
	registry := NewPluginRegistry()
	if err := plugin.Register(registry); err != nil {
		return PluginMetadata{}, fmt.Errorf("register plugin %s: %w", plugin.Name(), err)
	}
	taken := make(map[string]bool)
	for _, name := range s.engine.Rules() {
		taken[name] = true
	}
	rules := registry.Rules()
	for _, rule := range rules {
		if taken[rule.Name()] {
			return PluginMetadata{}, fmt.Errorf("plugin %s: rule %q already registered", plugin.Name(), rule.Name())
		}
		taken[rule.Name()] = true
	}
	meta := PluginMetadata{Name: plugin.Name(), Version: plugin.Version()}
	for _, rule := range rules {
		s.engine.Register(rule)
		meta.Rules = append(meta.Rules, rule.Name())
	}
	s.plugins[plugin.Name()] = meta
	s.logger.Info("plugin installed", "plugin", meta.Name, "version", meta.Version, "rules", len(meta.Rules))
	return meta, nil
}

// RegisteredPlugins returns installed plugins sorted by name.
func (s *Service) RegisteredPlugins() []PluginMetadata {
	out := make([]PluginMetadata, 0, len(s.plugins))
	for _, meta := range s.plugins {
		out = append(out, meta)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
