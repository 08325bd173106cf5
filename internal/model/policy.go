package model

import "fmt"

// PolicyOverride adjusts one policy for a single target: a replacement
// definition, a forced enabled state, or both.
type PolicyOverride struct {
	Definition *ServerDefinition `json:"definition,omitempty" yaml:"definition,omitempty"`
	Enabled    *bool             `json:"enabled,omitempty" yaml:"enabled,omitempty"`
}

// ManagedPolicy declares one server entry the engine owns. Shared policies
// install into every selected target; non-shared policies only reach
// targets that carry an explicit override. Enabled is the global switch:
// when false the entry is written disabled everywhere regardless of
// overrides.
type ManagedPolicy struct {
	Name       string                    `json:"name" yaml:"name"`
	Definition ServerDefinition          `json:"definition" yaml:"definition"`
	Shared     bool                      `json:"shared" yaml:"shared"`
	Enabled    bool                      `json:"enabled" yaml:"enabled"`
	Overrides  map[string]PolicyOverride `json:"overrides,omitempty" yaml:"overrides,omitempty"`
}

// AppliesTo reports whether the policy installs an entry into the given
// target.
func (p ManagedPolicy) AppliesTo(targetID string) bool {
	if p.Shared {
		return true
	}
	_, ok := p.Overrides[targetID]
	return ok
}

// EffectiveEnabled resolves the enabled state for one target: the global
// switch AND the target override, which defaults to enabled when absent.
func (p ManagedPolicy) EffectiveEnabled(targetID string) bool {
	if !p.Enabled {
		return false
	}
	ov, ok := p.Overrides[targetID]
	if !ok || ov.Enabled == nil {
		return true
	}
	return *ov.Enabled
}

// EffectiveDefinition resolves the definition written into the given
// target: the override definition when one exists, otherwise the base,
// with the enabled flag materialized from EffectiveEnabled. Enabled
// entries omit the flag (absent means enabled); disabled entries carry an
// explicit false.
func (p ManagedPolicy) EffectiveDefinition(targetID string) ServerDefinition {
	def := p.Definition
	if ov, ok := p.Overrides[targetID]; ok && ov.Definition != nil {
		def = *ov.Definition
	}
	def = def.Clone()

	if p.EffectiveEnabled(targetID) {
		def.Enabled = nil
	} else {
		disabled := false
		def.Enabled = &disabled
	}
	return def
}

// Validate reports every problem with the declaration as a field-level
// string.
func (p ManagedPolicy) Validate() []string {
	var problems []string
	if p.Name == "" {
		problems = append(problems, "policy name must be a non-empty string")
	}

	label := p.Name
	if label == "" {
		label = "(unnamed)"
	}
	if p.Definition.Command == "" {
		problems = append(problems, fmt.Sprintf("policy %q: definition command must be a non-empty string", label))
	}
	for target, ov := range p.Overrides {
		if target == "" {
			problems = append(problems, fmt.Sprintf("policy %q: override target ids must be non-empty", label))
		}
		if ov.Definition != nil && ov.Definition.Command == "" {
			problems = append(problems, fmt.Sprintf("policy %q: override for %q: command must be a non-empty string", label, target))
		}
	}
	return problems
}
