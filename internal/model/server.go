// Package model defines the shared data shapes of the sync engine: server
// definitions as target config files spell them, the per-target entry
// mapping, and the managed policies that declare which entries the engine
// owns. Everything here is plain data; file access lives in the target and
// engine packages.
package model

import (
	"bytes"
	"encoding/json"
	"sort"
)

// ServerDefinition is one MCP server entry: the command to launch plus its
// arguments, environment, and working directory. Enabled is a tri-state;
// nil means enabled (the field is omitted when serialized).
type ServerDefinition struct {
	Command string            `json:"command" yaml:"command"`
	Args    []string          `json:"args,omitempty" yaml:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty" yaml:"env,omitempty"`
	Cwd     string            `json:"cwd,omitempty" yaml:"cwd,omitempty"`
	Enabled *bool             `json:"enabled,omitempty" yaml:"enabled,omitempty"`
}

// IsEnabled reports the effective enabled state; an absent flag counts as
// enabled.
func (d ServerDefinition) IsEnabled() bool {
	return d.Enabled == nil || *d.Enabled
}

// Clone returns a deep copy.
func (d ServerDefinition) Clone() ServerDefinition {
	out := d
	if d.Args != nil {
		out.Args = make([]string, len(d.Args))
		copy(out.Args, d.Args)
	}
	if d.Env != nil {
		out.Env = make(map[string]string, len(d.Env))
		for k, v := range d.Env {
			out.Env[k] = v
		}
	}
	if d.Enabled != nil {
		v := *d.Enabled
		out.Enabled = &v
	}
	return out
}

// Equal compares two definitions by their canonical JSON serialization.
// Args order matters, env is compared as a full map, and an absent enabled
// flag differs from an explicit one.
func (d ServerDefinition) Equal(other ServerDefinition) bool {
	a, _ := json.Marshal(d)
	b, _ := json.Marshal(other)
	return bytes.Equal(a, b)
}

// TargetConfig is the named set of server entries inside one target's
// config document, keyed by entry name.
type TargetConfig map[string]ServerDefinition

// Clone returns a deep copy. A nil config clones to an empty one.
func (c TargetConfig) Clone() TargetConfig {
	out := make(TargetConfig, len(c))
	for name, def := range c {
		out[name] = def.Clone()
	}
	return out
}

// Names returns the entry names in lexicographic order.
func (c TargetConfig) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Equal reports whether both configs hold the same entries with equal
// definitions.
func (c TargetConfig) Equal(other TargetConfig) bool {
	if len(c) != len(other) {
		return false
	}
	for name, def := range c {
		otherDef, ok := other[name]
		if !ok || !def.Equal(otherDef) {
			return false
		}
	}
	return true
}
