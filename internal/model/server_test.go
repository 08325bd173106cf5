package model

import (
	"testing"
)

func boolPtr(v bool) *bool {
	return &v
}

func TestServerDefinitionIsEnabled(t *testing.T) {
	tests := []struct {
		name string
		def  ServerDefinition
		want bool
	}{
		{"absent flag counts as enabled", ServerDefinition{Command: "mcp-time"}, true},
		{"explicit true", ServerDefinition{Command: "mcp-time", Enabled: boolPtr(true)}, true},
		{"explicit false", ServerDefinition{Command: "mcp-time", Enabled: boolPtr(false)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.def.IsEnabled(); got != tt.want {
				t.Errorf("IsEnabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestServerDefinitionEqual(t *testing.T) {
	base := ServerDefinition{
		Command: "npx",
		Args:    []string{"-y", "@modelcontextprotocol/server-filesystem", "/data"},
		Env:     map[string]string{"LOG_LEVEL": "info"},
		Cwd:     "/data",
	}

	tests := []struct {
		name  string
		other ServerDefinition
		want  bool
	}{
		{"identical", base.Clone(), true},
		{"different command", ServerDefinition{Command: "npx2", Args: base.Args, Env: base.Env, Cwd: base.Cwd}, false},
		{"args order matters", ServerDefinition{Command: "npx", Args: []string{"@modelcontextprotocol/server-filesystem", "-y", "/data"}, Env: base.Env, Cwd: base.Cwd}, false},
		{"missing env key", ServerDefinition{Command: "npx", Args: base.Args, Cwd: base.Cwd}, false},
		{"different cwd", ServerDefinition{Command: "npx", Args: base.Args, Env: base.Env, Cwd: "/other"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Equal(tt.other); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("absent enabled differs from explicit", func(t *testing.T) {
		implicit := ServerDefinition{Command: "mcp-time"}
		explicit := ServerDefinition{Command: "mcp-time", Enabled: boolPtr(true)}

		if implicit.Equal(explicit) {
			t.Error("Expected serialized difference between absent and explicit enabled flag")
		}
		if implicit.IsEnabled() != explicit.IsEnabled() {
			t.Error("Both definitions should still report enabled")
		}
	})
}

func TestServerDefinitionClone(t *testing.T) {
	original := ServerDefinition{
		Command: "mcp-fs",
		Args:    []string{"--root", "/data"},
		Env:     map[string]string{"TOKEN": "abc"},
		Enabled: boolPtr(false),
	}

	clone := original.Clone()
	clone.Args[0] = "--changed"
	clone.Env["TOKEN"] = "changed"
	*clone.Enabled = true

	if original.Args[0] != "--root" {
		t.Error("Clone shares args slice with original")
	}
	if original.Env["TOKEN"] != "abc" {
		t.Error("Clone shares env map with original")
	}
	if *original.Enabled {
		t.Error("Clone shares enabled pointer with original")
	}
}

func TestTargetConfigNames(t *testing.T) {
	cfg := TargetConfig{
		"zeta":  {Command: "z"},
		"alpha": {Command: "a"},
		"mid":   {Command: "m"},
	}

	names := cfg.Names()
	want := []string{"alpha", "mid", "zeta"}
	if len(names) != len(want) {
		t.Fatalf("Names() returned %d names, want %d", len(names), len(want))
	}
	for i, name := range want {
		if names[i] != name {
			t.Errorf("Names()[%d] = %q, want %q", i, names[i], name)
		}
	}
}

func TestTargetConfigEqual(t *testing.T) {
	a := TargetConfig{
		"time": {Command: "mcp-time"},
		"fs":   {Command: "mcp-fs", Args: []string{"/data"}},
	}

	t.Run("equal configs", func(t *testing.T) {
		if !a.Equal(a.Clone()) {
			t.Error("Expected cloned config to be equal")
		}
	})

	t.Run("missing entry", func(t *testing.T) {
		b := TargetConfig{"time": {Command: "mcp-time"}}
		if a.Equal(b) {
			t.Error("Expected configs with different entry sets to differ")
		}
	})

	t.Run("different definition", func(t *testing.T) {
		b := a.Clone()
		b["fs"] = ServerDefinition{Command: "mcp-fs", Args: []string{"/other"}}
		if a.Equal(b) {
			t.Error("Expected configs with different definitions to differ")
		}
	})

	t.Run("empty and nil are equal", func(t *testing.T) {
		if !(TargetConfig{}).Equal(nil) {
			t.Error("Expected empty config to equal nil config")
		}
	})
}
