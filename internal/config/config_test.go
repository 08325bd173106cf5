package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"mcpsync/internal/model"
	"mcpsync/internal/target"
)

func boolPtr(v bool) *bool {
	return &v
}

func TestConfigSaveLoad(t *testing.T) {
	t.Log("Testing Config Saving and Loading")

	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	originalConfig := Config{
		Version: "1.0",
		Policies: []model.ManagedPolicy{
			{
				Name:       "localTime",
				Shared:     true,
				Enabled:    true,
				Definition: model.ServerDefinition{Command: "mcp-server-time", Args: []string{"--local-timezone", "UTC"}},
				Overrides: map[string]model.PolicyOverride{
					"claude-code": {Enabled: boolPtr(false)},
				},
			},
		},
		CustomTargets: []target.Custom{
			{ID: "mytool", Path: "/home/u/.mytool/mcp.json", Field: "mcpServers"},
		},
		PathOverrides:     map[string]string{"cursor": "/custom/cursor/mcp.json"},
		ExtraSources:      map[string][]string{"vscode": {"/dotfiles/vscode-mcp.json"}},
		JournalPath:       "/var/lib/mcpsync/revisions.jsonl",
		PreserveUnmanaged: boolPtr(false),
		InitTime:          time.Now().Unix(),
	}

	if err := originalConfig.SaveTo(configPath); err != nil {
		t.Fatalf("Failed to save config: %s", err)
	}

	loadedConfig, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %s", err)
	}

	if len(loadedConfig.Policies) != 1 {
		t.Fatalf("Expected 1 policy, got %d", len(loadedConfig.Policies))
	}
	policy := loadedConfig.Policies[0]
	if policy.Name != "localTime" || !policy.Shared {
		t.Errorf("Policy did not round-trip: %+v", policy)
	}
	if policy.Definition.Command != "mcp-server-time" || len(policy.Definition.Args) != 2 {
		t.Errorf("Policy definition did not round-trip: %+v", policy.Definition)
	}
	override, ok := policy.Overrides["claude-code"]
	if !ok || override.Enabled == nil || *override.Enabled {
		t.Errorf("Override did not round-trip: %+v", policy.Overrides)
	}

	if len(loadedConfig.CustomTargets) != 1 || loadedConfig.CustomTargets[0].Field != "mcpServers" {
		t.Errorf("Custom targets did not round-trip: %+v", loadedConfig.CustomTargets)
	}
	if loadedConfig.PathOverrides["cursor"] != "/custom/cursor/mcp.json" {
		t.Errorf("Path overrides did not round-trip: %+v", loadedConfig.PathOverrides)
	}
	if len(loadedConfig.ExtraSources["vscode"]) != 1 {
		t.Errorf("Extra sources did not round-trip: %+v", loadedConfig.ExtraSources)
	}
	if loadedConfig.JournalPath != originalConfig.JournalPath {
		t.Errorf("JournalPath mismatch: expected %s, got %s", originalConfig.JournalPath, loadedConfig.JournalPath)
	}
	if loadedConfig.PreserveUnmanagedOrDefault() {
		t.Error("preserve_unmanaged=false was lost in the round trip")
	}
	if loadedConfig.InitTime != originalConfig.InitTime {
		t.Errorf("InitTime mismatch: expected %d, got %d", originalConfig.InitTime, loadedConfig.InitTime)
	}
}

func TestConfigInitTime(t *testing.T) {
	t.Log("Testing Config InitTime on Save")

	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	config := Config{
		Version: "1.0",
		// InitTime not set (0)
	}

	before := time.Now().Unix()
	if err := config.SaveTo(configPath); err != nil {
		t.Fatalf("Failed to save config: %s", err)
	}
	after := time.Now().Unix()

	// InitTime should be set during save
	if config.InitTime < before || config.InitTime > after {
		t.Errorf("InitTime %d should be between %d and %d", config.InitTime, before, after)
	}
}

func TestConfigFilePermissions(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	config := DefaultConfig()
	if err := config.SaveTo(configPath); err != nil {
		t.Fatalf("Failed to save config: %s", err)
	}

	fileInfo, err := os.Stat(configPath)
	if err != nil {
		t.Fatalf("Failed to stat config file: %s", err)
	}

	mode := fileInfo.Mode()
	if mode&0077 != 0 {
		t.Errorf("Config file should not be readable by group/others, got mode %o", mode)
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Version == "" {
		t.Error("Default config should have a version")
	}
	if config.InitTime != 0 {
		t.Error("Default config InitTime should be 0 (will be set on save)")
	}
	if !config.PreserveUnmanagedOrDefault() {
		t.Error("Unmanaged entries must be preserved by default")
	}
	if !strings.HasSuffix(config.JournalPathOrDefault(), filepath.Join(APP_NAME, "revisions.jsonl")) {
		t.Errorf("Unexpected default journal path: %s", config.JournalPathOrDefault())
	}
}

func TestConfigValidate(t *testing.T) {
	valid := Config{
		Version: "1.0",
		Policies: []model.ManagedPolicy{
			{Name: "time", Shared: true, Enabled: true, Definition: model.ServerDefinition{Command: "mcp-time"}},
		},
		CustomTargets: []target.Custom{
			{ID: "mytool", Path: "/tmp/mcp.json", Field: "servers"},
		},
	}

	tests := []struct {
		name        string
		mutate      func(c *Config)
		wantProblem string
	}{
		{
			name: "duplicate policy name",
			mutate: func(c *Config) {
				c.Policies = append(c.Policies, c.Policies[0])
			},
			wantProblem: `duplicate policy name "time"`,
		},
		{
			name: "policy problems bubble up",
			mutate: func(c *Config) {
				c.Policies[0].Definition.Command = ""
			},
			wantProblem: "command must be a non-empty string",
		},
		{
			name: "custom target problems bubble up",
			mutate: func(c *Config) {
				c.CustomTargets[0].Field = ""
			},
			wantProblem: "field must be non-empty",
		},
		{
			name: "duplicate custom target id",
			mutate: func(c *Config) {
				c.CustomTargets = append(c.CustomTargets, c.CustomTargets[0])
			},
			wantProblem: `duplicate custom target id "mytool"`,
		},
		{
			name: "unknown id in targets",
			mutate: func(c *Config) {
				c.Targets = []string{"nonexistent"}
			},
			wantProblem: `targets lists unknown target "nonexistent"`,
		},
		{
			name: "unknown id in path overrides",
			mutate: func(c *Config) {
				c.PathOverrides = map[string]string{"nonexistent": "/x.json"}
			},
			wantProblem: `path_overrides names unknown target "nonexistent"`,
		},
		{
			name: "unknown id in extra sources",
			mutate: func(c *Config) {
				c.ExtraSources = map[string][]string{"nonexistent": {"/x.json"}}
			},
			wantProblem: `extra_sources names unknown target "nonexistent"`,
		},
	}

	if problems := valid.Validate(); len(problems) != 0 {
		t.Fatalf("Baseline config should be valid, got: %v", problems)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			cfg.Policies = append([]model.ManagedPolicy(nil), valid.Policies...)
			cfg.CustomTargets = append([]target.Custom(nil), valid.CustomTargets...)
			tt.mutate(&cfg)

			problems := cfg.Validate()
			found := false
			for _, p := range problems {
				if strings.Contains(p, tt.wantProblem) {
					found = true
				}
			}
			if !found {
				t.Errorf("Problems %v do not mention %q", problems, tt.wantProblem)
			}
		})
	}
}

func TestLoadFromRejectsInvalidDeclarations(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	content := `version: "1.0"
policies:
  - name: time
    shared: true
    enabled: true
    definition:
      command: mcp-time
  - name: time
    shared: true
    enabled: true
    definition:
      command: mcp-time-again
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write config: %s", err)
	}

	_, err := LoadFrom(configPath)
	if err == nil {
		t.Fatal("Expected duplicate policy names to be rejected")
	}
	if !strings.Contains(err.Error(), "duplicate policy name") {
		t.Errorf("Error does not explain the problem: %v", err)
	}
}

func TestConfigTargetIDs(t *testing.T) {
	cfg := Config{
		CustomTargets: []target.Custom{
			{ID: "mytool", Path: "/tmp/mcp.json", Field: "servers"},
		},
	}

	ids := cfg.TargetIDs()
	if len(ids) != len(target.IDs())+1 {
		t.Errorf("Expected every built-in plus the custom target, got %v", ids)
	}
	if ids[len(ids)-1] != "mytool" {
		t.Errorf("Custom target missing from resolved ids: %v", ids)
	}

	cfg.Targets = []string{"cursor", "mytool"}
	ids = cfg.TargetIDs()
	if len(ids) != 2 || ids[0] != "cursor" || ids[1] != "mytool" {
		t.Errorf("Explicit target list not honored: %v", ids)
	}
}

func TestConfigDescriptor(t *testing.T) {
	cfg := Config{
		CustomTargets: []target.Custom{
			{ID: "mytool", Path: "/tmp/mcp.json", Field: "tools"},
		},
	}

	d, ok := cfg.Descriptor("mytool")
	if !ok || d.Field != "tools" {
		t.Errorf("Custom descriptor not resolved: %+v", d)
	}

	d, ok = cfg.Descriptor(target.Zed)
	if !ok || d.Field != "context_servers" {
		t.Errorf("Built-in descriptor not resolved: %+v", d)
	}

	if _, ok := cfg.Descriptor("nonexistent"); ok {
		t.Error("Expected a miss for an unknown target id")
	}
}

// Error handling tests
func TestConfigErrorHandling(t *testing.T) {
	t.Run("load non-existent file", func(t *testing.T) {
		_, err := LoadFrom("/non/existent/file.yaml")
		if err == nil {
			t.Error("Should error when loading non-existent file")
		}
	})

	t.Run("load invalid YAML", func(t *testing.T) {
		tempDir := t.TempDir()
		invalidFile := filepath.Join(tempDir, "invalid.yaml")
		os.WriteFile(invalidFile, []byte("invalid: yaml: content: ["), 0644)

		_, err := LoadFrom(invalidFile)
		if err == nil {
			t.Error("Should error when loading invalid YAML")
		}
	})
}

func TestWriteStarter(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "nested", "config.yaml")

	if err := WriteStarter(configPath); err != nil {
		t.Fatalf("Failed to write starter config: %s", err)
	}

	// The template must load as a valid empty configuration.
	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("Starter config does not parse: %s", err)
	}
	if len(cfg.Policies) != 0 {
		t.Errorf("Starter config should declare no policies, got %d", len(cfg.Policies))
	}

	if err := WriteStarter(configPath); err == nil {
		t.Error("WriteStarter must refuse to clobber an existing file")
	}

	fileInfo, err := os.Stat(configPath)
	if err != nil {
		t.Fatalf("Failed to stat config file: %s", err)
	}
	if fileInfo.Mode()&0077 != 0 {
		t.Errorf("Starter config should not be readable by group/others, got mode %o", fileInfo.Mode())
	}
}
