package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"mcpsync/internal/logging"
	"mcpsync/internal/model"
	"mcpsync/internal/target"
	"mcpsync/pkg/fileops"
)

const APP_NAME = "mcpsync" // application name used for config directory

// Config holds the user's declared state: which MCP servers exist, which
// targets they sync to, and where the revision journal lives. The file is
// the single source of truth the engine reconciles targets against.
type Config struct {
	Version string `yaml:"version"` // Track config version

	// Policies are the managed server entries, by name.
	Policies []model.ManagedPolicy `yaml:"policies"`

	// CustomTargets declares extra tools beyond the built-in registry.
	CustomTargets []target.Custom `yaml:"custom_targets,omitempty"`

	// Targets limits syncing to the listed target ids. Empty means every
	// built-in target plus every declared custom target.
	Targets []string `yaml:"targets,omitempty"`

	// PathOverrides pins a target's config file to an explicit path
	// instead of its default candidates.
	PathOverrides map[string]string `yaml:"path_overrides,omitempty"`

	// ExtraSources adds read-only candidate paths per target; their
	// entries join the merge read but are never written to.
	ExtraSources map[string][]string `yaml:"extra_sources,omitempty"`

	// JournalPath overrides where revision history is appended.
	JournalPath string `yaml:"journal_path,omitempty"`

	// PreserveUnmanaged controls whether entries no policy claims are
	// kept in place. Unset means true.
	PreserveUnmanaged *bool `yaml:"preserve_unmanaged,omitempty"`

	InitTime int64 `yaml:"init_time"` // Unix timestamp of first setup
}

// ConfigPath returns the standard config file path for the current platform
func ConfigPath() (string, error) {
	configDir := filepath.Join(xdg.ConfigHome, APP_NAME)
	configPath := filepath.Join(configDir, "config.yaml")

	logging.Debug("Determined config path", "path", configPath)
	return configPath, nil
}

// DefaultJournalPath returns where revision history lives when the config
// does not say otherwise.
func DefaultJournalPath() string {
	return filepath.Join(xdg.DataHome, APP_NAME, "revisions.jsonl")
}

// Load loads the config from the standard location.
// If no config exists, it returns an error indicating first run is needed.
func Load() (*Config, error) {
	configPath, exists := FindConfigFile()
	logging.Debug("Loading config from", "path", configPath)
	if !exists {
		return nil, fmt.Errorf("no configuration found, first-time setup required (run: mcpsync init)")
	}

	return LoadFrom(configPath)
}

// LoadFrom loads config from a specific path and rejects declarations the
// engine could not act on.
func LoadFrom(path string) (*Config, error) {
	logging.Debug("Reading config file", "path", path)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	var cfg Config
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if problems := cfg.Validate(); len(problems) > 0 {
		return nil, fmt.Errorf("invalid configuration in %s:\n  - %s", path, strings.Join(problems, "\n  - "))
	}
	return &cfg, nil
}

// FindConfigFile returns the path to an existing config file, and whether it exists.
func FindConfigFile() (string, bool) {
	primary, err := ConfigPath()
	if err != nil {
		logging.Error("Failed to get config path", "error", err)
		return "", false
	}

	if _, err := os.Stat(primary); err == nil {
		logging.Debug("Config found at primary path", "path", primary)
		return primary, true
	}

	// Return primary path for new config
	return primary, false
}

// IsFirstRun checks if this is the first time the application is run
func IsFirstRun() bool {
	_, exists := FindConfigFile()
	return !exists
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Version:  "1.0",
		InitTime: 0, // Will be set during first save
	}
}

// Validate reports every problem with the declared state. Load refuses a
// config with problems so a half-valid declaration never reaches a target
// file.
func (c *Config) Validate() []string {
	var problems []string

	seenPolicies := make(map[string]bool)
	for _, p := range c.Policies {
		problems = append(problems, p.Validate()...)
		if p.Name == "" {
			continue
		}
		if seenPolicies[p.Name] {
			problems = append(problems, fmt.Sprintf("duplicate policy name %q", p.Name))
		}
		seenPolicies[p.Name] = true
	}

	known := make(map[string]bool)
	for _, id := range target.IDs() {
		known[id] = true
	}
	seenCustom := make(map[string]bool)
	for _, ct := range c.CustomTargets {
		problems = append(problems, ct.Validate()...)
		if ct.ID == "" {
			continue
		}
		if seenCustom[ct.ID] {
			problems = append(problems, fmt.Sprintf("duplicate custom target id %q", ct.ID))
		}
		seenCustom[ct.ID] = true
		known[ct.ID] = true
	}

	for _, id := range c.Targets {
		if !known[id] {
			problems = append(problems, fmt.Sprintf("targets lists unknown target %q", id))
		}
	}
	for id := range c.PathOverrides {
		if !known[id] {
			problems = append(problems, fmt.Sprintf("path_overrides names unknown target %q", id))
		}
	}
	for id := range c.ExtraSources {
		if !known[id] {
			problems = append(problems, fmt.Sprintf("extra_sources names unknown target %q", id))
		}
	}
	return problems
}

// TargetIDs resolves which targets this config manages: the explicit list
// when given, otherwise every built-in plus every custom target.
func (c *Config) TargetIDs() []string {
	if len(c.Targets) > 0 {
		ids := make([]string, len(c.Targets))
		copy(ids, c.Targets)
		return ids
	}

	ids := target.IDs()
	for _, ct := range c.CustomTargets {
		ids = append(ids, ct.ID)
	}
	return ids
}

// Descriptor resolves a managed target id against the built-in registry
// and the config's custom targets.
func (c *Config) Descriptor(id string) (target.Descriptor, bool) {
	for _, ct := range c.CustomTargets {
		if ct.ID == id {
			return ct.Descriptor(), true
		}
	}
	return target.Lookup(id)
}

// JournalPathOrDefault returns the configured journal path, or the
// platform default when unset.
func (c *Config) JournalPathOrDefault() string {
	if c.JournalPath != "" {
		return fileops.ExpandPath(c.JournalPath)
	}
	return DefaultJournalPath()
}

// PreserveUnmanagedOrDefault reports whether unmanaged entries survive an
// apply. Unset means true: other tools' entries are not ours to delete.
func (c *Config) PreserveUnmanagedOrDefault() bool {
	if c.PreserveUnmanaged == nil {
		return true
	}
	return *c.PreserveUnmanaged
}

// Save writes the config to the standard location
func (c *Config) Save() error {
	configPath, _ := FindConfigFile()
	return c.SaveTo(configPath)
}

// SaveTo writes the config to a specific path
func (c *Config) SaveTo(path string) error {
	// Set init time if this is the first save
	if c.InitTime == 0 {
		c.InitTime = time.Now().Unix()
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Create file with restrictive permissions (600) for security
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	defer enc.Close()

	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
