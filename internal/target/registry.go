// Package target knows where each AI tool keeps its MCP server entries and
// how to read and write those files safely. There is exactly one adapter
// implementation; built-in and custom targets differ only in the descriptor
// it is constructed from.
package target

import (
	"fmt"
	"path/filepath"

	"github.com/adrg/xdg"

	"mcpsync/pkg/fileops"
)

// Supported built-in targets
const (
	ClaudeDesktop = "claude-desktop"
	ClaudeCode    = "claude-code"
	Cursor        = "cursor"
	VSCode        = "vscode"
	Windsurf      = "windsurf"
	Zed           = "zed"
)

// Descriptor describes one target: which top-level field of its config
// document holds the server entries, and where the document may live.
type Descriptor struct {
	// ID is the stable identifier used in plans, the journal, and the CLI.
	ID string

	// Name is the human-readable tool name.
	Name string

	// Field is the top-level document key holding the entry mapping.
	Field string

	// CandidatePaths returns the default config locations in preference
	// order. Resolved at call time so XDG environment changes are honored.
	CandidatePaths func() []string

	// SafeToRestart reports whether the tool can be restarted after a
	// config write without losing user state. Advisory only; nothing in
	// the engine acts on it.
	SafeToRestart bool
}

// BuiltinTargets lists every tool the engine knows out of the box.
var BuiltinTargets = []Descriptor{
	{
		// https://modelcontextprotocol.io/quickstart/user
		ID:    ClaudeDesktop,
		Name:  "Claude Desktop",
		Field: "mcpServers",
		CandidatePaths: func() []string {
			return []string{
				filepath.Join(xdg.ConfigHome, "Claude", "claude_desktop_config.json"),
			}
		},
		SafeToRestart: true,
	},
	{
		// https://docs.anthropic.com/en/docs/claude-code/mcp
		ID:    ClaudeCode,
		Name:  "Claude Code",
		Field: "mcpServers",
		CandidatePaths: func() []string {
			return []string{
				filepath.Join(xdg.Home, ".claude.json"),
			}
		},
		// Restarting kills any session in progress, so tooling must never
		// bounce it automatically.
		SafeToRestart: false,
	},
	{
		// https://docs.cursor.com/context/model-context-protocol
		ID:    Cursor,
		Name:  "Cursor",
		Field: "mcpServers",
		CandidatePaths: func() []string {
			return []string{
				filepath.Join(xdg.Home, ".cursor", "mcp.json"),
			}
		},
		SafeToRestart: true,
	},
	{
		// https://code.visualstudio.com/docs/copilot/chat/mcp-servers
		ID:    VSCode,
		Name:  "VS Code",
		Field: "servers",
		CandidatePaths: func() []string {
			return []string{
				filepath.Join(xdg.ConfigHome, "Code", "User", "mcp.json"),
				filepath.Join(xdg.ConfigHome, "Code - Insiders", "User", "mcp.json"),
			}
		},
		SafeToRestart: true,
	},
	{
		// https://docs.windsurf.com/windsurf/cascade/mcp
		ID:    Windsurf,
		Name:  "Windsurf",
		Field: "mcpServers",
		CandidatePaths: func() []string {
			return []string{
				filepath.Join(xdg.Home, ".codeium", "windsurf", "mcp_config.json"),
				filepath.Join(xdg.Home, ".codeium", "windsurf-next", "mcp_config.json"),
			}
		},
		SafeToRestart: true,
	},
	{
		// https://zed.dev/docs/assistant/context-servers
		// Zed keeps context_servers inside its main settings.json on every
		// platform, next to unrelated editor settings.
		ID:    Zed,
		Name:  "Zed",
		Field: "context_servers",
		CandidatePaths: func() []string {
			return []string{
				filepath.Join(xdg.Home, ".config", "zed", "settings.json"),
			}
		},
		SafeToRestart: true,
	},
}

// Resolve determines where the target's config is written and which
// candidate paths feed the merge read. An explicit override replaces the
// write path and leads the candidate list; extra sources are read-only
// contributors appended after the defaults. User-declared paths may use
// "~/"; duplicates are dropped so no file is read twice.
func (d Descriptor) Resolve(overridePath string, extraSources []string) (writePath string, candidates []string) {
	overridePath = fileops.ExpandPath(overridePath)
	defaults := d.CandidatePaths()

	seen := make(map[string]bool)
	add := func(paths ...string) {
		for _, p := range paths {
			if p == "" || seen[p] {
				continue
			}
			seen[p] = true
			candidates = append(candidates, p)
		}
	}
	add(overridePath)
	add(defaults...)
	for _, extra := range extraSources {
		add(fileops.ExpandPath(extra))
	}

	writePath = overridePath
	if writePath == "" && len(defaults) > 0 {
		writePath = defaults[0]
	}
	return writePath, candidates
}

// Lookup returns the built-in descriptor for id.
func Lookup(id string) (Descriptor, bool) {
	for _, d := range BuiltinTargets {
		if d.ID == id {
			return d, true
		}
	}
	return Descriptor{}, false
}

// IDs returns the built-in target ids in table order.
func IDs() []string {
	ids := make([]string, len(BuiltinTargets))
	for i, d := range BuiltinTargets {
		ids[i] = d.ID
	}
	return ids
}

// Custom declares a user-defined target from the settings file: any tool
// that stores entries as a named mapping inside a JSON document can be
// managed with just a path and a field name.
type Custom struct {
	ID    string `yaml:"id" json:"id"`
	Name  string `yaml:"name,omitempty" json:"name,omitempty"`
	Path  string `yaml:"path" json:"path"`
	Field string `yaml:"field" json:"field"`
}

// Validate reports every problem with the declaration.
func (c Custom) Validate() []string {
	var problems []string
	label := c.ID
	if label == "" {
		label = "(unnamed)"
	}
	if c.ID == "" {
		problems = append(problems, "custom target id must be non-empty")
	}
	if _, exists := Lookup(c.ID); exists {
		problems = append(problems, fmt.Sprintf("custom target %q: id collides with a built-in target", label))
	}
	if c.Path == "" {
		problems = append(problems, fmt.Sprintf("custom target %q: path must be non-empty", label))
	}
	if c.Field == "" {
		problems = append(problems, fmt.Sprintf("custom target %q: field must be non-empty", label))
	}
	return problems
}

// Descriptor converts the declaration into a descriptor the adapter can
// run on.
func (c Custom) Descriptor() Descriptor {
	name := c.Name
	if name == "" {
		name = c.ID
	}
	path := fileops.ExpandPath(c.Path)
	return Descriptor{
		ID:    c.ID,
		Name:  name,
		Field: c.Field,
		CandidatePaths: func() []string {
			return []string{path}
		},
		SafeToRestart: false,
	}
}
