package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// StarterConfig is the commented template written on first run. It must
// parse as a valid empty configuration.
const StarterConfig = `# mcpsync configuration.
# Declare MCP servers once; mcpsync reconciles every tool's config file.
version: "1.0"

# Servers to manage. A shared policy syncs to every target; otherwise it
# only reaches the targets named under overrides.
policies: []
#   - name: localTime
#     shared: true
#     enabled: true
#     definition:
#       command: mcp-server-time
#       args: ["--local-timezone", "UTC"]
#     overrides:
#       claude-code:
#         enabled: false

# Tools beyond the built-in registry (claude-desktop, claude-code, cursor,
# vscode, windsurf, zed). Any JSON config holding a named server mapping
# under one top-level field works.
# custom_targets:
#   - id: mytool
#     path: /home/me/.mytool/mcp.json
#     field: mcpServers

# Only sync the listed targets. Empty means all of them.
# targets: [claude-desktop, cursor]

# Pin a target's config file to an explicit path.
# path_overrides:
#   cursor: /home/me/.cursor/mcp.json

# Extra read-only files whose entries join the merge read.
# extra_sources:
#   vscode:
#     - /home/me/dotfiles/vscode-mcp.json

# Where revision history is recorded (default: under the XDG data dir).
# journal_path: /home/me/.local/share/mcpsync/revisions.jsonl

# Keep entries no policy claims (default: true).
# preserve_unmanaged: true
`

// WriteStarter writes the starter template to path. It refuses to clobber
// an existing file.
func WriteStarter(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(StarterConfig), 0600); err != nil {
		return fmt.Errorf("failed to write starter config: %w", err)
	}
	return nil
}
