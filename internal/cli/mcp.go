package cli

import (
	"github.com/spf13/cobra"

	"mcpsync/internal/logging"
	mcpserver "mcpsync/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve mcpsync itself as an MCP server over stdio",
	Long: "Exposes the engine as MCP tools (list_targets, preview_sync, apply_sync,\n" +
		"revision_history, revert_revision) so an AI assistant can inspect and\n" +
		"reconcile target configs through the same guarded path as the CLI.",
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	eng, sources, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	server := mcpserver.NewServer(cfg, eng, sources, logging.GetDefault())
	return server.Start()
}
