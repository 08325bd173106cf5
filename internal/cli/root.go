// Package cli is the cobra command tree over the sync engine. Every
// command loads the declared config, builds an engine for its targets,
// and renders through the shared styles; nothing here touches target
// files directly.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mcpsync/internal/config"
	"mcpsync/internal/engine"
	"mcpsync/internal/logging"
	"mcpsync/internal/target"
)

var rootCmd = &cobra.Command{
	Use:   "mcpsync",
	Short: "Keep MCP server entries in sync across AI tool configs",
	Long: "mcpsync reconciles declared MCP server policies into the JSON config files\n" +
		"of Claude Desktop, Claude Code, Cursor, VS Code, Windsurf, Zed, and any\n" +
		"custom target. Every apply backs up the touched files and records a\n" +
		"revision that can be reverted.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var configPathFlag string

func init() {
	rootCmd.PersistentFlags().StringVar(
		&configPathFlag,
		"config",
		"",
		"Path to the mcpsync config file (default: the XDG config dir)",
	)

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(revertCmd)
	rootCmd.AddCommand(targetsCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(mcpCmd)
}

// Execute runs the command tree. It is the only entry point main calls.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("error:")+" "+err.Error())
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if configPathFlag != "" {
		return config.LoadFrom(configPathFlag)
	}
	return config.Load()
}

// buildEngine assembles an engine over the config's targets and resolves
// each target's write path and merge-read candidates.
func buildEngine(cfg *config.Config) (*engine.Engine, []engine.TargetSource, error) {
	logger := logging.GetDefault()
	journal := engine.NewJournal(cfg.JournalPathOrDefault(), logger)
	eng := engine.New(journal, logger)

	var sources []engine.TargetSource
	for _, id := range cfg.TargetIDs() {
		desc, ok := cfg.Descriptor(id)
		if !ok {
			return nil, nil, fmt.Errorf("unknown target %q", id)
		}
		eng.Register(target.NewAdapter(desc, logger))

		writePath, candidates := desc.Resolve(cfg.PathOverrides[id], cfg.ExtraSources[id])
		if writePath == "" {
			return nil, nil, fmt.Errorf("target %q has no config path", id)
		}
		sources = append(sources, engine.TargetSource{
			TargetID:   id,
			WritePath:  writePath,
			Candidates: candidates,
		})
	}
	return eng, sources, nil
}
