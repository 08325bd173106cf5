package cli

import (
	"os"

	"github.com/spf13/cobra"

	"mcpsync/internal/config"
	"mcpsync/pkg/fileops"
)

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List every known target and where its config lives",
	Args:  cobra.NoArgs,
	RunE:  runTargets,
}

func runTargets(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		// The built-in registry is worth listing even before init.
		if configPathFlag == "" && config.IsFirstRun() {
			def := config.DefaultConfig()
			cfg = &def
		} else {
			return err
		}
	}

	for _, id := range cfg.TargetIDs() {
		desc, ok := cfg.Descriptor(id)
		if !ok {
			continue
		}
		writePath, candidates := desc.Resolve(cfg.PathOverrides[id], cfg.ExtraSources[id])

		status := PathStyle.Render("not found")
		if _, err := os.Stat(writePath); err == nil {
			status = SuccessStyle.Render("present")
		}
		restart := ""
		if !desc.SafeToRestart {
			restart = WarnStyle.Render("  do not auto-restart")
		}

		cmd.Printf("%s  %s  %s%s\n", TargetStyle.Render(desc.ID), desc.Name, status, restart)
		cmd.Printf("  field: %s\n", desc.Field)
		for _, candidate := range candidates {
			marker := " "
			if candidate == writePath {
				marker = "*"
			}
			line := candidate
			if resolved := fileops.ResolvePath(candidate); resolved != candidate {
				line += "  -> " + resolved
			}
			cmd.Printf("  %s %s\n", marker, PathStyle.Render(line))
		}
	}
	return nil
}
