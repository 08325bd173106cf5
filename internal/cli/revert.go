package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var revertCmd = &cobra.Command{
	Use:   "revert <revision-id>",
	Short: "Restore the backups recorded under a revision",
	Long: "Revert copies each backup recorded under the revision back over its\n" +
		"config file, newest write first. Entries whose backup is gone are\n" +
		"reported and skipped; the rest are still restored.",
	Args: cobra.ExactArgs(1),
	RunE: runRevert,
}

func runRevert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	eng, _, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	result, err := eng.Revert(args[0])
	if err != nil {
		return err
	}

	for _, entry := range result.Entries {
		if entry.Reverted {
			cmd.Printf("%s %s  %s\n",
				SuccessStyle.Render("reverted"), entry.Platform, PathStyle.Render(entry.ConfigPath))
		} else {
			cmd.Printf("%s  %s: %s\n",
				ErrorStyle.Render("skipped"), entry.Platform, entry.Reason)
		}
	}

	if failed := result.FailedCount(); failed > 0 {
		return fmt.Errorf("%d of %d entries could not be reverted", failed, len(result.Entries))
	}
	return nil
}
