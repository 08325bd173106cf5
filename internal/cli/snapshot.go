package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"mcpsync/pkg/fileops"
)

var snapshotListFlag bool

var snapshotCmd = &cobra.Command{
	Use:   "snapshot <target-id>",
	Short: "Take a manual backup of one target's config file",
	Long: "Snapshot copies the target's live config to a .manual.<timestamp>.bak\n" +
		"file next to it. Manual snapshots are kept out of revision history:\n" +
		"revert only ever restores the backups an apply recorded.\n" +
		"With --list, prints all backups found beside the config instead.",
	Args: cobra.ExactArgs(1),
	RunE: runSnapshot,
}

func init() {
	snapshotCmd.Flags().BoolVar(&snapshotListFlag, "list", false, "list existing backups instead of taking one")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	id := args[0]
	desc, ok := cfg.Descriptor(id)
	if !ok {
		return fmt.Errorf("unknown target %q", id)
	}
	writePath, _ := desc.Resolve(cfg.PathOverrides[id], cfg.ExtraSources[id])
	if writePath == "" {
		return fmt.Errorf("target %q has no config path", id)
	}

	if snapshotListFlag {
		return listBackups(cmd, writePath)
	}

	snapshotPath, err := fileops.CreateManualSnapshot(writePath, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to snapshot %s: %w", writePath, err)
	}

	cmd.Printf("%s %s\n", SuccessStyle.Render("snapshot"), snapshotPath)
	return nil
}

func listBackups(cmd *cobra.Command, writePath string) error {
	backups, err := fileops.ListBackups(writePath)
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		cmd.Println("No backups found.")
		return nil
	}

	for _, b := range backups {
		label := "revision"
		if b.Manual {
			label = "manual  "
		}
		cmd.Printf("%s  %s\n", PathStyle.Render(label), b.Path)
	}
	return nil
}
