package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List applied revisions, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var historyLimitFlag int

func init() {
	historyCmd.Flags().IntVar(&historyLimitFlag, "limit", 10, "Maximum revisions to list (0 for all)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	eng, _, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	revisions, err := eng.History(historyLimitFlag)
	if err != nil {
		return err
	}
	if len(revisions) == 0 {
		cmd.Println("No revisions recorded yet.")
		return nil
	}

	for _, rev := range revisions {
		cmd.Printf("%s  %s\n",
			TitleStyle.Render(rev.RevisionID),
			PathStyle.Render(rev.AppliedAt.Local().Format(time.RFC3339)))
		cmd.Printf("  %d operation(s) on %s\n", rev.TotalOperations, strings.Join(rev.Platforms, ", "))
	}
	return nil
}
