package cli

import (
	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Preview what apply would change, without touching anything",
	Args:  cobra.NoArgs,
	RunE:  runPlan,
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	eng, sources, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	plan, state, err := eng.Preview(cmd.Context(), sources, cfg.Policies, cfg.PreserveUnmanagedOrDefault())
	if err != nil {
		return err
	}

	cmd.Print(renderPlan(plan, state))
	return nil
}
