package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"mcpsync/internal/engine"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Reconcile every target config with the declared policies",
	Long: "Apply plans against the current state of every target, then writes the\n" +
		"changed configs. Each touched file is backed up first and the whole pass\n" +
		"is recorded as one revision; a mid-pass failure rolls the earlier\n" +
		"targets back.",
	Args: cobra.NoArgs,
	RunE: runApply,
}

func runApply(cmd *cobra.Command, args []string) error {
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
	if plan.TotalOperations == 0 {
		return nil
	}

	result, err := eng.Apply(cmd.Context(), plan)
	if err != nil {
		var applyErr *engine.ApplyError
		if errors.As(err, &applyErr) && len(applyErr.Succeeded) > 0 {
			cmd.Println(WarnStyle.Render("Rolled back:"))
			for _, op := range applyErr.Succeeded {
				cmd.Printf("  %s %s\n", op.TargetID, PathStyle.Render(op.ConfigPath))
			}
		}
		return err
	}

	for _, op := range result.Applied {
		cmd.Printf("%s %s  %s\n",
			SuccessStyle.Render("applied"), op.TargetID,
			PathStyle.Render(fmt.Sprintf("%d operation(s), backup %s", op.OperationCount, backupLabel(op.BackupPath))))
	}
	cmd.Printf("Revision %s\n", TitleStyle.Render(result.RevisionID))
	return nil
}

func backupLabel(path string) string {
	if path == "" {
		return "none (new file)"
	}
	return path
}
