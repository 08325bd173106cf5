package cli

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"

	"mcpsync/internal/engine"
	"mcpsync/internal/model"
)

const warningWrapWidth = 76

// renderPlan prints every target with pending operations or read
// warnings, followed by a one-line summary. state may be nil when no
// merge-read preceded the plan.
func renderPlan(plan *engine.SyncPlan, state map[string]engine.MergeResult) string {
	var b strings.Builder

	changedTargets := 0
	for _, id := range plan.TargetIDs() {
		tp := plan.Targets[id]
		var warnings []string
		if state != nil {
			warnings = state[id].Warnings
		}
		if tp.HasChanges {
			changedTargets++
		}
		if !tp.HasChanges && len(warnings) == 0 {
			continue
		}

		b.WriteString(TargetStyle.Render(id) + " " + PathStyle.Render(tp.ConfigPath) + "\n")
		b.WriteString(renderWarnings(warnings))
		for _, op := range tp.Operations {
			b.WriteString("  " + renderOp(op) + "\n")
		}
		b.WriteString("\n")
	}

	if plan.TotalOperations == 0 {
		b.WriteString(SuccessStyle.Render("Everything in sync.") + "\n")
	} else {
		b.WriteString(fmt.Sprintf("%d operation(s) across %d target(s).\n", plan.TotalOperations, changedTargets))
	}
	return b.String()
}

func renderWarnings(warnings []string) string {
	var b strings.Builder
	for _, w := range warnings {
		wrapped := wordwrap.String(WarnStyle.Render("! ")+w, warningWrapWidth)
		b.WriteString(indent.String(wrapped, 2) + "\n")
	}
	return b.String()
}

func renderOp(op engine.SyncOperation) string {
	switch op.Type {
	case engine.OpAdd:
		return AddStyle.Render("+ add    "+op.Name) + definitionSuffix(op.After)
	case engine.OpUpdate:
		return UpdateStyle.Render("~ update "+op.Name) + definitionSuffix(op.After)
	case engine.OpRemove:
		return RemoveStyle.Render("- remove " + op.Name)
	}
	return fmt.Sprintf("%s %s", op.Type, op.Name)
}

func definitionSuffix(def *model.ServerDefinition) string {
	if def == nil {
		return ""
	}
	parts := append([]string{def.Command}, def.Args...)
	suffix := "  " + strings.Join(parts, " ")
	if !def.IsEnabled() {
		suffix += "  (disabled)"
	}
	return PathStyle.Render(suffix)
}
