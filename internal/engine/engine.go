package engine

import (
	"context"
	"fmt"

	"mcpsync/internal/logging"
	"mcpsync/internal/model"
)

// Engine wires the planner, applier, and journal over a set of registered
// adapters. It is the one surface the CLI and the MCP server drive. All
// cross-call state lives in the inputs and outputs; the engine itself only
// holds its collaborators.
type Engine struct {
	adapters map[string]Adapter
	journal  *Journal
	logger   *logging.AppLogger
}

// New builds an engine around a journal. logger may be nil.
func New(journal *Journal, logger *logging.AppLogger) *Engine {
	return &Engine{
		adapters: make(map[string]Adapter),
		journal:  journal,
		logger:   logger,
	}
}

// Register adds the adapter for one target, replacing any previous one
// with the same id.
func (e *Engine) Register(adapter Adapter) {
	e.adapters[adapter.ID()] = adapter
}

// Adapter returns the registered adapter for id.
func (e *Engine) Adapter(id string) (Adapter, bool) {
	a, ok := e.adapters[id]
	return a, ok
}

// Journal returns the engine's revision journal.
func (e *Engine) Journal() *Journal {
	return e.journal
}

// Preview merge-reads the current state of every source and builds the
// plan against the declared policies. Nothing on disk changes.
func (e *Engine) Preview(ctx context.Context, sources []TargetSource, policies []model.ManagedPolicy, preserveUnmanaged bool) (*SyncPlan, map[string]MergeResult, error) {
	for _, p := range policies {
		if problems := p.Validate(); len(problems) > 0 {
			return nil, nil, fmt.Errorf("invalid policy %q: %s", p.Name, problems[0])
		}
	}

	state, err := ReadCurrentState(ctx, e.adapters, sources, e.logger)
	if err != nil {
		return nil, nil, err
	}

	current := make(map[string]model.TargetConfig, len(sources))
	paths := make(map[string]string, len(sources))
	for _, src := range sources {
		current[src.TargetID] = state[src.TargetID].Config
		paths[src.TargetID] = src.WritePath
	}

	plan := BuildPlan(current, paths, policies, preserveUnmanaged)
	if e.logger != nil {
		e.logger.Debug("Built sync plan", "targets", len(plan.Targets), "operations", plan.TotalOperations)
	}
	return plan, state, nil
}

// History returns the journal grouped into revisions, newest first.
func (e *Engine) History(limit int) ([]RevisionSummary, error) {
	return e.journal.History(limit)
}

// Revert restores the backups recorded under the given revision.
func (e *Engine) Revert(revisionID string) (*RevertResult, error) {
	return e.journal.Revert(revisionID)
}
