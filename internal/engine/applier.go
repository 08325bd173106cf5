package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Apply executes the plan target by target in sorted id order. Each
// changed target goes through backup, atomic write, then a journal
// append; only then does the pass move on. The first failure stops the
// pass, rolls back every earlier write, and surfaces everything in an
// ApplyError. A plan with no operations applies as a no-op.
//
// One revision id covers the whole pass, so the journal groups all its
// target writes together for history and revert.
func (e *Engine) Apply(ctx context.Context, plan *SyncPlan) (*ApplyResult, error) {
	if plan == nil || plan.TotalOperations == 0 {
		return &ApplyResult{}, nil
	}

	targetIDs := plan.TargetIDs()
	for _, id := range targetIDs {
		if _, ok := e.adapters[id]; !ok {
			return nil, fmt.Errorf("no adapter registered for target %q", id)
		}
	}

	revisionID := uuid.NewString()
	start := time.Now()
	if e.logger != nil {
		e.logger.Info("Applying sync plan",
			"revision", revisionID, "targets", len(targetIDs), "operations", plan.TotalOperations)
	}

	var applied []AppliedOperation
	for _, targetID := range targetIDs {
		tp := plan.Targets[targetID]
		if !tp.HasChanges {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, e.abortApply(targetID, err, applied, nil)
		}

		adapter := e.adapters[targetID]
		now := time.Now().UTC()

		backupPath, err := adapter.Backup(tp.ConfigPath, now)
		if err != nil {
			return nil, e.abortApply(targetID, err, applied, nil)
		}

		op := AppliedOperation{
			RevisionID:     revisionID,
			TargetID:       targetID,
			ConfigPath:     tp.ConfigPath,
			BackupPath:     backupPath,
			OperationCount: len(tp.Operations),
			AppliedAt:      now,
		}

		if err := adapter.WriteAtomic(tp.ConfigPath, tp.Desired); err != nil {
			// The write never landed, but when a backup was taken the
			// target joins the restore set so rollback stays uniform.
			current := &op
			if backupPath == "" {
				current = nil
			}
			return nil, e.abortApply(targetID, err, applied, current)
		}

		if err := e.journal.Append(RevisionEntry{
			RevisionID:     revisionID,
			Timestamp:      now,
			Platform:       targetID,
			ConfigPath:     tp.ConfigPath,
			BackupPath:     backupPath,
			OperationCount: len(tp.Operations),
		}); err != nil {
			// An unrecorded write could never be reverted later, so a
			// journal failure restores this target's write too.
			return nil, e.abortApply(targetID, err, applied, &op)
		}

		applied = append(applied, op)
		if e.logger != nil {
			e.logger.Info("Applied target",
				"revision", revisionID, "target", targetID,
				"operations", len(tp.Operations), "backup", backupPath)
		}
	}

	if e.logger != nil {
		e.logger.LogPerformance("apply", start)
	}
	return &ApplyResult{RevisionID: revisionID, Applied: applied}, nil
}

// abortApply rolls back the pass and wraps the cause. current, when
// non-nil, is the in-flight target whose backup should be restored along
// with the fully applied ones.
func (e *Engine) abortApply(targetID string, cause error, applied []AppliedOperation, current *AppliedOperation) error {
	restore := make([]AppliedOperation, len(applied), len(applied)+1)
	copy(restore, applied)
	if current != nil {
		restore = append(restore, *current)
	}

	var rollbackErr error
	if len(restore) > 0 {
		rollbackErr = Rollback(restore, e.logger)
	}

	if e.logger != nil {
		e.logger.Error("Apply failed",
			"target", targetID, "error", cause,
			"rolled_back", len(restore), "rollback_error", rollbackErr)
	}
	return &ApplyError{
		FailedTarget: targetID,
		Err:          cause,
		Succeeded:    applied,
		RollbackErr:  rollbackErr,
	}
}
