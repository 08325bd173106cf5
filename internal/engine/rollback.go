package engine

import (
	"mcpsync/internal/logging"
	"mcpsync/pkg/fileops"
)

// Rollback restores the recorded backups over their live paths in reverse
// apply order. Every restore is attempted regardless of earlier failures;
// anything that could not be put back is collected into a RollbackError so
// the caller sees the exact set of targets left modified. logger may be
// nil.
func Rollback(ops []AppliedOperation, logger *logging.AppLogger) error {
	var failures []RestoreFailure

	for i := len(ops) - 1; i >= 0; i-- {
		op := ops[i]

		if op.BackupPath == "" {
			failures = append(failures, RestoreFailure{
				TargetID:   op.TargetID,
				ConfigPath: op.ConfigPath,
				Reason:     "no backup was recorded for this target",
			})
			continue
		}

		if err := fileops.AtomicCopy(op.BackupPath, op.ConfigPath); err != nil {
			failures = append(failures, RestoreFailure{
				TargetID:   op.TargetID,
				ConfigPath: op.ConfigPath,
				BackupPath: op.BackupPath,
				Reason:     err.Error(),
			})
			continue
		}

		if logger != nil {
			logger.Info("Rolled back target", "target", op.TargetID, "path", op.ConfigPath)
		}
	}

	if len(failures) > 0 {
		return &RollbackError{Failures: failures}
	}
	return nil
}
