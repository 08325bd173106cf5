package engine

import (
	"errors"
	"fmt"
	"strings"
)

// ErrRevisionNotFound reports a revert request for a revision id the
// journal has no entries for.
var ErrRevisionNotFound = errors.New("revision not found in journal")

// ApplyError reports a failed apply pass. Succeeded lists every target
// that was fully applied before the failure; those targets have been
// rolled back unless RollbackErr says otherwise.
type ApplyError struct {
	FailedTarget string
	Err          error
	Succeeded    []AppliedOperation
	RollbackErr  error
}

func (e *ApplyError) Error() string {
	msg := fmt.Sprintf("apply failed on target %q: %v", e.FailedTarget, e.Err)
	if len(e.Succeeded) > 0 {
		ids := make([]string, len(e.Succeeded))
		for i, op := range e.Succeeded {
			ids[i] = op.TargetID
		}
		msg += fmt.Sprintf(" (rolled back: %s)", strings.Join(ids, ", "))
	}
	if e.RollbackErr != nil {
		msg += fmt.Sprintf("; rollback incomplete: %v", e.RollbackErr)
	}
	return msg
}

func (e *ApplyError) Unwrap() error {
	return e.Err
}

// RestoreFailure is one backup that could not be copied back over its
// live path.
type RestoreFailure struct {
	TargetID   string
	ConfigPath string
	BackupPath string
	Reason     string
}

// RollbackError aggregates every restore failure of a rollback pass. The
// pass always attempts every target before reporting.
type RollbackError struct {
	Failures []RestoreFailure
}

func (e *RollbackError) Error() string {
	parts := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		parts[i] = fmt.Sprintf("%s (%s): %s", f.TargetID, f.ConfigPath, f.Reason)
	}
	return fmt.Sprintf("failed to restore %d target(s):\n  - %s",
		len(e.Failures), strings.Join(parts, "\n  - "))
}
