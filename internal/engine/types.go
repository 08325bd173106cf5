// Package engine implements the reconciliation core: planning the
// operations that bring every target's config file to the declared state,
// applying them transactionally with backups and rollback, and recording
// every applied write in an append-only revision journal that revert
// replays.
package engine

import (
	"sort"
	"time"

	"mcpsync/internal/model"
)

// OpType classifies one planned operation.
type OpType string

const (
	OpAdd    OpType = "add"
	OpUpdate OpType = "update"
	OpRemove OpType = "remove"
)

// SyncOperation is one entry-level change on a target. Before is set for
// update and remove, After for add and update.
type SyncOperation struct {
	Type   OpType                  `json:"type"`
	Name   string                  `json:"name"`
	Before *model.ServerDefinition `json:"before,omitempty"`
	After  *model.ServerDefinition `json:"after,omitempty"`
}

// TargetSyncPlan is the full reconciliation picture for one target: the
// state that was read, the state the policies declare, and the operations
// between them sorted by entry name.
type TargetSyncPlan struct {
	TargetID   string             `json:"targetId"`
	ConfigPath string             `json:"configPath"`
	Current    model.TargetConfig `json:"currentConfig"`
	Desired    model.TargetConfig `json:"desiredConfig"`
	Operations []SyncOperation    `json:"operations"`
	HasChanges bool               `json:"hasChanges"`
}

// SyncPlan is the complete plan across targets. Building it mutates
// nothing; only Apply touches files.
type SyncPlan struct {
	GeneratedAt     time.Time                 `json:"generatedAt"`
	Targets         map[string]TargetSyncPlan `json:"targets"`
	TotalOperations int                       `json:"totalOperations"`
}

// TargetIDs returns the planned target ids in apply order.
func (p *SyncPlan) TargetIDs() []string {
	ids := make([]string, 0, len(p.Targets))
	for id := range p.Targets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// AppliedOperation records one successfully written target within an apply
// pass.
type AppliedOperation struct {
	RevisionID     string    `json:"revisionId"`
	TargetID       string    `json:"targetId"`
	ConfigPath     string    `json:"configPath"`
	BackupPath     string    `json:"backupPath"`
	OperationCount int       `json:"operationCount"`
	AppliedAt      time.Time `json:"appliedAt"`
}

// ApplyResult is the outcome of a fully successful apply pass.
type ApplyResult struct {
	RevisionID string             `json:"revisionId"`
	Applied    []AppliedOperation `json:"applied"`
}

// RevisionEntry is one journal line: a single target write under a
// revision. The target id is recorded under the journal's "platform" key.
type RevisionEntry struct {
	RevisionID     string    `json:"revisionId"`
	Timestamp      time.Time `json:"timestamp"`
	Platform       string    `json:"platform"`
	ConfigPath     string    `json:"configPath"`
	BackupPath     string    `json:"backupPath"`
	OperationCount int       `json:"operationCount"`
}

// Valid reports whether the entry carries enough to be restored.
func (e RevisionEntry) Valid() bool {
	return e.RevisionID != "" && e.Platform != "" && e.ConfigPath != ""
}

// RevisionSummary groups the journal lines of one apply pass.
type RevisionSummary struct {
	RevisionID      string          `json:"revisionId"`
	AppliedAt       time.Time       `json:"appliedAt"`
	Platforms       []string        `json:"platforms"`
	TotalOperations int             `json:"totalOperations"`
	Entries         []RevisionEntry `json:"entries"`
}

// RevertedEntry is the outcome of restoring one journal entry.
type RevertedEntry struct {
	Platform   string `json:"platform"`
	ConfigPath string `json:"configPath"`
	BackupPath string `json:"backupPath"`
	Reverted   bool   `json:"reverted"`
	Reason     string `json:"reason,omitempty"`
}

// RevertResult reports every entry of a reverted revision, failed ones
// included.
type RevertResult struct {
	RevisionID string          `json:"revisionId"`
	Entries    []RevertedEntry `json:"entries"`
}

// FailedCount returns how many entries could not be restored.
func (r *RevertResult) FailedCount() int {
	n := 0
	for _, e := range r.Entries {
		if !e.Reverted {
			n++
		}
	}
	return n
}

// TargetSource names where one target's current state is read from and
// where apply writes. Candidates are ordered: an explicit override first,
// then platform defaults, then user-added extra sources.
type TargetSource struct {
	TargetID   string
	WritePath  string
	Candidates []string
}

// Adapter is the per-target file capability the engine drives. The
// concrete implementation lives in internal/target; tests substitute
// failing fakes to exercise rollback.
type Adapter interface {
	ID() string
	Read(path string) (model.TargetConfig, error)
	ReadPermissive(path string) (model.TargetConfig, []string, error)
	Backup(path string, at time.Time) (string, error)
	WriteAtomic(path string, cfg model.TargetConfig) error
}
