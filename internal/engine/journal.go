package engine

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"mcpsync/internal/logging"
	"mcpsync/pkg/fileops"
)

// Journal is the append-only JSONL record of every applied target write.
// One line per target per revision; the file is never rewritten, only
// appended to, so a crash can at worst truncate the final line.
type Journal struct {
	path   string
	logger *logging.AppLogger
}

// NewJournal opens a journal at path. The file is created lazily on first
// append. logger may be nil.
func NewJournal(path string, logger *logging.AppLogger) *Journal {
	return &Journal{path: path, logger: logger}
}

// Path returns the journal file location.
func (j *Journal) Path() string {
	return j.path
}

// Append writes one entry as a single JSON line.
func (j *Journal) Append(entry RevisionEntry) error {
	if err := fileops.EnsureDirectoryExists(filepath.Dir(j.path)); err != nil {
		return fmt.Errorf("failed to prepare journal directory: %w", err)
	}

	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode journal entry: %w", err)
	}
	line = append(line, '\n')

	f, err := os.OpenFile(j.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(line); err != nil {
		return fmt.Errorf("failed to append journal entry: %w", err)
	}
	return nil
}

// Entries returns every valid journal line in file order. Individually
// malformed lines are skipped, not fatal: the journal outlives crashes and
// concurrent editors, and one damaged line must not hide the rest of the
// history. A missing journal is an empty one.
func (j *Journal) Entries() ([]RevisionEntry, error) {
	f, err := os.Open(j.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	defer f.Close()

	var entries []RevisionEntry
	skipped := 0
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var entry RevisionEntry
		if err := json.Unmarshal(line, &entry); err != nil || !entry.Valid() {
			skipped++
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}

	if skipped > 0 && j.logger != nil {
		j.logger.Warn("Skipped malformed journal lines", "journal", j.path, "skipped", skipped)
	}
	return entries, nil
}

// History groups the journal into revision summaries, newest first. A
// limit above zero caps the number of revisions returned.
func (j *Journal) History(limit int) ([]RevisionSummary, error) {
	entries, err := j.Entries()
	if err != nil {
		return nil, err
	}

	byRevision := make(map[string]*RevisionSummary)
	order := make([]string, 0)
	for _, entry := range entries {
		summary, ok := byRevision[entry.RevisionID]
		if !ok {
			summary = &RevisionSummary{RevisionID: entry.RevisionID}
			byRevision[entry.RevisionID] = summary
			order = append(order, entry.RevisionID)
		}
		summary.Entries = append(summary.Entries, entry)
		summary.TotalOperations += entry.OperationCount
		summary.Platforms = append(summary.Platforms, entry.Platform)
		if entry.Timestamp.After(summary.AppliedAt) {
			summary.AppliedAt = entry.Timestamp
		}
	}

	summaries := make([]RevisionSummary, 0, len(order))
	for _, id := range order {
		s := byRevision[id]
		sort.Strings(s.Platforms)
		summaries = append(summaries, *s)
	}

	sort.SliceStable(summaries, func(a, b int) bool {
		return summaries[a].AppliedAt.After(summaries[b].AppliedAt)
	})

	if limit > 0 && len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries, nil
}

// Revert restores every entry of the given revision by copying its backup
// back over the live path, newest entry first. Failures are recorded per
// entry and never abort the rest; revert is best-effort and fully
// reported. Only revisionID lookups fail as errors.
func (j *Journal) Revert(revisionID string) (*RevertResult, error) {
	entries, err := j.Entries()
	if err != nil {
		return nil, err
	}

	var matched []RevisionEntry
	for _, entry := range entries {
		if entry.RevisionID == revisionID {
			matched = append(matched, entry)
		}
	}
	if len(matched) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrRevisionNotFound, revisionID)
	}

	result := &RevertResult{RevisionID: revisionID}
	for i := len(matched) - 1; i >= 0; i-- {
		entry := matched[i]
		reverted := RevertedEntry{
			Platform:   entry.Platform,
			ConfigPath: entry.ConfigPath,
			BackupPath: entry.BackupPath,
		}

		switch {
		case entry.BackupPath == "":
			reverted.Reason = "no backup was recorded for this entry"
		case !pathExists(entry.BackupPath):
			reverted.Reason = fmt.Sprintf("backup file not found: %s", entry.BackupPath)
		default:
			if err := fileops.AtomicCopy(entry.BackupPath, entry.ConfigPath); err != nil {
				reverted.Reason = err.Error()
			} else {
				reverted.Reverted = true
			}
		}

		if j.logger != nil {
			if reverted.Reverted {
				j.logger.Info("Reverted target", "revision", revisionID, "target", entry.Platform, "path", entry.ConfigPath)
			} else {
				j.logger.Warn("Could not revert target", "revision", revisionID, "target", entry.Platform, "reason", reverted.Reason)
			}
		}
		result.Entries = append(result.Entries, reverted)
	}
	return result, nil
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
