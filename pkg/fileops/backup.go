package fileops

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Backup naming. A revision backup sits next to the file it protects:
//
//	config.json.bak.2026-08-25T10-11-12-123Z
//
// The timestamp is RFC 3339 UTC with ":" and "." replaced by "-" so the
// name stays legal on every filesystem. Manual snapshots taken by the user
// use a distinct second family:
//
//	config.json.manual.2026-08-25T10-11-12-123Z.3f9c2a.bak
//
// Revert only restores paths it recorded itself, so the two families are
// never interchangeable.

const backupTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// SanitizeTimestamp renders t as UTC RFC 3339 with the characters that are
// unsafe in file names replaced by "-".
func SanitizeTimestamp(t time.Time) string {
	stamp := t.UTC().Format(backupTimeLayout)
	stamp = strings.ReplaceAll(stamp, ":", "-")
	return strings.ReplaceAll(stamp, ".", "-")
}

// BackupPath returns the revision-backup path for path at time t.
func BackupPath(path string, t time.Time) string {
	return fmt.Sprintf("%s.bak.%s", path, SanitizeTimestamp(t))
}

// ManualSnapshotPath returns a snapshot path for path at time t. A short
// random suffix keeps repeated snapshots within the same millisecond from
// colliding.
func ManualSnapshotPath(path string, t time.Time) (string, error) {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate snapshot suffix: %w", err)
	}
	return fmt.Sprintf("%s.manual.%s.%s.bak", path, SanitizeTimestamp(t), hex.EncodeToString(buf)), nil
}

// CreateManualSnapshot copies path to a fresh manual snapshot beside it and
// returns the snapshot path.
func CreateManualSnapshot(path string, t time.Time) (string, error) {
	snapPath, err := ManualSnapshotPath(path, t)
	if err != nil {
		return "", err
	}
	if err := AtomicCopy(path, snapPath); err != nil {
		return "", fmt.Errorf("failed to snapshot %s: %w", path, err)
	}
	return snapPath, nil
}

// BackupInfo describes one backup file found beside a config file.
type BackupInfo struct {
	Path    string
	Manual  bool
	ModTime time.Time
}

// ListBackups returns every backup sitting beside path, newest first.
// Both families are reported: revision backups written during apply and
// manual snapshots. A missing directory yields an empty list.
func ListBackups(path string) ([]BackupInfo, error) {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var backups []BackupInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		revision := strings.HasPrefix(name, base+".bak.")
		manual := strings.HasPrefix(name, base+".manual.") && strings.HasSuffix(name, ".bak")
		if !revision && !manual {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, BackupInfo{
			Path:    filepath.Join(dir, name),
			Manual:  manual,
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		if !backups[i].ModTime.Equal(backups[j].ModTime) {
			return backups[i].ModTime.After(backups[j].ModTime)
		}
		return backups[i].Path > backups[j].Path
	})
	return backups, nil
}
