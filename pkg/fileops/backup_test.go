package fileops

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"
)

func TestSanitizeTimestamp(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{
			name: "utc with milliseconds",
			at:   time.Date(2026, 8, 25, 10, 11, 12, 123_000_000, time.UTC),
			want: "2026-08-25T10-11-12-123Z",
		},
		{
			name: "converts to utc",
			at:   time.Date(2026, 8, 25, 12, 11, 12, 0, time.FixedZone("CEST", 2*60*60)),
			want: "2026-08-25T10-11-12-000Z",
		},
		{
			name: "zero milliseconds kept",
			at:   time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
			want: "2024-01-02T03-04-05-000Z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeTimestamp(tt.at)
			if got != tt.want {
				t.Errorf("SanitizeTimestamp() = %q, want %q", got, tt.want)
			}
			if strings.ContainsAny(got, ":.") {
				t.Errorf("Sanitized timestamp still contains unsafe characters: %q", got)
			}
		})
	}
}

func TestBackupPath(t *testing.T) {
	at := time.Date(2026, 8, 25, 10, 11, 12, 123_000_000, time.UTC)
	got := BackupPath("/home/u/.cursor/mcp.json", at)
	want := "/home/u/.cursor/mcp.json.bak.2026-08-25T10-11-12-123Z"
	if got != want {
		t.Errorf("BackupPath() = %q, want %q", got, want)
	}
}

func TestManualSnapshotPath(t *testing.T) {
	at := time.Date(2026, 8, 25, 10, 11, 12, 0, time.UTC)

	got, err := ManualSnapshotPath("/tmp/config.json", at)
	if err != nil {
		t.Fatalf("ManualSnapshotPath failed: %v", err)
	}

	pattern := regexp.MustCompile(`^/tmp/config\.json\.manual\.2026-08-25T10-11-12-000Z\.[0-9a-f]{6}\.bak$`)
	if !pattern.MatchString(got) {
		t.Errorf("Snapshot path %q does not match expected shape", got)
	}

	// The two backup families must stay distinguishable: a revision backup
	// never contains ".manual." and a snapshot always does.
	revision := BackupPath("/tmp/config.json", at)
	if strings.Contains(revision, ".manual.") {
		t.Errorf("Revision backup path %q collides with snapshot family", revision)
	}

	other, err := ManualSnapshotPath("/tmp/config.json", at)
	if err != nil {
		t.Fatalf("ManualSnapshotPath failed: %v", err)
	}
	if other == got {
		t.Error("Two snapshots at the same instant produced the same path")
	}
}

func TestCreateManualSnapshot(t *testing.T) {
	dir := createTempDir(t)
	defer os.RemoveAll(dir)

	content := `{"mcpServers":{"fs":{"command":"mcp-fs"}}}`
	path := createTestFile(t, dir, "config.json", content)

	snapPath, err := CreateManualSnapshot(path, time.Now())
	if err != nil {
		t.Fatalf("CreateManualSnapshot failed: %v", err)
	}

	if filepath.Dir(snapPath) != dir {
		t.Errorf("Snapshot created outside source directory: %s", snapPath)
	}
	if got := readFileContent(t, snapPath); got != content {
		t.Errorf("Snapshot content mismatch. Expected %q, got %q", content, got)
	}

	t.Run("missing source", func(t *testing.T) {
		_, err := CreateManualSnapshot(filepath.Join(dir, "absent.json"), time.Now())
		if err == nil {
			t.Error("Expected error for missing source file")
		}
	})
}

func TestListBackups(t *testing.T) {
	dir := t.TempDir()
	path := createTestFile(t, dir, "config.json", "{}")

	older := time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)
	createTestFile(t, dir, filepath.Base(BackupPath(path, older)), "old")
	createTestFile(t, dir, filepath.Base(BackupPath(path, newer)), "new")

	snapPath, err := CreateManualSnapshot(path, newer)
	if err != nil {
		t.Fatalf("CreateManualSnapshot failed: %v", err)
	}

	// Noise that must not be reported.
	createTestFile(t, dir, "config.json.tmp", "partial")
	createTestFile(t, dir, "other.json.bak.2026-08-25T09-00-00-000Z", "foreign")

	backups, err := ListBackups(path)
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 3 {
		t.Fatalf("Expected 3 backups, got %d: %v", len(backups), backups)
	}

	manualCount := 0
	for _, b := range backups {
		if b.Manual {
			manualCount++
			if b.Path != snapPath {
				t.Errorf("Manual backup path = %s, want %s", b.Path, snapPath)
			}
		}
	}
	if manualCount != 1 {
		t.Errorf("Expected exactly one manual snapshot, got %d", manualCount)
	}

	for i := 1; i < len(backups); i++ {
		if backups[i].ModTime.After(backups[i-1].ModTime) {
			t.Errorf("Backups not sorted newest first: %v", backups)
		}
	}

	t.Run("missing directory", func(t *testing.T) {
		backups, err := ListBackups(filepath.Join(dir, "nowhere", "config.json"))
		if err != nil {
			t.Fatalf("ListBackups on missing dir failed: %v", err)
		}
		if len(backups) != 0 {
			t.Errorf("Expected no backups, got %v", backups)
		}
	})
}
