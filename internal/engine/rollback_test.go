package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRollbackRestoresBackups(t *testing.T) {
	dir := t.TempDir()

	var ops []AppliedOperation
	for _, id := range []string{"targetA", "targetB"} {
		configPath := filepath.Join(dir, id+".json")
		backupPath := configPath + ".bak.x"
		require.NoError(t, os.WriteFile(configPath, []byte("modified "+id), 0644))
		require.NoError(t, os.WriteFile(backupPath, []byte("original "+id), 0644))
		ops = append(ops, AppliedOperation{TargetID: id, ConfigPath: configPath, BackupPath: backupPath})
	}

	require.NoError(t, Rollback(ops, nil))

	for _, op := range ops {
		data, err := os.ReadFile(op.ConfigPath)
		require.NoError(t, err)
		assert.Equal(t, "original "+op.TargetID, string(data))
	}
}

func TestRollbackCollectsAllFailures(t *testing.T) {
	dir := t.TempDir()

	goodConfig := filepath.Join(dir, "good.json")
	goodBackup := goodConfig + ".bak.x"
	require.NoError(t, os.WriteFile(goodConfig, []byte("modified"), 0644))
	require.NoError(t, os.WriteFile(goodBackup, []byte("original"), 0644))

	ops := []AppliedOperation{
		{TargetID: "unrecorded", ConfigPath: filepath.Join(dir, "u.json")},
		{TargetID: "deleted", ConfigPath: filepath.Join(dir, "d.json"), BackupPath: filepath.Join(dir, "gone.bak")},
		{TargetID: "good", ConfigPath: goodConfig, BackupPath: goodBackup},
	}

	err := Rollback(ops, nil)
	var rollbackErr *RollbackError
	require.ErrorAs(t, err, &rollbackErr)
	require.Len(t, rollbackErr.Failures, 2)
	assert.Contains(t, err.Error(), "failed to restore 2 target(s)")

	// The intact target is restored even though its neighbours failed.
	data, readErr := os.ReadFile(goodConfig)
	require.NoError(t, readErr)
	assert.Equal(t, "original", string(data))

	failedIDs := []string{rollbackErr.Failures[0].TargetID, rollbackErr.Failures[1].TargetID}
	assert.Contains(t, failedIDs, "unrecorded")
	assert.Contains(t, failedIDs, "deleted")
}

func TestRollbackNoOps(t *testing.T) {
	assert.NoError(t, Rollback(nil, nil))
}
