// Package fileops provides the low-level file primitives the sync engine
// builds on: atomic writes and copies, timestamped backup naming, and
// directory helpers. Every mutation of a live config file goes through this
// package so that a crash mid-write can never leave a target half-written.
package fileops

import (
	"fmt"
	"io"
	"os"
)

// AtomicWriteFile writes data to path so that the file either ends up with
// the complete new content or is left untouched.
//
// The function uses a temporary file approach:
//  1. Creates a temporary file next to the destination
//  2. Writes all data to the temporary file
//  3. Syncs data to disk to ensure durability
//  4. Atomically renames the temporary file to the final destination
//
// The rename is the atomic step. The temporary file is removed on any
// failure. Existing files are overwritten without warning; files created
// fresh get mode perm. A symlinked path is resolved first so the write
// lands on the real file instead of replacing the link.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) error {
	path = ResolvePath(path)
	tempPath := path + ".tmp"
	tempFile, err := os.OpenFile(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	// Ensure cleanup of temp file if anything goes wrong
	var writeSuccess bool
	defer func() {
		tempFile.Close()
		if !writeSuccess {
			os.Remove(tempPath)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		return fmt.Errorf("failed to write file contents: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	// Atomic rename - this is the atomic operation
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	writeSuccess = true
	return nil
}

// AtomicCopy copies srcPath to destPath with the same temp-and-rename
// strategy as AtomicWriteFile. The destination either appears fully copied
// or not at all.
//
// Backup creation and backup restore both run through this function, so an
// interrupted rollback cannot corrupt the file it was restoring. Existing
// destination files are overwritten; a symlinked destination is resolved
// and rewritten through the link.
func AtomicCopy(srcPath, destPath string) error {
	destPath = ResolvePath(destPath)
	srcFile, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer srcFile.Close()

	tempPath := destPath + ".tmp"
	tempFile, err := os.OpenFile(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	var copySuccess bool
	defer func() {
		tempFile.Close()
		if !copySuccess {
			os.Remove(tempPath)
		}
	}()

	if _, err := io.Copy(tempFile, srcFile); err != nil {
		return fmt.Errorf("failed to copy file contents: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err := os.Rename(tempPath, destPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	copySuccess = true
	return nil
}

// EnsureDirectoryExists creates a directory and all necessary parent
// directories. This is equivalent to `mkdir -p` and is safe to call
// multiple times. Directories are created with mode 0755.
func EnsureDirectoryExists(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}
