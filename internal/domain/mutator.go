package domain

import (
	"fmt"
	"log/slog"

	"stitch.dev/pkg/stitch/internal/adapter"
	m "stitch.dev/pkg/stitch/internal/model"
)

// Mutator owns the backup-then-patch-then-write-then-rollback sequence for a
// single file. A backup always exists before the original bytes are touched;
// the patch is computed entirely off the live file, so the only window of
// risk is the write itself, and a failed write is immediately rolled back
// from the backup.
//
// No cross-process locking is attempted: concurrent mutations of the same
// file are undefined, an accepted limitation for a single-user CLI.
type Mutator struct {
	files adapter.FileAdapter
}

// NewMutator constructs a Mutator backed by the provided file adapter.
func NewMutator(files adapter.FileAdapter) *Mutator {
	return &Mutator{files: files}
}

// ApplyDiffToFile patches the file at path with diffText, transactionally.
// The returned result carries the backup path as soon as a backup was
// created, even when a later step failed: a patch failure leaves the original
// untouched with the backup intact, a write failure is rolled back, and a
// failed rollback is reported as critical since the file may need manual
// recovery from the backup.
func (t *Mutator) ApplyDiffToFile(path m.Path, diffText string) m.ApplyResult {
	abs, err := t.files.AbsPath(path)
	if err != nil {
		return m.ApplyResult{Err: fmt.Errorf("%w: %s: %v", m.ErrFileNotFound, path, err)}
	}

	if _, err := t.files.FileInfo(abs); err != nil {
		return m.ApplyResult{Err: fmt.Errorf("%w: %s", m.ErrFileNotFound, abs)}
	}

	content, err := t.files.ReadNormalized(abs)
	if err != nil {
		return m.ApplyResult{Err: fmt.Errorf("%w: %s: %v", m.ErrReadFailed, abs, err)}
	}

	// The core safety invariant: a backup must exist before any mutation.
	backupPath := t.files.BackupPath(abs)
	if err := t.files.Copy(abs, backupPath); err != nil {
		slog.Error("backup failed, aborting", "file", abs, "backup", backupPath, "error", err)
		return m.ApplyResult{Err: fmt.Errorf("%w: %s: %v", m.ErrBackupFailed, backupPath, err)}
	}

	slog.Debug("backup created", "file", abs, "backup", backupPath)

	patch := ApplyPatch(content, diffText)
	for _, d := range patch.Diagnostics {
		slog.Warn("context mismatch, applying anyway",
			"file", abs, "hunk", d.HunkHeader, "line", d.Line, "want", d.Want, "got", d.Got)
	}

	if !patch.Succeeded {
		// The original file was never modified; the backup stays on disk.
		return m.ApplyResult{
			BackupPath: backupPath,
			Err:        fmt.Errorf("%w: %v", m.ErrPatchFailed, patch.Err),
		}
	}

	if err := t.files.WriteNormalized(abs, patch.PatchedContent); err != nil {
		return t.rollback(abs, backupPath, err)
	}

	slog.Info("patch applied", "file", abs, "backup", backupPath, "hunkWarnings", len(patch.Diagnostics))

	return m.ApplyResult{Succeeded: true, BackupPath: backupPath}
}

// rollback restores the pre-mutation bytes after a failed write.
func (t *Mutator) rollback(abs, backupPath m.Path, writeErr error) m.ApplyResult {
	if err := t.files.Copy(backupPath, abs); err != nil {
		// The file may be in a corrupted intermediate state. This is the one
		// failure that requires manual recovery, so it logs at Error where
		// ordinary failures do not.
		slog.Error("rollback failed, file may be corrupted",
			"file", abs, "backup", backupPath, "writeError", writeErr, "rollbackError", err)

		return m.ApplyResult{
			BackupPath: backupPath,
			Err:        fmt.Errorf("%w: restore %s from %s manually", m.ErrRollbackFailed, abs, backupPath),
		}
	}

	slog.Warn("write failed, rolled back", "file", abs, "backup", backupPath, "error", writeErr)

	return m.ApplyResult{
		BackupPath: backupPath,
		Err:        fmt.Errorf("%w: %s: %v", m.ErrWriteFailed, abs, writeErr),
	}
}

// RestoreFromBackup copies backupPath back over path. It is exposed so
// callers can offer a user-triggered undo outside the automatic rollback.
func (t *Mutator) RestoreFromBackup(path, backupPath m.Path) error {
	abs, err := t.files.AbsPath(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", m.ErrFileNotFound, path, err)
	}

	if _, err := t.files.FileInfo(backupPath); err != nil {
		return fmt.Errorf("%w: backup %s", m.ErrFileNotFound, backupPath)
	}

	if err := t.files.Copy(backupPath, abs); err != nil {
		return fmt.Errorf("%w: %s from %s: %v", m.ErrWriteFailed, abs, backupPath, err)
	}

	slog.Info("restored from backup", "file", abs, "backup", backupPath)

	return nil
}
