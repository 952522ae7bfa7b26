package model

import "errors"

// Format errors returned by the validator. All of them are recoverable by
// retrying with a new model response at a higher layer; the engine never
// retries internally.
var (
	// ErrMissingHeaders indicates the diff lacks the --- and +++ file headers.
	ErrMissingHeaders = errors.New("diff is missing --- and +++ file headers")

	// ErrMissingHunkHeader indicates no @@ hunk marker was found.
	ErrMissingHunkHeader = errors.New("diff contains no @@ hunk header")

	// ErrMultiFileDiff indicates the diff targets more than one file.
	ErrMultiFileDiff = errors.New("diff must target exactly one file")

	// ErrRenameRejected indicates the old and new file headers disagree.
	ErrRenameRejected = errors.New("diff headers name different files (renames are not supported)")

	// ErrTargetMismatch indicates the diff names a different file than requested.
	ErrTargetMismatch = errors.New("diff does not target the requested file")

	// ErrFullDeletion indicates a hunk deletes lines without adding any.
	ErrFullDeletion = errors.New("diff deletes a whole region without replacement")

	// ErrSuspectedFullRewrite indicates the diff looks like a sweeping rewrite.
	ErrSuspectedFullRewrite = errors.New("diff looks like a full rewrite (pass --allow-full-rewrite to accept)")

	// ErrModelRefused indicates the model returned the REFUSE sentinel. It is
	// distinct from a format defect: the response was understood, the model
	// declined the request.
	ErrModelRefused = errors.New("model refused the request")
)

// Parse errors returned by the hunk parser. Always fatal to the operation.
var (
	// ErrInvalidHunkHeader indicates an @@ line that does not match the
	// unified diff hunk header pattern.
	ErrInvalidHunkHeader = errors.New("invalid hunk header")

	// ErrNoHunksFound indicates diff-like input with zero extractable hunks.
	ErrNoHunksFound = errors.New("no hunks found")
)

// Patch errors returned by the applier.
var (
	// ErrNoValidHunks indicates an empty hunk list reached the applier.
	ErrNoValidHunks = errors.New("no valid hunks")
)

// I/O errors returned by the transactional mutator.
var (
	// ErrFileNotFound indicates the target file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrReadFailed indicates the target file could not be read.
	ErrReadFailed = errors.New("failed to read file")

	// ErrBackupFailed indicates the pre-mutation backup could not be written.
	// The operation aborts before any patch attempt.
	ErrBackupFailed = errors.New("failed to create backup")

	// ErrPatchFailed indicates the in-memory patch computation failed. The
	// original file was never touched; the backup remains on disk.
	ErrPatchFailed = errors.New("failed to apply patch")

	// ErrWriteFailed indicates the patched content could not be written. The
	// original content was restored from the backup.
	ErrWriteFailed = errors.New("failed to write patched file (rolled back)")

	// ErrRollbackFailed indicates both the write and the rollback failed. The
	// file may be in a corrupted intermediate state; manual recovery from the
	// backup path is required. Callers must surface this at a higher severity
	// than any other failure.
	ErrRollbackFailed = errors.New("CRITICAL: rollback failed, file may be corrupted")
)
