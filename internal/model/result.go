package model

import "time"

// Diagnostic reports a context line that did not match the original content at
// the expected position. Context drift is a warning, not a failure: patch
// application continues.
type Diagnostic struct {
	HunkHeader string
	Line       int // 1-based line number in the original file
	Want       string
	Got        string
}

// PatchResult is the outcome of a pure in-memory patch application.
type PatchResult struct {
	Succeeded      bool
	PatchedContent string
	FailedHunks    []string
	Diagnostics    []Diagnostic
	Err            error
}

// ApplyResult is the outcome of a transactional file mutation. BackupPath is
// set as soon as a backup was created, even when a later step failed.
type ApplyResult struct {
	Succeeded  bool
	BackupPath Path
	Err        error
}

// HistoryEntry is one journaled apply outcome.
type HistoryEntry struct {
	Time       time.Time
	File       Path
	BackupPath Path
	Succeeded  bool
	Reason     string
}
