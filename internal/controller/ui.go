// Package controller provides output adapters for presenting patch proposals
// and apply outcomes.
package controller

import (
	"os"

	"github.com/mattn/go-isatty"
	m "stitch.dev/pkg/stitch/internal/model"
)

// UI is the presentation boundary for CLI commands and the interactive
// session. Implementations decide how outcomes reach the user; the engine
// itself never prints.
type UI interface {
	// Info prints an informational message.
	Info(format string, args ...any)

	// Warn prints a warning (context drift, stale session files).
	Warn(format string, args ...any)

	// DiffPreview renders a unified diff with change highlighting.
	DiffPreview(file m.Path, diff string)

	// ProposalRejected reports a diff that was rejected before any mutation.
	ProposalRejected(file m.Path, err error)

	// NoChanges reports the model's nothing-to-do outcome. Never an error.
	NoChanges(file m.Path)

	// ApplyOutcome reports the result of a transactional apply, mentioning
	// the backup path whenever one exists.
	ApplyOutcome(file m.Path, res m.ApplyResult)

	// Answer prints a plain model answer (ask command).
	Answer(text string)

	// History renders journaled apply outcomes as a table.
	History(entries []m.HistoryEntry)
}

// IsTTY checks if the given file is a terminal.
func IsTTY(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
