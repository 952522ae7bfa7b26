// Package model defines the data structures for diff parsing and patch application.
package model

import "fmt"

// Path represents a file system path.
type Path string

// ChangeKind identifies the role of a single line inside a hunk.
type ChangeKind int

const (
	// ChangeContext is an unchanged line used for positional anchoring.
	ChangeContext ChangeKind = iota
	// ChangeAdd is a line inserted by the patch.
	ChangeAdd
	// ChangeRemove is a line deleted by the patch.
	ChangeRemove
)

// String returns the diff prefix character for the change kind.
func (k ChangeKind) String() string {
	switch k {
	case ChangeAdd:
		return "+"
	case ChangeRemove:
		return "-"
	default:
		return " "
	}
}

// LineChange is one line operation within a hunk.
type LineChange struct {
	Kind ChangeKind
	Text string
}

// Hunk is a contiguous block of a unified diff describing one region of change.
//
// OldStart and NewStart are 1-based line numbers. Within a hunk the changes
// reconstruct exactly OldCount original lines (context + remove) and exactly
// NewCount resulting lines (context + add).
type Hunk struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Changes  []LineChange
}

// Header renders the hunk position marker, e.g. "@@ -2,1 +2,3 @@".
func (h Hunk) Header() string {
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OldStart, h.OldCount, h.NewStart, h.NewCount)
}
