// Package domain implements the diff parsing and transactional patch
// application engine for stitch.
package domain

import (
	"fmt"
	"sort"
	"strings"

	m "stitch.dev/pkg/stitch/internal/model"
)

// ApplyPatch applies the hunks of diffText to originalContent and returns the
// reconstructed content. It is a pure transform: no I/O, no panics.
//
// The original's line ending convention (CRLF anywhere) and trailing newline
// are recorded up front and restored in the output. Hunks are applied in
// descending OldStart order so earlier splices never shift the indices of
// hunks still to be applied.
//
// Context verification is advisory: a mismatched context line produces a
// Diagnostic in the result and application continues. Model-produced diffs
// frequently carry minor whitespace or line-number drift, and best-effort
// application keeps the tool usable despite it.
func ApplyPatch(originalContent, diffText string) m.PatchResult {
	hunks, err := ParseHunks(diffText)
	if err != nil {
		return m.PatchResult{Err: err}
	}

	if len(hunks) == 0 {
		return m.PatchResult{Err: m.ErrNoValidHunks}
	}

	hadCRLF := strings.Contains(originalContent, "\r\n")
	normalized := strings.ReplaceAll(originalContent, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	trailingNewline := strings.HasSuffix(normalized, "\n")

	lines := strings.Split(normalized, "\n")
	if trailingNewline && len(lines) > 0 {
		lines = lines[:len(lines)-1]
	}

	// Bottom-up application keeps the remaining hunks' line numbers valid.
	ordered := make([]m.Hunk, len(hunks))
	copy(ordered, hunks)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].OldStart > ordered[j].OldStart
	})

	result := m.PatchResult{}

	for _, hunk := range ordered {
		lines = spliceHunk(lines, hunk, &result)
	}

	content := strings.Join(lines, "\n")
	if trailingNewline {
		content += "\n"
	}

	if hadCRLF {
		content = strings.ReplaceAll(content, "\n", "\r\n")
	}

	result.Succeeded = true
	result.PatchedContent = content

	return result
}

// spliceHunk replaces lines [OldStart-1, OldStart-1+OldCount) with the hunk's
// context and added lines, collecting diagnostics for context drift.
func spliceHunk(lines []string, hunk m.Hunk, result *m.PatchResult) []string {
	start := hunk.OldStart - 1
	if start < 0 {
		start = 0
	}

	if start > len(lines) {
		result.FailedHunks = append(result.FailedHunks,
			fmt.Sprintf("%s starts beyond end of file (%d lines), appended at end", hunk.Header(), len(lines)))
		start = len(lines)
	}

	replacement := make([]string, 0, hunk.NewCount)
	cursor := start

	for _, change := range hunk.Changes {
		switch change.Kind {
		case m.ChangeContext:
			if change.Text == "" && cursor >= len(lines) {
				// Diff tools that split on newlines count the trailing
				// newline as a final empty context line. The stripped line
				// buffer has no such element, so emitting it would append a
				// blank line.
				continue
			}

			if cursor < len(lines) && strings.TrimSpace(lines[cursor]) != strings.TrimSpace(change.Text) {
				result.Diagnostics = append(result.Diagnostics, m.Diagnostic{
					HunkHeader: hunk.Header(),
					Line:       cursor + 1,
					Want:       change.Text,
					Got:        lines[cursor],
				})
			}

			replacement = append(replacement, change.Text)
			cursor++
		case m.ChangeAdd:
			replacement = append(replacement, change.Text)
		case m.ChangeRemove:
			cursor++
		}
	}

	end := start + hunk.OldCount
	if end > len(lines) {
		end = len(lines)
	}

	if end < start {
		end = start
	}

	spliced := make([]string, 0, len(lines)-(end-start)+len(replacement))
	spliced = append(spliced, lines[:start]...)
	spliced = append(spliced, replacement...)
	spliced = append(spliced, lines[end:]...)

	return spliced
}
