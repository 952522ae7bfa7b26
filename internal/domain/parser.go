package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	m "stitch.dev/pkg/stitch/internal/model"
)

// hunkHeaderPattern matches `@@ -oldStart[,oldCount] +newStart[,newCount] @@`.
// An omitted count defaults to 1.
var hunkHeaderPattern = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)

// ParseHunks converts raw unified diff text into an ordered hunk sequence.
//
// Lines following a hunk header are classified by prefix: "+" (but not "+++")
// is an addition, "-" (but not "---") is a removal, a leading space or an
// empty line is context. Anything else (file headers, git noise, "\ No
// newline" markers) is skipped. The function is pure.
func ParseHunks(diffText string) ([]m.Hunk, error) {
	normalized := strings.ReplaceAll(diffText, "\r\n", "\n")
	lines := strings.Split(normalized, "\n")

	var hunks []m.Hunk

	var current *m.Hunk

	for _, line := range lines {
		if strings.HasPrefix(line, "@@") {
			header, err := parseHunkHeader(line)
			if err != nil {
				return nil, err
			}

			if current != nil {
				hunks = append(hunks, *current)
			}

			current = header

			continue
		}

		if current == nil {
			// Preamble before the first hunk (--- / +++ headers etc).
			continue
		}

		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			// File headers, not line changes.
		case strings.HasPrefix(line, "+"):
			current.Changes = append(current.Changes, m.LineChange{Kind: m.ChangeAdd, Text: line[1:]})
		case strings.HasPrefix(line, "-"):
			current.Changes = append(current.Changes, m.LineChange{Kind: m.ChangeRemove, Text: line[1:]})
		case strings.HasPrefix(line, " "):
			current.Changes = append(current.Changes, m.LineChange{Kind: m.ChangeContext, Text: line[1:]})
		case line == "":
			current.Changes = append(current.Changes, m.LineChange{Kind: m.ChangeContext, Text: ""})
		default:
			// Unrecognized prefix ("\ No newline at end of file" and the like).
		}
	}

	if current != nil {
		hunks = append(hunks, *current)
	}

	// A hunk whose body ends at the end of input often carries a trailing
	// empty context line from the final newline of the diff text itself.
	// Trim it so OldCount/NewCount stay consistent with the body.
	for i := range hunks {
		hunks[i].Changes = trimTrailingEmptyContext(hunks[i].Changes, hunks[i].OldCount, hunks[i].NewCount)
	}

	if len(hunks) == 0 {
		return nil, m.ErrNoHunksFound
	}

	return hunks, nil
}

func parseHunkHeader(line string) (*m.Hunk, error) {
	match := hunkHeaderPattern.FindStringSubmatch(line)
	if match == nil {
		return nil, fmt.Errorf("%w: %q", m.ErrInvalidHunkHeader, line)
	}

	return &m.Hunk{
		OldStart: mustAtoi(match[1]),
		OldCount: countOrDefault(match[2]),
		NewStart: mustAtoi(match[3]),
		NewCount: countOrDefault(match[4]),
	}, nil
}

// trimTrailingEmptyContext drops empty context lines beyond what the declared
// counts account for.
func trimTrailingEmptyContext(changes []m.LineChange, oldCount, newCount int) []m.LineChange {
	for len(changes) > 0 {
		last := changes[len(changes)-1]
		if last.Kind != m.ChangeContext || last.Text != "" {
			break
		}

		oldLines, newLines := bodyCounts(changes)
		if oldLines <= oldCount && newLines <= newCount {
			break
		}

		changes = changes[:len(changes)-1]
	}

	return changes
}

// bodyCounts returns the number of original and resulting lines the change
// sequence describes.
func bodyCounts(changes []m.LineChange) (oldLines, newLines int) {
	for _, c := range changes {
		switch c.Kind {
		case m.ChangeContext:
			oldLines++
			newLines++
		case m.ChangeRemove:
			oldLines++
		case m.ChangeAdd:
			newLines++
		}
	}

	return oldLines, newLines
}

func countOrDefault(s string) int {
	if s == "" {
		return 1
	}

	return mustAtoi(s)
}

func mustAtoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		// Unreachable: the regexp only captures digit runs.
		return 0
	}

	return n
}
