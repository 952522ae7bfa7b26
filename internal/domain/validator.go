package domain

import (
	"fmt"
	"path/filepath"
	"strings"

	m "stitch.dev/pkg/stitch/internal/model"
)

// Policy carries the per-operation gates for diff validation. It is resolved
// by the CLI shell and passed in explicitly; the engine holds no ambient
// configuration.
type Policy struct {
	// AllowFullRewrite disables the full-deletion and full-rewrite gates.
	AllowFullRewrite bool

	// RewriteLineThreshold is the whole-diff addition/deletion count above
	// which a diff becomes a rewrite suspect.
	RewriteLineThreshold int

	// RewriteHunkThreshold is the per-hunk old/new line count above which a
	// single hunk counts as sweeping.
	RewriteHunkThreshold int
}

// Default thresholds for the full-rewrite heuristic. The heuristic is
// intentionally approximate: it forces explicit opt-in for sweeping rewrites
// rather than classifying intent precisely.
const (
	DefaultRewriteLineThreshold = 20
	DefaultRewriteHunkThreshold = 10
)

// DefaultPolicy returns the policy used when the caller does not override the
// thresholds.
func DefaultPolicy() Policy {
	return Policy{
		RewriteLineThreshold: DefaultRewriteLineThreshold,
		RewriteHunkThreshold: DefaultRewriteHunkThreshold,
	}
}

// Validator gates a model response before it reaches the applier.
type Validator struct {
	policy Policy
}

// NewValidator constructs a Validator with the provided policy. Zero
// thresholds fall back to the defaults.
func NewValidator(policy Policy) *Validator {
	if policy.RewriteLineThreshold <= 0 {
		policy.RewriteLineThreshold = DefaultRewriteLineThreshold
	}

	if policy.RewriteHunkThreshold <= 0 {
		policy.RewriteHunkThreshold = DefaultRewriteHunkThreshold
	}

	return &Validator{policy: policy}
}

// Validate checks a raw model response against the diff format and policy
// contracts. targetFile, when non-empty, must match the diff's filename by
// basename.
//
// The sentinel responses are recognized first: NO_CHANGES yields
// VerdictNoChanges with no error, REFUSE yields ErrModelRefused. Matching is
// deliberately looser than an exact comparison: the response is whitespace
// trimmed first, since models routinely pad the sentinel with blank lines.
// Format checks then run in a fixed order, since later checks assume earlier
// ones hold: header presence, hunk header presence, single-file count,
// filename match, target match, rewrite gates.
func (v *Validator) Validate(diffText string, targetFile m.Path) (m.Verdict, error) {
	trimmed := strings.TrimSpace(diffText)

	switch trimmed {
	case m.SentinelNoChanges:
		return m.VerdictNoChanges, nil
	case m.SentinelRefuse:
		return m.VerdictApply, m.ErrModelRefused
	}

	if !strings.Contains(diffText, "---") || !strings.Contains(diffText, "+++") {
		return m.VerdictApply, m.ErrMissingHeaders
	}

	lines := strings.Split(strings.ReplaceAll(diffText, "\r\n", "\n"), "\n")

	if !hasHunkHeader(lines) {
		return m.VerdictApply, m.ErrMissingHunkHeader
	}

	oldNames := headerNames(lines, "--- ")
	newNames := headerNames(lines, "+++ ")

	if len(oldNames) != 1 || len(newNames) != 1 {
		return m.VerdictApply, fmt.Errorf("%w: found %d old and %d new file headers",
			m.ErrMultiFileDiff, len(oldNames), len(newNames))
	}

	oldName := stripPathPrefix(oldNames[0])
	newName := stripPathPrefix(newNames[0])

	if oldName != newName {
		return m.VerdictApply, fmt.Errorf("%w: %q vs %q", m.ErrRenameRejected, oldName, newName)
	}

	if targetFile != "" && filepath.Base(string(targetFile)) != filepath.Base(oldName) {
		return m.VerdictApply, fmt.Errorf("%w: diff names %q, expected %q",
			m.ErrTargetMismatch, filepath.Base(oldName), filepath.Base(string(targetFile)))
	}

	if !v.policy.AllowFullRewrite {
		if err := v.checkRewriteGates(lines); err != nil {
			return m.VerdictApply, err
		}
	}

	return m.VerdictApply, nil
}

// checkRewriteGates enforces the full-deletion and suspected-full-rewrite
// heuristics from the policy.
func (v *Validator) checkRewriteGates(lines []string) error {
	var deletions, additions int

	var sweepingHunk bool

	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
		case strings.HasPrefix(line, "-"):
			deletions++
		case strings.HasPrefix(line, "+"):
			additions++
		}

		if match := hunkHeaderPattern.FindStringSubmatch(line); match != nil {
			oldCount := countOrDefault(match[2])
			newCount := countOrDefault(match[4])

			if oldCount > 0 && newCount == 0 {
				return fmt.Errorf("%w: hunk %s removes %d lines", m.ErrFullDeletion, line, oldCount)
			}

			if oldCount > v.policy.RewriteHunkThreshold && newCount > v.policy.RewriteHunkThreshold {
				sweepingHunk = true
			}
		}
	}

	threshold := v.policy.RewriteLineThreshold
	if deletions > threshold && additions > threshold && sweepingHunk && min(deletions, additions) > threshold {
		return fmt.Errorf("%w: %d deletions, %d additions", m.ErrSuspectedFullRewrite, deletions, additions)
	}

	return nil
}

func hasHunkHeader(lines []string) bool {
	for _, line := range lines {
		if hunkHeaderPattern.MatchString(line) {
			return true
		}
	}

	return false
}

// headerNames collects the filename tokens of lines starting with the given
// 4-character header prefix ("--- " or "+++ ").
func headerNames(lines []string, prefix string) []string {
	var names []string

	for _, line := range lines {
		if !strings.HasPrefix(line, prefix) {
			continue
		}

		fields := strings.Fields(strings.TrimPrefix(line, prefix))
		if len(fields) == 0 {
			names = append(names, "")
			continue
		}

		names = append(names, fields[0])
	}

	return names
}

// stripPathPrefix removes the conventional a/ or b/ prefix from a diff header
// filename.
func stripPathPrefix(name string) string {
	if strings.HasPrefix(name, "a/") || strings.HasPrefix(name, "b/") {
		return name[2:]
	}

	return name
}
