package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	m "stitch.dev/pkg/stitch/internal/model"
)

// bigRewriteDiff builds a single-file diff that replaces n lines with n other
// lines in one hunk.
func bigRewriteDiff(n int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "--- a/big.go\n+++ b/big.go\n@@ -1,%d +1,%d @@\n", n, n)

	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "-old line %d\n", i)
	}

	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "+new line %d\n", i)
	}

	return b.String()
}

func TestValidate(t *testing.T) {
	validDiff := "--- a/main.go\n+++ b/main.go\n@@ -2,1 +2,1 @@\n-b\n+B\n"

	tests := []struct {
		name    string
		diff    string
		target  m.Path
		policy  Policy
		verdict m.Verdict
		wantErr error
	}{
		{
			name:    "valid diff passes",
			diff:    validDiff,
			target:  "main.go",
			verdict: m.VerdictApply,
		},
		{
			name:    "no changes sentinel",
			diff:    "  NO_CHANGES\n",
			target:  "main.go",
			verdict: m.VerdictNoChanges,
		},
		{
			name:    "refuse sentinel",
			diff:    "REFUSE",
			target:  "main.go",
			wantErr: m.ErrModelRefused,
		},
		{
			name:    "prose instead of a diff",
			diff:    "Sure! Here is the change you asked for.",
			target:  "main.go",
			wantErr: m.ErrMissingHeaders,
		},
		{
			name:    "headers without hunks",
			diff:    "--- a/main.go\n+++ b/main.go\nno hunks here\n",
			target:  "main.go",
			wantErr: m.ErrMissingHunkHeader,
		},
		{
			name: "multi-file diff",
			diff: "--- a/one.go\n+++ b/one.go\n@@ -1,1 +1,1 @@\n-x\n+y\n" +
				"--- a/two.go\n+++ b/two.go\n@@ -1,1 +1,1 @@\n-x\n+y\n",
			target:  "one.go",
			wantErr: m.ErrMultiFileDiff,
		},
		{
			name:    "rename rejected",
			diff:    "--- a/old.go\n+++ b/new.go\n@@ -1,1 +1,1 @@\n-x\n+y\n",
			target:  "old.go",
			wantErr: m.ErrRenameRejected,
		},
		{
			name:    "target mismatch",
			diff:    validDiff,
			target:  "other.go",
			wantErr: m.ErrTargetMismatch,
		},
		{
			name:    "empty target skips the match check",
			diff:    validDiff,
			target:  "",
			verdict: m.VerdictApply,
		},
		{
			name:    "full deletion rejected",
			diff:    "--- a/main.go\n+++ b/main.go\n@@ -1,3 +1,0 @@\n-a\n-b\n-c\n",
			target:  "main.go",
			wantErr: m.ErrFullDeletion,
		},
		{
			name:    "single line deletion is still a full deletion",
			diff:    "--- a/main.go\n+++ b/main.go\n@@ -1,1 +1,0 @@\n-a\n",
			target:  "main.go",
			wantErr: m.ErrFullDeletion,
		},
		{
			name:    "full deletion allowed by policy",
			diff:    "--- a/main.go\n+++ b/main.go\n@@ -1,3 +1,0 @@\n-a\n-b\n-c\n",
			target:  "main.go",
			policy:  Policy{AllowFullRewrite: true},
			verdict: m.VerdictApply,
		},
		{
			name:    "suspected full rewrite rejected",
			diff:    bigRewriteDiff(25),
			target:  "big.go",
			wantErr: m.ErrSuspectedFullRewrite,
		},
		{
			name:    "suspected full rewrite allowed by policy",
			diff:    bigRewriteDiff(25),
			target:  "big.go",
			policy:  Policy{AllowFullRewrite: true},
			verdict: m.VerdictApply,
		},
		{
			name:    "large diff of small hunks passes",
			diff:    manySmallHunksDiff(30),
			target:  "big.go",
			verdict: m.VerdictApply,
		},
		{
			name:    "raised thresholds accept a moderate rewrite",
			diff:    bigRewriteDiff(25),
			target:  "big.go",
			policy:  Policy{RewriteLineThreshold: 30, RewriteHunkThreshold: 30},
			verdict: m.VerdictApply,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict, err := NewValidator(tt.policy).Validate(tt.diff, tt.target)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if verdict != tt.verdict {
				t.Errorf("expected verdict %v, got %v", tt.verdict, verdict)
			}
		})
	}
}

// manySmallHunksDiff builds a diff with n one-line replacements spread over n
// hunks, so no single hunk is sweeping.
func manySmallHunksDiff(n int) string {
	var b strings.Builder

	b.WriteString("--- a/big.go\n+++ b/big.go\n")

	for i := 0; i < n; i++ {
		line := i*3 + 1
		fmt.Fprintf(&b, "@@ -%d,1 +%d,1 @@\n-old %d\n+new %d\n", line, line, i, i)
	}

	return b.String()
}

func TestValidateRewriteOrder(t *testing.T) {
	// The full-deletion gate fires before the rewrite heuristic even when both
	// would match.
	var b strings.Builder

	b.WriteString("--- a/main.go\n+++ b/main.go\n@@ -1,25 +1,0 @@\n")

	for i := 0; i < 25; i++ {
		fmt.Fprintf(&b, "-line %d\n", i)
	}

	_, err := NewValidator(Policy{}).Validate(b.String(), "main.go")
	if !errors.Is(err, m.ErrFullDeletion) {
		t.Errorf("expected ErrFullDeletion, got %v", err)
	}
}
