package controller

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	m "stitch.dev/pkg/stitch/internal/model"
)

func newBufferUI() (*SimpleUI, *bytes.Buffer) {
	var buf bytes.Buffer

	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)

	return NewSimpleUI(cmd, false), &buf
}

func TestSimpleUI(t *testing.T) {
	t.Run("diff preview prints every line", func(t *testing.T) {
		ui, buf := newBufferUI()

		ui.DiffPreview("f.txt", "--- a/f.txt\n+++ b/f.txt\n@@ -1,1 +1,1 @@\n-x\n+y\n")

		out := buf.String()
		for _, want := range []string{"proposed change for f.txt", "--- a/f.txt", "@@ -1,1 +1,1 @@", "-x", "+y"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("refusal is reported distinctly", func(t *testing.T) {
		ui, buf := newBufferUI()

		ui.ProposalRejected("f.txt", m.ErrModelRefused)

		if !strings.Contains(buf.String(), "declined to edit f.txt") {
			t.Errorf("unexpected output %q", buf.String())
		}
	})

	t.Run("rejection mentions the untouched file", func(t *testing.T) {
		ui, buf := newBufferUI()

		ui.ProposalRejected("f.txt", m.ErrMissingHeaders)

		if !strings.Contains(buf.String(), "file not touched") {
			t.Errorf("unexpected output %q", buf.String())
		}
	})

	t.Run("successful apply names the backup", func(t *testing.T) {
		ui, buf := newBufferUI()

		ui.ApplyOutcome("f.txt", m.ApplyResult{Succeeded: true, BackupPath: "f.txt.bak"})

		if !strings.Contains(buf.String(), "f.txt.bak") {
			t.Errorf("backup path missing: %q", buf.String())
		}
	})

	t.Run("rollback failure renders as critical", func(t *testing.T) {
		ui, buf := newBufferUI()

		ui.ApplyOutcome("f.txt", m.ApplyResult{BackupPath: "f.txt.bak", Err: m.ErrRollbackFailed})

		if !strings.Contains(buf.String(), "CRITICAL") {
			t.Errorf("expected a critical marker: %q", buf.String())
		}
	})

	t.Run("failed apply keeps the backup visible", func(t *testing.T) {
		ui, buf := newBufferUI()

		ui.ApplyOutcome("f.txt", m.ApplyResult{BackupPath: "f.txt.bak", Err: m.ErrPatchFailed})

		if !strings.Contains(buf.String(), "backup kept at f.txt.bak") {
			t.Errorf("unexpected output %q", buf.String())
		}
	})

	t.Run("empty history", func(t *testing.T) {
		ui, buf := newBufferUI()

		ui.History(nil)

		if !strings.Contains(buf.String(), "no history recorded") {
			t.Errorf("unexpected output %q", buf.String())
		}
	})

	t.Run("history table carries entries", func(t *testing.T) {
		ui, buf := newBufferUI()

		ui.History([]m.HistoryEntry{
			{Time: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), File: "f.txt", BackupPath: "f.txt.bak", Succeeded: true},
			{Time: time.Date(2025, 6, 1, 12, 5, 0, 0, time.UTC), File: "g.txt", Succeeded: false, Reason: "rejected"},
		})

		out := buf.String()
		for _, want := range []string{"f.txt", "applied", "g.txt", "rejected"} {
			if !strings.Contains(out, want) {
				t.Errorf("table missing %q:\n%s", want, out)
			}
		}
	})
}
