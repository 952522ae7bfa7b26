package controller

import (
	"errors"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	m "stitch.dev/pkg/stitch/internal/model"
)

// Styles for diff rendering and outcome severity.
var (
	styleAdd      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleRemove   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	styleHunk     = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	styleHeader   = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)
	styleWarn     = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	styleOK       = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	styleErr      = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	styleCritical = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("1")).Bold(true)
)

// SimpleUI implements UI using the cobra command's output streams.
type SimpleUI struct {
	cmd   *cobra.Command
	color bool
}

// NewSimpleUI creates a SimpleUI. When color is false (non-TTY output) the
// diff and severity styling is skipped.
func NewSimpleUI(cmd *cobra.Command, color bool) *SimpleUI {
	return &SimpleUI{cmd: cmd, color: color}
}

// Info implements UI.
func (u *SimpleUI) Info(format string, args ...any) {
	u.cmd.Printf(format+"\n", args...)
}

// Warn implements UI.
func (u *SimpleUI) Warn(format string, args ...any) {
	u.cmd.Printf(u.render(styleWarn, "warning: ")+format+"\n", args...)
}

// DiffPreview implements UI.
func (u *SimpleUI) DiffPreview(file m.Path, diff string) {
	u.cmd.Printf("proposed change for %s:\n", file)

	for _, line := range strings.Split(strings.TrimRight(diff, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			u.cmd.Println(u.render(styleHeader, line))
		case strings.HasPrefix(line, "@@"):
			u.cmd.Println(u.render(styleHunk, line))
		case strings.HasPrefix(line, "+"):
			u.cmd.Println(u.render(styleAdd, line))
		case strings.HasPrefix(line, "-"):
			u.cmd.Println(u.render(styleRemove, line))
		default:
			u.cmd.Println(line)
		}
	}
}

// ProposalRejected implements UI. Rejections happen before any mutation, so
// the message makes clear the file was not touched.
func (u *SimpleUI) ProposalRejected(file m.Path, err error) {
	if errors.Is(err, m.ErrModelRefused) {
		u.cmd.Printf("%s the model declined to edit %s\n", u.render(styleErr, "refused:"), file)
		return
	}

	u.cmd.Printf("%s %v (file not touched)\n", u.render(styleErr, "rejected:"), err)
}

// NoChanges implements UI.
func (u *SimpleUI) NoChanges(file m.Path) {
	u.cmd.Printf("no changes needed for %s\n", file)
}

// ApplyOutcome implements UI.
func (u *SimpleUI) ApplyOutcome(file m.Path, res m.ApplyResult) {
	if res.Succeeded {
		u.cmd.Printf("%s patched %s (backup: %s)\n", u.render(styleOK, "ok:"), file, res.BackupPath)
		return
	}

	if errors.Is(res.Err, m.ErrRollbackFailed) {
		u.cmd.Printf("%s %v\n", u.render(styleCritical, "CRITICAL:"), res.Err)
		return
	}

	if res.BackupPath != "" {
		u.cmd.Printf("%s %v (backup kept at %s)\n", u.render(styleErr, "failed:"), res.Err, res.BackupPath)
		return
	}

	u.cmd.Printf("%s %v\n", u.render(styleErr, "failed:"), res.Err)
}

// Answer implements UI.
func (u *SimpleUI) Answer(text string) {
	u.cmd.Println(strings.TrimSpace(text))
}

// History implements UI.
func (u *SimpleUI) History(entries []m.HistoryEntry) {
	if len(entries) == 0 {
		u.cmd.Println("no history recorded")
		return
	}

	table := tablewriter.NewWriter(u.cmd.OutOrStdout())
	table.SetHeader([]string{"Time", "File", "Outcome", "Backup"})
	table.SetBorder(false)

	for _, e := range entries {
		outcome := "applied"
		if !e.Succeeded {
			outcome = e.Reason
		}

		table.Append([]string{
			e.Time.Format("2006-01-02 15:04:05"),
			string(e.File),
			outcome,
			string(e.BackupPath),
		})
	}

	table.Render()
}

func (u *SimpleUI) render(style lipgloss.Style, s string) string {
	if !u.color {
		return s
	}

	return style.Render(s)
}
