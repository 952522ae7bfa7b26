package domain

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/pmezard/go-difflib/difflib"
	"stitch.dev/pkg/stitch/internal/adapter"
	"stitch.dev/pkg/stitch/internal/controller"
	m "stitch.dev/pkg/stitch/internal/model"
	"stitch.dev/pkg/stitch/internal/provider"
)

// EditArgs parameterizes a single mutation request. All configuration is
// explicit; the workflow reads no ambient state.
type EditArgs struct {
	File         m.Path
	Instruction  string
	Mode         EditMode
	Policy       Policy
	DryRun       bool
	ContextFiles int
}

// CreateArgs parameterizes new file creation.
type CreateArgs struct {
	File        m.Path
	Template    string
	Instruction string
}

// Workflow orchestrates the prompt, provider, validation and transactional
// apply steps behind each CLI command.
type Workflow interface {
	// Edit requests a diff for the instruction and applies it to the file.
	Edit(ctx context.Context, args EditArgs) error

	// Ask answers a read-only question about the workspace.
	Ask(ctx context.Context, question string, contextFor m.Path, contextFiles int) (string, error)

	// Create scaffolds a new file, generating content when an instruction
	// is given.
	Create(ctx context.Context, args CreateArgs) error

	// ApplyDiff validates and applies an already-produced diff to the file.
	ApplyDiff(ctx context.Context, file m.Path, diffText string, policy Policy, dryRun bool) error

	// Undo restores a file from a backup produced by an earlier apply.
	Undo(file, backupPath m.Path) error

	// ShowHistory renders the journaled apply outcomes.
	ShowHistory() error

	// Session exposes the rolling session memory.
	Session() *Session
}

type workflow struct {
	files    adapter.FileAdapter
	guard    *adapter.WorkspaceGuard
	journal  adapter.HistoryJournal
	ui       controller.UI
	client   provider.Client
	mutator  *Mutator
	scaffold *Scaffolder
	session  *Session
}

// NewWorkflow creates a Workflow with the provided dependencies. The client
// may be nil when only provider-free operations (ApplyDiff, Undo,
// ShowHistory) are used.
func NewWorkflow(
	files adapter.FileAdapter,
	guard *adapter.WorkspaceGuard,
	journal adapter.HistoryJournal,
	ui controller.UI,
	client provider.Client,
) Workflow {
	return &workflow{
		files:    files,
		guard:    guard,
		journal:  journal,
		ui:       ui,
		client:   client,
		mutator:  NewMutator(files),
		scaffold: NewScaffolder(),
		session:  NewSession(0),
	}
}

// Session implements Workflow.
func (w *workflow) Session() *Session {
	return w.session
}

// Edit implements Workflow.
func (w *workflow) Edit(ctx context.Context, args EditArgs) error {
	if w.client == nil {
		return fmt.Errorf("no provider configured")
	}

	abs, err := w.guard.Resolve(args.File)
	if err != nil {
		return err
	}

	if _, err := w.files.FileInfo(abs); err != nil {
		return fmt.Errorf("%w: %s", m.ErrFileNotFound, abs)
	}

	content, err := w.files.ReadNormalized(abs)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", m.ErrReadFailed, abs, err)
	}

	contextFiles, err := CollectContext(ctx, w.files, abs, args.ContextFiles)
	if err != nil {
		slog.Warn("context collection failed, continuing without it", "file", abs, "error", err)
	}

	prompt := BuildEditPrompt(abs, content, args.Instruction, args.Mode, contextFiles, w.session)

	slog.Debug("requesting edit", "file", abs, "provider", w.client.Name(), "contextFiles", len(contextFiles))

	raw, err := w.client.Complete(ctx, provider.Request{
		System: SystemPrompt(args.Mode),
		Prompt: prompt,
	})
	if err != nil {
		return fmt.Errorf("provider request failed: %w", err)
	}

	w.session.Append(args.Instruction, raw)

	return w.applyResponse(abs, content, raw, args.Policy, args.DryRun)
}

// ApplyDiff implements Workflow.
func (w *workflow) ApplyDiff(_ context.Context, file m.Path, diffText string, policy Policy, dryRun bool) error {
	abs, err := w.guard.Resolve(file)
	if err != nil {
		return err
	}

	if _, err := w.files.FileInfo(abs); err != nil {
		return fmt.Errorf("%w: %s", m.ErrFileNotFound, abs)
	}

	content, err := w.files.ReadNormalized(abs)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", m.ErrReadFailed, abs, err)
	}

	return w.applyResponse(abs, content, diffText, policy, dryRun)
}

// applyResponse validates a raw model response and, unless dryRun is set,
// applies it transactionally.
func (w *workflow) applyResponse(abs m.Path, content, raw string, policy Policy, dryRun bool) error {
	validator := NewValidator(policy)

	verdict, err := validator.Validate(raw, abs)
	if err != nil {
		w.ui.ProposalRejected(abs, err)
		w.record(abs, "", false, err.Error())

		return err
	}

	if verdict == m.VerdictNoChanges {
		w.ui.NoChanges(abs)
		w.record(abs, "", true, "no changes needed")

		return nil
	}

	if dryRun {
		preview, err := w.effectiveDiff(abs, content, raw)
		if err != nil {
			return err
		}

		w.ui.DiffPreview(abs, preview)
		w.ui.Info("dry run, nothing written")

		return nil
	}

	w.ui.DiffPreview(abs, raw)

	res := w.mutator.ApplyDiffToFile(abs, raw)
	w.ui.ApplyOutcome(abs, res)

	reason := ""
	if res.Err != nil {
		reason = res.Err.Error()
	}

	w.record(abs, res.BackupPath, res.Succeeded, reason)

	return res.Err
}

// effectiveDiff patches in memory and re-diffs the result against the
// original, showing the change that would actually land.
func (w *workflow) effectiveDiff(abs m.Path, content, raw string) (string, error) {
	patch := ApplyPatch(content, raw)
	if !patch.Succeeded {
		return "", fmt.Errorf("%w: %v", m.ErrPatchFailed, patch.Err)
	}

	name := filepath.Base(string(abs))

	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(content),
		B:        difflib.SplitLines(patch.PatchedContent),
		FromFile: "a/" + name,
		ToFile:   "b/" + name,
		Context:  3,
	})
}

// Ask implements Workflow.
func (w *workflow) Ask(ctx context.Context, question string, contextFor m.Path, contextFiles int) (string, error) {
	if w.client == nil {
		return "", fmt.Errorf("no provider configured")
	}

	var collected []ContextFile

	if contextFor != "" {
		abs, err := w.guard.Resolve(contextFor)
		if err != nil {
			return "", err
		}

		collected, err = CollectContext(ctx, w.files, abs, contextFiles)
		if err != nil {
			slog.Warn("context collection failed, continuing without it", "file", abs, "error", err)
		}
	}

	answer, err := w.client.Complete(ctx, provider.Request{
		System: AskPrompt(),
		Prompt: BuildAskPrompt(question, collected, w.session),
	})
	if err != nil {
		return "", fmt.Errorf("provider request failed: %w", err)
	}

	w.session.Append(question, answer)

	return answer, nil
}

// Create implements Workflow.
func (w *workflow) Create(ctx context.Context, args CreateArgs) error {
	abs, err := w.guard.Resolve(args.File)
	if err != nil {
		return err
	}

	var content string

	if args.Instruction != "" {
		if w.client == nil {
			return fmt.Errorf("no provider configured")
		}

		content, err = w.client.Complete(ctx, provider.Request{
			System: CreatePrompt(),
			Prompt: BuildCreatePrompt(abs, args.Instruction, nil),
		})
		if err != nil {
			return fmt.Errorf("provider request failed: %w", err)
		}
	} else {
		content, err = w.scaffold.Expand(abs, args.Template)
		if err != nil {
			return err
		}
	}

	if err := w.files.CreateNew(abs, content); err != nil {
		return fmt.Errorf("failed to create %s: %w", abs, err)
	}

	w.ui.Info("created %s", abs)
	w.record(abs, "", true, "created")

	return nil
}

// Undo implements Workflow.
func (w *workflow) Undo(file, backupPath m.Path) error {
	abs, err := w.guard.Resolve(file)
	if err != nil {
		return err
	}

	if err := w.mutator.RestoreFromBackup(abs, backupPath); err != nil {
		return err
	}

	w.ui.Info("restored %s from %s", abs, backupPath)
	w.record(abs, backupPath, true, "restored from backup")

	return nil
}

// ShowHistory implements Workflow.
func (w *workflow) ShowHistory() error {
	entries, err := w.journal.Entries()
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	w.ui.History(entries)

	return nil
}

// record journals an apply outcome; journal failures are logged, never fatal.
func (w *workflow) record(file, backup m.Path, succeeded bool, reason string) {
	if w.journal == nil {
		return
	}

	entry := m.HistoryEntry{
		Time:       time.Now(),
		File:       file,
		BackupPath: backup,
		Succeeded:  succeeded,
		Reason:     reason,
	}

	if err := w.journal.Record(entry); err != nil {
		slog.Warn("failed to record history entry", "file", file, "error", err)
	}
}
