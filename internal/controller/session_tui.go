package controller

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	m "stitch.dev/pkg/stitch/internal/model"
)

// SessionHandler executes one REPL instruction and returns the text to show.
// Implementations route to the edit or ask flow depending on the input.
type SessionHandler interface {
	Handle(ctx context.Context, input string) (string, error)
}

// SessionTUI is the interactive session loop. Instructions typed into the
// textarea are handed to the SessionHandler; file change notifications
// arriving on events surface as staleness warnings in the transcript.
type SessionTUI struct {
	output  io.Writer
	handler SessionHandler
	events  <-chan m.Path
	target  m.Path
}

// NewSessionTUI creates a session REPL for the given target file. events may
// be nil when no watcher is available.
func NewSessionTUI(output io.Writer, handler SessionHandler, events <-chan m.Path, target m.Path) *SessionTUI {
	return &SessionTUI{
		output:  output,
		handler: handler,
		events:  events,
		target:  target,
	}
}

// Run blocks until the user quits the session.
func (s *SessionTUI) Run(ctx context.Context) error {
	model := newSessionModel(ctx, s.handler, s.events, s.target)

	program := tea.NewProgram(model, tea.WithOutput(s.output))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("session ended with error: %w", err)
	}

	return nil
}

// responseMsg carries the handler result back into the update loop.
type responseMsg struct {
	text string
	err  error
}

// fileChangedMsg reports a watched file changing on disk mid-session.
type fileChangedMsg struct {
	path m.Path
}

type sessionModel struct {
	ctx     context.Context
	handler SessionHandler
	events  <-chan m.Path
	target  m.Path

	input      textarea.Model
	transcript viewport.Model
	lines      []string
	busy       bool
	ready      bool
	quitting   bool
}

func newSessionModel(ctx context.Context, handler SessionHandler, events <-chan m.Path, target m.Path) sessionModel {
	input := textarea.New()
	input.Placeholder = "Describe the change, or /quit to exit"
	input.SetHeight(3)
	input.ShowLineNumbers = false
	input.Focus()

	return sessionModel{
		ctx:     ctx,
		handler: handler,
		events:  events,
		target:  target,
		input:   input,
		lines: []string{
			fmt.Sprintf("Session for %s. Enter submits, /quit or ctrl+c exits.", target),
		},
	}
}

func (sm sessionModel) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, sm.waitForFileEvent())
}

// waitForFileEvent re-arms the watcher listener; it returns nil when the
// channel is closed or absent.
func (sm sessionModel) waitForFileEvent() tea.Cmd {
	if sm.events == nil {
		return nil
	}

	return func() tea.Msg {
		path, ok := <-sm.events
		if !ok {
			return nil
		}

		return fileChangedMsg{path: path}
	}
}

func (sm sessionModel) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(sm.input.Value())
	if text == "" || sm.busy {
		return sm, nil
	}

	if text == "/quit" || text == "/exit" {
		sm.quitting = true
		return sm, tea.Quit
	}

	sm.input.Reset()
	sm.appendLine("> " + text)
	sm.appendLine("working...")
	sm.busy = true

	handler := sm.handler
	ctx := sm.ctx

	return sm, func() tea.Msg {
		out, err := handler.Handle(ctx, text)
		return responseMsg{text: out, err: err}
	}
}

func (sm sessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return sm.resize(msg), nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			sm.quitting = true
			return sm, tea.Quit
		case tea.KeyEnter:
			return sm.submit()
		default:
			// Everything else feeds the textarea below.
		}

	case responseMsg:
		sm.busy = false
		sm.dropLastLine()

		if msg.err != nil {
			sm.appendLine("error: " + msg.err.Error())
		} else {
			for _, line := range strings.Split(strings.TrimRight(msg.text, "\n"), "\n") {
				sm.appendLine(line)
			}
		}

		sm.appendLine("")

		return sm, nil

	case fileChangedMsg:
		sm.appendLine(fmt.Sprintf("warning: %s changed on disk, the next edit may be stale", msg.path))

		return sm, sm.waitForFileEvent()
	}

	var cmd tea.Cmd
	sm.input, cmd = sm.input.Update(msg)

	return sm, cmd
}

func (sm sessionModel) resize(msg tea.WindowSizeMsg) sessionModel {
	inputHeight := sm.input.Height() + 1

	transcriptHeight := msg.Height - inputHeight - 1
	if transcriptHeight < 1 {
		transcriptHeight = 1
	}

	if !sm.ready {
		sm.transcript = viewport.New(msg.Width, transcriptHeight)
		sm.ready = true
	} else {
		sm.transcript.Width = msg.Width
		sm.transcript.Height = transcriptHeight
	}

	sm.input.SetWidth(msg.Width)
	sm.refreshTranscript()

	return sm
}

func (sm *sessionModel) appendLine(line string) {
	sm.lines = append(sm.lines, line)
	sm.refreshTranscript()
}

func (sm *sessionModel) dropLastLine() {
	if len(sm.lines) > 0 {
		sm.lines = sm.lines[:len(sm.lines)-1]
	}
}

func (sm *sessionModel) refreshTranscript() {
	if !sm.ready {
		return
	}

	sm.transcript.SetContent(strings.Join(sm.lines, "\n"))
	sm.transcript.GotoBottom()
}

func (sm sessionModel) View() string {
	if sm.quitting {
		return ""
	}

	if !sm.ready {
		return strings.Join(sm.lines, "\n") + "\n"
	}

	status := "enter: submit | /quit: exit"
	if sm.busy {
		status = "waiting for response..."
	}

	return sm.transcript.View() + "\n" + sm.input.View() + "\n" + status
}
