package domain

import (
	"fmt"
	"path/filepath"
	"strings"

	m "stitch.dev/pkg/stitch/internal/model"
)

// EditMode selects the prompt flavor for a mutation request.
type EditMode int

const (
	// ModeEdit asks for a general modification.
	ModeEdit EditMode = iota
	// ModeAdd asks for new functionality to be added.
	ModeAdd
	// ModeRemove asks for code to be removed.
	ModeRemove
)

// editSystemPrompt pins the model to the response contract the validator
// enforces: one unified diff for one file, or a sentinel.
const editSystemPrompt = `You are a coding assistant that edits one file at a time.

Respond with EXACTLY ONE of the following, and nothing else:
1. A unified diff for the single target file, with "--- a/<file>" and
   "+++ b/<file>" headers and one or more "@@ -start,count +start,count @@"
   hunks. Do not wrap the diff in markdown fences. Do not rename the file.
   Do not include diffs for any other file.
2. The single word NO_CHANGES if the file already satisfies the request.
3. The single word REFUSE if you cannot or should not make the edit.`

// askSystemPrompt is used for questions that must not produce a diff.
const askSystemPrompt = `You are a coding assistant. Answer the question about
the provided code concisely in plain text. Do not produce a diff.`

// createSystemPrompt asks for complete file content rather than a diff.
const createSystemPrompt = `You are a coding assistant creating a new file.
Respond with the complete content of the file and nothing else. Do not wrap
the content in markdown fences.`

// BuildEditPrompt assembles the user prompt for a mutation request.
func BuildEditPrompt(file m.Path, content, instruction string, mode EditMode, contextFiles []ContextFile, session *Session) string {
	var b strings.Builder

	writeSessionPreamble(&b, session)
	writeContextFiles(&b, contextFiles)

	name := filepath.Base(string(file))

	fmt.Fprintf(&b, "Target file %s:\n```\n%s```\n\n", name, ensureTrailingNewline(content))

	switch mode {
	case ModeAdd:
		fmt.Fprintf(&b, "Add the following to %s: %s\n", name, instruction)
	case ModeRemove:
		fmt.Fprintf(&b, "Remove the following from %s: %s\n", name, instruction)
	default:
		fmt.Fprintf(&b, "Edit %s as follows: %s\n", name, instruction)
	}

	return b.String()
}

// BuildAskPrompt assembles the user prompt for a read-only question.
func BuildAskPrompt(question string, contextFiles []ContextFile, session *Session) string {
	var b strings.Builder

	writeSessionPreamble(&b, session)
	writeContextFiles(&b, contextFiles)
	b.WriteString(question)
	b.WriteString("\n")

	return b.String()
}

// BuildCreatePrompt assembles the user prompt for new file generation.
func BuildCreatePrompt(file m.Path, instruction string, contextFiles []ContextFile) string {
	var b strings.Builder

	writeContextFiles(&b, contextFiles)
	fmt.Fprintf(&b, "Create the file %s: %s\n", filepath.Base(string(file)), instruction)

	return b.String()
}

// SystemPrompt returns the system message for the given mode.
func SystemPrompt(mode EditMode) string {
	_ = mode // all edit modes share one contract
	return editSystemPrompt
}

// AskPrompt returns the system message for questions.
func AskPrompt() string { return askSystemPrompt }

// CreatePrompt returns the system message for file creation.
func CreatePrompt() string { return createSystemPrompt }

func writeSessionPreamble(b *strings.Builder, session *Session) {
	if session == nil {
		return
	}

	turns := session.Turns()
	if len(turns) == 0 {
		return
	}

	b.WriteString("Earlier in this session:\n")

	for _, turn := range turns {
		fmt.Fprintf(b, "- request: %s\n  outcome: %s\n", turn.Instruction, summarize(turn.Response))
	}

	b.WriteString("\n")
}

func writeContextFiles(b *strings.Builder, contextFiles []ContextFile) {
	for _, cf := range contextFiles {
		fmt.Fprintf(b, "Context file %s:\n```\n%s```\n\n",
			filepath.Base(string(cf.Path)), ensureTrailingNewline(cf.Content))
	}
}

// summarize truncates a response for session memory.
func summarize(s string) string {
	s = strings.TrimSpace(s)

	const maxLen = 120
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}

	if s == "" {
		return "(empty)"
	}

	return s
}

func ensureTrailingNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}

	return s + "\n"
}
