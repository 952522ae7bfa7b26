package cmd

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const applyTestDiff = "--- a/f.txt\n+++ b/f.txt\n@@ -2,1 +2,1 @@\n-b\n+B\n"

func TestApplyCmd_FromFile(t *testing.T) {
	t.Chdir(t.TempDir())

	require.NoError(t, os.WriteFile("f.txt", []byte("a\nb\nc\n"), 0o644))
	require.NoError(t, os.WriteFile("d.diff", []byte(applyTestDiff), 0o644))

	cmd := newApplyCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{"f.txt", "d.diff"})

	require.NoError(t, cmd.Execute())

	patched, err := os.ReadFile("f.txt")
	require.NoError(t, err)
	assert.Equal(t, "a\nB\nc\n", string(patched))

	backup, err := os.ReadFile("f.txt.bak")
	require.NoError(t, err)
	assert.Equal(t, "a\nb\nc\n", string(backup))

	assert.Contains(t, out.String(), "proposed change for")
}

func TestApplyCmd_FromStdin(t *testing.T) {
	t.Chdir(t.TempDir())

	require.NoError(t, os.WriteFile("f.txt", []byte("a\nb\nc\n"), 0o644))

	cmd := newApplyCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(bytes.NewBufferString(applyTestDiff))
	cmd.SetArgs([]string{"f.txt"})

	require.NoError(t, cmd.Execute())

	patched, err := os.ReadFile("f.txt")
	require.NoError(t, err)
	assert.Equal(t, "a\nB\nc\n", string(patched))
}

func TestApplyCmd_DryRun(t *testing.T) {
	t.Chdir(t.TempDir())

	require.NoError(t, os.WriteFile("f.txt", []byte("a\nb\nc\n"), 0o644))
	require.NoError(t, os.WriteFile("d.diff", []byte(applyTestDiff), 0o644))

	cmd := newApplyCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{"--dry-run", "f.txt", "d.diff"})

	require.NoError(t, cmd.Execute())

	content, err := os.ReadFile("f.txt")
	require.NoError(t, err)
	assert.Equal(t, "a\nb\nc\n", string(content), "dry run must not write")

	assert.Contains(t, out.String(), "dry run")
}

func TestApplyCmd_RejectsRename(t *testing.T) {
	t.Chdir(t.TempDir())

	require.NoError(t, os.WriteFile("f.txt", []byte("a\nb\nc\n"), 0o644))

	renameDiff := "--- a/f.txt\n+++ b/g.txt\n@@ -2,1 +2,1 @@\n-b\n+B\n"

	cmd := newApplyCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetIn(bytes.NewBufferString(renameDiff))
	cmd.SetArgs([]string{"f.txt"})

	require.Error(t, cmd.Execute())

	content, err := os.ReadFile("f.txt")
	require.NoError(t, err)
	assert.Equal(t, "a\nb\nc\n", string(content), "rejected diff must not touch the file")
}

func TestUndoCmd_RestoresBackup(t *testing.T) {
	t.Chdir(t.TempDir())

	require.NoError(t, os.WriteFile("f.txt", []byte("patched"), 0o644))
	require.NoError(t, os.WriteFile("f.txt.bak", []byte("original"), 0o644))

	cmd := newUndoCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"f.txt"})

	require.NoError(t, cmd.Execute())

	content, err := os.ReadFile("f.txt")
	require.NoError(t, err)
	assert.Equal(t, "original", string(content))
}

func TestHistoryCmd_AfterApply(t *testing.T) {
	t.Chdir(t.TempDir())

	require.NoError(t, os.WriteFile("f.txt", []byte("a\nb\nc\n"), 0o644))

	apply := newApplyCmd()
	apply.SetOut(&bytes.Buffer{})
	apply.SetErr(&bytes.Buffer{})
	apply.SetIn(bytes.NewBufferString(applyTestDiff))
	apply.SetArgs([]string{"f.txt"})
	require.NoError(t, apply.Execute())

	history := newHistoryCmd()
	out := &bytes.Buffer{}
	history.SetOut(out)
	history.SetErr(out)
	history.SetArgs([]string{})
	require.NoError(t, history.Execute())

	assert.Contains(t, out.String(), "f.txt")
	assert.Contains(t, out.String(), "applied")
}
