package adapter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	m "stitch.dev/pkg/stitch/internal/model"
)

func writeTestFile(t *testing.T, dir, name string, content []byte) m.Path {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	return m.Path(path)
}

func TestReadNormalized(t *testing.T) {
	dir := t.TempDir()
	a := NewLocalFileAdapter()

	t.Run("strips a UTF-8 BOM", func(t *testing.T) {
		path := writeTestFile(t, dir, "bom.txt", []byte("\xEF\xBB\xBFhello\n"))

		content, err := a.ReadNormalized(path)
		if err != nil {
			t.Fatalf("read failed: %v", err)
		}

		if content != "hello\n" {
			t.Errorf("BOM not stripped: %q", content)
		}
	})

	t.Run("normalizes CRLF and bare CR", func(t *testing.T) {
		path := writeTestFile(t, dir, "crlf.txt", []byte("a\r\nb\rc\n"))

		content, err := a.ReadNormalized(path)
		if err != nil {
			t.Fatalf("read failed: %v", err)
		}

		if content != "a\nb\nc\n" {
			t.Errorf("line endings not normalized: %q", content)
		}
	})

	t.Run("missing file errors", func(t *testing.T) {
		if _, err := a.ReadNormalized(m.Path(filepath.Join(dir, "absent.txt"))); err == nil {
			t.Error("expected an error")
		}
	})
}

func TestWriteNormalized(t *testing.T) {
	dir := t.TempDir()
	a := NewLocalFileAdapter()

	t.Run("preserves existing permissions", func(t *testing.T) {
		path := filepath.Join(dir, "exec.sh")
		if err := os.WriteFile(path, []byte("old"), 0o755); err != nil {
			t.Fatalf("setup failed: %v", err)
		}

		if err := a.WriteNormalized(m.Path(path), "new\n"); err != nil {
			t.Fatalf("write failed: %v", err)
		}

		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat failed: %v", err)
		}

		if info.Mode().Perm() != 0o755 {
			t.Errorf("permissions changed to %v", info.Mode().Perm())
		}
	})

	t.Run("normalizes CRLF on write", func(t *testing.T) {
		path := filepath.Join(dir, "out.txt")

		if err := a.WriteNormalized(m.Path(path), "a\r\nb\n"); err != nil {
			t.Fatalf("write failed: %v", err)
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read back failed: %v", err)
		}

		if strings.Contains(string(raw), "\r") {
			t.Errorf("carriage return written: %q", raw)
		}
	})
}

func TestBackupPath(t *testing.T) {
	dir := t.TempDir()
	a := NewLocalFileAdapter()

	path := writeTestFile(t, dir, "f.txt", []byte("x"))

	t.Run("defaults to .bak sibling", func(t *testing.T) {
		if got := a.BackupPath(path); got != path+".bak" {
			t.Errorf("unexpected backup path %q", got)
		}
	})

	t.Run("disambiguates when .bak exists", func(t *testing.T) {
		if err := os.WriteFile(string(path)+".bak", []byte("old backup"), 0o644); err != nil {
			t.Fatalf("setup failed: %v", err)
		}

		got := string(a.BackupPath(path))
		if got == string(path)+".bak" {
			t.Error("expected a timestamped backup path")
		}

		if !strings.HasPrefix(got, string(path)+".") || !strings.HasSuffix(got, ".bak") {
			t.Errorf("unexpected backup path shape %q", got)
		}
	})
}

func TestCopy(t *testing.T) {
	dir := t.TempDir()
	a := NewLocalFileAdapter()

	src := writeTestFile(t, dir, "src.txt", []byte("payload"))
	dst := m.Path(filepath.Join(dir, "dst.txt"))

	if err := a.Copy(src, dst); err != nil {
		t.Fatalf("copy failed: %v", err)
	}

	raw, err := os.ReadFile(string(dst))
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}

	if string(raw) != "payload" {
		t.Errorf("unexpected copy content %q", raw)
	}
}

func TestListDir(t *testing.T) {
	dir := t.TempDir()
	a := NewLocalFileAdapter()

	writeTestFile(t, dir, "a.txt", []byte("a"))
	writeTestFile(t, dir, "b.txt", []byte("b"))

	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o750); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	files, err := a.ListDir(m.Path(dir))
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if len(files) != 2 {
		t.Errorf("expected 2 regular files, got %d: %v", len(files), files)
	}
}

func TestCreateNew(t *testing.T) {
	dir := t.TempDir()
	a := NewLocalFileAdapter()

	t.Run("creates parents", func(t *testing.T) {
		path := m.Path(filepath.Join(dir, "nested", "deep", "new.txt"))

		if err := a.CreateNew(path, "content\n"); err != nil {
			t.Fatalf("create failed: %v", err)
		}

		raw, err := os.ReadFile(string(path))
		if err != nil {
			t.Fatalf("read back failed: %v", err)
		}

		if string(raw) != "content\n" {
			t.Errorf("unexpected content %q", raw)
		}
	})

	t.Run("refuses to overwrite", func(t *testing.T) {
		path := writeTestFile(t, dir, "existing.txt", []byte("x"))

		if err := a.CreateNew(path, "y"); err == nil {
			t.Error("expected an error for an existing file")
		}
	})
}
