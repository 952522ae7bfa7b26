// Package adapter contains filesystem and infrastructure adapters for the
// Stitch CLI.
package adapter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	m "stitch.dev/pkg/stitch/internal/model"
)

const utf8BOM = "\ufeff"

// FileAdapter abstracts the normalized file I/O contract the patch engine
// relies on. Reads always decode UTF-8, strip a leading byte-order-mark and
// normalize all line endings to \n; writes encode UTF-8 with no BOM. Hiding
// direct os access here keeps the mutator testable without touching disk.
type FileAdapter interface {
	// FileInfo returns metadata for a path so callers can check existence.
	FileInfo(path m.Path) (os.FileInfo, error)

	// ReadNormalized loads a file and returns its content with a stripped
	// BOM and \n line endings.
	ReadNormalized(path m.Path) (string, error)

	// WriteNormalized writes content to a file, normalizing line endings to
	// \n and preserving the file's existing permissions when it exists.
	WriteNormalized(path m.Path, content string) error

	// Copy duplicates src to dst byte for byte.
	Copy(src, dst m.Path) error

	// ListDir returns the regular files directly under dir.
	ListDir(dir m.Path) ([]m.Path, error)

	// CreateNew writes content to a path that must not already exist,
	// creating parent directories as needed.
	CreateNew(path m.Path, content string) error

	// AbsPath resolves a path to its absolute form.
	AbsPath(path m.Path) (m.Path, error)

	// BackupPath picks the backup sibling for a path: <path>.bak, or a
	// timestamp-disambiguated <path>.<epochMillis>.bak when that already
	// exists. Rapid repeated calls within one millisecond can still collide;
	// accepted limitation for a single-user interactive tool.
	BackupPath(path m.Path) m.Path
}

// LocalFileAdapter is the os-backed FileAdapter implementation.
type LocalFileAdapter struct{}

// NewLocalFileAdapter constructs a LocalFileAdapter ready to be wired into
// the mutator.
func NewLocalFileAdapter() *LocalFileAdapter {
	return &LocalFileAdapter{}
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalFileAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

// ReadNormalized loads file contents, strips a UTF-8 BOM and normalizes
// \r\n and bare \r line endings to \n.
func (a *LocalFileAdapter) ReadNormalized(path m.Path) (string, error) {
	raw, err := os.ReadFile(string(path))
	if err != nil {
		return "", err
	}

	content := strings.TrimPrefix(string(raw), utf8BOM)
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	return content, nil
}

// WriteNormalized writes content with \n line endings and no BOM, keeping the
// permissions of an existing file.
func (a *LocalFileAdapter) WriteNormalized(path m.Path, content string) error {
	perm := os.FileMode(0o644)
	if info, err := os.Stat(string(path)); err == nil {
		perm = info.Mode().Perm()
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")

	return os.WriteFile(string(path), []byte(content), perm)
}

// Copy duplicates src to dst preserving the source permissions.
func (a *LocalFileAdapter) Copy(src, dst m.Path) error {
	// #nosec G304 - src is a resolved workspace path, not raw user input
	sourceFile, err := os.Open(string(src))
	if err != nil {
		return err
	}

	defer func() { _ = sourceFile.Close() }()

	info, err := sourceFile.Stat()
	if err != nil {
		return err
	}

	// #nosec G304 - dst is derived from the source path
	destFile, err := os.OpenFile(string(dst), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	defer func() { _ = destFile.Close() }()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}

	return nil
}

// ListDir returns the regular files directly under dir.
func (a *LocalFileAdapter) ListDir(dir m.Path) ([]m.Path, error) {
	entries, err := os.ReadDir(string(dir))
	if err != nil {
		return nil, err
	}

	files := make([]m.Path, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		files = append(files, m.Path(filepath.Join(string(dir), entry.Name())))
	}

	return files, nil
}

// CreateNew writes content to a path that must not already exist.
func (a *LocalFileAdapter) CreateNew(path m.Path, content string) error {
	if _, err := os.Stat(string(path)); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	if err := os.MkdirAll(filepath.Dir(string(path)), 0o750); err != nil {
		return err
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")

	return os.WriteFile(string(path), []byte(content), 0o644)
}

// AbsPath resolves a path to its absolute form.
func (a *LocalFileAdapter) AbsPath(path m.Path) (m.Path, error) {
	abs, err := filepath.Abs(string(path))
	if err != nil {
		return "", err
	}

	return m.Path(abs), nil
}

// BackupPath picks the backup sibling path for the given file.
func (a *LocalFileAdapter) BackupPath(path m.Path) m.Path {
	candidate := string(path) + ".bak"
	if _, err := os.Stat(candidate); err == nil {
		candidate = fmt.Sprintf("%s.%d.bak", path, time.Now().UnixMilli())
	}

	return m.Path(candidate)
}
