// Package pkg is a package that provides utilities for stitch.
package pkg

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// AppendLog is a generic append-only record log persisted to disk. Records
// are encoded one JSON document per line so the log can be reopened and
// extended across process runs.
type AppendLog[T any] interface {
	Len() uint64
	Path() string
	Append(item T) error
	Range(f func(index uint64, item T) error) error
	Close() error
}

type appendLogImpl[T any] struct {
	path    string
	file    *os.File
	encoder *json.Encoder
	mu      sync.Mutex
	length  uint64
}

// OpenAppendLog opens (or creates) the log at path and positions new records
// after any existing ones.
func OpenAppendLog[T any](path string) (AppendLog[T], error) {
	// #nosec G304 - path comes from the tool's own configuration
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		slog.Error("failed to open append log", "path", path, "error", err)
		return nil, fmt.Errorf("failed to open append log: %w", err)
	}

	length, err := countRecords(path)
	if err != nil {
		_ = file.Close()
		return nil, err
	}

	slog.Debug("opened append log", "path", path, "length", length)

	return &appendLogImpl[T]{
		path:    path,
		file:    file,
		encoder: json.NewEncoder(file),
		length:  length,
	}, nil
}

func countRecords(path string) (uint64, error) {
	// #nosec G304 - same path that was just opened for append
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open append log for counting: %w", err)
	}

	defer func() { _ = file.Close() }()

	var count uint64

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		if len(scanner.Bytes()) > 0 {
			count++
		}
	}

	if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("failed to scan append log: %w", err)
	}

	return count, nil
}

// Append implements AppendLog.
func (l *appendLogImpl[T]) Append(item T) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.encoder.Encode(item); err != nil {
		slog.Error("failed to encode record", "path", l.path, "index", l.length, "error", err)
		return fmt.Errorf("failed to encode record: %w", err)
	}

	l.length++
	slog.Debug("appended record", "path", l.path, "index", l.length-1)

	return nil
}

// Len implements AppendLog.
func (l *appendLogImpl[T]) Len() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.length
}

// Path implements AppendLog.
func (l *appendLogImpl[T]) Path() string {
	return l.path
}

// Range implements AppendLog.
func (l *appendLogImpl[T]) Range(fn func(index uint64, item T) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	// #nosec G304 - reading back the log we own
	file, err := os.Open(l.path)
	if err != nil {
		slog.Error("failed to open append log for range", "path", l.path, "error", err)
		return fmt.Errorf("failed to open append log: %w", err)
	}

	defer func() {
		if err := file.Close(); err != nil {
			slog.Error("failed to close append log", "path", l.path, "error", err)
		}
	}()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var index uint64

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var item T
		if err := json.Unmarshal(line, &item); err != nil {
			slog.Error("failed to decode record during range", "path", l.path, "index", index, "error", err)
			return fmt.Errorf("failed to decode record at index %d: %w", index, err)
		}

		if err := fn(index, item); err != nil {
			slog.Warn("range callback error", "path", l.path, "index", index, "error", err)
			return err
		}

		index++
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to scan append log: %w", err)
	}

	slog.Debug("range completed", "path", l.path, "count", index)

	return nil
}

// Close implements AppendLog.
func (l *appendLogImpl[T]) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		if err := l.file.Close(); err != nil {
			slog.Error("failed to close append log", "path", l.path, "error", err)
			return err
		}

		l.file = nil
	}

	return nil
}
