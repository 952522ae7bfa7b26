package adapter

import (
	"fmt"

	m "stitch.dev/pkg/stitch/internal/model"
	"stitch.dev/pkg/stitch/pkg"
)

// HistoryJournal records apply outcomes so the user can inspect past
// mutations and find the matching backup paths.
type HistoryJournal interface {
	Record(entry m.HistoryEntry) error
	Entries() ([]m.HistoryEntry, error)
	Close() error
}

type fileJournal struct {
	log pkg.AppendLog[m.HistoryEntry]
}

// NewFileJournal opens (or creates) the journal at path.
func NewFileJournal(path m.Path) (HistoryJournal, error) {
	log, err := pkg.OpenAppendLog[m.HistoryEntry](string(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open history journal: %w", err)
	}

	return &fileJournal{log: log}, nil
}

// Record implements HistoryJournal.
func (j *fileJournal) Record(entry m.HistoryEntry) error {
	return j.log.Append(entry)
}

// Entries implements HistoryJournal.
func (j *fileJournal) Entries() ([]m.HistoryEntry, error) {
	entries := make([]m.HistoryEntry, 0, j.log.Len())

	err := j.log.Range(func(_ uint64, item m.HistoryEntry) error {
		entries = append(entries, item)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// Close implements HistoryJournal.
func (j *fileJournal) Close() error {
	return j.log.Close()
}
