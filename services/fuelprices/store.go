package fuelprices

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

const (
	ReasonUpdated    = "updated"
	ReasonUnchanged  = "unchanged"
	ReasonEmptyGuard = "empty-guard"
)

// ErrEmptySnapshot trips the empty guard: a snapshot missing entries
// for a required fuel kind must never replace published data, no matter
// what earlier stages concluded.
var ErrEmptySnapshot = errors.New("refusing to persist a snapshot with an empty fuel kind")

type PersistResult struct {
	Written bool
	Reason  string
}

// Store owns the published snapshot file. It is the only writer of
// durable state in the pipeline.
type Store struct {
	path string
}

func NewStore(path string) Store {
	return Store{path: path}
}

func (s Store) Path() string {
	return s.path
}

// Load reads the previously published snapshot. ok is false when no
// usable prior snapshot exists: first run, or the seed "{}" placeholder
// the data repository starts with.
func (s Store) Load() (Snapshot, bool, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, err
	}

	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return Snapshot{}, false, err
	}
	if len(snap.Petrol) == 0 && len(snap.Diesel) == 0 {
		return Snapshot{}, false, nil
	}
	return snap, true, nil
}

// timestamp churn alone must not trigger a rewrite, and the unresolved
// flag is in-memory review state, not content
var contentOnly = []cmp.Option{
	cmpopts.IgnoreFields(Snapshot{}, "LastUpdatedIST"),
	cmpopts.IgnoreFields(PriceEntry{}, "Unresolved"),
}

// Commit decides whether next may replace the published snapshot.
// The write is atomic with respect to readers: content goes to a temp
// file in the same directory, then a rename swaps it in, so the prior
// file is never observable half-written.
func (s Store) Commit(next Snapshot, prior *Snapshot) (PersistResult, error) {
	for _, kind := range Kinds {
		if next.Count(kind) == 0 {
			return PersistResult{Written: false, Reason: ReasonEmptyGuard}, ErrEmptySnapshot
		}
	}

	if prior != nil && cmp.Equal(next, *prior, contentOnly...) {
		return PersistResult{Written: false, Reason: ReasonUnchanged}, nil
	}

	if err := s.writeAtomic(next); err != nil {
		return PersistResult{}, err
	}
	return PersistResult{Written: true, Reason: ReasonUpdated}, nil
}

func (s Store) writeAtomic(snap Snapshot) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".prices-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
