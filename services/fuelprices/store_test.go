package fuelprices

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func testSnapshot() Snapshot {
	return Snapshot{
		LastUpdatedIST: "2024-03-15T12:00:00+05:30",
		Petrol:         []PriceEntry{{City: "New Delhi", Price: 94.77}},
		Diesel:         []PriceEntry{{City: "New Delhi", Price: 87.67}},
	}
}

func TestCommitRefusesEmptyKind(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "prices.json"))

	snap := testSnapshot()
	snap.Diesel = nil
	result, err := store.Commit(snap, nil)

	require.ErrorIs(t, err, ErrEmptySnapshot)
	require.False(t, result.Written)
	require.Equal(t, ReasonEmptyGuard, result.Reason)

	_, statErr := os.Stat(store.Path())
	require.True(t, os.IsNotExist(statErr))
}

func TestCommitWritesAndLoadsBack(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "prices.json"))

	snap := testSnapshot()
	result, err := store.Commit(snap, nil)
	require.NoError(t, err)
	require.True(t, result.Written)
	require.Equal(t, ReasonUpdated, result.Reason)

	loaded, ok, err := store.Load()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, snap, loaded)

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	require.Contains(t, string(raw), "\"last_updated_ist\": \"2024-03-15T12:00:00+05:30\"")
	require.Contains(t, string(raw), "\"price\": 94.77")
}

func TestCommitUnchangedLeavesFileUntouched(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "prices.json"))

	first := testSnapshot()
	_, err := store.Commit(first, nil)
	require.NoError(t, err)

	before, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	// same content, fresh timestamp: must not rewrite
	second := testSnapshot()
	second.LastUpdatedIST = "2024-03-16T12:00:00+05:30"
	result, err := store.Commit(second, &first)
	require.NoError(t, err)
	require.False(t, result.Written)
	require.Equal(t, ReasonUnchanged, result.Reason)

	after, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestCommitWritesWhenPricesMove(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "prices.json"))

	first := testSnapshot()
	_, err := store.Commit(first, nil)
	require.NoError(t, err)

	second := testSnapshot()
	second.Petrol[0].Price = 95.12
	result, err := store.Commit(second, &first)
	require.NoError(t, err)
	require.True(t, result.Written)

	loaded, ok, err := store.Load()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 95.12, loaded.Petrol[0].Price)
}

func TestLoadTreatsSeedPlaceholderAsAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	_, ok, err := NewStore(path).Load()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestLoadMissingFile(t *testing.T) {
	_, ok, err := NewStore(filepath.Join(t.TempDir(), "prices.json")).Load()
	require.NoError(t, err)
	require.False(t, ok)
}
