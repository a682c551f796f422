package fuelprices

import (
	"log/slog"
	"time"

	"openfuel-backend/lib/textutil"
	"openfuel-backend/lib/timezone"
)

// BuildSnapshot assembles the published structure from normalized
// per-kind entries. Duplicate (city, kind) pairs resolve first-wins
// with a warning: the first table on the source pages is the
// authoritative major-cities table, later state tables repeat some of
// its rows.
func BuildSnapshot(byKind map[Kind][]PriceEntry, generatedAt time.Time) Snapshot {
	return Snapshot{
		LastUpdatedIST: timezone.Stamp(generatedAt),
		Petrol:         dedupe(Petrol, byKind[Petrol]),
		Diesel:         dedupe(Diesel, byKind[Diesel]),
	}
}

func dedupe(kind Kind, entries []PriceEntry) []PriceEntry {
	seen := make(map[string]struct{}, len(entries))
	out := make([]PriceEntry, 0, len(entries))
	for _, entry := range entries {
		key := textutil.NormalizeKey(entry.City)
		if _, dup := seen[key]; dup {
			slog.Warn("dropping duplicate entry", "kind", kind, "city", entry.City)
			continue
		}
		seen[key] = struct{}{}
		out = append(out, entry)
	}
	return out
}
