package fuelprices

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"openfuel-backend/lib/textutil"

	"github.com/antzucaro/matchr"
)

// AliasTable maps normalized source labels to canonical city names.
// Loaded once at startup from configuration and read-only afterwards.
type AliasTable map[string]string

func LoadAliases(raw map[string]string) AliasTable {
	table := make(AliasTable, len(raw))
	for label, canonical := range raw {
		table[textutil.NormalizeKey(label)] = canonical
	}
	return table
}

// Resolve returns the canonical name for a source label. Unmapped
// labels pass through unchanged with ok=false so callers can flag them
// instead of silently drifting the canonical set.
func (t AliasTable) Resolve(label string) (string, bool) {
	canonical, ok := t[textutil.NormalizeKey(label)]
	if !ok {
		return label, false
	}
	return canonical, true
}

// NearestCanonical suggests the closest known canonical name for an
// unmapped label, as a maintenance hint for the alias table. Returns ""
// when nothing is close enough to be useful.
func (t AliasTable) NearestCanonical(label string) string {
	key := textutil.NormalizeKey(label)

	best := ""
	bestScore := 0.0
	for _, canonical := range t {
		score := matchr.JaroWinkler(key, strings.ToLower(canonical), false)
		if score > bestScore {
			bestScore = score
			best = canonical
		}
	}
	if bestScore < 0.85 {
		return ""
	}
	return best
}

// prices above this are misparses (two cells concatenated), no indian
// retail fuel price is anywhere near it
const maxSanePrice = 10_000

// the source site serves a mis-encoded rupee prefix on some rows
const misencodedPrefix = "ƒ,1"

var nonPriceChars = regexp.MustCompile(`[^\d.]`)

// CleanPrice parses a raw price cell into a number. Currency symbols
// and thousands separators are stripped; a lone leading dot left over
// from a "Rs. 96.72" style prefix is dropped. Empty, non-numeric,
// ambiguous (multiple dots), zero, negative and absurdly large values
// are all rejected.
func CleanPrice(raw string) (float64, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, false
	}
	trimmed = strings.ReplaceAll(trimmed, misencodedPrefix, "")

	cleaned := nonPriceChars.ReplaceAllString(trimmed, "")
	if strings.Count(cleaned, ".") > 1 {
		if strings.HasPrefix(cleaned, ".") && strings.Count(cleaned[1:], ".") == 1 {
			cleaned = strings.TrimLeft(cleaned, ".")
		} else {
			return 0, false
		}
	}
	if cleaned == "" {
		return 0, false
	}

	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	if price <= 0 || price > maxSanePrice {
		return 0, false
	}
	return price, true
}

// Normalize turns raw extracted records into price entries: prices
// cleaned to numbers, city labels resolved through the alias table.
// Pure function of its inputs; rejected records are logged and skipped;
// output preserves input order so snapshots diff stably.
func Normalize(records []RawRecord, aliases AliasTable) []PriceEntry {
	entries := make([]PriceEntry, 0, len(records))
	for i, rec := range records {
		price, ok := CleanPrice(rec.Price)
		if !ok {
			slog.Warn(
				"rejecting record with unusable price",
				"kind", rec.Kind,
				"city", rec.City,
				"index", i,
				"price", rec.Price,
			)
			continue
		}

		city, resolved := aliases.Resolve(rec.City)
		if !resolved {
			slog.Warn(
				"city label missing from alias table",
				"kind", rec.Kind,
				"label", rec.City,
				"closest_canonical", aliases.NearestCanonical(rec.City),
			)
		}

		entries = append(entries, PriceEntry{
			City:       city,
			Price:      price,
			Unresolved: !resolved,
		})
	}
	return entries
}
