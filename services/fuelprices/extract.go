package fuelprices

import (
	"context"

	"openfuel-backend/lib/scrapers/goodreturns"
)

// Extractor parses raw page markup of a known structural shape into raw
// records. One implementation exists per source site; configuration
// picks which one a source uses, so adding a source never touches a
// shared parser.
type Extractor interface {
	Extract(ctx context.Context, content []byte, kind Kind) ([]RawRecord, error)
}

var extractors = map[string]Extractor{
	"goodreturns": goodreturnsExtractor{},
}

func LookupExtractor(name string) (Extractor, bool) {
	e, ok := extractors[name]
	return e, ok
}

type goodreturnsExtractor struct{}

func (goodreturnsExtractor) Extract(ctx context.Context, content []byte, kind Kind) ([]RawRecord, error) {
	records, err := goodreturns.Extract(ctx, content, string(kind))
	if err != nil {
		return nil, err
	}

	out := make([]RawRecord, len(records))
	for i, rec := range records {
		out[i] = RawRecord{City: rec.City, Price: rec.Price, Kind: kind}
	}
	return out, nil
}
