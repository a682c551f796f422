package fuelprices

// Kind is a fuel product tracked by the pipeline.
type Kind string

const (
	Petrol Kind = "petrol"
	Diesel Kind = "diesel"
)

// Kinds lists every fuel kind a published snapshot must carry.
var Kinds = []Kind{Petrol, Diesel}

// RawRecord is one extracted row before any cleaning: the city label
// and price exactly as the source page shows them. Records only live
// between extraction and normalization.
type RawRecord struct {
	City  string
	Price string
	Kind  Kind
}

// PriceEntry is a normalized price for one canonical city. Unresolved
// marks labels missing from the alias table; it is surfaced in logs for
// review, never serialized.
type PriceEntry struct {
	City       string  `json:"city"`
	Price      float64 `json:"price"`
	Unresolved bool    `json:"-"`
}

// Snapshot is the published data file shape. Immutable once built: a
// run either persists it wholesale or discards it.
type Snapshot struct {
	LastUpdatedIST string       `json:"last_updated_ist"`
	Petrol         []PriceEntry `json:"petrol"`
	Diesel         []PriceEntry `json:"diesel"`
}

func (s Snapshot) Entries(kind Kind) []PriceEntry {
	switch kind {
	case Petrol:
		return s.Petrol
	case Diesel:
		return s.Diesel
	}
	return nil
}

func (s Snapshot) Count(kind Kind) int {
	return len(s.Entries(kind))
}
