package extraction

import "context"

// Item is a single line item read off a document. Preserved when present
// but nothing downstream requires it.
type Item struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Candidate is an unnormalized record as produced by the extraction client
// or the fallback synthesizer. Fields may be missing or malformed; the
// normalizer is responsible for coercion and defaults.
type Candidate struct {
	Vendor   string  `json:"vendor"`
	Amount   float64 `json:"amount"`
	Date     string  `json:"date"` // YYYY-MM-DD when well-formed
	Category string  `json:"category,omitempty"`
	Items    []Item  `json:"items,omitempty"`
}

// Extractor sends an encoded payload to a recognition service and parses
// the answer into a candidate record.
type Extractor interface {
	// Extract performs a single recognition call. It carries no internal
	// timeout; callers bound it through ctx.
	Extract(ctx context.Context, payload *Payload) (*Candidate, error)
	// Close releases client resources.
	Close() error
}
