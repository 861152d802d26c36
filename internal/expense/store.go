package expense

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// IDGenerator generates unique IDs for records.
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time.
type TimeSource interface {
	Now() time.Time
}

type uuidGenerator struct{}

func (uuidGenerator) Generate() string {
	return uuid.NewString()
}

type systemTimeSource struct{}

func (systemTimeSource) Now() time.Time {
	return time.Now()
}

// Store is the persisted, observable collection of finalized records,
// ordered most-recently-created first. Every mutation builds a fresh slice,
// persists it synchronously, and only then swaps it in: readers never see a
// torn state, and a failed durable write leaves memory unchanged.
type Store struct {
	mu          sync.Mutex
	records     []Record
	persister   Persister
	idGen       IDGenerator
	timeSource  TimeSource
	subscribers map[int]func([]Record)
	nextSubID   int
}

// NewStore creates a Store, loading the persisted collection once.
func NewStore(persister Persister) (*Store, error) {
	return NewStoreWithDeps(persister, uuidGenerator{}, systemTimeSource{})
}

// NewStoreWithDeps creates a Store with custom dependencies for testing.
func NewStoreWithDeps(persister Persister, idGen IDGenerator, timeSource TimeSource) (*Store, error) {
	records, err := persister.Load()
	if err != nil {
		return nil, fmt.Errorf("loading records: %w", err)
	}

	return &Store{
		records:     records,
		persister:   persister,
		idGen:       idGen,
		timeSource:  timeSource,
		subscribers: make(map[int]func([]Record)),
	}, nil
}

// Subscribe registers fn to receive an immutable snapshot after each
// mutation. It returns a token for Unsubscribe. fn runs synchronously with
// the store lock held and must not call back into the store; hand the
// snapshot off if more work is needed.
func (s *Store) Subscribe(fn func(records []Record)) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	return id
}

// Unsubscribe removes a subscription. Unknown tokens are ignored.
func (s *Store) Unsubscribe(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subscribers, id)
}

// Add assigns an ID and creation time to draft, prepends it, and persists.
// The returned record is the stored one. On persistence failure nothing is
// added and the error is returned; callers should treat it as retryable.
func (s *Store) Add(draft Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft.ID = s.idGen.Generate()
	draft.CreatedAt = s.timeSource.Now()

	next := make([]Record, 0, len(s.records)+1)
	next = append(next, draft)
	next = append(next, s.records...)

	if err := s.commit(next); err != nil {
		return Record{}, fmt.Errorf("persisting record: %w", err)
	}
	return draft, nil
}

// Update merges patch into the record with the given id, leaving ID and
// CreatedAt untouched. An absent id is a no-op returning (nil, nil).
func (s *Store) Update(id string, patch Patch) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx == -1 {
		return nil, nil
	}

	next := make([]Record, len(s.records))
	copy(next, s.records)

	rec := &next[idx]
	if patch.ImageRef != nil {
		rec.ImageRef = *patch.ImageRef
	}
	if patch.Vendor != nil {
		rec.Vendor = *patch.Vendor
	}
	if patch.Amount != nil {
		rec.Amount = *patch.Amount
	}
	if patch.Date != nil {
		rec.Date = *patch.Date
	}
	if patch.Category != nil {
		rec.Category = *patch.Category
	}
	if patch.Notes != nil {
		rec.Notes = *patch.Notes
	}

	if err := s.commit(next); err != nil {
		return nil, fmt.Errorf("persisting update: %w", err)
	}
	updated := *rec
	return &updated, nil
}

// Delete removes the record with the given id. An absent id is a no-op.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx == -1 {
		return nil
	}

	next := make([]Record, 0, len(s.records)-1)
	next = append(next, s.records[:idx]...)
	next = append(next, s.records[idx+1:]...)

	if err := s.commit(next); err != nil {
		return fmt.Errorf("persisting delete: %w", err)
	}
	return nil
}

// GetByID returns the record with the given id, if present.
func (s *Store) GetByID(id string) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx == -1 {
		return Record{}, false
	}
	return s.records[idx], true
}

// List returns a snapshot of all records, newest first.
func (s *Store) List() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// QueryByDateRange returns records whose transaction date falls within
// [start, end], inclusive on both ends. Dates are canonical YYYY-MM-DD
// strings, so the comparison is on date value, not timestamp granularity.
func (s *Store) QueryByDateRange(start, end string) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	matches := make([]Record, 0)
	for _, r := range s.records {
		if r.Date >= start && r.Date <= end {
			matches = append(matches, r)
		}
	}
	return matches
}

// ClearAll empties the collection.
func (s *Store) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.commit([]Record{}); err != nil {
		return fmt.Errorf("persisting clear: %w", err)
	}
	return nil
}

// commit persists next and, only on success, swaps it in and notifies
// subscribers. Callers hold the mutex.
func (s *Store) commit(next []Record) error {
	if err := s.persister.Save(next); err != nil {
		return err
	}
	s.records = next

	snapshot := s.snapshot()
	for _, fn := range s.subscribers {
		fn(snapshot)
	}
	return nil
}

// indexOf returns the position of id, or -1. Callers hold the mutex.
func (s *Store) indexOf(id string) int {
	for i, r := range s.records {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// snapshot copies the collection. Callers hold the mutex.
func (s *Store) snapshot() []Record {
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}
