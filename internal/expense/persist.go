package expense

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

const (
	bucketName = "expenses"
	recordsKey = "records"
)

// Persister provides durable storage for the whole record collection. The
// collection is written as one unit: the store keeps ordering and indexing
// in memory and only needs the durable layer to hold the latest snapshot.
type Persister interface {
	// Load reads the persisted collection; an empty store yields an empty
	// slice, not an error.
	Load() ([]Record, error)

	// Save rewrites the persisted collection in full.
	Save(records []Record) error

	// Close closes the underlying storage.
	Close() error
}

// BoltPersister implements the Persister interface using BoltDB: a single
// bucket with a single key holding the ordered collection as JSON.
type BoltPersister struct {
	db *bbolt.DB
}

// NewBoltPersister opens (or creates) the database at path.
func NewBoltPersister(path string) (*BoltPersister, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating bucket: %w", err)
	}

	return &BoltPersister{db: db}, nil
}

// Load reads the full collection.
func (b *BoltPersister) Load() ([]Record, error) {
	records := make([]Record, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(bucketName)).Get([]byte(recordsKey))
		if data == nil {
			return nil
		}
		if err := json.Unmarshal(data, &records); err != nil {
			return fmt.Errorf("unmarshaling records: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Save rewrites the full collection.
func (b *BoltPersister) Save(records []Record) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(records)
		if err != nil {
			return fmt.Errorf("marshaling records: %w", err)
		}
		return tx.Bucket([]byte(bucketName)).Put([]byte(recordsKey), data)
	})
}

// Close closes the database.
func (b *BoltPersister) Close() error {
	return b.db.Close()
}
