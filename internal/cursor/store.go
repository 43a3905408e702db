// Package cursor persists the listener's last fully-processed ledger round.
package cursor

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/boltdb/bolt"
)

var (
	bucketName = []byte("reconciler")
	roundKey   = []byte("last_round")
)

// Store is a single-writer durable store for the ledger read cursor.
type Store struct {
	db *bolt.DB
}

// Open opens or creates the cursor database at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open cursor db %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create cursor bucket: %w", err)
	}

	return &Store{db: db}, nil
}

// Load returns the persisted round, or 0 if none has been written yet.
func (s *Store) Load() (uint64, error) {
	var round uint64
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketName).Get(roundKey)
		if len(raw) != 8 {
			return nil
		}
		round = binary.BigEndian.Uint64(raw)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("load cursor: %w", err)
	}
	return round, nil
}

// Save persists the round. Callers only write after a batch has been fully
// processed, so a crash before Save replays the batch rather than losing it.
func (s *Store) Save(round uint64) error {
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, round)

	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put(roundKey, raw)
	})
	if err != nil {
		return fmt.Errorf("save cursor: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
