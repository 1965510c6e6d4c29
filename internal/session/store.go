package session

import (
	"encoding/json"
	"errors"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"chat-client/internal/roomservice"
)

var bucketSession = []byte("session")
var keyCredentials = []byte("credentials")

// ErrNoCredentials is returned when no session is stored.
var ErrNoCredentials = errors.New("no stored credentials")

// Store persists the session credentials in a local bbolt file so a
// session can be resumed across restarts.
type Store struct {
	db *bolt.DB
}

// OpenStore opens (or creates) the state database.
func OpenStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSession)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init state db: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the state database.
func (s *Store) Close() error { return s.db.Close() }

// Save persists the credentials.
func (s *Store) Save(creds roomservice.Credentials) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSession).Put(keyCredentials, data)
	})
}

// Load returns the stored credentials, or ErrNoCredentials.
func (s *Store) Load() (roomservice.Credentials, error) {
	var creds roomservice.Credentials
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketSession).Get(keyCredentials)
		if data == nil {
			return ErrNoCredentials
		}
		return json.Unmarshal(data, &creds)
	})
	return creds, err
}

// Clear removes any stored credentials.
func (s *Store) Clear() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSession).Delete(keyCredentials)
	})
}
