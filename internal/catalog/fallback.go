package catalog

import (
	"time"

	"go.etcd.io/bbolt"
)

// Keys for the cached last-known-good payloads.
const (
	KeyProducts        = "jam3a_products"
	KeyDeals           = "jam3a_deals"
	KeyFeaturedDeals   = "jam3a_featured_deals"
	KeyAnalyticsConfig = "analyticsConfig"
)

var fallbackBucket = []byte("jam3a_fallback")

// FallbackStore keeps JSON blobs in a local bbolt file so the storefront
// can still render after losing the backend. It reports failures as
// StorageError and lets the caller decide what a miss means.
type FallbackStore struct {
	db *bbolt.DB
}

func OpenFallbackStore(path string) (*FallbackStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, &StorageError{Op: "open", Key: path, Err: err}
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, berr := tx.CreateBucketIfNotExists(fallbackBucket)
		return berr
	})
	if err != nil {
		db.Close()
		return nil, &StorageError{Op: "open", Key: path, Err: err}
	}
	return &FallbackStore{db: db}, nil
}

// Write serializes value and stores it under key, replacing any previous
// blob. A nil store is a disabled cache: writes are dropped.
func (s *FallbackStore) Write(key string, value interface{}) error {
	if s == nil {
		return nil
	}
	blob, err := json.Marshal(value)
	if err != nil {
		return &StorageError{Op: "write", Key: key, Err: err}
	}
	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(fallbackBucket).Put([]byte(key), blob)
	})
	if err != nil {
		return &StorageError{Op: "write", Key: key, Err: err}
	}
	return nil
}

// Read loads and decodes the blob under key into out. The boolean is
// false when the key is absent. A blob that no longer decodes comes back
// as a StorageError so the caller can treat it as a miss.
func (s *FallbackStore) Read(key string, out interface{}) (bool, error) {
	if s == nil {
		return false, nil
	}
	var blob []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket(fallbackBucket).Get([]byte(key)); v != nil {
			blob = make([]byte, len(v))
			copy(blob, v)
		}
		return nil
	})
	if err != nil {
		return false, &StorageError{Op: "read", Key: key, Err: err}
	}
	if blob == nil {
		return false, nil
	}
	if err := json.Unmarshal(blob, out); err != nil {
		return false, &StorageError{Op: "read", Key: key, Err: err}
	}
	return true, nil
}

func (s *FallbackStore) Delete(key string) error {
	if s == nil {
		return nil
	}
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(fallbackBucket).Delete([]byte(key))
	})
	if err != nil {
		return &StorageError{Op: "delete", Key: key, Err: err}
	}
	return nil
}

func (s *FallbackStore) Close() error {
	if s == nil {
		return nil
	}
	return s.db.Close()
}
