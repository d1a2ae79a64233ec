package catalog

import (
	"path/filepath"
	"testing"

	"go.etcd.io/bbolt"
)

func tempStore(t *testing.T) *FallbackStore {
	t.Helper()
	store, err := OpenFallbackStore(filepath.Join(t.TempDir(), "fallback.db"))
	if err != nil {
		t.Fatalf("open fallback store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestFallbackRoundTrip(t *testing.T) {
	store := tempStore(t)

	in := SampleProducts()
	if err := store.Write(KeyProducts, in); err != nil {
		t.Fatalf("write: %v", err)
	}

	var out []Product
	found, err := store.Read(KeyProducts, &out)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !found {
		t.Fatal("expected key to be present")
	}
	if len(out) != len(in) {
		t.Fatalf("expected %d products, got %d", len(in), len(out))
	}
	if out[0].ID != in[0].ID || out[0].Name != in[0].Name {
		t.Errorf("roundtrip mismatch: %+v", out[0])
	}
}

func TestFallbackMissingKey(t *testing.T) {
	store := tempStore(t)

	var out []Deal
	found, err := store.Read(KeyDeals, &out)
	if err != nil {
		t.Fatalf("read of absent key should not error: %v", err)
	}
	if found {
		t.Fatal("expected absent key")
	}
}

func TestFallbackCorruptBlobIsStorageError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fallback.db")
	store, err := OpenFallbackStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	err = store.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(fallbackBucket).Put([]byte(KeyProducts), []byte("{not json"))
	})
	if err != nil {
		t.Fatalf("seed corrupt blob: %v", err)
	}

	var out []Product
	found, err := store.Read(KeyProducts, &out)
	if found {
		t.Error("corrupt blob must not report found")
	}
	if _, isStorage := err.(*StorageError); !isStorage {
		t.Fatalf("expected StorageError, got %v", err)
	}
}

func TestFallbackDelete(t *testing.T) {
	store := tempStore(t)
	if err := store.Write(KeyFeaturedDeals, SampleFeaturedDeals()); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := store.Delete(KeyFeaturedDeals); err != nil {
		t.Fatalf("delete: %v", err)
	}
	var out []Deal
	if found, _ := store.Read(KeyFeaturedDeals, &out); found {
		t.Fatal("key should be gone after delete")
	}
}
