package catalog

import (
	"fmt"
	"testing"
)

func TestSyncLogNewestFirst(t *testing.T) {
	log := NewSyncLog(10)
	log.Append(SyncActionCreate, "first", SyncStatusSuccess, []string{"p1"})
	log.Append(SyncActionUpdate, "second", SyncStatusError, []string{"p2"})

	entries := log.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Details != "second" || entries[1].Details != "first" {
		t.Fatalf("expected newest first, got %q then %q", entries[0].Details, entries[1].Details)
	}
	if entries[0].Status != SyncStatusError {
		t.Errorf("status not preserved: %s", entries[0].Status)
	}
	if entries[0].ID == entries[1].ID {
		t.Errorf("entry IDs should be unique")
	}
}

func TestSyncLogBounded(t *testing.T) {
	log := NewSyncLog(5)
	for i := 0; i < 12; i++ {
		log.Append(SyncActionDelete, fmt.Sprintf("entry %d", i), SyncStatusSuccess, nil)
	}
	if log.Len() != 5 {
		t.Fatalf("expected cap of 5, got %d", log.Len())
	}
	entries := log.Entries()
	if entries[0].Details != "entry 11" {
		t.Errorf("newest entry should survive, got %q", entries[0].Details)
	}
	if entries[4].Details != "entry 7" {
		t.Errorf("oldest kept entry should be entry 7, got %q", entries[4].Details)
	}
}

func TestSyncLogEntriesReturnsCopy(t *testing.T) {
	log := NewSyncLog(10)
	log.Append(SyncActionBulk, "original", SyncStatusSuccess, nil)
	entries := log.Entries()
	entries[0].Details = "mutated"
	if log.Entries()[0].Details != "original" {
		t.Fatal("Entries must return a defensive copy")
	}
}
