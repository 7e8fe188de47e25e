package main

import (
	"path/filepath"
	"testing"
)

func newTestRoster(t *testing.T) *rosterStore {
	t.Helper()
	store, err := openRosterStoreAt(filepath.Join(t.TempDir(), "roster.sqlite"))
	if err != nil {
		t.Fatalf("openRosterStoreAt: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRosterRecordAndLookup(t *testing.T) {
	store := newTestRoster(t)
	if err := store.Record("Abra", "Mage"); err != nil {
		t.Fatalf("Record: %v", err)
	}
	class, ok := store.ClassOf("Abra")
	if !ok || class != "mage" {
		t.Fatalf("ClassOf=%q ok=%v", class, ok)
	}
	// Lookup is case-insensitive on the name.
	if _, ok := store.ClassOf("abra"); !ok {
		t.Fatal("case-insensitive lookup failed")
	}
	if _, ok := store.ClassOf("Nobody"); ok {
		t.Fatal("unknown actor resolved")
	}
}

func TestRosterRecordOverwrites(t *testing.T) {
	store := newTestRoster(t)
	if err := store.Record("Abra", "mage"); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := store.Record("Abra", "priest"); err != nil {
		t.Fatalf("Record update: %v", err)
	}
	if class, _ := store.ClassOf("Abra"); class != "priest" {
		t.Fatalf("class=%q want=priest", class)
	}
	all, err := store.All()
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("roster size=%d want=1", len(all))
	}
}

func TestRosterNilStoreIsSafe(t *testing.T) {
	var store *rosterStore
	if _, ok := store.ClassOf("Abra"); ok {
		t.Fatal("nil store resolved an actor")
	}
	if err := store.Record("Abra", "mage"); err != nil {
		t.Fatalf("nil Record: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("nil Close: %v", err)
	}
}
