package storage

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open("sqlite", filepath.Join(t.TempDir(), "device.db"), PoolConfig{MaxOpenConns: 1})
	if err != nil {
		t.Fatalf("open store failed: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestSetGetRoundTrip(t *testing.T) {
	store := openTestStore(t)

	if err := store.Set(KeyCartID, "ABDEFGHIJKLMNOPQRABDEFGHIJKLMN"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	value, ok, err := store.Get(KeyCartID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !ok {
		t.Fatalf("expected key to exist")
	}
	if value != "ABDEFGHIJKLMNOPQRABDEFGHIJKLMN" {
		t.Fatalf("unexpected value: %s", value)
	}
}

func TestGetMissingKey(t *testing.T) {
	store := openTestStore(t)

	value, ok, err := store.Get(KeyAccessToken)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if ok || value != "" {
		t.Fatalf("missing key should report absent, got ok=%v value=%q", ok, value)
	}
}

func TestSetOverwritesExisting(t *testing.T) {
	store := openTestStore(t)

	if err := store.Set(KeyAccessToken, "first"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := store.Set(KeyAccessToken, "second"); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	value, ok, err := store.Get(KeyAccessToken)
	if err != nil || !ok {
		t.Fatalf("get failed: ok=%v err=%v", ok, err)
	}
	if value != "second" {
		t.Fatalf("expected overwritten value, got %s", value)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	store := openTestStore(t)

	if err := store.Set(KeyRefreshToken, "tok"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := store.Delete(KeyRefreshToken); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := store.Delete(KeyRefreshToken); err != nil {
		t.Fatalf("second delete should succeed: %v", err)
	}
	_, ok, err := store.Get(KeyRefreshToken)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if ok {
		t.Fatalf("key should be gone after delete")
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open("mongodb", "", PoolConfig{}); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}
