package identity

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/luacheia/storefront/internal/storage"

	"github.com/golang-jwt/jwt/v5"
)

func openTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open("sqlite", filepath.Join(t.TempDir(), "device.db"), storage.PoolConfig{MaxOpenConns: 1})
	if err != nil {
		t.Fatalf("open store failed: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestEnsureCartIDIsIdempotent(t *testing.T) {
	store := openTestStore(t)

	first, err := EnsureCartID(store)
	if err != nil {
		t.Fatalf("first ensure failed: %v", err)
	}
	second, err := EnsureCartID(store)
	if err != nil {
		t.Fatalf("second ensure failed: %v", err)
	}
	if first != second {
		t.Fatalf("cart id must be stable: %s vs %s", first, second)
	}
}

func TestEnsureCartIDShape(t *testing.T) {
	store := openTestStore(t)

	id, err := EnsureCartID(store)
	if err != nil {
		t.Fatalf("ensure failed: %v", err)
	}
	if len(id) != cartIDLength {
		t.Fatalf("cart id length want %d got %d", cartIDLength, len(id))
	}
	for _, r := range id {
		if !strings.ContainsRune(cartIDAlphabet, r) {
			t.Fatalf("cart id contains char outside alphabet: %q", r)
		}
	}
}

func TestEnsureCartIDKeepsExistingValue(t *testing.T) {
	store := openTestStore(t)

	if err := store.Set(storage.KeyCartID, "QQQQQQQQQQQQQQQQQQQQQQQQQQQQQQ"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	id, err := EnsureCartID(store)
	if err != nil {
		t.Fatalf("ensure failed: %v", err)
	}
	if id != "QQQQQQQQQQQQQQQQQQQQQQQQQQQQQQ" {
		t.Fatalf("existing cart id must never be regenerated, got %s", id)
	}
}

func TestResolveWithoutTokenIsGuest(t *testing.T) {
	store := openTestStore(t)

	id := Resolve(store)
	if !id.Guest {
		t.Fatalf("missing token should resolve to guest")
	}
	if id.FormUserID() != "0" {
		t.Fatalf("guest form user id want 0 got %s", id.FormUserID())
	}
}

func TestResolveMalformedTokenIsGuest(t *testing.T) {
	store := openTestStore(t)

	if err := store.Set(storage.KeyAccessToken, "not-a-jwt"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	id := Resolve(store)
	if !id.Guest {
		t.Fatalf("malformed token should soft-fail to guest, not error")
	}
}

func TestResolveExtractsUserID(t *testing.T) {
	store := openTestStore(t)

	claims := userClaims{
		UserID: 42,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("remote-secret"))
	if err != nil {
		t.Fatalf("sign token failed: %v", err)
	}
	if err := store.Set(storage.KeyAccessToken, token); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	id := Resolve(store)
	if id.Guest {
		t.Fatalf("valid token should resolve a user")
	}
	if id.UserID != 42 {
		t.Fatalf("user id want 42 got %d", id.UserID)
	}
	if id.FormUserID() != "42" {
		t.Fatalf("form user id want 42 got %s", id.FormUserID())
	}
}

func TestResolveTokenWithoutUserIDClaimIsGuest(t *testing.T) {
	store := openTestStore(t)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "no-user-id",
	}).SignedString([]byte("remote-secret"))
	if err != nil {
		t.Fatalf("sign token failed: %v", err)
	}
	if err := store.Set(storage.KeyAccessToken, token); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	if id := Resolve(store); !id.Guest {
		t.Fatalf("token without user_id claim should resolve to guest")
	}
}
