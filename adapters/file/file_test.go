package file

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okabrera/medbill/core"
)

func TestStoreShouldRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := New(t.TempDir(), "passphrase")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	payload := []byte(`{"access_token":"acc"}`)
	if err := store.Set(ctx, core.KeyTokens, payload); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := store.Get(ctx, core.KeyTokens)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("round trip mismatch: %q", got)
	}
}

func TestGetMissingKeyShouldReturnNotFound(t *testing.T) {
	store, err := New(t.TempDir(), "passphrase")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := store.Get(context.Background(), "absent"); !errors.Is(err, core.ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestDeleteShouldRemoveKeyAndTolerateAbsence(t *testing.T) {
	ctx := context.Background()
	store, err := New(t.TempDir(), "passphrase")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	store.Set(ctx, core.KeyUser, []byte("u"))
	if err := store.Delete(ctx, core.KeyUser); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, core.KeyUser); !errors.Is(err, core.ErrKeyNotFound) {
		t.Errorf("key should be gone, got %v", err)
	}
	if err := store.Delete(ctx, core.KeyUser); err != nil {
		t.Errorf("deleting an absent key must be a no-op, got %v", err)
	}
}

func TestDataOnDiskShouldBeEncrypted(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := New(dir, "passphrase")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	store.Set(ctx, core.KeyTokens, []byte("super-secret-token"))

	raw, err := os.ReadFile(filepath.Join(dir, core.KeyTokens+".bin"))
	if err != nil {
		t.Fatalf("reading raw file failed: %v", err)
	}
	if bytes.Contains(raw, []byte("super-secret-token")) {
		t.Error("plaintext leaked to disk")
	}
}

func TestReopenWithSamePassphraseShouldReadBack(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first, err := New(dir, "passphrase")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	first.Set(ctx, core.KeyUser, []byte("ana"))

	second, err := New(dir, "passphrase")
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	got, err := second.Get(ctx, core.KeyUser)
	if err != nil {
		t.Fatalf("Get after reopen failed: %v", err)
	}
	if string(got) != "ana" {
		t.Errorf("got %q, want %q", got, "ana")
	}
}

func TestReopenWithWrongPassphraseShouldFailToDecrypt(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first, _ := New(dir, "right")
	first.Set(ctx, core.KeyUser, []byte("ana"))

	second, err := New(dir, "wrong")
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if _, err := second.Get(ctx, core.KeyUser); err == nil {
		t.Error("wrong passphrase must not decrypt stored data")
	}
}
