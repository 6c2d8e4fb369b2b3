package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryProvider(t *testing.T) {
	provider, err := NewMemoryProvider()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()

	if _, err := provider.Get(ctx, CatalogKey()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing key, got %v", err)
	}

	if err := provider.Set(ctx, CatalogKey(), "snapshot", time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	value, err := provider.Get(ctx, CatalogKey())
	if err != nil || value != "snapshot" {
		t.Errorf("expected snapshot, got %q (err=%v)", value, err)
	}

	if err := provider.Delete(ctx, CatalogKey()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := provider.Get(ctx, CatalogKey()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemoryProvider_TTL(t *testing.T) {
	provider, _ := NewMemoryProvider()
	ctx := context.Background()

	if err := provider.Set(ctx, RatesKey("USD"), "rates", -time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := provider.Get(ctx, RatesKey("USD")); !errors.Is(err, ErrNotFound) {
		t.Errorf("expired entries must report ErrNotFound, got %v", err)
	}
}
