package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dealscout/backend/internal/domain"
)

func TestMemoryCache_SetAndGet(t *testing.T) {
	cache := NewMemoryCache(0)
	defer cache.Close()
	ctx := context.Background()

	tests := []struct {
		name    string
		key     string
		value   []byte
		ttl     time.Duration
		expired bool
	}{
		{
			name:  "store and retrieve bytes",
			key:   "offers:laptop",
			value: []byte(`[{"title":"Laptop"}]`),
			ttl:   time.Minute,
		},
		{
			name:  "store empty value",
			key:   "offers:empty",
			value: []byte{},
			ttl:   time.Minute,
		},
		{
			name:    "short TTL expires",
			key:     "offers:short",
			value:   []byte("expires-soon"),
			ttl:     time.Millisecond,
			expired: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := cache.Set(ctx, tt.key, tt.value, tt.ttl); err != nil {
				t.Fatalf("Set() error = %v", err)
			}

			if tt.expired {
				time.Sleep(10 * time.Millisecond)
				if _, err := cache.Get(ctx, tt.key); err != domain.ErrCacheMiss {
					t.Errorf("Expected cache miss after expiration, got error = %v", err)
				}
				return
			}

			got, err := cache.Get(ctx, tt.key)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if string(got) != string(tt.value) {
				t.Errorf("Get() = %q, want %q", got, tt.value)
			}
		})
	}
}

func TestMemoryCache_ValuesAreCopied(t *testing.T) {
	cache := NewMemoryCache(0)
	defer cache.Close()
	ctx := context.Background()

	value := []byte("original")
	if err := cache.Set(ctx, "k", value, time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	value[0] = 'X'

	got, _ := cache.Get(ctx, "k")
	got[1] = 'Y'

	again, _ := cache.Get(ctx, "k")
	if string(again) != "original" {
		t.Errorf("stored value mutated: %q", again)
	}
}

func TestMemoryCache_Get_CacheMiss(t *testing.T) {
	cache := NewMemoryCache(0)
	defer cache.Close()

	_, err := cache.Get(context.Background(), "non-existent-key")
	if err != domain.ErrCacheMiss {
		t.Errorf("Get() error = %v, want %v", err, domain.ErrCacheMiss)
	}
}

func TestMemoryCache_Delete(t *testing.T) {
	cache := NewMemoryCache(0)
	defer cache.Close()
	ctx := context.Background()

	key := "delete-test"
	if err := cache.Set(ctx, key, []byte("value"), time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := cache.Delete(ctx, key); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
	if _, err := cache.Get(ctx, key); err != domain.ErrCacheMiss {
		t.Errorf("Get() after delete error = %v, want %v", err, domain.ErrCacheMiss)
	}
}

func TestMemoryCache_EvictsWhenFull(t *testing.T) {
	cache := NewMemoryCache(2)
	defer cache.Close()
	ctx := context.Background()

	_ = cache.Set(ctx, "soon", []byte("1"), time.Minute)
	_ = cache.Set(ctx, "later", []byte("2"), time.Hour)
	_ = cache.Set(ctx, "new", []byte("3"), time.Hour)

	if _, err := cache.Get(ctx, "soon"); err != domain.ErrCacheMiss {
		t.Errorf("entry closest to expiry should be evicted, got error = %v", err)
	}
	for _, key := range []string{"later", "new"} {
		if _, err := cache.Get(ctx, key); err != nil {
			t.Errorf("Get(%s) error = %v", key, err)
		}
	}

	// Overwriting an existing key never evicts.
	_ = cache.Set(ctx, "later", []byte("4"), time.Hour)
	if _, err := cache.Get(ctx, "new"); err != nil {
		t.Errorf("overwrite evicted another entry: %v", err)
	}
	if got, _ := cache.Get(ctx, "later"); string(got) != "4" {
		t.Errorf("Get(later) = %q, want 4", got)
	}
}

func TestMemoryCache_CloseIsIdempotent(t *testing.T) {
	cache := NewMemoryCache(0)
	if err := cache.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := cache.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestMemoryCache_Concurrent(t *testing.T) {
	cache := NewMemoryCache(0)
	defer cache.Close()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", id)
			if err := cache.Set(ctx, key, []byte{byte(id)}, time.Minute); err != nil {
				t.Errorf("Concurrent Set() error = %v", err)
			}
			if _, err := cache.Get(ctx, key); err != nil {
				t.Errorf("Concurrent Get() error = %v", err)
			}
		}(i)
	}
	wg.Wait()
}
