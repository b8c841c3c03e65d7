package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

type testValue struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestGetOrSet_ProducerInvokedOnceOnHit(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	calls := 0
	producer := func(context.Context) (*testValue, error) {
		calls++
		return &testValue{ID: "1", Name: "corolla"}, nil
	}

	first, err := GetOrSet(ctx, store, ModelKey("1"), time.Minute, producer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := GetOrSet(ctx, store, ModelKey("1"), time.Minute, producer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if calls != 1 {
		t.Errorf("expected producer to run exactly once, ran %d times", calls)
	}
	if first.Name != "corolla" || second.Name != "corolla" {
		t.Errorf("unexpected values: %+v, %+v", first, second)
	}
}

func TestGetOrSet_DeleteForcesRefetch(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	calls := 0
	producer := func(context.Context) (string, error) {
		calls++
		return "value", nil
	}

	if _, err := GetOrSet(ctx, store, "key", time.Minute, producer); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Delete(ctx, "key"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := GetOrSet(ctx, store, "key", time.Minute, producer); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if calls != 2 {
		t.Errorf("expected producer to run again after delete, ran %d times", calls)
	}
}

func TestGetOrSet_ProducerErrorNotCached(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	boom := errors.New("repository down")
	calls := 0
	producer := func(context.Context) ([]string, error) {
		calls++
		if calls == 1 {
			return nil, boom
		}
		return []string{"a"}, nil
	}

	if _, err := GetOrSet(ctx, store, "key", time.Minute, producer); !errors.Is(err, boom) {
		t.Fatalf("expected producer error, got %v", err)
	}
	if store.Len() != 0 {
		t.Error("a failed fetch must not be memoized")
	}

	got, err := GetOrSet(ctx, store, "key", time.Minute, producer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0] != "a" {
		t.Errorf("unexpected value: %v", got)
	}
}

// failingStore simulates an unreachable backend.
type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("store unreachable")
}
func (failingStore) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("store unreachable")
}
func (failingStore) Delete(context.Context, string) error {
	return errors.New("store unreachable")
}
func (failingStore) DeletePattern(context.Context, string) error {
	return errors.New("store unreachable")
}

func TestGetOrSet_FailsOpenWhenStoreUnreachable(t *testing.T) {
	ctx := context.Background()

	calls := 0
	got, err := GetOrSet(ctx, failingStore{}, "key", time.Minute, func(context.Context) (int, error) {
		calls++
		return 42, nil
	})
	if err != nil {
		t.Fatalf("store failure must not surface to the caller, got %v", err)
	}
	if got != 42 {
		t.Errorf("expected producer result 42, got %d", got)
	}
	if calls != 1 {
		t.Errorf("expected producer to run once, ran %d times", calls)
	}
}

func TestMemoryStore_TTLExpiry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Set(ctx, "key", []byte("v"), 30*time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok, _ := store.Get(ctx, "key"); !ok {
		t.Fatal("expected hit before expiry")
	}

	time.Sleep(60 * time.Millisecond)

	if _, ok, _ := store.Get(ctx, "key"); ok {
		t.Error("expected miss after TTL elapsed")
	}
}

func TestGetOrSet_TTLExpiryTriggersProducerAgain(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	calls := 0
	producer := func(context.Context) (string, error) {
		calls++
		return "v", nil
	}

	if _, err := GetOrSet(ctx, store, "key", 30*time.Millisecond, producer); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	time.Sleep(60 * time.Millisecond)
	if _, err := GetOrSet(ctx, store, "key", 30*time.Millisecond, producer); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if calls != 2 {
		t.Errorf("expected refetch after expiry, producer ran %d times", calls)
	}
}

func TestMemoryStore_DeletePattern(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	keys := []string{
		ListingsPageKey(1, 10, "", ""),
		ListingsPageKey(2, 10, "sedan", "price_asc"),
		ListingKey("abc"),
		SlotKey("s1"),
	}
	for _, k := range keys {
		if err := store.Set(ctx, k, []byte("v"), time.Minute); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if err := store.DeletePattern(ctx, ListingsPattern); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, k := range keys[:2] {
		if _, ok, _ := store.Get(ctx, k); ok {
			t.Errorf("expected %s to be invalidated", k)
		}
	}
	for _, k := range keys[2:] {
		if _, ok, _ := store.Get(ctx, k); !ok {
			t.Errorf("expected %s to survive pattern invalidation", k)
		}
	}
}

func TestMemoryStore_DeleteAbsentKeyIsNoOp(t *testing.T) {
	store := NewMemoryStore()
	if err := store.Delete(context.Background(), "missing"); err != nil {
		t.Errorf("deleting an absent key must not error, got %v", err)
	}
}
