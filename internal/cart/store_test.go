package cart

import (
	"context"
	"testing"
	"time"

	"github.com/deliverly/cart-service/pkg/redis"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	loaded, err := store.Load(ctx, "sess-1")
	if err != nil || loaded != nil {
		t.Fatalf("expected absent cart, got %v %v", loaded, err)
	}

	cart := &Cart{RestaurantID: "r-1", Items: []LineItem{{ProductID: "m-1", Quantity: 1, UnitPrice: 800, TotalPrice: 800}}}
	if err := store.Save(ctx, "sess-1", cart); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	// The store holds a copy, not the caller's pointer.
	cart.Items[0].Quantity = 99
	loaded, err = store.Load(ctx, "sess-1")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Items[0].Quantity != 1 {
		t.Fatalf("store aliased caller state: %+v", loaded)
	}

	if err := store.Delete(ctx, "sess-1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if loaded, _ := store.Load(ctx, "sess-1"); loaded != nil {
		t.Fatal("cart should be gone after delete")
	}
}

type fakeRedis struct {
	values map[string]string
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: map[string]string{}}
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.values[key] = value.(string)
	return nil
}

func (f *fakeRedis) Get(_ context.Context, key string) (string, error) {
	val, ok := f.values[key]
	if !ok {
		return "", redis.Nil
	}
	return val, nil
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func (f *fakeRedis) CartKey(sessionID string) string { return "dlv:cart:" + sessionID }

func TestRedisStoreRoundTrip(t *testing.T) {
	t.Parallel()

	client := newFakeRedis()
	store, err := NewRedisStore(client, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()

	if loaded, err := store.Load(ctx, "sess-1"); err != nil || loaded != nil {
		t.Fatalf("expected absent cart, got %v %v", loaded, err)
	}

	cart := &Cart{RestaurantID: "r-1", Subtotal: 800, GrandTotal: 1050, DeliveryFee: 250}
	if err := store.Save(ctx, "sess-1", cart); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := store.Load(ctx, "sess-1")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded == nil || loaded.GrandTotal != 1050 {
		t.Fatalf("cart not round-tripped: %+v", loaded)
	}

	if err := store.Delete(ctx, "sess-1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if loaded, _ := store.Load(ctx, "sess-1"); loaded != nil {
		t.Fatal("cart should be gone after delete")
	}
}

func TestRedisStoreCorruptBlobReadsAsAbsent(t *testing.T) {
	t.Parallel()

	client := newFakeRedis()
	client.values["dlv:cart:sess-1"] = "{not json"

	store, err := NewRedisStore(client, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, err := store.Load(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("corrupt blob must not error: %v", err)
	}
	if loaded != nil {
		t.Fatalf("corrupt blob must read as absent, got %+v", loaded)
	}
}

func TestRedisStoreSaveNilDeletes(t *testing.T) {
	t.Parallel()

	client := newFakeRedis()
	store, err := NewRedisStore(client, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()

	if err := store.Save(ctx, "sess-1", &Cart{RestaurantID: "r-1"}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := store.Save(ctx, "sess-1", nil); err != nil {
		t.Fatalf("nil save failed: %v", err)
	}
	if _, ok := client.values["dlv:cart:sess-1"]; ok {
		t.Fatal("nil save should delete the key")
	}
}
