package redis

import (
	"context"
	"testing"
)

func TestBindingStoreRoundTrip(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewBindingStore(client)
	ctx := context.Background()

	if err := store.Save(ctx, "acc-1", "w-1"); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := store.Save(ctx, "acc-2", "w-2"); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := store.Save(ctx, "acc-1", "w-3"); err != nil {
		t.Fatalf("rebind failed: %v", err)
	}
	if err := store.Delete(ctx, "acc-2"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	all, err := store.All(ctx)
	if err != nil {
		t.Fatalf("all failed: %v", err)
	}
	if len(all) != 1 || all["acc-1"] != "w-3" {
		t.Fatalf("unexpected bindings: %#v", all)
	}
}

func TestBindingStoreEmpty(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	all, err := NewBindingStore(client).All(context.Background())
	if err != nil {
		t.Fatalf("all failed: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("expected no bindings, got %#v", all)
	}
}
