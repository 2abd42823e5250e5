package memory_test

import (
	"context"
	"testing"

	"github.com/parisxmas/partnerhub/internal/blob/memory"
)

func TestSetGetDelete(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	if err := store.Set(ctx, "partners/p1", []byte(`{"id":"p1"}`)); err != nil {
		t.Fatalf("set: %v", err)
	}

	data, found, err := store.Get(ctx, "partners/p1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !found {
		t.Fatal("expected key to exist")
	}
	if string(data) != `{"id":"p1"}` {
		t.Fatalf("unexpected value %s", data)
	}

	_, found, err = store.Get(ctx, "partners/missing")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if found {
		t.Fatal("missing key reported as found")
	}

	if err := store.Delete(ctx, "partners/p1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete(ctx, "partners/p1"); err != nil {
		t.Fatalf("repeat delete: %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty store, got %d entries", store.Len())
	}
}

func TestListPrefix(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	store.Set(ctx, "partners/a", []byte("1"))
	store.Set(ctx, "partners/b", []byte("2"))
	store.Set(ctx, "submissions/a", []byte("3"))

	entries, err := store.List(ctx, "partners/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Key != "partners/a" || entries[1].Key != "partners/b" {
		t.Fatalf("unexpected keys %v", entries)
	}
}

func TestValuesAreCopied(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	original := []byte("abc")
	store.Set(ctx, "k", original)
	original[0] = 'X'

	data, _, _ := store.Get(ctx, "k")
	if string(data) != "abc" {
		t.Fatalf("stored value aliased caller buffer: %s", data)
	}
	data[0] = 'Y'

	again, _, _ := store.Get(ctx, "k")
	if string(again) != "abc" {
		t.Fatalf("returned value aliased stored buffer: %s", again)
	}
}
