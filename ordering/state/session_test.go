package state

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	catalogx "github.com/marova/sliceline/ordering/catalog"
)

type failingStore struct{}

func (failingStore) Load(context.Context) (*Record, error) {
	return nil, errors.New("backend down")
}

func (failingStore) Save(context.Context, *Record) error {
	return errors.New("backend down")
}

func TestFileStoreRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, err := NewFileStore(FileStoreConfig{Path: filepath.Join(t.TempDir(), "session.json")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first := NewSession(ctx, store)
	first.BindStore(ctx, "10382", map[string]any{"address": "123 Main St"})
	first.AddItem(ctx, CartItem{Code: "14SCREEN", Quantity: 2})
	first.AddItem(ctx, CartItem{Code: "W08PBBQW", Quantity: 1})

	second := NewSession(ctx, store)
	if second.StoreID() != "10382" {
		t.Fatalf("unexpected restored store: %q", second.StoreID())
	}
	if second.Len() != 2 {
		t.Fatalf("expected 2 restored items, got %d", second.Len())
	}
	if second.Cart()[0].Code != "14SCREEN" {
		t.Fatalf("unexpected first item: %s", second.Cart()[0].Code)
	}
}

func TestFileStoreMissingRecord(t *testing.T) {
	t.Parallel()

	store, err := NewFileStore(FileStoreConfig{Path: filepath.Join(t.TempDir(), "absent.json")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := store.Load(context.Background()); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestAddItemReturnsIndex(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewSession(ctx, nil)
	if idx := s.AddItem(ctx, CartItem{Code: "14SCREEN", Quantity: 1}); idx != 0 {
		t.Fatalf("expected index 0, got %d", idx)
	}
	if idx := s.AddItem(ctx, CartItem{Code: "2LCOKE", Quantity: 1}); idx != 1 {
		t.Fatalf("expected index 1, got %d", idx)
	}
}

func TestRemoveItemShiftsIndices(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewSession(ctx, nil)
	s.AddItem(ctx, CartItem{Code: "A", Quantity: 1})
	s.AddItem(ctx, CartItem{Code: "B", Quantity: 1})
	s.AddItem(ctx, CartItem{Code: "C", Quantity: 1})

	removed, err := s.RemoveItem(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed.Code != "B" {
		t.Fatalf("unexpected removed item: %s", removed.Code)
	}
	if cart := s.Cart(); cart[1].Code != "C" {
		t.Fatalf("expected C at index 1, got %s", cart[1].Code)
	}
}

func TestRemoveItemInvalidIndex(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewSession(ctx, nil)
	s.AddItem(ctx, CartItem{Code: "A", Quantity: 1})

	for _, index := range []int{-1, 1, 99} {
		if _, err := s.RemoveItem(ctx, index); !errors.Is(err, ErrInvalidIndex) {
			t.Fatalf("index %d: expected ErrInvalidIndex, got %v", index, err)
		}
	}
	if s.Len() != 1 {
		t.Fatalf("cart must be untouched, got %d items", s.Len())
	}
}

func TestClearKeepsMenuCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewSession(ctx, nil)
	s.BindStore(ctx, "10382", nil)
	s.AddItem(ctx, CartItem{Code: "14SCREEN", Quantity: 1})

	menu := catalogx.NewMenu()
	menu.Add("Pizza", catalogx.Item{Code: "14SCREEN", Name: "Large Hand Tossed"})
	s.CacheMenu("10382", menu)

	s.Clear(ctx)

	if s.StoreID() != "" {
		t.Fatalf("store must be unbound, got %q", s.StoreID())
	}
	if s.Len() != 0 {
		t.Fatalf("cart must be empty, got %d", s.Len())
	}
	if _, ok := s.CachedMenu("10382"); !ok {
		t.Fatal("menu cache must survive a clear")
	}
}

func TestSessionSurvivesBrokenStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewSession(ctx, failingStore{})

	if idx := s.AddItem(ctx, CartItem{Code: "14SCREEN", Quantity: 2}); idx != 0 {
		t.Fatalf("expected index 0, got %d", idx)
	}
	if s.Len() != 1 {
		t.Fatalf("cart must keep working in memory, got %d items", s.Len())
	}
}
