package state

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	catalogx "github.com/marova/sliceline/ordering/catalog"
	contractx "github.com/marova/sliceline/ordering/contract"
)

var ErrInvalidIndex = contractx.ErrInvalidIndex

// CartItem is one pending line in the cart. Options follow the vendor's
// topping syntax, e.g. {"P": {"1/1": "1"}} for full-coverage pepperoni.
type CartItem struct {
	Code                string                       `json:"code"`
	Quantity            int                          `json:"quantity"`
	Options             map[string]map[string]string `json:"options,omitempty"`
	SpecialInstructions string                       `json:"special_instructions,omitempty"`
}

// Record is the durable session snapshot: only the store binding and the
// cart survive a restart. The menu cache is derivable and stays in memory.
type Record struct {
	StoreID string     `json:"store_id"`
	Cart    []CartItem `json:"cart"`
}

// Session is the process-wide ordering session. It is deliberately not
// concurrency-safe: callers serialize cart mutations, one guard pipeline
// run at a time.
type Session struct {
	store RecordStore

	storeID   string
	storeInfo map[string]any
	cart      []CartItem
	menuCache map[string]*catalogx.Menu
}

// NewSession restores prior state from the record store. Missing or corrupt
// records are treated as no prior state; restore never fails the caller.
func NewSession(ctx context.Context, store RecordStore) *Session {
	s := &Session{
		store:     store,
		storeInfo: map[string]any{},
		menuCache: map[string]*catalogx.Menu{},
	}

	if store == nil {
		return s
	}

	rec, err := store.Load(ctx)
	switch {
	case err == nil && rec != nil:
		s.storeID = rec.StoreID
		s.cart = append(s.cart, rec.Cart...)
	case errors.Is(err, ErrRecordNotFound):
		// First run.
	case err != nil:
		log.Warn().Err(err).Msg("session restore failed, starting empty")
	}
	return s
}

// save persists the durable snapshot. Persistence is best-effort: the cart
// keeps working in memory when the backing store is broken.
func (s *Session) save(ctx context.Context) {
	if s.store == nil {
		return
	}
	rec := &Record{StoreID: s.storeID, Cart: append([]CartItem(nil), s.cart...)}
	if err := s.store.Save(ctx, rec); err != nil {
		log.Warn().Err(err).Msg("session save failed, continuing in memory")
	}
}

// AddItem appends the item and returns its zero-based cart index.
func (s *Session) AddItem(ctx context.Context, item CartItem) int {
	s.cart = append(s.cart, item)
	s.save(ctx)
	return len(s.cart) - 1
}

// RemoveItem removes by index. Indices of later items shift down by one, so
// callers must not cache indices across removals.
func (s *Session) RemoveItem(ctx context.Context, index int) (CartItem, error) {
	if index < 0 || index >= len(s.cart) {
		return CartItem{}, ErrInvalidIndex
	}
	removed := s.cart[index]
	s.cart = append(s.cart[:index], s.cart[index+1:]...)
	s.save(ctx)
	return removed, nil
}

// Clear empties the cart and unbinds the store. The menu cache is keyed by
// store id and stays valid across clears.
func (s *Session) Clear(ctx context.Context) {
	s.cart = nil
	s.storeID = ""
	s.storeInfo = map[string]any{}
	s.save(ctx)
}

func (s *Session) Cart() []CartItem {
	return append([]CartItem(nil), s.cart...)
}

func (s *Session) Len() int {
	return len(s.cart)
}

func (s *Session) StoreID() string {
	return s.storeID
}

func (s *Session) StoreInfo() map[string]any {
	return s.storeInfo
}

// BindStore selects the store future cart operations target.
func (s *Session) BindStore(ctx context.Context, storeID string, info map[string]any) {
	s.storeID = storeID
	if info != nil {
		s.storeInfo = info
	}
	s.save(ctx)
}

// CachedMenu returns the memoized categorized menu for a store, if present.
// Cache entries live until process restart; there is no invalidation path.
func (s *Session) CachedMenu(storeID string) (*catalogx.Menu, bool) {
	m, ok := s.menuCache[storeID]
	return m, ok
}

func (s *Session) CacheMenu(storeID string, menu *catalogx.Menu) {
	if menu == nil {
		return
	}
	s.menuCache[storeID] = menu
}
