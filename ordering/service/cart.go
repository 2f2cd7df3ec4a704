package service

import (
	"context"
	"errors"
	"fmt"

	contractx "github.com/marova/sliceline/ordering/contract"
	statex "github.com/marova/sliceline/ordering/state"
)

const (
	minItemQuantity = 1
	maxItemQuantity = 10
)

type CartLine struct {
	CartIndex int `json:"cart_index"`
	statex.CartItem
}

type CartView struct {
	contractx.Envelope
	StoreID   string     `json:"store_id,omitempty"`
	Items     []CartLine `json:"items"`
	ItemCount int        `json:"item_count"`
}

type AddOutcome struct {
	contractx.Envelope
	CartIndex      int    `json:"cart_index"`
	Code           string `json:"code,omitempty"`
	Quantity       int    `json:"quantity,omitempty"`
	CartTotalItems int    `json:"cart_total_items"`
	Message        string `json:"message,omitempty"`
}

type RemoveOutcome struct {
	contractx.Envelope
	Removed        *statex.CartItem `json:"removed,omitempty"`
	CartTotalItems int              `json:"cart_total_items"`
}

type ClearOutcome struct {
	contractx.Envelope
	Message string `json:"message,omitempty"`
}

// GetCart returns the indexed cart view. Indices are the handles
// remove_from_cart accepts; they shift after every removal.
func (s *Service) GetCart(ctx context.Context) CartView {
	items := s.session.Cart()
	lines := make([]CartLine, 0, len(items))
	for i, item := range items {
		lines = append(lines, CartLine{CartIndex: i, CartItem: item})
	}
	return CartView{
		Envelope:  contractx.OK(),
		StoreID:   s.session.StoreID(),
		Items:     lines,
		ItemCount: len(lines),
	}
}

// AddToCart appends one line. A store must be bound first; when none is,
// the profile's preferred_store_id is adopted before rejecting.
func (s *Service) AddToCart(ctx context.Context, code string, quantity int, options map[string]map[string]string, instructions string) AddOutcome {
	if s.session.StoreID() == "" {
		if preferred := s.profile.Preferences.PreferredStoreID; preferred != "" {
			s.session.BindStore(ctx, preferred, nil)
		} else {
			return AddOutcome{Envelope: contractx.Fail(contractx.CodeNoStore, "No store selected. Call find_stores first.")}
		}
	}

	if quantity < minItemQuantity || quantity > maxItemQuantity {
		return AddOutcome{Envelope: contractx.Fail(contractx.CodeInvalidQuantity,
			"Quantity must be between %d and %d, got %d.", minItemQuantity, maxItemQuantity, quantity)}
	}

	index := s.session.AddItem(ctx, statex.CartItem{
		Code:                code,
		Quantity:            quantity,
		Options:             options,
		SpecialInstructions: instructions,
	})

	return AddOutcome{
		Envelope:       contractx.OK(),
		CartIndex:      index,
		Code:           code,
		Quantity:       quantity,
		CartTotalItems: s.session.Len(),
		Message:        fmt.Sprintf("Added %dx %s at cart index %d. Call price_order to see the total.", quantity, code, index),
	}
}

// RemoveFromCart removes by index. Later items renumber down by one.
func (s *Service) RemoveFromCart(ctx context.Context, index int) RemoveOutcome {
	removed, err := s.session.RemoveItem(ctx, index)
	if err != nil {
		if errors.Is(err, contractx.ErrInvalidIndex) {
			return RemoveOutcome{Envelope: contractx.Fail(contractx.CodeInvalidIndex,
				"Invalid cart index %d. Cart has %d items.", index, s.session.Len())}
		}
		return RemoveOutcome{Envelope: contractx.Fail(contractx.CodeInvalidIndex, "Remove failed: %v", err)}
	}
	return RemoveOutcome{
		Envelope:       contractx.OK(),
		Removed:        &removed,
		CartTotalItems: s.session.Len(),
	}
}

// ClearCart empties the cart and unbinds the store.
func (s *Service) ClearCart(ctx context.Context) ClearOutcome {
	s.session.Clear(ctx)
	return ClearOutcome{
		Envelope: contractx.OK(),
		Message:  "Cart cleared and store unselected.",
	}
}
