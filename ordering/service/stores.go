package service

import (
	"context"
	"fmt"
	"strings"

	catalogx "github.com/marova/sliceline/ordering/catalog"
	contractx "github.com/marova/sliceline/ordering/contract"
)

type StoreList struct {
	contractx.Envelope
	Stores        []contractx.StoreSummary `json:"stores,omitempty"`
	SelectedStore string                   `json:"selected_store,omitempty"`
	Message       string                   `json:"message,omitempty"`
}

type MenuView struct {
	contractx.Envelope
	StoreID    string         `json:"store_id,omitempty"`
	Categories *catalogx.Menu `json:"categories,omitempty"`
}

type SearchOutcome struct {
	contractx.Envelope
	Query       string                 `json:"query,omitempty"`
	Results     []catalogx.SearchResult `json:"results,omitempty"`
	ResultCount int                    `json:"result_count"`
}

// FindStores looks up nearby stores for the given address, falling back to
// the profile address field by field. The closest open store is bound to
// the session so the agent can start carting without an explicit select.
func (s *Service) FindStores(ctx context.Context, street, city, region, postal, serviceType string) StoreList {
	addr := contractx.Address{
		Street:     fallback(street, s.profile.Address.Street),
		Unit:       s.profile.Address.Unit,
		City:       fallback(city, s.profile.Address.City),
		Region:     fallback(region, s.profile.Address.Region),
		PostalCode: fallback(postal, s.profile.Address.PostalCode),
		Country:    s.profile.Address.Country,
	}
	serviceType = fallback(serviceType, s.profile.Preferences.OrderType)

	stores, err := s.client.FindStores(ctx, addr, serviceType)
	if err != nil {
		return StoreList{Envelope: contractx.Fail(contractx.CodeStoreLookupFailed, "Store lookup failed: %v", err)}
	}

	if len(stores) > maxStoreResults {
		stores = stores[:maxStoreResults]
	}

	out := StoreList{Envelope: contractx.OK(), Stores: stores}
	for _, store := range stores {
		if !store.IsOpen {
			continue
		}
		s.session.BindStore(ctx, store.StoreID, map[string]any{
			"address": store.Address,
			"phone":   store.Phone,
		})
		out.SelectedStore = store.StoreID
		out.Message = fmt.Sprintf("Selected store %s (%s). Call get_menu to browse.", store.StoreID, store.Address)
		break
	}
	if out.SelectedStore == "" {
		out.Message = "No open stores found for this address."
	}
	return out
}

// GetMenu returns the categorized menu, classifying and caching on first
// fetch. category filters the view; "All" or empty returns everything.
func (s *Service) GetMenu(ctx context.Context, storeID, category string) MenuView {
	storeID = fallback(storeID, s.session.StoreID())
	if storeID == "" {
		return MenuView{Envelope: contractx.Fail(contractx.CodeNoStore, "No store selected. Call find_stores first.")}
	}

	menu, ok := s.session.CachedMenu(storeID)
	if !ok {
		raw, err := s.client.GetMenu(ctx, storeID)
		if err != nil {
			return MenuView{Envelope: contractx.Fail(contractx.CodeMenuFetchFailed, "Menu fetch failed for store %s: %v", storeID, err)}
		}
		menu = catalogx.Classify(raw)
		s.session.CacheMenu(storeID, menu)
	}

	return MenuView{
		Envelope:   contractx.OK(),
		StoreID:    storeID,
		Categories: menu.Filter(category),
	}
}

// SearchMenu matches query against variant names and descriptions. It
// always fetches the raw catalog (search needs the untrimmed fields) and
// fills the classified cache opportunistically on the way.
func (s *Service) SearchMenu(ctx context.Context, query, storeID string) SearchOutcome {
	storeID = fallback(storeID, s.session.StoreID())
	if storeID == "" {
		return SearchOutcome{Envelope: contractx.Fail(contractx.CodeNoStore, "No store selected. Call find_stores first.")}
	}

	raw, err := s.client.GetMenu(ctx, storeID)
	if err != nil {
		return SearchOutcome{Envelope: contractx.Fail(contractx.CodeSearchFailed, "Menu search failed for store %s: %v", storeID, err)}
	}
	if _, ok := s.session.CachedMenu(storeID); !ok {
		s.session.CacheMenu(storeID, catalogx.Classify(raw))
	}

	results := catalogx.Search(raw, query, catalogx.DefaultSearchLimit)
	return SearchOutcome{
		Envelope:    contractx.OK(),
		Query:       strings.TrimSpace(query),
		Results:     results,
		ResultCount: len(results),
	}
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return value
}
