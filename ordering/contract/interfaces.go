package contract

import "context"

// VendorOrderingClient is the capability surface of the external ordering
// API. Implementations own transport, timeouts and market selection; callers
// own cart state and the guard pipeline. Submit must never be retried.
type VendorOrderingClient interface {
	FindStores(ctx context.Context, addr Address, serviceType string) ([]StoreSummary, error)
	GetMenu(ctx context.Context, storeID string) (*RawMenu, error)

	// ValidateOrder sends the draft for validation and merges the vendor's
	// pricing/status fields back into it.
	ValidateOrder(ctx context.Context, draft *OrderDraft) error

	// PriceOrder prices the draft, merging amounts back into it.
	PriceOrder(ctx context.Context, draft *OrderDraft) error

	// PlaceOrder submits the draft with payment. A nil error means the
	// vendor accepted the order; implementations must turn a failure-status
	// payload into an error even when transport succeeded.
	PlaceOrder(ctx context.Context, draft *OrderDraft, pay Payment) error

	TrackOrder(ctx context.Context, phone string, storeID string) ([]TrackedOrder, error)
}
