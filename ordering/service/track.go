package service

import (
	"context"
	"fmt"

	contractx "github.com/marova/sliceline/ordering/contract"
)

type TrackOutcome struct {
	contractx.Envelope
	Orders  []contractx.TrackedOrder `json:"orders,omitempty"`
	Message string                   `json:"message,omitempty"`
}

// TrackOrder reports active orders for a phone number, defaulting to the
// profile's phone and the session's store. No active orders is a normal
// outcome, not a failure.
func (s *Service) TrackOrder(ctx context.Context, phone, storeID string) TrackOutcome {
	phone = fallback(phone, s.profile.Customer.Phone)
	if phone == "" {
		return TrackOutcome{Envelope: contractx.Fail(contractx.CodeNoPhone,
			"No phone number available. Pass one or set customer.phone in the order profile.")}
	}
	storeID = fallback(storeID, s.session.StoreID())

	orders, err := s.client.TrackOrder(ctx, phone, storeID)
	if err != nil {
		return TrackOutcome{Envelope: contractx.Fail(contractx.CodeTrackFailed, "Tracking failed: %v", err)}
	}

	if len(orders) == 0 {
		return TrackOutcome{
			Envelope: contractx.OK(),
			Message:  fmt.Sprintf("No active orders found for %s.", phone),
		}
	}
	return TrackOutcome{Envelope: contractx.OK(), Orders: orders}
}
