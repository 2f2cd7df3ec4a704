package dominos

import (
	"context"
	"errors"
	"net/url"
	"strings"

	contractx "github.com/marova/sliceline/ordering/contract"
)

// TrackOrder looks up active orders for a phone number, most recent first.
func (c *Client) TrackOrder(ctx context.Context, phone string, storeID string) ([]contractx.TrackedOrder, error) {
	number := digits(phone)
	if number == "" {
		return nil, errors.New("phone number is required")
	}

	query := url.Values{}
	query.Set("Phone", number)
	query.Set("lang", "en")
	if strings.TrimSpace(storeID) != "" {
		query.Set("StoreID", storeID)
	}

	var payload struct {
		OrderStatuses []map[string]any `json:"OrderStatuses"`
	}
	endpoint := c.trackBase + "/orderstorage/GetTrackerData?" + query.Encode()
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, err
	}

	orders := make([]contractx.TrackedOrder, 0, len(payload.OrderStatuses))
	for _, raw := range payload.OrderStatuses {
		orders = append(orders, contractx.TrackedOrder{
			OrderStatus:      anyToString(raw["OrderStatus"]),
			OrderDescription: anyToString(raw["OrderDescription"]),
			StoreID:          anyToString(raw["StoreID"]),
			OrderID:          anyToString(raw["OrderID"]),
			StartTime:        anyToString(raw["StartTime"]),
			DriverName:       anyToString(raw["DriverName"]),
			DriverPhone:      anyToString(raw["DriverPhone"]),
		})
	}
	return orders, nil
}
