package dominos

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	contractx "github.com/marova/sliceline/ordering/contract"
)

// FindStores queries the store locator around the given address, nearest
// first as the vendor returns them.
func (c *Client) FindStores(ctx context.Context, addr contractx.Address, serviceType string) ([]contractx.StoreSummary, error) {
	if strings.TrimSpace(serviceType) == "" {
		serviceType = "Delivery"
	}

	query := url.Values{}
	query.Set("s", addr.Street)
	query.Set("c", fmt.Sprintf("%s, %s %s", addr.City, addr.Region, addr.PostalCode))
	query.Set("type", serviceType)

	var payload struct {
		Stores []map[string]any `json:"Stores"`
	}
	endpoint := c.orderBase + "/power/store-locator?" + query.Encode()
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, err
	}

	stores := make([]contractx.StoreSummary, 0, len(payload.Stores))
	for _, raw := range payload.Stores {
		stores = append(stores, storeSummary(raw))
	}
	return stores, nil
}

func storeSummary(raw map[string]any) contractx.StoreSummary {
	summary := contractx.StoreSummary{
		StoreID: anyToString(raw["StoreID"]),
		Address: strings.TrimSpace(anyToString(raw["AddressDescription"])),
		Phone:   anyToString(raw["Phone"]),
		IsOpen:  anyToBool(raw["IsOnlineNow"]) && anyToBool(raw["AllowDeliveryOrders"]),
	}
	if raw["MinimumDeliveryOrderAmount"] != nil {
		summary.MinimumDeliveryOrderAmount = anyToString(raw["MinimumDeliveryOrderAmount"])
	}
	if waits, ok := raw["ServiceMethodEstimatedWaitMinutes"].(map[string]any); ok {
		if delivery, ok := waits["Delivery"].(map[string]any); ok {
			summary.DeliveryMinutesMin = anyToInt(delivery["Min"])
			summary.DeliveryMinutesMax = anyToInt(delivery["Max"])
		}
	}
	return summary
}

// GetMenu fetches the store's raw catalog. The full document is kept in
// Raw so the classifier can fall back when the structured shape is absent.
func (c *Client) GetMenu(ctx context.Context, storeID string) (*contractx.RawMenu, error) {
	if strings.TrimSpace(storeID) == "" {
		return nil, errEmptyStoreID
	}

	var raw map[string]any
	endpoint := fmt.Sprintf("%s/power/store/%s/menu?lang=en&structured=true", c.orderBase, url.PathEscape(storeID))
	if err := c.getJSON(ctx, endpoint, &raw); err != nil {
		return nil, err
	}

	menu := &contractx.RawMenu{Raw: raw}
	if variants, ok := raw["Variants"].(map[string]any); ok {
		menu.Variants = variants
	}
	if coupons, ok := raw["Coupons"].(map[string]any); ok {
		menu.Coupons = coupons
	}
	return menu, nil
}

func anyToString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

func anyToBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func anyToInt(v any) int {
	switch t := v.(type) {
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			return 0
		}
		return int(n)
	case float64:
		return int(t)
	case int:
		return t
	default:
		return 0
	}
}
