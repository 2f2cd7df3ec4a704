package dominos

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	contractx "github.com/marova/sliceline/ordering/contract"
)

// ValidateOrder runs the vendor's validate pass and merges pricing/status
// fields back into the draft. A negative vendor status is not an error
// here; validation is advisory and the caller inspects the merged verdict.
func (c *Client) ValidateOrder(ctx context.Context, draft *contractx.OrderDraft) error {
	return c.roundTrip(ctx, "/power/validate-order", draft, nil)
}

// PriceOrder prices the draft, merging authoritative amounts into it.
func (c *Client) PriceOrder(ctx context.Context, draft *contractx.OrderDraft) error {
	return c.roundTrip(ctx, "/power/price-order", draft, nil)
}

// PlaceOrder submits the draft for real. Unlike validate/price, a vendor
// payload reporting failure is a hard error even on HTTP 200: a placement
// that the store will not cook must never look like success.
func (c *Client) PlaceOrder(ctx context.Context, draft *contractx.OrderDraft, pay contractx.Payment) error {
	payments, err := c.paymentEntries(draft, pay)
	if err != nil {
		return err
	}
	if err := c.roundTrip(ctx, "/power/place-order", draft, payments); err != nil {
		return err
	}
	if draft.Status < 0 {
		return fmt.Errorf("%w: status=%d codes=%s",
			contractx.ErrSubmitRejected, draft.Status, statusCodes(draft.StatusItems))
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, path string, draft *contractx.OrderDraft, payments []map[string]any) error {
	if draft == nil {
		return errors.New("nil order draft")
	}
	if strings.TrimSpace(draft.StoreID) == "" {
		return errEmptyStoreID
	}

	var resp struct {
		Order  map[string]any `json:"Order"`
		Status any            `json:"Status"`
	}
	if err := c.postJSON(ctx, c.orderBase+path, c.orderPayload(draft, payments), &resp); err != nil {
		return err
	}

	mergeResponse(draft, resp.Order, resp.Status)
	return nil
}

func (c *Client) orderPayload(draft *contractx.OrderDraft, payments []map[string]any) map[string]any {
	products := make([]map[string]any, 0, len(draft.Products))
	for i, p := range draft.Products {
		entry := map[string]any{
			"Code":  p.Code,
			"Qty":   p.Qty,
			"ID":    i + 1,
			"isNew": true,
		}
		if len(p.Options) > 0 {
			entry["Options"] = p.Options
		}
		products = append(products, entry)
	}

	order := map[string]any{
		"Address": map[string]any{
			"Street":       draft.Address.Street,
			"UnitNumber":   draft.Address.Unit,
			"City":         draft.Address.City,
			"Region":       draft.Address.Region,
			"PostalCode":   draft.Address.PostalCode,
			"Type":         "House",
			"Instructions": draft.Address.DeliveryInstructions,
		},
		"Coupons":               []any{},
		"CustomerID":            "",
		"Email":                 draft.Customer.Email,
		"FirstName":             draft.Customer.FirstName,
		"LastName":              draft.Customer.LastName,
		"Phone":                 draft.Customer.Phone,
		"Products":              products,
		"ServiceMethod":         draft.ServiceMethod,
		"SourceOrganizationURI": strings.TrimPrefix(c.orderBase, "https://"),
		"StoreID":               draft.StoreID,
		"Tags":                  map[string]any{},
		"Version":               "1.0",
		"NoCombine":             true,
		"LanguageCode":          "en",
	}
	if draft.FutureOrderTime != "" {
		order["FutureOrderTime"] = draft.FutureOrderTime
	}
	if tip := draft.Amount("Tip"); tip != "" {
		order["Amounts"] = map[string]any{"Tip": tip}
	}
	if len(payments) > 0 {
		order["Payments"] = payments
	}

	return map[string]any{"Order": order}
}

func mergeResponse(draft *contractx.OrderDraft, order map[string]any, topStatus any) {
	draft.Status = anyToInt(topStatus)
	if order == nil {
		return
	}
	if status, ok := order["Status"]; ok {
		draft.Status = anyToInt(status)
	}

	if amounts, ok := order["Amounts"].(map[string]any); ok {
		merged := make(map[string]string, len(amounts))
		for k, v := range amounts {
			merged[k] = anyToString(v)
		}
		// Keep a tip the caller folded in if the vendor echoed nothing.
		if tip := draft.Amount("Tip"); tip != "" && merged["Tip"] == "" {
			merged["Tip"] = tip
		}
		draft.Amounts = merged
	}

	if items, ok := order["StatusItems"].([]any); ok {
		draft.StatusItems = draft.StatusItems[:0]
		for _, it := range items {
			fields, ok := it.(map[string]any)
			if !ok {
				continue
			}
			draft.StatusItems = append(draft.StatusItems, contractx.StatusItem{
				Code:      anyToString(fields["Code"]),
				PulseCode: anyToInt(fields["PulseCode"]),
			})
		}
	}

	if id := anyToString(order["OrderID"]); id != "" {
		draft.OrderID = id
	}
	if guid := anyToString(order["PulseOrderGuid"]); guid != "" {
		draft.PulseOrderGUID = guid
	}
	if wait := anyToString(order["EstimatedWaitMinutes"]); wait != "" {
		draft.EstimatedWaitMinutes = wait
	}

	// The vendor echoes products with authoritative line prices.
	if products, ok := order["Products"].([]any); ok {
		for i, p := range products {
			if i >= len(draft.Products) {
				break
			}
			fields, ok := p.(map[string]any)
			if !ok {
				continue
			}
			if price := anyToString(fields["Price"]); price != "" {
				draft.Products[i].Price = price
			}
		}
	}
}

func (c *Client) paymentEntries(draft *contractx.OrderDraft, pay contractx.Payment) ([]map[string]any, error) {
	amount := 0.0
	if raw := draft.Amount("Customer"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("parse customer amount %q: %w", raw, err)
		}
		amount = parsed
	}

	if pay.PayAtDoor {
		if !c.market.payAtDoorSupported() {
			return nil, fmt.Errorf("pay-at-door is not supported in market %s", c.market)
		}
		return []map[string]any{{
			"Type":   "Cash",
			"Amount": amount,
		}}, nil
	}

	number := digits(pay.CardNumber)
	if number == "" {
		return nil, errors.New("card number is required when pay-at-door is disabled")
	}

	return []map[string]any{{
		"Type":         "CreditCard",
		"Amount":       amount,
		"Number":       number,
		"CardType":     cardType(number),
		"Expiration":   digits(pay.Expiration),
		"SecurityCode": pay.CVV,
		"PostalCode":   pay.BillingPostalCode,
	}}, nil
}

func cardType(number string) string {
	switch {
	case strings.HasPrefix(number, "4"):
		return "VISA"
	case strings.HasPrefix(number, "5"), strings.HasPrefix(number, "2"):
		return "MASTERCARD"
	case strings.HasPrefix(number, "34"), strings.HasPrefix(number, "37"):
		return "AMEX"
	default:
		return ""
	}
}

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func statusCodes(items []contractx.StatusItem) string {
	if len(items) == 0 {
		return "none"
	}
	codes := make([]string, 0, len(items))
	for _, it := range items {
		codes = append(codes, it.Code)
	}
	return strings.Join(codes, ",")
}
