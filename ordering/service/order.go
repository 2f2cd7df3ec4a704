package service

import (
	"context"
	"strconv"

	contractx "github.com/marova/sliceline/ordering/contract"
	guardx "github.com/marova/sliceline/ordering/guard"
	pricingx "github.com/marova/sliceline/ordering/pricing"
)

// PricingBreakdown is the charge decomposition returned by price_order.
// Vendor-priced responses use the vendor's amounts and clear Estimated;
// the local estimate fills Subtotal/Tax/DeliveryFee and sets it.
type PricingBreakdown struct {
	Subtotal    float64 `json:"subtotal"`
	Discount    float64 `json:"discount"`
	Surcharge   float64 `json:"surcharge,omitempty"`
	Tax         float64 `json:"tax"`
	DeliveryFee float64 `json:"delivery_fee,omitempty"`
	Total       float64 `json:"total"`
	Estimated   bool    `json:"estimated"`
}

type PriceOutcome struct {
	contractx.Envelope
	StoreID              string           `json:"store_id,omitempty"`
	Pricing              PricingBreakdown `json:"pricing"`
	EstimatedWaitMinutes string           `json:"estimated_wait_minutes,omitempty"`
}

type ValidateOutcome struct {
	contractx.Envelope
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// PriceOrder prices the current cart. Base prices are snapshotted before
// the vendor round trip merges authoritative amounts into the draft; the
// vendor breakdown wins when present and the estimate is the fallback.
func (s *Service) PriceOrder(ctx context.Context) PriceOutcome {
	if s.session.StoreID() == "" {
		return PriceOutcome{Envelope: contractx.Fail(contractx.CodeNoStore, "No store selected. Call find_stores first.")}
	}
	if s.session.Len() == 0 {
		return PriceOutcome{Envelope: contractx.Fail(contractx.CodeEmptyCart, "Cart is empty. Add items first.")}
	}

	draft := guardx.BuildDraft(s.session, s.profile)
	snapshot := pricingx.TakeSnapshot(draft.Products)

	if err := s.client.PriceOrder(ctx, draft); err != nil {
		return PriceOutcome{Envelope: contractx.Fail(contractx.CodePriceFailed, "Pricing failed: %v", err)}
	}

	out := PriceOutcome{
		Envelope:             contractx.OK(),
		StoreID:              draft.StoreID,
		EstimatedWaitMinutes: draft.EstimatedWaitMinutes,
	}

	if total, ok := amountFloat(draft, "Customer"); ok && total > 0 {
		subtotal, _ := amountFloat(draft, "Menu")
		discount, _ := amountFloat(draft, "Discount")
		surcharge, _ := amountFloat(draft, "Surcharge")
		tax, _ := amountFloat(draft, "Tax")
		out.Pricing = PricingBreakdown{
			Subtotal:  subtotal,
			Discount:  discount,
			Surcharge: surcharge,
			Tax:       tax,
			Total:     total,
		}
		return out
	}

	view := pricingx.Estimate(snapshot, s.estimator).View()
	out.Pricing = PricingBreakdown{
		Subtotal:    view.Subtotal,
		Discount:    view.Discount,
		Tax:         view.Tax,
		DeliveryFee: view.DeliveryFee,
		Total:       view.Total,
		Estimated:   true,
	}
	return out
}

// ValidateOrder asks the vendor for a verdict on the current cart. A
// vendor-side validation failure is a verdict, not an operation failure:
// the result stays success=true with valid=false and the message listed.
func (s *Service) ValidateOrder(ctx context.Context) ValidateOutcome {
	if s.session.StoreID() == "" {
		return ValidateOutcome{Envelope: contractx.Fail(contractx.CodeNoStore, "No store selected. Call find_stores first.")}
	}
	if s.session.Len() == 0 {
		return ValidateOutcome{Envelope: contractx.Fail(contractx.CodeEmptyCart, "Cart is empty. Add items first.")}
	}

	draft := guardx.BuildDraft(s.session, s.profile)
	if err := s.client.ValidateOrder(ctx, draft); err != nil {
		return ValidateOutcome{
			Envelope: contractx.OK(),
			Valid:    false,
			Errors:   []string{err.Error()},
		}
	}

	var verdictErrors, warnings []string
	for _, item := range draft.StatusItems {
		if item.PulseCode == 1 {
			verdictErrors = append(verdictErrors, item.Code)
		} else {
			warnings = append(warnings, item.Code)
		}
	}

	return ValidateOutcome{
		Envelope: contractx.OK(),
		Valid:    draft.Status >= 0 && len(verdictErrors) == 0,
		Errors:   verdictErrors,
		Warnings: warnings,
	}
}

// PlaceOrder runs the guard pipeline end to end.
func (s *Service) PlaceOrder(ctx context.Context, in guardx.PlaceInput) guardx.PlaceResult {
	return s.pipeline.Place(ctx, in)
}

func amountFloat(draft *contractx.OrderDraft, key string) (float64, bool) {
	raw := draft.Amount(key)
	if raw == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
