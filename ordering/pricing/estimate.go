package pricing

import (
	"github.com/shopspring/decimal"

	contractx "github.com/marova/sliceline/ordering/contract"
)

// Config holds the deployment's pricing policy. These are estimate inputs,
// not vendor-derived values.
type Config struct {
	TaxRate     float64 `envconfig:"TAX_RATE" split_words:"true" default:"0.15"`
	DeliveryFee float64 `envconfig:"DELIVERY_FEE" split_words:"true" default:"4.99"`
}

// Line is one snapshotted cart line: the zero-toppings base unit price and
// the quantity, frozen before any vendor round trip.
type Line struct {
	Code      string
	UnitPrice decimal.Decimal
	Quantity  int
}

// Snapshot is the frozen pricing view of an order draft.
//
// Ordering constraint: take the snapshot BEFORE calling the vendor's
// validate/price endpoint. That call merges authoritative fields into the
// same product slice, and a snapshot taken afterwards would read the
// vendor's values (or zeros) instead of the base prices.
type Snapshot []Line

// TakeSnapshot copies base prices out of the draft's products. Lines with
// a missing or unparsable price snapshot to zero; the estimate degrades
// instead of failing.
func TakeSnapshot(products []contractx.Product) Snapshot {
	snap := make(Snapshot, 0, len(products))
	for _, p := range products {
		unit := decimal.Zero
		if p.Price != "" {
			if parsed, err := decimal.NewFromString(p.Price); err == nil {
				unit = parsed
			}
		}
		snap = append(snap, Line{Code: p.Code, UnitPrice: unit, Quantity: p.Qty})
	}
	return snap
}

// Breakdown is the estimated charge decomposition. Discount is always zero:
// the estimator does not model vendor-side discounts.
type Breakdown struct {
	Subtotal    decimal.Decimal
	Tax         decimal.Decimal
	DeliveryFee decimal.Decimal
	Discount    decimal.Decimal
	Total       decimal.Decimal
}

// Estimate computes the best-effort breakdown from a snapshot. Everything
// is rounded to 2 decimal places; tax is round(subtotal*rate, 2) and total
// is round(subtotal+tax+fee, 2).
func Estimate(snap Snapshot, cfg Config) Breakdown {
	subtotal := decimal.Zero
	for _, line := range snap {
		qty := decimal.NewFromInt(int64(line.Quantity))
		subtotal = subtotal.Add(line.UnitPrice.Mul(qty))
	}
	subtotal = subtotal.Round(2)

	tax := subtotal.Mul(decimal.NewFromFloat(cfg.TaxRate)).Round(2)
	fee := decimal.NewFromFloat(cfg.DeliveryFee).Round(2)
	total := subtotal.Add(tax).Add(fee).Round(2)

	return Breakdown{
		Subtotal:    subtotal,
		Tax:         tax,
		DeliveryFee: fee,
		Discount:    decimal.Zero,
		Total:       total,
	}
}

// View is the JSON shape handed back to agents. Estimated is always true
// here: only the vendor response carries authoritative amounts, and this
// label must survive into anything that embeds the breakdown.
type View struct {
	Subtotal    float64 `json:"subtotal"`
	Tax         float64 `json:"tax"`
	DeliveryFee float64 `json:"delivery_fee"`
	Discount    float64 `json:"discount"`
	Total       float64 `json:"total"`
	Estimated   bool    `json:"estimated"`
}

func (b Breakdown) View() View {
	return View{
		Subtotal:    b.Subtotal.InexactFloat64(),
		Tax:         b.Tax.InexactFloat64(),
		DeliveryFee: b.DeliveryFee.InexactFloat64(),
		Discount:    b.Discount.InexactFloat64(),
		Total:       b.Total.InexactFloat64(),
		Estimated:   true,
	}
}
