package guard

import (
	"time"

	"github.com/shopspring/decimal"

	contractx "github.com/marova/sliceline/ordering/contract"
	pricingx "github.com/marova/sliceline/ordering/pricing"
)

// ConfirmationToken is the exact sentinel a caller must supply to place a
// real order. Deliberate friction: an agent cannot stumble into a charge.
const ConfirmationToken = "YES_PLACE_MY_ORDER"

// DryRunOrderID marks a simulated placement that never reached the vendor.
const DryRunOrderID = "DRY_RUN_NO_ORDER"

// UnknownOrderID is the final fallback when the vendor confirms an order
// but returns no usable identifier. Identifier absence never blocks success.
const UnknownOrderID = "UNKNOWN"

// minScheduleLead is the hold against unreliable scheduled fulfillment;
// it is our policy, not a vendor rule.
const minScheduleLead = 30 * time.Minute

// PlaceInput is the caller's placement request.
type PlaceInput struct {
	Confirm       string
	TipAmount     float64
	ScheduledTime string
}

// PlaceResult is the terminal outcome of one guard pipeline run.
type PlaceResult struct {
	contractx.Envelope
	OrderID      string  `json:"order_id,omitempty"`
	DryRun       bool    `json:"dry_run,omitempty"`
	TotalCharged float64 `json:"total_charged,omitempty"`
	Estimated    bool    `json:"estimated,omitempty"`
	ScheduledFor string  `json:"scheduled_for,omitempty"`
	Message      string  `json:"message,omitempty"`
}

// placeState flows through the gate nodes. Once result is set the run is
// decided and every later gate passes the state through untouched.
type placeState struct {
	in        PlaceInput
	now       time.Time
	attemptID string

	draft    *contractx.OrderDraft
	snapshot pricingx.Snapshot
	estimate pricingx.Breakdown

	// total is the figure the max-amount gate and the result report:
	// the vendor's Customer amount when pricing succeeded, the local
	// estimate otherwise.
	total         decimal.Decimal
	authoritative bool

	scheduledFor string
	itemSummary  []string

	result *PlaceResult
}

func (s *placeState) decided() bool {
	return s.result != nil
}
