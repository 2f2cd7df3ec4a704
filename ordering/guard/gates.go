package guard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	auditx "github.com/marova/sliceline/ordering/audit"
	contractx "github.com/marova/sliceline/ordering/contract"
	pricingx "github.com/marova/sliceline/ordering/pricing"
	statex "github.com/marova/sliceline/ordering/state"
	configx "github.com/marova/sliceline/pkg/config"
)

// scheduleLayouts are the accepted scheduled_time formats: ISO 8601 with
// and without offset, plus the vendor's own space-separated form.
var scheduleLayouts = []string{
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

func (p *Pipeline) begin(in PlaceInput) *placeState {
	return &placeState{
		in:        in,
		now:       p.now(),
		attemptID: uuid.NewString(),
	}
}

// abort records the rejection and turns the state terminal. Gates that run
// after an abort pass the state through untouched.
func (p *Pipeline) abort(ctx context.Context, st *placeState, code string, errMsg string, extra ...auditx.Field) {
	fields := append([]auditx.Field{{Key: "reason", Value: code}}, extra...)
	fields = append(fields, auditx.Field{Key: "attempt", Value: st.attemptID})
	p.trail.Write(ctx, auditx.Record{
		Timestamp: st.now,
		Outcome:   auditx.OutcomeAborted,
		Fields:    fields,
	})
	st.result = &PlaceResult{Envelope: contractx.Fail(code, "%s", errMsg)}
}

func (p *Pipeline) gateConfirmation(ctx context.Context, st *placeState) *placeState {
	if st.decided() {
		return st
	}
	if st.in.Confirm != ConfirmationToken {
		p.abort(ctx, st, contractx.CodeNotConfirmed,
			fmt.Sprintf("Order not confirmed. Pass confirm_order=%q to proceed.", ConfirmationToken))
	}
	return st
}

func (p *Pipeline) gateStoreSelected(ctx context.Context, st *placeState) *placeState {
	if st.decided() {
		return st
	}
	if p.session.StoreID() == "" {
		p.abort(ctx, st, contractx.CodeNoStore, "No store selected. Call find_stores first.")
	}
	return st
}

func (p *Pipeline) gateCartNonEmpty(ctx context.Context, st *placeState) *placeState {
	if st.decided() {
		return st
	}
	if p.session.Len() == 0 {
		p.abort(ctx, st, contractx.CodeEmptyCart, "Cart is empty. Add items first.")
	}
	return st
}

// gateSchedule applies only when a scheduled time was supplied. The
// 30-minute lead is evaluated against now-at-gate-time, not order build
// time.
func (p *Pipeline) gateSchedule(ctx context.Context, st *placeState) *placeState {
	if st.decided() || st.in.ScheduledTime == "" {
		return st
	}

	var when time.Time
	parsed := false
	for _, layout := range scheduleLayouts {
		if t, err := time.ParseInLocation(layout, st.in.ScheduledTime, time.Local); err == nil {
			when, parsed = t, true
			break
		}
	}
	if !parsed {
		p.abort(ctx, st, contractx.CodeInvalidTime,
			fmt.Sprintf("Invalid scheduled_time format: %s. Use ISO 8601 (e.g. 2026-02-27T18:30:00).", st.in.ScheduledTime),
			auditx.Field{Key: "time", Value: st.in.ScheduledTime})
		return st
	}

	if when.Before(st.now.Add(minScheduleLead)) {
		p.abort(ctx, st, contractx.CodeScheduledTooSoon,
			"Scheduled time must be at least 30 minutes in the future.",
			auditx.Field{Key: "time", Value: st.in.ScheduledTime})
		return st
	}

	st.scheduledFor = when.Format("2006-01-02 15:04:05")
	return st
}

// BuildDraft assembles the vendor order representation from the session
// cart and the order profile. Line prices carry the cached zero-toppings
// base price when the menu has been fetched; unknown codes price to "".
func BuildDraft(session *statex.Session, profile *configx.OrderProfile) *contractx.OrderDraft {
	items := session.Cart()
	menu, _ := session.CachedMenu(session.StoreID())

	products := make([]contractx.Product, 0, len(items))
	for _, item := range items {
		price := ""
		if menu != nil {
			if entry, ok := menu.Lookup(item.Code); ok {
				price = entry.Price
			}
		}
		products = append(products, contractx.Product{
			Code:    item.Code,
			Qty:     item.Quantity,
			Options: item.Options,
			Price:   price,
		})
	}

	return &contractx.OrderDraft{
		StoreID:       session.StoreID(),
		ServiceMethod: profile.Preferences.OrderType,
		Address:       profile.Address,
		Customer:      profile.Customer,
		Products:      products,
	}
}

// priceStep builds the draft, snapshots base prices, then lets the vendor
// merge authoritative amounts into the same draft. The snapshot MUST come
// before the vendor call: the round trip overwrites line pricing in place.
func (p *Pipeline) priceStep(ctx context.Context, st *placeState) (*placeState, error) {
	if st.decided() {
		return st, nil
	}

	st.draft = BuildDraft(p.session, p.profile)
	st.draft.FutureOrderTime = st.scheduledFor
	st.snapshot = pricingx.TakeSnapshot(st.draft.Products)

	tip := decimal.NewFromFloat(st.in.TipAmount)
	if tip.IsPositive() {
		st.draft.Amounts = map[string]string{"Tip": tip.StringFixed(2)}
	}

	if err := p.client.PriceOrder(ctx, st.draft); err != nil {
		return st, fmt.Errorf("price order: %w", err)
	}

	st.estimate = pricingx.Estimate(st.snapshot, p.estimator)

	if raw := st.draft.Amount("Customer"); raw != "" {
		if total, err := decimal.NewFromString(raw); err == nil && total.IsPositive() {
			st.total = total
			st.authoritative = true
		}
	}
	if !st.authoritative {
		// Estimate path: the vendor did not price the draft, so the tip
		// is folded in locally. Negative or zero tips are not added.
		st.total = st.estimate.Total
		if tip.IsPositive() {
			st.total = st.total.Add(tip)
		}
	}

	for _, item := range p.session.Cart() {
		st.itemSummary = append(st.itemSummary, fmt.Sprintf("%s x%d", item.Code, item.Quantity))
	}
	return st, nil
}

// gateMaxAmount enforces the per-order ceiling. A zero ceiling disables
// the gate.
func (p *Pipeline) gateMaxAmount(ctx context.Context, st *placeState) *placeState {
	if st.decided() {
		return st
	}
	max := decimal.NewFromFloat(p.profile.Preferences.MaxOrderAmount)
	if max.IsPositive() && st.total.GreaterThan(max) {
		p.abort(ctx, st, contractx.CodeOverMax,
			fmt.Sprintf("Order total $%s exceeds max $%s", st.total.StringFixed(2), max.StringFixed(2)),
			auditx.Field{Key: "total", Value: st.total.StringFixed(2)},
			auditx.Field{Key: "max", Value: max.StringFixed(2)})
	}
	return st
}

// submitOrSimulate is the point of no return. Dry-run deployments clear
// the cart like a real placement would, so rehearsals behave identically;
// real deployments submit once, with no retry.
func (p *Pipeline) submitOrSimulate(ctx context.Context, st *placeState) (*placeState, error) {
	if st.decided() {
		return st, nil
	}

	summary, _ := json.Marshal(st.itemSummary)
	fields := []auditx.Field{
		{Key: "store", Value: p.session.StoreID()},
		{Key: "items", Value: string(summary)},
		{Key: "total", Value: st.total.StringFixed(2)},
	}

	if p.dryRun {
		if st.scheduledFor != "" {
			fields = append(fields, auditx.Field{Key: "scheduled", Value: st.scheduledFor})
		}
		fields = append(fields, auditx.Field{Key: "attempt", Value: st.attemptID})
		p.trail.Write(ctx, auditx.Record{
			Timestamp: st.now,
			Outcome:   auditx.OutcomeDryRun,
			Fields:    fields,
		})
		p.session.Clear(ctx)
		st.result = &PlaceResult{
			Envelope:     contractx.OK(),
			OrderID:      DryRunOrderID,
			DryRun:       true,
			TotalCharged: st.total.InexactFloat64(),
			Estimated:    !st.authoritative,
			ScheduledFor: st.scheduledFor,
			Message:      "DRY RUN: order was NOT placed. Disable dry-run mode to place real orders.",
		}
		return st, nil
	}

	if err := p.client.PlaceOrder(ctx, st.draft, p.profile.Payment); err != nil {
		return st, fmt.Errorf("submit order: %w", err)
	}

	orderID := st.draft.OrderID
	if orderID == "" {
		orderID = st.draft.PulseOrderGUID
	}
	if orderID == "" {
		orderID = UnknownOrderID
	}

	fields = append(fields, auditx.Field{Key: "order_id", Value: orderID})
	if st.scheduledFor != "" {
		fields = append(fields, auditx.Field{Key: "scheduled", Value: st.scheduledFor})
	}
	fields = append(fields, auditx.Field{Key: "attempt", Value: st.attemptID})
	p.trail.Write(ctx, auditx.Record{
		Timestamp: st.now,
		Outcome:   auditx.OutcomeConfirmed,
		Fields:    fields,
	})

	p.session.Clear(ctx)

	message := fmt.Sprintf("Order %s placed successfully. Track with track_order.", orderID)
	if st.scheduledFor != "" {
		message = fmt.Sprintf("Order scheduled for %s. Track with track_order.", st.scheduledFor)
	}
	st.result = &PlaceResult{
		Envelope:     contractx.OK(),
		OrderID:      orderID,
		TotalCharged: st.total.InexactFloat64(),
		Estimated:    !st.authoritative,
		ScheduledFor: st.scheduledFor,
		Message:      message,
	}
	return st, nil
}

func (p *Pipeline) finalize(st *placeState) (PlaceResult, error) {
	if st == nil || st.result == nil {
		return PlaceResult{}, fmt.Errorf("pipeline ended without a result")
	}
	return *st.result, nil
}
