package audit

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Outcome tags. One record per placement attempt, whatever the outcome.
const (
	OutcomeAborted   = "ABORTED"
	OutcomeDryRun    = "DRY_RUN"
	OutcomeConfirmed = "CONFIRMED"
	OutcomeError     = "ERROR"
)

const EventPlaceOrder = "PLACE_ORDER"

// Field is one key=value pair in a record's tail. Order is preserved so
// operator tooling can rely on a stable line layout.
type Field struct {
	Key   string
	Value string
}

// Record is a single append-only audit entry.
type Record struct {
	Timestamp time.Time
	Event     string
	Outcome   string
	Fields    []Field
}

// Line renders the record in the pipe-delimited audit format:
//
//	2026-02-27T18:30:00Z | PLACE_ORDER | ABORTED | reason=NOT_CONFIRMED
func (r Record) Line() string {
	parts := []string{
		r.Timestamp.UTC().Format("2006-01-02T15:04:05Z"),
		r.Event,
		r.Outcome,
	}
	for _, f := range r.Fields {
		parts = append(parts, f.Key+"="+f.Value)
	}
	return strings.Join(parts, " | ")
}

// Sink is an append-only destination for audit records.
type Sink interface {
	Append(ctx context.Context, rec Record) error
}

// Trail wraps a sink with the pipeline's durability contract: a broken
// sink is surfaced to operators through the log but never blocks an order.
type Trail struct {
	sink Sink
}

func NewTrail(sink Sink) *Trail {
	return &Trail{sink: sink}
}

func (t *Trail) Write(ctx context.Context, rec Record) {
	if t == nil || t.sink == nil {
		return
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}
	if rec.Event == "" {
		rec.Event = EventPlaceOrder
	}
	if err := t.sink.Append(ctx, rec); err != nil {
		log.Warn().Err(err).Str("outcome", rec.Outcome).Msg("audit write failed")
	}
}
