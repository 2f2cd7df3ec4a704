package guard

import (
	"context"
	"errors"
	"time"

	"github.com/cloudwego/eino/compose"

	auditx "github.com/marova/sliceline/ordering/audit"
	contractx "github.com/marova/sliceline/ordering/contract"
	pricingx "github.com/marova/sliceline/ordering/pricing"
	statex "github.com/marova/sliceline/ordering/state"
	configx "github.com/marova/sliceline/pkg/config"
)

// Pipeline runs the order-placement guard sequence. One run at a time per
// session: the caller serializes placements, the pipeline does not.
type Pipeline struct {
	session   *statex.Session
	profile   *configx.OrderProfile
	client    contractx.VendorOrderingClient
	trail     *auditx.Trail
	estimator pricingx.Config
	dryRun    bool

	runner compose.Runnable[PlaceInput, PlaceResult]

	now func() time.Time
}

type Config struct {
	DryRun bool `envconfig:"DRY_RUN" split_words:"true" default:"true"`
}

func New(
	session *statex.Session,
	profile *configx.OrderProfile,
	client contractx.VendorOrderingClient,
	trail *auditx.Trail,
	estimator pricingx.Config,
	cfg Config,
) (*Pipeline, error) {
	if session == nil {
		return nil, errors.New("session is required")
	}
	if profile == nil {
		return nil, errors.New("order profile is required")
	}
	if client == nil {
		return nil, errors.New("vendor client is required")
	}
	if trail == nil {
		trail = auditx.NewTrail(nil)
	}

	p := &Pipeline{
		session:   session,
		profile:   profile,
		client:    client,
		trail:     trail,
		estimator: estimator,
		dryRun:    cfg.DryRun,
		now:       time.Now,
	}

	runner, err := p.compilePlaceGraph(context.Background())
	if err != nil {
		return nil, err
	}
	p.runner = runner

	return p, nil
}

// Place runs the full guard pipeline. Guard rejections come back as
// structured results; failures past the gates (vendor errors, submission
// rejections) are audited and mapped to PLACE_FAILED. The cart is cleared
// only on confirmed success or an accepted dry run, never on failure.
func (p *Pipeline) Place(ctx context.Context, in PlaceInput) PlaceResult {
	out, err := p.runner.Invoke(ctx, in)
	if err != nil {
		p.trail.Write(ctx, auditx.Record{
			Timestamp: p.now(),
			Outcome:   auditx.OutcomeError,
			Fields:    []auditx.Field{{Key: "reason", Value: err.Error()}},
		})
		return PlaceResult{Envelope: contractx.Fail(contractx.CodePlaceFailed, "%v", err)}
	}
	return out
}

// DryRun reports whether this deployment simulates placements.
func (p *Pipeline) DryRun() bool {
	return p.dryRun
}
