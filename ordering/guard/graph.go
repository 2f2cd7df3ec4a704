package guard

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
)

// compilePlaceGraph wires the gates into a linear, short-circuiting graph.
// Aborts travel as terminal state, not as node errors; a node error means
// an external call failed and surfaces as PLACE_FAILED in Place.
func (p *Pipeline) compilePlaceGraph(ctx context.Context) (compose.Runnable[PlaceInput, PlaceResult], error) {
	graph := compose.NewGraph[PlaceInput, PlaceResult]()

	if err := graph.AddLambdaNode("begin",
		compose.InvokableLambda(func(ctx context.Context, in PlaceInput) (*placeState, error) {
			return p.begin(in), nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add node begin: %w", err)
	}

	if err := graph.AddLambdaNode("gate_confirmation",
		compose.InvokableLambda(func(ctx context.Context, st *placeState) (*placeState, error) {
			return p.gateConfirmation(ctx, st), nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add node gate_confirmation: %w", err)
	}

	if err := graph.AddLambdaNode("gate_store_selected",
		compose.InvokableLambda(func(ctx context.Context, st *placeState) (*placeState, error) {
			return p.gateStoreSelected(ctx, st), nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add node gate_store_selected: %w", err)
	}

	if err := graph.AddLambdaNode("gate_cart_non_empty",
		compose.InvokableLambda(func(ctx context.Context, st *placeState) (*placeState, error) {
			return p.gateCartNonEmpty(ctx, st), nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add node gate_cart_non_empty: %w", err)
	}

	if err := graph.AddLambdaNode("gate_schedule",
		compose.InvokableLambda(func(ctx context.Context, st *placeState) (*placeState, error) {
			return p.gateSchedule(ctx, st), nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add node gate_schedule: %w", err)
	}

	if err := graph.AddLambdaNode("price_step",
		compose.InvokableLambda(func(ctx context.Context, st *placeState) (*placeState, error) {
			return p.priceStep(ctx, st)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node price_step: %w", err)
	}

	if err := graph.AddLambdaNode("gate_max_amount",
		compose.InvokableLambda(func(ctx context.Context, st *placeState) (*placeState, error) {
			return p.gateMaxAmount(ctx, st), nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add node gate_max_amount: %w", err)
	}

	if err := graph.AddLambdaNode("submit_or_simulate",
		compose.InvokableLambda(func(ctx context.Context, st *placeState) (*placeState, error) {
			return p.submitOrSimulate(ctx, st)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node submit_or_simulate: %w", err)
	}

	if err := graph.AddLambdaNode("finalize",
		compose.InvokableLambda(func(ctx context.Context, st *placeState) (PlaceResult, error) {
			return p.finalize(st)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize: %w", err)
	}

	edges := [][2]string{
		{compose.START, "begin"},
		{"begin", "gate_confirmation"},
		{"gate_confirmation", "gate_store_selected"},
		{"gate_store_selected", "gate_cart_non_empty"},
		{"gate_cart_non_empty", "gate_schedule"},
		{"gate_schedule", "price_step"},
		{"price_step", "gate_max_amount"},
		{"gate_max_amount", "submit_or_simulate"},
		{"submit_or_simulate", "finalize"},
		{"finalize", compose.END},
	}
	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("guard.place_order"))
	if err != nil {
		return nil, fmt.Errorf("compile place graph: %w", err)
	}
	return runner, nil
}
