package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/marova/sliceline/ordering/contract"
	guardx "github.com/marova/sliceline/ordering/guard"
	servicex "github.com/marova/sliceline/ordering/service"
)

type Executor func(ctx context.Context, tool string, args map[string]any) (contractx.ToolResult, error)

// Build pairs the advertised catalog with its executor.
func Build(svc *servicex.Service) ([]*schema.ToolInfo, Executor) {
	return Infos(), NewExecutor(svc)
}

// NewExecutor dispatches tool calls to the ordering service. Arguments
// arrive as decoded JSON, so numbers may be float64 or json.Number and are
// coerced here; an unknown tool name is reported in the result, not as an
// error.
func NewExecutor(svc *servicex.Service) Executor {
	return func(ctx context.Context, tool string, args map[string]any) (contractx.ToolResult, error) {
		out := contractx.ToolResult{Tool: tool}
		switch tool {
		case ToolFindStores:
			out.Result = svc.FindStores(ctx,
				stringArg(args, "street"),
				stringArg(args, "city"),
				stringArg(args, "region"),
				stringArg(args, "postal_code"),
				stringArg(args, "service_type"))
		case ToolGetMenu:
			out.Result = svc.GetMenu(ctx, stringArg(args, "store_id"), stringArg(args, "category"))
		case ToolSearchMenu:
			out.Result = svc.SearchMenu(ctx, stringArg(args, "query"), stringArg(args, "store_id"))
		case ToolGetCart:
			out.Result = svc.GetCart(ctx)
		case ToolAddToCart:
			out.Result = svc.AddToCart(ctx,
				stringArg(args, "code"),
				intArg(args, "quantity", 1),
				optionsArg(args, "options"),
				stringArg(args, "special_instructions"))
		case ToolRemoveFromCart:
			out.Result = svc.RemoveFromCart(ctx, intArg(args, "index", -1))
		case ToolClearCart:
			out.Result = svc.ClearCart(ctx)
		case ToolPriceOrder:
			out.Result = svc.PriceOrder(ctx)
		case ToolValidateOrder:
			out.Result = svc.ValidateOrder(ctx)
		case ToolPlaceOrder:
			out.Result = svc.PlaceOrder(ctx, guardx.PlaceInput{
				Confirm:       stringArg(args, "confirm_order"),
				TipAmount:     floatArg(args, "tip_amount"),
				ScheduledTime: stringArg(args, "scheduled_time"),
			})
		case ToolTrackOrder:
			out.Result = svc.TrackOrder(ctx, stringArg(args, "phone"), stringArg(args, "store_id"))
		default:
			out.Error = fmt.Sprintf("unknown tool %q", tool)
		}
		return out, nil
	}
}

func stringArg(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

func intArg(args map[string]any, key string, def int) int {
	switch v := args[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func floatArg(args map[string]any, key string) float64 {
	switch v := args[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return 0
}

// optionsArg coerces the decoded topping object into the vendor's
// two-level string map, dropping anything that does not fit the shape.
func optionsArg(args map[string]any, key string) map[string]map[string]string {
	raw, ok := args[key].(map[string]any)
	if !ok || len(raw) == 0 {
		return nil
	}
	options := make(map[string]map[string]string, len(raw))
	for topping, placement := range raw {
		inner, ok := placement.(map[string]any)
		if !ok {
			continue
		}
		coverage := make(map[string]string, len(inner))
		for portion, amount := range inner {
			coverage[portion] = fmt.Sprint(amount)
		}
		options[topping] = coverage
	}
	if len(options) == 0 {
		return nil
	}
	return options
}
