// Package tool exposes the ordering operations as an agent tool catalog.
package tool

import (
	"github.com/cloudwego/eino/schema"
)

const (
	ToolFindStores     = "order.find_stores"
	ToolGetMenu        = "order.get_menu"
	ToolSearchMenu     = "order.search_menu"
	ToolGetCart        = "order.get_cart"
	ToolAddToCart      = "order.add_to_cart"
	ToolRemoveFromCart = "order.remove_from_cart"
	ToolClearCart      = "order.clear_cart"
	ToolPriceOrder     = "order.price_order"
	ToolValidateOrder  = "order.validate_order"
	ToolPlaceOrder     = "order.place_order"
	ToolTrackOrder     = "order.track_order"
)

// Infos returns the tool schemas the agent layer advertises. Parameter
// names match the executor's argument keys exactly.
func Infos() []*schema.ToolInfo {
	return []*schema.ToolInfo{
		{
			Name: ToolFindStores,
			Desc: "Find nearby stores for an address and select the closest open one. Omitted fields fall back to the configured profile address.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"street":       {Type: schema.String, Desc: "Street address"},
				"city":         {Type: schema.String, Desc: "City"},
				"region":       {Type: schema.String, Desc: "Province or state code"},
				"postal_code":  {Type: schema.String, Desc: "Postal or zip code"},
				"service_type": {Type: schema.String, Desc: "Delivery or Carryout"},
			}),
		},
		{
			Name: ToolGetMenu,
			Desc: "Get the categorized menu for a store.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"store_id": {Type: schema.String, Desc: "Store id; defaults to the selected store"},
				"category": {Type: schema.String, Desc: "Category filter, e.g. Pizza; All returns everything"},
			}),
		},
		{
			Name: ToolSearchMenu,
			Desc: "Search menu items by name or description.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query":    {Type: schema.String, Desc: "Search text", Required: true},
				"store_id": {Type: schema.String, Desc: "Store id; defaults to the selected store"},
			}),
		},
		{
			Name: ToolGetCart,
			Desc: "Show the current cart with item indices.",
		},
		{
			Name: ToolAddToCart,
			Desc: "Add an item to the cart by menu code.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"code":                 {Type: schema.String, Desc: "Menu item code, e.g. 14SCREEN", Required: true},
				"quantity":             {Type: schema.Integer, Desc: "Quantity, 1 to 10"},
				"options":              {Type: schema.Object, Desc: "Topping options in vendor syntax"},
				"special_instructions": {Type: schema.String, Desc: "Free-text instructions"},
			}),
		},
		{
			Name: ToolRemoveFromCart,
			Desc: "Remove a cart item by its index from get_cart.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"index": {Type: schema.Integer, Desc: "Zero-based cart index", Required: true},
			}),
		},
		{
			Name: ToolClearCart,
			Desc: "Empty the cart and unselect the store.",
		},
		{
			Name: ToolPriceOrder,
			Desc: "Price the current cart. Returns the vendor breakdown when available, otherwise a labelled estimate.",
		},
		{
			Name: ToolValidateOrder,
			Desc: "Validate the current cart against the store without placing it.",
		},
		{
			Name: ToolPlaceOrder,
			Desc: "Place the order. Requires the exact confirmation phrase YES_PLACE_MY_ORDER.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"confirm_order":  {Type: schema.String, Desc: "Must be YES_PLACE_MY_ORDER", Required: true},
				"tip_amount":     {Type: schema.Number, Desc: "Tip in dollars; zero or negative is ignored"},
				"scheduled_time": {Type: schema.String, Desc: "ISO 8601 local time at least 30 minutes out"},
			}),
		},
		{
			Name: ToolTrackOrder,
			Desc: "Track active orders for a phone number.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"phone":    {Type: schema.String, Desc: "Phone number; defaults to the profile phone"},
				"store_id": {Type: schema.String, Desc: "Store id; defaults to the selected store"},
			}),
		},
	}
}
