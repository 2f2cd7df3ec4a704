package dominos

import (
	"fmt"
	"strings"
)

// Market selects the regional API variant: base URLs, market headers and
// the pay-at-door capability. Regional behavior is picked here once at
// construction, never patched onto a live client.
type Market string

const (
	MarketCanada Market = "ca"
	MarketUS     Market = "us"
)

func ParseMarket(s string) (Market, error) {
	switch Market(strings.ToLower(strings.TrimSpace(s))) {
	case MarketCanada, "":
		return MarketCanada, nil
	case MarketUS:
		return MarketUS, nil
	default:
		return "", fmt.Errorf("unsupported market %q", s)
	}
}

func (m Market) orderBaseURL() string {
	if m == MarketUS {
		return "https://order.dominos.com"
	}
	return "https://order.dominos.ca"
}

func (m Market) trackerBaseURL() string {
	if m == MarketUS {
		return "https://tracker.dominos.com"
	}
	return "https://order.dominos.ca"
}

func (m Market) label() string {
	if m == MarketUS {
		return "UNITED_STATES"
	}
	return "CANADA"
}

// headers returns the per-request market headers the ordering API expects.
func (m Market) headers() map[string]string {
	return map[string]string{
		"Market":       m.label(),
		"DPZ-Market":   m.label(),
		"DPZ-Language": "en",
	}
}

// payAtDoorSupported reports whether the market accepts cash/at-door
// settlement on online orders.
func (m Market) payAtDoorSupported() bool {
	return m == MarketCanada
}
