package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	contractx "github.com/marova/sliceline/ordering/contract"
)

// Preferences are the operator's ordering policy. MaxOrderAmount of zero
// disables the per-order ceiling.
type Preferences struct {
	OrderType          string  `json:"order_type"`
	DefaultTipPercent  int     `json:"default_tip_percent"`
	ConfirmBeforeOrder bool    `json:"confirm_before_order"`
	MaxOrderAmount     float64 `json:"max_order_amount"`
	PreferredStoreID   string  `json:"preferred_store_id,omitempty"`
}

// OrderProfile is the per-deployment identity: who orders, where it goes,
// how it is paid. Read-only at runtime.
type OrderProfile struct {
	Customer    contractx.Customer `json:"customer"`
	Address     contractx.Address  `json:"address"`
	Payment     contractx.Payment  `json:"payment"`
	Preferences Preferences        `json:"preferences"`
}

// LoadProfile reads the JSON order profile. Unlike session state, a
// missing profile is fatal: no sane defaults exist for a card number or a
// delivery address.
func LoadProfile(path string) (*OrderProfile, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("order profile path is required")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("order profile not found at %s: copy profile.json.example and fill in your details", path)
		}
		return nil, fmt.Errorf("read order profile: %w", err)
	}

	var profile OrderProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, fmt.Errorf("decode order profile: %w", err)
	}

	if profile.Preferences.OrderType == "" {
		profile.Preferences.OrderType = "Delivery"
	}
	if profile.Address.Country == "" {
		profile.Address.Country = "ca"
	}
	return &profile, nil
}

func MustLoadProfile(path string) *OrderProfile {
	profile, err := LoadProfile(path)
	if err != nil {
		panic(err)
	}
	return profile
}
