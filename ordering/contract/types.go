package contract

// Address is the delivery address passed to store lookup and order builds.
type Address struct {
	Street               string `json:"street"`
	Unit                 string `json:"unit,omitempty"`
	City                 string `json:"city"`
	Region               string `json:"region"`
	PostalCode           string `json:"postal_code"`
	Country              string `json:"country"`
	DeliveryInstructions string `json:"delivery_instructions,omitempty"`
}

// Customer identifies who the order is for.
type Customer struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// Payment carries either card-on-file fields or the pay-at-door marker.
// The two are mutually exclusive; assemblePayment in the guard pipeline
// picks one based on PayAtDoor.
type Payment struct {
	CardNumber        string `json:"card_number,omitempty"`
	Expiration        string `json:"expiration,omitempty"` // MM/YY
	CVV               string `json:"cvv,omitempty"`
	BillingPostalCode string `json:"billing_postal_code,omitempty"`
	PayAtDoor         bool   `json:"pay_at_door"`
}

// StoreSummary is the trimmed store record returned by FindStores.
type StoreSummary struct {
	StoreID                    string `json:"store_id"`
	Address                    string `json:"address"`
	Phone                      string `json:"phone"`
	IsOpen                     bool   `json:"is_open"`
	DeliveryMinutesMin         int    `json:"delivery_minutes_min,omitempty"`
	DeliveryMinutesMax         int    `json:"delivery_minutes_max,omitempty"`
	MinimumDeliveryOrderAmount string `json:"minimum_delivery_order_amount,omitempty"`
}

// RawMenu is the vendor catalog as fetched: loosely typed on purpose.
// Variants and Coupons map item codes to item field maps; Raw holds the
// untyped document for the classifier's structural fallback.
type RawMenu struct {
	Variants map[string]any
	Coupons  map[string]any
	Raw      map[string]any
}

// Product is one priced line inside an order draft. Price starts as the
// zero-toppings base price copied from the menu; the vendor validate call
// overwrites it with the authoritative figure.
type Product struct {
	Code    string                       `json:"Code"`
	Qty     int                          `json:"Qty"`
	Options map[string]map[string]string `json:"Options,omitempty"`
	Price   string                       `json:"Price,omitempty"`
}

// StatusItem is one entry from the vendor's validation verdict.
// PulseCode 1 marks a hard error; anything else is a warning.
type StatusItem struct {
	Code      string `json:"Code"`
	PulseCode int    `json:"PulseCode"`
}

// OrderDraft is the mutable order representation handed to the vendor.
// Validate/price responses merge Amounts, Status, StatusItems and
// per-product prices back into the same struct, so anything that needs
// pre-merge values must copy them out first.
type OrderDraft struct {
	StoreID         string
	ServiceMethod   string
	Address         Address
	Customer        Customer
	Products        []Product
	FutureOrderTime string

	// Merged by the vendor round trip.
	Amounts              map[string]string
	Status               int
	StatusItems          []StatusItem
	OrderID              string
	PulseOrderGUID       string
	EstimatedWaitMinutes string
}

// Amount returns a merged amount field, or "" when the vendor has not
// priced the draft yet.
func (d *OrderDraft) Amount(key string) string {
	if d == nil || d.Amounts == nil {
		return ""
	}
	return d.Amounts[key]
}

// TrackedOrder is one order from the tracker feed.
type TrackedOrder struct {
	OrderStatus      string `json:"order_status"`
	OrderDescription string `json:"order_description"`
	StoreID          string `json:"store_id"`
	OrderID          string `json:"order_id"`
	StartTime        string `json:"start_time"`
	DriverName       string `json:"driver_name,omitempty"`
	DriverPhone      string `json:"driver_phone,omitempty"`
}
