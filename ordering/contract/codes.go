package contract

import "fmt"

// Stable result codes. Agents branch on these, never on the error prose.
const (
	CodeNotConfirmed      = "NOT_CONFIRMED"
	CodeNoStore           = "NO_STORE"
	CodeEmptyCart         = "EMPTY_CART"
	CodeInvalidTime       = "INVALID_TIME"
	CodeScheduledTooSoon  = "SCHEDULED_TOO_SOON"
	CodeOverMax           = "OVER_MAX"
	CodeInvalidQuantity   = "INVALID_QUANTITY"
	CodeInvalidIndex      = "INVALID_INDEX"
	CodeNoPhone           = "NO_PHONE"
	CodePriceFailed       = "PRICE_FAILED"
	CodeMenuFetchFailed   = "MENU_FETCH_FAILED"
	CodePlaceFailed       = "PLACE_FAILED"
	CodeTrackFailed       = "TRACK_FAILED"
	CodeStoreLookupFailed = "STORE_LOOKUP_FAILED"
	CodeSearchFailed      = "SEARCH_FAILED"
)

// Envelope is the uniform head of every operation result.
type Envelope struct {
	Success bool   `json:"success"`
	Code    string `json:"code,omitempty"`
	Error   string `json:"error,omitempty"`
}

func OK() Envelope {
	return Envelope{Success: true}
}

func Fail(code string, format string, args ...any) Envelope {
	return Envelope{
		Success: false,
		Code:    code,
		Error:   fmt.Sprintf(format, args...),
	}
}
