package contract

import "errors"

var (
	ErrInvalidIndex   = errors.New("cart index out of range")
	ErrSubmitRejected = errors.New("vendor rejected the order submission")
)
