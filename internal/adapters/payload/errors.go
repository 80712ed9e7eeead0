package payload

import "errors"

// Sentinel kinds for payload errors.
var (
	ErrInvalidPayload  = errors.New("invalid payload")
	ErrPayloadTooLarge = errors.New("payload too large")
)
