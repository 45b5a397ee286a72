package oneinch

import "errors"

var (
	// ErrUnknownSelector is returned for payloads whose leading 4 bytes match no known format.
	ErrUnknownSelector = errors.New("unknown payload selector")

	// ErrMalformedPayload covers truncated buffers and offsets pointing outside them.
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrInvariantViolation means the declared amount differs from the embedded one.
	ErrInvariantViolation = errors.New("declared amount does not match payload")

	// ErrUnsupportedActionLayout is returned when an action's inner selector is not
	// among the kinds accepted at its position.
	ErrUnsupportedActionLayout = errors.New("unsupported action layout")

	// ErrAmbiguousCapState means only one of the leftover-check and cap markers was found.
	ErrAmbiguousCapState = errors.New("ambiguous leftover cap state")

	ErrInvalidRecipient     = errors.New("invalid recipient")
	ErrUnsupportedOperation = errors.New("operation not supported for payload format")
	ErrAmountOutOfRange     = errors.New("amount out of uint256 range")
)
