package ndpack

import "errors"

var (
	// ErrUnknownDtype is reported through Warning, never returned by
	// Unpack: arrays with an unknown dtype stay plain maps.
	ErrUnknownDtype       = errors.New("ndpack: unknown dtype")
	ErrEndiannessMismatch = errors.New("ndpack: endianness swapping not implemented")
	ErrShapeMismatch      = errors.New("ndpack: shape does not match data")
	ErrMalformedArray     = errors.New("ndpack: malformed array map")
	ErrUnsupportedValue   = errors.New("ndpack: unsupported value")

	ErrInvalidMagic       = errors.New("ndpack: invalid magic")
	ErrUnsupportedVersion = errors.New("ndpack: unsupported version")
	ErrInvalidHeader      = errors.New("ndpack: invalid envelope header")
	ErrInvalidPayload     = errors.New("ndpack: invalid payload")
	ErrLimitExceeded      = errors.New("ndpack: limit exceeded")
)
