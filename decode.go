package ndpack

import (
	"fmt"
	"io"
)

// Decode reads one envelope from r and unpacks its payload.
//
// Decode returns ErrInvalidMagic if r does not start with an envelope,
// ErrUnsupportedVersion for versions other than 1, ErrInvalidHeader for
// inconsistent flags and ErrLimitExceeded when the payload is larger than
// the codec's limits allow. Errors from Unpack are returned unchanged.
func Decode(r io.Reader, opts ...ReadOption) (Value, error) {
	cfg := readConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	c := cfg.codec
	if c == nil {
		c = New()
	}
	if cfg.limits != nil {
		cc := *c
		cc.limits = cfg.limits.withDefaults()
		c = &cc
	}

	h, err := readEnvelopeHeader(r)
	if err != nil {
		return nil, err
	}
	if err := validateEnvelopeHeader(h); err != nil {
		return nil, err
	}
	if h.PayloadLen > c.limits.MaxPayloadLen {
		return nil, fmt.Errorf("%w: payload length %d", ErrLimitExceeded, h.PayloadLen)
	}
	if h.compression() == CompNone && h.PayloadLen > c.limits.MaxUncompressed {
		return nil, fmt.Errorf("%w: payload length %d", ErrLimitExceeded, h.PayloadLen)
	}
	payload := make([]byte, h.PayloadLen)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	raw, err := decompressPayload(h, payload, c.limits.MaxUncompressed)
	if err != nil {
		return nil, err
	}
	return c.Unpack(raw)
}
