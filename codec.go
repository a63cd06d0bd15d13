package ndpack

import (
	"bytes"
	"fmt"
)

// Codec converts between msgpack bytes and Value trees, turning numpy
// array maps into Buffers and UnicodeArrays and back.
//
// A Codec is read-only after New and safe for concurrent use.
type Codec struct {
	registry  *Registry
	host      Endianness
	limits    Limits
	logger    Logger
	onWarning func(Warning)
}

// New returns a Codec for the native byte order with the standard dtype
// registry and default limits.
func New(opts ...Option) *Codec {
	c := &Codec{
		registry: NewRegistry(),
		host:     nativeEndianness,
		limits:   defaultLimits(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.limits = c.limits.withDefaults()
	if c.logger == nil {
		c.logger = defaultLogger()
	}
	if c.host != LittleEndian && c.host != BigEndian {
		c.host = nativeEndianness
	}
	return c
}

// HostEndianness returns the byte order the codec assumes.
func (c *Codec) HostEndianness() Endianness { return c.host }

// Pack converts arrays in v to array maps and encodes the result.
func (c *Codec) Pack(v Value) ([]byte, error) {
	packed, err := c.PackValue(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := newEncoder(&buf, c.registry).encode(packed); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unpack decodes one msgpack value from data and converts the array maps
// inside it.
//
// Arrays with an unknown dtype are left as plain maps and reported as
// warnings. An array whose byte order does not match the host, or whose
// shape does not match its data, fails the whole call.
func (c *Codec) Unpack(data []byte) (Value, error) {
	r := bytes.NewReader(data)
	v, err := readValue(r, c.limits)
	if err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrInvalidPayload, r.Len())
	}
	return c.UnpackValue(v)
}

// Pack encodes v with a default Codec.
func Pack(v Value) ([]byte, error) {
	return New().Pack(v)
}

// Unpack decodes data with a default Codec.
func Unpack(data []byte) (Value, error) {
	return New().Unpack(data)
}
