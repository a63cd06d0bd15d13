package ndpack

import "fmt"

// Limits bounds decoding. Zero fields take the defaults.
type Limits struct {
	MaxDepth        int    // nesting depth of decoded values
	MaxArrayBytes   uint64 // array map data, and any single str, bin or ext value
	MaxPayloadLen   uint64 // stored envelope payload, possibly compressed
	MaxUncompressed uint64 // envelope payload after decompression
}

func defaultLimits() Limits {
	return Limits{
		MaxDepth:        512,
		MaxArrayBytes:   1 << 30, // 1 GiB
		MaxPayloadLen:   2 << 30, // 2 GiB stored payload cap
		MaxUncompressed: 4 << 30, // 4 GiB
	}
}

func (l Limits) withDefaults() Limits {
	d := defaultLimits()
	if l.MaxDepth == 0 {
		l.MaxDepth = d.MaxDepth
	}
	if l.MaxArrayBytes == 0 {
		l.MaxArrayBytes = d.MaxArrayBytes
	}
	if l.MaxPayloadLen == 0 {
		l.MaxPayloadLen = d.MaxPayloadLen
	}
	if l.MaxUncompressed == 0 {
		l.MaxUncompressed = d.MaxUncompressed
	}
	return l
}

func (l Limits) checkArray(tag string, data []byte) error {
	if uint64(len(data)) > l.MaxArrayBytes {
		return fmt.Errorf("%w: dtype %q array of %d bytes", ErrLimitExceeded, tag, len(data))
	}
	return nil
}

func (l Limits) checkDepth(depth int) error {
	if depth > l.MaxDepth {
		return fmt.Errorf("%w: nesting deeper than %d", ErrLimitExceeded, l.MaxDepth)
	}
	return nil
}
