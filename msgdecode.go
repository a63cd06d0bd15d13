package ndpack

import (
	"bytes"
	"fmt"
	"math"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

// readValue decodes one msgpack value into a Value tree. Unlike decoding
// into interface{}, it keeps map order and the distinction between str and
// bin keys, which array map detection relies on.
//
// Declared lengths are checked against the bytes left in r before anything
// is allocated for them.
func readValue(r *bytes.Reader, limits Limits) (Value, error) {
	vr := &valueReader{d: msgpack.NewDecoder(r), r: r, limits: limits}
	return vr.decode(0)
}

type valueReader struct {
	d      *msgpack.Decoder
	r      *bytes.Reader
	limits Limits
}

// checkBlob bounds a str, bin or ext length.
func (vr *valueReader) checkBlob(n int, what string) error {
	if uint64(n) > vr.limits.MaxArrayBytes {
		return fmt.Errorf("%w: %s of %d bytes", ErrLimitExceeded, what, n)
	}
	if n > vr.r.Len() {
		return fmt.Errorf("%w: %s of %d bytes with %d left", ErrInvalidPayload, what, n, vr.r.Len())
	}
	return nil
}

// checkItems bounds a container length. Every item takes at least one byte.
func (vr *valueReader) checkItems(n, perItem int, what string) error {
	if n > 0 && n > vr.r.Len()/perItem {
		return fmt.Errorf("%w: %s of %d items with %d bytes left", ErrInvalidPayload, what, n, vr.r.Len())
	}
	return nil
}

func (vr *valueReader) readBlob(n int) ([]byte, error) {
	b := make([]byte, n)
	if err := vr.d.ReadFull(b); err != nil {
		return nil, err
	}
	return b, nil
}

func isExtCode(c byte) bool {
	return (c >= msgpcode.FixExt1 && c <= msgpcode.FixExt16) ||
		(c >= msgpcode.Ext8 && c <= msgpcode.Ext32)
}

func (vr *valueReader) decode(depth int) (Value, error) {
	d := vr.d
	if err := vr.limits.checkDepth(depth); err != nil {
		return nil, err
	}
	c, err := d.PeekCode()
	if err != nil {
		return nil, err
	}
	switch {
	case c == msgpcode.Nil:
		return Null{}, d.DecodeNil()
	case c == msgpcode.False || c == msgpcode.True:
		b, err := d.DecodeBool()
		return Bool(b), err
	case c == msgpcode.Float:
		f, err := d.DecodeFloat32()
		return Float(f), err
	case c == msgpcode.Double:
		f, err := d.DecodeFloat64()
		return Float(f), err
	case c == msgpcode.Uint64:
		n, err := d.DecodeUint64()
		if err != nil {
			return nil, err
		}
		if n > math.MaxInt64 {
			return Uint(n), nil
		}
		return Int(n), nil
	case msgpcode.IsFixedNum(c),
		c == msgpcode.Uint8, c == msgpcode.Uint16, c == msgpcode.Uint32,
		c == msgpcode.Int8, c == msgpcode.Int16, c == msgpcode.Int32, c == msgpcode.Int64:
		n, err := d.DecodeInt64()
		return Int(n), err
	case msgpcode.IsString(c), msgpcode.IsBin(c):
		n, err := d.DecodeBytesLen()
		if err != nil {
			return nil, err
		}
		if msgpcode.IsString(c) {
			if err := vr.checkBlob(n, "str"); err != nil {
				return nil, err
			}
			b, err := vr.readBlob(n)
			return Text(b), err
		}
		if err := vr.checkBlob(n, "bin"); err != nil {
			return nil, err
		}
		b, err := vr.readBlob(n)
		return Binary(b), err
	case msgpcode.IsFixedArray(c), c == msgpcode.Array16, c == msgpcode.Array32:
		n, err := d.DecodeArrayLen()
		if err != nil {
			return nil, err
		}
		if err := vr.checkItems(n, 1, "array"); err != nil {
			return nil, err
		}
		out := make(Seq, 0, min(n, 1024))
		for i := 0; i < n; i++ {
			v, err := vr.decode(depth + 1)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case msgpcode.IsFixedMap(c), c == msgpcode.Map16, c == msgpcode.Map32:
		n, err := d.DecodeMapLen()
		if err != nil {
			return nil, err
		}
		if err := vr.checkItems(n, 2, "map"); err != nil {
			return nil, err
		}
		out := make(Map, 0, min(n, 1024))
		for i := 0; i < n; i++ {
			k, err := vr.decode(depth + 1)
			if err != nil {
				return nil, err
			}
			v, err := vr.decode(depth + 1)
			if err != nil {
				return nil, err
			}
			out = append(out, Entry{Key: k, Value: v})
		}
		return out, nil
	case isExtCode(c):
		typ, n, err := d.DecodeExtHeader()
		if err != nil {
			return nil, err
		}
		if err := vr.checkBlob(n, "ext"); err != nil {
			return nil, err
		}
		data, err := vr.readBlob(n)
		if err != nil {
			return nil, err
		}
		return Ext{Type: typ, Data: data}, nil
	default:
		return nil, fmt.Errorf("%w: unknown msgpack code 0x%02x", ErrInvalidPayload, c)
	}
}
