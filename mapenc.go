package ndpack

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

// encoder writes packed Value trees as msgpack.
//
// Containers and binary blobs are framed here so that array map keys go out
// as bin values and no extension type is involved; scalars are written by
// msgpack.Encoder onto the same stream.
type encoder struct {
	w        io.Writer
	scalars  *msgpack.Encoder
	registry *Registry
	hdr      [5]byte
}

func newEncoder(w io.Writer, r *Registry) *encoder {
	return &encoder{w: w, scalars: msgpack.NewEncoder(w), registry: r}
}

// writeHeader emits a container or bin header: the fixed form for n up to
// fixMax when fixBase is non-zero, else the 8-, 16- or 32-bit length form.
func (e *encoder) writeHeader(n int, fixBase byte, fixMax int, code8, code16, code32 byte) error {
	var b []byte
	switch {
	case fixBase != 0 && n <= fixMax:
		e.hdr[0] = fixBase | byte(n)
		b = e.hdr[:1]
	case code8 != 0 && n <= math.MaxUint8:
		e.hdr[0], e.hdr[1] = code8, byte(n)
		b = e.hdr[:2]
	case n <= math.MaxUint16:
		e.hdr[0] = code16
		binary.BigEndian.PutUint16(e.hdr[1:3], uint16(n))
		b = e.hdr[:3]
	case uint64(n) <= math.MaxUint32:
		e.hdr[0] = code32
		binary.BigEndian.PutUint32(e.hdr[1:5], uint32(n))
		b = e.hdr[:5]
	default:
		return fmt.Errorf("%w: length %d too large", ErrUnsupportedValue, n)
	}
	_, err := e.w.Write(b)
	return err
}

func (e *encoder) writeMapHeader(n int) error {
	return e.writeHeader(n, msgpcode.FixedMapLow, 15, 0, msgpcode.Map16, msgpcode.Map32)
}

func (e *encoder) writeArrayHeader(n int) error {
	return e.writeHeader(n, msgpcode.FixedArrayLow, 15, 0, msgpcode.Array16, msgpcode.Array32)
}

func (e *encoder) writeBin(b []byte) error {
	if err := e.writeHeader(len(b), 0, 0, msgpcode.Bin8, msgpcode.Bin16, msgpcode.Bin32); err != nil {
		return err
	}
	_, err := e.w.Write(b)
	return err
}

// encodeArrayMap writes the four-entry map nd, type, shape, data with bin
// keys, in that order.
func (e *encoder) encodeArrayMap(m ArrayMap) error {
	if err := validateArrayMap(m, e.registry); err != nil {
		return err
	}
	if err := e.writeMapHeader(4); err != nil {
		return err
	}
	if err := e.writeBin([]byte(keyND)); err != nil {
		return err
	}
	if err := e.scalars.EncodeBool(true); err != nil {
		return err
	}
	if err := e.writeBin([]byte(keyType)); err != nil {
		return err
	}
	if err := e.scalars.EncodeString(m.Dtype); err != nil {
		return err
	}
	if err := e.writeBin([]byte(keyShape)); err != nil {
		return err
	}
	if err := e.writeArrayHeader(len(m.Shape)); err != nil {
		return err
	}
	for _, d := range m.Shape {
		if err := e.scalars.EncodeInt(int64(d)); err != nil {
			return err
		}
	}
	if err := e.writeBin([]byte(keyData)); err != nil {
		return err
	}
	return e.writeBin(m.Data)
}

func (e *encoder) encodeKey(k Value) error {
	switch x := k.(type) {
	case Text:
		return e.scalars.EncodeString(string(x))
	case Binary:
		return e.writeBin(x)
	default:
		return e.encode(k)
	}
}

// encode writes a packed tree. Buffers and UnicodeArrays must already have
// been converted by PackValue.
func (e *encoder) encode(v Value) error {
	switch x := v.(type) {
	case nil, Null:
		return e.scalars.EncodeNil()
	case Bool:
		return e.scalars.EncodeBool(bool(x))
	case Int:
		return e.scalars.EncodeInt(int64(x))
	case Uint:
		return e.scalars.EncodeUint(uint64(x))
	case Float:
		return e.scalars.EncodeFloat64(float64(x))
	case Text:
		return e.scalars.EncodeString(string(x))
	case Ext:
		if err := e.scalars.EncodeExtHeader(x.Type, len(x.Data)); err != nil {
			return err
		}
		_, err := e.w.Write(x.Data)
		return err
	case Binary:
		return e.writeBin(x)
	case ArrayMap:
		return e.encodeArrayMap(x)
	case Seq:
		if err := e.writeArrayHeader(len(x)); err != nil {
			return err
		}
		for _, item := range x {
			if err := e.encode(item); err != nil {
				return err
			}
		}
		return nil
	case Map:
		if err := e.writeMapHeader(len(x)); err != nil {
			return err
		}
		for _, entry := range x {
			if err := e.encodeKey(entry.Key); err != nil {
				return err
			}
			if err := e.encode(entry.Value); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: %T must be packed before encoding", ErrUnsupportedValue, v)
	}
}
