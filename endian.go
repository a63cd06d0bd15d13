package ndpack

import (
	"encoding/binary"
	"fmt"
)

// Endianness is the byte-order character of a dtype tag.
type Endianness byte

const (
	LittleEndian  Endianness = '<'
	BigEndian     Endianness = '>'
	NativeOrder   Endianness = '='
	NotApplicable Endianness = '|'
)

var nativeEndianness = probeEndianness()

// NativeEndianness returns the byte order of the running process.
func NativeEndianness() Endianness { return nativeEndianness }

func probeEndianness() Endianness {
	var b [4]byte
	binary.NativeEndian.PutUint32(b[:], 0x11223344)
	if b[0] == 0x44 {
		return LittleEndian
	}
	return BigEndian
}

func (e Endianness) String() string {
	switch e {
	case LittleEndian:
		return "little"
	case BigEndian:
		return "big"
	case NativeOrder:
		return "native"
	case NotApplicable:
		return "not-applicable"
	default:
		return fmt.Sprintf("Endianness(%q)", byte(e))
	}
}

func (e Endianness) isOrder() bool {
	switch e {
	case LittleEndian, BigEndian, NativeOrder, NotApplicable:
		return true
	}
	return false
}

// byteOrder returns the encoding/binary order for a concrete host order.
func (e Endianness) byteOrder() binary.ByteOrder {
	if e == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// accept reports whether data tagged with order can be used as-is on a host
// with byte order e. Swapping is not implemented, so a mismatch is an error.
func (e Endianness) accept(order Endianness, tag string) error {
	switch order {
	case NotApplicable, NativeOrder:
		return nil
	case LittleEndian, BigEndian:
		if order == e {
			return nil
		}
	}
	return fmt.Errorf("%w: dtype %q on %s-endian host", ErrEndiannessMismatch, tag, e)
}
