package ndpack

import (
	"encoding/binary"
	"fmt"
	"io"
)

// envelopeHeaderV1 precedes the msgpack payload of an envelope. All fields
// are little-endian.
type envelopeHeaderV1 struct {
	Magic      [8]byte
	Version    uint16
	Flags      uint16
	Reserved   uint32
	PayloadLen uint64
}

func readEnvelopeHeader(r io.Reader) (envelopeHeaderV1, error) {
	var buf [envelopeHeaderSizeV1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return envelopeHeaderV1{}, err
	}
	var h envelopeHeaderV1
	copy(h.Magic[:], buf[0:8])
	h.Version = binary.LittleEndian.Uint16(buf[8:10])
	h.Flags = binary.LittleEndian.Uint16(buf[10:12])
	h.Reserved = binary.LittleEndian.Uint32(buf[12:16])
	h.PayloadLen = binary.LittleEndian.Uint64(buf[16:24])
	return h, nil
}

func writeEnvelopeHeader(w io.Writer, h envelopeHeaderV1) error {
	var buf [envelopeHeaderSizeV1]byte
	copy(buf[0:8], h.Magic[:])
	binary.LittleEndian.PutUint16(buf[8:10], h.Version)
	binary.LittleEndian.PutUint16(buf[10:12], h.Flags)
	binary.LittleEndian.PutUint32(buf[12:16], h.Reserved)
	binary.LittleEndian.PutUint64(buf[16:24], h.PayloadLen)
	_, err := w.Write(buf[:])
	return err
}

func (h envelopeHeaderV1) compression() Compression {
	return Compression(h.Flags & flagCompressionMask)
}

func (h envelopeHeaderV1) hasUncompressedLen() bool {
	return (h.Flags & flagHasUncompressedLen) != 0
}

func validateEnvelopeHeader(h envelopeHeaderV1) error {
	if h.Magic != Magic {
		return ErrInvalidMagic
	}
	if h.Version != VersionV1 {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.Version)
	}
	if h.Reserved != 0 {
		return fmt.Errorf("%w: reserved must be 0", ErrInvalidHeader)
	}
	if h.Flags&^(flagCompressionMask|flagHasUncompressedLen) != 0 {
		return fmt.Errorf("%w: unknown flags 0x%04x", ErrInvalidHeader, h.Flags)
	}
	comp := h.compression()
	switch comp {
	case CompNone, CompZIP, CompZSTD, CompLZ4, CompBR:
	default:
		return fmt.Errorf("%w: unknown compression %d", ErrInvalidHeader, comp)
	}
	if comp == CompNone {
		if h.hasUncompressedLen() {
			return fmt.Errorf("%w: COMP_NONE must not set HAS_UNCOMPRESSED_LEN", ErrInvalidHeader)
		}
	} else if !h.hasUncompressedLen() {
		return fmt.Errorf("%w: compressed payload must set HAS_UNCOMPRESSED_LEN", ErrInvalidHeader)
	}
	return nil
}
