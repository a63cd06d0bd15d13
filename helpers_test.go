package ndpack

import (
	"encoding/binary"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

// quietCodec returns a codec that logs into a test hook instead of stderr.
func quietCodec(opts ...Option) (*Codec, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetOutput(io.Discard)
	logger.SetLevel(logrus.DebugLevel)
	opts = append([]Option{WithLogger(NewLogrusLogger(logger))}, opts...)
	return New(opts...), hook
}

// wireArrayMap hand-assembles the msgpack bytes of an array map the way an
// external numpy producer lays it out, without going through the encoder
// under test. Lengths must fit the short forms used here.
func wireArrayMap(dtype string, shape []int, data []byte) []byte {
	b := []byte{0x84}
	b = appendBinKey(b, "nd")
	b = append(b, 0xc3)
	b = appendBinKey(b, "type")
	b = append(b, 0xa0|byte(len(dtype)))
	b = append(b, dtype...)
	b = appendBinKey(b, "shape")
	b = append(b, 0x90|byte(len(shape)))
	for _, d := range shape {
		b = append(b, byte(d))
	}
	b = appendBinKey(b, "data")
	if len(data) <= 0xff {
		b = append(b, 0xc4, byte(len(data)))
	} else {
		b = append(b, 0xc5, 0, 0)
		binary.BigEndian.PutUint16(b[len(b)-2:], uint16(len(data)))
	}
	return append(b, data...)
}

func appendBinKey(b []byte, key string) []byte {
	b = append(b, 0xc4, byte(len(key)))
	return append(b, key...)
}

// leBytes encodes little-endian values of a fixed-size type.
func leBytes(v any) []byte {
	out, err := binary.Append(nil, binary.LittleEndian, v)
	if err != nil {
		panic(err)
	}
	return out
}
