package ndpack

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func encodeRaw(t *testing.T, v Value) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, newEncoder(&buf, NewRegistry()).encode(v))
	return buf.Bytes()
}

func TestEncoderContainerHeaders(t *testing.T) {
	small := make(Seq, 15)
	for i := range small {
		small[i] = Int(i)
	}
	require.Equal(t, byte(0x9f), encodeRaw(t, small)[0])

	big := append(small, Int(15))
	require.Equal(t, []byte{0xdc, 0x00, 0x10}, encodeRaw(t, big)[:3])

	m := make(Map, 16)
	for i := range m {
		m[i] = Entry{Key: Text(fmt.Sprintf("k%02d", i)), Value: Bool(i%2 == 0)}
	}
	require.Equal(t, []byte{0xde, 0x00, 0x10}, encodeRaw(t, m)[:3])
	require.Equal(t, byte(0x8f), encodeRaw(t, m[:15])[0])

	huge := make(Seq, 70000)
	for i := range huge {
		huge[i] = Null{}
	}
	require.Equal(t, []byte{0xdd, 0x00, 0x01, 0x11, 0x70}, encodeRaw(t, huge)[:5])

	for _, v := range []Value{big, m, huge} {
		got, err := readValue(bytes.NewReader(encodeRaw(t, v)), defaultLimits())
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestEncoderBinHeaders(t *testing.T) {
	require.Equal(t, []byte{0xc4, 0x00}, encodeRaw(t, Binary{}))
	require.Equal(t, []byte{0xc4, 0xff}, encodeRaw(t, make(Binary, 255))[:2])
	require.Equal(t, []byte{0xc5, 0x01, 0x2c}, encodeRaw(t, make(Binary, 300))[:3])
	require.Equal(t, []byte{0xc6, 0x00, 0x01, 0x00, 0x00}, encodeRaw(t, make(Binary, 1<<16))[:5])

	got, err := readValue(bytes.NewReader(encodeRaw(t, make(Binary, 300))), defaultLimits())
	require.NoError(t, err)
	require.Equal(t, make(Binary, 300), got)
}

func TestEncoderKeys(t *testing.T) {
	got := encodeRaw(t, Map{
		{Key: Text("a"), Value: Int(1)},
		{Key: Binary("b"), Value: Int(2)},
	})
	require.Equal(t, []byte{0x82, 0xa1, 'a', 0x01, 0xc4, 0x01, 'b', 0x02}, got)
}

func TestEncoderExt(t *testing.T) {
	require.Equal(t, []byte{0xd4, 0x05, 0xaa}, encodeRaw(t, Ext{Type: 5, Data: []byte{0xaa}}))
	require.Equal(t, []byte{0xc7, 0x03, 0x01, 1, 2, 3}, encodeRaw(t, Ext{Type: 1, Data: []byte{1, 2, 3}}))
}

func TestEncoderRejectsUnpackedArrays(t *testing.T) {
	var buf bytes.Buffer
	e := newEncoder(&buf, NewRegistry())
	require.ErrorIs(t, e.encode(Buffer[float64]{1}), ErrUnsupportedValue)
	require.ErrorIs(t, e.encode(UnicodeArrayFromStrings([]string{"x"})), ErrUnsupportedValue)
	require.ErrorIs(t, e.encode(Seq{Buffer[int8]{1}}), ErrUnsupportedValue)
}

func TestEncoderValidatesArrayMaps(t *testing.T) {
	var buf bytes.Buffer
	e := newEncoder(&buf, NewRegistry())
	require.ErrorIs(t, e.encode(ArrayMap{Dtype: "<i8", Shape: []int{2}, Data: make([]byte, 8)}), ErrShapeMismatch)
	require.ErrorIs(t, e.encode(ArrayMap{Dtype: "<U2", Shape: []int{1}, Data: make([]byte, 5)}), ErrShapeMismatch)
	require.ErrorIs(t, e.encode(ArrayMap{Dtype: "i8"}), ErrMalformedArray)
	require.Zero(t, buf.Len())
}

func TestReadValueUnknownCode(t *testing.T) {
	_, err := readValue(bytes.NewReader([]byte{0xc1}), defaultLimits())
	require.ErrorIs(t, err, ErrInvalidPayload)
}

func TestReadValueBoundsDeclaredLengths(t *testing.T) {
	small := Limits{MaxArrayBytes: 1024}.withDefaults()
	cases := map[string]struct {
		in   []byte
		want error
	}{
		"bin32 over limit":  {[]byte{0xc6, 0x20, 0, 0, 0, 1}, ErrLimitExceeded},
		"ext32 over limit":  {[]byte{0xc9, 0x20, 0, 0, 0, 1}, ErrLimitExceeded},
		"str32 over limit":  {[]byte{0xdb, 0xff, 0xff, 0xff, 0xff}, ErrLimitExceeded},
		"bin8 past end":     {[]byte{0xc4, 0x10, 1, 2}, ErrInvalidPayload},
		"fixext past end":   {[]byte{0xd8, 0x01, 1, 2}, ErrInvalidPayload},
		"array32 past end":  {[]byte{0xdd, 0xff, 0xff, 0xff, 0xff, 0xc0}, ErrInvalidPayload},
		"map32 past end":    {[]byte{0xdf, 0, 0, 0, 2, 0xc0, 0xc0}, ErrInvalidPayload},
		"nested bin32 size": {[]byte{0x91, 0xc6, 0x20, 0, 0, 0, 1}, ErrLimitExceeded},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := readValue(bytes.NewReader(tc.in), small)
			require.ErrorIs(t, err, tc.want)
		})
	}

	c := leCodec(WithLimits(Limits{MaxArrayBytes: 1024}))
	_, err := c.Unpack([]byte{0xc6, 0x20, 0, 0, 0, 1})
	require.ErrorIs(t, err, ErrLimitExceeded)

	// Lengths that fit are read normally.
	v, err := readValue(bytes.NewReader([]byte{0xc4, 0x02, 7, 8}), small)
	require.NoError(t, err)
	require.Equal(t, Binary{7, 8}, v)
}
