package ndpack

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDtype(t *testing.T) {
	dt, err := ParseDtype("<f8")
	require.NoError(t, err)
	require.Equal(t, LittleEndian, dt.Order)
	require.Equal(t, "f8", dt.Code)
	require.Equal(t, "<f8", dt.String())
	require.False(t, dt.IsUnicode())

	dt, err = ParseDtype("|U12")
	require.NoError(t, err)
	require.True(t, dt.IsUnicode())
	n, err := dt.CharsPerString()
	require.NoError(t, err)
	require.Equal(t, 12, n)

	_, err = ParseDtype("f")
	require.ErrorIs(t, err, ErrMalformedArray)
	_, err = ParseDtype("!f8")
	require.ErrorIs(t, err, ErrMalformedArray)

	_, err = Dtype{Order: LittleEndian, Code: "f8"}.CharsPerString()
	require.ErrorIs(t, err, ErrMalformedArray)
	_, err = Dtype{Order: LittleEndian, Code: "U-1"}.CharsPerString()
	require.ErrorIs(t, err, ErrMalformedArray)
}

func TestRegistryResolve(t *testing.T) {
	r := NewRegistry()
	cases := map[string]ElementKind{
		"|b":  KindInt8,
		"|B":  KindUint8,
		"|i1": KindInt8,
		"<i2": KindInt16,
		">i4": KindInt32,
		"=i8": KindInt64,
		"|I1": KindUint8,
		"<I2": KindUint16,
		"<I4": KindUint32,
		"<I8": KindUint64,
		"|u1": KindUint8,
		"<u2": KindUint16,
		"<u4": KindUint32,
		"<u8": KindUint64,
		"<f4": KindFloat32,
		"<f8": KindFloat64,
	}
	for tag, want := range cases {
		got, ok := r.Resolve(tag)
		require.True(t, ok, tag)
		require.Equal(t, want, got, tag)
	}
	require.Len(t, r.Codes(), len(cases))

	for _, tag := range []string{"<U4", "<z9", "<f2", "<c16", "x"} {
		_, ok := r.Resolve(tag)
		require.False(t, ok, tag)
	}
}

func TestRegistryEncodeTag(t *testing.T) {
	r := NewRegistry()
	for _, kind := range []ElementKind{
		KindInt8, KindUint8, KindInt16, KindUint16, KindInt32,
		KindUint32, KindInt64, KindUint64, KindFloat32, KindFloat64,
	} {
		tag, err := r.EncodeTag(kind, BigEndian)
		require.NoError(t, err)
		require.Equal(t, byte('>'), tag[0])
		back, ok := r.Resolve(tag)
		require.True(t, ok)
		require.Equal(t, kind, back, "canonical tag %s", tag)
	}

	tag, err := r.EncodeTag(KindUint32, LittleEndian)
	require.NoError(t, err)
	require.Equal(t, "<I4", tag)

	_, err = r.EncodeTag(KindInvalid, LittleEndian)
	require.ErrorIs(t, err, ErrUnknownDtype)
}

func TestElementKind(t *testing.T) {
	require.Equal(t, "float32", KindFloat32.String())
	require.Equal(t, "ElementKind(42)", ElementKind(42).String())
	require.Equal(t, 1, KindUint8.Width())
	require.Equal(t, 2, KindInt16.Width())
	require.Equal(t, 4, KindFloat32.Width())
	require.Equal(t, 8, KindUint64.Width())
	require.Equal(t, 0, KindInvalid.Width())

	require.Equal(t, KindInt8, Buffer[int8]{}.Kind())
	require.Equal(t, KindUint64, Buffer[uint64]{}.Kind())
	require.Equal(t, KindFloat64, Buffer[float64]{}.Kind())
}

func TestEndianness(t *testing.T) {
	require.Contains(t, []Endianness{LittleEndian, BigEndian}, NativeEndianness())
	require.Equal(t, "little", LittleEndian.String())
	require.Equal(t, "not-applicable", NotApplicable.String())

	require.NoError(t, LittleEndian.accept(LittleEndian, "<i4"))
	require.NoError(t, LittleEndian.accept(NotApplicable, "|u1"))
	require.NoError(t, BigEndian.accept(NativeOrder, "=f8"))
	require.ErrorIs(t, LittleEndian.accept(BigEndian, ">f8"), ErrEndiannessMismatch)
	require.ErrorIs(t, BigEndian.accept(LittleEndian, "<f8"), ErrEndiannessMismatch)
}

func TestCanonicalTagsRoundTrip(t *testing.T) {
	r := NewRegistry()
	for _, code := range []string{"b", "u1", "i2", "I2", "i4", "I4", "i8", "I8", "f4", "f8"} {
		tag := "<" + code
		kind, ok := r.Resolve(tag)
		require.True(t, ok, tag)
		back, err := r.EncodeTag(kind, LittleEndian)
		require.NoError(t, err)
		require.Equal(t, tag, back)
	}

	// Aliases resolve to the same kind and re-encode canonically.
	kind, _ := r.Resolve("<i1")
	tag, err := r.EncodeTag(kind, LittleEndian)
	require.NoError(t, err)
	require.Equal(t, "<b", tag)
}

func TestRegistryWithout(t *testing.T) {
	base := NewRegistry()
	r := base.Without("f4", "i1")

	_, ok := r.Resolve("<f4")
	require.False(t, ok)
	_, ok = r.Resolve("<i1")
	require.False(t, ok)
	kind, ok := r.Resolve("<b")
	require.True(t, ok)
	require.Equal(t, KindInt8, kind)

	_, err := r.EncodeTag(KindFloat32, LittleEndian)
	require.ErrorIs(t, err, ErrUnknownDtype)
	tag, err := r.EncodeTag(KindInt8, LittleEndian)
	require.NoError(t, err)
	require.Equal(t, "<b", tag)

	// The source registry is untouched.
	_, ok = base.Resolve("<f4")
	require.True(t, ok)
	require.Len(t, r.Codes(), len(base.Codes())-2)
}
