package ndpack

import (
	"fmt"
	"slices"
	"strings"
)

// UnicodeArray is a numpy fixed-width text array: every string occupies
// CharsPerString slots of one UCS-4 code point each.
//
// The dtype is kept verbatim so packing reproduces it exactly.
type UnicodeArray struct {
	dtype      string
	codePoints []uint32
}

// NewUnicodeArray copies codePoints into a new array described by dtype,
// e.g. "<U8".
func NewUnicodeArray(dtype string, codePoints []uint32) (*UnicodeArray, error) {
	dt, err := ParseDtype(dtype)
	if err != nil {
		return nil, err
	}
	n, err := dt.CharsPerString()
	if err != nil {
		return nil, err
	}
	if n > 0 && len(codePoints)%n != 0 {
		return nil, fmt.Errorf("%w: %d code points do not fill %q strings", ErrShapeMismatch, len(codePoints), dtype)
	}
	return &UnicodeArray{dtype: dtype, codePoints: slices.Clone(codePoints)}, nil
}

// UnicodeArrayFromStrings pads each string with NULs to the longest one and
// builds a host-order array.
func UnicodeArrayFromStrings(strs []string) *UnicodeArray {
	width := 0
	runes := make([][]rune, len(strs))
	for i, s := range strs {
		runes[i] = []rune(s)
		width = max(width, len(runes[i]))
	}
	cps := make([]uint32, 0, width*len(strs))
	for _, r := range runes {
		for _, c := range r {
			cps = append(cps, uint32(c))
		}
		for j := len(r); j < width; j++ {
			cps = append(cps, 0)
		}
	}
	return &UnicodeArray{
		dtype:      fmt.Sprintf("%cU%d", nativeEndianness, width),
		codePoints: cps,
	}
}

func (u *UnicodeArray) Dtype() string { return u.dtype }

// CodePoints returns a copy of the code points.
func (u *UnicodeArray) CodePoints() []uint32 { return slices.Clone(u.codePoints) }

// Len returns the number of code points.
func (u *UnicodeArray) Len() int { return len(u.codePoints) }

func (u *UnicodeArray) charsPerString() int {
	dt, err := ParseDtype(u.dtype)
	if err != nil {
		return 0
	}
	n, err := dt.CharsPerString()
	if err != nil {
		return 0
	}
	return n
}

// Shape is the number of strings, derived from the dtype width.
func (u *UnicodeArray) Shape() []int {
	n := u.charsPerString()
	if n == 0 {
		return []int{0}
	}
	return []int{len(u.codePoints) / n}
}

// Strings decodes every slot, dropping trailing NUL padding.
func (u *UnicodeArray) Strings() []string {
	n := u.charsPerString()
	if n == 0 {
		return nil
	}
	out := make([]string, 0, len(u.codePoints)/n)
	var sb strings.Builder
	for i := 0; i+n <= len(u.codePoints); i += n {
		sb.Reset()
		for _, c := range u.codePoints[i : i+n] {
			sb.WriteRune(rune(c))
		}
		out = append(out, strings.TrimRight(sb.String(), "\x00"))
	}
	return out
}

// Equal reports whether both arrays have the same dtype and code points.
func (u *UnicodeArray) Equal(o *UnicodeArray) bool {
	if u == nil || o == nil {
		return u == o
	}
	return u.dtype == o.dtype && slices.Equal(u.codePoints, o.codePoints)
}

// arrayMap builds the wire form with the stored dtype and derived shape.
// Code points are written in the dtype's byte order when it names one.
func (u *UnicodeArray) arrayMap(host Endianness) ArrayMap {
	order := host
	if dt, err := ParseDtype(u.dtype); err == nil && (dt.Order == LittleEndian || dt.Order == BigEndian) {
		order = dt.Order
	}
	return ArrayMap{
		Dtype: u.dtype,
		Shape: u.Shape(),
		Data:  Buffer[uint32](u.codePoints).AppendBytes(make([]byte, 0, 4*len(u.codePoints)), order),
	}
}

// decodeUnicode views data as UCS-4 code points. The shape entry of the wire
// map is not consulted.
func decodeUnicode(dt Dtype, data []byte, host Endianness) (*UnicodeArray, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("%w: dtype %q data of %d bytes is not whole code points", ErrShapeMismatch, dt, len(data))
	}
	if _, err := dt.CharsPerString(); err != nil {
		return nil, err
	}
	buf, err := decodeAs[uint32](data, host)
	if err != nil {
		return nil, err
	}
	return &UnicodeArray{dtype: dt.String(), codePoints: buf.(Buffer[uint32])}, nil
}
