package ndpack

import (
	"fmt"
	"maps"
	"strconv"
	"strings"
)

// ElementKind identifies the scalar type of a numeric array.
type ElementKind uint8

const (
	KindInvalid ElementKind = iota
	KindInt8
	KindUint8
	KindInt16
	KindUint16
	KindInt32
	KindUint32
	KindInt64
	KindUint64
	KindFloat32
	KindFloat64
)

var kindNames = [...]string{
	KindInvalid: "invalid",
	KindInt8:    "int8",
	KindUint8:   "uint8",
	KindInt16:   "int16",
	KindUint16:  "uint16",
	KindInt32:   "int32",
	KindUint32:  "uint32",
	KindInt64:   "int64",
	KindUint64:  "uint64",
	KindFloat32: "float32",
	KindFloat64: "float64",
}

func (k ElementKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "ElementKind(" + strconv.Itoa(int(k)) + ")"
}

// Width is the size of one element in bytes.
func (k ElementKind) Width() int {
	switch k {
	case KindInt8, KindUint8:
		return 1
	case KindInt16, KindUint16:
		return 2
	case KindInt32, KindUint32, KindFloat32:
		return 4
	case KindInt64, KindUint64, KindFloat64:
		return 8
	default:
		return 0
	}
}

// Dtype is a parsed dtype tag such as "<f8" or "|U12".
type Dtype struct {
	Order Endianness
	Code  string
}

func (d Dtype) String() string { return string(rune(d.Order)) + d.Code }

// IsUnicode reports whether the dtype describes fixed-width UCS-4 text.
func (d Dtype) IsUnicode() bool { return strings.HasPrefix(d.Code, "U") }

// CharsPerString returns n for a "U<n>" code.
func (d Dtype) CharsPerString() (int, error) {
	if !d.IsUnicode() {
		return 0, fmt.Errorf("%w: %q is not a unicode dtype", ErrMalformedArray, d.String())
	}
	n, err := strconv.Atoi(d.Code[1:])
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: bad unicode width in %q", ErrMalformedArray, d.String())
	}
	return n, nil
}

// ParseDtype splits a tag into its byte-order character and type code.
func ParseDtype(tag string) (Dtype, error) {
	if len(tag) < 2 {
		return Dtype{}, fmt.Errorf("%w: dtype %q too short", ErrMalformedArray, tag)
	}
	order := Endianness(tag[0])
	if !order.isOrder() {
		return Dtype{}, fmt.Errorf("%w: dtype %q has unknown byte order %q", ErrMalformedArray, tag, tag[0])
	}
	return Dtype{Order: order, Code: tag[1:]}, nil
}

// Registry maps dtype codes to element kinds and back.
type Registry struct {
	byCode map[string]ElementKind
	byKind map[ElementKind]string
}

// NewRegistry returns the standard numpy code table.
//
// Several codes share a kind ("b" and "i1", "I4" and "u4"); EncodeTag always
// emits the canonical one.
func NewRegistry() *Registry {
	return &Registry{
		byCode: map[string]ElementKind{
			"b": KindInt8,
			"B": KindUint8,

			"i1": KindInt8,
			"i2": KindInt16,
			"i4": KindInt32,
			"i8": KindInt64,

			"I1": KindUint8,
			"I2": KindUint16,
			"I4": KindUint32,
			"I8": KindUint64,

			"u1": KindUint8,
			"u2": KindUint16,
			"u4": KindUint32,
			"u8": KindUint64,

			"f4": KindFloat32,
			"f8": KindFloat64,
		},
		byKind: map[ElementKind]string{
			KindInt8:    "b",
			KindUint8:   "u1",
			KindInt16:   "i2",
			KindInt32:   "i4",
			KindInt64:   "i8",
			KindUint16:  "I2",
			KindUint32:  "I4",
			KindUint64:  "I8",
			KindFloat32: "f4",
			KindFloat64: "f8",
		},
	}
}

// Without returns a copy of r that no longer resolves the given codes.
// Arrays tagged with them are then left undecoded with a warning, and a
// kind whose canonical code was removed can no longer be packed.
func (r *Registry) Without(codes ...string) *Registry {
	out := &Registry{
		byCode: maps.Clone(r.byCode),
		byKind: maps.Clone(r.byKind),
	}
	for _, code := range codes {
		delete(out.byCode, code)
		for k, c := range out.byKind {
			if c == code {
				delete(out.byKind, k)
			}
		}
	}
	return out
}

// Resolve looks up the element kind for a tag, ignoring its byte-order
// character. Unicode and unknown codes report false.
func (r *Registry) Resolve(tag string) (ElementKind, bool) {
	if len(tag) < 2 {
		return KindInvalid, false
	}
	k, ok := r.byCode[tag[1:]]
	return k, ok
}

// EncodeTag returns the canonical tag for kind in the host byte order.
func (r *Registry) EncodeTag(kind ElementKind, host Endianness) (string, error) {
	code, ok := r.byKind[kind]
	if !ok {
		return "", fmt.Errorf("%w: no dtype for kind %s", ErrUnknownDtype, kind)
	}
	return string(rune(host)) + code, nil
}

// Codes returns every code the registry resolves.
func (r *Registry) Codes() []string {
	out := make([]string, 0, len(r.byCode))
	for c := range r.byCode {
		out = append(out, c)
	}
	return out
}
