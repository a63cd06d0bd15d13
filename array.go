package ndpack

import (
	"encoding/binary"
	"fmt"
	"slices"
)

// Element is the set of Go types a numeric array can hold.
type Element interface {
	int8 | uint8 | int16 | uint16 | int32 | uint32 | int64 | uint64 | float32 | float64
}

// Buffer is a flat typed array, the innermost level of a NativeArray.
// A Seq of equally shaped Buffers (recursively) is a multi-dimensional
// array.
type Buffer[T Element] []T

// Kind returns the element kind of the buffer.
func (b Buffer[T]) Kind() ElementKind { return elementKind[T]() }

// Len returns the number of elements.
func (b Buffer[T]) Len() int { return len(b) }

// AppendBytes appends the raw bytes of the buffer in the given order.
func (b Buffer[T]) AppendBytes(dst []byte, order Endianness) []byte {
	out, err := binary.Append(dst, order.byteOrder(), []T(b))
	if err != nil {
		// Every Element is fixed size; binary.Append cannot fail here.
		panic(err)
	}
	return out
}

func (b Buffer[T]) flatten(v Value) numericBuffer { return Buffer[T](flattenAs[T](v)) }

func (b Buffer[T]) reshape(shape []int) (Value, error) { return splitAll(b, shape) }

// numericBuffer is implemented by every Buffer instantiation.
type numericBuffer interface {
	Value
	Kind() ElementKind
	Len() int
	AppendBytes(dst []byte, order Endianness) []byte
	flatten(v Value) numericBuffer
	reshape(shape []int) (Value, error)
}

var _ numericBuffer = Buffer[float64](nil)

func elementKind[T Element]() ElementKind {
	var zero T
	switch any(zero).(type) {
	case int8:
		return KindInt8
	case uint8:
		return KindUint8
	case int16:
		return KindInt16
	case uint16:
		return KindUint16
	case int32:
		return KindInt32
	case uint32:
		return KindUint32
	case int64:
		return KindInt64
	case uint64:
		return KindUint64
	case float32:
		return KindFloat32
	case float64:
		return KindFloat64
	}
	return KindInvalid
}

func decodeAs[T Element](data []byte, order Endianness) (numericBuffer, error) {
	var zero T
	out := make(Buffer[T], len(data)/binary.Size(zero))
	if _, err := binary.Decode(data, order.byteOrder(), []T(out)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrShapeMismatch, err)
	}
	return out, nil
}

// decodeBuffer copies data into a new Buffer of the given kind.
func decodeBuffer(kind ElementKind, data []byte, order Endianness) (numericBuffer, error) {
	switch kind {
	case KindInt8:
		return decodeAs[int8](data, order)
	case KindUint8:
		return decodeAs[uint8](data, order)
	case KindInt16:
		return decodeAs[int16](data, order)
	case KindUint16:
		return decodeAs[uint16](data, order)
	case KindInt32:
		return decodeAs[int32](data, order)
	case KindUint32:
		return decodeAs[uint32](data, order)
	case KindInt64:
		return decodeAs[int64](data, order)
	case KindUint64:
		return decodeAs[uint64](data, order)
	case KindFloat32:
		return decodeAs[float32](data, order)
	case KindFloat64:
		return decodeAs[float64](data, order)
	}
	return nil, fmt.Errorf("%w: kind %s", ErrUnknownDtype, kind)
}

// ArrayMap is the wire form of an array: a four-entry map with binary keys
// nd, type, shape and data.
type ArrayMap struct {
	Dtype string
	Shape []int
	Data  []byte
}

// Map returns the generic map form of a, as a decoder without array
// support would see it.
func (a ArrayMap) Map() Map {
	shape := make(Seq, len(a.Shape))
	for i, d := range a.Shape {
		shape[i] = Int(d)
	}
	return Map{
		{Key: Binary(keyND), Value: Bool(true)},
		{Key: Binary(keyType), Value: Text(a.Dtype)},
		{Key: Binary(keyShape), Value: shape},
		{Key: Binary(keyData), Value: Binary(a.Data)},
	}
}

const (
	keyND    = "nd"
	keyType  = "type"
	keyShape = "shape"
	keyData  = "data"
)

// arrayShape returns the shape of a rectangular homogeneous array, innermost
// dimension first, together with one of its leaves. ok is false for
// anything else, including empty sequences.
func arrayShape(v Value) (shape []int, leaf numericBuffer, ok bool) {
	switch x := v.(type) {
	case numericBuffer:
		return []int{x.Len()}, x, true
	case Seq:
		if len(x) == 0 {
			return nil, nil, false
		}
		for i, child := range x {
			s, l, ok := arrayShape(child)
			if !ok {
				return nil, nil, false
			}
			if i == 0 {
				shape, leaf = s, l
				continue
			}
			if !slices.Equal(s, shape) || l.Kind() != leaf.Kind() {
				return nil, nil, false
			}
		}
		return append(shape, len(x)), leaf, true
	}
	return nil, nil, false
}

// packBuffer builds the array map of a flat buffer.
func (c *Codec) packBuffer(b numericBuffer) (ArrayMap, error) {
	tag, err := c.registry.EncodeTag(b.Kind(), c.host)
	if err != nil {
		return ArrayMap{}, err
	}
	return ArrayMap{
		Dtype: tag,
		Shape: []int{b.Len()},
		Data:  b.AppendBytes(make([]byte, 0, b.Len()*b.Kind().Width()), c.host),
	}, nil
}

// packArray flattens a rectangular array into an array map. ok is false when
// v is not rectangular and homogeneous.
func (c *Codec) packArray(v Value) (m ArrayMap, ok bool, err error) {
	shape, leaf, ok := arrayShape(v)
	if !ok {
		return ArrayMap{}, false, nil
	}
	m, err = c.packBuffer(leaf.flatten(v))
	if err != nil {
		return ArrayMap{}, false, err
	}
	m.Shape = shape
	return m, true, nil
}

// arrayTag reports whether m is an array map (an nd entry that is neither
// nil nor false, and a non-empty text type entry) and returns its dtype tag.
func arrayTag(m Map) (string, bool) {
	nd, ok := m.Get(keyND)
	if !ok {
		return "", false
	}
	switch x := nd.(type) {
	case Null:
		return "", false
	case Bool:
		if !x {
			return "", false
		}
	}
	t, _ := m.Get(keyType)
	text, ok := t.(Text)
	return string(text), ok && text != ""
}

func arrayData(m Map, tag string) ([]byte, error) {
	v, _ := m.Get(keyData)
	switch d := v.(type) {
	case Binary:
		return d, nil
	case Text:
		return []byte(d), nil
	}
	return nil, fmt.Errorf("%w: dtype %q has no binary data", ErrMalformedArray, tag)
}

// arrayShapeField reads the shape entry. A missing shape yields nil.
func arrayShapeField(m Map, tag string) ([]int, error) {
	v, ok := m.Get(keyShape)
	if !ok {
		return nil, nil
	}
	seq, ok := v.(Seq)
	if !ok {
		return nil, fmt.Errorf("%w: dtype %q shape is not an array", ErrMalformedArray, tag)
	}
	shape := make([]int, len(seq))
	for i, e := range seq {
		switch n := e.(type) {
		case Int:
			shape[i] = int(n)
		case Uint:
			shape[i] = int(n)
		default:
			return nil, fmt.Errorf("%w: dtype %q shape entry %d is not an integer", ErrMalformedArray, tag, i)
		}
	}
	return shape, nil
}

// unpackArrayMap converts an array map into a Buffer, nested Seq or
// *UnicodeArray.
//
// ok is false when m must stay a plain map: either it is not an array map,
// or its dtype is unknown, in which case a warning has been emitted.
func (c *Codec) unpackArrayMap(w *walker, m Map) (v Value, ok bool, err error) {
	tag, isArray := arrayTag(m)
	if !isArray {
		return nil, false, nil
	}
	dt, err := ParseDtype(tag)
	if err != nil {
		if len(tag) == 1 && Endianness(tag[0]).isOrder() {
			// A bare byte order names no element type.
			if err := c.host.accept(Endianness(tag[0]), tag); err != nil {
				return nil, false, err
			}
			w.warn(Warning{Dtype: tag, Err: fmt.Errorf("%w: %q", ErrUnknownDtype, tag)})
			return nil, false, nil
		}
		return nil, false, err
	}
	if err := c.host.accept(dt.Order, tag); err != nil {
		return nil, false, err
	}

	if dt.IsUnicode() {
		data, err := arrayData(m, tag)
		if err != nil {
			return nil, false, err
		}
		if err := c.limits.checkArray(tag, data); err != nil {
			return nil, false, err
		}
		u, err := decodeUnicode(dt, data, c.host)
		if err != nil {
			return nil, false, err
		}
		return u, true, nil
	}

	kind, known := c.registry.Resolve(tag)
	if !known {
		w.warn(Warning{Dtype: tag, Err: fmt.Errorf("%w: %q", ErrUnknownDtype, tag)})
		return nil, false, nil
	}
	data, err := arrayData(m, tag)
	if err != nil {
		return nil, false, err
	}
	if err := c.limits.checkArray(tag, data); err != nil {
		return nil, false, err
	}
	shape, err := arrayShapeField(m, tag)
	if err != nil {
		return nil, false, err
	}
	if shape == nil {
		shape = []int{len(data) / kind.Width()}
	}
	if err := validateArray(tag, kind, shape, data); err != nil {
		return nil, false, err
	}
	buf, err := decodeBuffer(kind, data, c.host)
	if err != nil {
		return nil, false, err
	}
	out, err := buf.reshape(shape)
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}
