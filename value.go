package ndpack

// Value is a node of a decoded or to-be-encoded tree.
//
// The set of implementations is closed: Null, Bool, Int, Uint, Float, Text,
// Binary, Ext, Seq, Map, Buffer, *UnicodeArray and ArrayMap.
type Value interface {
	isValue()
}

type Null struct{}

type Bool bool

type Int int64

// Uint holds unsigned integers that do not fit in an Int.
type Uint uint64

type Float float64

type Text string

// Binary is a raw byte blob. It is distinct from Text on the wire.
type Binary []byte

// Ext is a msgpack extension value carried through unchanged.
type Ext struct {
	Type int8
	Data []byte
}

// Seq is an ordered sequence.
type Seq []Value

// Entry is one key/value pair of a Map.
type Entry struct {
	Key   Value
	Value Value
}

// Map is an ordered mapping. Keys are usually Text or Binary.
type Map []Entry

func (Null) isValue()          {}
func (Bool) isValue()          {}
func (Int) isValue()           {}
func (Uint) isValue()          {}
func (Float) isValue()         {}
func (Text) isValue()          {}
func (Binary) isValue()        {}
func (Ext) isValue()           {}
func (Seq) isValue()           {}
func (Map) isValue()           {}
func (Buffer[T]) isValue()     {}
func (*UnicodeArray) isValue() {}
func (ArrayMap) isValue()      {}

// Get returns the value stored under key, matching both Text and Binary
// keys with the same bytes.
func (m Map) Get(key string) (Value, bool) {
	for _, e := range m {
		switch k := e.Key.(type) {
		case Text:
			if string(k) == key {
				return e.Value, true
			}
		case Binary:
			if string(k) == key {
				return e.Value, true
			}
		}
	}
	return nil, false
}

// Of converts common Go values into a Value tree. Slices of the ten element
// types become Buffers, []byte becomes Binary, map[string]any becomes a Map
// with keys in unspecified order. It panics on unsupported types.
func Of(v any) Value {
	switch x := v.(type) {
	case nil:
		return Null{}
	case Value:
		return x
	case bool:
		return Bool(x)
	case int:
		return Int(x)
	case int64:
		return Int(x)
	case uint64:
		return Uint(x)
	case float64:
		return Float(x)
	case string:
		return Text(x)
	case []byte:
		return Binary(x)
	case []int8:
		return Buffer[int8](x)
	case []int16:
		return Buffer[int16](x)
	case []uint16:
		return Buffer[uint16](x)
	case []int32:
		return Buffer[int32](x)
	case []uint32:
		return Buffer[uint32](x)
	case []int64:
		return Buffer[int64](x)
	case []uint64:
		return Buffer[uint64](x)
	case []float32:
		return Buffer[float32](x)
	case []float64:
		return Buffer[float64](x)
	case []any:
		out := make(Seq, len(x))
		for i := range x {
			out[i] = Of(x[i])
		}
		return out
	case map[string]any:
		out := make(Map, 0, len(x))
		for k, vv := range x {
			out = append(out, Entry{Key: Text(k), Value: Of(vv)})
		}
		return out
	default:
		panic("ndpack: unsupported type for Of")
	}
}
