package ndpack

import (
	"fmt"
	"strconv"
	"strings"
)

// walker tracks the path of the value being converted so warnings and
// errors can name it.
type walker struct {
	c    *Codec
	path []string
}

func (w *walker) push(elem string) { w.path = append(w.path, elem) }

func (w *walker) pop() { w.path = w.path[:len(w.path)-1] }

func (w *walker) where() string {
	return "$" + strings.Join(w.path, "")
}

func (w *walker) warn(warning Warning) {
	warning.Path = w.where()
	w.c.logger.Warn("array map left undecoded", "path", warning.Path, "dtype", warning.Dtype, "err", warning.Err)
	if w.c.onWarning != nil {
		w.c.onWarning(warning)
	}
}

func (w *walker) fail(err error) error {
	return fmt.Errorf("%s: %w", w.where(), err)
}

func keyElem(k Value) string {
	switch x := k.(type) {
	case Text:
		return "." + string(x)
	case Binary:
		return "." + string(x)
	case Int:
		return "[" + strconv.FormatInt(int64(x), 10) + "]"
	default:
		return "[?]"
	}
}

// UnpackValue converts every array map in v into a Buffer, a nested Seq of
// Buffers or a *UnicodeArray. Other values are rebuilt unchanged.
func (c *Codec) UnpackValue(v Value) (Value, error) {
	w := &walker{c: c}
	return w.unpack(v)
}

func (w *walker) unpack(v Value) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null{}, nil
	case Seq:
		out := make(Seq, len(x))
		for i := range x {
			w.push("[" + strconv.Itoa(i) + "]")
			u, err := w.unpack(x[i])
			w.pop()
			if err != nil {
				return nil, err
			}
			out[i] = u
		}
		return out, nil
	case Map:
		arr, ok, err := w.c.unpackArrayMap(w, x)
		if err != nil {
			return nil, w.fail(err)
		}
		if ok {
			return arr, nil
		}
		out := make(Map, len(x))
		for i, e := range x {
			w.push(keyElem(e.Key))
			u, err := w.unpack(e.Value)
			w.pop()
			if err != nil {
				return nil, err
			}
			out[i] = Entry{Key: e.Key, Value: u}
		}
		return out, nil
	case ArrayMap:
		return w.unpack(x.Map())
	case Null, Bool, Int, Uint, Float, Text, Binary, Ext, numericBuffer, *UnicodeArray:
		return x, nil
	default:
		return nil, w.fail(fmt.Errorf("%w: %T", ErrUnsupportedValue, v))
	}
}

// PackValue converts every array in v into an ArrayMap: Buffers, rectangular
// Seqs of Buffers sharing one element kind, and UnicodeArrays. Anything else
// is rebuilt unchanged, so packing an already packed tree is the identity.
func (c *Codec) PackValue(v Value) (Value, error) {
	w := &walker{c: c}
	return w.pack(v)
}

func (w *walker) pack(v Value) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null{}, nil
	case *UnicodeArray:
		if x == nil {
			return Null{}, nil
		}
		return x.arrayMap(w.c.host), nil
	case numericBuffer:
		m, err := w.c.packBuffer(x)
		if err != nil {
			return nil, w.fail(err)
		}
		return m, nil
	case Seq:
		m, ok, err := w.c.packArray(x)
		if err != nil {
			return nil, w.fail(err)
		}
		if ok {
			return m, nil
		}
		out := make(Seq, len(x))
		for i := range x {
			w.push("[" + strconv.Itoa(i) + "]")
			p, err := w.pack(x[i])
			w.pop()
			if err != nil {
				return nil, err
			}
			out[i] = p
		}
		return out, nil
	case Map:
		out := make(Map, len(x))
		for i, e := range x {
			w.push(keyElem(e.Key))
			p, err := w.pack(e.Value)
			w.pop()
			if err != nil {
				return nil, err
			}
			out[i] = Entry{Key: e.Key, Value: p}
		}
		return out, nil
	case Null, Bool, Int, Uint, Float, Text, Binary, Ext, ArrayMap:
		return x, nil
	default:
		return nil, w.fail(fmt.Errorf("%w: %T", ErrUnsupportedValue, v))
	}
}
