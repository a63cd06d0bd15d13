// Package summary renders decoded ndpack trees for humans: a list of the
// arrays they carry, with BLAKE3 digests of the raw element data, and a
// plain tree that encoding/json and yaml.v3 can marshal.
package summary

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/logicossoftware/go-ndpack"
	"github.com/zeebo/blake3"
)

// Array describes one array map of a packed tree.
type Array struct {
	Path   string `json:"path" yaml:"path"`
	Dtype  string `json:"dtype" yaml:"dtype"`
	Shape  []int  `json:"shape" yaml:"shape,flow"`
	Bytes  int    `json:"bytes" yaml:"bytes"`
	Digest string `json:"blake3" yaml:"blake3"`
}

// Report is the result of inspecting one document.
type Report struct {
	Source   string   `json:"source,omitempty" yaml:"source,omitempty"`
	Arrays   []Array  `json:"arrays" yaml:"arrays"`
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Tree     any      `json:"tree,omitempty" yaml:"tree,omitempty"`
}

// Digest returns the hex BLAKE3-256 digest of data.
func Digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Arrays packs v with c and lists every array map in document order.
// Maps with an unknown dtype are listed too, since they are arrays on the
// wire even if c cannot decode them.
func Arrays(c *ndpack.Codec, v ndpack.Value) ([]Array, error) {
	packed, err := c.PackValue(v)
	if err != nil {
		return nil, err
	}
	var out []Array
	collect(packed, "$", &out)
	return out, nil
}

func collect(v ndpack.Value, path string, out *[]Array) {
	switch x := v.(type) {
	case ndpack.ArrayMap:
		*out = append(*out, Array{
			Path:   path,
			Dtype:  x.Dtype,
			Shape:  x.Shape,
			Bytes:  len(x.Data),
			Digest: Digest(x.Data),
		})
	case ndpack.Seq:
		for i, item := range x {
			collect(item, path+"["+strconv.Itoa(i)+"]", out)
		}
	case ndpack.Map:
		if a, ok := rawArray(x); ok {
			a.Path = path
			*out = append(*out, a)
			return
		}
		for _, e := range x {
			collect(e.Value, path+keyPath(e.Key), out)
		}
	}
}

// rawArray recognises an array map the codec left undecoded.
func rawArray(m ndpack.Map) (Array, bool) {
	nd, ok := m.Get("nd")
	if !ok {
		return Array{}, false
	}
	if b, isBool := nd.(ndpack.Bool); isBool && !bool(b) {
		return Array{}, false
	}
	typ, _ := m.Get("type")
	dtype, ok := typ.(ndpack.Text)
	if !ok {
		return Array{}, false
	}
	a := Array{Dtype: string(dtype)}
	if data, ok := m.Get("data"); ok {
		if bin, ok := data.(ndpack.Binary); ok {
			a.Bytes = len(bin)
			a.Digest = Digest(bin)
		}
	}
	if shape, ok := m.Get("shape"); ok {
		if seq, ok := shape.(ndpack.Seq); ok {
			for _, d := range seq {
				if n, ok := d.(ndpack.Int); ok {
					a.Shape = append(a.Shape, int(n))
				}
			}
		}
	}
	return a, true
}

func keyPath(k ndpack.Value) string {
	switch x := k.(type) {
	case ndpack.Text:
		return "." + string(x)
	case ndpack.Binary:
		return "." + string(x)
	default:
		return "[" + keyString(k) + "]"
	}
}

func keyString(k ndpack.Value) string {
	switch x := k.(type) {
	case ndpack.Text:
		return string(x)
	case ndpack.Binary:
		return string(x)
	case ndpack.Int:
		return strconv.FormatInt(int64(x), 10)
	case ndpack.Uint:
		return strconv.FormatUint(uint64(x), 10)
	case ndpack.Bool:
		return strconv.FormatBool(bool(x))
	case ndpack.Float:
		return strconv.FormatFloat(float64(x), 'g', -1, 64)
	default:
		return fmt.Sprintf("%T", k)
	}
}

// Plain converts a decoded tree into maps, slices and scalars. Arrays are
// replaced by a short description rather than their elements; unicode
// arrays keep their strings.
func Plain(v ndpack.Value) any {
	switch x := v.(type) {
	case nil, ndpack.Null:
		return nil
	case ndpack.Bool:
		return bool(x)
	case ndpack.Int:
		return int64(x)
	case ndpack.Uint:
		return uint64(x)
	case ndpack.Float:
		return float64(x)
	case ndpack.Text:
		return string(x)
	case ndpack.Binary:
		return []byte(x)
	case ndpack.Ext:
		return map[string]any{"ext": int(x.Type), "bytes": len(x.Data)}
	case *ndpack.UnicodeArray:
		return map[string]any{"dtype": x.Dtype(), "strings": x.Strings()}
	case ndpack.ArrayMap:
		return describe(x.Dtype, x.Shape)
	case ndpack.Seq:
		if d, ok := describeArray(x); ok {
			return d
		}
		out := make([]any, len(x))
		for i := range x {
			out[i] = Plain(x[i])
		}
		return out
	case ndpack.Map:
		out := make(map[string]any, len(x))
		for _, e := range x {
			out[keyString(e.Key)] = Plain(e.Value)
		}
		return out
	default:
		if d, ok := describeArray(v); ok {
			return d
		}
		return fmt.Sprintf("%T", v)
	}
}

var packer = ndpack.New()

// describeArray describes Buffers and rectangular Seqs of Buffers by
// packing them into their wire form.
func describeArray(v ndpack.Value) (string, bool) {
	packed, err := packer.PackValue(v)
	if err != nil {
		return "", false
	}
	m, ok := packed.(ndpack.ArrayMap)
	if !ok {
		return "", false
	}
	return describe(m.Dtype, m.Shape), true
}

func describe(dtype string, shape []int) string {
	dims := make([]string, len(shape))
	for i, d := range shape {
		dims[i] = strconv.Itoa(d)
	}
	return "ndarray<" + dtype + ">[" + strings.Join(dims, ",") + "]"
}
