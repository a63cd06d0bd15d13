// Package ndpack encodes and decodes MessagePack documents that carry numpy
// arrays in the "array-as-map" convention.
//
// On the wire, a homogeneous array is a msgpack map with four binary-string
// keys:
//
//	nd     true
//	type   dtype tag such as "<f8", "|u1" or "<U12"
//	shape  array of dimension sizes
//	data   bin holding the raw elements
//
// Everything else is ordinary msgpack. ndpack decodes a document into a
// [Value] tree in which array maps have been replaced by [Buffer] values
// (nested in [Seq] levels for rank > 1) or [*UnicodeArray] values, and
// packs such a tree back into byte-identical array maps.
//
// # Basic Usage
//
// To decode:
//
//	v, err := ndpack.Unpack(data)
//	root := v.(ndpack.Map)
//	pos, _ := root.Get("pos")
//	xs := pos.(ndpack.Buffer[float64])
//
// To encode:
//
//	data, err := ndpack.Pack(ndpack.Map{
//		{Key: ndpack.Text("pos"), Value: ndpack.Buffer[float64]{1, 2, 3}},
//	})
//
// # Layout of multi-dimensional arrays
//
// A multi-dimensional array is a Seq of equally shaped Seqs, ending in
// Buffers of one element type. Its shape vector lists the innermost length
// first. The flat data interleaves the outer dimension: for R rows of D
// elements, element [r][d] is stored at index d*R+r. Pack and Unpack are
// exact inverses under this layout.
//
// # Byte order
//
// Array data is never byte-swapped. Decoding an array whose dtype names the
// opposite byte order of the host fails with [ErrEndiannessMismatch].
// Arrays whose dtype code is unknown are left as plain maps and reported as
// a [Warning].
//
// # Envelope
//
// [Encode] and [Decode] wrap a packed document in a small fixed header with
// optional ZIP, Zstandard, LZ4 or Brotli compression, bounded by [Limits].
package ndpack
