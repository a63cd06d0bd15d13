package ndpack

import (
	"fmt"
	"math"
)

// The wire layout interleaves the outer dimension: merging R rows of D
// elements places rows[r][d] at d*R+r, and split undoes exactly that. This
// is a transpose, not contiguous row-major chunking.

// flattenOuterDim reads rows as an R×D matrix in column-major order.
// All rows must have the same length.
func flattenOuterDim[T any](rows [][]T) []T {
	if len(rows) == 0 {
		return nil
	}
	r, d := len(rows), len(rows[0])
	out := make([]T, r*d)
	for i, row := range rows {
		for j, x := range row {
			out[j*r+i] = x
		}
	}
	return out
}

// split is the inverse of flattenOuterDim: it returns len(flat)/dim groups,
// group i holding every element whose index is i modulo the group count.
func split[T any](flat []T, dim int) ([][]T, error) {
	if dim <= 0 {
		if len(flat) != 0 {
			return nil, fmt.Errorf("%w: %d elements cannot split by %d", ErrShapeMismatch, len(flat), dim)
		}
		return [][]T{}, nil
	}
	if len(flat)%dim != 0 {
		return nil, fmt.Errorf("%w: %d elements cannot split by %d", ErrShapeMismatch, len(flat), dim)
	}
	rest := len(flat) / dim
	groups := make([][]T, rest)
	for i := range groups {
		g := make([]T, dim)
		for j := range g {
			g[j] = flat[j*rest+i]
		}
		groups[i] = g
	}
	return groups, nil
}

// splitAll reshapes a flat buffer by applying split once per dimension
// except the last. The result is a Buffer for rank 0 and 1 and nested Seqs
// of Buffers otherwise.
func splitAll[T Element](flat Buffer[T], shape []int) (Value, error) {
	if len(shape) <= 1 {
		return flat, nil
	}
	groups, err := split([]T(flat), shape[0])
	if err != nil {
		return nil, err
	}
	level := make([]Value, len(groups))
	for i, g := range groups {
		level[i] = Buffer[T](g)
	}
	for _, dim := range shape[1 : len(shape)-1] {
		next, err := split(level, dim)
		if err != nil {
			return nil, err
		}
		level = make([]Value, len(next))
		for i, g := range next {
			level[i] = Seq(g)
		}
	}
	return Seq(level), nil
}

// flattenAs merges a rectangular tree of Buffer[T] leaves back into one
// buffer, bottom-up.
func flattenAs[T Element](v Value) []T {
	switch x := v.(type) {
	case Buffer[T]:
		return x
	case Seq:
		rows := make([][]T, len(x))
		for i := range x {
			rows[i] = flattenAs[T](x[i])
		}
		return flattenOuterDim(rows)
	default:
		return nil
	}
}

// shapeProduct multiplies the dimensions, rejecting negatives and overflow.
func shapeProduct(shape []int) (int, error) {
	n := 1
	for _, d := range shape {
		if d < 0 {
			return 0, fmt.Errorf("%w: negative dimension in shape %v", ErrShapeMismatch, shape)
		}
		if d != 0 && n > math.MaxInt/d {
			return 0, fmt.Errorf("%w: shape %v overflows", ErrShapeMismatch, shape)
		}
		n *= d
	}
	return n, nil
}
