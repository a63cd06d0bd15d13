package ndpack

import "fmt"

// validateArray checks that shape and data describe the same number of
// elements of kind.
func validateArray(tag string, kind ElementKind, shape []int, data []byte) error {
	width := kind.Width()
	if width == 0 {
		return fmt.Errorf("%w: dtype %q has no element width", ErrMalformedArray, tag)
	}
	if len(data)%width != 0 {
		return fmt.Errorf("%w: dtype %q data of %d bytes is not a multiple of %d", ErrShapeMismatch, tag, len(data), width)
	}
	n, err := shapeProduct(shape)
	if err != nil {
		return fmt.Errorf("dtype %q: %w", tag, err)
	}
	if n != len(data)/width {
		return fmt.Errorf("%w: dtype %q shape %v holds %d elements, data holds %d", ErrShapeMismatch, tag, shape, n, len(data)/width)
	}
	return nil
}

// validateArrayMap checks an ArrayMap before it is encoded.
func validateArrayMap(m ArrayMap, r *Registry) error {
	dt, err := ParseDtype(m.Dtype)
	if err != nil {
		return err
	}
	if dt.IsUnicode() {
		if _, err := dt.CharsPerString(); err != nil {
			return err
		}
		if len(m.Data)%4 != 0 {
			return fmt.Errorf("%w: dtype %q data of %d bytes is not whole code points", ErrShapeMismatch, m.Dtype, len(m.Data))
		}
		return nil
	}
	kind, ok := r.Resolve(m.Dtype)
	if !ok {
		// Unknown dtypes are carried through untouched.
		return nil
	}
	return validateArray(m.Dtype, kind, m.Shape, m.Data)
}
