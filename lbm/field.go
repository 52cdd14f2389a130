package lbm

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Field is a dense row-major float64 tensor with a leading component axis
// followed by the spatial grid axes. A distribution field has shape
// [Q] + grid, a velocity field [D] + grid, and a scalar field [1] + grid.
// The backing slice is contiguous, so each component is a contiguous view.
type Field struct {
	shape []int
	data  []float64
}

// NewField allocates a zero-filled field with the given shape. The first
// element of shape is the component count, the rest are the grid axes.
func NewField(shape ...int) *Field {
	n := 1
	for _, s := range shape {
		n *= s
	}
	return &Field{shape: append([]int(nil), shape...), data: make([]float64, n)}
}

// Shape returns the full shape, component axis first. Callers must not
// modify the returned slice.
func (f *Field) Shape() []int { return f.shape }

// GridShape returns the spatial shape without the component axis.
func (f *Field) GridShape() []int { return f.shape[1:] }

// Components returns the size of the leading component axis.
func (f *Field) Components() int { return f.shape[0] }

// GridLen returns the number of spatial grid points.
func (f *Field) GridLen() int {
	n := 1
	for _, s := range f.shape[1:] {
		n *= s
	}
	return n
}

// Len returns the total number of elements across all components.
func (f *Field) Len() int { return len(f.data) }

// Data returns the flat backing slice, component-major.
func (f *Field) Data() []float64 { return f.data }

// Comp returns the contiguous view of component c.
func (f *Field) Comp(c int) []float64 {
	gl := f.GridLen()
	return f.data[c*gl : (c+1)*gl]
}

// Clone returns an independent deep copy.
func (f *Field) Clone() *Field {
	out := &Field{shape: append([]int(nil), f.shape...), data: make([]float64, len(f.data))}
	copy(out.data, f.data)
	return out
}

// MaxAbsDiff returns the maximum absolute element-wise difference between
// two fields of identical shape.
func (f *Field) MaxAbsDiff(other *Field) float64 {
	return floats.Distance(f.data, other.data, math.Inf(1))
}

// shapeEqual reports whether two shapes agree exactly.
func shapeEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Mask is a boolean array over the spatial grid only (no component axis).
// The engine uses it to mark lattice sites where standard collision must be
// suppressed.
type Mask struct {
	shape []int
	data  []bool
}

// NewMask allocates an all-false mask with the given spatial shape.
func NewMask(shape ...int) *Mask {
	n := 1
	for _, s := range shape {
		n *= s
	}
	return &Mask{shape: append([]int(nil), shape...), data: make([]bool, n)}
}

// Shape returns the spatial shape. Callers must not modify it.
func (m *Mask) Shape() []int { return m.shape }

// Data returns the flat backing slice in row-major order.
func (m *Mask) Data() []bool { return m.data }

// Or merges another mask into m in place. The shapes must agree exactly.
func (m *Mask) Or(other *Mask) error {
	if !shapeEqual(m.shape, other.shape) {
		return fmt.Errorf("mask shape %v does not match %v", other.shape, m.shape)
	}
	for i, v := range other.data {
		if v {
			m.data[i] = true
		}
	}
	return nil
}

// Any reports whether any site is marked.
func (m *Mask) Any() bool {
	for _, v := range m.data {
		if v {
			return true
		}
	}
	return false
}

// Count returns the number of marked sites.
func (m *Mask) Count() int {
	n := 0
	for _, v := range m.data {
		if v {
			n++
		}
	}
	return n
}
