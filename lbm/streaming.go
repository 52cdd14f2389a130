package lbm

import "fmt"

// Streaming advects the distribution field: each population is shifted by
// its discrete velocity vector. Implementations return a new field and must
// not mutate the input.
type Streaming interface {
	Apply(f *Field) (*Field, error)
}

// StandardStreaming shifts every population periodically along its lattice
// velocity. Periodic wrap-around at the grid edges makes fully periodic
// flows boundary-free; wall behavior is imposed afterwards by boundary
// conditions.
type StandardStreaming struct {
	lattice *Lattice
}

// NewStandardStreaming creates the periodic-shift streaming operator.
func NewStandardStreaming(l *Lattice) *StandardStreaming {
	return &StandardStreaming{lattice: l}
}

// Apply streams all Q populations, returning a new field.
func (s *StandardStreaming) Apply(f *Field) (*Field, error) {
	st := s.lattice.Stencil
	if f.Components() != st.Q {
		return nil, fmt.Errorf("streaming: field has %d components, stencil %s needs %d",
			f.Components(), st.Name, st.Q)
	}
	out := NewField(f.Shape()...)
	grid := f.GridShape()
	for i := 0; i < st.Q; i++ {
		rollInto(out.Comp(i), f.Comp(i), grid, st.E[i])
	}
	return out, nil
}

// rollInto writes src into dst shifted periodically by shift along each
// grid axis. A fast path handles the 2D case with row-wise copies; the
// generic path decomposes indices via strides.
func rollInto(dst, src []float64, shape, shift []int) {
	nd := len(shape)
	off := make([]int, nd)
	for d := 0; d < nd; d++ {
		off[d] = ((shift[d] % shape[d]) + shape[d]) % shape[d]
	}

	if nd == 2 {
		nx, ny := shape[0], shape[1]
		sx, sy := off[0], off[1]
		for x := 0; x < nx; x++ {
			srcRow := src[x*ny : (x+1)*ny]
			dx := (x + sx) % nx
			dstRow := dst[dx*ny : (dx+1)*ny]
			// rotate the row by sy with two copies
			copy(dstRow[sy:], srcRow[:ny-sy])
			copy(dstRow[:sy], srcRow[ny-sy:])
		}
		return
	}

	strides := make([]int, nd)
	acc := 1
	for d := nd - 1; d >= 0; d-- {
		strides[d] = acc
		acc *= shape[d]
	}
	for srcIdx := range src {
		rem := srcIdx
		dstIdx := 0
		for d := 0; d < nd; d++ {
			c := rem / strides[d]
			rem %= strides[d]
			dstIdx += ((c + off[d]) % shape[d]) * strides[d]
		}
		dst[dstIdx] = src[srcIdx]
	}
}
