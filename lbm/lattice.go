package lbm

// Lattice wraps a discrete velocity set and provides the equilibrium
// distribution and moment extraction (density, velocity, momentum). The
// engine operates on Fields through a Lattice and never touches stencil
// geometry directly.
type Lattice struct {
	Stencil Stencil
}

// NewLattice creates a Lattice over the given stencil.
func NewLattice(s Stencil) *Lattice {
	return &Lattice{Stencil: s}
}

// D returns the spatial dimensionality of the velocity set.
func (l *Lattice) D() int { return l.Stencil.D }

// Q returns the number of discrete velocity directions.
func (l *Lattice) Q() int { return l.Stencil.Q }

// Equilibrium computes the equilibrium distribution for the given density
// (shape [1]+grid, lattice units) and velocity (shape [D]+grid, lattice
// units). The result has shape [Q]+grid.
func (l *Lattice) Equilibrium(rho, u *Field) (*Field, error) {
	grid := rho.GridShape()
	if rho.Components() != 1 {
		return nil, &DimensionMismatchError{
			Quantity: "density",
			Expected: append([]int{1}, grid...),
			Actual:   rho.Shape(),
		}
	}
	wantU := append([]int{l.D()}, grid...)
	if !shapeEqual(u.Shape(), wantU) {
		return nil, &DimensionMismatchError{Quantity: "velocity", Expected: wantU, Actual: u.Shape()}
	}

	st := l.Stencil
	cs2 := st.Cs * st.Cs
	gl := rho.GridLen()
	r := rho.Comp(0)

	ucomp := make([][]float64, st.D)
	for d := range ucomp {
		ucomp[d] = u.Comp(d)
	}

	// u·u per site, shared across all directions
	usq := make([]float64, gl)
	for d := 0; d < st.D; d++ {
		for s, v := range ucomp[d] {
			usq[s] += v * v
		}
	}

	feq := NewField(append([]int{st.Q}, grid...)...)
	for i := 0; i < st.Q; i++ {
		w := st.W[i]
		out := feq.Comp(i)
		for s := 0; s < gl; s++ {
			var eu float64
			for d := 0; d < st.D; d++ {
				eu += float64(st.E[i][d]) * ucomp[d][s]
			}
			out[s] = w * r[s] * (1 + eu/cs2 + eu*eu/(2*cs2*cs2) - usq[s]/(2*cs2))
		}
	}
	return feq, nil
}

// Rho extracts the macroscopic density from a distribution field, returning
// a scalar field of shape [1]+grid.
func (l *Lattice) Rho(f *Field) *Field {
	rho := NewField(append([]int{1}, f.GridShape()...)...)
	out := rho.Comp(0)
	for i := 0; i < f.Components(); i++ {
		fi := f.Comp(i)
		for s, v := range fi {
			out[s] += v
		}
	}
	return rho
}

// J extracts the momentum density sum_i e_i f_i, shape [D]+grid.
func (l *Lattice) J(f *Field) *Field {
	st := l.Stencil
	j := NewField(append([]int{st.D}, f.GridShape()...)...)
	for i := 0; i < st.Q; i++ {
		fi := f.Comp(i)
		for d := 0; d < st.D; d++ {
			if st.E[i][d] == 0 {
				continue
			}
			e := float64(st.E[i][d])
			jd := j.Comp(d)
			for s, v := range fi {
				jd[s] += e * v
			}
		}
	}
	return j
}

// U extracts the macroscopic velocity j/rho, shape [D]+grid.
func (l *Lattice) U(f *Field) *Field {
	rho := l.Rho(f).Comp(0)
	u := l.J(f)
	for d := 0; d < l.D(); d++ {
		ud := u.Comp(d)
		for s := range ud {
			ud[s] /= rho[s]
		}
	}
	return u
}
