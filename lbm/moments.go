package lbm

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// MomentTransform maps a distribution field into moment space and back via
// a dense QxQ basis matrix. The inverse is computed once at construction.
type MomentTransform struct {
	lattice  *Lattice
	names    []string
	fwd, inv *mat.Dense
	momentum []int
}

// DefaultMomentTransform returns the natural-moment basis for the lattice's
// stencil. Only D2Q9 carries a default basis; other stencils yield an error.
func DefaultMomentTransform(l *Lattice) (*MomentTransform, error) {
	st := l.Stencil
	if st.Name != "D2Q9" {
		return nil, fmt.Errorf("no default moment transform for stencil %s", st.Name)
	}

	// natural moments m_pq = sum_i ex_i^p ey_i^q f_i, ordered so that
	// density is first and momentum (jx, jy) comes next
	powers := [][2]int{{0, 0}, {1, 0}, {0, 1}, {2, 0}, {0, 2}, {1, 1}, {2, 1}, {1, 2}, {2, 2}}
	names := []string{"rho", "jx", "jy", "exx", "eyy", "exy", "qx", "qy", "eps"}

	fwd := mat.NewDense(st.Q, st.Q, nil)
	for a, pq := range powers {
		for i := 0; i < st.Q; i++ {
			ex := float64(st.E[i][0])
			ey := float64(st.E[i][1])
			fwd.Set(a, i, math.Pow(ex, float64(pq[0]))*math.Pow(ey, float64(pq[1])))
		}
	}
	var inv mat.Dense
	if err := inv.Inverse(fwd); err != nil {
		return nil, fmt.Errorf("inverting moment basis: %w", err)
	}
	return &MomentTransform{
		lattice:  l,
		names:    names,
		fwd:      fwd,
		inv:      &inv,
		momentum: []int{1, 2},
	}, nil
}

// Names returns the moment names in basis order.
func (t *MomentTransform) Names() []string { return t.names }

// MomentumIndices returns the basis indices of the momentum moments, one
// per spatial dimension.
func (t *MomentTransform) MomentumIndices() []int { return t.momentum }

// Transform maps populations to moments, site by site.
func (t *MomentTransform) Transform(f *Field) *Field {
	return t.apply(t.fwd, f)
}

// InverseTransform maps moments back to populations.
func (t *MomentTransform) InverseTransform(m *Field) *Field {
	return t.apply(t.inv, m)
}

func (t *MomentTransform) apply(mtx *mat.Dense, f *Field) *Field {
	q := f.Components()
	gl := f.GridLen()
	out := NewField(f.Shape()...)
	fd, od := f.Data(), out.Data()
	for a := 0; a < q; a++ {
		row := mtx.RawRowView(a)
		oa := od[a*gl : (a+1)*gl]
		for i := 0; i < q; i++ {
			c := row[i]
			if c == 0 {
				continue
			}
			fi := fd[i*gl : (i+1)*gl]
			for s := range oa {
				oa[s] += c * fi[s]
			}
		}
	}
	return out
}
