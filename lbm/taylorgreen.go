package lbm

import "math"

// TaylorGreenVortex2D is the periodic decaying vortex flow on [0, 2pi)^2.
// It has a closed-form solution, no boundaries, and conserves mass exactly,
// which makes it the canonical validation and benchmark case.
type TaylorGreenVortex2D struct {
	Resolution int

	units *UnitConverter
}

// NewTaylorGreenVortex2D builds the flow on a resolution^2 grid with the
// given Reynolds and Mach numbers.
func NewTaylorGreenVortex2D(resolution int, reynolds, mach float64, lattice *Lattice) *TaylorGreenVortex2D {
	return &TaylorGreenVortex2D{
		Resolution: resolution,
		units: NewUnitConverter(lattice.Stencil, reynolds, mach,
			float64(resolution), 2*math.Pi, 1.0, 1.0),
	}
}

// Grid returns the periodic grid with spacing 2pi/resolution (endpoint
// excluded).
func (t *TaylorGreenVortex2D) Grid() *Grid {
	ax := make([]float64, t.Resolution)
	h := 2 * math.Pi / float64(t.Resolution)
	for i := range ax {
		ax[i] = float64(i) * h
	}
	return NewGrid([][]float64{ax, ax})
}

// InitialSolution returns the analytic solution at t=0.
func (t *TaylorGreenVortex2D) InitialSolution(g *Grid) (*Field, *Field, error) {
	return t.Solution(0, g)
}

// Solution returns the analytic decaying vortex at physical time tm.
func (t *TaylorGreenVortex2D) Solution(tm float64, g *Grid) (*Field, *Field, error) {
	nu := t.units.ViscosityPU()
	decayU := math.Exp(-2 * nu * tm)
	decayP := math.Exp(-4 * nu * tm)

	p := NewField(append([]int{1}, g.Shape...)...)
	u := NewField(append([]int{2}, g.Shape...)...)
	pc := p.Comp(0)
	ux := u.Comp(0)
	uy := u.Comp(1)
	x := g.Coords[0]
	y := g.Coords[1]
	for s := range pc {
		ux[s] = math.Cos(x[s]) * math.Sin(y[s]) * decayU
		uy[s] = -math.Sin(x[s]) * math.Cos(y[s]) * decayU
		pc[s] = -0.25 * (math.Cos(2*x[s]) + math.Cos(2*y[s])) * decayP
	}
	return p, u, nil
}

// Units returns the flow's unit conversion policy.
func (t *TaylorGreenVortex2D) Units() *UnitConverter { return t.units }

// Boundaries returns nil: the flow is fully periodic.
func (t *TaylorGreenVortex2D) Boundaries() []Boundary { return nil }
