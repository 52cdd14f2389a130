package lbm

import "fmt"

// Collision relaxes a distribution field toward local equilibrium.
// Implementations return a new field and must not mutate the input.
type Collision interface {
	Apply(f *Field) (*Field, error)
}

// BGKCollision is the single-relaxation-time Bhatnagar-Gross-Krook operator:
// f' = f - (f - feq)/tau.
type BGKCollision struct {
	lattice *Lattice
	Tau     float64
}

// NewBGKCollision creates a BGK operator with relaxation time tau, usually
// flow.Units().RelaxationParameterLU().
func NewBGKCollision(l *Lattice, tau float64) *BGKCollision {
	return &BGKCollision{lattice: l, Tau: tau}
}

// Apply relaxes every population toward the local equilibrium.
func (c *BGKCollision) Apply(f *Field) (*Field, error) {
	rho := c.lattice.Rho(f)
	u := c.lattice.U(f)
	feq, err := c.lattice.Equilibrium(rho, u)
	if err != nil {
		return nil, err
	}
	out := NewField(f.Shape()...)
	od, fd, ed := out.Data(), f.Data(), feq.Data()
	invTau := 1 / c.Tau
	for i := range od {
		od[i] = fd[i] - invTau*(fd[i]-ed[i])
	}
	return out, nil
}

// BGKInitialization is the collision used by Simulation.Initialize: it
// relaxes the non-conserved moments toward the equilibrium of the current
// density at the *prescribed* initial velocity while pinning the momentum
// moments, so that the pressure field settles into consistency with the
// velocity field. Only stencils with a default moment transform are
// supported.
type BGKInitialization struct {
	lattice   *Lattice
	transform *MomentTransform
	tau       float64
	u         *Field // prescribed velocity, lattice units
	rho0      float64
}

// NewBGKInitialization derives the prescribed velocity and relaxation time
// from the flow.
func NewBGKInitialization(l *Lattice, flow Flow, transform *MomentTransform) (*BGKInitialization, error) {
	g := flow.Grid()
	_, u, err := flow.InitialSolution(g)
	if err != nil {
		return nil, fmt.Errorf("initialization collision: %w", err)
	}
	units := flow.Units()
	return &BGKInitialization{
		lattice:   l,
		transform: transform,
		tau:       units.RelaxationParameterLU(),
		u:         units.ConvertVelocityToLU(u),
		rho0:      units.CharacteristicDensityLU,
	}, nil
}

// Apply relaxes in moment space, keeping density untouched and momentum
// pinned to rho0 times the prescribed velocity.
func (c *BGKInitialization) Apply(f *Field) (*Field, error) {
	rho := c.lattice.Rho(f)
	feq, err := c.lattice.Equilibrium(rho, c.u)
	if err != nil {
		return nil, err
	}
	m := c.transform.Transform(f)
	meq := c.transform.Transform(feq)

	gl := f.GridLen()
	invTau := 1 / c.tau
	for a := 1; a < f.Components(); a++ { // moment 0 is density: conserved
		ma, ea := m.Comp(a), meq.Comp(a)
		for s := 0; s < gl; s++ {
			ma[s] -= invTau * (ma[s] - ea[s])
		}
	}
	for d, a := range c.transform.MomentumIndices() {
		ma := m.Comp(a)
		ud := c.u.Comp(d)
		for s := 0; s < gl; s++ {
			ma[s] = c.rho0 * ud[s]
		}
	}
	return c.transform.InverseTransform(m), nil
}
