package lbm

import "math"

// ObstacleFlow2D is channel flow around a circular obstacle: a uniform
// inflow imposed with an equilibrium boundary on the left and right edges
// and a bounce-back wall over the obstacle disk. It exercises a non-empty
// no-collision mask.
type ObstacleFlow2D struct {
	NX, NY int

	units      *UnitConverter
	boundaries []Boundary
	obstacle   *Mask
}

// NewObstacleFlow2D builds the flow on an nx by ny grid. The obstacle is a
// disk of diameter ny/4 centered at (nx/4, ny/2); the characteristic length
// is the channel height.
func NewObstacleFlow2D(nx, ny int, reynolds, mach float64, lattice *Lattice) (*ObstacleFlow2D, error) {
	units := NewUnitConverter(lattice.Stencil, reynolds, mach, float64(ny), 1.0, 1.0, 1.0)

	obstacle := NewMask(nx, ny)
	cx, cy := float64(nx)/4, float64(ny)/2
	r := float64(ny) / 8
	md := obstacle.Data()
	for x := 0; x < nx; x++ {
		for y := 0; y < ny; y++ {
			dx, dy := float64(x)-cx, float64(y)-cy
			if math.Sqrt(dx*dx+dy*dy) < r {
				md[x*ny+y] = true
			}
		}
	}

	inlet := NewMask(nx, ny)
	id := inlet.Data()
	for y := 0; y < ny; y++ {
		id[y] = true           // x = 0 column
		id[(nx-1)*ny+y] = true // x = nx-1 column
	}

	eq, err := NewEquilibriumBoundaryPU(lattice, inlet, units, []float64{1.0, 0.0}, 0.0)
	if err != nil {
		return nil, err
	}

	return &ObstacleFlow2D{
		NX:       nx,
		NY:       ny,
		units:    units,
		obstacle: obstacle,
		boundaries: []Boundary{
			eq,
			NewBounceBackBoundary(lattice, obstacle),
		},
	}, nil
}

// Grid returns the unit-spaced physical grid scaled so the channel height
// is the characteristic length.
func (o *ObstacleFlow2D) Grid() *Grid {
	h := 1.0 / float64(o.NY)
	ax := make([]float64, o.NX)
	for i := range ax {
		ax[i] = float64(i) * h
	}
	ay := make([]float64, o.NY)
	for i := range ay {
		ay[i] = float64(i) * h
	}
	return NewGrid([][]float64{ax, ay})
}

// InitialSolution returns uniform inflow velocity and zero pressure.
func (o *ObstacleFlow2D) InitialSolution(g *Grid) (*Field, *Field, error) {
	p := NewField(append([]int{1}, g.Shape...)...)
	u := NewField(append([]int{2}, g.Shape...)...)
	ux := u.Comp(0)
	for s := range ux {
		ux[s] = o.units.CharacteristicVelocityPU
	}
	return p, u, nil
}

// Units returns the flow's unit conversion policy.
func (o *ObstacleFlow2D) Units() *UnitConverter { return o.units }

// Boundaries returns the inflow equilibrium boundary followed by the
// bounce-back obstacle; order is part of the contract.
func (o *ObstacleFlow2D) Boundaries() []Boundary { return o.boundaries }

// ObstacleMask exposes the obstacle disk, mainly for tests and diagnostics.
func (o *ObstacleFlow2D) ObstacleMask() *Mask { return o.obstacle }
