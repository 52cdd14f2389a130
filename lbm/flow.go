package lbm

// Grid describes the spatial lattice: its shape and, per dimension, the
// physical coordinate of every site in row-major order.
type Grid struct {
	Shape  []int
	Coords [][]float64
}

// NewGrid builds a grid from per-axis coordinate vectors (a meshgrid).
func NewGrid(axes [][]float64) *Grid {
	shape := make([]int, len(axes))
	n := 1
	for d, ax := range axes {
		shape[d] = len(ax)
		n *= len(ax)
	}
	coords := make([][]float64, len(axes))
	for d := range coords {
		coords[d] = make([]float64, n)
	}
	idx := make([]int, len(axes))
	for s := 0; s < n; s++ {
		for d, ax := range axes {
			coords[d][s] = ax[idx[d]]
		}
		for d := len(axes) - 1; d >= 0; d-- {
			idx[d]++
			if idx[d] < shape[d] {
				break
			}
			idx[d] = 0
		}
	}
	return &Grid{Shape: shape, Coords: coords}
}

// Len returns the total number of grid points.
func (g *Grid) Len() int {
	n := 1
	for _, s := range g.Shape {
		n *= s
	}
	return n
}

// Flow supplies everything a Simulation needs besides the numerics: the
// grid, the initial macroscopic fields in physical units, the unit
// conversion policy, and the ordered boundary condition list. Boundary
// order matters and is preserved exactly by the engine.
type Flow interface {
	Grid() *Grid
	// InitialSolution returns pressure (shape [1]+grid) and velocity
	// (shape [D]+grid) in physical units.
	InitialSolution(g *Grid) (p, u *Field, err error)
	Units() *UnitConverter
	Boundaries() []Boundary
}

// AnalyticFlow is a Flow with a known time-dependent reference solution,
// used by ErrorReporter and the convergence command.
type AnalyticFlow interface {
	Flow
	// Solution returns the reference pressure and velocity in physical
	// units at physical time t.
	Solution(t float64, g *Grid) (p, u *Field, err error)
}
