package lbm

import "math"

// Stencil describes a discrete velocity set: the spatial dimensionality D,
// the number of directions Q, the lattice velocities E, the quadrature
// weights W, the lattice speed of sound Cs, and the opposite-direction
// table used by bounce-back reflection.
type Stencil struct {
	Name     string
	D, Q     int
	E        [][]int
	W        []float64
	Cs       float64
	Opposite []int
}

// D2Q9 is the standard two-dimensional nine-velocity set.
var D2Q9 = Stencil{
	Name: "D2Q9",
	D:    2,
	Q:    9,
	E: [][]int{
		{0, 0},
		{1, 0}, {0, 1}, {-1, 0}, {0, -1},
		{1, 1}, {-1, 1}, {-1, -1}, {1, -1},
	},
	W: []float64{
		4.0 / 9.0,
		1.0 / 9.0, 1.0 / 9.0, 1.0 / 9.0, 1.0 / 9.0,
		1.0 / 36.0, 1.0 / 36.0, 1.0 / 36.0, 1.0 / 36.0,
	},
	Cs: 1.0 / math.Sqrt(3.0),
}

// D3Q19 is the standard three-dimensional nineteen-velocity set.
var D3Q19 = Stencil{
	Name: "D3Q19",
	D:    3,
	Q:    19,
	E: [][]int{
		{0, 0, 0},
		{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1},
		{1, 1, 0}, {-1, -1, 0}, {1, -1, 0}, {-1, 1, 0},
		{1, 0, 1}, {-1, 0, -1}, {1, 0, -1}, {-1, 0, 1},
		{0, 1, 1}, {0, -1, -1}, {0, 1, -1}, {0, -1, 1},
	},
	W: []float64{
		1.0 / 3.0,
		1.0 / 18.0, 1.0 / 18.0, 1.0 / 18.0, 1.0 / 18.0, 1.0 / 18.0, 1.0 / 18.0,
		1.0 / 36.0, 1.0 / 36.0, 1.0 / 36.0, 1.0 / 36.0,
		1.0 / 36.0, 1.0 / 36.0, 1.0 / 36.0, 1.0 / 36.0,
		1.0 / 36.0, 1.0 / 36.0, 1.0 / 36.0, 1.0 / 36.0,
	},
	Cs: 1.0 / math.Sqrt(3.0),
}

func init() {
	D2Q9.Opposite = opposites(D2Q9.E)
	D3Q19.Opposite = opposites(D3Q19.E)
}

// opposites builds the index table mapping each direction to its reverse.
func opposites(e [][]int) []int {
	opp := make([]int, len(e))
	for i := range e {
		for j := range e {
			match := true
			for d := range e[i] {
				if e[i][d] != -e[j][d] {
					match = false
					break
				}
			}
			if match {
				opp[i] = j
				break
			}
		}
	}
	return opp
}
