package lbm

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTGVSimulation builds the standard test fixture: a Taylor-Green vortex
// with BGK collision and periodic streaming.
func newTGVSimulation(t *testing.T, resolution int) (*Simulation, *Lattice, *TaylorGreenVortex2D) {
	t.Helper()
	lattice := NewLattice(D2Q9)
	flow := NewTaylorGreenVortex2D(resolution, 100, 0.05, lattice)
	collision := NewBGKCollision(lattice, flow.Units().RelaxationParameterLU())
	streaming := NewStandardStreaming(lattice)
	sim, err := NewSimulation(flow, lattice, collision, streaming)
	if err != nil {
		t.Fatalf("NewSimulation: %v", err)
	}
	return sim, lattice, flow
}

func TestNewSimulation_InitialMomentsMatchFlow(t *testing.T) {
	sim, lattice, flow := newTGVSimulation(t, 16)

	g := flow.Grid()
	p, u, err := flow.InitialSolution(g)
	require.NoError(t, err)
	units := flow.Units()
	wantRho := units.ConvertPressurePUToDensityLU(p)
	wantU := units.ConvertVelocityToLU(u)

	assert.InDelta(t, 0, lattice.Rho(sim.F()).MaxAbsDiff(wantRho), 1e-12)
	assert.InDelta(t, 0, lattice.U(sim.F()).MaxAbsDiff(wantU), 1e-12)
}

// wrongPressureFlow wraps a flow and breaks the pressure shape.
type wrongPressureFlow struct{ Flow }

func (w wrongPressureFlow) InitialSolution(g *Grid) (*Field, *Field, error) {
	_, u, err := w.Flow.InitialSolution(g)
	return NewField(append([]int{2}, g.Shape...)...), u, err
}

// wrongVelocityFlow wraps a flow and breaks the velocity shape.
type wrongVelocityFlow struct{ Flow }

func (w wrongVelocityFlow) InitialSolution(g *Grid) (*Field, *Field, error) {
	p, _, err := w.Flow.InitialSolution(g)
	return p, NewField(append([]int{3}, g.Shape...)...), err
}

func TestNewSimulation_DimensionMismatch(t *testing.T) {
	lattice := NewLattice(D2Q9)
	base := NewTaylorGreenVortex2D(8, 100, 0.05, lattice)
	collision := NewBGKCollision(lattice, base.Units().RelaxationParameterLU())
	streaming := NewStandardStreaming(lattice)

	sim, err := NewSimulation(wrongPressureFlow{base}, lattice, collision, streaming)
	require.Error(t, err)
	assert.Nil(t, sim, "no partial engine on failure")
	var dim *DimensionMismatchError
	require.ErrorAs(t, err, &dim)
	assert.Equal(t, "initial pressure", dim.Quantity)
	assert.Equal(t, []int{1, 8, 8}, dim.Expected)
	assert.Equal(t, []int{2, 8, 8}, dim.Actual)

	_, err = NewSimulation(wrongVelocityFlow{base}, lattice, collision, streaming)
	require.ErrorAs(t, err, &dim)
	assert.Equal(t, "initial velocity", dim.Quantity)
}

func TestStep_ZeroStepsIsNoOp(t *testing.T) {
	sim, _, _ := newTGVSimulation(t, 8)
	before := sim.F().Clone()

	mlups, err := sim.Step(0)

	require.NoError(t, err)
	assert.Equal(t, 0.0, mlups)
	assert.Equal(t, 0, sim.StepCount())
	assert.InDelta(t, 0, sim.F().MaxAbsDiff(before), 0)
}

func TestStep_SplitEqualsCombined(t *testing.T) {
	// GIVEN two identical simulations
	simA, _, _ := newTGVSimulation(t, 16)
	simB, _, _ := newTGVSimulation(t, 16)

	// WHEN one steps 3+4 and the other 7
	_, err := simA.Step(3)
	require.NoError(t, err)
	_, err = simA.Step(4)
	require.NoError(t, err)
	_, err = simB.Step(7)
	require.NoError(t, err)

	// THEN the fields and counters agree exactly
	assert.Equal(t, simB.StepCount(), simA.StepCount())
	assert.InDelta(t, 0, simA.F().MaxAbsDiff(simB.F()), 1e-15)
}

// maskedFlow adds a synthetic mask-contributing boundary to a base flow.
// The boundary's Apply is the identity, so any change at masked sites can
// only come from the engine's collision select.
type identityMaskBoundary struct{ mask *Mask }

func (b identityMaskBoundary) Apply(f *Field) (*Field, error) { return f, nil }
func (b identityMaskBoundary) NoCollisionMask() *Mask         { return b.mask }

type maskedFlow struct {
	Flow
	boundary Boundary
}

func (m maskedFlow) Boundaries() []Boundary { return []Boundary{m.boundary} }

func TestStep_MaskedSitesKeepPostStreamingValues(t *testing.T) {
	lattice := NewLattice(D2Q9)
	base := NewTaylorGreenVortex2D(8, 100, 0.05, lattice)
	mask := NewMask(8, 8)
	for _, s := range []int{0, 9, 27, 63} {
		mask.Data()[s] = true
	}
	flow := maskedFlow{Flow: base, boundary: identityMaskBoundary{mask: mask}}

	collision := NewBGKCollision(lattice, base.Units().RelaxationParameterLU())
	streaming := NewStandardStreaming(lattice)
	sim, err := NewSimulation(flow, lattice, collision, streaming)
	require.NoError(t, err)
	assert.Equal(t, 4, sim.NoCollisionMask().Count())

	// compute the post-streaming field independently
	streamed, err := streaming.Apply(sim.F().Clone())
	require.NoError(t, err)

	_, err = sim.Step(1)
	require.NoError(t, err)

	for i := 0; i < lattice.Q(); i++ {
		got := sim.F().Comp(i)
		want := streamed.Comp(i)
		for s, m := range mask.Data() {
			if m && got[s] != want[s] {
				t.Errorf("direction %d masked site %d: got %v, want post-streaming %v",
					i, s, got[s], want[s])
			}
		}
	}
}

func TestSimulation_EmptyMaskWithoutBounceBack(t *testing.T) {
	sim, _, _ := newTGVSimulation(t, 8)
	assert.False(t, sim.NoCollisionMask().Any())
	assert.Equal(t, []int{8, 8}, sim.NoCollisionMask().Shape())
}

func TestCheckpoint_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.ckpt")

	simA, _, _ := newTGVSimulation(t, 16)
	_, err := simA.Step(5)
	require.NoError(t, err)
	require.NoError(t, simA.SaveCheckpoint(path))

	// a fresh engine of identical configuration reproduces the field
	simB, _, _ := newTGVSimulation(t, 16)
	require.NoError(t, simB.LoadCheckpoint(path))
	assert.InDelta(t, 0, simB.F().MaxAbsDiff(simA.F()), 0)

	// the step counter is not part of the checkpoint
	assert.Equal(t, 0, simB.StepCount())
}

func TestCheckpoint_LoadMissingFile(t *testing.T) {
	sim, _, _ := newTGVSimulation(t, 8)
	err := sim.LoadCheckpoint(filepath.Join(t.TempDir(), "missing.ckpt"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestCheckpoint_SaveOverwrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.ckpt")
	sim, _, _ := newTGVSimulation(t, 8)

	require.NoError(t, sim.SaveCheckpoint(path))
	_, err := sim.Step(2)
	require.NoError(t, err)
	require.NoError(t, sim.SaveCheckpoint(path))

	fresh, _, _ := newTGVSimulation(t, 8)
	require.NoError(t, fresh.LoadCheckpoint(path))
	assert.InDelta(t, 0, fresh.F().MaxAbsDiff(sim.F()), 0)
}

func TestInitialize_InvalidMaxSteps(t *testing.T) {
	sim, _, _ := newTGVSimulation(t, 8)
	_, err := sim.Initialize(0, 1e-3)
	assert.Error(t, err)
	_, err = sim.Initialize(-2, 1e-3)
	assert.Error(t, err)
}

func TestInitialize_StopsOnConvergence(t *testing.T) {
	// an infinite tolerance is satisfied on the first iteration
	sim, _, _ := newTGVSimulation(t, 8)
	k, err := sim.Initialize(10, math.Inf(1))
	require.NoError(t, err)
	assert.Equal(t, 0, k)
}

func TestInitialize_ExhaustsWithoutConvergence(t *testing.T) {
	// a zero tolerance can never be satisfied; the loop runs out and the
	// last iteration index is returned
	sim, _, _ := newTGVSimulation(t, 8)
	k, err := sim.Initialize(5, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, k)
}

func TestInitialize_UnsupportedStencil(t *testing.T) {
	lattice := NewLattice(D3Q19)
	flow := &uniformFlow3D{units: NewUnitConverter(D3Q19, 100, 0.05, 8, 1, 1, 1)}
	collision := NewBGKCollision(lattice, flow.Units().RelaxationParameterLU())
	sim, err := NewSimulation(flow, lattice, collision, NewStandardStreaming(lattice))
	require.NoError(t, err)

	_, err = sim.Initialize(3, 1e-3)
	assert.Error(t, err, "no default moment transform exists for D3Q19")
}

// uniformFlow3D is a minimal 3D flow at rest for exercising the D3Q19 path.
type uniformFlow3D struct {
	units *UnitConverter
}

func (f *uniformFlow3D) Grid() *Grid {
	ax := make([]float64, 8)
	for i := range ax {
		ax[i] = float64(i)
	}
	return NewGrid([][]float64{ax, ax, ax})
}

func (f *uniformFlow3D) InitialSolution(g *Grid) (*Field, *Field, error) {
	p := NewField(append([]int{1}, g.Shape...)...)
	u := NewField(append([]int{3}, g.Shape...)...)
	return p, u, nil
}

func (f *uniformFlow3D) Units() *UnitConverter { return f.units }
func (f *uniformFlow3D) Boundaries() []Boundary { return nil }

func TestStep_TaylorGreenMassConservation(t *testing.T) {
	// GIVEN a 32x32 periodic vortex with an empty no-collision mask
	sim, lattice, _ := newTGVSimulation(t, 32)
	require.False(t, sim.NoCollisionMask().Any())

	var before float64
	for _, v := range lattice.Rho(sim.F()).Comp(0) {
		before += v
	}

	// WHEN running 50 steps
	mlups, err := sim.Step(50)
	require.NoError(t, err)

	// THEN throughput is positive and finite
	assert.Greater(t, mlups, 0.0)
	assert.False(t, math.IsInf(mlups, 1))

	// AND the density field stays near the uniform reference density
	var after float64
	rho := lattice.Rho(sim.F()).Comp(0)
	for _, v := range rho {
		after += v
		assert.InDelta(t, 1.0, v, 0.1)
	}
	assert.InDelta(t, before, after, math.Abs(before)*1e-10, "total mass drifted")
}

func TestStep_InvokesReportersInOrderWithDuplicateIndex(t *testing.T) {
	sim, _, _ := newTGVSimulation(t, 8)

	var calls [][2]int
	sim.Reporters = append(sim.Reporters, reporterFunc(func(step, tm int, f *Field) {
		calls = append(calls, [2]int{step, tm})
	}))

	_, err := sim.Step(3)
	require.NoError(t, err)

	require.Len(t, calls, 3)
	for n, c := range calls {
		assert.Equal(t, n+1, c[0], "first argument is the step counter")
		assert.Equal(t, c[0], c[1], "step index is passed in both positions")
	}
}

// reporterFunc adapts a function to the Reporter interface.
type reporterFunc func(step, t int, f *Field)

func (fn reporterFunc) Report(step, t int, f *Field) { fn(step, t, f) }
