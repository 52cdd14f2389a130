package lbm

import (
	"math/rand"
	"testing"
)

func TestBounceBack_ReflectsMaskedSitesOnly(t *testing.T) {
	// GIVEN a random field and a mask covering two sites
	l := NewLattice(D2Q9)
	f := NewField(9, 4, 4)
	rng := rand.New(rand.NewSource(41))
	fd := f.Data()
	for i := range fd {
		fd[i] = rng.Float64()
	}
	mask := NewMask(4, 4)
	mask.Data()[5] = true
	mask.Data()[10] = true

	// WHEN applying bounce-back
	out, err := NewBounceBackBoundary(l, mask).Apply(f)
	if err != nil {
		t.Fatal(err)
	}

	// THEN masked sites carry the opposite-direction populations and the
	// rest of the grid is untouched
	for i := 0; i < 9; i++ {
		opp := D2Q9.Opposite[i]
		for s := 0; s < 16; s++ {
			want := f.Comp(i)[s]
			if mask.Data()[s] {
				want = f.Comp(opp)[s]
			}
			if got := out.Comp(i)[s]; got != want {
				t.Errorf("direction %d site %d: got %v, want %v", i, s, got, want)
			}
		}
	}
}

func TestBounceBack_ExposesCollisionMask(t *testing.T) {
	l := NewLattice(D2Q9)
	mask := NewMask(4, 4)
	mask.Data()[3] = true

	var b Boundary = NewBounceBackBoundary(l, mask)
	cm, ok := b.(CollisionMasker)
	if !ok {
		t.Fatal("bounce-back must expose the CollisionMasker capability")
	}
	if cm.NoCollisionMask().Count() != 1 {
		t.Errorf("mask count: got %d, want 1", cm.NoCollisionMask().Count())
	}
}

func TestEquilibriumBoundary_DoesNotContributeMask(t *testing.T) {
	l := NewLattice(D2Q9)
	units := NewUnitConverter(D2Q9, 100, 0.05, 16, 1, 1, 1)
	mask := NewMask(4, 4)
	mask.Data()[0] = true
	eq, err := NewEquilibriumBoundaryPU(l, mask, units, []float64{1, 0}, 0)
	if err != nil {
		t.Fatal(err)
	}

	var b Boundary = eq
	if _, ok := b.(CollisionMasker); ok {
		t.Error("equilibrium boundary must not expose the CollisionMasker capability")
	}
}

func TestEquilibriumBoundary_WritesPrescribedState(t *testing.T) {
	l := NewLattice(D2Q9)
	units := NewUnitConverter(D2Q9, 100, 0.05, 16, 1, 1, 1)
	mask := NewMask(4, 4)
	mask.Data()[7] = true

	eq, err := NewEquilibriumBoundaryPU(l, mask, units, []float64{1, 0}, 0)
	if err != nil {
		t.Fatal(err)
	}

	f := NewField(9, 4, 4)
	rng := rand.New(rand.NewSource(43))
	fd := f.Data()
	for i := range fd {
		fd[i] = rng.Float64()
	}
	out, err := eq.Apply(f)
	if err != nil {
		t.Fatal(err)
	}

	// masked site holds the prescribed macroscopic state
	rho := l.Rho(out).Comp(0)[7]
	ux := l.U(out).Comp(0)[7]
	wantRho := units.PressurePUToDensityLU(0)
	wantUx := units.VelocityPUToLU(1)
	if diff := rho - wantRho; diff > 1e-12 || diff < -1e-12 {
		t.Errorf("density at masked site: got %v, want %v", rho, wantRho)
	}
	if diff := ux - wantUx; diff > 1e-12 || diff < -1e-12 {
		t.Errorf("velocity at masked site: got %v, want %v", ux, wantUx)
	}

	// unmasked site untouched
	for i := 0; i < 9; i++ {
		if out.Comp(i)[8] != f.Comp(i)[8] {
			t.Errorf("direction %d: unmasked site modified", i)
		}
	}
}
