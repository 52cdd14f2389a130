package lbm

import "fmt"

// Boundary applies a localized correction to the distribution field after
// streaming and collision. Boundaries are applied in the order the Flow
// lists them; the output of one feeds the next.
type Boundary interface {
	Apply(f *Field) (*Field, error)
}

// CollisionMasker is the optional boundary capability that contributes
// lattice sites to the engine's no-collision mask. The engine queries for
// this capability once, at construction, instead of inspecting type names.
type CollisionMasker interface {
	NoCollisionMask() *Mask
}

// BounceBackBoundary models a solid no-slip wall by reflecting populations
// into their opposite directions at masked sites. It contributes its mask
// to the engine's no-collision mask.
type BounceBackBoundary struct {
	lattice *Lattice
	mask    *Mask
}

// NewBounceBackBoundary creates a bounce-back wall over the masked sites.
func NewBounceBackBoundary(l *Lattice, mask *Mask) *BounceBackBoundary {
	return &BounceBackBoundary{lattice: l, mask: mask}
}

// Apply swaps each population with its opposite at every masked site.
func (b *BounceBackBoundary) Apply(f *Field) (*Field, error) {
	st := b.lattice.Stencil
	if f.Components() != st.Q {
		return nil, fmt.Errorf("bounce-back: field has %d components, stencil %s needs %d",
			f.Components(), st.Name, st.Q)
	}
	out := f.Clone()
	md := b.mask.Data()
	for i := 0; i < st.Q; i++ {
		src := f.Comp(st.Opposite[i])
		dst := out.Comp(i)
		for s, m := range md {
			if m {
				dst[s] = src[s]
			}
		}
	}
	return out, nil
}

// NoCollisionMask returns the wall mask; bounce-back sites skip ordinary
// collision.
func (b *BounceBackBoundary) NoCollisionMask() *Mask { return b.mask }

// EquilibriumBoundaryPU fixes masked sites to the equilibrium distribution
// of a prescribed physical velocity and pressure. Used for inflow/outflow.
// It does not suppress collision, so it contributes nothing to the
// no-collision mask.
type EquilibriumBoundaryPU struct {
	mask *Mask
	feq  []float64 // per-direction equilibrium at the prescribed state
}

// NewEquilibriumBoundaryPU precomputes the equilibrium populations for the
// prescribed state (velocity and pressure in physical units).
func NewEquilibriumBoundaryPU(l *Lattice, mask *Mask, units *UnitConverter, velocityPU []float64, pressurePU float64) (*EquilibriumBoundaryPU, error) {
	if len(velocityPU) != l.D() {
		return nil, fmt.Errorf("equilibrium boundary: velocity has %d components, lattice needs %d",
			len(velocityPU), l.D())
	}
	rho := NewField(1, 1)
	rho.Comp(0)[0] = units.PressurePUToDensityLU(pressurePU)
	u := NewField(l.D(), 1)
	for d, v := range velocityPU {
		u.Comp(d)[0] = units.VelocityPUToLU(v)
	}
	feqF, err := l.Equilibrium(rho, u)
	if err != nil {
		return nil, err
	}
	feq := make([]float64, l.Q())
	for i := range feq {
		feq[i] = feqF.Comp(i)[0]
	}
	return &EquilibriumBoundaryPU{mask: mask, feq: feq}, nil
}

// Apply overwrites every masked site with the prescribed equilibrium.
func (b *EquilibriumBoundaryPU) Apply(f *Field) (*Field, error) {
	out := f.Clone()
	md := b.mask.Data()
	for i, v := range b.feq {
		dst := out.Comp(i)
		for s, m := range md {
			if m {
				dst[s] = v
			}
		}
	}
	return out, nil
}
