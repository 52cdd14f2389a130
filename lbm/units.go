package lbm

// UnitConverter relates physical units (PU) to lattice units (LU) for a
// given flow. The solver always operates internally in lattice units; flows
// prescribe their initial and boundary conditions in physical units and the
// engine converts at the edges.
//
// The conversion is fixed by choosing a characteristic length, velocity and
// density in both systems together with the Reynolds and Mach numbers. The
// characteristic lattice velocity is Ma*cs, so the Mach number controls the
// compressibility error and the resolution controls the time step.
type UnitConverter struct {
	Stencil  Stencil
	Reynolds float64
	Mach     float64

	CharacteristicLengthLU   float64
	CharacteristicLengthPU   float64
	CharacteristicVelocityPU float64
	CharacteristicDensityPU  float64
	CharacteristicDensityLU  float64
}

// NewUnitConverter builds a converter for the given stencil and similarity
// numbers. Density defaults: characteristic lattice density is 1.
func NewUnitConverter(st Stencil, reynolds, mach, lengthLU, lengthPU, velocityPU, densityPU float64) *UnitConverter {
	return &UnitConverter{
		Stencil:                  st,
		Reynolds:                 reynolds,
		Mach:                     mach,
		CharacteristicLengthLU:   lengthLU,
		CharacteristicLengthPU:   lengthPU,
		CharacteristicVelocityPU: velocityPU,
		CharacteristicDensityPU:  densityPU,
		CharacteristicDensityLU:  1.0,
	}
}

// CharacteristicVelocityLU returns the lattice-unit characteristic velocity
// Ma*cs.
func (u *UnitConverter) CharacteristicVelocityLU() float64 {
	return u.Mach * u.Stencil.Cs
}

// ViscosityLU returns the kinematic viscosity in lattice units.
func (u *UnitConverter) ViscosityLU() float64 {
	return u.CharacteristicVelocityLU() * u.CharacteristicLengthLU / u.Reynolds
}

// ViscosityPU returns the kinematic viscosity in physical units.
func (u *UnitConverter) ViscosityPU() float64 {
	return u.CharacteristicVelocityPU * u.CharacteristicLengthPU / u.Reynolds
}

// RelaxationParameterLU returns the BGK relaxation time tau.
func (u *UnitConverter) RelaxationParameterLU() float64 {
	cs2 := u.Stencil.Cs * u.Stencil.Cs
	return u.ViscosityLU()/cs2 + 0.5
}

// conversion factors PU = factor * LU
func (u *UnitConverter) lengthFactor() float64 {
	return u.CharacteristicLengthPU / u.CharacteristicLengthLU
}

func (u *UnitConverter) velocityFactor() float64 {
	return u.CharacteristicVelocityPU / u.CharacteristicVelocityLU()
}

func (u *UnitConverter) densityFactor() float64 {
	return u.CharacteristicDensityPU / u.CharacteristicDensityLU
}

func (u *UnitConverter) pressureFactor() float64 {
	v := u.velocityFactor()
	return u.densityFactor() * v * v
}

// ConvertTimeToPU converts a lattice time (step count) to physical time.
func (u *UnitConverter) ConvertTimeToPU(t float64) float64 {
	return t * u.lengthFactor() / u.velocityFactor()
}

// VelocityPUToLU converts a single velocity value to lattice units.
func (u *UnitConverter) VelocityPUToLU(v float64) float64 {
	return v / u.velocityFactor()
}

// PressurePUToDensityLU converts a single physical pressure value to a
// lattice density via the lattice equation of state p = cs^2 (rho - rho0).
func (u *UnitConverter) PressurePUToDensityLU(p float64) float64 {
	cs2 := u.Stencil.Cs * u.Stencil.Cs
	return p/u.pressureFactor()/cs2 + u.CharacteristicDensityLU
}

// DensityLUToPressurePU converts a single lattice density to physical
// pressure.
func (u *UnitConverter) DensityLUToPressurePU(rho float64) float64 {
	cs2 := u.Stencil.Cs * u.Stencil.Cs
	return (rho - u.CharacteristicDensityLU) * cs2 * u.pressureFactor()
}

// ConvertVelocityToLU converts a physical velocity field to lattice units.
func (u *UnitConverter) ConvertVelocityToLU(v *Field) *Field {
	out := v.Clone()
	inv := 1 / u.velocityFactor()
	data := out.Data()
	for i := range data {
		data[i] *= inv
	}
	return out
}

// ConvertPressurePUToDensityLU converts a physical pressure field (shape
// [1]+grid) to a lattice density field.
func (u *UnitConverter) ConvertPressurePUToDensityLU(p *Field) *Field {
	out := p.Clone()
	data := out.Data()
	for i, v := range data {
		data[i] = u.PressurePUToDensityLU(v)
	}
	return out
}

// ConvertDensityLUToPressurePU converts a lattice density field (shape
// [1]+grid) to a physical pressure field.
func (u *UnitConverter) ConvertDensityLUToPressurePU(rho *Field) *Field {
	out := rho.Clone()
	data := out.Data()
	for i, v := range data {
		data[i] = u.DensityLUToPressurePU(v)
	}
	return out
}
