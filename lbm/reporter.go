package lbm

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/floats"
)

// Reporter observes the simulation once per executed step. The engine calls
// Report(i, i, f) with the step counter passed in both positions: reporters
// treat the first as the absolute step index and the second as the lattice
// time, which the stepping engine keeps identical. Well-behaved reporters
// must not mutate f.
type Reporter interface {
	Report(step, t int, f *Field)
}

// ErrorReporter records the relative L2 error of velocity and pressure
// against the analytic solution of an AnalyticFlow, every Interval steps.
type ErrorReporter struct {
	lattice  *Lattice
	flow     AnalyticFlow
	grid     *Grid
	Interval int
	Out      io.Writer // optional; one line per report when set

	// ErrorU and ErrorP hold one entry per report, in step order.
	ErrorU []float64
	ErrorP []float64
}

// NewErrorReporter creates a reporter comparing against flow's analytic
// solution every interval steps.
func NewErrorReporter(l *Lattice, flow AnalyticFlow, interval int, out io.Writer) *ErrorReporter {
	return &ErrorReporter{lattice: l, flow: flow, grid: flow.Grid(), Interval: interval, Out: out}
}

// Report computes the error norms if the step falls on the interval.
func (r *ErrorReporter) Report(step, t int, f *Field) {
	if r.Interval <= 0 || step%r.Interval != 0 {
		return
	}
	units := r.flow.Units()
	tPU := units.ConvertTimeToPU(float64(t))
	pRef, uRef, err := r.flow.Solution(tPU, r.grid)
	if err != nil {
		return
	}

	rho := r.lattice.Rho(f)
	p := units.ConvertDensityLUToPressurePU(rho)
	u := r.lattice.U(f)
	ud := u.Data()
	cv := units.velocityFactor()
	for i := range ud {
		ud[i] *= cv // to physical units
	}

	errU := relativeL2(ud, uRef.Data())
	errP := relativeL2(p.Data(), pRef.Data())
	r.ErrorU = append(r.ErrorU, errU)
	r.ErrorP = append(r.ErrorP, errP)
	if r.Out != nil {
		fmt.Fprintf(r.Out, "%d %.6e %.6e\n", step, errU, errP)
	}
}

// relativeL2 returns ||a-b|| / ||b||, or the absolute norm when b is zero.
func relativeL2(a, b []float64) float64 {
	diff := make([]float64, len(a))
	floats.SubTo(diff, a, b)
	num := floats.Norm(diff, 2)
	den := floats.Norm(b, 2)
	if den == 0 {
		return num
	}
	return num / den
}

// MassReporter records the total lattice mass (sum of densities) per step.
// Mass should stay constant under periodic streaming and BGK collision.
type MassReporter struct {
	lattice *Lattice
	Masses  []float64
}

// NewMassReporter creates a mass-tracking reporter.
func NewMassReporter(l *Lattice) *MassReporter {
	return &MassReporter{lattice: l}
}

// Report accumulates the total mass at this step.
func (r *MassReporter) Report(step, t int, f *Field) {
	r.Masses = append(r.Masses, floats.Sum(r.lattice.Rho(f).Data()))
}
