// Package lbm provides the core Lattice Boltzmann Method solver for lbm-sim.
//
// # Reading Guide
//
// Start with these three files to understand the solver kernel:
//   - field.go: the distribution field tensor and the no-collision mask
//   - lattice.go: discrete velocity sets, equilibrium, and moment extraction
//   - simulation.go: the stepping engine that composes everything per step
//
// # Architecture
//
// A Simulation owns the distribution field f (shape [Q] + grid) and advances
// it by alternating streaming and collision, with boundary corrections and
// reporter callbacks after each step. Everything the engine composes is a
// capability object injected at construction:
//   - Flow: grid, initial macroscopic fields, unit conversion, boundary list
//   - Collision: relaxation toward local equilibrium (BGK and variants)
//   - Streaming: advection of populations along discrete velocities
//   - Boundary: localized post-collision corrections, applied in list order
//   - Reporter: per-step observers for diagnostics (error norms, mass)
//
// # Key Interfaces
//
// The extension points are single-method or small interfaces:
//   - Collision, Streaming, Boundary: Apply(f) -> f
//   - CollisionMasker: optional boundary capability that contributes lattice
//     sites to the engine's no-collision mask (bounce-back walls)
//   - Reporter: Report(step, t, f), invoked once per executed step
//
// Throughput of Step is reported in MLUPS, millions of lattice-site updates
// per second, the standard performance metric for LBM solvers.
package lbm
