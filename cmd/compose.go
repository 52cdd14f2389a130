package cmd

import (
	"fmt"

	"github.com/lbm-sim/lbm-sim/lbm"
)

// composeSimulation builds a Simulation from a validated case config:
// flow + lattice + BGK collision + standard streaming, wired the same way
// for every subcommand.
func composeSimulation(cfg *lbm.CaseConfig) (*lbm.Simulation, *lbm.Lattice, lbm.Flow, error) {
	lattice := lbm.NewLattice(lbm.D2Q9)

	var flow lbm.Flow
	switch cfg.Flow {
	case "taylor-green":
		flow = lbm.NewTaylorGreenVortex2D(cfg.Resolution, cfg.Reynolds, cfg.Mach, lattice)
	case "obstacle":
		f, err := lbm.NewObstacleFlow2D(4*cfg.Resolution, cfg.Resolution, cfg.Reynolds, cfg.Mach, lattice)
		if err != nil {
			return nil, nil, nil, err
		}
		flow = f
	default:
		return nil, nil, nil, fmt.Errorf("unknown flow %q", cfg.Flow)
	}

	collision := lbm.NewBGKCollision(lattice, flow.Units().RelaxationParameterLU())
	streaming := lbm.NewStandardStreaming(lattice)

	sim, err := lbm.NewSimulation(flow, lattice, collision, streaming)
	if err != nil {
		return nil, nil, nil, err
	}
	return sim, lattice, flow, nil
}
