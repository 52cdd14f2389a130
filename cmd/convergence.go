package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"

	"github.com/lbm-sim/lbm-sim/lbm"
)

// convergenceCmd runs the Taylor-Green vortex at doubling resolutions in
// diffusive scaling and prints the observed error orders for velocity and
// pressure.
var convergenceCmd = &cobra.Command{
	Use:   "convergence",
	Short: "Taylor-Green 2D convergence test in diffusive scaling",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%15s %15s %15s %15s %15s\n",
			"resolution", "error (u)", "order (u)", "error (p)", "order (p)")

		var errUOld, errPOld float64
		for i := 4; i <= 8; i++ {
			resolution := 1 << i
			// diffusive scaling: Mach shrinks with the grid spacing
			mach := 8.0 / float64(resolution)

			lattice := lbm.NewLattice(lbm.D2Q9)
			flow := lbm.NewTaylorGreenVortex2D(resolution, 10000, mach, lattice)
			collision := lbm.NewBGKCollision(lattice, flow.Units().RelaxationParameterLU())
			streaming := lbm.NewStandardStreaming(lattice)
			sim, err := lbm.NewSimulation(flow, lattice, collision, streaming)
			if err != nil {
				logrus.Fatalf("Failed to construct simulation: %v", err)
			}
			reporter := lbm.NewErrorReporter(lattice, flow, 1, nil)
			sim.Reporters = append(sim.Reporters, reporter)

			if _, err := sim.Step(10 * resolution); err != nil {
				logrus.Fatalf("Simulation failed: %v", err)
			}

			errU := stat.Mean(reporter.ErrorU, nil)
			errP := stat.Mean(reporter.ErrorP, nil)
			var orderU, orderP float64
			if errUOld > 0 {
				orderU = errUOld / errU / 2
			}
			if errPOld > 0 {
				orderP = errPOld / errP / 2
			}
			errUOld, errPOld = errU, errP
			fmt.Printf("%15d %15.2e %15.1f %15.2e %15.1f\n",
				resolution, errU, orderU, errP, orderP)
		}
	},
}

func init() {
	rootCmd.AddCommand(convergenceCmd)
}
