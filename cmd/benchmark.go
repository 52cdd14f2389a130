package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lbm-sim/lbm-sim/lbm"
)

var (
	benchSteps      int // Number of time steps
	benchResolution int // Grid resolution
)

// benchmarkCmd runs a short Taylor-Green simulation and prints MLUPS.
var benchmarkCmd = &cobra.Command{
	Use:   "benchmark",
	Short: "Run a short simulation and print performance in MLUPS",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := &lbm.CaseConfig{
			Flow:       "taylor-green",
			Resolution: benchResolution,
			Reynolds:   1,
			Mach:       0.05,
			Steps:      benchSteps,
		}
		if err := cfg.Validate(); err != nil {
			logrus.Fatalf("Invalid benchmark parameters: %v", err)
		}
		sim, _, _, err := composeSimulation(cfg)
		if err != nil {
			logrus.Fatalf("Failed to construct simulation: %v", err)
		}
		mlups, err := sim.Step(benchSteps)
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		fmt.Printf("Finished %d steps on a %dx%d grid. MLUPS: %10.2f\n",
			benchSteps, benchResolution, benchResolution, mlups)
	},
}

func init() {
	benchmarkCmd.Flags().IntVarP(&benchSteps, "steps", "s", 10, "Number of time steps")
	benchmarkCmd.Flags().IntVarP(&benchResolution, "resolution", "r", 1024, "Grid resolution")
	rootCmd.AddCommand(benchmarkCmd)
}
