package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lbm-sim/lbm-sim/lbm"
)

var casePath string // Path to the YAML case file

// runCmd executes a simulation case described by a YAML file.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulation case from a YAML file",
	Run: func(cmd *cobra.Command, args []string) {
		if casePath == "" {
			logrus.Fatal("No case file provided; use --case")
		}
		cfg, err := lbm.LoadCaseConfig(casePath)
		if err != nil {
			logrus.Fatalf("Failed to load case: %v", err)
		}
		if err := cfg.Validate(); err != nil {
			logrus.Fatalf("Invalid case: %v", err)
		}

		sim, lattice, flow, err := composeSimulation(cfg)
		if err != nil {
			logrus.Fatalf("Failed to construct simulation: %v", err)
		}

		if cfg.LoadCheckpoint != "" {
			if err := sim.LoadCheckpoint(cfg.LoadCheckpoint); err != nil {
				logrus.Fatalf("Failed to load checkpoint: %v", err)
			}
			logrus.Infof("Resumed from checkpoint %s", cfg.LoadCheckpoint)
		}

		if cfg.MaxInitSteps > 0 {
			k, err := sim.Initialize(cfg.MaxInitSteps, cfg.TolPressure)
			if err != nil {
				logrus.Fatalf("Iterative initialization failed: %v", err)
			}
			logrus.Infof("Iterative initialization stopped after %d iterations", k+1)
		}

		if cfg.ReportInterval > 0 {
			if analytic, ok := flow.(lbm.AnalyticFlow); ok {
				sim.Reporters = append(sim.Reporters,
					lbm.NewErrorReporter(lattice, analytic, cfg.ReportInterval, os.Stdout))
			} else {
				logrus.Warnf("Flow %q has no analytic solution; error reporting disabled", cfg.Flow)
			}
		}

		mlups, err := sim.Step(cfg.Steps)
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		fmt.Printf("Finished %d steps. MLUPS: %10.2f\n", cfg.Steps, mlups)

		if cfg.SaveCheckpoint != "" {
			if err := sim.SaveCheckpoint(cfg.SaveCheckpoint); err != nil {
				logrus.Fatalf("Failed to save checkpoint: %v", err)
			}
		}
	},
}

func init() {
	runCmd.Flags().StringVar(&casePath, "case", "", "Path to YAML case file")
	rootCmd.AddCommand(runCmd)
}
