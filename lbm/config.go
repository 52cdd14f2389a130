package lbm

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CaseConfig describes a simulation case, loadable from a YAML file. Zero
// values fall back to the documented defaults in Validate.
type CaseConfig struct {
	Flow       string  `yaml:"flow"`       // "taylor-green" or "obstacle"
	Resolution int     `yaml:"resolution"` // grid points per characteristic length
	Reynolds   float64 `yaml:"reynolds"`
	Mach       float64 `yaml:"mach"`
	Steps      int     `yaml:"steps"`

	// Iterative initialization (experimental); disabled when MaxInitSteps
	// is zero.
	MaxInitSteps int     `yaml:"max_init_steps"`
	TolPressure  float64 `yaml:"tol_pressure"`

	ReportInterval int `yaml:"report_interval"` // 0 disables error reporting

	LoadCheckpoint string `yaml:"load_checkpoint"`
	SaveCheckpoint string `yaml:"save_checkpoint"`
}

// ValidFlows is the set of recognized flow names.
var ValidFlows = map[string]bool{"taylor-green": true, "obstacle": true}

// LoadCaseConfig reads and parses a YAML case file.
func LoadCaseConfig(path string) (*CaseConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading case config: %w", err)
	}
	var cfg CaseConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing case config: %w", err)
	}
	return &cfg, nil
}

// Validate checks names and parameter ranges and fills defaults.
func (c *CaseConfig) Validate() error {
	if !ValidFlows[c.Flow] {
		return fmt.Errorf("unknown flow %q", c.Flow)
	}
	if c.Resolution <= 0 {
		return fmt.Errorf("resolution must be positive, got %d", c.Resolution)
	}
	if c.Reynolds <= 0 {
		return fmt.Errorf("reynolds must be positive, got %f", c.Reynolds)
	}
	if c.Mach <= 0 {
		c.Mach = 0.05
	}
	if c.Steps < 0 {
		return fmt.Errorf("steps must be non-negative, got %d", c.Steps)
	}
	if c.MaxInitSteps > 0 && c.TolPressure <= 0 {
		c.TolPressure = 1e-3
	}
	return nil
}
