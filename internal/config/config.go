package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"bess-dispatch/internal/data"
	"bess-dispatch/internal/model"
	"bess-dispatch/internal/optimizer"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	Battery   BatteryConfig   `yaml:"battery"`
	Optimizer OptimizerConfig `yaml:"optimizer"`
	Data      DataConfig      `yaml:"data"`
	Output    OutputConfig    `yaml:"output"`
	Database  DatabaseConfig  `yaml:"database"`
}

type BatteryConfig struct {
	MaxChargeMWh float64 `yaml:"max_charge_mwh"`
	QMaxDMW      float64 `yaml:"q_max_d_mw"`
	QMaxRMW      float64 `yaml:"q_max_r_mw"`
	LambdaC      float64 `yaml:"lambda_c"`
	LambdaReg    float64 `yaml:"lambda_reg"`
	// InitialSOC is a pointer so an explicit 0 (start empty) is
	// distinguishable from an absent field, which defaults to 100.
	InitialSOC *float64 `yaml:"initial_soc_mwh"`
}

type OptimizerConfig struct {
	// Formulation is "capacity_aware" (default) or "deployed_only".
	Formulation string `yaml:"formulation"`
	// CycleFactor overrides the full-cycle detection factor. 0 keeps the default.
	CycleFactor float64 `yaml:"cycle_factor"`
	// SolveBudget bounds one day's solve, as a Go duration string ("30s").
	SolveBudget string `yaml:"solve_budget"`
	// Tolerance is the simplex pivot tolerance. 0 keeps the solver default.
	Tolerance float64 `yaml:"tolerance"`
}

type DataConfig struct {
	InputDir       string `yaml:"input_dir"`
	EnergyFile     string `yaml:"energy_file"`
	RegulationFile string `yaml:"regulation_file"`
	Months         []int  `yaml:"months"`
}

type OutputConfig struct {
	Dir string `yaml:"dir"`
}

type DatabaseConfig struct {
	// DSN enables the Postgres results mirror when non-empty.
	DSN string `yaml:"dsn"`
}

// Default returns the reference configuration used when a field (or the
// whole file) is absent.
func Default() *Config {
	return &Config{
		Battery: BatteryConfig{
			MaxChargeMWh: 200,
			QMaxDMW:      100,
			QMaxRMW:      100,
			LambdaC:      0.9,
			LambdaReg:    0.1,
			InitialSOC:   floatPtr(100),
		},
		Optimizer: OptimizerConfig{
			Formulation: "capacity_aware",
			SolveBudget: "30s",
		},
		Data: DataConfig{
			InputDir:       "./data/input",
			EnergyFile:     data.EnergyPricesFile,
			RegulationFile: data.RegulationPricesFile,
			Months:         []int{1, 2},
		},
		Output: OutputConfig{Dir: "./data/output"},
	}
}

// Load reads, defaults, and validates a config file.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked reads a config file without defaulting or validation.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.Battery.MaxChargeMWh == 0 {
		c.Battery.MaxChargeMWh = def.Battery.MaxChargeMWh
	}
	if c.Battery.QMaxDMW == 0 {
		c.Battery.QMaxDMW = def.Battery.QMaxDMW
	}
	if c.Battery.QMaxRMW == 0 {
		c.Battery.QMaxRMW = def.Battery.QMaxRMW
	}
	if c.Battery.LambdaC == 0 {
		c.Battery.LambdaC = def.Battery.LambdaC
	}
	if c.Battery.LambdaReg == 0 {
		c.Battery.LambdaReg = def.Battery.LambdaReg
	}
	if c.Battery.InitialSOC == nil {
		c.Battery.InitialSOC = def.Battery.InitialSOC
	}
	if c.Optimizer.Formulation == "" {
		c.Optimizer.Formulation = def.Optimizer.Formulation
	}
	if c.Optimizer.SolveBudget == "" {
		c.Optimizer.SolveBudget = def.Optimizer.SolveBudget
	}
	if c.Data.InputDir == "" {
		c.Data.InputDir = def.Data.InputDir
	}
	if c.Data.EnergyFile == "" {
		c.Data.EnergyFile = def.Data.EnergyFile
	}
	if c.Data.RegulationFile == "" {
		c.Data.RegulationFile = def.Data.RegulationFile
	}
	if len(c.Data.Months) == 0 {
		c.Data.Months = append([]int(nil), def.Data.Months...)
	}
	if c.Output.Dir == "" {
		c.Output.Dir = def.Output.Dir
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if err := c.BatteryParams().Validate(); err != nil {
		return fmt.Errorf("battery config invalid: %w", err)
	}
	if soc := c.InitialSOC(); soc < 0 || soc > c.Battery.MaxChargeMWh {
		return fmt.Errorf("initial_soc_mwh must be within [0, %g]", c.Battery.MaxChargeMWh)
	}
	if _, err := optimizer.ParseFormulation(c.Optimizer.Formulation); err != nil {
		return err
	}
	if _, err := c.SolveBudget(); err != nil {
		return err
	}
	if c.Optimizer.CycleFactor < 0 {
		return errors.New("cycle_factor must be >= 0")
	}
	for i, m := range c.Data.Months {
		if m < 1 || m > 12 {
			return fmt.Errorf("month %d out of range", m)
		}
		if i > 0 && m <= c.Data.Months[i-1] {
			return fmt.Errorf("months must be strictly ascending, got %v", c.Data.Months)
		}
	}
	return nil
}

// BatteryParams maps the battery section onto the model type.
func (c *Config) BatteryParams() model.BatteryParams {
	return model.BatteryParams{
		MaxCharge: c.Battery.MaxChargeMWh,
		QMaxD:     c.Battery.QMaxDMW,
		QMaxR:     c.Battery.QMaxRMW,
		LambdaC:   c.Battery.LambdaC,
		LambdaReg: c.Battery.LambdaReg,
	}
}

// InitialSOC returns the run-level starting state of charge (MWh), the
// default when the field was absent.
func (c *Config) InitialSOC() float64 {
	if c.Battery.InitialSOC == nil {
		return *Default().Battery.InitialSOC
	}
	return *c.Battery.InitialSOC
}

func floatPtr(v float64) *float64 { return &v }

// Formulation parses the configured formulation tag.
func (c *Config) Formulation() (optimizer.Formulation, error) {
	return optimizer.ParseFormulation(c.Optimizer.Formulation)
}

// SolveBudget parses the configured per-day solve budget.
func (c *Config) SolveBudget() (time.Duration, error) {
	if c.Optimizer.SolveBudget == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Optimizer.SolveBudget)
	if err != nil {
		return 0, fmt.Errorf("solve_budget: %w", err)
	}
	if d < 0 {
		return 0, errors.New("solve_budget must be >= 0")
	}
	return d, nil
}
