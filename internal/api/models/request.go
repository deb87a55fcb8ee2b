package models

// OptimizeRequest is the request body for running a scheduled optimization.
type OptimizeRequest struct {
	// Months to optimize, strictly ascending calendar order.
	Months []int `json:"months" binding:"required"`
	// InitialSOC overrides the configured run-level starting state of charge
	// (MWh). Nil keeps the configured value.
	InitialSOC *float64 `json:"initial_soc,omitempty"`
	// Battery optionally overrides configured battery parameters; zero
	// fields keep their configured values.
	Battery BatteryOverride `json:"battery,omitempty"`
	// IncludeSchedule includes the full hourly schedule in the response.
	// Default: summaries only.
	IncludeSchedule bool `json:"include_schedule,omitempty"`
}

// BatteryOverride mirrors the battery config section.
type BatteryOverride struct {
	MaxChargeMWh float64 `json:"max_charge_mwh,omitempty"`
	QMaxDMW      float64 `json:"q_max_d_mw,omitempty"`
	QMaxRMW      float64 `json:"q_max_r_mw,omitempty"`
	LambdaC      float64 `json:"lambda_c,omitempty"`
	LambdaReg    float64 `json:"lambda_reg,omitempty"`
}

// RankRequest selects months for the potential ranking endpoint.
type RankRequest struct {
	// Months is a comma-separated list; empty means the configured months.
	Months string `form:"months,omitempty"`
}
