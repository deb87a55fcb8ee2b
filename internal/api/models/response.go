package models

// OptimizeResponse is the result of a completed run.
type OptimizeResponse struct {
	Status  string      `json:"status"`
	Summary RunSummary  `json:"summary"`
	Days    []DayResult `json:"days"`
	// Schedule is the full hourly schedule, present only when requested.
	Schedule []HourRow `json:"schedule,omitempty"`
}

// RunSummary aggregates the whole run.
type RunSummary struct {
	Months        []int         `json:"months"`
	DaysOptimized int           `json:"days_optimized"`
	TotalRevenue  float64       `json:"total_revenue"`
	FinalSOC      float64       `json:"final_soc"`
	MonthlyCycles []MonthCycles `json:"monthly_cycles"`
}

// MonthCycles is the per-month full-cycle count.
type MonthCycles struct {
	Month  int `json:"month"`
	Cycles int `json:"cycles"`
}

// DayResult summarizes one solved day.
type DayResult struct {
	Month     int     `json:"month"`
	Day       int     `json:"day"`
	Revenue   float64 `json:"revenue"`
	Cycles    int     `json:"cycles"`
	EndingSOC float64 `json:"ending_soc"`
}

// HourRow is one hour of the solved schedule.
type HourRow struct {
	Month           int     `json:"month"`
	Day             int     `json:"day"`
	Hour            int     `json:"hour"`
	Charge          float64 `json:"charge"`
	Discharge       float64 `json:"discharge"`
	RegUpDeployed   float64 `json:"reg_up_deployed"`
	RegDownDeployed float64 `json:"reg_down_deployed"`
	RegUpCapacity   float64 `json:"reg_up_capacity"`
	RegDownCapacity float64 `json:"reg_down_capacity"`
	StateOfCharge   float64 `json:"state_of_charge"`
}

// RankResponse lists months by arbitrage potential, best first.
type RankResponse struct {
	Months []MonthRank `json:"months"`
}

// MonthRank is one ranked month.
type MonthRank struct {
	Month             int     `json:"month"`
	Days              int     `json:"days"`
	MinPrice          float64 `json:"min_price"`
	MaxPrice          float64 `json:"max_price"`
	MeanPrice         float64 `json:"mean_price"`
	SpreadP95P05      float64 `json:"spread_p95_p05"`
	IdealSpreadProfit float64 `json:"ideal_spread_profit"`
}
