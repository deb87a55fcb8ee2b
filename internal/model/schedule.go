package model

// HourDecision holds the solved decision values for one hour.
// All quantities are MWh over the hour; StateOfCharge is the MWh stored at
// the end of the hour. Capacity fields stay zero under the deployed-only
// formulation, which has no capacity variables.
type HourDecision struct {
	Hour int

	Charge    float64
	Discharge float64

	RegUpDeployed   float64
	RegDownDeployed float64
	RegUpCapacity   float64
	RegDownCapacity float64

	StateOfCharge float64
}

// DaySchedule is the LP solution for one (month, day). It is produced once
// per solved day model and consumed immediately by the accumulator; only
// the ending state of charge outlives it, as the next day's boundary value.
type DaySchedule struct {
	Month int
	Day   int

	Hours [HoursPerDay]HourDecision

	// Revenue is the objective value of the solved model.
	Revenue float64
}

// EndingSOC returns the hour-24 state of charge, the sole value carried
// into the next day.
func (d *DaySchedule) EndingSOC() float64 {
	return d.Hours[HoursPerDay-1].StateOfCharge
}

// ChargeSideThroughput is total charge plus regulation-down deployed.
func (d *DaySchedule) ChargeSideThroughput() float64 {
	var sum float64
	for _, h := range d.Hours {
		sum += h.Charge + h.RegDownDeployed
	}
	return sum
}

// DischargeSideThroughput is total discharge plus regulation-up deployed.
func (d *DaySchedule) DischargeSideThroughput() float64 {
	var sum float64
	for _, h := range d.Hours {
		sum += h.Discharge + h.RegUpDeployed
	}
	return sum
}
