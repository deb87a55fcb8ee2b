package optimizer

import "fmt"

// InfeasibleError reports that a day's LP admits no feasible point, e.g.
// when the boundary state of charge contradicts the capacity bound. It is
// not retryable: the run must abort and surface the failing day.
type InfeasibleError struct {
	Month int
	Day   int
}

func (e *InfeasibleError) Error() string {
	return fmt.Sprintf("day model month=%d day=%d is infeasible", e.Month, e.Day)
}

// SolverError reports a numerical or solver-internal failure for one day.
// Like infeasibility it aborts the run.
type SolverError struct {
	Month int
	Day   int
	Err   error
}

func (e *SolverError) Error() string {
	return fmt.Sprintf("day model month=%d day=%d solver failure: %v", e.Month, e.Day, e.Err)
}

func (e *SolverError) Unwrap() error { return e.Err }
