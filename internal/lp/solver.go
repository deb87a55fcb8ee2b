package lp

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrInfeasible reports that the constraint set admits no feasible point.
	ErrInfeasible = errors.New("lp: problem is infeasible")
	// ErrUnbounded reports that the objective can be improved without limit.
	ErrUnbounded = errors.New("lp: problem is unbounded")
)

// SolveError wraps a solver-internal failure (numerical trouble, budget
// exceeded, cancellation). It is distinct from ErrInfeasible/ErrUnbounded,
// which describe the problem rather than the solver.
type SolveError struct {
	Problem string
	Err     error
}

func (e *SolveError) Error() string {
	return fmt.Sprintf("lp: solve %s: %v", e.Problem, e.Err)
}

func (e *SolveError) Unwrap() error { return e.Err }

// Solver solves a continuous linear program to optimality.
type Solver interface {
	Solve(ctx context.Context, p *Problem) (*Solution, error)
}
