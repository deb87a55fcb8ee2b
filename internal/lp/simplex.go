package lp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gonum.org/v1/gonum/mat"
	simplex "gonum.org/v1/gonum/optimize/convex/lp"
)

// Simplex solves Problems with gonum's two-phase dense simplex.
//
// The problem is assembled into standard form (minimize c'x subject to
// Ax = b, x >= 0): the maximize objective is negated, every LE/GE
// constraint gets its own slack column, and rows with negative
// right-hand sides are negated so b >= 0 throughout.
type Simplex struct {
	// Tol is the simplex pivot tolerance. Zero selects gonum's default.
	Tol float64
	// Budget bounds the wall-clock time of one solve. Zero means no limit.
	// Exceeding the budget is reported as a SolveError, not a timeout the
	// caller should retry: for a 24-hour day model the simplex either
	// finishes quickly or is stuck.
	Budget time.Duration
}

func (s Simplex) Solve(ctx context.Context, p *Problem) (*Solution, error) {
	c, a, b, err := assemble(p)
	if err != nil {
		return nil, &SolveError{Problem: p.Name(), Err: err}
	}

	type outcome struct {
		opt float64
		x   []float64
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		opt, x, err := simplex.Simplex(c, a, b, s.Tol, nil)
		done <- outcome{opt: opt, x: x, err: err}
	}()

	var deadline <-chan time.Time
	if s.Budget > 0 {
		t := time.NewTimer(s.Budget)
		defer t.Stop()
		deadline = t.C
	}

	var out outcome
	select {
	case out = <-done:
	case <-ctx.Done():
		return nil, &SolveError{Problem: p.Name(), Err: ctx.Err()}
	case <-deadline:
		return nil, &SolveError{Problem: p.Name(), Err: fmt.Errorf("solve budget %s exceeded", s.Budget)}
	}

	switch {
	case errors.Is(out.err, simplex.ErrInfeasible):
		return nil, fmt.Errorf("%s: %w", p.Name(), ErrInfeasible)
	case errors.Is(out.err, simplex.ErrUnbounded):
		return nil, fmt.Errorf("%s: %w", p.Name(), ErrUnbounded)
	case out.err != nil:
		return nil, &SolveError{Problem: p.Name(), Err: out.err}
	}

	return &Solution{
		problem:   p,
		values:    out.x[:p.NumVars()],
		objective: -out.opt,
	}, nil
}

// assemble builds the standard-form matrices for p.
func assemble(p *Problem) (c []float64, a *mat.Dense, b []float64, err error) {
	n := p.NumVars()
	slacks := 0
	for _, con := range p.cons {
		if con.Op != Eq {
			slacks++
		}
	}
	rows := len(p.cons)
	if rows == 0 || n == 0 {
		return nil, nil, nil, errors.New("empty problem")
	}
	cols := n + slacks

	c = make([]float64, cols)
	for v, coef := range p.objective {
		c[v] = -coef
	}

	a = mat.NewDense(rows, cols, nil)
	b = make([]float64, rows)
	slack := n
	row := make([]float64, cols)
	for i, con := range p.cons {
		if len(con.Expr) == 0 {
			return nil, nil, nil, fmt.Errorf("constraint %q has no terms", con.Name)
		}
		for j := range row {
			row[j] = 0
		}
		for _, t := range con.Expr {
			if int(t.Var) >= n {
				return nil, nil, nil, fmt.Errorf("constraint %q references unknown variable", con.Name)
			}
			row[t.Var] += t.Coef
		}
		switch con.Op {
		case LE:
			row[slack] = 1
			slack++
		case GE:
			row[slack] = -1
			slack++
		}
		rhs := con.RHS
		if rhs < 0 {
			for j := range row {
				row[j] = -row[j]
			}
			rhs = -rhs
		}
		a.SetRow(i, row)
		b[i] = rhs
	}
	return c, a, b, nil
}
