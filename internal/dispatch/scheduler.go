package dispatch

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"bess-dispatch/internal/lp"
	"bess-dispatch/internal/model"
	"bess-dispatch/internal/optimizer"
)

// PriceSource supplies one month of prepared market data.
type PriceSource interface {
	Load(ctx context.Context, month int) (*model.MonthData, error)
}

// SequenceError reports months supplied out of chronological order. The
// carryover state of charge is only physically meaningful when days are
// processed in calendar order, so this is validated before any solve.
type SequenceError struct {
	Prev int
	Next int
}

func (e *SequenceError) Error() string {
	return fmt.Sprintf("months out of chronological order: %d scheduled after %d", e.Next, e.Prev)
}

// Scheduler drives the day-by-day optimization loop, threading each day's
// ending state of charge into the next day's boundary constraint.
type Scheduler struct {
	Params model.BatteryParams
	Form   optimizer.Formulation
	Solver lp.Solver
	Source PriceSource

	// CycleFactor is the throughput multiple used for full-cycle detection.
	// Zero selects DefaultCycleFactor.
	CycleFactor float64

	Log zerolog.Logger
}

func NewScheduler(params model.BatteryParams, form optimizer.Formulation, solver lp.Solver, source PriceSource, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		Params: params,
		Form:   form,
		Solver: solver,
		Source: source,
		Log:    log,
	}
}

// Run optimizes every available day of the given months, in order, starting
// from initialSOC. Months must be strictly ascending. Any per-day failure
// aborts the whole run: a skipped day would leave every later day chained
// to an undefined state of charge, so there is no skip-and-continue path.
func (s *Scheduler) Run(ctx context.Context, months []int, initialSOC float64) (*RunResult, error) {
	if err := s.Params.Validate(); err != nil {
		return nil, fmt.Errorf("battery params: %w", err)
	}
	if len(months) == 0 {
		return nil, fmt.Errorf("no months to schedule")
	}
	for i, m := range months {
		if m < 1 || m > 12 {
			return nil, fmt.Errorf("month %d out of range", m)
		}
		if i > 0 && m <= months[i-1] {
			return nil, &SequenceError{Prev: months[i-1], Next: m}
		}
	}

	factor := s.CycleFactor
	if factor == 0 {
		factor = DefaultCycleFactor
	}
	acc := newAccumulator(s.Params, factor)

	// Carryover state: zero until the first day is solved. Calendar day 1
	// of any month is pinned to initialSOC instead, inside the day model.
	carry := 0.0

	for _, month := range months {
		md, err := s.Source.Load(ctx, month)
		if err != nil {
			return nil, fmt.Errorf("load prices for month %d: %w", month, err)
		}
		days := append([]int(nil), md.Days...)
		sort.Ints(days)

		for _, day := range days {
			s.Log.Info().Int("month", month).Int("day", day).Msg("optimizing day")

			dm := optimizer.NewDayModel(s.Params, s.Form, month, day)
			if err := dm.BuildVariables(); err != nil {
				return nil, err
			}
			if err := dm.SetObjective(md.Energy, md.RegUp, md.RegDown); err != nil {
				return nil, err
			}
			if err := dm.AddConstraints(initialSOC, md.MissingEnergy, md.MissingRegUp, md.MissingRegDown, carry); err != nil {
				return nil, err
			}
			sched, err := dm.Solve(ctx, s.Solver)
			if err != nil {
				s.Log.Error().Err(err).Int("month", month).Int("day", day).Msg("day solve failed, aborting run")
				return nil, err
			}

			carry = acc.add(sched)
			s.Log.Info().
				Int("month", month).
				Int("day", day).
				Float64("revenue", sched.Revenue).
				Float64("ending_soc", carry).
				Msg("day optimized")
		}
	}

	return acc.result(), nil
}
