package optimizer

import (
	"context"
	"errors"
	"fmt"

	"bess-dispatch/internal/lp"
	"bess-dispatch/internal/model"
)

type buildState int

const (
	stateUnbuilt buildState = iota
	stateVariables
	stateObjective
	stateConstraints
	stateSolved
	stateInfeasible
	stateFailed
)

// DayModel builds and solves the linear program for one (month, day).
//
// The lifecycle is strict: BuildVariables, SetObjective, AddConstraints,
// Solve, in that order, each at most once. A solved (or failed) instance
// is discarded; the next day gets a fresh model.
type DayModel struct {
	params model.BatteryParams
	form   Formulation
	month  int
	day    int

	state buildState
	prob  *lp.Problem

	charge    [model.HoursPerDay]lp.Var
	discharge [model.HoursPerDay]lp.Var
	regUp     [model.HoursPerDay]lp.Var // deployed
	regDown   [model.HoursPerDay]lp.Var // deployed
	regUpCap  [model.HoursPerDay]lp.Var // capacity-aware only
	regDnCap  [model.HoursPerDay]lp.Var // capacity-aware only
	soc       [model.HoursPerDay]lp.Var // state of charge at end of hour
}

func NewDayModel(params model.BatteryParams, form Formulation, month, day int) *DayModel {
	return &DayModel{params: params, form: form, month: month, day: day}
}

func (m *DayModel) key(hour int) model.HourKey {
	return model.HourKey{Month: m.month, Hour: hour, Day: m.day}
}

// BuildVariables declares the hourly decision variables. All variables are
// nonnegative; upper bounds arrive later as constraints.
func (m *DayModel) BuildVariables() error {
	if m.state != stateUnbuilt {
		return fmt.Errorf("day model m%dd%d: variables already built", m.month, m.day)
	}
	m.prob = lp.NewProblem(fmt.Sprintf("bess_day_m%dd%d", m.month, m.day))
	for h := 1; h <= model.HoursPerDay; h++ {
		i := h - 1
		m.charge[i] = m.prob.Var(fmt.Sprintf("charge_%d", h))
		m.discharge[i] = m.prob.Var(fmt.Sprintf("discharge_%d", h))
		m.regUp[i] = m.prob.Var(fmt.Sprintf("reg_up_deployed_%d", h))
		m.regDown[i] = m.prob.Var(fmt.Sprintf("reg_down_deployed_%d", h))
		if m.form == CapacityAware {
			m.regUpCap[i] = m.prob.Var(fmt.Sprintf("reg_up_capacity_%d", h))
			m.regDnCap[i] = m.prob.Var(fmt.Sprintf("reg_down_capacity_%d", h))
		}
		m.soc[i] = m.prob.Var(fmt.Sprintf("state_of_charge_%d", h))
	}
	m.state = stateVariables
	return nil
}

// SetObjective installs the revenue-maximizing objective. Price lookups go
// through the filled series, so an hour absent from the map contributes a
// zero price, matching the fill-to-zero policy of the data layer.
//
// The regulation-down deployment term is subtracted under CapacityAware and
// added under DeployedOnly; the asymmetry is deliberate and carried as-is.
func (m *DayModel) SetObjective(energy, regUp, regDown model.PriceSeries) error {
	if m.state != stateVariables {
		return fmt.Errorf("day model m%dd%d: objective requires built variables", m.month, m.day)
	}
	for h := 1; h <= model.HoursPerDay; h++ {
		i := h - 1
		k := m.key(h)
		e, ru, rd := energy[k], regUp[k], regDown[k]

		m.prob.Maximize(lp.Expr{
			{Var: m.discharge[i], Coef: e},
			{Var: m.charge[i], Coef: -e},
			{Var: m.regUp[i], Coef: ru},
		})
		switch m.form {
		case CapacityAware:
			m.prob.Maximize(lp.Expr{
				{Var: m.regDown[i], Coef: -rd},
				{Var: m.regUpCap[i], Coef: ru},
				{Var: m.regDnCap[i], Coef: rd},
			})
		case DeployedOnly:
			m.prob.Maximize(lp.Expr{{Var: m.regDown[i], Coef: rd}})
		}
	}
	m.state = stateObjective
	return nil
}

// AddConstraints installs the full constraint set.
//
// initialCharge is the run-level starting state of charge; prevDayEndSOC is
// the carried-over hour-24 value from the previously solved day. The model
// pins soc[1] to initialCharge on calendar day 1 and to prevDayEndSOC on
// every later day.
func (m *DayModel) AddConstraints(initialCharge float64, missEnergy, missRegUp, missRegDown model.MissingSet, prevDayEndSOC float64) error {
	if m.state != stateObjective {
		return fmt.Errorf("day model m%dd%d: constraints require an objective", m.month, m.day)
	}
	p := m.params

	// Regulation flows enter the state-of-charge recursion at the deployed
	// quantity under CapacityAware; DeployedOnly folds the deployment rate in.
	regRate := p.LambdaC
	if m.form == DeployedOnly {
		regRate = p.LambdaC * p.LambdaReg
	}

	for h := 2; h <= model.HoursPerDay; h++ {
		i := h - 1
		m.prob.Add("soc_recursion_"+m.key(h).String(), lp.Expr{
			{Var: m.soc[i], Coef: 1},
			{Var: m.soc[i-1], Coef: -1},
			{Var: m.charge[i], Coef: -p.LambdaC},
			{Var: m.discharge[i], Coef: p.LambdaC},
			{Var: m.regUp[i], Coef: regRate},
			{Var: m.regDown[i], Coef: -regRate},
		}, lp.Eq, 0)
	}

	boundary := initialCharge
	if m.day > 1 {
		boundary = prevDayEndSOC
	}
	m.prob.Add("soc_boundary_"+m.key(1).String(), lp.Expr{{Var: m.soc[0], Coef: 1}}, lp.Eq, boundary)

	for h := 1; h <= model.HoursPerDay; h++ {
		i := h - 1
		k := m.key(h)
		m.prob.Add("soc_upper_bound_"+k.String(), lp.Expr{{Var: m.soc[i], Coef: 1}}, lp.LE, p.MaxCharge)
		m.prob.Add("recharge_upper_bound_"+k.String(), lp.Expr{
			{Var: m.charge[i], Coef: 1},
			{Var: m.regDown[i], Coef: 1},
		}, lp.LE, p.QMaxR)
		m.prob.Add("discharge_upper_bound_"+k.String(), lp.Expr{
			{Var: m.discharge[i], Coef: 1},
			{Var: m.regUp[i], Coef: 1},
		}, lp.LE, p.QMaxD)
	}

	if m.form == CapacityAware {
		for h := 1; h <= model.HoursPerDay; h++ {
			i := h - 1
			k := m.key(h)
			m.prob.Add("reg_up_deployment_"+k.String(), lp.Expr{
				{Var: m.regUp[i], Coef: 1},
				{Var: m.regUpCap[i], Coef: -p.LambdaReg},
			}, lp.Eq, 0)
			m.prob.Add("reg_down_deployment_"+k.String(), lp.Expr{
				{Var: m.regDown[i], Coef: 1},
				{Var: m.regDnCap[i], Coef: -p.LambdaReg},
			}, lp.Eq, 0)
		}
	}

	// Hours missing from the source data take no position at all.
	for h := 1; h <= model.HoursPerDay; h++ {
		i := h - 1
		k := m.key(h)
		if missEnergy.Contains(k) {
			m.prob.Add("missing_energy_"+k.String(), lp.Expr{
				{Var: m.charge[i], Coef: 1},
				{Var: m.discharge[i], Coef: 1},
			}, lp.Eq, 0)
		}
		if missRegUp.Contains(k) {
			m.prob.Add("missing_reg_up_"+k.String(), lp.Expr{{Var: m.regUp[i], Coef: 1}}, lp.Eq, 0)
		}
		if missRegDown.Contains(k) {
			m.prob.Add("missing_reg_down_"+k.String(), lp.Expr{{Var: m.regDown[i], Coef: 1}}, lp.Eq, 0)
		}
	}

	// Daily cycle caps: total charge-side and discharge-side throughput each
	// limited to one nameplate cycle. CapacityAware caps against the energy
	// capacity, DeployedOnly against the respective power rating.
	chargeCap, dischargeCap := p.MaxCharge, p.MaxCharge
	if m.form == DeployedOnly {
		chargeCap, dischargeCap = p.QMaxR, p.QMaxD
	}
	chargeSide := make(lp.Expr, 0, 2*model.HoursPerDay)
	dischargeSide := make(lp.Expr, 0, 2*model.HoursPerDay)
	for i := 0; i < model.HoursPerDay; i++ {
		chargeSide = append(chargeSide, lp.Term{Var: m.charge[i], Coef: 1}, lp.Term{Var: m.regDown[i], Coef: 1})
		dischargeSide = append(dischargeSide, lp.Term{Var: m.discharge[i], Coef: 1}, lp.Term{Var: m.regUp[i], Coef: 1})
	}
	dayKey := fmt.Sprintf("m%dd%d", m.month, m.day)
	m.prob.Add("charge_cycle_cap_"+dayKey, chargeSide, lp.LE, chargeCap)
	m.prob.Add("discharge_cycle_cap_"+dayKey, dischargeSide, lp.LE, dischargeCap)

	m.state = stateConstraints
	return nil
}

// Solve hands the assembled program to the solver and extracts the day's
// schedule. Infeasibility and solver failure come back as typed errors
// carrying the failing (month, day); neither is retryable.
func (m *DayModel) Solve(ctx context.Context, solver lp.Solver) (*model.DaySchedule, error) {
	if m.state != stateConstraints {
		return nil, fmt.Errorf("day model m%dd%d: solve requires constraints", m.month, m.day)
	}

	sol, err := solver.Solve(ctx, m.prob)
	if err != nil {
		if errors.Is(err, lp.ErrInfeasible) {
			m.state = stateInfeasible
			return nil, &InfeasibleError{Month: m.month, Day: m.day}
		}
		m.state = stateFailed
		return nil, &SolverError{Month: m.month, Day: m.day, Err: err}
	}
	m.state = stateSolved

	sched := &model.DaySchedule{Month: m.month, Day: m.day, Revenue: sol.Objective()}
	for h := 1; h <= model.HoursPerDay; h++ {
		i := h - 1
		d := model.HourDecision{
			Hour:            h,
			Charge:          sol.Value(m.charge[i]),
			Discharge:       sol.Value(m.discharge[i]),
			RegUpDeployed:   sol.Value(m.regUp[i]),
			RegDownDeployed: sol.Value(m.regDown[i]),
			StateOfCharge:   sol.Value(m.soc[i]),
		}
		if m.form == CapacityAware {
			d.RegUpCapacity = sol.Value(m.regUpCap[i])
			d.RegDownCapacity = sol.Value(m.regDnCap[i])
		}
		sched.Hours[i] = d
	}
	return sched, nil
}
