package dispatch

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bess-dispatch/internal/lp"
	"bess-dispatch/internal/model"
	"bess-dispatch/internal/optimizer"
)

// fakeSource serves pre-built month data from memory.
type fakeSource struct {
	months map[int]*model.MonthData
	err    error
}

func (f *fakeSource) Load(ctx context.Context, month int) (*model.MonthData, error) {
	if f.err != nil {
		return nil, f.err
	}
	md, ok := f.months[month]
	if !ok {
		return nil, fmt.Errorf("no data for month %d", month)
	}
	return md, nil
}

// buildMonth constructs one month of energy prices with regulation blacked
// out for every hour, so throughput is pure charge and discharge.
func buildMonth(month int, days []int, energy func(day, hour int) float64) *model.MonthData {
	md := &model.MonthData{
		Month:          month,
		Energy:         model.PriceSeries{},
		RegUp:          model.PriceSeries{},
		RegDown:        model.PriceSeries{},
		MissingEnergy:  model.MissingSet{},
		MissingRegUp:   model.MissingSet{},
		MissingRegDown: model.MissingSet{},
		Days:           days,
	}
	for _, d := range days {
		for h := 1; h <= model.HoursPerDay; h++ {
			k := model.HourKey{Month: month, Hour: h, Day: d}
			md.Energy[k] = energy(d, h)
			md.MissingRegUp.Add(k)
			md.MissingRegDown.Add(k)
		}
	}
	return md
}

// cycleDayPrices engineers a day whose optimum is a full cycle under the
// times-two convention: charging is paid (negative price) in hours 2 and 3,
// so the charge side is driven to its 200 MWh cap, and the 100 $/MWh hours
// 4 and 5 pull the full 200 MWh out again.
func cycleDayPrices(day, hour int) float64 {
	switch hour {
	case 2, 3:
		return -1
	case 4, 5:
		return 100
	default:
		return 0
	}
}

func flatTenPrices(day, hour int) float64 { return 10 }

func newTestScheduler(src PriceSource) *Scheduler {
	return NewScheduler(model.DefaultBatteryParams(), optimizer.CapacityAware, &lp.Simplex{}, src, zerolog.Nop())
}

func TestScheduler_RunCarriesStateAcrossDays(t *testing.T) {
	src := &fakeSource{months: map[int]*model.MonthData{
		1: buildMonth(1, []int{1}, cycleDayPrices),
		2: buildMonth(2, []int{2}, flatTenPrices),
	}}
	s := newTestScheduler(src)

	res, err := s.Run(context.Background(), []int{1, 2}, 20)
	require.NoError(t, err)
	require.Len(t, res.Days, 2)

	// Month 1 day 1: paid charging fills the 200 MWh daily cap, the
	// 100 $/MWh hours drain it. Revenue 1*200 + 100*200.
	d1 := res.Days[0]
	assert.Equal(t, 1, d1.Month)
	assert.Equal(t, 1, d1.Day)
	assert.InDelta(t, 20200, d1.Revenue, 1e-4)
	assert.InDelta(t, 200, d1.ChargeSideThroughput(), 1e-6)
	assert.InDelta(t, 200, d1.DischargeSideThroughput(), 1e-6)
	assert.InDelta(t, 20, d1.EndingSOC(), 1e-6)

	// Month 2 day 2 starts from the carried 20 MWh: its hour-1 state of
	// charge is pinned to the previous day's ending value.
	d2 := res.Days[1]
	assert.InDelta(t, 20, d2.Hours[0].StateOfCharge, 1e-6)
	// Hour-1 flows sit outside the recursion, so a flat 10 $/MWh day sells
	// 100 MWh at hour 1 plus the 20/0.9 MWh the carried charge supports.
	assert.InDelta(t, 1000+10*20/0.9, d2.Revenue, 1e-4)
	assert.InDelta(t, 0, d2.EndingSOC(), 1e-6)

	assert.InDelta(t, d1.Revenue+d2.Revenue, res.TotalRevenue, 1e-4)
	assert.InDelta(t, 0, res.FinalSOC, 1e-6)
}

func TestScheduler_CycleCounting(t *testing.T) {
	src := &fakeSource{months: map[int]*model.MonthData{
		1: buildMonth(1, []int{1}, cycleDayPrices),
		2: buildMonth(2, []int{2}, flatTenPrices),
	}}
	s := newTestScheduler(src)

	res, err := s.Run(context.Background(), []int{1, 2}, 20)
	require.NoError(t, err)

	// Both side throughputs of the engineered day land exactly on twice
	// the nameplate 100 MW, so it counts as one full cycle; the flat day
	// moves far less and counts zero.
	require.Len(t, res.DailyCycles, 2)
	assert.Equal(t, CycleRow{Month: 1, Day: 1, Cycles: 1}, res.DailyCycles[0])
	assert.Equal(t, CycleRow{Month: 2, Day: 2, Cycles: 0}, res.DailyCycles[1])

	require.Len(t, res.MonthlyCycles, 2)
	assert.Equal(t, MonthCycles{Month: 1, Cycles: 1}, res.MonthlyCycles[0])
	assert.Equal(t, MonthCycles{Month: 2, Cycles: 0}, res.MonthlyCycles[1])
}

func TestScheduler_CycleFactorOne(t *testing.T) {
	// Under a times-one reading of the convention the same day overshoots
	// the 100 MWh target and no longer counts as a cycle.
	src := &fakeSource{months: map[int]*model.MonthData{
		1: buildMonth(1, []int{1}, cycleDayPrices),
	}}
	s := newTestScheduler(src)
	s.CycleFactor = 1

	res, err := s.Run(context.Background(), []int{1}, 20)
	require.NoError(t, err)
	require.Len(t, res.DailyCycles, 1)
	assert.Equal(t, 0, res.DailyCycles[0].Cycles)
}

func TestScheduler_RunIsRepeatable(t *testing.T) {
	src := &fakeSource{months: map[int]*model.MonthData{
		1: buildMonth(1, []int{1}, cycleDayPrices),
	}}
	s := newTestScheduler(src)

	first, err := s.Run(context.Background(), []int{1}, 20)
	require.NoError(t, err)
	second, err := s.Run(context.Background(), []int{1}, 20)
	require.NoError(t, err)

	assert.Equal(t, first.TotalRevenue, second.TotalRevenue)
	assert.Equal(t, first.FinalSOC, second.FinalSOC)
	assert.Equal(t, first.DailyCycles, second.DailyCycles)
}

func TestScheduler_MonthOrderValidation(t *testing.T) {
	src := &fakeSource{months: map[int]*model.MonthData{}}
	s := newTestScheduler(src)

	_, err := s.Run(context.Background(), []int{2, 1}, 20)
	var seqErr *SequenceError
	require.ErrorAs(t, err, &seqErr)
	assert.Equal(t, 2, seqErr.Prev)
	assert.Equal(t, 1, seqErr.Next)

	_, err = s.Run(context.Background(), []int{3, 3}, 20)
	require.ErrorAs(t, err, &seqErr)

	_, err = s.Run(context.Background(), []int{0}, 20)
	require.Error(t, err)

	_, err = s.Run(context.Background(), []int{13}, 20)
	require.Error(t, err)

	_, err = s.Run(context.Background(), nil, 20)
	require.Error(t, err)
}

func TestScheduler_SourceErrorAbortsRun(t *testing.T) {
	src := &fakeSource{err: fmt.Errorf("price feed down")}
	s := newTestScheduler(src)

	_, err := s.Run(context.Background(), []int{1}, 20)
	require.ErrorContains(t, err, "price feed down")
}

func TestAccumulator_FullCycleDetection(t *testing.T) {
	params := model.DefaultBatteryParams()

	exact := &model.DaySchedule{Month: 1, Day: 1}
	for h := 0; h < 4; h++ {
		exact.Hours[h].Charge = 50
		exact.Hours[h].Discharge = 50
	}

	partial := &model.DaySchedule{Month: 1, Day: 2}
	partial.Hours[0].Charge = 199.9999
	partial.Hours[1].Discharge = 200

	acc := newAccumulator(params, DefaultCycleFactor)
	acc.add(exact)
	acc.add(partial)
	res := acc.result()

	assert.Equal(t, 1, res.DailyCycles[0].Cycles)
	assert.Equal(t, 0, res.DailyCycles[1].Cycles)
	assert.Equal(t, []MonthCycles{{Month: 1, Cycles: 1}}, res.MonthlyCycles)
}

func TestAccumulator_RegulationCountsTowardThroughput(t *testing.T) {
	params := model.DefaultBatteryParams()

	// Deployed regulation shares the side totals with charge and discharge.
	d := &model.DaySchedule{Month: 3, Day: 5}
	d.Hours[0].Charge = 150
	d.Hours[0].RegDownDeployed = 50
	d.Hours[1].Discharge = 180
	d.Hours[1].RegUpDeployed = 20

	acc := newAccumulator(params, DefaultCycleFactor)
	acc.add(d)

	assert.Equal(t, 1, acc.result().DailyCycles[0].Cycles)
}
