package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bess-dispatch/internal/model"
)

// monthOf builds a single-day month whose hourly prices are the given
// slice, padded with its last value to fill the day.
func monthOf(month, day int, prices []float64) *model.MonthData {
	md := &model.MonthData{
		Month:          month,
		Energy:         model.PriceSeries{},
		MissingEnergy:  model.MissingSet{},
		MissingRegUp:   model.MissingSet{},
		MissingRegDown: model.MissingSet{},
		Days:           []int{day},
	}
	for h := 1; h <= model.HoursPerDay; h++ {
		v := prices[len(prices)-1]
		if h-1 < len(prices) {
			v = prices[h-1]
		}
		md.Energy[model.HourKey{Month: month, Hour: h, Day: day}] = v
	}
	return md
}

func TestComputePotential_Basics(t *testing.T) {
	// Trough at hour 2, peak at hour 4: best spread is 40 - 5 = 35.
	md := monthOf(1, 1, []float64{20, 5, 10, 40, 20})

	p := ComputePotential(md)
	assert.Equal(t, 1, p.Month)
	assert.Equal(t, 1, p.Days)
	assert.Equal(t, model.HoursPerDay, p.Hours)
	assert.Equal(t, 5.0, p.MinPrice)
	assert.Equal(t, 40.0, p.MaxPrice)
	assert.InDelta(t, 35, p.IdealSpreadProfit, 1e-9)
	assert.GreaterOrEqual(t, p.SpreadP95P05, 0.0)
}

func TestComputePotential_SpreadIsDirectional(t *testing.T) {
	// Monotonically falling prices: the peak precedes every trough, so no
	// buy-then-sell trade exists and the ideal profit floors at zero.
	prices := make([]float64, model.HoursPerDay)
	for h := range prices {
		prices[h] = float64(100 - h)
	}
	p := ComputePotential(monthOf(2, 1, prices))
	assert.Equal(t, 0.0, p.IdealSpreadProfit)
}

func TestComputePotential_ExcludesMissingHours(t *testing.T) {
	md := monthOf(1, 1, []float64{50})
	// Zero out hour 3 the way the loader does for absent rows.
	k := model.HourKey{Month: 1, Hour: 3, Day: 1}
	md.Energy[k] = 0
	md.MissingEnergy.Add(k)

	p := ComputePotential(md)
	assert.Equal(t, model.HoursPerDay-1, p.Hours)
	assert.Equal(t, 50.0, p.MinPrice)
	assert.Equal(t, 0.0, p.IdealSpreadProfit)
}

func TestComputePotential_EmptyMonth(t *testing.T) {
	md := &model.MonthData{
		Month:         4,
		Energy:        model.PriceSeries{},
		MissingEnergy: model.MissingSet{},
	}
	p := ComputePotential(md)
	assert.Equal(t, 4, p.Month)
	assert.Equal(t, 0, p.Hours)
	assert.Equal(t, 0.0, p.MeanPrice)
}

func TestComputePotential_MultiDayProfitSums(t *testing.T) {
	md := monthOf(3, 1, []float64{10, 30})
	// Add a second day with a 5 -> 25 spread.
	md.Days = append(md.Days, 2)
	for h := 1; h <= model.HoursPerDay; h++ {
		v := 25.0
		if h == 1 {
			v = 5
		}
		md.Energy[model.HourKey{Month: 3, Hour: h, Day: 2}] = v
	}

	p := ComputePotential(md)
	assert.Equal(t, 2, p.Days)
	assert.InDelta(t, 20+20, p.IdealSpreadProfit, 1e-9)
}

func TestRankBySpreadProfit(t *testing.T) {
	in := []MonthPotential{
		{Month: 1, IdealSpreadProfit: 12},
		{Month: 2, IdealSpreadProfit: 40},
		{Month: 3, IdealSpreadProfit: 25},
	}
	out := RankBySpreadProfit(in)

	assert.Equal(t, []int{2, 3, 1}, []int{out[0].Month, out[1].Month, out[2].Month})
	// Input order is untouched.
	assert.Equal(t, 1, in[0].Month)
}
