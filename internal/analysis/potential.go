package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"bess-dispatch/internal/model"
)

// MonthPotential summarizes how attractive one month's energy prices look
// for arbitrage, independent of battery sizing. IdealSpreadProfit is the
// per-MWh profit of a lossless one-shot trade each day: buy at the lowest
// hour, sell at the highest later hour.
type MonthPotential struct {
	Month int
	Days  int
	Hours int

	MinPrice  float64
	MaxPrice  float64
	MeanPrice float64
	P05Price  float64
	P95Price  float64

	SpreadP95P05 float64

	IdealSpreadProfit float64
}

// ComputePotential derives the summary from a loaded month. Hours recorded
// as missing are excluded from the statistics; their filled zero prices
// would otherwise drag the low quantiles down.
func ComputePotential(md *model.MonthData) MonthPotential {
	p := MonthPotential{Month: md.Month, Days: len(md.Days)}

	prices := make([]float64, 0, len(md.Energy))
	for k, v := range md.Energy {
		if md.MissingEnergy.Contains(k) {
			continue
		}
		prices = append(prices, v)
	}
	p.Hours = len(prices)
	if p.Hours == 0 {
		return p
	}

	p.MinPrice = math.Inf(1)
	p.MaxPrice = math.Inf(-1)
	for _, v := range prices {
		if v < p.MinPrice {
			p.MinPrice = v
		}
		if v > p.MaxPrice {
			p.MaxPrice = v
		}
	}
	p.MeanPrice = stat.Mean(prices, nil)

	sorted := append([]float64(nil), prices...)
	sortFloats(sorted)
	p.P05Price = stat.Quantile(0.05, stat.Empirical, sorted, nil)
	p.P95Price = stat.Quantile(0.95, stat.Empirical, sorted, nil)
	p.SpreadP95P05 = p.P95Price - p.P05Price

	for _, day := range md.Days {
		p.IdealSpreadProfit += dailyBestSpread(md, day)
	}
	return p
}

// dailyBestSpread is the best buy-then-sell price gap within one day,
// floored at zero. Hours missing from the source are skipped on both legs.
func dailyBestSpread(md *model.MonthData, day int) float64 {
	best := 0.0
	low := math.Inf(1)
	for h := 1; h <= model.HoursPerDay; h++ {
		k := model.HourKey{Month: md.Month, Hour: h, Day: day}
		if md.MissingEnergy.Contains(k) {
			continue
		}
		v := md.Energy[k]
		if v < low {
			low = v
		}
		if gap := v - low; gap > best {
			best = gap
		}
	}
	return best
}
