package analysis

import "sort"

// RankBySpreadProfit sorts month potentials descending by ideal spread
// profit, the closest stand-in for achievable arbitrage revenue.
func RankBySpreadProfit(months []MonthPotential) []MonthPotential {
	out := append([]MonthPotential(nil), months...)
	sort.Slice(out, func(i, j int) bool {
		return out[i].IdealSpreadProfit > out[j].IdealSpreadProfit
	})
	return out
}

func sortFloats(x []float64) {
	sort.Float64s(x)
}
