package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/rs/zerolog"

	"bess-dispatch/internal/dispatch"
	"bess-dispatch/internal/lp"
	"bess-dispatch/internal/model"
	"bess-dispatch/internal/optimizer"
)

// Demo:
// - Build two days of synthetic hourly prices (cheap overnight, expensive
//   evening peak, a couple of missing hours)
// - Run the sequential scheduler over them with the reference battery
// - Print the resulting daily schedule summaries
func main() {
	days := flag.Int("days", 2, "Number of synthetic days to optimize")
	initialSOC := flag.Float64("initial-soc", 100, "Initial state of charge (MWh)")
	flag.Parse()

	if *days < 1 || *days > 28 {
		fmt.Println("--days must be within 1..28")
		os.Exit(2)
	}

	src := syntheticSource{days: *days}
	params := model.DefaultBatteryParams()

	sched := dispatch.NewScheduler(params, optimizer.CapacityAware, lp.Simplex{}, src, zerolog.Nop())
	res, err := sched.Run(context.Background(), []int{1}, *initialSOC)
	if err != nil {
		panic(err)
	}

	fmt.Printf("%-4s %-12s %-12s %-12s %-10s\n", "day", "charged", "discharged", "revenue", "end soc")
	for i, d := range res.Days {
		var charged, discharged float64
		for _, h := range d.Hours {
			charged += h.Charge
			discharged += h.Discharge
		}
		fmt.Printf("%-4d %-12.2f %-12.2f %-12.2f %-10.2f (cycles=%d)\n",
			d.Day, charged, discharged, d.Revenue, d.EndingSOC(), res.DailyCycles[i].Cycles)
	}
	fmt.Printf("Total revenue=$%.2f Final SOC=%.2f MWh\n", res.TotalRevenue, res.FinalSOC)
}

// syntheticSource fabricates a daily price shape: a sine curve with an
// overnight trough and an evening peak, plus two missing regulation hours.
type syntheticSource struct {
	days int
}

func (s syntheticSource) Load(ctx context.Context, month int) (*model.MonthData, error) {
	md := &model.MonthData{
		Month:          month,
		Energy:         make(model.PriceSeries),
		RegUp:          make(model.PriceSeries),
		RegDown:        make(model.PriceSeries),
		MissingEnergy:  make(model.MissingSet),
		MissingRegUp:   make(model.MissingSet),
		MissingRegDown: make(model.MissingSet),
	}
	for d := 1; d <= s.days; d++ {
		md.Days = append(md.Days, d)
		for h := 1; h <= model.HoursPerDay; h++ {
			k := model.HourKey{Month: month, Hour: h, Day: d}
			// Trough around hour 4, peak around hour 19.
			md.Energy[k] = 35 + 25*math.Sin(2*math.Pi*float64(h-10)/24)
			md.RegUp[k] = 8
			md.RegDown[k] = 5
			if h == 3 {
				md.RegUp[k] = 0
				md.MissingRegUp.Add(k)
			}
			if h == 4 {
				md.RegDown[k] = 0
				md.MissingRegDown.Add(k)
			}
		}
	}
	return md, nil
}
