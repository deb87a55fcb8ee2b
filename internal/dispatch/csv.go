package dispatch

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
)

// Output file names, one per artifact of a run.
const (
	StateOfChargeFile    = "state_of_charge.csv"
	ScheduleFile         = "schedule.csv"
	TotalCyclesDailyFile = "total_cycles_daily.csv"
	TotalRevenueFile     = "total_revenue.csv"
	DailyRevenueFile     = "daily_schedule.csv"
	TotalCyclesFile      = "total_cycles.csv"
)

// WriteRunCSVs writes the six output tables for a completed run. Files are
// created (not appended): a run either completes and writes everything, or
// fails and writes nothing.
func WriteRunCSVs(dir string, res *RunResult) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := writeStateOfCharge(filepath.Join(dir, StateOfChargeFile), res); err != nil {
		return err
	}
	if err := writeSchedule(filepath.Join(dir, ScheduleFile), res); err != nil {
		return err
	}
	if err := writeDailyCycles(filepath.Join(dir, TotalCyclesDailyFile), res); err != nil {
		return err
	}
	if err := writeDailyRevenue(filepath.Join(dir, DailyRevenueFile), res); err != nil {
		return err
	}
	if err := writeTotalRevenue(filepath.Join(dir, TotalRevenueFile), res); err != nil {
		return err
	}
	return writeMonthlyCycles(filepath.Join(dir, TotalCyclesFile), res)
}

func writeStateOfCharge(path string, res *RunResult) error {
	return writeCSV(path, []string{"Hour", "Day", "Month", "State_of_Charge"}, func(w *csv.Writer) error {
		for _, d := range res.Days {
			for _, h := range d.Hours {
				row := []string{
					strconv.Itoa(h.Hour),
					strconv.Itoa(d.Day),
					strconv.Itoa(d.Month),
					fmtFloat(h.StateOfCharge),
				}
				if err := w.Write(row); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func writeSchedule(path string, res *RunResult) error {
	header := []string{"Hour", "Day", "Month", "Energy_Charged", "Energy_Discharged", "Regulation_UP", "Regulation_Down"}
	return writeCSV(path, header, func(w *csv.Writer) error {
		for _, d := range res.Days {
			for _, h := range d.Hours {
				row := []string{
					strconv.Itoa(h.Hour),
					strconv.Itoa(d.Day),
					strconv.Itoa(d.Month),
					fmtFloat(h.Charge),
					fmtFloat(h.Discharge),
					fmtFloat(h.RegUpDeployed),
					fmtFloat(h.RegDownDeployed),
				}
				if err := w.Write(row); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func writeDailyCycles(path string, res *RunResult) error {
	return writeCSV(path, []string{"Month", "Day", "Total_Cycle"}, func(w *csv.Writer) error {
		for _, r := range res.DailyCycles {
			if err := w.Write([]string{strconv.Itoa(r.Month), strconv.Itoa(r.Day), strconv.Itoa(r.Cycles)}); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeDailyRevenue(path string, res *RunResult) error {
	return writeCSV(path, []string{"Month", "Day", "Total_Daily_Revenue"}, func(w *csv.Writer) error {
		for _, r := range res.DailyRevenue {
			if err := w.Write([]string{strconv.Itoa(r.Month), strconv.Itoa(r.Day), fmtFloat(r.Revenue)}); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeTotalRevenue(path string, res *RunResult) error {
	return writeCSV(path, []string{"Total_Revenue"}, func(w *csv.Writer) error {
		return w.Write([]string{fmtFloat(res.TotalRevenue)})
	})
}

func writeMonthlyCycles(path string, res *RunResult) error {
	return writeCSV(path, []string{"Month", "Total_Cycle"}, func(w *csv.Writer) error {
		for _, r := range res.MonthlyCycles {
			if err := w.Write([]string{strconv.Itoa(r.Month), strconv.Itoa(r.Cycles)}); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeCSV(path string, header []string, body func(*csv.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(header); err != nil {
		return err
	}
	if err := body(w); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
