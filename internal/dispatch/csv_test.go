package dispatch

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bess-dispatch/internal/model"
)

func sampleRunResult() *RunResult {
	d := model.DaySchedule{Month: 1, Day: 1, Revenue: 1234.5}
	for h := range d.Hours {
		d.Hours[h].Hour = h + 1
		d.Hours[h].StateOfCharge = 100
	}
	d.Hours[1].Charge = 50
	d.Hours[2].Discharge = 45

	return &RunResult{
		Days:          []model.DaySchedule{d},
		DailyCycles:   []CycleRow{{Month: 1, Day: 1, Cycles: 1}},
		DailyRevenue:  []RevenueRow{{Month: 1, Day: 1, Revenue: 1234.5}},
		MonthlyCycles: []MonthCycles{{Month: 1, Cycles: 1}},
		TotalRevenue:  1234.5,
		FinalSOC:      100,
	}
}

func readAll(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteRunCSVs(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	require.NoError(t, WriteRunCSVs(dir, sampleRunResult()))

	soc := readAll(t, filepath.Join(dir, StateOfChargeFile))
	require.Len(t, soc, 1+model.HoursPerDay)
	assert.Equal(t, []string{"Hour", "Day", "Month", "State_of_Charge"}, soc[0])
	assert.Equal(t, []string{"1", "1", "1", "100.000000"}, soc[1])

	sched := readAll(t, filepath.Join(dir, ScheduleFile))
	require.Len(t, sched, 1+model.HoursPerDay)
	assert.Equal(t, []string{"Hour", "Day", "Month", "Energy_Charged", "Energy_Discharged", "Regulation_UP", "Regulation_Down"}, sched[0])
	assert.Equal(t, "50.000000", sched[2][3])
	assert.Equal(t, "45.000000", sched[3][4])

	cycles := readAll(t, filepath.Join(dir, TotalCyclesDailyFile))
	assert.Equal(t, [][]string{{"Month", "Day", "Total_Cycle"}, {"1", "1", "1"}}, cycles)

	revenue := readAll(t, filepath.Join(dir, DailyRevenueFile))
	assert.Equal(t, [][]string{{"Month", "Day", "Total_Daily_Revenue"}, {"1", "1", "1234.500000"}}, revenue)

	total := readAll(t, filepath.Join(dir, TotalRevenueFile))
	assert.Equal(t, [][]string{{"Total_Revenue"}, {"1234.500000"}}, total)

	monthly := readAll(t, filepath.Join(dir, TotalCyclesFile))
	assert.Equal(t, [][]string{{"Month", "Total_Cycle"}, {"1", "1"}}, monthly)
}

func TestWriteRunCSVs_OverwritesPreviousRun(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteRunCSVs(dir, sampleRunResult()))

	empty := &RunResult{}
	require.NoError(t, WriteRunCSVs(dir, empty))

	soc := readAll(t, filepath.Join(dir, StateOfChargeFile))
	assert.Len(t, soc, 1)
}
