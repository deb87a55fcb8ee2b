package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultBatteryParams(t *testing.T) {
	p := DefaultBatteryParams()
	require.NoError(t, p.Validate())
	assert.Equal(t, 200.0, p.MaxCharge)
	assert.Equal(t, 100.0, p.QMaxD)
	assert.Equal(t, 100.0, p.QMaxR)
	assert.Equal(t, 0.9, p.LambdaC)
	assert.Equal(t, 0.1, p.LambdaReg)
}

func TestBatteryParams_Validate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*BatteryParams)
	}{
		{"zero capacity", func(p *BatteryParams) { p.MaxCharge = 0 }},
		{"negative discharge power", func(p *BatteryParams) { p.QMaxD = -1 }},
		{"zero recharge power", func(p *BatteryParams) { p.QMaxR = 0 }},
		{"efficiency above one", func(p *BatteryParams) { p.LambdaC = 1.1 }},
		{"zero efficiency", func(p *BatteryParams) { p.LambdaC = 0 }},
		{"deployment rate above one", func(p *BatteryParams) { p.LambdaReg = 2 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := DefaultBatteryParams()
			tc.mutate(&p)
			assert.Error(t, p.Validate())
		})
	}
}

func TestDayScheduleThroughput(t *testing.T) {
	var d DaySchedule
	d.Hours[0].Charge = 10
	d.Hours[0].RegDownDeployed = 2
	d.Hours[5].Charge = 8
	d.Hours[3].Discharge = 7
	d.Hours[3].RegUpDeployed = 1
	d.Hours[23].StateOfCharge = 42

	assert.InDelta(t, 20, d.ChargeSideThroughput(), 1e-12)
	assert.InDelta(t, 8, d.DischargeSideThroughput(), 1e-12)
	assert.Equal(t, 42.0, d.EndingSOC())
}

func TestHourKeyString(t *testing.T) {
	k := HourKey{Month: 2, Hour: 13, Day: 28}
	assert.Equal(t, "m2h13d28", k.String())
}
