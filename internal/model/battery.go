package model

import "errors"

// BatteryParams defines the physical parameters of the storage asset.
// Units:
// - MaxCharge: MWh (nameplate energy capacity)
// - QMaxD / QMaxR: MW (nameplate discharge / recharge power, per hour)
// - LambdaC: 0..1 round-trip efficiency applied to every flow
// - LambdaReg: 0..1 deployment rate linking offered regulation capacity
//   to the quantity expected to be dispatched
type BatteryParams struct {
	MaxCharge float64
	QMaxD     float64
	QMaxR     float64
	LambdaC   float64
	LambdaReg float64
}

// DefaultBatteryParams returns the reference 200MWh / 100MW unit.
func DefaultBatteryParams() BatteryParams {
	return BatteryParams{
		MaxCharge: 200,
		QMaxD:     100,
		QMaxR:     100,
		LambdaC:   0.9,
		LambdaReg: 0.1,
	}
}

func (p BatteryParams) Validate() error {
	if p.MaxCharge <= 0 {
		return errors.New("MaxCharge must be > 0")
	}
	if p.QMaxD <= 0 {
		return errors.New("QMaxD must be > 0")
	}
	if p.QMaxR <= 0 {
		return errors.New("QMaxR must be > 0")
	}
	if p.LambdaC <= 0 || p.LambdaC > 1 {
		return errors.New("LambdaC must be in (0, 1]")
	}
	if p.LambdaReg <= 0 || p.LambdaReg > 1 {
		return errors.New("LambdaReg must be in (0, 1]")
	}
	return nil
}
