package model

import "fmt"

// HoursPerDay is the length of the optimization horizon.
const HoursPerDay = 24

// HourKey identifies one operating hour of one calendar day.
// Hour is 1-based (1..24), matching the market convention.
type HourKey struct {
	Month int
	Hour  int
	Day   int
}

func (k HourKey) String() string {
	return fmt.Sprintf("m%dh%dd%d", k.Month, k.Hour, k.Day)
}

// PriceSeries maps operating hours to $/MWh prices. Hours absent from the
// source data are filled with 0 at load time, so a lookup miss also reads
// as a zero price.
type PriceSeries map[HourKey]float64

// MissingSet records the hours that had no source price before fill.
type MissingSet map[HourKey]struct{}

func (s MissingSet) Add(k HourKey) { s[k] = struct{}{} }

func (s MissingSet) Contains(k HourKey) bool {
	_, ok := s[k]
	return ok
}

// MonthData is everything the optimizer needs for one month: the three
// price series, their missing-hour sets, and the calendar days present in
// the source data, sorted ascending. Immutable after construction.
type MonthData struct {
	Month int

	Energy  PriceSeries
	RegUp   PriceSeries
	RegDown PriceSeries

	MissingEnergy  MissingSet
	MissingRegUp   MissingSet
	MissingRegDown MissingSet

	Days []int
}
