package data

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"bess-dispatch/internal/model"
)

// Default input file names.
const (
	EnergyPricesFile     = "energy_prices.csv"
	RegulationPricesFile = "regulation_prices.csv"
)

// Expected column headers.
const (
	colOperatingDay  = "Operating Day"
	colOperatingHour = "Operating Hour"
	colPrice         = "Price"
	colRegUp         = "Regulation Up"
	colRegDown       = "Regulation Down"
)

// PricesCSV loads hourly market prices from the two input CSVs.
//
// energy_prices.csv carries (Operating Day, Operating Hour, Price);
// regulation_prices.csv carries (Operating Day, Operating Hour,
// Regulation Up, Regulation Down). Operating Day is m/d/y, Operating Hour
// is 1..24. Rows with a blank or unparseable price are dropped, exactly as
// if the hour were absent; every absent (month, hour, day) slot of an
// observed day is then filled with price 0 and recorded as missing.
type PricesCSV struct {
	Dir            string
	EnergyFile     string
	RegulationFile string
}

func NewPricesCSV(dir string) *PricesCSV {
	return &PricesCSV{
		Dir:            dir,
		EnergyFile:     EnergyPricesFile,
		RegulationFile: RegulationPricesFile,
	}
}

// Load implements dispatch.PriceSource for one month.
func (p *PricesCSV) Load(ctx context.Context, month int) (*model.MonthData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	energyRows, err := readTable(filepath.Join(p.Dir, p.EnergyFile))
	if err != nil {
		return nil, fmt.Errorf("read energy prices: %w", err)
	}
	regRows, err := readTable(filepath.Join(p.Dir, p.RegulationFile))
	if err != nil {
		return nil, fmt.Errorf("read regulation prices: %w", err)
	}

	energy, missEnergy, err := buildSeries(energyRows, colPrice, month)
	if err != nil {
		return nil, fmt.Errorf("energy prices: %w", err)
	}
	regUp, missRegUp, err := buildSeries(regRows, colRegUp, month)
	if err != nil {
		return nil, fmt.Errorf("regulation up prices: %w", err)
	}
	regDown, missRegDown, err := buildSeries(regRows, colRegDown, month)
	if err != nil {
		return nil, fmt.Errorf("regulation down prices: %w", err)
	}

	// Available days come from the energy series.
	daySet := make(map[int]struct{})
	for k := range energy {
		daySet[k.Day] = struct{}{}
	}
	days := make([]int, 0, len(daySet))
	for d := range daySet {
		days = append(days, d)
	}
	sort.Ints(days)

	// A scheduled day entirely absent from the regulation feed would leave
	// its regulation hours unfilled and unflagged; cover every scheduled
	// day in both regulation series.
	fillDays(regUp, missRegUp, month, days)
	fillDays(regDown, missRegDown, month, days)

	return &model.MonthData{
		Month:          month,
		Energy:         energy,
		RegUp:          regUp,
		RegDown:        regDown,
		MissingEnergy:  missEnergy,
		MissingRegUp:   missRegUp,
		MissingRegDown: missRegDown,
		Days:           days,
	}, nil
}

// table is a parsed CSV with header-index lookup.
type table struct {
	header map[string]int
	rows   [][]string
}

func readTable(path string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: empty file", path)
	}

	header := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		header[strings.TrimSpace(name)] = i
	}
	return &table{header: header, rows: records[1:]}, nil
}

func (t *table) col(name string) (int, error) {
	i, ok := t.header[name]
	if !ok {
		return 0, fmt.Errorf("missing column %q", name)
	}
	return i, nil
}

// buildSeries extracts one price column for one month, fills absent hour
// slots of every observed day with 0, and records them as missing.
func buildSeries(t *table, priceCol string, month int) (model.PriceSeries, model.MissingSet, error) {
	dayIdx, err := t.col(colOperatingDay)
	if err != nil {
		return nil, nil, err
	}
	hourIdx, err := t.col(colOperatingHour)
	if err != nil {
		return nil, nil, err
	}
	priceIdx, err := t.col(priceCol)
	if err != nil {
		return nil, nil, err
	}

	series := make(model.PriceSeries)
	for _, row := range t.rows {
		if len(row) <= dayIdx || len(row) <= hourIdx || len(row) <= priceIdx {
			continue
		}
		day, err := parseOperatingDay(row[dayIdx])
		if err != nil {
			continue
		}
		if int(day.Month()) != month {
			continue
		}
		hour, err := strconv.Atoi(strings.TrimSpace(row[hourIdx]))
		if err != nil || hour < 1 || hour > model.HoursPerDay {
			continue
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(row[priceIdx]), 64)
		if err != nil {
			// Blank or malformed price: treat the hour as absent.
			continue
		}
		series[model.HourKey{Month: month, Hour: hour, Day: day.Day()}] = price
	}

	missing := make(model.MissingSet)
	daySet := make(map[int]struct{})
	for k := range series {
		daySet[k.Day] = struct{}{}
	}
	for d := range daySet {
		for h := 1; h <= model.HoursPerDay; h++ {
			k := model.HourKey{Month: month, Hour: h, Day: d}
			if _, ok := series[k]; !ok {
				series[k] = 0
				missing.Add(k)
			}
		}
	}
	return series, missing, nil
}

// fillDays extends the fill-to-zero policy over the given days, recording
// newly filled slots as missing.
func fillDays(series model.PriceSeries, missing model.MissingSet, month int, days []int) {
	for _, d := range days {
		for h := 1; h <= model.HoursPerDay; h++ {
			k := model.HourKey{Month: month, Hour: h, Day: d}
			if _, ok := series[k]; !ok {
				series[k] = 0
				missing.Add(k)
			}
		}
	}
}

func parseOperatingDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"1/2/06", "1/2/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable operating day %q", s)
}
