package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"bess-dispatch/internal/analysis"
	"bess-dispatch/internal/config"
	"bess-dispatch/internal/data"
	"bess-dispatch/internal/dispatch"
	"bess-dispatch/internal/lp"
	"bess-dispatch/internal/store"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "optimize":
		cmdOptimize(os.Args[2:])
	case "rank":
		cmdRank(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli optimize --config examples/config.yaml [--months 1,2] [--initial-soc 100]")
	fmt.Println("  cli rank --config examples/config.yaml [--months 1,2]")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - optimize writes the six result CSVs to the configured output dir")
	fmt.Println("  - rank scores configured months by energy price spread")
}

func cmdOptimize(args []string) {
	fs := flag.NewFlagSet("optimize", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	monthsFlag := fs.String("months", "", "Comma-separated months, overrides config")
	initialSOC := fs.Float64("initial-soc", -1, "Initial state of charge (MWh), overrides config")
	_ = fs.Parse(args)

	cfg := loadConfig(*cfgPath)
	months := cfg.Data.Months
	if *monthsFlag != "" {
		months = mustMonths(*monthsFlag)
	}
	soc := cfg.InitialSOC()
	if *initialSOC >= 0 {
		soc = *initialSOC
	}

	form, err := cfg.Formulation()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid formulation")
	}
	budget, err := cfg.SolveBudget()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid solve budget")
	}

	source := data.NewPricesCSV(cfg.Data.InputDir)
	source.EnergyFile = cfg.Data.EnergyFile
	source.RegulationFile = cfg.Data.RegulationFile

	sched := dispatch.NewScheduler(cfg.BatteryParams(), form, lp.Simplex{Tol: cfg.Optimizer.Tolerance, Budget: budget}, source, log.Logger)
	sched.CycleFactor = cfg.Optimizer.CycleFactor

	ctx := context.Background()
	res, err := sched.Run(ctx, months, soc)
	if err != nil {
		log.Fatal().Err(err).Msg("optimization run failed")
	}

	if err := dispatch.WriteRunCSVs(cfg.Output.Dir, res); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.Output.Dir).Msg("failed to write outputs")
	}

	if cfg.Database.DSN != "" {
		st, err := store.Open(ctx, cfg.Database.DSN)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open results store")
		}
		defer st.Close()
		if err := st.Init(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to init results store")
		}
		if err := st.SaveRun(ctx, res); err != nil {
			log.Fatal().Err(err).Msg("failed to persist run")
		}
		log.Info().Msg("run persisted to results store")
	}

	fmt.Printf("Optimized %d days across months %v\n", len(res.Days), months)
	fmt.Printf("Total revenue=$%.2f Final SOC=%.3f MWh\n", res.TotalRevenue, res.FinalSOC)
	for _, mc := range res.MonthlyCycles {
		fmt.Printf("Month %d: %d full cycles\n", mc.Month, mc.Cycles)
	}
}

func cmdRank(args []string) {
	fs := flag.NewFlagSet("rank", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	monthsFlag := fs.String("months", "", "Comma-separated months, overrides config")
	_ = fs.Parse(args)

	cfg := loadConfig(*cfgPath)
	months := cfg.Data.Months
	if *monthsFlag != "" {
		months = mustMonths(*monthsFlag)
	}

	source := data.NewPricesCSV(cfg.Data.InputDir)
	source.EnergyFile = cfg.Data.EnergyFile
	source.RegulationFile = cfg.Data.RegulationFile

	potentials := make([]analysis.MonthPotential, 0, len(months))
	for _, m := range months {
		md, err := source.Load(context.Background(), m)
		if err != nil {
			log.Fatal().Err(err).Int("month", m).Msg("failed to load prices")
		}
		potentials = append(potentials, analysis.ComputePotential(md))
	}

	ranked := analysis.RankBySpreadProfit(potentials)
	fmt.Printf("%-4s %-6s %-6s %-10s %-10s %-12s %-12s\n", "rank", "month", "days", "min/max", "p95-p05", "mean", "spread$")
	for i, p := range ranked {
		fmt.Printf(
			"%-4d %-6d %-6d %-4.1f/%-4.1f %-10.2f %-12.2f %-12.2f\n",
			i+1,
			p.Month,
			p.Days,
			p.MinPrice,
			p.MaxPrice,
			p.SpreadP95P05,
			p.MeanPrice,
			p.IdealSpreadProfit,
		)
	}
}

func loadConfig(path string) *config.Config {
	if path == "" {
		return config.Default()
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("failed to load config")
	}
	return cfg
}

func mustMonths(s string) []int {
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		m, err := strconv.Atoi(p)
		if err != nil {
			log.Fatal().Str("value", p).Msg("invalid month")
		}
		out = append(out, m)
	}
	return out
}
