package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"bess-dispatch/internal/dispatch"
)

// Store mirrors a completed run's schedule and state-of-charge tables in
// Postgres so other tooling can query them without parsing the CSVs.
type Store struct {
	db *sql.DB
}

// Open connects via the pgx stdlib driver and verifies the connection.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, errors.New("store: empty dsn")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Init creates the result tables if absent.
func (s *Store) Init(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS schedule (
			hour INTEGER NOT NULL,
			day INTEGER NOT NULL,
			month INTEGER NOT NULL,
			energy_charged DOUBLE PRECISION NOT NULL,
			energy_discharged DOUBLE PRECISION NOT NULL,
			regulation_up DOUBLE PRECISION NOT NULL,
			regulation_down DOUBLE PRECISION NOT NULL,
			PRIMARY KEY (month, day, hour)
		)`,
		`CREATE TABLE IF NOT EXISTS state_of_charge (
			hour INTEGER NOT NULL,
			day INTEGER NOT NULL,
			month INTEGER NOT NULL,
			state_of_charge DOUBLE PRECISION NOT NULL,
			PRIMARY KEY (month, day, hour)
		)`,
	}
	for _, q := range stmts {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("store: init: %w", err)
		}
	}
	return nil
}

// SaveRun replaces the stored tables with the given run's results. The
// whole swap happens in one transaction: readers never see a half-written
// run.
func (s *Store) SaveRun(ctx context.Context, res *dispatch.RunResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"schedule", "state_of_charge"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("store: clear %s: %w", table, err)
		}
	}

	const insertSchedule = `INSERT INTO schedule
		(hour, day, month, energy_charged, energy_discharged, regulation_up, regulation_down)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	const insertSOC = `INSERT INTO state_of_charge
		(hour, day, month, state_of_charge)
		VALUES ($1, $2, $3, $4)`

	for _, d := range res.Days {
		for _, h := range d.Hours {
			if _, err := tx.ExecContext(ctx, insertSchedule,
				h.Hour, d.Day, d.Month, h.Charge, h.Discharge, h.RegUpDeployed, h.RegDownDeployed); err != nil {
				return fmt.Errorf("store: insert schedule m%dd%dh%d: %w", d.Month, d.Day, h.Hour, err)
			}
			if _, err := tx.ExecContext(ctx, insertSOC,
				h.Hour, d.Day, d.Month, h.StateOfCharge); err != nil {
				return fmt.Errorf("store: insert soc m%dd%dh%d: %w", d.Month, d.Day, h.Hour, err)
			}
		}
	}
	return tx.Commit()
}

// SOCPoint is one stored state-of-charge sample.
type SOCPoint struct {
	Month int
	Day   int
	Hour  int
	SOC   float64
}

// QueryStateOfCharge returns a month's stored trace in calendar order.
func (s *Store) QueryStateOfCharge(ctx context.Context, month int) ([]SOCPoint, error) {
	const q = `SELECT month, day, hour, state_of_charge
		FROM state_of_charge WHERE month = $1 ORDER BY day, hour`
	rows, err := s.db.QueryContext(ctx, q, month)
	if err != nil {
		return nil, fmt.Errorf("store: query soc: %w", err)
	}
	defer rows.Close()

	var out []SOCPoint
	for rows.Next() {
		var p SOCPoint
		if err := rows.Scan(&p.Month, &p.Day, &p.Hour, &p.SOC); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
