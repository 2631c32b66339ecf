package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver
)

// timeLayout is fixed width so created_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Compile-time interface guard.
var _ Repository = (*SQLiteRepository)(nil)

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens (or creates) the database at path and runs
// migrations.
func NewSQLiteRepository(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}

	// SQLite performs best with a single write connection.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite %q: %w", path, err)
	}

	// modernc.org/sqlite takes pragmas as statements, not DSN params.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec %q: %w", p, err)
		}
	}

	repo := &SQLiteRepository{db: db}
	if err := repo.Migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return repo, nil
}

// Migrate runs database migrations.
func (r *SQLiteRepository) Migrate(ctx context.Context) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			season_length INTEGER NOT NULL,
			forecast_periods INTEGER NOT NULL,
			alpha1 REAL NOT NULL,
			alpha2 REAL NOT NULL,
			alpha3 REAL NOT NULL,
			numeric_policy TEXT NOT NULL,
			n_obs INTEGER NOT NULL,
			levels TEXT NOT NULL,
			trends TEXT NOT NULL,
			seasonal TEXT NOT NULL,
			forecasts TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at)`,
	}

	for _, migration := range migrations {
		if _, err := r.db.ExecContext(ctx, migration); err != nil {
			return fmt.Errorf("execute migration: %w", err)
		}
	}

	return nil
}

// SaveRun stores run. An empty ID is filled with a new UUID and a zero
// CreatedAt with the current time.
func (r *SQLiteRepository) SaveRun(ctx context.Context, run *Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO runs (id, created_at, name, season_length, forecast_periods,
			alpha1, alpha2, alpha3, numeric_policy, n_obs, levels, trends, seasonal, forecasts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		run.ID,
		run.CreatedAt.UTC().Format(timeLayout),
		run.Name,
		run.SeasonLength,
		run.ForecastPeriods,
		run.Coefficients.Level,
		run.Coefficients.Trend,
		run.Coefficients.Seasonal,
		run.Policy,
		run.NObs,
		encodeFloats(run.Result.Levels),
		encodeFloats(run.Result.Trends),
		encodeFloats(run.Result.Seasonal),
		encodeFloats(run.Result.Forecasts),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

const selectRun = `SELECT id, created_at, name, season_length, forecast_periods,
		alpha1, alpha2, alpha3, numeric_policy, n_obs, levels, trends, seasonal, forecasts
	FROM runs`

// GetRun returns the run with the given id.
func (r *SQLiteRepository) GetRun(ctx context.Context, id string) (*Run, error) {
	row := r.db.QueryRowContext(ctx, selectRun+` WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// ListRuns returns the most recent runs first. A non-positive limit
// returns every run.
func (r *SQLiteRepository) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx, selectRun+` ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// Close closes the database connection.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*Run, error) {
	var run Run
	var createdAt, levels, trends, seasonal, forecasts string
	err := s.Scan(
		&run.ID,
		&createdAt,
		&run.Name,
		&run.SeasonLength,
		&run.ForecastPeriods,
		&run.Coefficients.Level,
		&run.Coefficients.Trend,
		&run.Coefficients.Seasonal,
		&run.Policy,
		&run.NObs,
		&levels,
		&trends,
		&seasonal,
		&forecasts,
	)
	if err != nil {
		return nil, err
	}

	if run.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at of run %s: %w", run.ID, err)
	}
	for _, f := range []struct {
		dst *[]float64
		src string
	}{
		{&run.Result.Levels, levels},
		{&run.Result.Trends, trends},
		{&run.Result.Seasonal, seasonal},
		{&run.Result.Forecasts, forecasts},
	} {
		if *f.dst, err = decodeFloats(f.src); err != nil {
			return nil, fmt.Errorf("decode run %s: %w", run.ID, err)
		}
	}
	return &run, nil
}

// encodeFloats uses strconv so NaN and Inf survive the round trip.
func encodeFloats(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}

func decodeFloats(s string) ([]float64, error) {
	if s == "" {
		return []float64{}, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
