// Package report answers aggregate questions about simulation output by
// running SQL over the Parquet files with an in-memory DuckDB.
package report

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2"
)

// ErrNoData is returned when the directory holds no summary files.
var ErrNoData = errors.New("no summaries found")

// DB exposes two views: summaries (one row per game) and traces (one row per
// tick). The globs only match files directly in the output directory, so
// files still being written under tmp/ are never read.
type DB struct {
	db        *sql.DB
	hasTraces bool
}

// Open builds the views over dir. It fails with ErrNoData when there are no
// summary files to query.
func Open(dir string) (*DB, error) {
	summaries, _ := filepath.Glob(filepath.Join(dir, "summary_*.parquet"))
	if len(summaries) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoData, dir)
	}
	traces, _ := filepath.Glob(filepath.Join(dir, "trace_*.parquet"))

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, err
	}
	_, _ = db.Exec("PRAGMA threads=4")

	if err := createView(db, "summaries", filepath.Join(dir, "summary_*.parquet")); err != nil {
		_ = db.Close()
		return nil, err
	}
	if len(traces) > 0 {
		if err := createView(db, "traces", filepath.Join(dir, "trace_*.parquet")); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return &DB{db: db, hasTraces: len(traces) > 0}, nil
}

func createView(db *sql.DB, name, glob string) error {
	q := `CREATE OR REPLACE VIEW ` + name + ` AS
		SELECT * FROM read_parquet('` + escapeSQLString(glob) + `', union_by_name=true)`
	if _, err := db.Exec(q); err != nil {
		return fmt.Errorf("create view %s: %w", name, err)
	}
	return nil
}

func escapeSQLString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func (d *DB) Close() error { return d.db.Close() }

// Overview is the batch-wide aggregate.
type Overview struct {
	Games        int64
	MeanTicks    float64
	MeanLength   float64
	MaxLength    int64
	MeanEaten    float64
	MeanSwitches float64
	Filled       int64
}

func (d *DB) Overview(ctx context.Context) (Overview, error) {
	var o Overview
	err := d.db.QueryRowContext(ctx, `
		SELECT count(*),
		       coalesce(avg(ticks), 0),
		       coalesce(avg(length), 0),
		       coalesce(max(length), 0)::BIGINT,
		       coalesce(avg(eaten), 0),
		       coalesce(avg(mode_switches), 0),
		       count(*) FILTER (WHERE result = 'filled')
		FROM summaries`).Scan(&o.Games, &o.MeanTicks, &o.MeanLength, &o.MaxLength, &o.MeanEaten, &o.MeanSwitches, &o.Filled)
	if err != nil {
		return Overview{}, fmt.Errorf("overview: %w", err)
	}
	return o, nil
}

// ResultCount is how many games ended one way and how long the agent got.
type ResultCount struct {
	Result     string
	Games      int64
	MeanLength float64
}

func (d *DB) Results(ctx context.Context) ([]ResultCount, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT result, count(*), avg(length)
		FROM summaries
		GROUP BY result
		ORDER BY count(*) DESC, result`)
	if err != nil {
		return nil, fmt.Errorf("results: %w", err)
	}
	defer rows.Close()

	var out []ResultCount
	for rows.Next() {
		var r ResultCount
		if err := rows.Scan(&r.Result, &r.Games, &r.MeanLength); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// SourceShare is the number of moves one decision source produced.
type SourceShare struct {
	Source string
	Moves  int64
	Share  float64
}

// sourceColumns are the per-source move counters in the summary files.
var sourceColumns = []string{"astar", "cached", "tail", "shortcut", "cycle", "greedy", "fallback", "doomed"}

// Sources totals moves per source from the summary counters, largest first.
func (d *DB) Sources(ctx context.Context) ([]SourceShare, error) {
	var parts []string
	for _, src := range sourceColumns {
		parts = append(parts, `SELECT '`+src+`' AS source, coalesce(sum(`+src+`), 0)::BIGINT AS moves FROM summaries`)
	}
	rows, err := d.db.QueryContext(ctx, `
		WITH long AS (`+strings.Join(parts, " UNION ALL ")+`)
		SELECT source, moves, coalesce(moves::DOUBLE / nullif(sum(moves) OVER (), 0), 0)
		FROM long
		ORDER BY moves DESC, source`)
	if err != nil {
		return nil, fmt.Errorf("sources: %w", err)
	}
	defer rows.Close()

	var out []SourceShare
	for rows.Next() {
		var s SourceShare
		if err := rows.Scan(&s.Source, &s.Moves, &s.Share); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ModeTicks is how many ticks were spent in a mode across all traces.
type ModeTicks struct {
	Mode          string
	Ticks         int64
	MeanOccupancy float64
}

// Modes reads the trace files. It returns nil when the batch wrote none.
func (d *DB) Modes(ctx context.Context) ([]ModeTicks, error) {
	if !d.hasTraces {
		return nil, nil
	}
	rows, err := d.db.QueryContext(ctx, `
		SELECT mode, count(*), avg(occupancy)
		FROM traces
		GROUP BY mode
		ORDER BY mode`)
	if err != nil {
		return nil, fmt.Errorf("modes: %w", err)
	}
	defer rows.Close()

	var out []ModeTicks
	for rows.Next() {
		var m ModeTicks
		if err := rows.Scan(&m.Mode, &m.Ticks, &m.MeanOccupancy); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
