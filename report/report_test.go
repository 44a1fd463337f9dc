package report

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/brensch/snekpath/store"
)

func writeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	rows := []store.GameSummary{
		{GameID: "a", Size: 6, Policy: "hybrid", Ticks: 100, Length: 10, Eaten: 9, Result: "collision", ModeSwitches: 1, AStar: 60, Cached: 30, Cycle: 10},
		{GameID: "b", Size: 6, Policy: "hybrid", Ticks: 300, Length: 36, Eaten: 35, Result: "filled", ModeSwitches: 1, AStar: 100, Cycle: 150, Shortcut: 50},
	}
	if _, err := store.WriteSummaries(dir, rows[:1]); err != nil {
		t.Fatalf("write summaries: %v", err)
	}
	if _, err := store.WriteSummaries(dir, rows[1:]); err != nil {
		t.Fatalf("write summaries: %v", err)
	}

	w, err := store.NewTraceWriter(dir)
	if err != nil {
		t.Fatalf("trace writer: %v", err)
	}
	if err := w.WriteGame([]store.TraceRow{
		{GameID: "a", Tick: 0, Mode: "SEARCH", Occupancy: 0.1, Source: "astar"},
		{GameID: "a", Tick: 1, Mode: "SEARCH", Occupancy: 0.3, Source: "cached"},
		{GameID: "a", Tick: 2, Mode: "CYCLE", Occupancy: 0.6, Source: "cycle"},
	}); err != nil {
		t.Fatalf("write game: %v", err)
	}
	if _, _, _, err := w.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	return dir
}

func TestStagingFilesIgnored(t *testing.T) {
	dir := writeFixture(t)
	staged := []store.GameSummary{{GameID: "staged", Ticks: 1, Length: 1, Result: "collision"}}
	if _, err := store.WriteSummaries(filepath.Join(dir, "tmp"), staged); err != nil {
		t.Fatalf("write staged summaries: %v", err)
	}

	db, err := Open(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	o, err := db.Overview(context.Background())
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if o.Games != 2 {
		t.Errorf("games = %d, want 2 (staged file must not count)", o.Games)
	}
}

func TestOpenEmpty(t *testing.T) {
	_, err := Open(t.TempDir())
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestQueries(t *testing.T) {
	db, err := Open(writeFixture(t))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()
	ctx := context.Background()

	o, err := db.Overview(ctx)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if o.Games != 2 || o.Filled != 1 || o.MaxLength != 36 {
		t.Errorf("unexpected overview %+v", o)
	}
	if o.MeanTicks != 200 {
		t.Errorf("mean ticks = %v, want 200", o.MeanTicks)
	}

	results, err := db.Results(ctx)
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 result groups, got %+v", results)
	}

	sources, err := db.Sources(ctx)
	if err != nil {
		t.Fatalf("sources: %v", err)
	}
	if len(sources) != len(sourceColumns) {
		t.Fatalf("expected %d sources, got %d", len(sourceColumns), len(sources))
	}
	if sources[0].Source != "astar" || sources[0].Moves != 160 {
		t.Errorf("top source = %+v, want astar with 160", sources[0])
	}
	var total float64
	for _, s := range sources {
		total += s.Share
	}
	if math.Abs(total-1) > 1e-9 {
		t.Errorf("shares sum to %v", total)
	}

	modes, err := db.Modes(ctx)
	if err != nil {
		t.Fatalf("modes: %v", err)
	}
	if len(modes) != 2 || modes[0].Mode != "CYCLE" || modes[1].Ticks != 2 {
		t.Errorf("unexpected modes %+v", modes)
	}
}

func TestModesWithoutTraces(t *testing.T) {
	dir := t.TempDir()
	if _, err := store.WriteSummaries(dir, []store.GameSummary{{GameID: "a", Result: "starved"}}); err != nil {
		t.Fatal(err)
	}
	db, err := Open(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	modes, err := db.Modes(context.Background())
	if err != nil || modes != nil {
		t.Fatalf("expected no modes and no error, got %v, %v", modes, err)
	}
}
