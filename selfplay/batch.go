package selfplay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/brensch/snekpath/nav"
	"github.com/brensch/snekpath/store"
)

// Config describes a batch of games.
type Config struct {
	Engine   nav.Config
	Policy   nav.Policy
	Games    int
	Workers  int
	MaxTicks int
	Seed     int64

	// OutDir receives trace and summary Parquet files plus the ledger of
	// committed game IDs. Empty disables persistence.
	OutDir     string
	FlushGames int

	Logger *slog.Logger
	// OnGame, when set, sees every finished game from the writer goroutine.
	OnGame func(GameOutcome)
	// OnTick is called from worker goroutines once per tick.
	OnTick func()
}

// Summary aggregates a batch.
type Summary struct {
	Games     int
	Skipped   int
	Results   map[Result]int
	Ticks     int
	MaxLength int
	SumLength int
	Files     []string
	Elapsed   time.Duration
}

func (s Summary) MeanLength() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.SumLength) / float64(s.Games)
}

// gameNamespace scopes deterministic game IDs.
var gameNamespace = uuid.MustParse("0d1b5f5e-6c1a-4d43-9a55-3f0c1e1d7a21")

// GameID is stable for a (seed, size, index) triple so a rerun of the same
// batch can recognise games it already wrote.
func GameID(seed int64, size, index int) string {
	return uuid.NewSHA1(gameNamespace, fmt.Appendf(nil, "%d/%d/%d", seed, size, index)).String()
}

func gameSeed(seed int64, index int) int64 {
	return seed + int64(index)*1000003
}

// RunBatch plays cfg.Games games on cfg.Workers goroutines. Finished games go
// to one writer goroutine which flushes Parquet every cfg.FlushGames games
// and records the flushed IDs in the ledger. Cancelling ctx stops new games,
// drops the ones in flight and flushes what has finished.
func RunBatch(ctx context.Context, cfg Config) (Summary, error) {
	if err := cfg.Engine.Validate(); err != nil {
		return Summary{}, err
	}
	policy, err := nav.ParsePolicy(string(cfg.Policy))
	if err != nil {
		return Summary{}, err
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.FlushGames <= 0 {
		cfg.FlushGames = 50
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	cycle, err := nav.BuildCycle(cfg.Engine.Size)
	if err != nil {
		return Summary{}, err
	}

	var ledger *store.Ledger
	if cfg.OutDir != "" {
		ledger, err = store.OpenLedger(filepath.Join(cfg.OutDir, "ledger.log"))
		if err != nil {
			return Summary{}, err
		}
		defer ledger.Close()
	}

	start := time.Now()
	results := make(chan GameOutcome, cfg.Workers*4)
	w := &writer{cfg: cfg, policy: policy, ledger: ledger, logger: logger}
	writerDone := make(chan error, 1)
	go func() {
		writerDone <- w.loop(results)
	}()

	var skipped atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)

	for i := 0; i < cfg.Games; i++ {
		if gctx.Err() != nil {
			break
		}
		id := GameID(cfg.Seed, cfg.Engine.Size, i)
		if ledger != nil && ledger.Has(id) {
			skipped.Add(1)
			continue
		}
		seed := gameSeed(cfg.Seed, i)
		g.Go(func() error {
			ctrl, err := nav.New(cfg.Engine, nav.WithCycle(cycle), nav.WithPolicy(policy))
			if err != nil {
				return err
			}
			opts := PlayOptions{MaxTicks: cfg.MaxTicks, Record: cfg.OutDir != ""}
			if cfg.OnTick != nil {
				opts.OnStep = func(Step) { cfg.OnTick() }
			}
			out := PlayGame(gctx, id, ctrl, rand.New(rand.NewSource(seed)), opts)
			out.Seed = seed
			if out.Result == ResultCanceled {
				return nil
			}
			if out.Result == ResultError {
				return fmt.Errorf("game %s: %w", id, out.Err)
			}
			results <- out
			return nil
		})
	}

	runErr := g.Wait()
	close(results)
	writeErr := <-writerDone

	sum := w.summary
	sum.Skipped = int(skipped.Load())
	sum.Elapsed = time.Since(start)
	logger.Info("batch finished",
		"games", sum.Games,
		"skipped", sum.Skipped,
		"ticks", sum.Ticks,
		"mean_length", sum.MeanLength(),
		"files", len(sum.Files),
		"elapsed", sum.Elapsed.Round(time.Millisecond),
	)
	return sum, errors.Join(runErr, writeErr)
}

// writer owns all Parquet output and the summary; only its goroutine
// touches it until loop returns.
type writer struct {
	cfg    Config
	policy nav.Policy
	ledger *store.Ledger
	logger *slog.Logger

	traces    *store.BatchWriter[store.TraceRow]
	summaries []store.GameSummary
	ids       []string
	summary   Summary
	err       error
}

func (w *writer) loop(in <-chan GameOutcome) error {
	w.summary.Results = make(map[Result]int)

	for out := range in {
		w.summary.Games++
		w.summary.Results[out.Result]++
		w.summary.Ticks += out.Ticks
		w.summary.SumLength += out.Length
		if out.Length > w.summary.MaxLength {
			w.summary.MaxLength = out.Length
		}
		if w.cfg.OnGame != nil {
			w.cfg.OnGame(out)
		}
		w.logger.Debug("game finished",
			"game_id", out.GameID,
			"result", out.Result,
			"ticks", out.Ticks,
			"length", out.Length,
		)

		if w.cfg.OutDir == "" || w.err != nil {
			continue
		}
		if err := w.add(out); err != nil {
			w.err = err
			w.logger.Error("parquet write failed", "game_id", out.GameID, "err", err)
			continue
		}
		if len(w.ids) >= w.cfg.FlushGames {
			if err := w.flush(); err != nil {
				w.err = err
				w.logger.Error("parquet flush failed", "err", err)
			}
		}
	}

	if w.cfg.OutDir != "" && w.err == nil && len(w.ids) > 0 {
		if err := w.flush(); err != nil {
			w.err = err
			w.logger.Error("parquet final flush failed", "err", err)
		}
	}
	return w.err
}

func (w *writer) add(out GameOutcome) error {
	if w.traces == nil {
		tw, err := store.NewTraceWriter(w.cfg.OutDir)
		if err != nil {
			return err
		}
		w.traces = tw
	}
	if err := w.traces.WriteGame(out.Rows); err != nil {
		return err
	}
	w.summaries = append(w.summaries, summaryOf(out, w.cfg.Engine.Size, w.policy))
	w.ids = append(w.ids, out.GameID)
	return nil
}

// flush finalizes the trace file, writes the matching summaries and only
// then commits the IDs to the ledger.
func (w *writer) flush() error {
	path, rows, games, err := w.traces.Finalize()
	w.traces = nil
	if err != nil {
		return err
	}
	if path != "" {
		w.summary.Files = append(w.summary.Files, path)
	}
	sumPath, err := store.WriteSummaries(w.cfg.OutDir, w.summaries)
	if err != nil {
		return err
	}
	w.summary.Files = append(w.summary.Files, sumPath)
	if err := w.ledger.AddMany(w.ids); err != nil {
		return err
	}
	w.logger.Info("parquet flush ok", "trace", path, "summary", sumPath, "games", games, "rows", rows)

	w.summaries = w.summaries[:0]
	w.ids = w.ids[:0]
	return nil
}
