package cli

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"github.com/brensch/snekpath/config"
	"github.com/brensch/snekpath/logging"
	"github.com/brensch/snekpath/monitor"
	"github.com/brensch/snekpath/nav"
	"github.com/brensch/snekpath/selfplay"
)

func (a *App) newSimulateCmd() *cobra.Command {
	var (
		size int
		tui  bool
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play a batch of games and write traces to Parquet",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			sim := &a.cfg.Sim
			if flags.Changed("games") {
				sim.Games, _ = flags.GetInt("games")
			}
			if flags.Changed("workers") {
				sim.Workers, _ = flags.GetInt("workers")
			}
			if flags.Changed("max-ticks") {
				sim.MaxTicks, _ = flags.GetInt("max-ticks")
			}
			if flags.Changed("seed") {
				sim.Seed, _ = flags.GetInt64("seed")
			}
			if flags.Changed("out-dir") {
				sim.OutDir, _ = flags.GetString("out-dir")
			}
			if flags.Changed("flush-games") {
				sim.FlushGames, _ = flags.GetInt("flush-games")
			}
			if flags.Changed("policy") {
				sim.Policy, _ = flags.GetString("policy")
			}
			if flags.Changed("size") {
				a.cfg.Engine.Size = size
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			return a.simulate(cmd.Context(), tui)
		},
	}

	d := config.Default().Sim
	f := cmd.Flags()
	f.Int("games", d.Games, "Number of games to play")
	f.Int("workers", d.Workers, "Games played in parallel")
	f.Int("max-ticks", d.MaxTicks, "Stop each game after this many ticks (0 = starvation limit only)")
	f.Int64("seed", d.Seed, "Base seed; game i uses a seed derived from it")
	f.String("out-dir", d.OutDir, "Directory for Parquet output; empty disables writing")
	f.Int("flush-games", d.FlushGames, "Games per Parquet file")
	f.String("policy", d.Policy, "Strategy policy: hybrid, astar, cycle or greedy")
	f.IntVar(&size, "size", 0, "Board size N (even)")
	f.BoolVar(&tui, "tui", false, "Show a live progress view")
	return cmd
}

func (a *App) simulate(ctx context.Context, tui bool) error {
	sim := a.cfg.Sim
	cfg := selfplay.Config{
		Engine:     a.cfg.Engine,
		Policy:     nav.Policy(sim.Policy),
		Games:      sim.Games,
		Workers:    sim.Workers,
		MaxTicks:   sim.MaxTicks,
		Seed:       sim.Seed,
		OutDir:     sim.OutDir,
		FlushGames: sim.FlushGames,
		Logger:     a.logger,
	}

	var (
		sum selfplay.Summary
		err error
	)
	if tui {
		sum, err = a.simulateTUI(ctx, cfg)
	} else {
		a.logger.Info("starting simulation",
			"games", cfg.Games,
			"workers", cfg.Workers,
			"size", cfg.Engine.Size,
			"policy", cfg.Policy,
			"out_dir", cfg.OutDir,
		)
		sum, err = selfplay.RunBatch(ctx, cfg)
	}
	a.printSummary(sum)
	return err
}

// simulateTUI runs the batch behind the progress view. Logging is muted
// while the view owns the terminal.
func (a *App) simulateTUI(ctx context.Context, cfg selfplay.Config) (selfplay.Summary, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var ticks atomic.Int64
	updates := make(chan monitor.GameUpdate, cfg.Workers*4)
	cfg.Logger = logging.Discard()
	cfg.OnTick = func() { ticks.Add(1) }
	cfg.OnGame = forwardGames(ctx, updates)

	type result struct {
		sum selfplay.Summary
		err error
	}
	done := make(chan result, 1)
	go func() {
		sum, err := selfplay.RunBatch(ctx, cfg)
		close(updates)
		done <- result{sum, err}
	}()

	if err := monitor.Run(ctx, monitor.New(cfg.Games, updates, &ticks, cancel)); err != nil {
		cancel()
		<-done
		return selfplay.Summary{}, fmt.Errorf("progress view: %w", err)
	}
	r := <-done
	return r.sum, r.err
}

// forwardGames returns an OnGame hook that hands every finished game to the
// progress view. It blocks while the view is behind and gives up once ctx
// is done.
func forwardGames(ctx context.Context, updates chan<- monitor.GameUpdate) func(selfplay.GameOutcome) {
	return func(g selfplay.GameOutcome) {
		u := monitor.GameUpdate{GameID: g.GameID, Result: string(g.Result), Ticks: g.Ticks, Length: g.Length}
		select {
		case updates <- u:
		case <-ctx.Done():
		}
	}
}

func (a *App) printSummary(sum selfplay.Summary) {
	fmt.Fprintf(a.stdout, "games=%d skipped=%d ticks=%d mean_length=%.1f max_length=%d elapsed=%s\n",
		sum.Games, sum.Skipped, sum.Ticks, sum.MeanLength(), sum.MaxLength, sum.Elapsed.Round(time.Millisecond))

	keys := make([]string, 0, len(sum.Results))
	for r := range sum.Results {
		keys = append(keys, string(r))
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(a.stdout, "  %-10s %d\n", k, sum.Results[selfplay.Result(k)])
	}
	for _, f := range sum.Files {
		fmt.Fprintf(a.stdout, "  wrote %s\n", f)
	}
}
