// Package selfplay runs the navigation controller against the rules engine,
// one game per goroutine, and hands finished games to a single writer.
package selfplay

import (
	"context"
	"math/rand"
	"time"

	"github.com/brensch/snekpath/game"
	"github.com/brensch/snekpath/nav"
	"github.com/brensch/snekpath/rules"
	"github.com/brensch/snekpath/store"
)

// Result is how a game ended.
type Result string

const (
	ResultCollision Result = "collision"
	ResultFilled    Result = "filled"
	ResultMaxTicks  Result = "max_ticks"
	ResultStarved   Result = "starved"
	ResultCanceled  Result = "canceled"
	ResultError     Result = "error"
)

// Step is reported after every tick.
type Step struct {
	GameID   string
	Tick     int
	Decision nav.Decision
	Outcome  rules.Outcome
	State    *game.State
}

// PlayOptions tunes one game.
type PlayOptions struct {
	// MaxTicks ends the game after this many ticks. Zero leaves only the
	// starvation limit.
	MaxTicks int
	// Record keeps one trace row per tick in the outcome.
	Record bool
	OnStep func(Step)
}

// GameOutcome is a finished (or abandoned) game.
type GameOutcome struct {
	GameID   string
	Seed     int64
	Result   Result
	Err      error
	Ticks    int
	Length   int
	Eaten    int
	Stats    nav.Stats
	Rows     []store.TraceRow
	Duration time.Duration
}

// StarveLimit is how many ticks an agent on an n×n board may go without
// eating before the game is called.
func StarveLimit(n int) int {
	return n * n * 4
}

// PlayGame runs a single game from a fresh board. ctrl is reset first and
// must be sized for the board; rng drives target placement.
func PlayGame(ctx context.Context, id string, ctrl *nav.Controller, rng *rand.Rand, opts PlayOptions) GameOutcome {
	start := time.Now()
	n := ctrl.Config().Size
	ctrl.Reset()

	state := game.NewState(n, rng)
	out := GameOutcome{GameID: id}
	if opts.Record {
		out.Rows = make([]store.TraceRow, 0, 256)
	}

	starve := StarveLimit(n)
	sinceMeal := 0

	finish := func(r Result) GameOutcome {
		out.Result = r
		out.Length = len(state.Body)
		out.Stats = ctrl.Stats()
		out.Duration = time.Since(start)
		return out
	}

	for tick := 0; ; tick++ {
		select {
		case <-ctx.Done():
			return finish(ResultCanceled)
		default:
		}
		if opts.MaxTicks > 0 && tick >= opts.MaxTicks {
			return finish(ResultMaxTicks)
		}
		if sinceMeal >= starve {
			return finish(ResultStarved)
		}

		d, err := ctrl.Decide(state)
		if err != nil {
			out.Err = err
			return finish(ResultError)
		}

		next, outcome := rules.Step(state, d.Direction, rng)
		if opts.Record {
			out.Rows = append(out.Rows, traceRow(id, tick, state, d, outcome))
		}
		out.Ticks = tick + 1

		if opts.OnStep != nil {
			opts.OnStep(Step{GameID: id, Tick: tick, Decision: d, Outcome: outcome, State: next})
		}

		switch outcome {
		case rules.OutcomeCollision:
			return finish(ResultCollision)
		case rules.OutcomeFilled:
			state = next
			out.Eaten++
			return finish(ResultFilled)
		case rules.OutcomeAte:
			out.Eaten++
			sinceMeal = 0
		default:
			sinceMeal++
		}
		state = next
	}
}

func traceRow(id string, tick int, s *game.State, d nav.Decision, outcome rules.Outcome) store.TraceRow {
	bx := make([]int32, len(s.Body))
	by := make([]int32, len(s.Body))
	for i, p := range s.Body {
		bx[i], by[i] = int32(p.X), int32(p.Y)
	}
	head := s.Head()
	return store.TraceRow{
		GameID:    id,
		Tick:      int32(tick),
		Size:      int32(s.Size),
		HeadX:     int32(head.X),
		HeadY:     int32(head.Y),
		TargetX:   int32(s.Target.X),
		TargetY:   int32(s.Target.Y),
		BodyX:     bx,
		BodyY:     by,
		Length:    int32(len(s.Body)),
		Move:      int32(d.Direction),
		Source:    string(d.Source),
		Mode:      string(d.Mode),
		Occupancy: float32(d.Occupancy),
		Outcome:   outcome.String(),
	}
}

func summaryOf(o GameOutcome, size int, policy nav.Policy) store.GameSummary {
	by := o.Stats.BySource
	return store.GameSummary{
		GameID:         o.GameID,
		Seed:           o.Seed,
		Size:           int32(size),
		Policy:         string(policy),
		Ticks:          int32(o.Ticks),
		Length:         int32(o.Length),
		Eaten:          int32(o.Eaten),
		Result:         string(o.Result),
		ModeSwitches:   int32(o.Stats.ModeSwitches),
		AStar:          int32(by[nav.SourceAStar]),
		Cached:         int32(by[nav.SourceCached]),
		Tail:           int32(by[nav.SourceTail]),
		Shortcut:       int32(by[nav.SourceShortcut]),
		Cycle:          int32(by[nav.SourceCycle]),
		Greedy:         int32(by[nav.SourceGreedy]),
		Fallback:       int32(by[nav.SourceFallback]),
		Doomed:         int32(by[nav.SourceDoomed]),
		DurationMicros: o.Duration.Microseconds(),
	}
}
