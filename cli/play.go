package cli

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/brensch/snekpath/game"
	"github.com/brensch/snekpath/nav"
	"github.com/brensch/snekpath/rules"
	"github.com/brensch/snekpath/selfplay"
)

func (a *App) newPlayCmd() *cobra.Command {
	var (
		size     int
		seed     int64
		maxTicks int
		delay    time.Duration
		policy   string
		quiet    bool
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play one game and print the board every tick",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg.Engine
			if cmd.Flags().Changed("size") {
				cfg.Size = size
			}
			p, err := nav.ParsePolicy(policy)
			if err != nil {
				return err
			}
			ctrl, err := nav.New(cfg, nav.WithPolicy(p))
			if err != nil {
				return err
			}

			onStep := func(s selfplay.Step) {
				if quiet {
					return
				}
				fmt.Fprint(a.stdout, stepLine(s))
				fmt.Fprint(a.stdout, game.Render(s.State, ctrl.CachedPath()...))
				if delay > 0 {
					time.Sleep(delay)
				}
			}
			id := selfplay.GameID(seed, cfg.Size, 0)
			out := selfplay.PlayGame(cmd.Context(), id, ctrl, rand.New(rand.NewSource(seed)), selfplay.PlayOptions{
				MaxTicks: maxTicks,
				OnStep:   onStep,
			})
			fmt.Fprintf(a.stdout, "result=%s ticks=%d length=%d eaten=%d\n", out.Result, out.Ticks, out.Length, out.Eaten)
			srcs := make([]string, 0, len(out.Stats.BySource))
			for src := range out.Stats.BySource {
				srcs = append(srcs, string(src))
			}
			sort.Strings(srcs)
			for _, src := range srcs {
				fmt.Fprintf(a.stdout, "  %-8s %d\n", src, out.Stats.BySource[nav.Source(src)])
			}
			return out.Err
		},
	}
	f := cmd.Flags()
	f.IntVar(&size, "size", 0, "Board size N (even)")
	f.Int64Var(&seed, "seed", 1, "Game seed")
	f.IntVar(&maxTicks, "max-ticks", 0, "Stop after this many ticks (0 = starvation limit only)")
	f.DurationVar(&delay, "delay", 0, "Pause between ticks")
	f.StringVar(&policy, "policy", string(nav.PolicyHybrid), "Strategy policy")
	f.BoolVar(&quiet, "quiet", false, "Only print the result")
	return cmd
}

// stepLine describes one tick. A board left with no legal move for the next
// tick is flagged as trapped.
func stepLine(s selfplay.Step) string {
	trapped := ""
	if !s.Outcome.Terminal() && rules.IsTerminal(s.State) {
		trapped = " | trapped"
	}
	return fmt.Sprintf("tick %4d | %-5s %-8s %-6s occ %.2f | %s%s\n",
		s.Tick, s.Decision.Direction, s.Decision.Source, s.Decision.Mode, s.Decision.Occupancy, s.Outcome, trapped)
}
