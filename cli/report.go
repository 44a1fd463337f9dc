package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brensch/snekpath/report"
)

func (a *App) newReportCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarise the Parquet output written by simulate",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				dir = a.cfg.Sim.OutDir
			}
			db, err := report.Open(dir)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			o, err := db.Overview(ctx)
			if err != nil {
				return err
			}
			results, err := db.Results(ctx)
			if err != nil {
				return err
			}
			sources, err := db.Sources(ctx)
			if err != nil {
				return err
			}
			modes, err := db.Modes(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintf(a.stdout, "games=%d filled=%d mean_ticks=%.1f mean_length=%.1f max_length=%d mean_eaten=%.1f mean_switches=%.2f\n",
				o.Games, o.Filled, o.MeanTicks, o.MeanLength, o.MaxLength, o.MeanEaten, o.MeanSwitches)
			fmt.Fprintln(a.stdout, "results:")
			for _, r := range results {
				fmt.Fprintf(a.stdout, "  %-10s %6d  mean_length %.1f\n", r.Result, r.Games, r.MeanLength)
			}
			fmt.Fprintln(a.stdout, "moves by source:")
			for _, s := range sources {
				fmt.Fprintf(a.stdout, "  %-10s %8d  %5.1f%%\n", s.Source, s.Moves, 100*s.Share)
			}
			if len(modes) > 0 {
				fmt.Fprintln(a.stdout, "ticks by mode:")
				for _, m := range modes {
					fmt.Fprintf(a.stdout, "  %-10s %8d  mean_occupancy %.2f\n", m.Mode, m.Ticks, m.MeanOccupancy)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "in", "", "Directory holding the Parquet output (defaults to sim.out_dir)")
	return cmd
}
