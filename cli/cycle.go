package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/brensch/snekpath/game"
	"github.com/brensch/snekpath/nav"
)

func (a *App) newCycleCmd() *cobra.Command {
	var size int
	cmd := &cobra.Command{
		Use:   "cycle",
		Short: "Print the Hamiltonian cycle as a grid of tour indices",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("size") {
				size = a.cfg.Engine.Size
			}
			c, err := nav.BuildCycle(size)
			if err != nil {
				return err
			}
			fmt.Fprint(a.stdout, renderCycle(c))
			return nil
		},
	}
	cmd.Flags().IntVar(&size, "size", 0, "Board size N (even)")
	return cmd
}

func renderCycle(c *nav.Cycle) string {
	n := c.Size()
	width := len(strconv.Itoa(c.Len() - 1))
	var b strings.Builder
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			if x > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%*d", width, c.IndexOf(game.Point{X: x, Y: y}))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
