package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brensch/snekpath/nav"
	"github.com/brensch/snekpath/server"
)

func (a *App) newDecideCmd() *cobra.Command {
	var policy string
	cmd := &cobra.Command{
		Use:   "decide",
		Short: "Decide one move for a JSON state read from stdin",
		Long: `decide reads {"size":N,"body":[{"x":..,"y":..},...],"target":{"x":..,"y":..}}
from stdin and prints {"move","source","mode","occupancy"}.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var req server.MoveRequest
			dec := json.NewDecoder(a.stdin)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				return fmt.Errorf("decode state: %w", err)
			}

			cfg := a.cfg.Engine
			cfg.Size = req.Size
			p, err := nav.ParsePolicy(policy)
			if err != nil {
				return err
			}
			ctrl, err := nav.New(cfg, nav.WithPolicy(p))
			if err != nil {
				return err
			}
			d, err := ctrl.Decide(req.State())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(a.stdout)
			return enc.Encode(server.NewMoveResponse(d))
		},
	}
	cmd.Flags().StringVar(&policy, "policy", string(nav.PolicyHybrid), "Strategy policy")
	return cmd
}
