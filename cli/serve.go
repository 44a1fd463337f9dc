package cli

import (
	"github.com/spf13/cobra"

	"github.com/brensch/snekpath/config"
	"github.com/brensch/snekpath/nav"
	"github.com/brensch/snekpath/server"
)

func (a *App) newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve decisions over HTTP and WebSocket",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("listen") {
				a.cfg.Server.Listen, _ = flags.GetString("listen")
			}
			if flags.Changed("policy") {
				a.cfg.Server.Policy, _ = flags.GetString("policy")
			}
			if flags.Changed("session-ttl") {
				a.cfg.Server.SessionTTL, _ = flags.GetDuration("session-ttl")
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			srv, err := server.New(server.Config{
				Engine:     a.cfg.Engine,
				Policy:     nav.Policy(a.cfg.Server.Policy),
				SessionTTL: a.cfg.Server.SessionTTL,
				Logger:     a.logger,
			})
			if err != nil {
				return err
			}
			return srv.Run(cmd.Context(), a.cfg.Server.Listen)
		},
	}

	d := config.Default().Server
	cmd.Flags().String("listen", d.Listen, "HTTP listen address")
	cmd.Flags().String("policy", d.Policy, "Default strategy policy")
	cmd.Flags().Duration("session-ttl", d.SessionTTL, "Drop sessions idle for this long")
	return cmd
}
