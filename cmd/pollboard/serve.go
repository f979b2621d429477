package main

import (
	"github.com/spf13/cobra"

	"github.com/eringen/pollboard"
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var addr, staticDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.config()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}

			var opts []pollboard.Option
			if staticDir != "" {
				opts = append(opts, pollboard.WithStaticDir(staticDir))
			}
			if rootOpts.Fetcher != nil {
				opts = append(opts, pollboard.WithSource(rootOpts.Fetcher))
			}
			app := pollboard.New(cfg, opts...)
			defer app.Close()
			return app.Start()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().StringVar(&staticDir, "static", "", "directory of extra assets served under /public/")

	return cmd
}
