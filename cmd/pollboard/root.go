package main

import (
	"context"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/eringen/pollboard"
	"github.com/eringen/pollboard/poll"
	"github.com/eringen/pollboard/source"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	SourceURL  string

	// Fetcher replaces the HTTP feed client when set.
	Fetcher source.Fetcher
}

// NewRootCommand creates the root command for the pollboard CLI.
func NewRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "pollboard",
		Short:         "Stage1st poll dashboard",
		Long:          "Browse the Stage1st anime poll feed as a web dashboard or in the terminal.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "YAML config file (default $POLLBOARD_CONFIG)")
	cmd.PersistentFlags().StringVar(&opts.SourceURL, "source", "", "poll feed URL (overrides config)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewTableCommand(opts))
	cmd.AddCommand(NewVizCommand(opts))
	cmd.AddCommand(NewYearsCommand(opts))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

func (o *RootOptions) config() (pollboard.SiteConfig, error) {
	cfg, err := pollboard.LoadConfig(o.ConfigPath)
	if err != nil {
		return pollboard.SiteConfig{}, err
	}
	if o.SourceURL != "" {
		cfg.SourceURL = o.SourceURL
	}
	return cfg, nil
}

func (o *RootOptions) fetch(ctx context.Context, cfg pollboard.SiteConfig) (poll.Snapshot, error) {
	f := o.Fetcher
	if f == nil {
		f = source.NewClient(cfg.SourceURL, cfg.FetchTimeout)
	}
	return f.Fetch(ctx)
}

// filterFlags are the dashboard filters as command-line flags.
type filterFlags struct {
	year, quarter, month, search string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.year, "year", "", "filter by year tag, e.g. 2024")
	cmd.Flags().StringVar(&f.quarter, "quarter", "", "filter by quarter (Q1-Q4)")
	cmd.Flags().StringVar(&f.month, "month", "", "filter by month (1-12)")
	cmd.Flags().StringVarP(&f.search, "search", "s", "", "case-insensitive title search; overrides date filters")
}

func (f *filterFlags) query() (poll.Query, error) {
	return poll.ParseQuery(url.Values{
		poll.ParamYear:    {f.year},
		poll.ParamQuarter: {f.quarter},
		poll.ParamMonth:   {f.month},
		poll.ParamSearch:  {f.search},
	})
}
