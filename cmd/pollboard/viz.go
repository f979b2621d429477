package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/eringen/pollboard/poll"
	"github.com/eringen/pollboard/rank"
	"github.com/eringen/pollboard/vizimage"
)

type vizOptions struct {
	filters filterFlags
	limit   int
	compact bool
	plain   bool
	png     string
	font    string
	width   int
}

// NewVizCommand creates the viz command.
func NewVizCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &vizOptions{}

	cmd := &cobra.Command{
		Use:   "viz",
		Short: "Print the most voted threads with their rank font size and score color",
		Long: `Print the visualization: the most voted threads ranked by votes, each with
the font size its rank gets and the color of its average score.

--plain prints tab-separated rank, size, color, votes and title.
--png renders the visualization to an image file instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runViz(cmd, rootOpts, opts)
		},
	}

	opts.filters.register(cmd)
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "number of threads (default from config)")
	cmd.Flags().BoolVar(&opts.compact, "compact", false, "use the narrow-screen font sizes")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "tab-separated output without styling")
	cmd.Flags().StringVar(&opts.png, "png", "", "write a PNG to this file")
	cmd.Flags().StringVar(&opts.font, "font", "", "TTF/OTF font for --png (default from config, else Go Regular)")
	cmd.Flags().IntVar(&opts.width, "width", 0, "scale the PNG down to this width")

	return cmd
}

func runViz(cmd *cobra.Command, rootOpts *RootOptions, opts *vizOptions) error {
	q, err := opts.filters.query()
	if err != nil {
		return err
	}
	cfg, err := rootOpts.config()
	if err != nil {
		return err
	}
	snap, err := rootOpts.fetch(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	limit := opts.limit
	if limit <= 0 {
		limit = cfg.VizLimit
	}
	items := rank.Items(poll.Filter(snap.Posts, q), limit)

	if opts.png != "" {
		font := opts.font
		if font == "" {
			font = cfg.FontPath
		}
		return writePNG(opts.png, font, items, vizimage.Options{Compact: opts.compact, Scale: opts.width})
	}

	out := cmd.OutOrStdout()
	if len(items) == 0 {
		fmt.Fprintln(out, "No data available for the selected filters")
		return nil
	}
	if opts.plain {
		return writePlain(out, items, opts.compact)
	}
	for _, it := range items {
		size := it.FontSize
		if opts.compact {
			size = it.CompactSize
		}
		title := lipgloss.NewStyle().Foreground(lipgloss.Color(it.Color.Hex())).Render(it.Title)
		fmt.Fprintf(out, "%3d. %2dpx  %s  (%d / %.2f)\n", it.Rank+1, size, title, it.Post.Votes, it.Post.AverageScore)
	}
	return nil
}

func writePlain(w io.Writer, items []rank.Item, compact bool) error {
	for _, it := range items {
		size := it.FontSize
		if compact {
			size = it.CompactSize
		}
		if _, err := fmt.Fprintf(w, "%d\t%d\t%s\t%d\t%s\n", it.Rank+1, size, it.Color.Hex(), it.Post.Votes, it.Title); err != nil {
			return err
		}
	}
	return nil
}

func writePNG(path, font string, items []rank.Item, opts vizimage.Options) error {
	var (
		r   *vizimage.Renderer
		err error
	)
	if font != "" {
		r, err = vizimage.NewFromFile(font)
	} else {
		r, err = vizimage.New()
	}
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := r.WritePNG(f, items, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
