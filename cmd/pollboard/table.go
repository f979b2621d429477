package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/eringen/pollboard/paging"
	"github.com/eringen/pollboard/poll"
	"github.com/eringen/pollboard/rank"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numStyle    = cellStyle.Align(lipgloss.Right)
	footerStyle = lipgloss.NewStyle().Faint(true)
)

// score columns, colored by ColorForScore
const (
	colAverage  = 3
	colBayesian = 4
)

type tableOptions struct {
	filters  filterFlags
	sort     string
	dir      string
	page     int
	pageSize int
}

// NewTableCommand creates the table command.
func NewTableCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &tableOptions{}

	cmd := &cobra.Command{
		Use:   "table",
		Short: "Print the filtered, sorted poll table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTable(cmd, rootOpts, opts)
		},
	}

	opts.filters.register(cmd)
	def := poll.DefaultSort()
	cmd.Flags().StringVar(&opts.sort, "sort", string(def.Field), "sort field (votes|average_score|bayesian_average_score)")
	cmd.Flags().StringVar(&opts.dir, "dir", string(def.Direction), "sort direction (asc|desc)")
	cmd.Flags().IntVarP(&opts.page, "page", "p", 1, "number of pages to reveal")
	cmd.Flags().IntVar(&opts.pageSize, "page-size", 0, "rows per page (default from config)")

	return cmd
}

func runTable(cmd *cobra.Command, rootOpts *RootOptions, opts *tableOptions) error {
	q, err := opts.filters.query()
	if err != nil {
		return err
	}
	field, err := poll.ParseSortField(opts.sort)
	if err != nil {
		return err
	}
	dir, err := poll.ParseDirection(opts.dir)
	if err != nil {
		return err
	}
	if opts.page < 1 {
		return fmt.Errorf("invalid page %d", opts.page)
	}

	cfg, err := rootOpts.config()
	if err != nil {
		return err
	}
	snap, err := rootOpts.fetch(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	size := opts.pageSize
	if size <= 0 {
		size = cfg.PageSize
	}
	posts := poll.Sort(poll.Filter(snap.Posts, q), poll.SortState{Field: field, Direction: dir})
	st := paging.At(opts.page, size, len(posts))
	visible := paging.Page(posts, st)

	out := cmd.OutOrStdout()
	if len(visible) == 0 {
		fmt.Fprintln(out, "No data available for the selected filters")
		return nil
	}
	fmt.Fprintln(out, renderTable(visible))
	fmt.Fprintln(out, footerStyle.Render(fmt.Sprintf("%d of %d rows · page %d · has more: %t",
		len(visible), len(posts), st.Page, st.HasMore)))
	return nil
}

func renderTable(posts []poll.Post) string {
	rows := make([][]string, len(posts))
	for i, p := range posts {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			p.Subject,
			strconv.FormatInt(p.Votes, 10),
			formatScore(p.AverageScore),
			formatScore(p.BayesianAverageScore),
			formatScore(p.StandardDeviation),
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "标题", "投票数", "平均得分", "贝叶斯平均得分", "标准差").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == colAverage:
				return numStyle.Foreground(scoreColor(posts[row].AverageScore))
			case col == colBayesian:
				return numStyle.Foreground(scoreColor(posts[row].BayesianAverageScore))
			case col == 1:
				return cellStyle
			default:
				return numStyle
			}
		})
	return t.Render()
}

func scoreColor(score float64) lipgloss.Color {
	return lipgloss.Color(rank.ColorForScore(score).Hex())
}

func formatScore(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
