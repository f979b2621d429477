package views

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/eringen/pollboard/poll"
)

// Dashboard renders the full page for either tab.
func Dashboard(d DashboardData) templ.Component {
	return Layout(d.Site, d.Meta, DashboardBody(d))
}

// DashboardBody is the page content without the shell.
func DashboardBody(d DashboardData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		parts := []templ.Component{filters(d), tabs(d), info(d)}
		switch {
		case d.Total == 0:
			parts = append(parts, NoData())
		case d.Tab == TabViz:
			parts = append(parts, Visualization(d.Site, d.Items), vizImageLink(d))
		default:
			parts = append(parts, table(d))
		}
		for _, p := range parts {
			if err := p.Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
}

func filters(d DashboardData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		action := PathTable
		if d.Tab == TabViz {
			action = PathViz
		}
		h := &htmlWriter{w: w}
		h.raw(`<form id="filters" class="filter-section" method="get"`)
		h.attr("action", action)
		h.raw(`>`)

		h.raw(`<div class="filter-item"><label for="f-year">年份：</label><select id="f-year" name="year"><option value="">全部</option>`)
		for _, y := range d.Years {
			ys := strconv.Itoa(y)
			option(h, ys, ys+"年", d.Query.Year == ys)
		}
		h.raw(`</select></div>`)

		h.raw(`<div class="filter-item"><label for="f-quarter">季度：</label><select id="f-quarter" name="quarter"><option value="">全部</option>`)
		for _, q := range poll.Quarters {
			option(h, string(q), quarterLabels[q], d.Query.Quarter == q)
		}
		h.raw(`</select></div>`)

		h.raw(`<div class="filter-item"><label for="f-month">月份：</label><select id="f-month" name="month"><option value="">全部</option>`)
		for m := 1; m <= 12; m++ {
			ms := fmt.Sprintf("%02d", m)
			option(h, ms, strconv.Itoa(m)+"月", d.Query.Month == ms)
		}
		h.raw(`</select></div>`)

		h.raw(`<div class="filter-item"><input id="f-search" class="search-input" type="search" name="q" placeholder="搜索标题"`)
		h.attr("value", d.Query.Search)
		h.raw(`></div>`)

		if d.Tab == TabTable {
			h.raw(`<input type="hidden" name="sort"`)
			h.attr("value", string(d.Sort.Field))
			h.raw(`><input type="hidden" name="dir"`)
			h.attr("value", string(d.Sort.Direction))
			h.raw(`>`)
		}
		h.raw(`<noscript><button type="submit">筛选</button></noscript></form>`)
		return h.err
	})
}

func option(h *htmlWriter, value, label string, selected bool) {
	h.raw(`<option`)
	h.attr("value", value)
	if selected {
		h.raw(` selected`)
	}
	h.raw(`>`)
	h.text(label)
	h.raw(`</option>`)
}

func tabs(d DashboardData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<nav class="tab-container">`)
		tab := func(label, href string, active bool) {
			h.raw(`<a class="tab-button`)
			if active {
				h.raw(` active`)
			}
			h.raw(`"`)
			h.attr("href", href)
			h.raw(`>`)
			h.text(label)
			h.raw(`</a>`)
		}
		tab("表格视图", PageURL(PathTable, d.Query, &d.Sort, 0), d.Tab != TabViz)
		tab("可视化", PageURL(PathViz, d.Query, nil, 0), d.Tab == TabViz)
		h.raw(`</nav>`)
		return h.err
	})
}

func info(d DashboardData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<div class="info-section">`)
		h.rawf(`共 %d 条 · 数据更新于 `, d.Total)
		h.text(formatUpdated(d.LastUpdated))
		if d.Site.SourceURL != "" {
			h.raw(` · <a class="info-link"`)
			h.attr("href", d.Site.SourceURL)
			h.raw(` target="_blank" rel="noopener noreferrer">数据来源</a>`)
		}
		if d.Query.Active() {
			h.raw(` · <a class="info-link clear-filters"`)
			h.attr("href", clearFiltersURL(d))
			h.raw(`>清除筛选</a>`)
		}
		if d.Notice != "" {
			h.raw(` · <span class="notice">`)
			h.text(d.Notice)
			h.raw(`</span>`)
		}
		h.raw(`</div>`)
		if h.err != nil {
			return h.err
		}
		return refreshForm(d.CSRFToken).Render(ctx, w)
	})
}

func table(d DashboardData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<table class="poll-table"><thead><tr><th>序号</th><th>标题</th>`)
		for _, f := range poll.SortFields {
			h.raw(`<th class="sortable"`)
			if dir := sortDirection(d, f); dir != "" {
				h.attr("data-sort-direction", dir)
			}
			h.raw(`><a`)
			h.attr("href", SortURL(d, f))
			h.raw(`>`)
			h.text(sortLabels[f])
			h.raw(`</a></th>`)
		}
		h.raw(`<th>标准差</th></tr></thead><tbody id="rows">`)
		if h.err != nil {
			return h.err
		}
		if err := Rows(d.Site, d.Rows, d.NextURL).Render(ctx, w); err != nil {
			return err
		}
		h.raw(`</tbody></table>`)
		return h.err
	})
}

// Rows renders table rows followed, when nextURL is set, by the sentinel row
// the page script swaps for the next page.
func Rows(site SiteConfig, rows []Row, nextURL string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		for _, r := range rows {
			p := r.Post
			h.rawf(`<tr class="table-row"><td>%d</td><td><a class="movie-link"`, r.Index)
			h.attr("href", ThreadURL(site.ThreadURLFormat, p.ID))
			h.raw(` target="_blank" rel="noopener noreferrer">`)
			h.text(p.Subject)
			h.rawf(`</a></td><td>%d</td><td>%s</td><td>%s</td><td>%s</td></tr>`,
				p.Votes, formatScore(p.AverageScore), formatScore(p.BayesianAverageScore), formatScore(p.StandardDeviation))
		}
		if nextURL != "" {
			h.raw(`<tr class="more"`)
			h.attr("data-next", nextURL)
			h.raw(`><td colspan="6"><a`)
			h.attr("href", nextURL)
			h.raw(`>加载更多…</a></td></tr>`)
		}
		return h.err
	})
}

// clearFiltersURL is the current tab without filters, keeping the table sort.
func clearFiltersURL(d DashboardData) string {
	if d.Tab == TabViz {
		return PathViz
	}
	return PageURL(PathTable, poll.Query{}, &d.Sort, 0)
}
