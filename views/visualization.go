package views

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/eringen/pollboard/rank"
)

// Visualization renders the ranked titles. Each word carries both font
// tiers; the stylesheet switches to the compact one on narrow screens.
func Visualization(site SiteConfig, items []rank.Item) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<div class="visualization-container">`)
		for _, it := range items {
			h.raw(`<a class="movie-title"`)
			h.attr("href", ThreadURL(site.ThreadURLFormat, it.Post.ID))
			h.raw(` target="_blank" rel="noopener noreferrer"`)
			h.attr("title", fmt.Sprintf("投票数: %d, 平均分: %s", it.Post.Votes, formatScore(it.Post.AverageScore)))
			h.attr("style", fmt.Sprintf("--fs:%dpx;--fs-compact:%dpx;--delay:%.2fs;color:%s",
				it.FontSize, it.CompactSize, float64(it.Rank)*0.03, it.Color.CSS()))
			h.raw(`>`)
			h.text(it.Title)
			h.raw(`</a>`)
		}
		h.raw(`</div>`)
		return h.err
	})
}

func vizImageLink(d DashboardData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<p class="viz-image"><a`)
		h.attr("href", PageURL(PathPNG, d.Query, nil, 0))
		h.raw(`>下载图片</a></p>`)
		return h.err
	})
}
