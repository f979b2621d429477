package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Layout wraps body in the page shell.
func Layout(site SiteConfig, meta PageMeta, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		title := meta.Title
		if title == "" {
			title = site.Name
		}
		desc := meta.Description
		if desc == "" {
			desc = site.Description
		}

		h := &htmlWriter{w: w}
		h.raw(`<!doctype html><html lang="zh-CN"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(title)
		h.raw(`</title>`)
		if desc != "" {
			h.raw(`<meta name="description"`)
			h.attr("content", desc)
			h.raw(`>`)
		}
		if meta.URL != "" {
			h.raw(`<link rel="canonical"`)
			h.attr("href", meta.URL)
			h.raw(`>`)
		}
		h.raw(`<link rel="stylesheet" href="/public/dashboard.css">`)
		h.raw(`<link rel="alternate" type="application/rss+xml" href="/feed.xml"`)
		h.attr("title", site.Name)
		h.raw(`></head><body><main class="container">`)
		if h.err != nil {
			return h.err
		}
		if body != nil {
			if err := body.Render(ctx, w); err != nil {
				return err
			}
		}
		h.raw(`</main><button id="scroll-top" class="scroll-top" type="button" aria-label="返回顶部">↑</button>`)
		h.raw(`<script src="/public/dashboard.js" defer></script></body></html>`)
		return h.err
	})
}

func message(class, text string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<div class="` + class + `">`)
		h.text(text)
		h.raw(`</div>`)
		return h.err
	})
}

// NoData is shown when the filters leave nothing to display.
func NoData() templ.Component {
	return message("error-message", "No data available for the selected filters")
}

// Loading is the page served while the first feed load is in flight. It
// reloads itself every few seconds.
func Loading(site SiteConfig) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<!doctype html><html lang="zh-CN"><head><meta charset="utf-8">`)
		h.raw(`<meta http-equiv="refresh" content="3"><title>`)
		h.text(site.Name)
		h.raw(`</title><link rel="stylesheet" href="/public/dashboard.css"></head><body><main class="container">`)
		if h.err != nil {
			return h.err
		}
		if err := message("loading-message", "Loading...").Render(ctx, w); err != nil {
			return err
		}
		h.raw(`</main></body></html>`)
		return h.err
	})
}

// LoadFailed is served when the feed could not be loaded.
func LoadFailed(site SiteConfig, csrfToken string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := message("error-message", "Failed to load data").Render(ctx, w); err != nil {
			return err
		}
		return refreshForm(csrfToken).Render(ctx, w)
	})
	return Layout(site, PageMeta{Title: site.Name}, body)
}

// NotFound renders the 404 page.
func NotFound(site SiteConfig) templ.Component {
	return Layout(site, PageMeta{Title: "Not Found · " + site.Name}, message("error-message", "Page not found"))
}

// ServerError renders the 5xx page.
func ServerError(site SiteConfig) templ.Component {
	return Layout(site, PageMeta{Title: "Error · " + site.Name}, message("error-message", "Something went wrong"))
}

func refreshForm(csrfToken string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<form class="refresh" method="post" action="/refresh/"><input type="hidden" name="_csrf"`)
		h.attr("value", csrfToken)
		h.raw(`><button type="submit">刷新数据</button></form>`)
		return h.err
	})
}
