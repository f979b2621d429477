package views

import (
	"time"

	"github.com/eringen/pollboard/paging"
	"github.com/eringen/pollboard/poll"
	"github.com/eringen/pollboard/rank"
)

// SiteConfig holds the site-wide settings templates need. Every handler
// passes it down so nothing is hardcoded.
type SiteConfig struct {
	Name            string // POLLBOARD_NAME
	URL             string // POLLBOARD_URL
	Description     string // POLLBOARD_DESCRIPTION
	SourceURL       string // feed address, linked from the info line
	ThreadURLFormat string // printf format taking the post id
}

// PageMeta carries per-page metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical
}

// Tab is the active dashboard view.
type Tab string

const (
	TabTable Tab = "table"
	TabViz   Tab = "viz"
)

// Row is one table row with its 1-based position in the sorted result.
type Row struct {
	Index int
	Post  poll.Post
}

// DashboardData is everything the dashboard page renders.
type DashboardData struct {
	Site        SiteConfig
	Meta        PageMeta
	Tab         Tab
	Query       poll.Query
	Sort        poll.SortState
	Years       []int
	Rows        []Row
	Paging      paging.State
	NextURL     string // rows partial for the next page, empty when exhausted
	Items       []rank.Item
	Total       int
	LastUpdated time.Time
	CSRFToken   string
	Notice      string
}
