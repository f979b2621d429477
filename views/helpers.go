package views

import (
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/eringen/pollboard/poll"
)

// DefaultThreadURLFormat links a post id to its forum thread.
const DefaultThreadURLFormat = "https://bbs.saraba1st.com/2b/thread-%d-1-1.html"

// Paths of the dashboard pages.
const (
	PathTable = "/"
	PathViz   = "/viz/"
	PathRows  = "/rows/"
	PathPNG   = "/viz.png"
)

// ThreadURL formats the forum link for a post.
func ThreadURL(format string, id int64) string {
	if format == "" {
		format = DefaultThreadURLFormat
	}
	return fmt.Sprintf(format, id)
}

// BuildURL joins path segments onto a base URL, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// PageURL builds a dashboard link carrying the query, an optional sort and
// an optional page number (> 1).
func PageURL(p string, q poll.Query, s *poll.SortState, page int) string {
	v := q.Values()
	if s != nil {
		s.Values(v)
	}
	if page > 1 {
		v.Set("page", strconv.Itoa(page))
	}
	if len(v) == 0 {
		return p
	}
	return p + "?" + v.Encode()
}

// SortURL is the header link for field: it applies the toggle transition to
// the current sort and resets the page.
func SortURL(d DashboardData, field poll.SortField) string {
	next := poll.ToggleSort(d.Sort, field)
	return PageURL(PathTable, d.Query, &next, 0)
}

// sortDirection is the data-sort-direction marker for a header.
func sortDirection(d DashboardData, field poll.SortField) string {
	if d.Sort.Field == field {
		return string(d.Sort.Direction)
	}
	return ""
}

func formatScore(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

func formatUpdated(t time.Time) string {
	if t.IsZero() {
		return "未知"
	}
	return t.UTC().Format("2006-01-02 15:04 UTC")
}

var sortLabels = map[poll.SortField]string{
	poll.SortVotes:                "投票数",
	poll.SortAverageScore:         "平均得分",
	poll.SortBayesianAverageScore: "贝叶斯平均得分",
}

var quarterLabels = map[poll.Quarter]string{
	poll.Q1: "一季度 (1-3月)",
	poll.Q2: "二季度 (4-6月)",
	poll.Q3: "三季度 (7-9月)",
	poll.Q4: "四季度 (10-12月)",
}
