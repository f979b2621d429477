package poll

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// ErrInvalidQuarter is returned when a quarter key is not one of Q1..Q4.
var ErrInvalidQuarter = errors.New("poll: invalid quarter")

// ErrInvalidMonth is returned when a month filter is not 01..12.
var ErrInvalidMonth = errors.New("poll: invalid month")

// Quarter is a calendar quarter key. The zero value means "any quarter".
type Quarter string

const (
	Q1 Quarter = "Q1"
	Q2 Quarter = "Q2"
	Q3 Quarter = "Q3"
	Q4 Quarter = "Q4"
)

// Quarters lists the quarter keys in calendar order.
var Quarters = []Quarter{Q1, Q2, Q3, Q4}

// ParseQuarter accepts "" (unset) or Q1..Q4.
func ParseQuarter(s string) (Quarter, error) {
	switch q := Quarter(strings.ToUpper(strings.TrimSpace(s))); q {
	case "", Q1, Q2, Q3, Q4:
		return q, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidQuarter, s)
	}
}

// Contains reports whether month (1-12) falls in the quarter.
func (q Quarter) Contains(month int) bool {
	first := q.firstMonth()
	return month >= first && month < first+3
}

func (q Quarter) firstMonth() int {
	switch q {
	case Q1:
		return 1
	case Q2:
		return 4
	case Q3:
		return 7
	case Q4:
		return 10
	}
	panic(fmt.Sprintf("poll: unknown quarter %q", string(q)))
}

// Query selects a subset of posts. Search and the date fields are mutually
// exclusive: when Search is non-empty Filter ignores Year, Quarter and Month.
type Query struct {
	Year    string
	Quarter Quarter
	Month   string // zero-padded, "01".."12"
	Search  string
}

// Normalize trims the search term and clears the date filters when a
// search is active, the way the dashboard does when the user types.
func (q Query) Normalize() Query {
	q.Search = strings.TrimSpace(q.Search)
	q.Year = strings.TrimSpace(q.Year)
	q.Month = strings.TrimSpace(q.Month)
	if q.Search != "" {
		q.Year, q.Quarter, q.Month = "", "", ""
	}
	return q
}

// Active reports whether any filter is set.
func (q Query) Active() bool {
	return strings.TrimSpace(q.Search) != "" || q.Year != "" || q.Quarter != "" || q.Month != ""
}

// Filter returns the posts matching q in their original order.
//
// A non-empty (trimmed) search term is a case-insensitive substring match on
// the subject and overrides every date filter. Otherwise posts without a
// date tag are dropped and the year, quarter and month filters are ANDed.
func Filter(posts []Post, q Query) []Post {
	out := make([]Post, 0, len(posts))
	if term := strings.TrimSpace(q.Search); term != "" {
		fold := cases.Fold()
		needle := fold.String(term)
		for _, p := range posts {
			if strings.Contains(fold.String(p.Subject), needle) {
				out = append(out, p)
			}
		}
		return out
	}

	month := 0
	if q.Month != "" {
		// An unparsable month matches nothing rather than everything.
		m, err := strconv.Atoi(q.Month)
		if err != nil {
			return out
		}
		month = m
	}
	for _, p := range posts {
		tag, ok := ParseDateTag(p.Subject)
		if !ok {
			continue
		}
		if q.Year != "" && tag.Year != q.Year {
			continue
		}
		if q.Quarter != "" && !q.Quarter.Contains(tag.Month) {
			continue
		}
		if q.Month != "" && tag.Month != month {
			continue
		}
		out = append(out, p)
	}
	return out
}
