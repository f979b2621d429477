// Package paging reveals a sorted result set a page at a time. A State is
// only meaningful for one filtered and sorted ordering; reset it whenever
// the query or sort changes.
package paging

import "math"

// DefaultPageSize is the number of rows revealed per page.
const DefaultPageSize = 100

// State is the reveal cursor. HasMore is derived and recomputed on every
// transition, never trusted from a client.
type State struct {
	Page     int  `json:"page"`
	PageSize int  `json:"page_size"`
	HasMore  bool `json:"has_more"`
}

// Reset returns the first page at the default size.
func Reset() State {
	return New(DefaultPageSize)
}

// New returns the first page for pageSize; non-positive sizes fall back to
// DefaultPageSize.
func New(pageSize int) State {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return State{Page: 1, PageSize: pageSize, HasMore: true}
}

// At rebuilds the state for a page number, e.g. one sent by a client. Pages
// past the one that reveals the last item are clamped to it.
func At(page, pageSize, total int) State {
	st := New(pageSize)
	if page > 1 {
		st.Page = page
	}
	if total < 0 {
		total = 0
	}
	if last := total/st.PageSize + 1; st.Page > last {
		st.Page = last
	}
	st.HasMore = st.end() < total
	return st
}

// Advance moves to the next page.
func Advance(st State, total int) State {
	if st.Page < math.MaxInt {
		st.Page++
	}
	st.HasMore = st.end() < total
	return st
}

// Page returns everything revealed so far: the first Page*PageSize items,
// or fewer when items is shorter.
func Page[T any](items []T, st State) []T {
	end := st.end()
	if end > len(items) {
		end = len(items)
	}
	return items[:end:end]
}

// Window returns only the items revealed by st.Page itself.
func Window[T any](items []T, st State) []T {
	start := 0
	if st.Page > 1 && st.PageSize > 0 {
		start = len(items)
		if st.Page-1 <= len(items)/st.PageSize {
			start = min((st.Page-1)*st.PageSize, len(items))
		}
	}
	end := st.end()
	if end > len(items) {
		end = len(items)
	}
	return items[start:end:end]
}

func (st State) end() int {
	if st.Page < 1 || st.PageSize < 1 {
		return 0
	}
	if st.Page > math.MaxInt/st.PageSize {
		return math.MaxInt
	}
	return st.Page * st.PageSize
}
