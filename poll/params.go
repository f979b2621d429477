package poll

import (
	"fmt"
	"net/url"
	"strconv"
)

// Query string keys shared by the dashboard links and the JSON API.
const (
	ParamYear    = "year"
	ParamQuarter = "quarter"
	ParamMonth   = "month"
	ParamSearch  = "q"
	ParamSort    = "sort"
	ParamDir     = "dir"
)

// ParseQuery reads a Query from URL values and normalizes it.
func ParseQuery(v url.Values) (Query, error) {
	quarter, err := ParseQuarter(v.Get(ParamQuarter))
	if err != nil {
		return Query{}, err
	}
	q := Query{
		Year:    v.Get(ParamYear),
		Quarter: quarter,
		Month:   v.Get(ParamMonth),
		Search:  v.Get(ParamSearch),
	}.Normalize()
	if q.Month != "" {
		m, err := strconv.Atoi(q.Month)
		if err != nil || m < 1 || m > 12 {
			return Query{}, fmt.Errorf("%w: %q", ErrInvalidMonth, q.Month)
		}
		q.Month = fmt.Sprintf("%02d", m)
	}
	return q, nil
}

// Values encodes q, omitting unset fields.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set(ParamSearch, q.Search)
	}
	if q.Year != "" {
		v.Set(ParamYear, q.Year)
	}
	if q.Quarter != "" {
		v.Set(ParamQuarter, string(q.Quarter))
	}
	if q.Month != "" {
		v.Set(ParamMonth, q.Month)
	}
	return v
}

// ParseSort reads a SortState from URL values. ok is false when neither key
// is present, so callers can fall back to a remembered or default state.
func ParseSort(v url.Values) (s SortState, ok bool, err error) {
	rawField, rawDir := v.Get(ParamSort), v.Get(ParamDir)
	if rawField == "" && rawDir == "" {
		return DefaultSort(), false, nil
	}
	s = DefaultSort()
	if rawField != "" {
		if s.Field, err = ParseSortField(rawField); err != nil {
			return SortState{}, false, err
		}
	}
	if rawDir != "" {
		if s.Direction, err = ParseDirection(rawDir); err != nil {
			return SortState{}, false, err
		}
	}
	return s, true, nil
}

// Values encodes s into v.
func (s SortState) Values(v url.Values) url.Values {
	if v == nil {
		v = url.Values{}
	}
	v.Set(ParamSort, string(s.Field))
	v.Set(ParamDir, string(s.Direction))
	return v
}
