package poll

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrInvalidSortField is returned for a sort key outside SortField.
	ErrInvalidSortField = errors.New("poll: invalid sort field")
	// ErrInvalidDirection is returned for a direction other than asc/desc.
	ErrInvalidDirection = errors.New("poll: invalid sort direction")
)

// SortField names a sortable numeric column.
type SortField string

const (
	SortVotes                SortField = "votes"
	SortAverageScore         SortField = "average_score"
	SortBayesianAverageScore SortField = "bayesian_average_score"
)

// SortFields lists the sortable columns in table order.
var SortFields = []SortField{SortVotes, SortAverageScore, SortBayesianAverageScore}

// ParseSortField validates a column name.
func ParseSortField(s string) (SortField, error) {
	switch f := SortField(s); f {
	case SortVotes, SortAverageScore, SortBayesianAverageScore:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSortField, s)
	}
}

// Value returns the post's value for the column.
func (f SortField) Value(p Post) float64 {
	switch f {
	case SortVotes:
		return float64(p.Votes)
	case SortAverageScore:
		return p.AverageScore
	case SortBayesianAverageScore:
		return p.BayesianAverageScore
	}
	panic(fmt.Sprintf("poll: unknown sort field %q", string(f)))
}

// Direction is the sort order.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection validates a direction.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(s); d {
	case Asc, Desc:
		return d, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
	}
}

// SortState is the active table ordering.
type SortState struct {
	Field     SortField
	Direction Direction
}

// DefaultSort orders by Bayesian average, highest first.
func DefaultSort() SortState {
	return SortState{Field: SortBayesianAverageScore, Direction: Desc}
}

// Sort returns a copy of posts ordered by s. The sort is stable, so posts
// with equal keys keep their input order.
func Sort(posts []Post, s SortState) []Post {
	out := make([]Post, len(posts))
	copy(out, posts)
	desc := s.Direction == Desc
	sort.SliceStable(out, func(i, j int) bool {
		a, b := s.Field.Value(out[i]), s.Field.Value(out[j])
		if desc {
			return a > b
		}
		return a < b
	})
	return out
}

// ToggleSort is the header-click transition: the same column flips
// desc -> asc, anything else starts at desc.
func ToggleSort(current SortState, field SortField) SortState {
	if current.Field == field && current.Direction == Desc {
		return SortState{Field: field, Direction: Asc}
	}
	return SortState{Field: field, Direction: Desc}
}
