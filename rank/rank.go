// Package rank picks the most voted posts for the visualization view and
// derives each one's visual weight: font size by rank, color by score and a
// short display title.
package rank

import (
	"math"
	"sort"

	"github.com/eringen/pollboard/poll"
)

// DefaultLimit is how many posts the visualization shows.
const DefaultLimit = 75

// decay is the e-folding distance, in ranks, of the font size curve.
const decay = 25.0

// Tier is a set of font sizes for one layout mode.
type Tier struct {
	First int // rank 0
	Max   int // rank 1, start of the decay curve
	Min   int // floor
}

var (
	NormalTier  = Tier{First: 64, Max: 48, Min: 12}
	CompactTier = Tier{First: 48, Max: 32, Min: 10}
)

// Select returns up to limit posts ordered by votes, highest first. Ties keep
// their input order. The active table sort plays no part.
func Select(posts []poll.Post, limit int) []poll.Post {
	if limit <= 0 {
		return []poll.Post{}
	}
	out := make([]poll.Post, len(posts))
	copy(out, posts)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Votes > out[j].Votes
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// FontSize is the pixel size for a 0-based rank.
func FontSize(rank int, compact bool) int {
	tier := NormalTier
	if compact {
		tier = CompactTier
	}
	return tier.Size(rank)
}

// Size applies the tier to a 0-based rank. Rank 0 gets First verbatim; from
// rank 1 the size decays exponentially from Max and never drops below Min.
func (t Tier) Size(rank int) int {
	if rank <= 0 {
		return t.First
	}
	size := roundHalfUp(float64(t.Max) * math.Exp(-float64(rank-1)/decay))
	if size < t.Min {
		return t.Min
	}
	return size
}

func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

// Item is one word of the visualization.
type Item struct {
	Post        poll.Post
	Rank        int
	Title       string
	FontSize    int
	CompactSize int
	Color       RGB
}

// Items selects the top posts and decorates them for display.
func Items(posts []poll.Post, limit int) []Item {
	top := Select(posts, limit)
	items := make([]Item, 0, len(top))
	for i, p := range top {
		items = append(items, Item{
			Post:        p,
			Rank:        i,
			Title:       DisplayTitle(p.Subject),
			FontSize:    FontSize(i, false),
			CompactSize: FontSize(i, true),
			Color:       ColorForScore(p.AverageScore),
		})
	}
	return items
}
