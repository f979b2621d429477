package poll

import (
	"sort"
	"time"
)

// ExtractYears returns the distinct years found in leading "[YYYY." tags,
// most recent first. When no post carries a year the result is the current
// calendar year alone; that value is a placeholder, not data.
func ExtractYears(posts []Post) []int {
	return ExtractYearsAt(posts, time.Now())
}

// ExtractYearsAt is ExtractYears with an explicit clock for the fallback.
func ExtractYearsAt(posts []Post, now time.Time) []int {
	seen := make(map[int]struct{})
	var years []int
	for _, p := range posts {
		y, ok := LeadingYear(p.Subject)
		if !ok {
			continue
		}
		if _, dup := seen[y]; dup {
			continue
		}
		seen[y] = struct{}{}
		years = append(years, y)
	}
	if len(years) == 0 {
		return []int{now.Year()}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}
