// Package poll holds the poll feed data model and the query engine that
// filters and sorts it. Every function is a pure projection of its inputs:
// posts are never mutated and results are always fresh slices.
package poll

import "time"

// Post is one poll thread with its vote statistics, as served by the feed.
type Post struct {
	ID                   int64   `json:"id"`
	Subject              string  `json:"subject"`
	Created              int64   `json:"created"`
	LastUpdated          int64   `json:"last_updated"`
	Views                int64   `json:"views"`
	Replies              int64   `json:"replies"`
	Scores               float64 `json:"scores"`
	Votes                int64   `json:"votes"`
	StandardDeviation    float64 `json:"standard_deviation"`
	AverageScore         float64 `json:"average_score"`
	BayesianAverageScore float64 `json:"bayesian_average_score"`
}

// CreatedAt returns the thread creation time.
func (p Post) CreatedAt() time.Time {
	return time.Unix(p.Created, 0).UTC()
}

// Snapshot is one load of the feed.
type Snapshot struct {
	Posts       []Post
	LastUpdated time.Time
}
