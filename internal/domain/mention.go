package domain

import "time"

// Mention is the normalized representation of one keyword hit from any source.
type Mention struct {
	Source      string    `json:"source"` // human-readable source name (e.g., "Reddit")
	Title       string    `json:"title"`
	Link        string    `json:"link"` // may be empty (e.g., text-only stories)
	PublishedAt time.Time `json:"published_at"`
	Summary     string    `json:"summary"`
}

// RunStats holds statistics about one collection run.
type RunStats struct {
	Keyword      string
	Fetched      int
	Merged       int
	SourceErrors int
	Published    int
	Duration     time.Duration
}
