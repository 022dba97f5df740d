package hackernews

// SearchResponse represents the Algolia search API response structure.
type SearchResponse struct {
	Hits []Hit `json:"hits"`
}

type Hit struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	CreatedAt string `json:"created_at"`
	StoryText string `json:"story_text"`
}
