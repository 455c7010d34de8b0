package models

// SearchHit is one published article matching a search query.
type SearchHit struct {
	ArticleID string   `json:"article_id"`
	Slug      string   `json:"slug"`
	Title     string   `json:"title"`
	Score     float64  `json:"score"`
	Fragments []string `json:"fragments,omitempty"`
}

// SearchResults is a page of hits for a query.
type SearchResults struct {
	Query string      `json:"query"`
	Total uint64      `json:"total"`
	Hits  []SearchHit `json:"hits"`
}
