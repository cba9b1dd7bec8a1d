package model

// NewsArticle is one remapped headline. ID is the 1-based position in the
// upstream list and is not stable across requests.
type NewsArticle struct {
	ID          int     `json:"id"`
	Title       *string `json:"title"`
	Summary     *string `json:"summary"`
	Source      *string `json:"source"`
	PublishedAt *string `json:"publishedAt"`
	URL         *string `json:"url"`
}

type NewsResponse struct {
	Articles []NewsArticle `json:"articles"`
}
