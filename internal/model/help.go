package model

import "time"

type FAQ struct {
	ID         string    `db:"id" json:"id"`
	Question   string    `db:"question" json:"question"`
	Answer     string    `db:"answer" json:"answer"`
	Category   string    `db:"category" json:"category"`
	OrderIndex int       `db:"order_index" json:"order_index"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

type Tutorial struct {
	ID              string    `db:"id" json:"id"`
	Title           string    `db:"title" json:"title"`
	Description     *string   `db:"description" json:"description,omitempty"`
	VideoURL        string    `db:"video_url" json:"video_url"`
	ThumbnailURL    *string   `db:"thumbnail_url" json:"thumbnail_url,omitempty"`
	Category        string    `db:"category" json:"category"`
	DurationMinutes *int      `db:"duration_minutes" json:"duration_minutes,omitempty"`
	OrderIndex      int       `db:"order_index" json:"order_index"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// SearchResult is one row of the search_all database function.
type SearchResult struct {
	ID               string    `db:"id" json:"id"`
	Type             string    `db:"type" json:"type"`
	Title            string    `db:"title" json:"title"`
	Subtitle         string    `db:"subtitle" json:"subtitle"`
	URL              string    `db:"url" json:"url"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	RelevanceScore   float64   `db:"relevance_score" json:"relevance_score"`
	SearchHighlights *string   `db:"search_highlights" json:"search_highlights,omitempty"`
}
