package model

import "time"

// Review is one user's rating of one entry. At most one per (EntryID, AuthorID).
type Review struct {
	EntryID   int64     `json:"entry_id"`
	AuthorID  int64     `json:"author_id"`
	Score     int       `json:"score"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
