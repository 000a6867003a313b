package model

import "time"

// Entry represents one music release in the catalog.
// This is a pure domain model with no database-specific dependencies or tags.
type Entry struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Year        int       `json:"year"`
	Label       string    `json:"label"`
	Author      string    `json:"author"`
	Pages       int       `json:"pages"`
	AssetID     *int64    `json:"asset_id,omitempty"`
	Cover       *Asset    `json:"cover,omitempty"`
	Tags        []Tag     `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
}

// EntryFields are the editable fields of an Entry as submitted by a form.
type EntryFields struct {
	Title       string
	Description string
	Year        int
	Label       string
	Author      string
	Pages       int
	TagIDs      []int64
}

// Apply copies the editable fields onto e. The asset reference is left untouched.
func (f EntryFields) Apply(e *Entry) {
	e.Title = f.Title
	e.Description = f.Description
	e.Year = f.Year
	e.Label = f.Label
	e.Author = f.Author
	e.Pages = f.Pages
}

// Tag is a style label attached to entries.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
