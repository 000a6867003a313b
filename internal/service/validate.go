package service

import (
	"slices"
	"strings"

	"catalogapi/internal/model"
)

// Form placeholders. Submitting one unchanged counts as leaving the field empty.
const (
	DescriptionPlaceholder = "Short description"
	ReviewPlaceholder      = "Write your review"
)

const (
	MinScore = 0
	MaxScore = 5

	MaxYear = 9999

	defaultPageSize = 10
)

// normalizeFields trims text fields and drops duplicate tag IDs.
func normalizeFields(f model.EntryFields) model.EntryFields {
	f.Title = strings.TrimSpace(f.Title)
	f.Description = strings.TrimSpace(f.Description)
	f.Label = strings.TrimSpace(f.Label)
	f.Author = strings.TrimSpace(f.Author)

	ids := make([]int64, 0, len(f.TagIDs))
	for _, id := range f.TagIDs {
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	f.TagIDs = ids
	return f
}

func validateFields(f model.EntryFields) error {
	var missing []string
	if f.Title == "" {
		missing = append(missing, "title")
	}
	if len(f.TagIDs) == 0 {
		missing = append(missing, "tags")
	}
	if f.Year <= 0 || f.Year > MaxYear {
		missing = append(missing, "year")
	}
	if f.Label == "" {
		missing = append(missing, "label")
	}
	if f.Author == "" {
		missing = append(missing, "author")
	}
	if f.Pages <= 0 {
		missing = append(missing, "pages")
	}
	if f.Description == "" || f.Description == DescriptionPlaceholder {
		missing = append(missing, "description")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing, Reason: "please fill in all fields"}
	}
	return nil
}

func validateReview(score int, text string) error {
	var bad []string
	if score < MinScore || score > MaxScore {
		bad = append(bad, "score")
	}
	if text == "" || text == ReviewPlaceholder {
		bad = append(bad, "text")
	}
	if len(bad) > 0 {
		return &ValidationError{Fields: bad, Reason: "please fill in all fields"}
	}
	return nil
}
