// Package view derives the displayed review list from the in-memory collection.
// Nothing here keeps state: every call starts from the full list.
package view

import (
	"slices"
	"strings"

	"reviews-web/internal/domains/review/model"
)

// Query holds the three list controls
type Query struct {
	Search string
	Rating int // 0 = no rating filter
	Sort   model.SortKey
}

// ParseSort maps a query-string value onto a sort key, defaulting to date
func ParseSort(s string) model.SortKey {
	switch model.SortKey(s) {
	case model.SortByRating:
		return model.SortByRating
	case model.SortByMostHelpful:
		return model.SortByMostHelpful
	default:
		return model.SortByDate
	}
}

// FromListQuery converts bound query params into a Query
func FromListQuery(q model.ListQuery) Query {
	rating := q.Rating
	if rating < model.MinRating || rating > model.MaxRating {
		rating = 0
	}
	return Query{
		Search: q.Search,
		Rating: rating,
		Sort:   ParseSort(q.Sort),
	}
}

// Apply filters and orders reviews. The input slice is never modified.
func Apply(reviews []model.Review, q Query) []model.Review {
	out := make([]model.Review, 0, len(reviews))
	for _, r := range reviews {
		if Matches(r, q) {
			out = append(out, r)
		}
	}

	if cmp := comparator(q.Sort); cmp != nil {
		slices.SortStableFunc(out, cmp)
	}
	return out
}

// Matches reports whether r passes both the rating filter and the search term
func Matches(r model.Review, q Query) bool {
	if q.Rating != 0 && r.Rating != q.Rating {
		return false
	}

	if strings.TrimSpace(q.Search) == "" {
		return true
	}

	term := strings.ToLower(q.Search)
	return strings.Contains(strings.ToLower(r.Title), term) ||
		strings.Contains(strings.ToLower(r.Text), term) ||
		strings.Contains(strings.ToLower(r.Author.Username), term)
}

// comparator returns a descending comparator for key, nil for unknown keys
func comparator(key model.SortKey) func(a, b model.Review) int {
	switch key {
	case model.SortByDate:
		return func(a, b model.Review) int {
			return b.CreatedAt.Time.Compare(a.CreatedAt.Time)
		}
	case model.SortByRating:
		return func(a, b model.Review) int {
			return b.Rating - a.Rating
		}
	case model.SortByMostHelpful:
		return func(a, b model.Review) int {
			return b.Helpfulness() - a.Helpfulness()
		}
	default:
		return nil
	}
}
