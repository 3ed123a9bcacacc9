package model

const (
	// Title limits (runes)
	MinTitleLength = 3
	MaxTitleLength = 255

	// Text limit (runes)
	MaxTextLength = 1000

	// Rating
	MinRating     = 1
	MaxRating     = 5
	DefaultRating = 5

	// Photo attachment limit: 5 MiB of raw image bytes
	MaxPhotoSize = 5 * 1024 * 1024
)

// SortKey selects the ordering of the review list
type SortKey string

const (
	SortByDate        SortKey = "date"
	SortByRating      SortKey = "rating"
	SortByMostHelpful SortKey = "mostHelpful"
)
