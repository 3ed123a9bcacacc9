package model

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Validation messages
const (
	MsgTitleRequired    = "title is required"
	MsgTitleTooShort    = "title too short"
	MsgTitleTooLong     = "title too long"
	MsgTextTooLong      = "text too long"
	MsgRatingOutOfRange = "rating must be between 1 and 5"
	MsgPhotoTooLarge    = "photo must be smaller than 5MB"
	MsgPhotoNotImage    = "please upload an image file"
	MsgPhotoEncoding    = "photo could not be read"
)

// =====================================================
// REQUEST DTOs (sent to the API)
// =====================================================

// ReviewFormData is the create/update payload
type ReviewFormData struct {
	Title            string `json:"title"`
	Text             string `json:"text"`
	Rating           int    `json:"rating"`
	PhotoBase64      string `json:"photoBase64,omitempty"`
	PhotoContentType string `json:"photoContentType,omitempty"`
}

// Validate enforces the submission limits. Stored reviews are not assumed to satisfy them.
func (f ReviewFormData) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Title,
			validation.By(notBlank(MsgTitleRequired)),
			validation.RuneLength(MinTitleLength, 0).Error(MsgTitleTooShort),
			validation.RuneLength(0, MaxTitleLength).Error(MsgTitleTooLong),
		),
		validation.Field(&f.Text,
			validation.RuneLength(0, MaxTextLength).Error(MsgTextTooLong),
		),
		validation.Field(&f.Rating,
			validation.Min(MinRating).Error(MsgRatingOutOfRange),
			validation.Max(MaxRating).Error(MsgRatingOutOfRange),
		),
	)
}

func notBlank(message string) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if strings.TrimSpace(s) == "" {
			return errors.New(message)
		}
		return nil
	}
}

// VoteRequest is the vote payload
type VoteRequest struct {
	Value VoteValue `json:"value"`
}

// =====================================================
// LOCAL PAGE DTOs (served by the web client)
// =====================================================

// ListQuery binds the list controls from the query string
type ListQuery struct {
	Search string `form:"search"`
	Rating int    `form:"rating"` // 0 = all ratings
	Sort   string `form:"sort"`
}

// ReviewCard is a review decorated with what the current session may do with it
type ReviewCard struct {
	Review
	PhotoURL    string     `json:"photoUrl,omitempty"`
	Helpfulness int        `json:"helpfulness"`
	CanModify   bool       `json:"canModify"`
	CanVote     bool       `json:"canVote"`
	VotedValue  *VoteValue `json:"votedValue,omitempty"`
}

// PageResponse is the home page payload
type PageResponse struct {
	Reviews []ReviewCard `json:"reviews"`
	Total   int          `json:"total"`   // size of the in-memory list
	Matched int          `json:"matched"` // size after filtering
	Search  string       `json:"search"`
	Rating  int          `json:"rating"`
	Sort    SortKey      `json:"sort"`
}

// VoteInput binds the local vote endpoint body
type VoteInput struct {
	Value int `json:"value" form:"value"`
}

// UploadResult is what POST /upload answers with: either {url} or a review record
type UploadResult struct {
	URL    string  `json:"url,omitempty"`
	Review *Review `json:"review,omitempty"`
}
