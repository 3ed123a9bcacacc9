package model

import (
	"errors"
)

// Error codes
const (
	ErrCodeReviewNotFound   = "REV001"
	ErrCodeAlreadyVoted     = "REV002"
	ErrCodeNotAuthenticated = "REV003"
	ErrCodeForbidden        = "REV004"
	ErrCodeNotEditable      = "REV005"
	ErrCodeInvalidVote      = "REV006"
	ErrCodeNotLoaded        = "REV007"
)

// Errors
var (
	ErrReviewNotFound   = errors.New("review not found")
	ErrAlreadyVoted     = errors.New("already voted on this review")
	ErrNotAuthenticated = errors.New("login required")
	ErrForbidden        = errors.New("you do not have permission to edit this review")
	ErrNotEditable      = errors.New("draft is not editable")
	ErrInvalidVote      = errors.New("vote value must be 1 or -1")
	ErrNotLoaded        = errors.New("reviews not loaded")
)

// Code returns the error code for a review sentinel, "" otherwise
func Code(err error) string {
	switch {
	case errors.Is(err, ErrReviewNotFound):
		return ErrCodeReviewNotFound
	case errors.Is(err, ErrAlreadyVoted):
		return ErrCodeAlreadyVoted
	case errors.Is(err, ErrNotAuthenticated):
		return ErrCodeNotAuthenticated
	case errors.Is(err, ErrForbidden):
		return ErrCodeForbidden
	case errors.Is(err, ErrNotEditable):
		return ErrCodeNotEditable
	case errors.Is(err, ErrInvalidVote):
		return ErrCodeInvalidVote
	case errors.Is(err, ErrNotLoaded):
		return ErrCodeNotLoaded
	default:
		return ""
	}
}
