package repository

import (
	"context"

	"reviews-web/internal/domains/review/model"
)

// =====================================================
// REVIEW REPOSITORY INTERFACE
// =====================================================

// ReviewRepository is the remote review API. Every call goes to the server;
// nothing is cached at this layer.
type ReviewRepository interface {
	// ListReviews fetches the full collection
	ListReviews(ctx context.Context) ([]model.Review, error)

	// CreateReview submits a new review and returns the stored record
	CreateReview(ctx context.Context, form model.ReviewFormData) (*model.Review, error)

	// UpdateReview replaces an existing review's fields
	UpdateReview(ctx context.Context, id int64, form model.ReviewFormData) (*model.Review, error)

	// DeleteReview removes a review
	DeleteReview(ctx context.Context, id int64) error

	// VoteReview casts a vote and returns the server's updated record
	VoteReview(ctx context.Context, id int64, value model.VoteValue) (*model.Review, error)
}

// Uploader forwards a file to the remote upload endpoint
type Uploader interface {
	UploadFile(ctx context.Context, filename, contentType string, data []byte) (*model.UploadResult, error)
}
