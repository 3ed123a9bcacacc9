package service

import (
	"context"

	"reviews-web/internal/domains/review/draft"
	"reviews-web/internal/domains/review/model"
	"reviews-web/internal/domains/review/view"
)

// =====================================================
// REVIEW SERVICE INTERFACE
// =====================================================

type ServiceInterface interface {
	// ========================================
	// LIST
	// ========================================

	// Load fetches the full collection and replaces the in-memory list and vote map
	Load(ctx context.Context) error

	// Page projects the in-memory list through q, decorated for the current session
	Page(q view.Query) model.PageResponse

	// Loaded reports whether a fetch has succeeded at least once
	Loaded() bool

	// ========================================
	// VOTES & MODIFICATION
	// ========================================

	// Vote casts value on review id; rejected when voting is not allowed
	Vote(ctx context.Context, id int64, value model.VoteValue) (*model.ReviewCard, error)

	// Delete removes review id when the session may modify it
	Delete(ctx context.Context, id int64) error

	// ========================================
	// SUBMISSION
	// ========================================

	// NewDraft starts an empty create draft
	NewDraft() *draft.Draft

	// ForEdit loads the collection, finds id and returns a prefilled draft
	ForEdit(ctx context.Context, id int64) (*draft.Draft, error)

	// Submit creates or updates through d and merges the result into the list
	Submit(ctx context.Context, d *draft.Draft) (*model.Review, error)

	// Upload forwards a file to the API; a returned review is merged into the list
	Upload(ctx context.Context, filename, contentType string, data []byte) (*model.UploadResult, error)
}
