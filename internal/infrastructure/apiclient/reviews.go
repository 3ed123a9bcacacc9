package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"reviews-web/internal/domains/review/model"
	"reviews-web/pkg/apperror"
)

// ListReviews calls GET /reviews
func (c *Client) ListReviews(ctx context.Context) ([]model.Review, error) {
	resp, err := c.doJSON(ctx, http.MethodGet, "/reviews", nil, false)
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, apperror.HTTP(resp.status, "failed to fetch reviews")
	}

	var reviews []model.Review
	if err := decodeBody(resp, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// CreateReview calls POST /reviews
func (c *Client) CreateReview(ctx context.Context, form model.ReviewFormData) (*model.Review, error) {
	return c.writeReview(ctx, http.MethodPost, "/reviews", form, "failed to create review")
}

// UpdateReview calls PUT /reviews/{id}
func (c *Client) UpdateReview(ctx context.Context, id int64, form model.ReviewFormData) (*model.Review, error) {
	return c.writeReview(ctx, http.MethodPut, fmt.Sprintf("/reviews/%d", id), form, "failed to update review")
}

// DeleteReview calls DELETE /reviews/{id}; any 2xx is success, body or not
func (c *Client) DeleteReview(ctx context.Context, id int64) error {
	resp, err := c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/reviews/%d", id), nil, false)
	if err != nil {
		return err
	}
	if !resp.ok() {
		return errorFromResponse(resp, "failed to delete review")
	}
	return nil
}

// VoteReview calls POST /reviews/{id}/vote and returns the server's updated record
func (c *Client) VoteReview(ctx context.Context, id int64, value model.VoteValue) (*model.Review, error) {
	return c.writeReview(ctx, http.MethodPost, fmt.Sprintf("/reviews/%d/vote", id), model.VoteRequest{Value: value}, "failed to vote on review")
}

func (c *Client) writeReview(ctx context.Context, method, path string, body interface{}, fallback string) (*model.Review, error) {
	resp, err := c.doJSON(ctx, method, path, body, false)
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, errorFromResponse(resp, fallback)
	}

	out := &model.Review{}
	if err := decodeBody(resp, out); err != nil {
		return nil, err
	}
	return out, nil
}
