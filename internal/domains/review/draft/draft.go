// Package draft implements the review submission flow: a single in-progress
// edit moving through Editing → Validating → Submitting → Succeeded, falling
// back to Editing on any failure.
package draft

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog/log"

	"reviews-web/internal/domains/review/model"
	"reviews-web/pkg/apperror"
)

// State of a draft
type State string

const (
	StateEditing    State = "editing"
	StateValidating State = "validating"
	StateSubmitting State = "submitting"
	StateSucceeded  State = "succeeded"
)

// Submitter persists a validated draft
type Submitter interface {
	CreateReview(ctx context.Context, form model.ReviewFormData) (*model.Review, error)
	UpdateReview(ctx context.Context, id int64, form model.ReviewFormData) (*model.Review, error)
}

// Draft is an in-progress, not-yet-submitted review edit
type Draft struct {
	mu sync.Mutex

	reviewID int64 // 0 = create
	form     model.ReviewFormData
	state    State

	photoErr string            // survives until a photo is attached or cleared
	errors   map[string]string // result of the last validation
	lastErr  error             // last submission failure
}

// Snapshot is a copy of the draft suitable for rendering
type Snapshot struct {
	ReviewID int64                `json:"reviewId,omitempty"`
	State    State                `json:"state"`
	Form     model.ReviewFormData `json:"form"`
	Errors   map[string]string    `json:"errors,omitempty"`
	Error    string               `json:"error,omitempty"`
}

// New returns an empty draft for a new review
func New() *Draft {
	return &Draft{
		form:  model.ReviewFormData{Rating: model.DefaultRating},
		state: StateEditing,
	}
}

// FromReview returns a draft prefilled from an existing review, photo included
func FromReview(r model.Review) *Draft {
	rating := r.Rating
	if rating == 0 {
		rating = model.DefaultRating
	}
	return &Draft{
		reviewID: r.ID,
		form: model.ReviewFormData{
			Title:            r.Title,
			Text:             r.Text,
			Rating:           rating,
			PhotoBase64:      r.PhotoBase64,
			PhotoContentType: r.PhotoContentType,
		},
		state: StateEditing,
	}
}

// =====================================================
// EDITING
// =====================================================

func (d *Draft) edit(fn func()) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state != StateEditing {
		return model.ErrNotEditable
	}
	fn()
	return nil
}

// SetTitle replaces the title without validating it
func (d *Draft) SetTitle(title string) error {
	return d.edit(func() { d.form.Title = title })
}

// SetText replaces the text without validating it
func (d *Draft) SetText(text string) error {
	return d.edit(func() { d.form.Text = text })
}

// SetRating replaces the rating; 0 means unset
func (d *Draft) SetRating(rating int) error {
	return d.edit(func() { d.form.Rating = rating })
}

// ClearPhoto removes any attached photo
func (d *Draft) ClearPhoto() error {
	return d.edit(func() {
		d.form.PhotoBase64 = ""
		d.form.PhotoContentType = ""
		d.photoErr = ""
	})
}

// AttachPhoto converts raw image bytes into the base64 payload. Empty data
// clears the photo. Oversized or non-image data leaves the current photo in
// place and records a photo error that blocks submission.
func (d *Draft) AttachPhoto(data []byte, contentType string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state != StateEditing {
		return model.ErrNotEditable
	}

	if len(data) == 0 {
		d.form.PhotoBase64 = ""
		d.form.PhotoContentType = ""
		d.photoErr = ""
		return nil
	}

	if len(data) > model.MaxPhotoSize {
		d.photoErr = model.MsgPhotoTooLarge
		return apperror.Field("photo", d.photoErr)
	}

	if !strings.HasPrefix(contentType, "image/") {
		detected := mimetype.Detect(data).String()
		if !strings.HasPrefix(detected, "image/") {
			d.photoErr = model.MsgPhotoNotImage
			return apperror.Field("photo", d.photoErr)
		}
		contentType = detected
	}

	d.form.PhotoBase64 = base64.StdEncoding.EncodeToString(data)
	d.form.PhotoContentType = contentType
	d.photoErr = ""

	log.Debug().
		Int("original_size", len(data)).
		Int("base64_size", len(d.form.PhotoBase64)).
		Str("type", contentType).
		Msg("photo attached to draft")
	return nil
}

// AttachPhotoBase64 accepts an already encoded payload, checked like AttachPhoto
func (d *Draft) AttachPhotoBase64(encoded, contentType string) error {
	if keep, err := d.keepStoredPhoto(encoded, contentType); keep || err != nil {
		return err
	}

	// Tolerate full data URLs ("data:image/png;base64,....")
	if i := strings.Index(encoded, ","); strings.HasPrefix(encoded, "data:") && i > 0 {
		encoded = encoded[i+1:]
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.state != StateEditing {
			return model.ErrNotEditable
		}
		d.photoErr = model.MsgPhotoEncoding
		return apperror.Field("photo", d.photoErr)
	}
	return d.AttachPhoto(data, contentType)
}

// keepStoredPhoto accepts the draft's current photo echoed back unchanged, or a
// photo the server stores as a URL. Neither is decoded again.
func (d *Draft) keepStoredPhoto(encoded, contentType string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	unchanged := encoded == d.form.PhotoBase64
	isURL := strings.HasPrefix(encoded, "http://") || strings.HasPrefix(encoded, "https://")
	if !unchanged && !isURL {
		return false, nil
	}
	if d.state != StateEditing {
		return true, model.ErrNotEditable
	}

	d.form.PhotoBase64 = encoded
	if contentType != "" {
		d.form.PhotoContentType = contentType
	}
	d.photoErr = ""
	return true, nil
}

// =====================================================
// VALIDATION + SUBMISSION
// =====================================================

// Validate checks the draft without changing its state
func (d *Draft) Validate() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.validateLocked()
}

func (d *Draft) validateLocked() error {
	if d.form.Rating == 0 {
		d.form.Rating = model.DefaultRating
	}

	fields := map[string]string{}
	if err := d.form.Validate(); err != nil {
		var verrs validation.Errors
		if !errors.As(err, &verrs) {
			return err
		}
		for field, fieldErr := range verrs {
			fields[field] = fieldErr.Error()
		}
	}
	if d.photoErr != "" {
		fields["photo"] = d.photoErr
	}

	d.errors = fields
	return apperror.Validation(fields)
}

// Submit validates and, when valid, creates or updates the review. Any failure
// returns the draft to Editing with every entered value kept.
func (d *Draft) Submit(ctx context.Context, s Submitter) (*model.Review, error) {
	d.mu.Lock()
	if d.state != StateEditing {
		d.mu.Unlock()
		return nil, model.ErrNotEditable
	}

	d.state = StateValidating
	if err := d.validateLocked(); err != nil {
		d.state = StateEditing
		d.lastErr = err
		d.mu.Unlock()
		return nil, err
	}

	d.state = StateSubmitting
	form := d.form
	id := d.reviewID
	d.mu.Unlock()

	log.Debug().
		Int64("review_id", id).
		Str("title", form.Title).
		Bool("has_photo", form.PhotoBase64 != "").
		Str("photo_type", form.PhotoContentType).
		Msg("submitting review draft")

	var (
		saved *model.Review
		err   error
	)
	if id == 0 {
		saved, err = s.CreateReview(ctx, form)
	} else {
		saved, err = s.UpdateReview(ctx, id, form)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err != nil {
		d.state = StateEditing
		d.lastErr = err
		return nil, err
	}

	d.state = StateSucceeded
	d.lastErr = nil
	return saved, nil
}

// =====================================================
// ACCESSORS
// =====================================================

// State returns the current state
func (d *Draft) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// ReviewID is 0 for a draft that creates a new review
func (d *Draft) ReviewID() int64 {
	return d.reviewID
}

// Form returns a copy of the entered values
func (d *Draft) Form() model.ReviewFormData {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.form
}

// Errors returns field errors from the last validation plus any pending photo error
func (d *Draft) Errors() map[string]string {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make(map[string]string, len(d.errors)+1)
	for k, v := range d.errors {
		out[k] = v
	}
	if d.photoErr != "" {
		out["photo"] = d.photoErr
	}
	return out
}

// Err returns the last submission failure, nil after success
func (d *Draft) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastErr
}

// Snapshot copies the draft for rendering
func (d *Draft) Snapshot() Snapshot {
	errs := d.Errors()

	d.mu.Lock()
	defer d.mu.Unlock()

	snap := Snapshot{
		ReviewID: d.reviewID,
		State:    d.state,
		Form:     d.form,
	}
	if len(errs) > 0 {
		snap.Errors = errs
	}
	if d.lastErr != nil && apperror.KindOf(d.lastErr) != apperror.KindValidation {
		snap.Error = d.lastErr.Error()
	}
	return snap
}
