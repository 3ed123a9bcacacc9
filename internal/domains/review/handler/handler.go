package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"reviews-web/internal/domains/review/draft"
	"reviews-web/internal/domains/review/model"
	"reviews-web/internal/domains/review/service"
	"reviews-web/internal/domains/review/view"
	"reviews-web/internal/shared/response"
	"reviews-web/pkg/apperror"
)

// =====================================================
// REVIEW HANDLER
// =====================================================

type ReviewHandler struct {
	reviewService service.ServiceInterface
}

func NewReviewHandler(reviewService service.ServiceInterface) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

// reviewInput is the create/edit form. It binds from JSON, urlencoded or
// multipart bodies; a multipart "photo" file takes precedence over photoBase64.
type reviewInput struct {
	Title            string `json:"title" form:"title"`
	Text             string `json:"text" form:"text"`
	Rating           int    `json:"rating" form:"rating"`
	PhotoBase64      string `json:"photoBase64" form:"photoBase64"`
	PhotoContentType string `json:"photoContentType" form:"photoContentType"`
	RemovePhoto      bool   `json:"removePhoto" form:"removePhoto"`
}

// =====================================================
// LIST ENDPOINTS
// =====================================================

// Home fetches the full collection, then projects it
// GET /
func (h *ReviewHandler) Home(c *gin.Context) {
	var q model.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.reviewService.Load(c.Request.Context()); err != nil {
		respondReviewError(c, err)
		return
	}

	response.Success(c, http.StatusOK, h.reviewService.Page(view.FromListQuery(q)))
}

// List re-projects the in-memory collection without refetching
// GET /reviews
func (h *ReviewHandler) List(c *gin.Context) {
	var q model.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if !h.reviewService.Loaded() {
		respondReviewError(c, model.ErrNotLoaded)
		return
	}

	response.Success(c, http.StatusOK, h.reviewService.Page(view.FromListQuery(q)))
}

// =====================================================
// VOTE & DELETE
// =====================================================

// Vote casts a helpful/unhelpful vote
// POST /reviews/:id/vote
func (h *ReviewHandler) Vote(c *gin.Context) {
	// Step 1: Parse review ID
	id, ok := parseID(c)
	if !ok {
		return
	}

	// Step 2: Bind vote value
	var input model.VoteInput
	if err := c.ShouldBind(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	// Step 3: Call service
	card, err := h.reviewService.Vote(c.Request.Context(), id, model.VoteValue(input.Value))
	if err != nil {
		respondReviewError(c, err)
		return
	}

	response.Success(c, http.StatusOK, card)
}

// Delete removes a review
// DELETE /reviews/:id
func (h *ReviewHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.reviewService.Delete(c.Request.Context(), id); err != nil {
		respondReviewError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "Review deleted successfully",
	})
}

// =====================================================
// CREATE & EDIT
// =====================================================

// NewForm returns an empty draft
// GET /reviews/create
func (h *ReviewHandler) NewForm(c *gin.Context) {
	response.Success(c, http.StatusOK, h.reviewService.NewDraft().Snapshot())
}

// Create submits a new review
// POST /reviews/create
func (h *ReviewHandler) Create(c *gin.Context) {
	h.submit(c, h.reviewService.NewDraft(), http.StatusCreated)
}

// EditForm returns a draft prefilled from the stored review
// GET /reviews/edit/:id
func (h *ReviewHandler) EditForm(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	d, err := h.reviewService.ForEdit(c.Request.Context(), id)
	if err != nil {
		respondReviewError(c, err)
		return
	}

	response.Success(c, http.StatusOK, d.Snapshot())
}

// Edit submits changes to an existing review
// POST /reviews/edit/:id
func (h *ReviewHandler) Edit(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	d, err := h.reviewService.ForEdit(c.Request.Context(), id)
	if err != nil {
		respondReviewError(c, err)
		return
	}

	h.submit(c, d, http.StatusOK)
}

func (h *ReviewHandler) submit(c *gin.Context, d *draft.Draft, successStatus int) {
	// Step 1: Bind the form
	var input reviewInput
	if err := c.ShouldBind(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	// Step 2: Copy it onto the draft
	if err := applyInput(c, d, input); err != nil {
		respondReviewError(c, err)
		return
	}

	// Step 3: Validate and submit
	saved, err := h.reviewService.Submit(c.Request.Context(), d)
	if err != nil {
		respondDraftError(c, d, err)
		return
	}

	response.Success(c, successStatus, saved)
}

// =====================================================
// UPLOAD
// =====================================================

// Upload forwards the multipart "file" field to the remote API
// POST /upload
func (h *ReviewHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}

	data, err := readPart(header, model.MaxPhotoSize)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if len(data) > model.MaxPhotoSize {
		respondReviewError(c, apperror.Field("file", model.MsgPhotoTooLarge))
		return
	}

	result, err := h.reviewService.Upload(c.Request.Context(), header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		respondReviewError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// =====================================================
// HELPER FUNCTIONS
// =====================================================

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.ErrorResponse(c, http.StatusBadRequest, "INVALID_ID", "Invalid review ID")
		return 0, false
	}
	return id, true
}

// applyInput copies the bound form onto d. Photo errors stay on the draft and
// surface when it is validated.
func applyInput(c *gin.Context, d *draft.Draft, input reviewInput) error {
	if err := d.SetTitle(input.Title); err != nil {
		return err
	}
	if err := d.SetText(input.Text); err != nil {
		return err
	}
	if err := d.SetRating(input.Rating); err != nil {
		return err
	}

	if input.RemovePhoto {
		return d.ClearPhoto()
	}

	header, err := c.FormFile("photo")
	switch {
	case err == nil:
		data, readErr := readPart(header, model.MaxPhotoSize)
		if readErr != nil {
			return apperror.Field("photo", model.MsgPhotoEncoding)
		}
		// An empty file clears the photo
		photoErr := d.AttachPhoto(data, header.Header.Get("Content-Type"))
		logPhotoError(c, photoErr)
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		// A file part with an empty filename arrives as a plain form value
		if emptyPhotoPart(c) {
			return d.ClearPhoto()
		}
		if input.PhotoBase64 != "" {
			logPhotoError(c, d.AttachPhotoBase64(input.PhotoBase64, input.PhotoContentType))
		}
	default:
		return apperror.Field("photo", model.MsgPhotoEncoding)
	}
	return nil
}

// emptyPhotoPart reports an explicitly empty "photo" selection in a multipart body
func emptyPhotoPart(c *gin.Context) bool {
	form := c.Request.MultipartForm
	if form == nil {
		return false
	}
	values, ok := form.Value["photo"]
	return ok && (len(values) == 0 || values[0] == "")
}

func logPhotoError(c *gin.Context, err error) {
	if err == nil || apperror.KindOf(err) != apperror.KindValidation {
		return
	}
	log.Debug().
		Str("request_id", c.GetString("request_id")).
		Str("reason", err.Error()).
		Msg("Photo rejected")
}

// readPart reads at most limit+1 bytes so oversize files are detected without
// buffering all of them
func readPart(header *multipart.FileHeader, limit int) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, int64(limit)+1))
}

func respondDraftError(c *gin.Context, d *draft.Draft, err error) {
	if apperror.KindOf(err) == apperror.KindValidation {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, string(apperror.KindValidation), "validation failed", d.Snapshot())
		return
	}
	respondReviewError(c, err)
}

func respondReviewError(c *gin.Context, err error) {
	if status, code, ok := mapReviewError(err); ok {
		response.ErrorResponse(c, status, code, err.Error())
		return
	}
	response.FromError(c, err)
}

// mapReviewError maps review sentinels to HTTP status codes
func mapReviewError(err error) (int, string, bool) {
	code := model.Code(err)
	switch code {
	case model.ErrCodeReviewNotFound:
		return http.StatusNotFound, code, true
	case model.ErrCodeAlreadyVoted, model.ErrCodeNotEditable, model.ErrCodeNotLoaded:
		return http.StatusConflict, code, true
	case model.ErrCodeNotAuthenticated:
		return http.StatusUnauthorized, code, true
	case model.ErrCodeForbidden:
		return http.StatusForbidden, code, true
	case model.ErrCodeInvalidVote:
		return http.StatusBadRequest, code, true
	default:
		return 0, "", false
	}
}
