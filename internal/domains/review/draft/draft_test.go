package draft

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviews-web/internal/domains/review/model"
	"reviews-web/pkg/apperror"
)

// pngHeader is enough for content sniffing to report image/png
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

type fakeSubmitter struct {
	creates int
	updates int
	lastID  int64
	last    model.ReviewFormData
	err     error
}

func (f *fakeSubmitter) CreateReview(_ context.Context, form model.ReviewFormData) (*model.Review, error) {
	f.creates++
	f.last = form
	if f.err != nil {
		return nil, f.err
	}
	return &model.Review{ID: 100, Title: form.Title, Text: form.Text, Rating: form.Rating}, nil
}

func (f *fakeSubmitter) UpdateReview(_ context.Context, id int64, form model.ReviewFormData) (*model.Review, error) {
	f.updates++
	f.lastID = id
	f.last = form
	if f.err != nil {
		return nil, f.err
	}
	return &model.Review{ID: id, Title: form.Title, Text: form.Text, Rating: form.Rating}, nil
}

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	appErr, ok := apperror.As(err)
	require.True(t, ok, "expected *apperror.Error, got %T", err)
	require.Equal(t, apperror.KindValidation, appErr.Kind)
	return appErr.Fields
}

func TestSubmit_TitleTooShort(t *testing.T) {
	d := New()
	require.NoError(t, d.SetTitle("ab"))
	sub := &fakeSubmitter{}

	_, err := d.Submit(context.Background(), sub)

	require.Error(t, err)
	assert.Equal(t, model.MsgTitleTooShort, fieldErrors(t, err)["title"])
	assert.Equal(t, StateEditing, d.State())
	assert.Zero(t, sub.creates)
}

func TestSubmit_TitleOfThreeCharsPasses(t *testing.T) {
	d := New()
	require.NoError(t, d.SetTitle("abc"))
	sub := &fakeSubmitter{}

	saved, err := d.Submit(context.Background(), sub)

	require.NoError(t, err)
	assert.Equal(t, int64(100), saved.ID)
	assert.Equal(t, StateSucceeded, d.State())
	assert.Equal(t, 1, sub.creates)
}

func TestValidate_Limits(t *testing.T) {
	tests := []struct {
		name  string
		title string
		text  string
		field string
		want  string
	}{
		{name: "missing title", title: "", field: "title", want: model.MsgTitleRequired},
		{name: "blank title", title: "    ", field: "title", want: model.MsgTitleRequired},
		{name: "title too long", title: strings.Repeat("a", 256), field: "title", want: model.MsgTitleTooLong},
		{name: "text too long", title: "Fine title", text: strings.Repeat("x", 1001), field: "text", want: model.MsgTextTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New()
			require.NoError(t, d.SetTitle(tt.title))
			require.NoError(t, d.SetText(tt.text))

			err := d.Validate()
			require.Error(t, err)
			assert.Equal(t, tt.want, fieldErrors(t, err)[tt.field])
		})
	}
}

func TestValidate_BoundariesPass(t *testing.T) {
	d := New()
	require.NoError(t, d.SetTitle(strings.Repeat("é", 255)))
	require.NoError(t, d.SetText(strings.Repeat("ё", 1000)))

	assert.NoError(t, d.Validate())
}

func TestValidate_RatingDefaultsToFive(t *testing.T) {
	d := New()
	require.NoError(t, d.SetTitle("Good title"))
	require.NoError(t, d.SetRating(0))
	sub := &fakeSubmitter{}

	_, err := d.Submit(context.Background(), sub)

	require.NoError(t, err)
	assert.Equal(t, model.DefaultRating, sub.last.Rating)
}

func TestValidate_RatingOutOfRange(t *testing.T) {
	d := New()
	require.NoError(t, d.SetTitle("Good title"))
	require.NoError(t, d.SetRating(7))

	err := d.Validate()
	require.Error(t, err)
	assert.Equal(t, model.MsgRatingOutOfRange, fieldErrors(t, err)["rating"])
}

func TestAttachPhoto_OversizedBlocksSubmission(t *testing.T) {
	d := New()
	require.NoError(t, d.SetTitle("With photo"))
	sub := &fakeSubmitter{}

	err := d.AttachPhoto(bytes.Repeat([]byte{0xff}, 6*1024*1024), "image/jpeg")
	require.Error(t, err)
	assert.Equal(t, model.MsgPhotoTooLarge, fieldErrors(t, err)["photo"])

	_, err = d.Submit(context.Background(), sub)
	require.Error(t, err)
	assert.Equal(t, model.MsgPhotoTooLarge, fieldErrors(t, err)["photo"])
	assert.Equal(t, StateEditing, d.State())
	assert.Zero(t, sub.creates, "no network call")

	// still editable
	require.NoError(t, d.SetText("still editable"))
	assert.Equal(t, "still editable", d.Form().Text)
}

func TestAttachPhoto_EncodesAndSniffs(t *testing.T) {
	d := New()

	require.NoError(t, d.AttachPhoto(pngHeader, ""))

	form := d.Form()
	assert.Equal(t, base64.StdEncoding.EncodeToString(pngHeader), form.PhotoBase64)
	assert.Equal(t, "image/png", form.PhotoContentType)
}

func TestAttachPhoto_KeepsDeclaredImageType(t *testing.T) {
	d := New()

	require.NoError(t, d.AttachPhoto([]byte("raw"), "image/webp"))
	assert.Equal(t, "image/webp", d.Form().PhotoContentType)
}

func TestAttachPhoto_RejectsNonImage(t *testing.T) {
	d := New()

	err := d.AttachPhoto([]byte("just some text"), "text/plain")
	require.Error(t, err)
	assert.Equal(t, model.MsgPhotoNotImage, d.Errors()["photo"])
	assert.Empty(t, d.Form().PhotoBase64)
}

func TestAttachPhoto_EmptyFileClears(t *testing.T) {
	d := FromReview(model.Review{ID: 5, Title: "Has photo", Rating: 4, PhotoBase64: "AAAA", PhotoContentType: "image/png"})

	require.NoError(t, d.AttachPhoto(nil, ""))

	form := d.Form()
	assert.Empty(t, form.PhotoBase64)
	assert.Empty(t, form.PhotoContentType)
}

func TestAttachPhoto_ValidAttachClearsEarlierError(t *testing.T) {
	d := New()
	require.NoError(t, d.SetTitle("Title ok"))

	require.Error(t, d.AttachPhoto(bytes.Repeat([]byte{1}, model.MaxPhotoSize+1), "image/png"))
	require.NoError(t, d.AttachPhoto(pngHeader, "image/png"))

	assert.NoError(t, d.Validate())
}

func TestAttachPhotoBase64(t *testing.T) {
	d := New()
	encoded := base64.StdEncoding.EncodeToString(pngHeader)

	require.NoError(t, d.AttachPhotoBase64("data:image/png;base64,"+encoded, "image/png"))
	assert.Equal(t, encoded, d.Form().PhotoBase64)

	err := d.AttachPhotoBase64("%%%not-base64", "image/png")
	require.Error(t, err)
	assert.Equal(t, model.MsgPhotoEncoding, d.Errors()["photo"])
}

func TestAttachPhotoBase64_KeepsStoredPhoto(t *testing.T) {
	t.Run("url stored by the server", func(t *testing.T) {
		d := FromReview(model.Review{ID: 4, Title: "Has url", Rating: 4, PhotoBase64: "https://cdn.example/p.png"})

		require.NoError(t, d.AttachPhotoBase64("https://cdn.example/p.png", ""))

		assert.Equal(t, "https://cdn.example/p.png", d.Form().PhotoBase64)
		assert.NoError(t, d.Validate())
	})

	t.Run("unchanged payload echoed back", func(t *testing.T) {
		d := FromReview(model.Review{ID: 4, Title: "Has photo", Rating: 4, PhotoBase64: "stored-not-decodable", PhotoContentType: "image/jpeg"})

		require.NoError(t, d.AttachPhotoBase64("stored-not-decodable", ""))

		form := d.Form()
		assert.Equal(t, "stored-not-decodable", form.PhotoBase64)
		assert.Equal(t, "image/jpeg", form.PhotoContentType)
		assert.Empty(t, d.Errors())
	})

	t.Run("new url on a finished draft", func(t *testing.T) {
		d := New()
		require.NoError(t, d.SetTitle("Done already"))
		_, err := d.Submit(context.Background(), &fakeSubmitter{})
		require.NoError(t, err)

		assert.ErrorIs(t, d.AttachPhotoBase64("https://cdn.example/x.png", ""), model.ErrNotEditable)
	})
}

func TestSubmit_FailureReturnsToEditingAndKeepsValues(t *testing.T) {
	d := New()
	require.NoError(t, d.SetTitle("Kept title"))
	require.NoError(t, d.SetText("Kept text"))
	require.NoError(t, d.SetRating(2))
	require.NoError(t, d.AttachPhoto(pngHeader, "image/png"))

	serverErr := apperror.HTTP(400, "title already used")
	sub := &fakeSubmitter{err: serverErr}

	_, err := d.Submit(context.Background(), sub)

	require.ErrorIs(t, err, serverErr)
	assert.Equal(t, StateEditing, d.State())
	assert.Equal(t, serverErr, d.Err())

	form := d.Form()
	assert.Equal(t, "Kept title", form.Title)
	assert.Equal(t, "Kept text", form.Text)
	assert.Equal(t, 2, form.Rating)
	assert.NotEmpty(t, form.PhotoBase64)

	snap := d.Snapshot()
	assert.Equal(t, "title already used", snap.Error)

	// a retry goes out again
	sub.err = nil
	_, err = d.Submit(context.Background(), sub)
	require.NoError(t, err)
	assert.Equal(t, 2, sub.creates)
}

func TestSubmit_UpdatesExistingReview(t *testing.T) {
	d := FromReview(model.Review{ID: 42, Title: "Old", Text: "Old text", Rating: 3})
	require.NoError(t, d.SetTitle("New title"))
	sub := &fakeSubmitter{}

	saved, err := d.Submit(context.Background(), sub)

	require.NoError(t, err)
	assert.Equal(t, int64(42), saved.ID)
	assert.Equal(t, 1, sub.updates)
	assert.Equal(t, int64(42), sub.lastID)
	assert.Equal(t, "Old text", sub.last.Text)
}

func TestSucceededDraftRejectsEdits(t *testing.T) {
	d := New()
	require.NoError(t, d.SetTitle("Done title"))
	_, err := d.Submit(context.Background(), &fakeSubmitter{})
	require.NoError(t, err)

	assert.True(t, errors.Is(d.SetTitle("again"), model.ErrNotEditable))
	_, err = d.Submit(context.Background(), &fakeSubmitter{})
	assert.ErrorIs(t, err, model.ErrNotEditable)
}
