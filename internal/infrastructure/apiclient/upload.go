package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"reviews-web/internal/domains/review/model"
	"reviews-web/pkg/apperror"
)

// UploadFile sends one file as multipart field "file" to POST /upload
func (c *Client) UploadFile(ctx context.Context, filename, contentType string, data []byte) (*model.UploadResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", contentType)

	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("create multipart part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("write multipart part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	resp, err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/upload",
		body:        &buf,
		contentType: mw.FormDataContentType(),
	})
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, errorFromResponse(resp, "failed to upload file")
	}

	var probe struct {
		URL string `json:"url"`
		ID  int64  `json:"id"`
	}
	if err := decodeBody(resp, &probe); err != nil {
		return nil, err
	}

	switch {
	case probe.URL != "":
		return &model.UploadResult{URL: probe.URL}, nil
	case probe.ID != 0:
		review := &model.Review{}
		if err := json.Unmarshal(resp.body, review); err != nil {
			return nil, apperror.Malformed("invalid response format", err)
		}
		return &model.UploadResult{Review: review}, nil
	default:
		return nil, apperror.Malformed("invalid response format", nil)
	}
}
