package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Role of an authenticated user as reported by the API
type Role string

const (
	RoleUser  Role = "ROLE_USER"
	RoleAdmin Role = "ROLE_ADMIN"
)

// IsAdmin accepts both the prefixed and the bare spelling
func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == "ADMIN"
}

// User identifies an author and grants capabilities
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// VoteValue is +1 (helpful) or -1 (unhelpful)
type VoteValue int

const (
	VoteUp   VoteValue = 1
	VoteDown VoteValue = -1
)

// Valid reports whether v is one of the two allowed values
func (v VoteValue) Valid() bool {
	return v == VoteUp || v == VoteDown
}

// Vote is a single user's vote on a review
type Vote struct {
	UserID int64     `json:"userId"`
	Value  VoteValue `json:"value"`
}

// Review is the API's review record. Upvotes/Downvotes are authoritative server counts.
type Review struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Text  string `json:"text"`

	Rating int `json:"rating"` // 1-5

	// Photo travels inline as base64
	PhotoBase64      string `json:"photoBase64,omitempty"`
	PhotoContentType string `json:"photoContentType,omitempty"`

	CreatedAt Timestamp `json:"createdAt"`
	Author    User      `json:"user"`

	Upvotes   int    `json:"upvotes"`
	Downvotes int    `json:"downvotes"`
	Votes     []Vote `json:"votes,omitempty"`

	// UserVote is the caller's own vote when the server reports it
	UserVote *VoteValue `json:"userVote,omitempty"`
}

// Helpfulness is upvotes minus downvotes
func (r *Review) Helpfulness() int {
	return r.Upvotes - r.Downvotes
}

// HasPhoto reports whether a photo is attached
func (r *Review) HasPhoto() bool {
	return r.PhotoBase64 != ""
}

// PhotoURL returns something an <img> can display: URLs pass through,
// base64 payloads become data URLs.
func (r *Review) PhotoURL() string {
	if !r.HasPhoto() {
		return ""
	}
	if strings.HasPrefix(r.PhotoBase64, "http") {
		return r.PhotoBase64
	}
	contentType := r.PhotoContentType
	if contentType == "" {
		contentType = "image/jpeg"
	}
	return fmt.Sprintf("data:%s;base64,%s", contentType, r.PhotoBase64)
}

// VoteBy finds the vote userID cast on this review
func (r *Review) VoteBy(userID int64) (VoteValue, bool) {
	for _, v := range r.Votes {
		if v.UserID == userID && v.Value.Valid() {
			return v.Value, true
		}
	}
	if r.UserVote != nil && r.UserVote.Valid() {
		return *r.UserVote, true
	}
	return 0, false
}

// =====================================================
// TIMESTAMP
// =====================================================

// Timestamp accepts the layouts the API is known to emit. The raw string is kept
// so a record round-trips unchanged.
type Timestamp struct {
	time.Time
	Raw string
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses s with the known layouts. Unparseable input keeps Raw and a zero Time.
func ParseTimestamp(s string) Timestamp {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{Time: t, Raw: s}
		}
	}
	return Timestamp{Raw: s}
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("createdAt: %w", err)
	}
	*t = ParseTimestamp(s)
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.Raw != "" {
		return json.Marshal(t.Raw)
	}
	if t.Time.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339))
}
