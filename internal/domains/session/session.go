package session

import (
	"reviews-web/internal/domains/review/model"
)

// Storage keys the session is persisted under
const (
	KeyAuthToken = "authToken"
	KeyUser      = "user"
)

// Session is the current authentication state. The zero value is anonymous.
type Session struct {
	User  *model.User `json:"user,omitempty"`
	Token string      `json:"-"`
}

// Authenticated reports whether both a user and a token are held
func (s Session) Authenticated() bool {
	return s.User != nil && s.Token != ""
}

// IsAdmin reports whether the session user carries the admin role
func (s Session) IsAdmin() bool {
	return s.User != nil && s.User.Role.IsAdmin()
}

// View is the JSON shape returned by GET /session
type View struct {
	Authenticated bool        `json:"authenticated"`
	IsAdmin       bool        `json:"isAdmin"`
	User          *model.User `json:"user,omitempty"`
}

func (s Session) View() View {
	return View{
		Authenticated: s.Authenticated(),
		IsAdmin:       s.IsAdmin(),
		User:          s.User,
	}
}
