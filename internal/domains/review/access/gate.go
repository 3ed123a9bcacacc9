// Package access holds the advisory permission checks used to decide which
// controls are shown. The API enforces the same rules again.
package access

import (
	"reviews-web/internal/domains/review/model"
)

// Identity is what the gate needs to know about the current session
type Identity interface {
	CurrentUser() (model.User, bool)
}

// CanModify reports whether the current identity may edit or delete review
func CanModify(review model.Review, who Identity) bool {
	user, ok := who.CurrentUser()
	if !ok {
		return false
	}
	return user.Role.IsAdmin() || user.ID == review.Author.ID
}

// CanVote reports whether voting controls are enabled for a review
func CanVote(who Identity, existing *model.VoteValue) bool {
	_, ok := who.CurrentUser()
	return ok && existing == nil
}

// Authenticated reports whether who carries an authenticated user
func Authenticated(who Identity) bool {
	_, ok := who.CurrentUser()
	return ok
}
