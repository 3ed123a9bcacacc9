package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"reviews-web/internal/domains/review/model"
)

type identity struct {
	user *model.User
}

func (i identity) CurrentUser() (model.User, bool) {
	if i.user == nil {
		return model.User{}, false
	}
	return *i.user, true
}

func TestCanModify(t *testing.T) {
	review := model.Review{ID: 10, Author: model.User{ID: 7, Username: "author"}}

	tests := []struct {
		name string
		who  identity
		want bool
	}{
		{name: "anonymous", who: identity{}, want: false},
		{name: "author", who: identity{user: &model.User{ID: 7, Role: model.RoleUser}}, want: true},
		{name: "other user", who: identity{user: &model.User{ID: 8, Role: model.RoleUser}}, want: false},
		{name: "admin", who: identity{user: &model.User{ID: 8, Role: model.RoleAdmin}}, want: true},
		{name: "bare admin role", who: identity{user: &model.User{ID: 8, Role: "ADMIN"}}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanModify(review, tt.who))
		})
	}
}

func TestCanVote(t *testing.T) {
	up := model.VoteUp
	user := identity{user: &model.User{ID: 1}}

	assert.True(t, CanVote(user, nil))
	assert.False(t, CanVote(user, &up))
	assert.False(t, CanVote(identity{}, nil))
	assert.False(t, Authenticated(identity{}))
	assert.True(t, Authenticated(user))
}
