package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviews-web/internal/domains/session"
	"reviews-web/internal/infrastructure/kvstore"
	"reviews-web/pkg/apperror"
)

type fakeAuth struct {
	resp *session.AuthResponse
	err  error
}

func (f *fakeAuth) Login(context.Context, session.Credentials) (*session.AuthResponse, error) {
	return f.resp, f.err
}

func (f *fakeAuth) Register(ctx context.Context, c session.Credentials) (*session.AuthResponse, error) {
	return f.Login(ctx, c)
}

func setup(t *testing.T, auth *fakeAuth) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := session.NewStore(context.Background(), kvstore.NewMemoryStore(), auth)
	require.NoError(t, err)
	h := NewSessionHandler(store)

	r := gin.New()
	r.GET("/session", h.Status)
	r.POST("/login", h.Login)
	r.POST("/register", h.Register)
	r.POST("/logout", h.Logout)
	return r
}

func serve(r *gin.Engine, req *http.Request) (*httptest.ResponseRecorder, map[string]interface{}) {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var body map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestLoginLogoutFlow(t *testing.T) {
	r := setup(t, &fakeAuth{resp: &session.AuthResponse{ID: 1, Username: "alice", Role: "ROLE_ADMIN", Token: "tok"}})

	form := url.Values{"username": {"alice"}, "password": {"pw"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w, body := serve(r, req)

	require.Equal(t, http.StatusOK, w.Code)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, true, data["authenticated"])
	assert.Equal(t, true, data["isAdmin"])

	_, body = serve(r, httptest.NewRequest(http.MethodGet, "/session", nil))
	assert.Equal(t, true, body["data"].(map[string]interface{})["authenticated"])
	assert.NotContains(t, body["data"], "token")

	w, body = serve(r, httptest.NewRequest(http.MethodPost, "/logout", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["data"].(map[string]interface{})["authenticated"])
}

func TestLogin_ServerRejection(t *testing.T) {
	r := setup(t, &fakeAuth{err: apperror.HTTP(http.StatusUnauthorized, "bad credentials")})

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"a","password":"b"}`))
	req.Header.Set("Content-Type", "application/json")
	w, body := serve(r, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	errBody := body["error"].(map[string]interface{})
	assert.Equal(t, "bad credentials", errBody["message"])
	assert.Equal(t, string(apperror.KindHTTP), errBody["code"])
}

func TestRegister_MissingFields(t *testing.T) {
	r := setup(t, &fakeAuth{})

	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w, body := serve(r, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	details := body["error"].(map[string]interface{})["details"].(map[string]interface{})
	assert.Contains(t, details, "username")
	assert.Contains(t, details, "password")
}

func TestLogin_MalformedResponse(t *testing.T) {
	r := setup(t, &fakeAuth{resp: &session.AuthResponse{Username: "x"}})

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"a","password":"b"}`))
	req.Header.Set("Content-Type", "application/json")
	w, body := serve(r, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, session.MsgMalformedAuth, body["error"].(map[string]interface{})["message"])
}
