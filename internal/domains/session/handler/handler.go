package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"reviews-web/internal/domains/session"
	"reviews-web/internal/shared/response"
)

// SessionService is the part of session.Store the handler drives
type SessionService interface {
	Login(ctx context.Context, username, password string) (session.Session, error)
	Register(ctx context.Context, username, password string) (session.Session, error)
	Logout(ctx context.Context) error
	Current() session.Session
}

type SessionHandler struct {
	sessions SessionService
}

func NewSessionHandler(sessions SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Status reports the current session; it is also the target of login redirects
// GET /login, GET /register, GET /session
func (h *SessionHandler) Status(c *gin.Context) {
	response.Success(c, http.StatusOK, h.sessions.Current().View())
}

// Login
// POST /login
func (h *SessionHandler) Login(c *gin.Context) {
	h.authenticate(c, h.sessions.Login)
}

// Register
// POST /register
func (h *SessionHandler) Register(c *gin.Context) {
	h.authenticate(c, h.sessions.Register)
}

// Logout
// POST /logout
func (h *SessionHandler) Logout(c *gin.Context) {
	if err := h.sessions.Logout(c.Request.Context()); err != nil {
		response.InternalServerError(c, err.Error())
		return
	}
	response.Success(c, http.StatusOK, h.sessions.Current().View())
}

func (h *SessionHandler) authenticate(
	c *gin.Context,
	call func(ctx context.Context, username, password string) (session.Session, error),
) {
	var creds session.Credentials
	if err := c.ShouldBind(&creds); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	sess, err := call(c.Request.Context(), creds.Username, creds.Password)
	if err != nil {
		if errors.Is(err, session.ErrPersist) {
			response.InternalServerError(c, err.Error())
			return
		}
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, sess.View())
}
