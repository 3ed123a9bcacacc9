package session

import (
	"errors"

	"reviews-web/pkg/apperror"
)

// ========================================
// SESSION ERRORS
// ========================================

const (
	MsgMalformedAuth = "malformed auth response"
	MsgAuthFailed    = "authentication failed"
)

// ErrPersist is returned when the session could not be written to storage.
// The in-memory session is left unchanged in that case.
var ErrPersist = errors.New("session could not be saved")

func errMalformedAuth() error {
	return apperror.Malformed(MsgMalformedAuth, nil)
}
