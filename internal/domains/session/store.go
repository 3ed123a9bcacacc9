package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog/log"

	"reviews-web/internal/domains/review/model"
	"reviews-web/pkg/apperror"
	"reviews-web/pkg/jwt"
	"reviews-web/pkg/kvstore"
)

// Authenticator is the remote side of login and registration
type Authenticator interface {
	Login(ctx context.Context, creds Credentials) (*AuthResponse, error)
	Register(ctx context.Context, creds Credentials) (*AuthResponse, error)
}

// Store owns the single current session and keeps it in sync with durable storage
type Store struct {
	mu      sync.RWMutex
	current Session

	kv   kvstore.Store
	auth Authenticator
	now  func() time.Time
}

// NewStore rehydrates the session from kv. Anything short of a complete,
// usable pair of keys starts the session empty and clears the leftovers.
func NewStore(ctx context.Context, kv kvstore.Store, auth Authenticator) (*Store, error) {
	s := &Store{kv: kv, auth: auth, now: time.Now}
	if err := s.rehydrate(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) rehydrate(ctx context.Context) error {
	token, hasToken, err := s.kv.Get(ctx, KeyAuthToken)
	if err != nil {
		return fmt.Errorf("read %s: %w", KeyAuthToken, err)
	}
	rawUser, hasUser, err := s.kv.Get(ctx, KeyUser)
	if err != nil {
		return fmt.Errorf("read %s: %w", KeyUser, err)
	}

	if !hasToken && !hasUser {
		return nil
	}

	var user model.User
	switch {
	case !hasToken || !hasUser:
		log.Info().Msg("Incomplete stored session discarded")
	case json.Unmarshal([]byte(rawUser), &user) != nil || user.ID == 0:
		log.Warn().Msg("Stored user could not be read, session discarded")
	case !jwt.UsableAt(token, s.now()):
		log.Info().Msg("Stored token expired, session discarded")
	default:
		s.current = Session{User: &user, Token: token}
		log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("Session restored")
		return nil
	}

	if err := s.kv.Delete(ctx, KeyAuthToken, KeyUser); err != nil {
		log.Warn().Err(err).Msg("Failed to clear stale session keys")
	}
	return nil
}

// =====================================================
// AUTHENTICATION
// =====================================================

// Login authenticates against the API and, on success, replaces the session
func (s *Store) Login(ctx context.Context, username, password string) (Session, error) {
	return s.authenticate(ctx, Credentials{Username: username, Password: password}, s.auth.Login)
}

// Register creates an account and signs in as it
func (s *Store) Register(ctx context.Context, username, password string) (Session, error) {
	return s.authenticate(ctx, Credentials{Username: username, Password: password}, s.auth.Register)
}

func (s *Store) authenticate(
	ctx context.Context,
	creds Credentials,
	call func(context.Context, Credentials) (*AuthResponse, error),
) (Session, error) {
	if err := validateCredentials(creds); err != nil {
		return Session{}, err
	}

	resp, err := call(ctx, creds)
	if err != nil {
		return Session{}, authError(err)
	}
	if resp == nil || resp.ID == 0 || resp.Token == "" {
		return Session{}, errMalformedAuth()
	}

	user := model.User{ID: resp.ID, Username: resp.Username, Role: model.Role(resp.Role)}
	rawUser, err := json.Marshal(user)
	if err != nil {
		return Session{}, fmt.Errorf("encode user: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.SetMany(ctx, map[string]string{
		KeyAuthToken: resp.Token,
		KeyUser:      string(rawUser),
	}); err != nil {
		log.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to persist session")
		return Session{}, fmt.Errorf("%w: %v", ErrPersist, err)
	}

	s.current = Session{User: &user, Token: resp.Token}
	log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("Signed in")
	return s.current, nil
}

// Logout empties the session and removes both persisted keys
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = Session{}
	if err := s.kv.Delete(ctx, KeyAuthToken, KeyUser); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	log.Info().Msg("Signed out")
	return nil
}

// =====================================================
// ACCESSORS
// =====================================================

// Current returns a copy of the session
func (s *Store) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.current
	if out.User != nil {
		u := *out.User
		out.User = &u
	}
	return out
}

// Token is the bearer token for API calls, "" when anonymous
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Token
}

func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.IsAdmin()
}

// CurrentUser satisfies access.Identity
func (s *Store) CurrentUser() (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.current.Authenticated() {
		return model.User{}, false
	}
	return *s.current.User, true
}

// =====================================================
// HELPERS
// =====================================================

func validateCredentials(creds Credentials) error {
	err := creds.Validate()
	if err == nil {
		return nil
	}

	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for field, fieldErr := range verrs {
		fields[field] = fieldErr.Error()
	}
	return apperror.Validation(fields)
}

// authError keeps the server's message for HTTP failures and falls back to
// the generic message when the server gave none.
func authError(err error) error {
	appErr, ok := apperror.As(err)
	if !ok {
		return err
	}
	if appErr.Kind == apperror.KindHTTP && appErr.Message == "" {
		return apperror.HTTP(appErr.Status, MsgAuthFailed)
	}
	return err
}
