package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	authmodel "github.com/aidejuridic/chatgate/backend/internal/model/auth"
)

// DefaultRefreshMargin refreshes tokens this long before they expire.
const DefaultRefreshMargin = 60 * time.Second

// Provider is the part of the provider API the session store needs.
type Provider interface {
	RefreshSession(ctx context.Context, refreshToken string) (authmodel.Session, error)
	GetUser(ctx context.Context, accessToken string) (authmodel.User, error)
}

// Store is the cookie-backed session store.
type Store struct {
	provider      Provider
	verifier      *TokenVerifier
	logger        *zap.Logger
	now           func() time.Time
	refreshMargin time.Duration
}

// NewStore builds a session store over provider.
func NewStore(provider Provider, verifier *TokenVerifier, logger *zap.Logger) *Store {
	if verifier == nil {
		verifier = NewTokenVerifier("")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		provider:      provider,
		verifier:      verifier,
		logger:        logger,
		now:           time.Now,
		refreshMargin: DefaultRefreshMargin,
	}
}

// Session reads the caller's session from r's cookies, refreshing it when the
// access token is missing, invalid or about to expire. refreshed reports
// whether the returned tokens differ from the cookies and must be saved.
func (s *Store) Session(ctx context.Context, r *http.Request) (session authmodel.Session, refreshed bool, err error) {
	accessToken, hasAccess := readCookie(r, AccessCookieName)
	refreshToken, hasRefresh := readCookie(r, RefreshCookieName)
	if !hasAccess && !hasRefresh {
		return authmodel.Session{}, false, ErrNoSession
	}

	now := s.now()
	if hasAccess {
		current, err := s.fromAccessToken(ctx, accessToken, now)
		if err == nil && !current.ExpiresWithin(now, s.refreshMargin) {
			current.RefreshToken = refreshToken
			return current, false, nil
		}
		if err != nil {
			s.logger.Debug("access token rejected", zap.Error(err))
			if !hasRefresh {
				return authmodel.Session{}, false, fmt.Errorf("%w: %w", ErrNoSession, err)
			}
		}
	}

	if !hasRefresh {
		return authmodel.Session{}, false, fmt.Errorf("%w: access token expired", ErrNoSession)
	}

	renewed, err := s.provider.RefreshSession(ctx, refreshToken)
	if err != nil {
		return authmodel.Session{}, false, fmt.Errorf("%w: refresh: %w", ErrNoSession, err)
	}
	s.logger.Debug("session refreshed", zap.String("userId", renewed.User.ID))
	return renewed, true, nil
}

func (s *Store) fromAccessToken(ctx context.Context, accessToken string, now time.Time) (authmodel.Session, error) {
	claims, err := s.verifier.Parse(accessToken)
	if err != nil {
		return authmodel.Session{}, err
	}

	session := authmodel.Session{
		AccessToken: accessToken,
		ExpiresAt:   claims.ExpiresAt,
		User:        claims.User,
	}
	if s.verifier.Verifies() || session.ExpiresWithin(now, s.refreshMargin) {
		return session, nil
	}

	// Unsigned decoding proves nothing; ask the provider.
	user, err := s.provider.GetUser(ctx, accessToken)
	if err != nil {
		return authmodel.Session{}, err
	}
	session.User = user
	return session, nil
}

// Resolve returns the caller's session and keeps the cookies on w in sync:
// refreshed tokens are written, tokens the provider rejected are cleared.
func (s *Store) Resolve(w http.ResponseWriter, r *http.Request) (authmodel.Session, error) {
	session, refreshed, err := s.Session(r.Context(), r)
	if err != nil {
		if IsRejected(err) || errors.Is(err, ErrInvalidToken) {
			s.Clear(w, r)
		}
		return authmodel.Session{}, err
	}
	if refreshed {
		s.Save(w, r, session)
	}
	return session, nil
}

// Save writes session's tokens as cookies.
func (s *Store) Save(w http.ResponseWriter, r *http.Request, session authmodel.Session) {
	writeCookie(w, r, AccessCookieName, session.AccessToken)
	if session.RefreshToken != "" {
		writeCookie(w, r, RefreshCookieName, session.RefreshToken)
	}
}

// Clear expires the session cookies.
func (s *Store) Clear(w http.ResponseWriter, r *http.Request) {
	clearCookie(w, r, AccessCookieName)
	clearCookie(w, r, RefreshCookieName)
}

// AccessToken returns the raw access-token cookie without validating it.
func (s *Store) AccessToken(r *http.Request) string {
	token, _ := readCookie(r, AccessCookieName)
	return token
}
