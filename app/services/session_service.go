package services

import (
	"context"
	"errors"
	"time"

	"toyblog/app/models"
	"toyblog/app/repositories"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	sessionResource = "Session"
	tokenIssuer     = "toyblog"
)

// sessionClaims is the payload of a session cookie. The token ID names the
// server-side session record and the subject is the user ID.
type sessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// SessionService issues signed session tokens backed by a session store
type SessionService struct {
	store  repositories.SessionStore
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionService(store repositories.SessionStore, secret string, ttl time.Duration) *SessionService {
	return &SessionService{store: store, secret: []byte(secret), ttl: ttl, now: time.Now}
}

// TTL is how long a new session stays valid.
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// Start opens a session for user and returns its signed token
func (s *SessionService) Start(ctx context.Context, user *models.User) (string, *models.Session, error) {
	now := s.now()
	session := &models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.store.Save(ctx, session, s.ttl); err != nil {
		return "", nil, NewUnexpectedError("failed to save session", err)
	}

	claims := &sessionClaims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID,
			Subject:   user.ID,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, NewUnexpectedError("failed to sign session token", err)
	}
	return token, session, nil
}

// Resolve returns the live session behind token
func (s *SessionService) Resolve(ctx context.Context, token string) (*models.Session, error) {
	claims, err := s.parse(token, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, NewNotFoundError(sessionResource)
	}
	session, err := s.store.Get(ctx, claims.ID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, NewNotFoundError(sessionResource)
	}
	if err != nil {
		return nil, NewUnexpectedError("failed to load session", err)
	}
	if session.UserID != claims.Subject || session.Expired(s.now()) {
		return nil, NewNotFoundError(sessionResource)
	}
	return session, nil
}

// End revokes the session behind token. Unknown or malformed tokens are ignored.
func (s *SessionService) End(ctx context.Context, token string) error {
	claims, err := s.parse(token, jwt.WithoutClaimsValidation())
	if err != nil || claims.ID == "" {
		return nil
	}
	if err := s.store.Delete(ctx, claims.ID); err != nil {
		return NewUnexpectedError("failed to delete session", err)
	}
	return nil
}

// SetFlash stores a message to show on the next page
func (s *SessionService) SetFlash(ctx context.Context, session *models.Session, flash models.Flash) error {
	session.Flash = &flash
	return s.save(ctx, session)
}

// PopFlash returns the pending flash message, if any, and clears it
func (s *SessionService) PopFlash(ctx context.Context, session *models.Session) (*models.Flash, error) {
	if session.Flash == nil {
		return nil, nil
	}
	flash := session.Flash
	session.Flash = nil
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return flash, nil
}

// save writes the session back for the rest of its lifetime.
func (s *SessionService) save(ctx context.Context, session *models.Session) error {
	remaining := session.ExpiresAt.Sub(s.now())
	if remaining <= 0 {
		return NewNotFoundError(sessionResource)
	}
	if err := s.store.Save(ctx, session, remaining); err != nil {
		return NewUnexpectedError("failed to save session", err)
	}
	return nil
}

func (s *SessionService) parse(token string, opts ...jwt.ParserOption) (*sessionClaims, error) {
	claims := &sessionClaims{}
	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(tokenIssuer))
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
