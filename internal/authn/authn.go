package authn

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/courtside/rosterd/internal/config"
	profiledomain "github.com/courtside/rosterd/internal/profile/domain"
)

var ErrInvalidToken = errors.New("Invalid or expired token")

// Caller is the authenticated principal attached to each request.
type Caller struct {
	ID   uuid.UUID
	Role string
}

// Authenticator resolves a bearer token to a caller.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*Caller, error)
}

type jwtAuthenticator struct {
	secret   []byte
	profiles profiledomain.Repository
}

func New(cfg config.Config, profiles profiledomain.Repository) Authenticator {
	return &jwtAuthenticator{
		secret:   []byte(cfg.AuthJWTSecret),
		profiles: profiles,
	}
}

func (a *jwtAuthenticator) Authenticate(ctx context.Context, token string) (*Caller, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return a.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	subject, err := parsed.Claims.GetSubject()
	if err != nil || subject == "" {
		return nil, ErrInvalidToken
	}
	id, err := uuid.Parse(subject)
	if err != nil {
		return nil, ErrInvalidToken
	}

	profile, err := a.profiles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrInvalidToken
	}
	return &Caller{ID: id, Role: profile.Role}, nil
}

// IssueToken signs a token for the given identity. Used by tests and
// local tooling rather than the request path.
func IssueToken(secret string, identityID uuid.UUID) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": identityID.String(),
	})
	return token.SignedString([]byte(secret))
}
