// Package auth mints and verifies the HS256 access tokens handed to staff.
// A token names its user and role and carries the session id (jti) the
// refresh session in redis is keyed by.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/meetpatel1235/rrrr/pkg/config"
	"github.com/meetpatel1235/rrrr/pkg/enums"
)

var ErrInvalidToken = errors.New("auth: invalid access token")

// Claims is the verified body of an access token.
type Claims struct {
	UserID uuid.UUID      `json:"userId"`
	Role   enums.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// SessionID is the jti binding the token to its refresh session.
func (c *Claims) SessionID() string { return c.ID }

// Subject is who a token is minted for. An empty SessionID gets a random one.
type Subject struct {
	UserID    uuid.UUID
	Role      enums.UserRole
	SessionID string
}

// Tokens signs and verifies access tokens with one shared secret.
type Tokens struct {
	key    []byte
	issuer string
	ttl    time.Duration
	parser *jwt.Parser
}

func NewTokens(cfg config.JWTConfig) (*Tokens, error) {
	switch {
	case cfg.Secret == "":
		return nil, errors.New("auth: jwt secret is required")
	case strings.TrimSpace(cfg.Issuer) == "":
		return nil, errors.New("auth: jwt issuer is required")
	case cfg.ExpirationMinutes <= 0:
		return nil, errors.New("auth: jwt expiration must be positive")
	}
	return &Tokens{
		key:    []byte(cfg.Secret),
		issuer: cfg.Issuer,
		ttl:    time.Duration(cfg.ExpirationMinutes) * time.Minute,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(cfg.Issuer),
			jwt.WithExpirationRequired(),
			jwt.WithIssuedAt(),
		),
	}, nil
}

// MustTokens is NewTokens for wiring code and tests where the config is known good.
func MustTokens(cfg config.JWTConfig) *Tokens {
	t, err := NewTokens(cfg)
	if err != nil {
		panic(err)
	}
	return t
}

// TTL is the lifetime of every minted token.
func (t *Tokens) TTL() time.Duration { return t.ttl }

// Mint signs a token for sub valid from now for TTL.
func (t *Tokens) Mint(sub Subject, now time.Time) (string, error) {
	if sub.UserID == uuid.Nil {
		return "", errors.New("auth: user id is required")
	}
	if !sub.Role.IsValid() {
		return "", fmt.Errorf("auth: invalid role %q", sub.Role)
	}
	sessionID := strings.TrimSpace(sub.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	claims := Claims{
		UserID: sub.UserID,
		Role:   sub.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   sub.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			ID:        sessionID,
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.key)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, issuer and expiry. Every failure wraps
// ErrInvalidToken.
func (t *Tokens) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := t.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return t.key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.UserID == uuid.Nil || !claims.Role.IsValid() || claims.ID == "" {
		return nil, fmt.Errorf("%w: incomplete identity", ErrInvalidToken)
	}
	return claims, nil
}
