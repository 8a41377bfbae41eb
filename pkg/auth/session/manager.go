// Package session keeps refresh sessions in Redis. Each session is keyed by
// the access token's jti; the refresh token handed to the client is
// "<session id>.<secret>" and only a digest of the secret is stored.
package session

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"

	"github.com/meetpatel1235/rrrr/pkg/config"
	redisclient "github.com/meetpatel1235/rrrr/pkg/redis"
)

const secretBytes = 32

var ErrInvalidRefreshToken = errors.New("invalid refresh token")

type store interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	SessionKey(sessionID string) string
}

// Checker is the read-only view the auth middleware needs.
type Checker interface {
	Active(ctx context.Context, sessionID string) (bool, error)
}

// Rotation is the outcome of redeeming a refresh token.
type Rotation struct {
	UserID       uuid.UUID
	SessionID    string
	RefreshToken string
}

type record struct {
	UserID   uuid.UUID `json:"uid"`
	Digest   string    `json:"digest"`
	OpenedAt time.Time `json:"openedAt"`
}

type Manager struct {
	store store
	ttl   time.Duration
	now   func() time.Time
}

// NewManager constructs a session manager backed by Redis. Refresh sessions
// must outlive the access tokens bound to them.
func NewManager(client *redisclient.Client, cfg config.JWTConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	ttl := cfg.RefreshTokenTTL()
	accessTTL := time.Duration(cfg.ExpirationMinutes) * time.Minute
	switch {
	case ttl <= 0:
		return nil, fmt.Errorf("refresh token ttl must be positive")
	case ttl <= accessTTL:
		return nil, fmt.Errorf("refresh token ttl (%s) must exceed access token ttl (%s)", ttl, accessTTL)
	}
	return &Manager{store: client, ttl: ttl, now: time.Now}, nil
}

// NewID returns a fresh session identifier, used as the JWT jti.
func NewID() string {
	return uuid.NewString()
}

// Open stores a session for userID and returns its refresh token.
func (m *Manager) Open(ctx context.Context, sessionID string, userID uuid.UUID) (string, error) {
	if strings.TrimSpace(sessionID) == "" {
		return "", fmt.Errorf("session id is required")
	}
	if userID == uuid.Nil {
		return "", fmt.Errorf("user id is required")
	}

	secret := make([]byte, secretBytes)
	if _, err := rand.Read(secret); err != nil {
		return "", fmt.Errorf("generating refresh secret: %w", err)
	}
	encoded := base64.RawURLEncoding.EncodeToString(secret)

	payload, err := json.Marshal(record{UserID: userID, Digest: digest(encoded), OpenedAt: m.now().UTC()})
	if err != nil {
		return "", err
	}
	if err := m.store.Set(ctx, m.store.SessionKey(sessionID), payload, m.ttl); err != nil {
		return "", err
	}
	return sessionID + "." + encoded, nil
}

// Rotate redeems a refresh token. The old session is removed before the new
// one opens, so a token can be redeemed at most once.
func (m *Manager) Rotate(ctx context.Context, refreshToken string) (Rotation, error) {
	sessionID, secret, ok := strings.Cut(strings.TrimSpace(refreshToken), ".")
	if !ok || sessionID == "" || secret == "" {
		return Rotation{}, ErrInvalidRefreshToken
	}

	key := m.store.SessionKey(sessionID)
	rec, err := m.load(ctx, key)
	if err != nil {
		return Rotation{}, err
	}
	if subtle.ConstantTimeCompare([]byte(rec.Digest), []byte(digest(secret))) != 1 {
		return Rotation{}, ErrInvalidRefreshToken
	}
	if err := m.store.Del(ctx, key); err != nil {
		return Rotation{}, err
	}

	next := NewID()
	token, err := m.Open(ctx, next, rec.UserID)
	if err != nil {
		return Rotation{}, err
	}
	return Rotation{UserID: rec.UserID, SessionID: next, RefreshToken: token}, nil
}

// Revoke ends the session. Revoking an unknown session is not an error.
func (m *Manager) Revoke(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	return m.store.Del(ctx, m.store.SessionKey(sessionID))
}

// Active reports whether the session is still open.
func (m *Manager) Active(ctx context.Context, sessionID string) (bool, error) {
	if strings.TrimSpace(sessionID) == "" {
		return false, nil
	}
	_, err := m.store.Get(ctx, m.store.SessionKey(sessionID))
	switch {
	case errors.Is(err, redislib.Nil):
		return false, nil
	case err != nil:
		return false, err
	}
	return true, nil
}

func (m *Manager) load(ctx context.Context, key string) (record, error) {
	raw, err := m.store.Get(ctx, key)
	if errors.Is(err, redislib.Nil) {
		return record{}, ErrInvalidRefreshToken
	}
	if err != nil {
		return record{}, err
	}
	var rec record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil || rec.UserID == uuid.Nil {
		return record{}, ErrInvalidRefreshToken
	}
	return rec, nil
}

func digest(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
