package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meetpatel1235/rrrr/pkg/config"
	"github.com/meetpatel1235/rrrr/pkg/enums"
)

var testCfg = config.JWTConfig{Secret: "secret", Issuer: "rasoi", ExpirationMinutes: 30}

func TestMintThenVerify(t *testing.T) {
	tokens := MustTokens(testCfg)
	userID := uuid.New()
	now := time.Now().Truncate(time.Second)

	raw, err := tokens.Mint(Subject{UserID: userID, Role: enums.UserRoleAdmin, SessionID: "jti-1"}, now)
	require.NoError(t, err)

	claims, err := tokens.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, enums.UserRoleAdmin, claims.Role)
	assert.Equal(t, "jti-1", claims.SessionID())
	assert.Equal(t, userID.String(), claims.Subject)
	assert.True(t, claims.ExpiresAt.Time.Equal(now.Add(30*time.Minute)))
	assert.Equal(t, 30*time.Minute, tokens.TTL())
}

func TestMintGeneratesSessionID(t *testing.T) {
	tokens := MustTokens(testCfg)
	raw, err := tokens.Mint(Subject{UserID: uuid.New(), Role: enums.UserRoleWorker}, time.Now())
	require.NoError(t, err)

	claims, err := tokens.Verify(raw)
	require.NoError(t, err)
	_, err = uuid.Parse(claims.SessionID())
	assert.NoError(t, err)
}

func TestVerifyRejects(t *testing.T) {
	tokens := MustTokens(testCfg)
	sub := Subject{UserID: uuid.New(), Role: enums.UserRoleWorker}
	good, err := tokens.Mint(sub, time.Now())
	require.NoError(t, err)
	expired, err := tokens.Mint(sub, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	otherSecret := testCfg
	otherSecret.Secret = "other"
	otherIssuer := testCfg
	otherIssuer.Issuer = "someone-else"

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID: sub.UserID, Role: sub.Role,
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "rasoi", ID: "x", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	cases := map[string]struct {
		tokens *Tokens
		raw    string
	}{
		"garbage":      {tokens, "not-a-jwt"},
		"tampered":     {tokens, good + "x"},
		"expired":      {tokens, expired},
		"wrong secret": {MustTokens(otherSecret), good},
		"wrong issuer": {MustTokens(otherIssuer), good},
		"unsigned":     {tokens, noneAlg},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := tc.tokens.Verify(tc.raw)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestMintRejectsIncompleteSubject(t *testing.T) {
	tokens := MustTokens(testCfg)
	_, err := tokens.Mint(Subject{UserID: uuid.New()}, time.Now())
	assert.Error(t, err)
	_, err = tokens.Mint(Subject{Role: enums.UserRoleAdmin}, time.Now())
	assert.Error(t, err)
}

func TestNewTokensValidatesConfig(t *testing.T) {
	for _, cfg := range []config.JWTConfig{
		{Issuer: "x", ExpirationMinutes: 1},
		{Secret: "s", ExpirationMinutes: 1},
		{Secret: "s", Issuer: "x"},
	} {
		_, err := NewTokens(cfg)
		assert.Error(t, err, "%+v", cfg)
	}
}
