package security_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/meetpatel1235/rrrr/pkg/config"
	"github.com/meetpatel1235/rrrr/pkg/security"
)

var fastParams = config.PasswordConfig{
	ArgonMemoryKB:    32768,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := security.HashPassword("admin123", fastParams)
	require.NoError(t, err)
	assert.Contains(t, hash, "$argon2id$v=19$m=32768,t=1,p=1$")
	assert.False(t, security.IsLegacyHash(hash))

	ok, err := security.VerifyPassword("admin123", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = security.VerifyPassword("bogus-password", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = security.HashPassword("", fastParams)
	assert.Error(t, err)
}

func TestVerifyLegacyBcryptHash(t *testing.T) {
	legacy, err := bcrypt.GenerateFromPassword([]byte("worker123"), bcrypt.MinCost)
	require.NoError(t, err)
	require.True(t, security.IsLegacyHash(string(legacy)))

	ok, err := security.VerifyPassword("worker123", string(legacy))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = security.VerifyPassword("wrong", string(legacy))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPasswordBadHash(t *testing.T) {
	_, err := security.VerifyPassword("irrelevant", "not-a-hash")
	assert.ErrorIs(t, err, security.ErrInvalidHash)
}

func TestGenerateTempPassword(t *testing.T) {
	pw, err := security.GenerateTempPassword(12)
	require.NoError(t, err)
	assert.Len(t, pw, 12)

	_, err = security.GenerateTempPassword(0)
	assert.Error(t, err)
}

func TestNeedsRehash(t *testing.T) {
	hash, err := security.HashPassword("admin123", fastParams)
	require.NoError(t, err)
	assert.False(t, security.NeedsRehash(hash, fastParams))

	stronger := fastParams
	stronger.ArgonTime = 3
	assert.True(t, security.NeedsRehash(hash, stronger))

	legacy, err := bcrypt.GenerateFromPassword([]byte("worker123"), bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, security.NeedsRehash(string(legacy), fastParams))
	assert.True(t, security.NeedsRehash("garbage", fastParams))
}

func TestVerifyPasswordRejectsTruncatedArgonHash(t *testing.T) {
	hash, err := security.HashPassword("admin123", fastParams)
	require.NoError(t, err)
	cut := hash[:strings.LastIndex(hash, "$")]

	_, err = security.VerifyPassword("admin123", cut)
	assert.ErrorIs(t, err, security.ErrInvalidHash)
}
