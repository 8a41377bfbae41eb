// Package security hashes staff passwords with Argon2id. Hashes are stored in
// the PHC string form so the parameters travel with each hash; bcrypt hashes
// imported from the previous system still verify and are flagged for rehash.
package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"

	"github.com/meetpatel1235/rrrr/pkg/config"
)

// MinPasswordLength matches the rule enforced on registration.
const MinPasswordLength = 6

const argonPrefix = "$argon2id$"

var ErrInvalidHash = errors.New("invalid password hash")

var b64 = base64.RawStdEncoding

// argonParams are the cost settings recorded in every hash.
type argonParams struct {
	memory  uint32
	time    uint32
	threads uint8
	saltLen int
	keyLen  uint32
}

func paramsFromConfig(cfg config.PasswordConfig) argonParams {
	return argonParams{
		memory:  uint32(clamp(cfg.ArgonMemoryKB, 8, 512*1024)),
		time:    uint32(clamp(cfg.ArgonTime, 1, 10)),
		threads: uint8(clamp(cfg.ArgonParallelism, 1, 255)),
		saltLen: clamp(cfg.ArgonSaltLen, 8, 64),
		keyLen:  uint32(clamp(cfg.ArgonKeyLen, 16, 64)),
	}
}

func (p argonParams) header() string {
	return fmt.Sprintf("%sv=%d$m=%d,t=%d,p=%d$", argonPrefix, argon2.Version, p.memory, p.time, p.threads)
}

// HashPassword returns an Argon2id PHC string for password.
func HashPassword(password string, cfg config.PasswordConfig) (string, error) {
	if password == "" {
		return "", errors.New("password cannot be empty")
	}
	p := paramsFromConfig(cfg)

	salt := make([]byte, p.saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), salt, p.time, p.memory, p.threads, p.keyLen)
	return p.header() + b64.EncodeToString(salt) + "$" + b64.EncodeToString(key), nil
}

// VerifyPassword reports whether password matches encoded. A malformed hash
// yields ErrInvalidHash; a mismatch is (false, nil).
func VerifyPassword(password, encoded string) (bool, error) {
	if IsLegacyHash(encoded) {
		switch err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password)); {
		case err == nil:
			return true, nil
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return false, nil
		default:
			return false, ErrInvalidHash
		}
	}

	p, salt, want, err := parseArgon(encoded)
	if err != nil {
		return false, err
	}
	got := argon2.IDKey([]byte(password), salt, p.time, p.memory, p.threads, uint32(len(want)))
	return subtle.ConstantTimeCompare(want, got) == 1, nil
}

// IsLegacyHash reports whether encoded is a bcrypt hash.
func IsLegacyHash(encoded string) bool {
	for _, prefix := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(encoded, prefix) {
			return true
		}
	}
	return false
}

// NeedsRehash reports whether encoded should be replaced after a successful
// login: bcrypt hashes always, Argon2id hashes when the configured cost differs.
func NeedsRehash(encoded string, cfg config.PasswordConfig) bool {
	if IsLegacyHash(encoded) {
		return true
	}
	p, _, _, err := parseArgon(encoded)
	if err != nil {
		return true
	}
	want := paramsFromConfig(cfg)
	return p.memory != want.memory || p.time != want.time || p.threads != want.threads
}

// parseArgon splits "$argon2id$v=19$m=..,t=..,p=..$salt$key".
func parseArgon(encoded string) (argonParams, []byte, []byte, error) {
	if !strings.HasPrefix(encoded, argonPrefix) {
		return argonParams{}, nil, nil, ErrInvalidHash
	}
	parts := strings.Split(strings.TrimPrefix(encoded, argonPrefix), "$")
	if len(parts) != 4 {
		return argonParams{}, nil, nil, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[0], "v=%d", &version); err != nil || version != argon2.Version {
		return argonParams{}, nil, nil, ErrInvalidHash
	}
	var p argonParams
	if _, err := fmt.Sscanf(parts[1], "m=%d,t=%d,p=%d", &p.memory, &p.time, &p.threads); err != nil {
		return argonParams{}, nil, nil, ErrInvalidHash
	}

	salt, err := b64.DecodeString(parts[2])
	if err != nil {
		return argonParams{}, nil, nil, ErrInvalidHash
	}
	key, err := b64.DecodeString(parts[3])
	if err != nil || len(key) == 0 {
		return argonParams{}, nil, nil, ErrInvalidHash
	}
	p.saltLen, p.keyLen = len(salt), uint32(len(key))
	return p, salt, key, nil
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

const tempAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnpqrstuvwxyz23456789"

// GenerateTempPassword returns a random password of length characters drawn
// from an alphabet without look-alike glyphs.
func GenerateTempPassword(length int) (string, error) {
	if length < MinPasswordLength {
		return "", fmt.Errorf("length must be at least %d", MinPasswordLength)
	}
	var b strings.Builder
	limit := big.NewInt(int64(len(tempAlphabet)))
	for range length {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("generate password: %w", err)
		}
		b.WriteByte(tempAlphabet[n.Int64()])
	}
	return b.String(), nil
}
