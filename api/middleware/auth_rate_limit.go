package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/meetpatel1235/rrrr/api/responses"
	"github.com/meetpatel1235/rrrr/pkg/config"
	pkgerrors "github.com/meetpatel1235/rrrr/pkg/errors"
	"github.com/meetpatel1235/rrrr/pkg/logger"
)

// RateLimitStore counts attempts in fixed windows.
type RateLimitStore interface {
	IncrWithTTL(ctx context.Context, key string, window time.Duration) (int64, error)
	RateLimitKey(policy, dimension, value string) string
}

// LoginLimits caps login attempts per client address and per account email
// within one window. A zero limit disables that dimension.
type LoginLimits struct {
	Window   time.Duration
	PerIP    int
	PerEmail int
}

func LoginLimitsFromConfig(cfg config.AuthRateLimitConfig) LoginLimits {
	return LoginLimits{
		Window:   cfg.LoginWindow,
		PerIP:    cfg.LoginIPLimit,
		PerEmail: cfg.LoginEmailLimit,
	}
}

func (l LoginLimits) active() bool {
	return l.Window > 0 && (l.PerIP > 0 || l.PerEmail > 0)
}

type throttleCounter struct {
	dimension string
	value     string
	limit     int
}

// AuthRateLimit throttles credential guessing on the named policy. The email
// is hashed before it becomes part of a Redis key or a log line.
func AuthRateLimit(policy string, limits LoginLimits, store RateLimitStore, logg *logger.Logger) func(http.Handler) http.Handler {
	policy = strings.ToLower(strings.TrimSpace(policy))
	if policy == "" {
		policy = "auth"
	}
	return func(next http.Handler) http.Handler {
		if store == nil || !limits.active() {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			counters := make([]throttleCounter, 0, 2)
			if limits.PerIP > 0 {
				if ip := clientAddr(r); ip != "" {
					counters = append(counters, throttleCounter{dimension: "ip", value: ip, limit: limits.PerIP})
				}
			}
			if limits.PerEmail > 0 {
				body, err := io.ReadAll(r.Body)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unable to read request body"))
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))
				if digest := loginEmailDigest(body); digest != "" {
					counters = append(counters, throttleCounter{dimension: "email", value: digest, limit: limits.PerEmail})
				}
			}

			for _, counter := range counters {
				key := store.RateLimitKey(policy, counter.dimension, counter.value)
				attempts, err := store.IncrWithTTL(ctx, key, limits.Window)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiter unavailable"))
					return
				}
				if attempts > int64(counter.limit) {
					rejectThrottled(ctx, logg, w, policy, counter, attempts, limits.Window)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func rejectThrottled(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, policy string, counter throttleCounter, attempts int64, window time.Duration) {
	if logg != nil {
		logg.Warn(logg.WithFields(ctx, map[string]any{
			"policy":    policy,
			"dimension": counter.dimension,
			"subject":   counter.value,
			"attempts":  attempts,
			"limit":     counter.limit,
		}), "auth.throttled")
	}
	w.Header().Set("Retry-After", strconv.Itoa(int(window.Round(time.Second).Seconds())))
	responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many login attempts, try again later"))
}

// clientAddr trusts the first X-Forwarded-For hop, the platform router
// being the only ingress.
func clientAddr(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func loginEmailDigest(body []byte) string {
	var creds struct {
		Email string `json:"email"`
	}
	if json.Unmarshal(body, &creds) != nil {
		return ""
	}
	email := strings.ToLower(strings.TrimSpace(creds.Email))
	if email == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(email))
	return hex.EncodeToString(sum[:16])
}
