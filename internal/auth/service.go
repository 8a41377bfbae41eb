package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meetpatel1235/rrrr/internal/users"
	pkgAuth "github.com/meetpatel1235/rrrr/pkg/auth"
	"github.com/meetpatel1235/rrrr/pkg/auth/session"
	"github.com/meetpatel1235/rrrr/pkg/config"
	"github.com/meetpatel1235/rrrr/pkg/db/models"
	pkgerrors "github.com/meetpatel1235/rrrr/pkg/errors"
	"github.com/meetpatel1235/rrrr/pkg/logger"
	"github.com/meetpatel1235/rrrr/pkg/security"
)

const invalidCredentialsMessage = "invalid credentials"

// Service opens, renews and ends staff sessions.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*Session, error)
	Refresh(ctx context.Context, req RefreshRequest) (*Session, error)
	Logout(ctx context.Context, sessionID string) error
}

type service struct {
	users       userRepository
	session     sessionManager
	tokens      tokenMinter
	passwordCfg config.PasswordConfig
	logg        *logger.Logger
	now         func() time.Time
}

type tokenMinter interface {
	Mint(sub pkgAuth.Subject, now time.Time) (string, error)
	TTL() time.Duration
}

type userRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
}

type sessionManager interface {
	Open(ctx context.Context, sessionID string, userID uuid.UUID) (string, error)
	Rotate(ctx context.Context, refreshToken string) (session.Rotation, error)
	Revoke(ctx context.Context, sessionID string) error
}

type ServiceParams struct {
	UserRepo       userRepository
	SessionManager sessionManager
	Tokens         tokenMinter
	PasswordConfig config.PasswordConfig
	Logger         *logger.Logger
	Now            func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	switch {
	case params.UserRepo == nil:
		return nil, errors.New("auth: user repository is required")
	case params.SessionManager == nil:
		return nil, errors.New("auth: session manager is required")
	case params.Tokens == nil:
		return nil, errors.New("auth: token minter is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		users:       params.UserRepo,
		session:     params.SessionManager,
		tokens:      params.Tokens,
		passwordCfg: params.PasswordConfig,
		logg:        params.Logger,
		now:         now,
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	user, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	s.rehashIfNeeded(ctx, user, req.Password)

	now, err := s.recordLogin(ctx, user)
	if err != nil {
		return nil, err
	}

	sessionID := session.NewID()
	refreshToken, err := s.session.Open(ctx, sessionID, user.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store refresh token")
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithUserID(ctx, user.ID.String()), "auth.login")
	}
	return s.issue(now, user, sessionID, refreshToken)
}

func (s *service) Refresh(ctx context.Context, req RefreshRequest) (*Session, error) {
	if strings.TrimSpace(req.RefreshToken) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "refresh token is required")
	}

	rotation, err := s.session.Rotate(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session")
	}

	user, err := s.users.FindByID(ctx, rotation.UserID)
	if err != nil || !user.IsActive {
		// the account went away while the session lived; drop it
		_ = s.session.Revoke(ctx, rotation.SessionID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
		}
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "invalid refresh token")
	}

	return s.issue(s.now().UTC(), user, rotation.SessionID, rotation.RefreshToken)
}

// Logout is a no-op for a blank session id, so repeating it is harmless.
func (s *service) Logout(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return nil
	}
	if err := s.session.Revoke(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

func (s *service) authenticate(ctx context.Context, email, password string) (*models.User, error) {
	input := strings.TrimSpace(email)
	if input == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	user, err := s.users.FindByEmail(ctx, strings.ToLower(input))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	valid, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid || !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return user, nil
}

// rehashIfNeeded replaces bcrypt or outdated argon2id hashes once the
// plaintext is known. Failures leave the old hash in place.
func (s *service) rehashIfNeeded(ctx context.Context, user *models.User, password string) {
	if !security.NeedsRehash(user.PasswordHash, s.passwordCfg) {
		return
	}
	hash, err := security.HashPassword(password, s.passwordCfg)
	if err == nil {
		err = s.users.UpdatePasswordHash(ctx, user.ID, hash)
	}
	if err != nil {
		if s.logg != nil {
			s.logg.Error(s.logg.WithUserID(ctx, user.ID.String()), "password rehash failed", err)
		}
		return
	}
	user.PasswordHash = hash
}

func (s *service) recordLogin(ctx context.Context, user *models.User) (time.Time, error) {
	now := s.now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return time.Time{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update last login")
	}
	user.LastLoginAt = &now
	return now, nil
}

func (s *service) issue(now time.Time, user *models.User, sessionID, refreshToken string) (*Session, error) {
	access, err := s.tokens.Mint(pkgAuth.Subject{UserID: user.ID, Role: user.Role, SessionID: sessionID}, now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}
	return &Session{
		AccessToken:  access,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.tokens.TTL() / time.Second),
		User:         users.FromModel(user),
	}, nil
}
