package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	pkgAuth "github.com/meetpatel1235/rrrr/pkg/auth"
	"github.com/meetpatel1235/rrrr/pkg/auth/session"
	"github.com/meetpatel1235/rrrr/pkg/config"
	"github.com/meetpatel1235/rrrr/pkg/db/models"
	"github.com/meetpatel1235/rrrr/pkg/enums"
	pkgerrors "github.com/meetpatel1235/rrrr/pkg/errors"
	"github.com/meetpatel1235/rrrr/pkg/security"
)

var testTokens = pkgAuth.MustTokens(config.JWTConfig{
	Secret:                 "secret",
	Issuer:                 "rasoi-vasan",
	ExpirationMinutes:      30,
	RefreshTokenTTLMinutes: 600,
})

func TestServiceLoginMintsRoleClaim(t *testing.T) {
	password := "worker-secret"
	user := &models.User{
		ID:           uuid.New(),
		Name:         "Ramesh",
		Email:        "ramesh@example.com",
		PasswordHash: mustHashPassword(t, password),
		Role:         enums.UserRoleWorker,
		IsActive:     true,
	}

	svc, sessions, repo := buildTestService(t, user)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "  RAMESH@example.com ",
		Password: password,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := testTokens.Verify(resp.AccessToken)
	if err != nil {
		t.Fatalf("verify access token: %v", err)
	}
	if resp.TokenType != "Bearer" || resp.ExpiresIn != 30*60 {
		t.Fatalf("unexpected token metadata %q %d", resp.TokenType, resp.ExpiresIn)
	}
	if claims.Role != enums.UserRoleWorker {
		t.Fatalf("expected worker role claim, got %s", claims.Role)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected user id claim %s, got %s", user.ID, claims.UserID)
	}
	if resp.RefreshToken == "" {
		t.Fatalf("expected refresh token to be set")
	}
	if sessions.generated[claims.SessionID()] != user.ID {
		t.Fatalf("expected session bound to jti %s", claims.ID)
	}
	if repo.lastLogin == nil {
		t.Fatalf("expected last login to be stamped")
	}
	if resp.User == nil || resp.User.Email != user.Email {
		t.Fatalf("expected user payload, got %+v", resp.User)
	}
}

func TestServiceLoginRejectsBadCredentials(t *testing.T) {
	password := "correct-horse"
	active := &models.User{
		ID:           uuid.New(),
		Email:        "admin@example.com",
		PasswordHash: mustHashPassword(t, password),
		Role:         enums.UserRoleAdmin,
		IsActive:     true,
	}
	inactive := *active
	inactive.IsActive = false

	cases := []struct {
		name  string
		user  *models.User
		email string
		pass  string
	}{
		{name: "wrong password", user: active, email: active.Email, pass: "nope"},
		{name: "unknown email", user: nil, email: "ghost@example.com", pass: password},
		{name: "blank email", user: active, email: "  ", pass: password},
		{name: "inactive account", user: &inactive, email: active.Email, pass: password},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, sessions, _ := buildTestService(t, tc.user)
			_, err := svc.Login(context.Background(), LoginRequest{Email: tc.email, Password: tc.pass})
			assertCode(t, err, pkgerrors.CodeUnauthorized)
			if msg := pkgerrors.As(err).Message(); msg != invalidCredentialsMessage {
				t.Fatalf("expected %q, got %q", invalidCredentialsMessage, msg)
			}
			if len(sessions.generated) != 0 {
				t.Fatalf("expected no session to be opened")
			}
		})
	}
}

func TestServiceLoginUpgradesLegacyHash(t *testing.T) {
	password := "legacy-pass"
	legacy, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	user := &models.User{
		ID:           uuid.New(),
		Email:        "old@example.com",
		PasswordHash: string(legacy),
		Role:         enums.UserRoleAdmin,
		IsActive:     true,
	}

	svc, _, repo := buildTestService(t, user)
	if _, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: password}); err != nil {
		t.Fatalf("login: %v", err)
	}

	if !strings.HasPrefix(repo.rehashed, "$argon2id$") {
		t.Fatalf("expected argon2id rehash, got %q", repo.rehashed)
	}
	ok, err := security.VerifyPassword(password, repo.rehashed)
	if err != nil || !ok {
		t.Fatalf("rehash does not verify: ok=%v err=%v", ok, err)
	}
}

func TestServiceRefreshRotatesSession(t *testing.T) {
	user := &models.User{
		ID:       uuid.New(),
		Email:    "admin@example.com",
		Role:     enums.UserRoleAdmin,
		IsActive: true,
	}
	svc, sessions, _ := buildTestService(t, user)
	sessions.rotation = session.Rotation{UserID: user.ID, SessionID: "next-jti", RefreshToken: "next-jti.secret"}

	resp, err := svc.Refresh(context.Background(), RefreshRequest{RefreshToken: "old-jti.secret"})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if resp.RefreshToken != "next-jti.secret" {
		t.Fatalf("expected rotated refresh token, got %q", resp.RefreshToken)
	}
	claims, err := testTokens.Verify(resp.AccessToken)
	if err != nil {
		t.Fatalf("verify access token: %v", err)
	}
	if claims.SessionID() != "next-jti" || claims.Role != enums.UserRoleAdmin {
		t.Fatalf("unexpected claims: jti=%s role=%s", claims.ID, claims.Role)
	}
}

func TestServiceRefreshFailures(t *testing.T) {
	user := &models.User{ID: uuid.New(), Role: enums.UserRoleWorker, IsActive: false}

	t.Run("invalid token", func(t *testing.T) {
		svc, sessions, _ := buildTestService(t, user)
		sessions.rotateErr = session.ErrInvalidRefreshToken
		_, err := svc.Refresh(context.Background(), RefreshRequest{RefreshToken: "bogus"})
		assertCode(t, err, pkgerrors.CodeForbidden)
	})

	t.Run("blank token", func(t *testing.T) {
		svc, _, _ := buildTestService(t, user)
		_, err := svc.Refresh(context.Background(), RefreshRequest{})
		assertCode(t, err, pkgerrors.CodeUnauthorized)
	})

	t.Run("deactivated user", func(t *testing.T) {
		svc, sessions, _ := buildTestService(t, user)
		sessions.rotation = session.Rotation{UserID: user.ID, SessionID: "jti-2", RefreshToken: "jti-2.s"}
		_, err := svc.Refresh(context.Background(), RefreshRequest{RefreshToken: "jti-1.s"})
		assertCode(t, err, pkgerrors.CodeForbidden)
		if len(sessions.revoked) != 1 || sessions.revoked[0] != "jti-2" {
			t.Fatalf("expected rotated session to be revoked, got %v", sessions.revoked)
		}
	})

	t.Run("store outage", func(t *testing.T) {
		svc, sessions, _ := buildTestService(t, user)
		sessions.rotateErr = errors.New("redis down")
		_, err := svc.Refresh(context.Background(), RefreshRequest{RefreshToken: "a.b"})
		assertCode(t, err, pkgerrors.CodeDependency)
	})
}

func TestServiceLogoutRevokesSession(t *testing.T) {
	svc, sessions, _ := buildTestService(t, nil)

	if err := svc.Logout(context.Background(), "jti-9"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if err := svc.Logout(context.Background(), ""); err != nil {
		t.Fatalf("blank logout: %v", err)
	}
	if len(sessions.revoked) != 1 || sessions.revoked[0] != "jti-9" {
		t.Fatalf("expected one revocation, got %v", sessions.revoked)
	}
}

func buildTestService(t *testing.T, user *models.User) (Service, *stubSessionManager, *stubUserRepo) {
	t.Helper()
	repo := &stubUserRepo{user: user}
	sessions := &stubSessionManager{generated: map[string]uuid.UUID{}}
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sessions,
		Tokens:         testTokens,
		Now:            func() time.Time { return time.Now() },
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc, sessions, repo
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != code {
		t.Fatalf("expected %s error, got %v", code, err)
	}
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

type stubUserRepo struct {
	user      *models.User
	lastLogin *time.Time
	rehashed  string
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.user == nil || s.user.Email != email {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	s.lastLogin = &at
	return nil
}

func (s *stubUserRepo) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	s.rehashed = hash
	return nil
}

type stubSessionManager struct {
	generated map[string]uuid.UUID
	revoked   []string
	rotation  session.Rotation
	rotateErr error
}

func (s *stubSessionManager) Open(ctx context.Context, sessionID string, userID uuid.UUID) (string, error) {
	s.generated[sessionID] = userID
	return sessionID + ".refresh", nil
}

func (s *stubSessionManager) Rotate(ctx context.Context, refreshToken string) (session.Rotation, error) {
	if s.rotateErr != nil {
		return session.Rotation{}, s.rotateErr
	}
	return s.rotation, nil
}

func (s *stubSessionManager) Revoke(ctx context.Context, sessionID string) error {
	s.revoked = append(s.revoked, sessionID)
	return nil
}
