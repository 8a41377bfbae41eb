package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meetpatel1235/rrrr/pkg/config"
	"github.com/meetpatel1235/rrrr/pkg/db"
	"github.com/meetpatel1235/rrrr/pkg/enums"
	pkgerrors "github.com/meetpatel1235/rrrr/pkg/errors"
	"github.com/meetpatel1235/rrrr/pkg/security"
)

// Service manages staff accounts.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*UserDTO, error)
	EnsureAdmin(ctx context.Context, name, email, password string) (bool, error)
	Get(ctx context.Context, id uuid.UUID) (*UserDTO, error)
	List(ctx context.Context) ([]UserDTO, error)
}

type service struct {
	repo        *Repository
	passwordCfg config.PasswordConfig
}

// NewService builds the user service.
func NewService(repo *Repository, passwordCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: repo, passwordCfg: passwordCfg}, nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*UserDTO, error) {
	dto, err := s.prepare(req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.Create(ctx, *dto)
	if err != nil {
		if db.IsUniqueViolation(err, "users_email_key", "email") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}
	return FromModel(user), nil
}

// EnsureAdmin creates the bootstrap admin when the email is unused. Running it
// again is harmless.
func (s *service) EnsureAdmin(ctx context.Context, name, email, password string) (bool, error) {
	if strings.TrimSpace(name) == "" {
		name = "Administrator"
	}
	dto, err := s.prepare(name, email, password, string(enums.UserRoleAdmin))
	if err != nil {
		return false, err
	}
	created, err := s.repo.CreateIfAbsent(ctx, *dto)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "seed admin")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return FromModel(user), nil
}

func (s *service) List(ctx context.Context) ([]UserDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	out := make([]UserDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) prepare(name, email, password, role string) (*CreateUserDTO, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.Validation("name", "Name is required")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, pkgerrors.Validation("email", "A valid email is required")
	}
	if len(password) < security.MinPasswordLength {
		return nil, pkgerrors.Validation("password", fmt.Sprintf("Password must be at least %d characters", security.MinPasswordLength))
	}
	parsedRole := enums.UserRoleWorker
	if strings.TrimSpace(role) != "" {
		r, err := enums.ParseUserRole(strings.TrimSpace(role))
		if err != nil {
			return nil, pkgerrors.Validation("role", "Role must be admin or worker")
		}
		parsedRole = r
	}

	hash, err := security.HashPassword(password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	return &CreateUserDTO{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         parsedRole,
	}, nil
}
