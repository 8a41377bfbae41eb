package users

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/meetpatel1235/rrrr/pkg/db/models"
)

// Repository reads and writes staff accounts.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateIfAbsent inserts the account unless its email is taken and reports
// whether a row was written.
func (r *Repository) CreateIfAbsent(ctx context.Context, dto CreateUserDTO) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "email"}}, DoNothing: true}).
		Create(dto.ToModel())
	return res.RowsAffected == 1, res.Error
}

// FindByEmail expects an already lowercased address.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.first(ctx, "id = ?", id)
}

// List returns every account, alphabetically.
func (r *Repository) List(ctx context.Context) ([]models.User, error) {
	var out []models.User
	err := r.db.WithContext(ctx).Order("name ASC").Order("email ASC").Find(&out).Error
	return out, err
}

func (r *Repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.touch(ctx, id, "last_login_at", at)
}

// UpdatePasswordHash stores a re-derived hash after a successful login.
func (r *Repository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	return r.touch(ctx, id, "password_hash", hash)
}

func (r *Repository) first(ctx context.Context, cond string, arg any) (*models.User, error) {
	user := new(models.User)
	if err := r.db.WithContext(ctx).Where(cond, arg).Take(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateColumn skips hooks and leaves updated_at alone.
func (r *Repository) touch(ctx context.Context, id uuid.UUID, column string, value any) error {
	return r.db.WithContext(ctx).Model(&models.User{ID: id}).UpdateColumn(column, value).Error
}
