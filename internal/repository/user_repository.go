package repository

import (
	"context"
	"strings"

	"github.com/glanzwerk/crm/internal/domain"
	"gorm.io/gorm"
)

// UserRepository stores office accounts. Portal customers authenticate
// against the customer table instead.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create stores the account with its email lower-cased
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	user.Email = normalizeEmail(user.Email)
	return r.db.WithContext(ctx).Create(user).Error
}

// GetByEmail returns gorm.ErrRecordNotFound for unknown addresses
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := byEmail(r.db.WithContext(ctx), email).Take(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Upsert keeps the bootstrap admin in line with configuration: an account
// with the same email gets its name, role, password and active flag replaced.
func (r *UserRepository) Upsert(ctx context.Context, user *domain.User) error {
	user.Email = normalizeEmail(user.Email)
	return byEmail(r.db.WithContext(ctx), user.Email).
		Assign(map[string]interface{}{
			"display_name":  user.DisplayName,
			"password_hash": user.PasswordHash,
			"role":          user.Role,
			"is_active":     user.IsActive,
		}).
		FirstOrCreate(user).Error
}

// List returns active accounts first, each group by name
func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := r.db.WithContext(ctx).Order("is_active DESC, display_name ASC").Find(&users).Error
	return users, err
}

func byEmail(db *gorm.DB, email string) *gorm.DB {
	return db.Where("LOWER(email) = ?", normalizeEmail(email))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
