package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mentoroid/user-service/internal/models"
	"gorm.io/gorm"
)

// NormalizeEmail lowercases and trims an email so lookups and writes agree
// on a single canonical form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserStore persists user accounts.
type UserStore struct {
	db *gorm.DB
}

// NewUserStore constructs a UserStore.
func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// FindByEmail loads a user by normalized email. Returns ErrNotFound when
// no account owns the address.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	errFind := s.db.WithContext(ctx).
		Where("email = ?", NormalizeEmail(email)).
		First(&user).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("user store: find by email: %w", errFind)
	}
	return &user, nil
}

// FindByID loads a user by primary key.
func (s *UserStore) FindByID(ctx context.Context, id uint64) (*models.User, error) {
	var user models.User
	errFind := s.db.WithContext(ctx).First(&user, id).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("user store: find by id: %w", errFind)
	}
	return &user, nil
}

// Create inserts a verified user. Returns ErrConflict when the email is
// already taken; the unique index is the authority, not a prior read.
func (s *UserStore) Create(ctx context.Context, name, email, passwordHash string) (*models.User, error) {
	now := time.Now().UTC()
	user := models.User{
		Name:         strings.TrimSpace(name),
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		IsVerified:   true,
		Role:         "user",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if errCreate := s.db.WithContext(ctx).Create(&user).Error; errCreate != nil {
		if isUniqueViolation(errCreate) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("user store: create: %w", errCreate)
	}
	return &user, nil
}

// SetPasswordHash overwrites the password hash for the account owning email.
func (s *UserStore) SetPasswordHash(ctx context.Context, email, hash string) error {
	res := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("email = ?", NormalizeEmail(email)).
		Updates(map[string]any{
			"password_hash": hash,
			"updated_at":    time.Now().UTC(),
		})
	if res.Error != nil {
		return fmt.Errorf("user store: set password hash: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetName updates the display name for a user.
func (s *UserStore) SetName(ctx context.Context, id uint64, name string) error {
	res := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"name":       strings.TrimSpace(name),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return fmt.Errorf("user store: set name: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
