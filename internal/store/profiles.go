package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mentoroid/user-service/internal/models"
	"gorm.io/gorm"
)

// ProfileUpdate carries profile fields for an upsert. Nil pointers mean
// "leave the stored value untouched".
type ProfileUpdate struct {
	StudentWhatsapp *string
	ParentWhatsapp  *string
	SchoolName      *string
	Board           *string
	Class           *string
	ProfileImage    *string
}

// ProfileStore persists the one-to-one student profiles.
type ProfileStore struct {
	db *gorm.DB
}

// NewProfileStore constructs a ProfileStore.
func NewProfileStore(db *gorm.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

// Get loads a user's profile with the owning user preloaded. Returns
// ErrNotFound when no profile row exists yet.
func (s *ProfileStore) Get(ctx context.Context, userID uint64) (*models.Profile, error) {
	var profile models.Profile
	errFind := s.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		First(&profile).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("profile store: get: %w", errFind)
	}
	return &profile, nil
}

// Exists reports whether a profile row exists for the user.
func (s *ProfileStore) Exists(ctx context.Context, userID uint64) (bool, error) {
	var count int64
	errCount := s.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if errCount != nil {
		return false, fmt.Errorf("profile store: exists: %w", errCount)
	}
	return count > 0, nil
}

// Create inserts a new profile. Returns ErrConflict when the user already
// has one.
func (s *ProfileStore) Create(ctx context.Context, profile *models.Profile) error {
	now := time.Now().UTC()
	profile.CreatedAt = now
	profile.UpdatedAt = now
	if errCreate := s.db.WithContext(ctx).Create(profile).Error; errCreate != nil {
		if isUniqueViolation(errCreate) {
			return ErrConflict
		}
		return fmt.Errorf("profile store: create: %w", errCreate)
	}
	return nil
}

// Upsert creates the profile when absent, otherwise merges only the
// supplied fields into the existing row.
func (s *ProfileStore) Upsert(ctx context.Context, userID uint64, update ProfileUpdate) (*models.Profile, error) {
	var profile models.Profile
	errFind := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&profile).Error
	if errFind != nil {
		if !errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("profile store: upsert: %w", errFind)
		}
		created := models.Profile{
			UserID:          userID,
			StudentWhatsapp: deref(update.StudentWhatsapp),
			ParentWhatsapp:  deref(update.ParentWhatsapp),
			SchoolName:      deref(update.SchoolName),
			Board:           deref(update.Board),
			Class:           deref(update.Class),
			ProfileImage:    deref(update.ProfileImage),
		}
		if errCreate := s.Create(ctx, &created); errCreate != nil {
			return nil, errCreate
		}
		return &created, nil
	}

	applyProfileUpdate(&profile, update)
	profile.UpdatedAt = time.Now().UTC()
	if errSave := s.db.WithContext(ctx).Save(&profile).Error; errSave != nil {
		return nil, fmt.Errorf("profile store: save: %w", errSave)
	}
	return &profile, nil
}

// applyProfileUpdate merges non-nil fields into the profile.
func applyProfileUpdate(profile *models.Profile, update ProfileUpdate) {
	if update.StudentWhatsapp != nil {
		profile.StudentWhatsapp = *update.StudentWhatsapp
	}
	if update.ParentWhatsapp != nil {
		profile.ParentWhatsapp = *update.ParentWhatsapp
	}
	if update.SchoolName != nil {
		profile.SchoolName = *update.SchoolName
	}
	if update.Board != nil {
		profile.Board = *update.Board
	}
	if update.Class != nil {
		profile.Class = *update.Class
	}
	if update.ProfileImage != nil {
		profile.ProfileImage = *update.ProfileImage
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
