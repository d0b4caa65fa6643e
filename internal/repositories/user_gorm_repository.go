package repositories

import (
	"context"
	"errors"
	"fmt"

	"lolitems/internal/apperror"
	"lolitems/internal/models"

	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Get retrieves a user by name.
func (r *GORMUserRepository) Get(ctx context.Context, userName string) (*models.User, error) {
	var rec userRecord
	if err := r.db.WithContext(ctx).Where("user_name = ?", userName).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", userName, apperror.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user %s: %w", userName, err)
	}
	return rec.toModel(), nil
}

// Create stores a new user. The password must already be hashed.
func (r *GORMUserRepository) Create(ctx context.Context, user *models.User) (string, error) {
	rec := userRecord{
		UserName: user.UserName,
		Password: user.PasswordHash,
		Active:   user.Active,
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := exists(tx, &userRecord{}, "user_name = ?", rec.UserName)
		if err != nil {
			return err
		}
		if taken {
			return apperror.ErrConflict
		}
		// Select keeps an explicit Active=false from being replaced by the column default.
		return tx.Select("UserName", "Password", "Active").Create(&rec).Error
	})
	if err != nil {
		if errors.Is(err, apperror.ErrConflict) || errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", fmt.Errorf("user %s: %w", user.UserName, apperror.ErrConflict)
		}
		return "", fmt.Errorf("failed to create user %s: %w", user.UserName, err)
	}
	return rec.UserName, nil
}

// Update replaces a user. An empty PasswordHash keeps the stored hash.
func (r *GORMUserRepository) Update(ctx context.Context, userName string, user *models.User) (*models.User, error) {
	newName := user.UserName
	if newName == "" {
		newName = userName
	}
	var updated userRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current userRecord
		if err := tx.Where("user_name = ?", userName).Take(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.ErrNotFound
			}
			return err
		}
		if newName != userName {
			taken, err := exists(tx, &userRecord{}, "user_name = ?", newName)
			if err != nil {
				return err
			}
			if taken {
				return apperror.ErrConflict
			}
		}

		updated = userRecord{
			UserName: newName,
			Password: user.PasswordHash,
			Active:   user.Active,
		}
		if updated.Password == "" {
			updated.Password = current.Password
		}
		return tx.Model(&userRecord{}).Where("user_name = ?", userName).Updates(map[string]any{
			"user_name": updated.UserName,
			"password":  updated.Password,
			"active":    updated.Active,
		}).Error
	})
	if err != nil {
		switch {
		case errors.Is(err, apperror.ErrNotFound):
			return nil, fmt.Errorf("user %s: %w", userName, apperror.ErrNotFound)
		case errors.Is(err, apperror.ErrConflict), errors.Is(err, gorm.ErrDuplicatedKey):
			return nil, fmt.Errorf("user %s: %w", newName, apperror.ErrConflict)
		}
		return nil, fmt.Errorf("failed to update user %s: %w", userName, err)
	}
	return updated.toModel(), nil
}

// Delete deletes a user by name.
func (r *GORMUserRepository) Delete(ctx context.Context, userName string) error {
	res := r.db.WithContext(ctx).Where("user_name = ?", userName).Delete(&userRecord{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete user %s: %w", userName, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user %s: %w", userName, apperror.ErrNotFound)
	}
	return nil
}
