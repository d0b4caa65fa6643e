package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"lolitems/internal/apperror"
	"lolitems/internal/models"
	"lolitems/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher turns a plaintext password into a storable hash.
type PasswordHasher interface {
	HashPassword(plain string) (string, error)
}

// UserService handles user account management.
type UserService struct {
	repo   repositories.UserRepository
	hasher PasswordHasher
}

// NewUserService creates a new UserService.
func NewUserService(repo repositories.UserRepository, hasher PasswordHasher) *UserService {
	return &UserService{
		repo:   repo,
		hasher: hasher,
	}
}

func (s *UserService) GetUser(ctx context.Context, userName string) (*models.User, error) {
	user, err := s.repo.Get(ctx, userName)
	if err != nil {
		return nil, translate("get user", err)
	}
	return user, nil
}

// CreateUser registers a user, hashing the password before it is stored.
func (s *UserService) CreateUser(ctx context.Context, in models.UserInput) (string, error) {
	if err := models.ValidateUserInput(in); err != nil {
		return "", err
	}
	hashed, err := s.hashPassword(in.Password)
	if err != nil {
		return "", err
	}
	active := true
	if in.Active != nil {
		active = *in.Active
	}

	name, err := s.repo.Create(ctx, &models.User{
		UserName:     in.UserName,
		PasswordHash: hashed,
		Active:       active,
	})
	if err != nil {
		return "", translate("create user", err)
	}
	return name, nil
}

// EnsureUser creates the account described by in unless a user with that
// name already exists. An existing account is left untouched.
func (s *UserService) EnsureUser(ctx context.Context, in models.UserInput) (bool, error) {
	_, err := s.repo.Get(ctx, in.UserName)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return false, translate("ensure user", err)
	}
	if _, err := s.CreateUser(ctx, in); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// UpdateUser replaces a user. The password is re-hashed only when a new one
// is supplied.
func (s *UserService) UpdateUser(ctx context.Context, userName string, in models.UserUpdate) (*models.User, error) {
	if err := models.ValidateUserUpdate(in); err != nil {
		return nil, err
	}
	user := &models.User{
		UserName: in.UserName,
		Active:   true,
	}
	if in.Active != nil {
		user.Active = *in.Active
	}
	if in.Password != "" {
		hashed, err := s.hashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hashed
	}

	updated, err := s.repo.Update(ctx, userName, user)
	if err != nil {
		return nil, translate("update user", err)
	}
	return updated, nil
}

// DeactivateUser sets active=false through the update path.
func (s *UserService) DeactivateUser(ctx context.Context, userName string) (*models.User, error) {
	updated, err := s.repo.Update(ctx, userName, &models.User{UserName: userName, Active: false})
	if err != nil {
		return nil, translate("deactivate user", err)
	}
	return updated, nil
}

func (s *UserService) DeleteUser(ctx context.Context, userName string) error {
	if err := s.repo.Delete(ctx, userName); err != nil {
		return translate("delete user", err)
	}
	return nil
}

// hashPassword reports a password bcrypt cannot hash as a validation failure
// of the password field.
func (s *UserService) hashPassword(plain string) (string, error) {
	hashed, err := s.hasher.HashPassword(plain)
	if err == nil {
		return hashed, nil
	}
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", apperror.NewValidationError(map[string]string{
			"password": fmt.Sprintf("must be at most %d bytes", models.MaxPasswordBytes),
		})
	}
	log.Printf("Error hashing password: %v", err)
	return "", fmt.Errorf("failed to hash password: %w", err)
}
