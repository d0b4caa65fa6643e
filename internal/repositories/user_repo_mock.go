package repositories

import (
	"context"
	"fmt"
	"sync"

	"lolitems/internal/apperror"
	"lolitems/internal/models"
)

// MockUserRepository is an in-memory implementation of UserRepository.
type MockUserRepository struct {
	users map[string]models.User
	mu    sync.RWMutex
}

// NewMockUserRepository creates a new instance of MockUserRepository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]models.User),
	}
}

func (r *MockUserRepository) Get(_ context.Context, userName string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[userName]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userName, apperror.ErrNotFound)
	}
	return &user, nil
}

func (r *MockUserRepository) Create(_ context.Context, user *models.User) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.UserName]; ok {
		return "", fmt.Errorf("user %s: %w", user.UserName, apperror.ErrConflict)
	}
	r.users[user.UserName] = *user
	return user.UserName, nil
}

func (r *MockUserRepository) Update(_ context.Context, userName string, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.users[userName]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userName, apperror.ErrNotFound)
	}
	stored := *user
	if stored.UserName == "" {
		stored.UserName = userName
	}
	if stored.PasswordHash == "" {
		stored.PasswordHash = current.PasswordHash
	}
	if stored.UserName != userName {
		if _, taken := r.users[stored.UserName]; taken {
			return nil, fmt.Errorf("user %s: %w", stored.UserName, apperror.ErrConflict)
		}
		delete(r.users, userName)
	}
	r.users[stored.UserName] = stored
	return &stored, nil
}

func (r *MockUserRepository) Delete(_ context.Context, userName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[userName]; !ok {
		return fmt.Errorf("user %s: %w", userName, apperror.ErrNotFound)
	}
	delete(r.users, userName)
	return nil
}
