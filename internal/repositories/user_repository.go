package repositories

import (
	"context"

	"lolitems/internal/models"
)

// UserRepository defines the interface for user data access.
// Update keeps the stored password hash when user.PasswordHash is empty.
type UserRepository interface {
	Get(ctx context.Context, userName string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (string, error)
	Update(ctx context.Context, userName string, user *models.User) (*models.User, error)
	Delete(ctx context.Context, userName string) error
}
