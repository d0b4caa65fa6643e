package repositories

import (
	"context"

	"lolitems/internal/models"
)

// ItemRepository defines the interface for item data access.
//
// Get, Update and Delete return apperror.ErrNotFound for a missing name;
// Create and a renaming Update return apperror.ErrConflict for a taken one.
// Any other error is an infrastructure failure.
type ItemRepository interface {
	Create(ctx context.Context, item *models.Item) (string, error)
	Get(ctx context.Context, name string) (*models.Item, error)
	Update(ctx context.Context, name string, item *models.Item) (*models.Item, error)
	Delete(ctx context.Context, name string) error
	// List returns matching item names in ascending order.
	List(ctx context.Context, filter models.ItemFilter) ([]string, error)
}
