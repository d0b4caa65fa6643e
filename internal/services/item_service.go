package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"lolitems/internal/apperror"
	"lolitems/internal/models"
	"lolitems/internal/repositories"

	"github.com/google/uuid"
)

// ItemEventPublisher delivers item change events, e.g. to RabbitMQ.
type ItemEventPublisher interface {
	PublishItemEvent(event models.ItemEvent) error
}

// ItemService handles business logic related to items.
type ItemService struct {
	repo      repositories.ItemRepository
	publisher ItemEventPublisher // nil disables events
}

// NewItemService creates a new ItemService. publisher may be nil.
func NewItemService(repo repositories.ItemRepository, publisher ItemEventPublisher) *ItemService {
	return &ItemService{
		repo:      repo,
		publisher: publisher,
	}
}

// CreateItem validates and stores a new item, returning its name.
func (s *ItemService) CreateItem(ctx context.Context, item *models.Item) (string, error) {
	normalized := withStats(*item)
	if err := models.ValidateItem(normalized); err != nil {
		return "", err
	}
	name, err := s.repo.Create(ctx, &normalized)
	if err != nil {
		return "", translate("create item", err)
	}
	s.publish(models.ItemCreated, name)
	return name, nil
}

// GetItem retrieves a single item by name.
func (s *ItemService) GetItem(ctx context.Context, name string) (*models.Item, error) {
	item, err := s.repo.Get(ctx, name)
	if err != nil {
		return nil, translate("get item", err)
	}
	return item, nil
}

// UpdateItem replaces the item called name. An empty item.Name keeps the
// current name.
func (s *ItemService) UpdateItem(ctx context.Context, name string, item *models.Item) (*models.Item, error) {
	replacement := withStats(*item)
	if replacement.Name == "" {
		replacement.Name = name
	}
	if err := models.ValidateItem(replacement); err != nil {
		return nil, err
	}
	updated, err := s.repo.Update(ctx, name, &replacement)
	if err != nil {
		return nil, translate("update item", err)
	}
	s.publish(models.ItemUpdated, updated.Name)
	return updated, nil
}

// DeleteItem deletes an item by name.
func (s *ItemService) DeleteItem(ctx context.Context, name string) error {
	if err := s.repo.Delete(ctx, name); err != nil {
		return translate("delete item", err)
	}
	s.publish(models.ItemDeleted, name)
	return nil
}

// ListItems returns the names of the items matching filter.
func (s *ItemService) ListItems(ctx context.Context, filter models.ItemFilter) ([]string, error) {
	for _, st := range filter.Stats {
		if !st.Valid() {
			return nil, apperror.NewValidationError(map[string]string{
				"stats": fmt.Sprintf("unknown stat %q", st),
			})
		}
	}
	names, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, translate("list items", err)
	}
	return names, nil
}

// withStats stores an absent stats object as an empty one, which is how
// every repository reads it back.
func withStats(item models.Item) models.Item {
	if item.Stats == nil {
		item.Stats = map[models.Stat]int{}
	}
	return item
}

func (s *ItemService) publish(eventType models.ItemEventType, itemName string) {
	if s.publisher == nil {
		return
	}
	event := models.ItemEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		ItemName:   itemName,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.PublishItemEvent(event); err != nil {
		log.Printf("Warning: failed to publish %s event for item %s: %v", eventType, itemName, err)
	}
}

// translate passes taxonomy errors through and hides everything else behind
// ErrStorage after logging it.
func translate(op string, err error) error {
	if apperror.IsDomain(err) {
		return err
	}
	log.Printf("Error in %s: %v", op, err)
	return apperror.ErrStorage
}
