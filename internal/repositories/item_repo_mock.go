package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"lolitems/internal/apperror"
	"lolitems/internal/models"
)

// MockItemRepository is an in-memory implementation of ItemRepository.
// Items are copied on the way in and out.
type MockItemRepository struct {
	items map[string]models.Item
	mu    sync.RWMutex
}

// NewMockItemRepository creates a new instance of MockItemRepository.
func NewMockItemRepository() *MockItemRepository {
	return &MockItemRepository{
		items: make(map[string]models.Item),
	}
}

// Create adds a new item.
func (r *MockItemRepository) Create(_ context.Context, item *models.Item) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.Name]; ok {
		return "", fmt.Errorf("item %s: %w", item.Name, apperror.ErrConflict)
	}
	r.items[item.Name] = item.Clone()
	return item.Name, nil
}

// Get returns an item by name.
func (r *MockItemRepository) Get(_ context.Context, name string) (*models.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[name]
	if !ok {
		return nil, fmt.Errorf("item %s: %w", name, apperror.ErrNotFound)
	}
	out := item.Clone()
	return &out, nil
}

// Update replaces an existing item, stats included.
func (r *MockItemRepository) Update(_ context.Context, name string, item *models.Item) (*models.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[name]; !ok {
		return nil, fmt.Errorf("item %s: %w", name, apperror.ErrNotFound)
	}
	stored := item.Clone()
	if stored.Name == "" {
		stored.Name = name
	}
	if stored.Name != name {
		if _, taken := r.items[stored.Name]; taken {
			return nil, fmt.Errorf("item %s: %w", stored.Name, apperror.ErrConflict)
		}
		delete(r.items, name)
	}
	r.items[stored.Name] = stored
	out := stored.Clone()
	return &out, nil
}

// Delete removes an item by name.
func (r *MockItemRepository) Delete(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[name]; !ok {
		return fmt.Errorf("item %s: %w", name, apperror.ErrNotFound)
	}
	delete(r.items, name)
	return nil
}

// List returns the sorted names of the items matching filter.
func (r *MockItemRepository) List(_ context.Context, filter models.ItemFilter) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.items))
	for name, item := range r.items {
		if filter.Price != nil && !filter.Price.Matches(item.Price) {
			continue
		}
		if !hasAllStats(item, filter.Stats) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func hasAllStats(item models.Item, stats []models.Stat) bool {
	for _, s := range stats {
		if _, ok := item.Stats[s]; !ok {
			return false
		}
	}
	return true
}
