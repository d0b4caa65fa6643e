package repositories

import (
	"context"
	"errors"
	"fmt"

	"lolitems/internal/apperror"
	"lolitems/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMItemRepository is a GORM implementation of ItemRepository.
type GORMItemRepository struct {
	db *gorm.DB
}

// NewGORMItemRepository creates a new instance of GORMItemRepository.
func NewGORMItemRepository(db *gorm.DB) *GORMItemRepository {
	return &GORMItemRepository{
		db: db,
	}
}

// Create inserts the item and its stat rows in one transaction.
func (r *GORMItemRepository) Create(ctx context.Context, item *models.Item) (string, error) {
	rec := newItemRecord(item)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := exists(tx, &itemRecord{}, "name = ?", rec.Name)
		if err != nil {
			return err
		}
		if taken {
			return apperror.ErrConflict
		}
		if err := tx.Omit(clause.Associations).Create(&rec).Error; err != nil {
			return err
		}
		return insertStats(tx, rec.Stats)
	})
	if err != nil {
		if errors.Is(err, apperror.ErrConflict) || errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", fmt.Errorf("item %s: %w", item.Name, apperror.ErrConflict)
		}
		return "", fmt.Errorf("failed to create item %s: %w", item.Name, err)
	}
	return rec.Name, nil
}

// Get retrieves an item and joins its stat rows back into the stats map.
func (r *GORMItemRepository) Get(ctx context.Context, name string) (*models.Item, error) {
	rec, err := loadItem(r.db.WithContext(ctx), name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("item %s: %w", name, apperror.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get item %s: %w", name, err)
	}
	return rec.toModel(), nil
}

// Update replaces the scalar fields and the whole stat set of an item. Stats
// are deleted and re-inserted inside the same transaction as the row update.
func (r *GORMItemRepository) Update(ctx context.Context, name string, item *models.Item) (*models.Item, error) {
	rec := newItemRecord(item)
	if rec.Name == "" {
		rec.Name = name
	}
	var updated itemRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := exists(tx, &itemRecord{}, "name = ?", name)
		if err != nil {
			return err
		}
		if !found {
			return apperror.ErrNotFound
		}
		if rec.Name != name {
			taken, err := exists(tx, &itemRecord{}, "name = ?", rec.Name)
			if err != nil {
				return err
			}
			if taken {
				return apperror.ErrConflict
			}
		}

		if err := tx.Where("item_name = ?", name).Delete(&statRecord{}).Error; err != nil {
			return err
		}
		var description any
		if rec.Description != nil {
			description = *rec.Description
		}
		if err := tx.Model(&itemRecord{}).Where("name = ?", name).Updates(map[string]any{
			"name":        rec.Name,
			"description": description,
			"price":       rec.Price,
			"sell_price":  rec.SellPrice,
		}).Error; err != nil {
			return err
		}
		for i := range rec.Stats {
			rec.Stats[i].ItemName = rec.Name
		}
		if err := insertStats(tx, rec.Stats); err != nil {
			return err
		}

		updated, err = loadItem(tx, rec.Name)
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, apperror.ErrNotFound):
			return nil, fmt.Errorf("item %s: %w", name, apperror.ErrNotFound)
		case errors.Is(err, apperror.ErrConflict), errors.Is(err, gorm.ErrDuplicatedKey):
			return nil, fmt.Errorf("item %s: %w", rec.Name, apperror.ErrConflict)
		}
		return nil, fmt.Errorf("failed to update item %s: %w", name, err)
	}
	return updated.toModel(), nil
}

// Delete removes an item and its stat rows.
func (r *GORMItemRepository) Delete(ctx context.Context, name string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("item_name = ?", name).Delete(&statRecord{}).Error; err != nil {
			return err
		}
		res := tx.Where("name = ?", name).Delete(&itemRecord{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperror.ErrNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return fmt.Errorf("item %s: %w", name, apperror.ErrNotFound)
		}
		return fmt.Errorf("failed to delete item %s: %w", name, err)
	}
	return nil
}

// List returns the names of the items matching filter. An item matches the
// stat part only when it has a row for every requested stat.
func (r *GORMItemRepository) List(ctx context.Context, filter models.ItemFilter) ([]string, error) {
	db := r.db.WithContext(ctx)
	q := db.Model(&itemRecord{})

	if p := filter.Price; p != nil {
		if p.GreaterOrEqual {
			q = q.Where("price >= ?", p.Threshold)
		} else {
			q = q.Where("price < ?", p.Threshold)
		}
	}

	if stats := uniqueStats(filter.Stats); len(stats) > 0 {
		withAll := db.Model(&statRecord{}).
			Select("item_name").
			Where("name IN ?", stats).
			Group("item_name").
			Having("COUNT(DISTINCT name) = ?", len(stats))
		q = q.Where("name IN (?)", withAll)
	}

	names := []string{}
	if err := q.Order("name").Pluck("name", &names).Error; err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return names, nil
}

func loadItem(db *gorm.DB, name string) (itemRecord, error) {
	var rec itemRecord
	err := db.Preload("Stats").Where("name = ?", name).Take(&rec).Error
	return rec, err
}

func insertStats(tx *gorm.DB, stats []statRecord) error {
	if len(stats) == 0 {
		return nil
	}
	return tx.Create(&stats).Error
}

func exists(tx *gorm.DB, model any, query string, args ...any) (bool, error) {
	var count int64
	if err := tx.Model(model).Where(query, args...).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func uniqueStats(stats []models.Stat) []string {
	seen := make(map[models.Stat]struct{}, len(stats))
	out := make([]string, 0, len(stats))
	for _, s := range stats {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, string(s))
	}
	return out
}
