package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/hmans/threads/internal/model"
)

// ItemUpdates carries the updatable item fields. Nil means "leave
// alone"; the item id itself is never part of the update payload.
type ItemUpdates struct {
	Title       *string
	Description *string
	Price       *int
	Image       *string
	LargeImage  *string
}

// CreateItem persists a new catalog item.
func (s *Store) CreateItem(ctx context.Context, item *model.Item) error {
	return s.db.WithContext(ctx).Create(item).Error
}

// ItemByID returns the item with the given id.
func (s *Store) ItemByID(ctx context.Context, id string) (*model.Item, error) {
	var item model.Item
	if err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &item, nil
}

// UpdateItem applies the given field updates and returns the fresh item.
func (s *Store) UpdateItem(ctx context.Context, id string, updates ItemUpdates) (*model.Item, error) {
	fields := map[string]any{}
	if updates.Title != nil {
		fields["title"] = *updates.Title
	}
	if updates.Description != nil {
		fields["description"] = *updates.Description
	}
	if updates.Price != nil {
		fields["price"] = *updates.Price
	}
	if updates.Image != nil {
		fields["image"] = *updates.Image
	}
	if updates.LargeImage != nil {
		fields["large_image"] = *updates.LargeImage
	}

	if len(fields) > 0 {
		res := s.db.WithContext(ctx).Model(&model.Item{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	return s.ItemByID(ctx, id)
}

// DeleteItem loads the item, runs the caller's authorization check
// against it, and deletes it — all inside one transaction, so the
// ownership seen by the check is the ownership that gets deleted.
func (s *Store) DeleteItem(ctx context.Context, id string, authorize func(*model.Item) error) (*model.Item, error) {
	var item model.Item
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&item, "id = ?", id).Error; err != nil {
			return notFound(err)
		}
		if err := authorize(&item); err != nil {
			return err
		}
		return tx.Delete(&model.Item{}, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Items returns catalog items ordered newest first, with optional
// offset and limit.
func (s *Store) Items(ctx context.Context, skip, first *int) ([]*model.Item, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC")
	if skip != nil && *skip > 0 {
		q = q.Offset(*skip)
	}
	if first != nil && *first >= 0 {
		q = q.Limit(*first)
	}
	var items []*model.Item
	if err := q.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ItemsByID returns the items for the given ids, preserving the order
// of the id slice. Missing ids are skipped.
func (s *Store) ItemsByID(ctx context.Context, ids []string) ([]*model.Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []*model.Item
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	byID := make(map[string]*model.Item, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	ordered := make([]*model.Item, 0, len(items))
	for _, id := range ids {
		if it, ok := byID[id]; ok {
			ordered = append(ordered, it)
		}
	}
	return ordered, nil
}

// CountItems returns the number of catalog items.
func (s *Store) CountItems(ctx context.Context) (int, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Item{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

// AllItems returns every catalog item, used to rebuild the search index.
func (s *Store) AllItems(ctx context.Context) ([]*model.Item, error) {
	var items []*model.Item
	if err := s.db.WithContext(ctx).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// UpsertItem creates or updates a seeded item, keyed by its id. The
// seed files carry stable ids so re-seeding is idempotent.
func (s *Store) UpsertItem(ctx context.Context, item *model.Item) error {
	existing, err := s.ItemByID(ctx, item.ID)
	if errors.Is(err, ErrNotFound) {
		return s.CreateItem(ctx, item)
	}
	if err != nil {
		return err
	}
	item.CreatedAt = existing.CreatedAt
	return s.db.WithContext(ctx).Save(item).Error
}
