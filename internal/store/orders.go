package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/hmans/threads/internal/model"
)

// CreateOrder persists the order with its frozen order items and
// deletes the consumed cart lines, all in one transaction. Either the
// order exists and the cart is empty, or neither happened.
func (s *Store) CreateOrder(ctx context.Context, order *model.Order, cartLineIDs []string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		if len(cartLineIDs) > 0 {
			if err := tx.Delete(&model.CartItem{}, "id IN ?", cartLineIDs).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// OrderByID returns an order with its items and owner.
func (s *Store) OrderByID(ctx context.Context, id string) (*model.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Preload("User").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &order, nil
}

// OrdersForUser returns the user's orders, newest first.
func (s *Store) OrdersForUser(ctx context.Context, userID string) ([]*model.Order, error) {
	var orders []*model.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}
