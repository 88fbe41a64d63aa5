package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/hmans/threads/internal/model"
)

// AddToCart increments the user's cart line for the item, creating it
// with quantity 1 when none exists. The read and the write share one
// transaction so two concurrent adds cannot produce two lines.
func (s *Store) AddToCart(ctx context.Context, userID, itemID string) (*model.CartItem, error) {
	var lineID string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&model.Item{}, "id = ?", itemID).Error; err != nil {
			return notFound(err)
		}

		var line model.CartItem
		err := tx.Where("user_id = ? AND item_id = ?", userID, itemID).First(&line).Error
		switch {
		case err == nil:
			line.Quantity++
			if err := tx.Model(&line).Update("quantity", line.Quantity).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			line = model.CartItem{UserID: userID, ItemID: itemID, Quantity: 1}
			if err := tx.Create(&line).Error; err != nil {
				return err
			}
		default:
			return err
		}
		lineID = line.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.CartItemByID(ctx, lineID)
}

// CartItemByID returns a cart line with its item attached.
func (s *Store) CartItemByID(ctx context.Context, id string) (*model.CartItem, error) {
	var line model.CartItem
	err := s.db.WithContext(ctx).Preload("Item").First(&line, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &line, nil
}

// DeleteCartItem removes a single cart line.
func (s *Store) DeleteCartItem(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&model.CartItem{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CartForUser returns the user's cart lines with item details.
func (s *Store) CartForUser(ctx context.Context, userID string) ([]*model.CartItem, error) {
	var lines []*model.CartItem
	err := s.db.WithContext(ctx).
		Preload("Item").
		Where("user_id = ?", userID).
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}
