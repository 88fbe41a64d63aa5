package model

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"
)

// idAlphabet keeps generated IDs URL-safe and copy-paste friendly.
const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewID returns a fresh 21-character entity id.
func NewID() string {
	return gonanoid.MustGenerate(idAlphabet, 21)
}

// BeforeCreate assigns an id when none was provided.
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = NewID()
	}
	return nil
}

func (i *Item) BeforeCreate(*gorm.DB) error {
	if i.ID == "" {
		i.ID = NewID()
	}
	return nil
}

func (c *CartItem) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = NewID()
	}
	return nil
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == "" {
		o.ID = NewID()
	}
	return nil
}

func (oi *OrderItem) BeforeCreate(*gorm.DB) error {
	if oi.ID == "" {
		oi.ID = NewID()
	}
	return nil
}
