// Package model defines the storefront entities persisted through GORM.
package model

import (
	"time"
)

// User is a shopper or admin account. Email is stored lowercased and
// unique. Password holds a bcrypt hash, never the plain text.
type User struct {
	ID               string         `gorm:"primaryKey" json:"id"`
	Name             string         `json:"name"`
	Email            string         `gorm:"uniqueIndex;not null" json:"email"`
	Password         string         `gorm:"not null" json:"-"`
	Permissions      PermissionList `gorm:"serializer:json" json:"permissions"`
	ResetToken       *string        `gorm:"index" json:"-"`
	ResetTokenExpiry *time.Time     `json:"-"`
	Cart             []*CartItem    `gorm:"foreignKey:UserID" json:"cart"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

// Item is a live catalog entry. Price is in integer minor units (cents).
type Item struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	Image       *string   `json:"image"`
	LargeImage  *string   `json:"largeImage"`
	Price       int       `gorm:"not null" json:"price"`
	UserID      string    `gorm:"index" json:"-"`
	User        *User     `json:"user"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CartItem links a user and an item with a quantity. At most one line
// exists per (user, item) pair; the store enforces this inside a
// transaction rather than relying on a racy read-then-write.
type CartItem struct {
	ID       string `gorm:"primaryKey" json:"id"`
	UserID   string `gorm:"index:idx_cart_user_item,unique" json:"-"`
	User     *User  `json:"user"`
	ItemID   string `gorm:"index:idx_cart_user_item,unique" json:"-"`
	Item     *Item  `json:"item"`
	Quantity int    `gorm:"not null;default:1" json:"quantity"`
}

// Order is a frozen snapshot taken at checkout. Items are copies, so
// later edits to the live catalog never rewrite order history.
type Order struct {
	ID        string       `gorm:"primaryKey" json:"id"`
	UserID    string       `gorm:"index" json:"-"`
	User      *User        `json:"user"`
	Items     []*OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	Total     int          `gorm:"not null" json:"total"`
	Charge    string       `gorm:"not null" json:"charge"`
	CreatedAt time.Time    `json:"createdAt"`
}

// OrderItem is a copy of an item's fields at the moment of checkout,
// with the quantity purchased. It carries its own fresh ID.
type OrderItem struct {
	ID          string  `gorm:"primaryKey" json:"id"`
	OrderID     string  `gorm:"index" json:"-"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Image       *string `json:"image"`
	LargeImage  *string `json:"largeImage"`
	Price       int     `json:"price"`
	Quantity    int     `json:"quantity"`
}
