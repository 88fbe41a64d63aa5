// Package store is the repository layer over GORM. Every multi-step
// mutation runs inside a single transaction; callers never see partial
// writes.
package store

import (
	"errors"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/hmans/threads/internal/model"
)

// ErrNotFound is returned when a lookup misses.
var ErrNotFound = errors.New("not found")

// Store wraps a GORM connection.
type Store struct {
	db *gorm.DB
}

// New wraps an already-open GORM connection. Used by tests.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Open connects to Postgres with the given DSN.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), gormConfig())
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// OpenSQLite connects to a SQLite database at the given path. ":memory:"
// gives an ephemeral database, which the tests use.
func OpenSQLite(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), gormConfig())
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	}
}

// Migrate creates or updates the schema for all entities.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(
		&model.User{},
		&model.Item{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
	)
}

// notFound maps GORM's record-miss onto the store's sentinel.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
