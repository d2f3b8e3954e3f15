/*
Package localstore is the client-side persistent key/value store. It plays
the role browser local storage plays for a web storefront: each store owns a
disjoint key namespace and serializes its slice of state as a JSON document.
*/
package localstore

import (
	"encoding/json"
	"errors"
	"fmt"

	"storefront/config"
	"storefront/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Well-known key namespaces. Only the owning store writes to its key.
const (
	KeyAccessToken   = "accessToken"
	KeyUserData      = "userData"
	KeyCart          = "cart"
	KeyWishlist      = "wishlist"
	KeyComparison    = "comparison"
	KeyLoginAttempts = "loginAttempts"
	KeyLockoutUntil  = "lockoutUntil"
)

// Store is a typed key/value store with JSON document values.
type Store interface {
	// Get unmarshals the document under key into out. The boolean is false
	// when the key is absent. A corrupt document is evicted and reported as
	// absent rather than returned as an error.
	Get(key string, out any) (bool, error)
	Put(key string, value any) error
	Delete(key string) error
}

type entry struct {
	Key   string `gorm:"primaryKey;size:64"`
	Value string `gorm:"type:text"`
}

func (entry) TableName() string { return "local_entries" }

// SQLite is the on-disk Store implementation.
type SQLite struct {
	db  *gorm.DB
	log *zap.Logger
}

// Open opens (and migrates) the local database at cfg.Path.
func Open(cfg *config.StorageConfig) (*SQLite, error) {
	db, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger: logger.NewGormLoggerAdapter(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}
	if err := db.AutoMigrate(&entry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate local store: %w", err)
	}
	return &SQLite{db: db, log: logger.WithStore("localstore")}, nil
}

func (s *SQLite) Get(key string, out any) (bool, error) {
	var e entry
	err := s.db.First(&e, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %q: %w", key, err)
	}
	if err := json.Unmarshal([]byte(e.Value), out); err != nil {
		// Corrupt documents are evicted, matching how a corrupt local
		// storage entry is cleared on read.
		s.log.Warn("evicting corrupt entry", zap.String("key", key), zap.Error(err))
		_ = s.Delete(key)
		return false, nil
	}
	return true, nil
}

func (s *SQLite) Put(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", key, err)
	}
	e := entry{Key: key, Value: string(raw)}
	if err := s.db.Save(&e).Error; err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}

func (s *SQLite) Delete(key string) error {
	if err := s.db.Delete(&entry{}, "key = ?", key).Error; err != nil {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}
	return nil
}

// Close closes the underlying database handle.
func (s *SQLite) Close() error {
	db, err := s.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
