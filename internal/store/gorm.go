package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

type kvEntry struct {
	Key       string    `gorm:"primaryKey;column:key"`
	Value     []byte    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (kvEntry) TableName() string { return "kv_entries" }

// Gorm is a KV backend on a GORM database, used for embedded SQLite.
type Gorm struct {
	db *gorm.DB
}

// NewSQLite opens (creating if needed) the SQLite file at path and migrates it.
func NewSQLite(ctx context.Context, path string) (*Gorm, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %q: %w", path, err)
	}

	g := &Gorm{db: db}
	if err := g.Migrate(ctx); err != nil {
		_ = g.Close()
		return nil, err
	}
	return g, nil
}

// Migrate creates the kv_entries table.
func (g *Gorm) Migrate(ctx context.Context) error {
	if err := g.db.WithContext(ctx).AutoMigrate(&kvEntry{}); err != nil {
		return fmt.Errorf("failed to migrate kv_entries: %w", err)
	}
	return nil
}

// Insert upserts value under key.
func (g *Gorm) Insert(ctx context.Context, key string, value []byte) error {
	entry := kvEntry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := g.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to insert %q: %w", key, err)
	}
	return nil
}

// Retrieve reads the value under key.
func (g *Gorm) Retrieve(ctx context.Context, key string) ([]byte, bool, error) {
	var entry kvEntry
	err := g.db.WithContext(ctx).Where(&kvEntry{Key: key}).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to retrieve %q: %w", key, err)
	}
	return entry.Value, true, nil
}

// Close closes the underlying connection pool.
func (g *Gorm) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
