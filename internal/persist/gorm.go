package persist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/journey/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPersister stores snapshots as rows of the store_snapshots table.
type GormPersister struct {
	db *gorm.DB
}

// NewGormPersister migrates the snapshot table and returns the adapter.
func NewGormPersister(db *gorm.DB) (*GormPersister, error) {
	if err := db.AutoMigrate(&models.StoreSnapshot{}); err != nil {
		return nil, fmt.Errorf("failed to migrate store_snapshots: %w", err)
	}
	return &GormPersister{db: db}, nil
}

func (g *GormPersister) Load(ctx context.Context, key string) ([]byte, error) {
	var row models.StoreSnapshot
	err := g.db.WithContext(ctx).Where("key = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot %s: %w", key, err)
	}
	return []byte(row.Payload), nil
}

func (g *GormPersister) Save(ctx context.Context, key string, snapshot []byte) error {
	row := models.StoreSnapshot{
		Key:       key,
		Payload:   datatypes.JSON(snapshot),
		UpdatedAt: time.Now().UTC(),
	}
	err := g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to save snapshot %s: %w", key, err)
	}
	return nil
}

func (g *GormPersister) Ping(ctx context.Context) error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
