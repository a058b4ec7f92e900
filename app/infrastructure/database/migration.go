package database

import (
	"fmt"

	"gorm.io/gorm"
	"leadgen.ai/leadgen-api/app/utils/logger"
)

// SchemaVersion is bumped whenever a registered schema changes shape.
const SchemaVersion = "000001"

type DatabaseMigration struct {
	gorm.Model
	Version string `gorm:"not null;uniqueIndex"`
}

type DBMigrator struct {
	db *gorm.DB
}

func NewDBMigrator(db *gorm.DB) *DBMigrator {
	return &DBMigrator{
		db: db,
	}
}

// Migrate creates missing tables, columns and indexes for every registered
// schema. Existing data is never dropped.
func (d *DBMigrator) Migrate() error {
	if err := d.db.AutoMigrate(&DatabaseMigration{}); err != nil {
		return fmt.Errorf("failed to create 'database_migration' table: %w", err)
	}
	for _, model := range SchemaRegistry {
		if err := d.db.AutoMigrate(model); err != nil {
			logger.GetLogger().
				WithField("error_code", "75333e43-8157-4f0a-8e34-aa34e6e7c285").
				Errorf("failed to auto migrate schema: %T, error: %v", model, err)
			return err
		}
	}
	return d.recordVersion()
}

func (d *DBMigrator) recordVersion() error {
	var count int64
	if err := d.db.Model(&DatabaseMigration{}).Where("version = ?", SchemaVersion).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to query migration records: %w", err)
	}
	if count > 0 {
		return nil
	}
	logger.GetLogger().Infof("database schema migrated to %s", SchemaVersion)
	return d.db.Create(&DatabaseMigration{Version: SchemaVersion}).Error
}
