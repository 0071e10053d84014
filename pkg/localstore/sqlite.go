package localstore

import (
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

type entry struct {
	Key       string `gorm:"primaryKey;column:key"`
	Value     string `gorm:"column:value"`
	UpdatedAt time.Time
}

func (entry) TableName() string { return "kv_entries" }

// SQLite persists key-value state in an embedded database file.
type SQLite struct {
	conn *gorm.DB
}

// OpenSQLite opens (or creates) the local state database at path.
func OpenSQLite(path string) (*SQLite, error) {
	if path == "" {
		return nil, fmt.Errorf("local store path is required")
	}

	gormLogger := gormlogger.New(
		log.New(io.Discard, "", log.LstdFlags),
		gormlogger.Config{LogLevel: gormlogger.Silent},
	)

	conn, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening local store: %w", err)
	}

	if err := conn.AutoMigrate(&entry{}); err != nil {
		return nil, fmt.Errorf("migrating local store: %w", err)
	}

	return &SQLite{conn: conn}, nil
}

func (s *SQLite) Get(key string) (string, bool, error) {
	var row entry
	err := s.conn.First(&row, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading %q: %w", key, err)
	}
	return row.Value, true, nil
}

func (s *SQLite) Set(key, value string) error {
	row := entry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := s.conn.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("writing %q: %w", key, err)
	}
	return nil
}

func (s *SQLite) Delete(key string) error {
	if err := s.conn.Delete(&entry{}, "key = ?", key).Error; err != nil {
		return fmt.Errorf("deleting %q: %w", key, err)
	}
	return nil
}

func (s *SQLite) Close() error {
	sqlDB, err := s.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
