package medium

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// settingRow is one stored setting.
type settingRow struct {
	Name      string `gorm:"primaryKey;column:name"`
	Value     string `gorm:"column:value;not null"`
	Revision  string `gorm:"column:revision"`
	UpdatedAt int64  `gorm:"column:updated_at;autoUpdateTime:false"`
}

// TableName sets the table name.
func (settingRow) TableName() string {
	return "settings"
}

// SQLite is a medium backed by a SQLite database.
type SQLite struct {
	db    *gorm.DB
	quota int
}

// NewSQLite opens (and migrates) the database at path.
// quota limits the total bytes of keys and values; 0 means unlimited.
func NewSQLite(path string, quota int) (*SQLite, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open settings database: %w", err)
	}

	if err := db.AutoMigrate(&settingRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate settings database: %w", err)
	}

	return &SQLite{db: db, quota: quota}, nil
}

func (s *SQLite) row(key string) (settingRow, bool, error) {
	var row settingRow
	err := s.db.Where("name = ?", key).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return settingRow{}, false, nil
	}
	if err != nil {
		return settingRow{}, false, err
	}
	return row, true, nil
}

// Get returns the payload stored under key.
func (s *SQLite) Get(key string) (string, bool, error) {
	row, ok, err := s.row(key)
	if err != nil || !ok {
		return "", false, err
	}
	return row.Value, true, nil
}

// Set stores value under key.
func (s *SQLite) Set(key, value string) error {
	if s.quota > 0 {
		var used int64
		err := s.db.Model(&settingRow{}).
			Where("name <> ?", key).
			Select("COALESCE(SUM(LENGTH(CAST(name AS BLOB)) + LENGTH(CAST(value AS BLOB))), 0)").
			Scan(&used).Error
		if err != nil {
			return err
		}
		if int(used)+len(key)+len(value) > s.quota {
			return ErrQuotaExceeded
		}
	}

	e, err := newEntry(value)
	if err != nil {
		return err
	}

	row := settingRow{
		Name:      key,
		Value:     e.Value,
		Revision:  e.Revision,
		UpdatedAt: e.UpdatedAt,
	}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		UpdateAll: true,
	}).Create(&row).Error
}

// Delete removes key.
func (s *SQLite) Delete(key string) error {
	return s.db.Where("name = ?", key).Delete(&settingRow{}).Error
}

// Keys returns the stored keys in sorted order.
func (s *SQLite) Keys() ([]string, error) {
	var keys []string
	err := s.db.Model(&settingRow{}).Order("name").Pluck("name", &keys).Error
	return keys, err
}

// Entry returns the stored entry for key.
func (s *SQLite) Entry(key string) (Entry, bool, error) {
	row, ok, err := s.row(key)
	if err != nil || !ok {
		return Entry{}, false, err
	}
	return Entry{Value: row.Value, Revision: row.Revision, UpdatedAt: row.UpdatedAt}, true, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
