// Package setting stores named JSON documents in the settings table.
package setting

import (
	"encoding/json"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/db/models"
)

const (
	nameQueryPattern = "name = ?"
)

var (
	// ErrSettingNotFound is returned when a setting is not found.
	ErrSettingNotFound = errors.New("setting not found")
	// ErrSettingNameEmpty is returned when attempting to read or write a setting with an empty name.
	ErrSettingNameEmpty = errors.New("setting name cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves a setting by its name.
// If lock is set and the dialect supports it, the row is locked for update
// until the surrounding transaction ends.
func Get(db *gorm.DB, name string, lock bool) (*models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if name == "" {
		return nil, ErrSettingNameEmpty
	}

	q := db.Where(nameQueryPattern, name)
	if lock && db.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
	}

	var setting models.Setting
	if err := q.First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}

		return nil, err
	}

	return &setting, nil
}

// Set creates or replaces the value of a setting by name.
func Set(db *gorm.DB, name string, value []byte) error {
	if db == nil {
		return ErrDBNil
	}

	if name == "" {
		return ErrSettingNameEmpty
	}

	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&models.Setting{Name: name, Value: value}).Error
}

// Load decodes the JSON document stored under name into v.
// A missing setting leaves v untouched and returns ErrSettingNotFound.
func Load(db *gorm.DB, name string, v any, lock bool) error {
	s, err := Get(db, name, lock)
	if err != nil {
		return err
	}

	return json.Unmarshal(s.Value, v)
}

// Save stores v as a JSON document under name.
func Save(db *gorm.DB, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return Set(db, name, data)
}
