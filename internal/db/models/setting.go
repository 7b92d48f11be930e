// Package models contains database model definitions.
package models

// Setting is a named blob stored in the database.
type Setting struct {
	ID    uint64 `gorm:"primaryKey"`
	Name  string `gorm:"size:191;unique"`
	Value []byte
}
