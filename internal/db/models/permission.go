package models

import "time"

// Permission is a named capability that can be granted to roles.
// Name is the value compared during authorization checks and is derived
// from Label; Module only groups permissions for display.
type Permission struct {
	// ID is the unique identifier for the permission.
	ID uint `gorm:"primaryKey" json:"id"`
	// Module groups related permissions (e.g., "users").
	Module string `gorm:"size:255;not null;index" json:"module"`
	// Label is the human-readable display name (e.g., "Edit User").
	Label string `gorm:"size:255;not null" json:"label"`
	// Name is the unique slug of Label (e.g., "edit-user").
	Name string `gorm:"size:255;not null;uniqueIndex" json:"name"`
	// Description is optional free text.
	Description string `gorm:"size:1000" json:"description"`
	// CreatedAt is the timestamp when the permission was created (managed by GORM).
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	// UpdatedAt is the timestamp when the permission was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the database table name for the Permission model.
func (Permission) TableName() string {
	return "permissions"
}
