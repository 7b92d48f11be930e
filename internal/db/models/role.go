package models

import "time"

// Role is a named set of permissions that can be assigned to users.
type Role struct {
	// ID is the unique identifier for the role.
	ID uint `gorm:"primaryKey" json:"id"`
	// Label is the human-readable display name (e.g., "Editor").
	Label string `gorm:"size:255;not null" json:"label"`
	// Name is the unique slug of Label (e.g., "editor").
	Name string `gorm:"size:255;not null;uniqueIndex" json:"name"`
	// Description provides a human-readable description of the role's purpose.
	Description string `gorm:"size:1000" json:"description"`
	// IsSystem marks seeded roles that cannot be deleted.
	IsSystem bool `gorm:"not null" json:"isSystem"`
	// Permissions granted by this role. Rows live in role_permissions.
	Permissions []Permission `gorm:"many2many:role_permissions;constraint:OnDelete:CASCADE" json:"permissions"`
	// CreatedAt is the timestamp when the role was created (managed by GORM).
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	// UpdatedAt is the timestamp when the role was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the database table name for the Role model.
func (Role) TableName() string {
	return "roles"
}

// PermissionNames returns the names of the loaded permissions.
func (r *Role) PermissionNames() []string {
	out := make([]string, 0, len(r.Permissions))
	for i := range r.Permissions {
		out = append(out, r.Permissions[i].Name)
	}

	return out
}
