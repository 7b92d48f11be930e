package models

import "time"

// User is an account that gains permissions through its roles.
type User struct {
	// ID is the unique identifier for the user.
	ID uint64 `gorm:"primaryKey" json:"id"`
	// Name is the display name.
	Name string `gorm:"size:255;not null" json:"name"`
	// Email is unique across all users and stored lower-cased.
	Email string `gorm:"size:255;not null;uniqueIndex" json:"email"`
	// Password is the salted one-way hash. It is never serialized.
	Password string `gorm:"size:255;not null" json:"-"`
	// Active indicates whether the account may log in.
	Active bool `gorm:"not null" json:"active"`
	// Roles assigned to this user. Rows live in user_roles.
	Roles []Role `gorm:"many2many:user_roles;constraint:OnDelete:CASCADE" json:"roles"`
	// CreatedAt is the timestamp when the user was created (managed by GORM).
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	// UpdatedAt is the timestamp when the user was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the database table name for the User model.
func (User) TableName() string {
	return "users"
}

// RoleNames returns the names of the loaded roles.
func (u *User) RoleNames() []string {
	out := make([]string, 0, len(u.Roles))
	for i := range u.Roles {
		out = append(out, u.Roles[i].Name)
	}

	return out
}
