// Package user is the registry of accounts and their role memberships.
package user

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	store "github.com/GoRBAC-Admin/GoRBAC-Admin/internal/db"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/db/controller/role"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/db/models"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/errs"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/validation"
)

// Entity names users in errors.
const Entity = "user"

// ErrEmailNotFound is returned by GetByEmail for an unknown address.
var ErrEmailNotFound = errors.New("no user with this email")

// Hasher turns a plain password into the stored one-way hash.
type Hasher interface {
	Hash(password string) (string, error)
}

// Input holds the fields of a new user. RoleNames is the complete role set.
type Input struct {
	Name      string   `json:"name"     validate:"required,max=255"`
	Email     string   `json:"email"    validate:"required,email,max=255"`
	Password  string   `json:"password" validate:"required,min=8,max=72"`
	RoleNames []string `json:"roles"`
}

// UpdateInput holds the fields of a user update. A nil Active leaves the flag
// unchanged and RoleNames is the complete role set. The password hash is never
// touched by an update.
type UpdateInput struct {
	Name      string   `json:"name"   validate:"required,max=255"`
	Email     string   `json:"email"  validate:"required,email,max=255"`
	Active    *bool    `json:"active"`
	RoleNames []string `json:"roles"`
}

// NormalizeEmail trims and lower-cases an address; emails are compared in
// this form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create adds an active user with a hashed password and assigns the named
// roles in one transaction.
func Create(db *gorm.DB, hasher Hasher, in Input) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = NormalizeEmail(in.Email)

	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	hash, err := hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	u := &models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: hash,
		Active:   true,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := ensureEmailFree(tx, u.Email, 0); err != nil {
			return err
		}

		if err := tx.Omit("Roles").Create(u).Error; err != nil {
			if store.IsDuplicateKey(err) {
				return &errs.DuplicateEmailError{Email: u.Email}
			}

			return err
		}

		return SyncRoles(tx, u, in.RoleNames)
	})
	if err != nil {
		return nil, err
	}

	return u, nil
}

// Update replaces name and email, optionally the active flag, and
// synchronizes the role set.
func Update(db *gorm.DB, id uint64, in UpdateInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = NormalizeEmail(in.Email)

	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	var u models.User

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&u, id).Error; err != nil {
			return notFound(err, id)
		}

		if in.Email != u.Email {
			if err := ensureEmailFree(tx, in.Email, u.ID); err != nil {
				return err
			}
		}

		u.Name = in.Name
		u.Email = in.Email

		if in.Active != nil {
			u.Active = *in.Active
		}

		if err := tx.Omit("Roles").Save(&u).Error; err != nil {
			if store.IsDuplicateKey(err) {
				return &errs.DuplicateEmailError{Email: u.Email}
			}

			return err
		}

		return SyncRoles(tx, &u, in.RoleNames)
	})
	if err != nil {
		return nil, err
	}

	return &u, nil
}

// SyncRoles makes the roles of u exactly the named set, writing only the
// difference. Unknown names fail with *errs.UnknownRoleError and leave the
// memberships untouched. On success u.Roles holds the new set ordered by name.
func SyncRoles(db *gorm.DB, u *models.User, names []string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		desired, err := role.Resolve(tx, names)
		if err != nil {
			return err
		}

		var currentIDs []uint
		if err := tx.Model(&models.UserRole{}).
			Where("user_id = ?", u.ID).
			Pluck("role_id", &currentIDs).Error; err != nil {
			return err
		}

		desiredIDs := make([]uint, 0, len(desired))
		for _, r := range desired {
			desiredIDs = append(desiredIDs, r.ID)
		}

		toAdd, toRemove := store.Diff(currentIDs, desiredIDs)

		if len(toRemove) > 0 {
			if err := tx.Where("user_id = ? AND role_id IN ?", u.ID, toRemove).
				Delete(&models.UserRole{}).Error; err != nil {
				return err
			}
		}

		if len(toAdd) > 0 {
			links := make([]models.UserRole, 0, len(toAdd))
			for _, id := range toAdd {
				links = append(links, models.UserRole{UserID: u.ID, RoleID: id})
			}

			if err := tx.Create(&links).Error; err != nil {
				return err
			}
		}

		u.Roles = desired

		return nil
	})
}

// Delete removes a user and its role memberships.
func Delete(db *gorm.DB, id uint64) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var u models.User
		if err := tx.First(&u, id).Error; err != nil {
			return notFound(err, id)
		}

		if err := tx.Where("user_id = ?", u.ID).Delete(&models.UserRole{}).Error; err != nil {
			return err
		}

		return tx.Delete(&u).Error
	})
}

// Get returns a user with its roles by id.
func Get(db *gorm.DB, id uint64) (*models.User, error) {
	var u models.User
	if err := db.Preload("Roles", orderByName).First(&u, id).Error; err != nil {
		return nil, notFound(err, id)
	}

	return &u, nil
}

// GetByEmail returns a user with its roles by email, compared normalized.
func GetByEmail(db *gorm.DB, email string) (*models.User, error) {
	var u models.User

	err := db.Preload("Roles", orderByName).Where("email = ?", NormalizeEmail(email)).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEmailNotFound
	}

	if err != nil {
		return nil, err
	}

	return &u, nil
}

// List returns one page of users with their roles, newest first. Search
// matches name and email case-insensitively.
func List(db *gorm.DB, opts store.ListOptions) (store.Page[models.User], error) {
	opts = opts.Normalize()
	q := db.Model(&models.User{})

	if opts.Search != "" {
		like := opts.SearchPattern()
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}

	return store.Fetch[models.User](q, opts, func(q *gorm.DB) *gorm.DB {
		return q.Preload("Roles", orderByName)
	})
}

func ensureEmailFree(tx *gorm.DB, email string, exceptID uint64) error {
	var count int64
	if err := tx.Model(&models.User{}).Where("email = ? AND id <> ?", email, exceptID).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return &errs.DuplicateEmailError{Email: email}
	}

	return nil
}

func orderByName(db *gorm.DB) *gorm.DB {
	return db.Order("name ASC")
}

func notFound(err error, id uint64) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &errs.NotFoundError{Entity: Entity, ID: id}
	}

	return err
}
