// Package role is the registry of named permission sets.
package role

import (
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	store "github.com/GoRBAC-Admin/GoRBAC-Admin/internal/db"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/db/controller/permission"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/db/controller/renamelog"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/db/models"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/errs"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/slug"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/validation"
)

// Entity names roles in errors and the rename log.
const Entity = "role"

// Input holds the fields of a role. PermissionNames is the complete desired
// permission set; an empty list detaches every permission.
type Input struct {
	Label           string   `json:"label"       validate:"required,max=255"`
	Description     string   `json:"description" validate:"max=1000"`
	PermissionNames []string `json:"permissions"`
	// IsSystem is honoured on Create only.
	IsSystem bool `json:"-"`
}

// Create adds a role and attaches the named permissions in one transaction.
func Create(db *gorm.DB, in Input) (*models.Role, error) {
	if err := normalize(&in); err != nil {
		return nil, err
	}

	r := &models.Role{
		Label:       in.Label,
		Name:        slug.Make(in.Label),
		Description: in.Description,
		IsSystem:    in.IsSystem,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := ensureNameFree(tx, r.Name, 0); err != nil {
			return err
		}

		if err := tx.Omit("Permissions").Create(r).Error; err != nil {
			if store.IsDuplicateKey(err) {
				return &errs.DuplicateNameError{Entity: Entity, Name: r.Name}
			}

			return err
		}

		return SyncPermissions(tx, r, in.PermissionNames)
	})
	if err != nil {
		return nil, err
	}

	return r, nil
}

// Update replaces label and description and synchronizes the permission set.
// A label change re-derives the name unless policy is slug.Keep.
func Update(db *gorm.DB, id uint, in Input, policy slug.Policy) (*models.Role, error) {
	if err := normalize(&in); err != nil {
		return nil, err
	}

	var r models.Role

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&r, id).Error; err != nil {
			return notFound(err, id)
		}

		oldName := r.Name
		r.Label = in.Label
		r.Description = in.Description
		r.Name = policy.Next(r.Name, r.Label)

		if r.Name != oldName {
			if err := ensureNameFree(tx, r.Name, r.ID); err != nil {
				return err
			}
		}

		if err := tx.Omit("Permissions").Save(&r).Error; err != nil {
			if store.IsDuplicateKey(err) {
				return &errs.DuplicateNameError{Entity: Entity, Name: r.Name}
			}

			return err
		}

		if err := SyncPermissions(tx, &r, in.PermissionNames); err != nil {
			return err
		}

		if r.Name == oldName {
			return nil
		}

		log.Warn().Uint("id", r.ID).Str("from", oldName).Str("to", r.Name).Msg("role renamed")

		return renamelog.Append(tx, renamelog.Entry{Entity: Entity, ID: r.ID, From: oldName, To: r.Name})
	})
	if err != nil {
		return nil, err
	}

	return &r, nil
}

// SyncPermissions makes the permissions of r exactly the named set.
// Only the difference is written: missing links are added, surplus links
// removed. Unknown names fail the whole call with *errs.UnknownPermissionError
// and leave the links untouched. On success r.Permissions holds the new set
// ordered by name.
func SyncPermissions(db *gorm.DB, r *models.Role, names []string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		desired, err := permission.Resolve(tx, names)
		if err != nil {
			return err
		}

		var currentIDs []uint
		if err := tx.Model(&models.RolePermission{}).
			Where("role_id = ?", r.ID).
			Pluck("permission_id", &currentIDs).Error; err != nil {
			return err
		}

		desiredIDs := make([]uint, 0, len(desired))
		for _, p := range desired {
			desiredIDs = append(desiredIDs, p.ID)
		}

		toAdd, toRemove := store.Diff(currentIDs, desiredIDs)

		if len(toRemove) > 0 {
			if err := tx.Where("role_id = ? AND permission_id IN ?", r.ID, toRemove).
				Delete(&models.RolePermission{}).Error; err != nil {
				return err
			}
		}

		if len(toAdd) > 0 {
			links := make([]models.RolePermission, 0, len(toAdd))
			for _, id := range toAdd {
				links = append(links, models.RolePermission{RoleID: r.ID, PermissionID: id})
			}

			if err := tx.Create(&links).Error; err != nil {
				return err
			}
		}

		r.Permissions = desired

		return nil
	})
}

// Delete removes a role, detaching it from its users and permissions in one
// transaction.
func Delete(db *gorm.DB, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var r models.Role
		if err := tx.First(&r, id).Error; err != nil {
			return notFound(err, id)
		}

		if err := tx.Where("role_id = ?", r.ID).Delete(&models.UserRole{}).Error; err != nil {
			return err
		}

		if err := tx.Where("role_id = ?", r.ID).Delete(&models.RolePermission{}).Error; err != nil {
			return err
		}

		return tx.Delete(&r).Error
	})
}

// Get returns a role with its permissions by id.
func Get(db *gorm.DB, id uint) (*models.Role, error) {
	var r models.Role
	if err := db.Preload("Permissions", orderByName).First(&r, id).Error; err != nil {
		return nil, notFound(err, id)
	}

	return &r, nil
}

// GetByName returns a role with its permissions by its unique name.
func GetByName(db *gorm.DB, name string) (*models.Role, error) {
	var r models.Role

	err := db.Preload("Permissions", orderByName).Where("name = ?", name).First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &errs.UnknownRoleError{Names: []string{name}}
	}

	if err != nil {
		return nil, err
	}

	return &r, nil
}

// List returns one page of roles with their permissions, newest first.
// Search matches label and name case-insensitively.
func List(db *gorm.DB, opts store.ListOptions) (store.Page[models.Role], error) {
	opts = opts.Normalize()
	q := db.Model(&models.Role{})

	if opts.Search != "" {
		like := opts.SearchPattern()
		q = q.Where("LOWER(label) LIKE ? OR LOWER(name) LIKE ?", like, like)
	}

	return store.Fetch[models.Role](q, opts, func(q *gorm.DB) *gorm.DB {
		return q.Preload("Permissions", orderByName)
	})
}

// All returns every role ordered by label, without permissions.
func All(db *gorm.DB) ([]models.Role, error) {
	var roles []models.Role
	if err := db.Order("label ASC").Order("id ASC").Find(&roles).Error; err != nil {
		return nil, err
	}

	return roles, nil
}

// Resolve looks up roles by name. Inputs are compared in slug form, so a
// label resolves to the role it names. Every input must resolve; otherwise an
// *errs.UnknownRoleError lists the unresolved inputs and nothing is returned. The
// result is ordered by name without duplicates.
func Resolve(db *gorm.DB, names []string) ([]models.Role, error) {
	found, missing, err := store.FindByNames(db, names, slug.Make, func(r *models.Role) string { return r.Name })
	if err != nil {
		return nil, err
	}

	if len(missing) > 0 {
		return nil, &errs.UnknownRoleError{Names: missing}
	}

	return found, nil
}

func normalize(in *Input) error {
	in.Label = strings.TrimSpace(in.Label)
	in.Description = strings.TrimSpace(in.Description)

	if err := validation.Struct(in); err != nil {
		return err
	}

	if slug.Make(in.Label) == "" {
		return errs.NewValidationError("label", "must contain a letter or digit")
	}

	return nil
}

func ensureNameFree(tx *gorm.DB, name string, exceptID uint) error {
	var count int64
	if err := tx.Model(&models.Role{}).Where("name = ? AND id <> ?", name, exceptID).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return &errs.DuplicateNameError{Entity: Entity, Name: name}
	}

	return nil
}

func orderByName(db *gorm.DB) *gorm.DB {
	return db.Order("name ASC")
}

func notFound(err error, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &errs.NotFoundError{Entity: Entity, ID: uint64(id)}
	}

	return err
}
