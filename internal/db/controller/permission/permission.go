// Package permission is the registry of named capabilities.
//
// Every permission carries a Name derived from its Label with slug.Make.
// Names are unique; they are what authorization checks compare.
package permission

import (
	"errors"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	store "github.com/GoRBAC-Admin/GoRBAC-Admin/internal/db"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/db/controller/renamelog"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/db/models"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/errs"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/slug"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/validation"
)

// Entity names permissions in errors and the rename log.
const Entity = "permission"

// Input holds the fields of a new permission.
type Input struct {
	Module      string `json:"module"      validate:"required,max=255"`
	Label       string `json:"label"       validate:"required,max=255"`
	Description string `json:"description" validate:"max=1000"`
}

// Fields holds a partial permission update. Nil fields are left unchanged.
type Fields struct {
	Module      *string `json:"module"      validate:"omitempty,max=255"`
	Label       *string `json:"label"       validate:"omitempty,max=255"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

// Grouped maps a module to its permissions.
type Grouped map[string][]models.Permission

// Modules returns the module keys in ascending order.
func (g Grouped) Modules() []string {
	out := make([]string, 0, len(g))
	for m := range g {
		out = append(out, m)
	}

	sort.Strings(out)

	return out
}

// Create adds a permission and derives its name from the label.
func Create(db *gorm.DB, in Input) (*models.Permission, error) {
	in.Module = strings.TrimSpace(in.Module)
	in.Label = strings.TrimSpace(in.Label)
	in.Description = strings.TrimSpace(in.Description)

	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	p := &models.Permission{
		Module:      in.Module,
		Label:       in.Label,
		Name:        slug.Make(in.Label),
		Description: in.Description,
	}

	if p.Name == "" {
		return nil, errs.NewValidationError("label", "must contain a letter or digit")
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := ensureNameFree(tx, p.Name, 0); err != nil {
			return err
		}

		if err := tx.Create(p).Error; err != nil {
			if store.IsDuplicateKey(err) {
				return &errs.DuplicateNameError{Entity: Entity, Name: p.Name}
			}

			return err
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return p, nil
}

// Update changes the given fields of a permission. A label change re-derives
// the name unless policy is slug.Keep; a changed name is written to the
// rename log in the same transaction.
func Update(db *gorm.DB, id uint, f Fields, policy slug.Policy) (*models.Permission, error) {
	trim(&f.Module)
	trim(&f.Label)
	trim(&f.Description)

	if err := validation.Struct(f); err != nil {
		return nil, err
	}

	if f.Module != nil && *f.Module == "" {
		return nil, errs.NewValidationError("module", "required")
	}

	if f.Label != nil && slug.Make(*f.Label) == "" {
		return nil, errs.NewValidationError("label", "must contain a letter or digit")
	}

	var p models.Permission

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&p, id).Error; err != nil {
			return notFound(err, id)
		}

		oldName := p.Name

		if f.Module != nil {
			p.Module = *f.Module
		}

		if f.Description != nil {
			p.Description = *f.Description
		}

		if f.Label != nil {
			p.Label = *f.Label
			p.Name = policy.Next(p.Name, p.Label)
		}

		if p.Name != oldName {
			if err := ensureNameFree(tx, p.Name, p.ID); err != nil {
				return err
			}
		}

		if err := tx.Save(&p).Error; err != nil {
			if store.IsDuplicateKey(err) {
				return &errs.DuplicateNameError{Entity: Entity, Name: p.Name}
			}

			return err
		}

		if p.Name == oldName {
			return nil
		}

		log.Warn().Uint("id", p.ID).Str("from", oldName).Str("to", p.Name).Msg("permission renamed")

		return renamelog.Append(tx, renamelog.Entry{Entity: Entity, ID: p.ID, From: oldName, To: p.Name})
	})
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// Delete removes a permission and detaches it from every role in one
// transaction.
func Delete(db *gorm.DB, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var p models.Permission
		if err := tx.First(&p, id).Error; err != nil {
			return notFound(err, id)
		}

		if err := tx.Where("permission_id = ?", p.ID).Delete(&models.RolePermission{}).Error; err != nil {
			return err
		}

		return tx.Delete(&p).Error
	})
}

// Get returns a permission by id.
func Get(db *gorm.DB, id uint) (*models.Permission, error) {
	var p models.Permission
	if err := db.First(&p, id).Error; err != nil {
		return nil, notFound(err, id)
	}

	return &p, nil
}

// GetByName returns a permission by its unique name.
func GetByName(db *gorm.DB, name string) (*models.Permission, error) {
	var p models.Permission

	err := db.Where("name = ?", name).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &errs.UnknownPermissionError{Names: []string{name}}
	}

	if err != nil {
		return nil, err
	}

	return &p, nil
}

// List returns one page of permissions, newest first. Search matches the
// label, name and module case-insensitively.
func List(db *gorm.DB, opts store.ListOptions) (store.Page[models.Permission], error) {
	opts = opts.Normalize()
	q := db.Model(&models.Permission{})

	if opts.Search != "" {
		like := opts.SearchPattern()
		q = q.Where("LOWER(label) LIKE ? OR LOWER(name) LIKE ? OR LOWER(module) LIKE ?", like, like, like)
	}

	return store.Fetch[models.Permission](q, opts)
}

// ListGroupedByModule returns every permission keyed by module, each group in
// creation order.
func ListGroupedByModule(db *gorm.DB) (Grouped, error) {
	var all []models.Permission
	if err := db.Order("module ASC").Order("id ASC").Find(&all).Error; err != nil {
		return nil, err
	}

	out := make(Grouped)
	for _, p := range all {
		out[p.Module] = append(out[p.Module], p)
	}

	return out, nil
}

// Resolve looks up permissions by name. Inputs are compared in slug form, so a
// label resolves to the permission it names. Every input must resolve; otherwise an
// *errs.UnknownPermissionError lists the unresolved inputs and nothing is returned. The
// result is ordered by name without duplicates.
func Resolve(db *gorm.DB, names []string) ([]models.Permission, error) {
	found, missing, err := store.FindByNames(db, names, slug.Make, func(p *models.Permission) string { return p.Name })
	if err != nil {
		return nil, err
	}

	if len(missing) > 0 {
		return nil, &errs.UnknownPermissionError{Names: missing}
	}

	return found, nil
}

func ensureNameFree(tx *gorm.DB, name string, exceptID uint) error {
	var count int64
	if err := tx.Model(&models.Permission{}).Where("name = ? AND id <> ?", name, exceptID).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return &errs.DuplicateNameError{Entity: Entity, Name: name}
	}

	return nil
}

func notFound(err error, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &errs.NotFoundError{Entity: Entity, ID: uint64(id)}
	}

	return err
}

func trim(s **string) {
	if *s != nil {
		v := strings.TrimSpace(**s)
		*s = &v
	}
}
