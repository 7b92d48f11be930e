package daemon

import (
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/auth"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/config"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/db/controller/permission"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/db/controller/role"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/db/controller/user"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/errs"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/slug"
)

const (
	// SuperAdminRole is the label of the seeded system role holding every
	// administration capability.
	SuperAdminRole = "Super Admin"
)

// Seed creates the administration capabilities, the super admin role and,
// if configured, the initial admin user. Existing rows are left alone, so
// Seed is safe to run on every start.
func Seed(cfg *config.Config, db *gorm.DB, hasher user.Hasher) error {
	return db.Transaction(func(tx *gorm.DB) error {
		names, err := seedCapabilities(tx)
		if err != nil {
			return err
		}

		if err = seedSuperAdmin(tx, names); err != nil {
			return err
		}

		return seedAdminUser(tx, cfg.Admin, hasher)
	})
}

func seedCapabilities(tx *gorm.DB) ([]string, error) {
	capabilities := auth.Capabilities()
	names := make([]string, 0, len(capabilities))

	for _, c := range capabilities {
		p, err := permission.Create(tx, permission.Input{Module: c.Module, Label: c.Label})

		var dup *errs.DuplicateNameError

		switch {
		case errors.As(err, &dup):
			names = append(names, dup.Name)
		case err != nil:
			return nil, err
		default:
			log.Info().Str("permission", p.Name).Msg("seeded permission")

			names = append(names, p.Name)
		}
	}

	return names, nil
}

func seedSuperAdmin(tx *gorm.DB, names []string) error {
	r, err := role.GetByName(tx, slug.Make(SuperAdminRole))

	var unknown *errs.UnknownRoleError

	switch {
	case errors.As(err, &unknown):
		_, err = role.Create(tx, role.Input{
			Label:           SuperAdminRole,
			Description:     "Holds every administration capability.",
			PermissionNames: names,
			IsSystem:        true,
		})
		if err == nil {
			log.Info().Str("role", slug.Make(SuperAdminRole)).Msg("seeded system role")
		}

		return err
	case err != nil:
		return err
	}

	// capabilities added by newer releases
	return role.SyncPermissions(tx, r, append(r.PermissionNames(), names...))
}

func seedAdminUser(tx *gorm.DB, admin config.Admin, hasher user.Hasher) error {
	if admin.Email == "" {
		return nil
	}

	_, err := user.GetByEmail(tx, admin.Email)
	if err == nil {
		return nil
	}

	if !errors.Is(err, user.ErrEmailNotFound) {
		return err
	}

	name := admin.Name
	if name == "" {
		name = "Administrator"
	}

	u, err := user.Create(tx, hasher, user.Input{
		Name:      name,
		Email:     admin.Email,
		Password:  admin.Password,
		RoleNames: []string{slug.Make(SuperAdminRole)},
	})
	if err != nil {
		return err
	}

	log.Warn().Uint64("user_id", u.ID).Str("email", u.Email).
		Msg("seeded admin user, change the configured password")

	return nil
}
