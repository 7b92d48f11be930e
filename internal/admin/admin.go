// Package admin is the administration service: authorized, validated and
// transactional management of permissions, roles and users.
//
// Every method takes the acting user id. The required capability is checked
// against the current database state before anything else happens, then the
// registry call runs in its own transaction. All failures are *Failure
// values carrying a stable errs.Kind.
package admin

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/auth"
	store "github.com/GoRBAC-Admin/GoRBAC-Admin/internal/db"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/db/controller/permission"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/db/controller/renamelog"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/db/controller/role"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/db/controller/user"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/db/models"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/errs"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/slug"
)

// Authorizer answers permission questions about a user.
type Authorizer interface {
	HasPermission(ctx context.Context, userID uint64, permission string) (bool, error)
	EffectivePermissions(ctx context.Context, userID uint64) ([]string, error)
}

// Options tune the service behaviour.
type Options struct {
	// NamePolicy decides whether a label change re-derives the name.
	NamePolicy slug.Policy
}

// Service implements the administration operations.
type Service struct {
	db     *gorm.DB
	authz  Authorizer
	hasher user.Hasher
	opts   Options
}

// New creates the administration service.
func New(db *gorm.DB, authz Authorizer, hasher user.Hasher, opts Options) *Service {
	return &Service{
		db:     db,
		authz:  authz,
		hasher: hasher,
		opts:   opts,
	}
}

// call describes one service operation.
type call struct {
	op           string
	actorID      uint64
	capabilities []string
	// write runs the operation in a transaction.
	write bool
}

// run authorizes c, then executes fn either in a transaction or on a plain
// session, and maps any error to *Failure.
func run[T any](ctx context.Context, s *Service, c call, fn func(db *gorm.DB) (T, error)) (T, error) {
	var zero T

	if err := s.authorize(ctx, c.actorID, c.capabilities...); err != nil {
		return zero, s.fail(c, err)
	}

	db := s.db.WithContext(ctx)

	if !c.write {
		out, err := fn(db)
		if err != nil {
			return zero, s.fail(c, err)
		}

		return out, nil
	}

	var out T

	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		out, err = fn(tx)

		return err
	})
	if err != nil {
		return zero, s.fail(c, err)
	}

	log.Info().Str("op", c.op).Uint64("actor_id", c.actorID).Msg("admin operation")

	return out, nil
}

// authorize requires the actor to hold every capability. An unknown actor
// holds none.
func (s *Service) authorize(ctx context.Context, actorID uint64, capabilities ...string) error {
	for _, capability := range capabilities {
		ok, err := s.authz.HasPermission(ctx, actorID, capability)
		if errs.KindOf(err) == errs.KindNotFound {
			ok, err = false, nil
		}

		if err != nil {
			return err
		}

		if !ok {
			return &errs.ForbiddenError{ActorID: actorID, Capability: capability}
		}
	}

	return nil
}

func (s *Service) fail(c call, err error) error {
	f := newFailure(err)

	evt := log.Debug()
	if f.Kind == errs.KindInternal {
		evt = log.Error()
	}

	evt.Err(err).Str("op", c.op).Uint64("actor_id", c.actorID).Str("kind", string(f.Kind)).Msg("admin operation failed")

	return f
}

// adminCaps bundles the area capability with an operation capability.
func adminCaps(capability string) []string {
	return []string{auth.PermAccessAdminModule, capability}
}

// CreatePermission creates a permission.
func (s *Service) CreatePermission(ctx context.Context, actorID uint64, in permission.Input) (*models.Permission, error) {
	return run(ctx, s, call{op: "permission.create", actorID: actorID, capabilities: adminCaps(auth.PermCreatePermission), write: true},
		func(db *gorm.DB) (*models.Permission, error) {
			return permission.Create(db, in)
		})
}

// UpdatePermission changes the given fields of a permission.
func (s *Service) UpdatePermission(ctx context.Context, actorID uint64, id uint, f permission.Fields) (*models.Permission, error) {
	return run(ctx, s, call{op: "permission.update", actorID: actorID, capabilities: adminCaps(auth.PermEditPermission), write: true},
		func(db *gorm.DB) (*models.Permission, error) {
			return permission.Update(db, id, f, s.opts.NamePolicy)
		})
}

// DeletePermission deletes a permission and detaches it from all roles.
func (s *Service) DeletePermission(ctx context.Context, actorID uint64, id uint) error {
	_, err := run(ctx, s, call{op: "permission.delete", actorID: actorID, capabilities: adminCaps(auth.PermDeletePermission), write: true},
		func(db *gorm.DB) (struct{}, error) {
			return struct{}{}, permission.Delete(db, id)
		})

	return err
}

// GetPermission returns one permission.
func (s *Service) GetPermission(ctx context.Context, actorID uint64, id uint) (*models.Permission, error) {
	return run(ctx, s, call{op: "permission.get", actorID: actorID, capabilities: adminCaps(auth.PermViewPermission)},
		func(db *gorm.DB) (*models.Permission, error) {
			return permission.Get(db, id)
		})
}

// ListPermissions returns one page of permissions.
func (s *Service) ListPermissions(ctx context.Context, actorID uint64, opts store.ListOptions) (store.Page[models.Permission], error) {
	return run(ctx, s, call{op: "permission.list", actorID: actorID, capabilities: adminCaps(auth.PermViewPermission)},
		func(db *gorm.DB) (store.Page[models.Permission], error) {
			return permission.List(db, opts)
		})
}

// PermissionsByModule returns every permission grouped by module.
func (s *Service) PermissionsByModule(ctx context.Context, actorID uint64) (permission.Grouped, error) {
	return run(ctx, s, call{op: "permission.modules", actorID: actorID, capabilities: adminCaps(auth.PermViewPermission)},
		func(db *gorm.DB) (permission.Grouped, error) {
			return permission.ListGroupedByModule(db)
		})
}

// CreateRole creates a role with the named permissions.
func (s *Service) CreateRole(ctx context.Context, actorID uint64, in role.Input) (*models.Role, error) {
	in.IsSystem = false

	return run(ctx, s, call{op: "role.create", actorID: actorID, capabilities: adminCaps(auth.PermCreateRole), write: true},
		func(db *gorm.DB) (*models.Role, error) {
			return role.Create(db, in)
		})
}

// UpdateRole replaces label and description of a role and synchronizes its
// permissions. System roles are read-only.
func (s *Service) UpdateRole(ctx context.Context, actorID uint64, id uint, in role.Input) (*models.Role, error) {
	return run(ctx, s, call{op: "role.update", actorID: actorID, capabilities: adminCaps(auth.PermEditRole), write: true},
		func(db *gorm.DB) (*models.Role, error) {
			r, err := role.Get(db, id)
			if err != nil {
				return nil, err
			}

			if r.IsSystem {
				return nil, errs.NewValidationError("id", "system roles cannot be changed")
			}

			return role.Update(db, id, in, s.opts.NamePolicy)
		})
}

// DeleteRole deletes a role. System roles cannot be deleted.
func (s *Service) DeleteRole(ctx context.Context, actorID uint64, id uint) error {
	_, err := run(ctx, s, call{op: "role.delete", actorID: actorID, capabilities: adminCaps(auth.PermDeleteRole), write: true},
		func(db *gorm.DB) (struct{}, error) {
			r, err := role.Get(db, id)
			if err != nil {
				return struct{}{}, err
			}

			if r.IsSystem {
				return struct{}{}, errs.NewValidationError("id", "system roles cannot be deleted")
			}

			return struct{}{}, role.Delete(db, id)
		})

	return err
}

// GetRole returns one role with its permissions.
func (s *Service) GetRole(ctx context.Context, actorID uint64, id uint) (*models.Role, error) {
	return run(ctx, s, call{op: "role.get", actorID: actorID, capabilities: adminCaps(auth.PermViewRole)},
		func(db *gorm.DB) (*models.Role, error) {
			return role.Get(db, id)
		})
}

// ListRoles returns one page of roles with their permissions.
func (s *Service) ListRoles(ctx context.Context, actorID uint64, opts store.ListOptions) (store.Page[models.Role], error) {
	return run(ctx, s, call{op: "role.list", actorID: actorID, capabilities: adminCaps(auth.PermViewRole)},
		func(db *gorm.DB) (store.Page[models.Role], error) {
			return role.List(db, opts)
		})
}

// AllRoles returns every role ordered by label.
func (s *Service) AllRoles(ctx context.Context, actorID uint64) ([]models.Role, error) {
	return run(ctx, s, call{op: "role.all", actorID: actorID, capabilities: adminCaps(auth.PermViewRole)},
		func(db *gorm.DB) ([]models.Role, error) {
			return role.All(db)
		})
}

// CreateUser creates a user with the named roles.
func (s *Service) CreateUser(ctx context.Context, actorID uint64, in user.Input) (*models.User, error) {
	return run(ctx, s, call{op: "user.create", actorID: actorID, capabilities: adminCaps(auth.PermCreateUser), write: true},
		func(db *gorm.DB) (*models.User, error) {
			return user.Create(db, s.hasher, in)
		})
}

// UpdateUser changes a user and synchronizes its roles.
func (s *Service) UpdateUser(ctx context.Context, actorID uint64, id uint64, in user.UpdateInput) (*models.User, error) {
	return run(ctx, s, call{op: "user.update", actorID: actorID, capabilities: adminCaps(auth.PermEditUser), write: true},
		func(db *gorm.DB) (*models.User, error) {
			if id == actorID && in.Active != nil && !*in.Active {
				return nil, errs.NewValidationError("active", "you cannot deactivate your own account")
			}

			return user.Update(db, id, in)
		})
}

// DeleteUser deletes a user. Actors cannot delete themselves.
func (s *Service) DeleteUser(ctx context.Context, actorID uint64, id uint64) error {
	_, err := run(ctx, s, call{op: "user.delete", actorID: actorID, capabilities: adminCaps(auth.PermDeleteUser), write: true},
		func(db *gorm.DB) (struct{}, error) {
			if id == actorID {
				return struct{}{}, errs.NewValidationError("id", "you cannot delete your own account")
			}

			return struct{}{}, user.Delete(db, id)
		})

	return err
}

// GetUser returns one user with its roles.
func (s *Service) GetUser(ctx context.Context, actorID uint64, id uint64) (*models.User, error) {
	return run(ctx, s, call{op: "user.get", actorID: actorID, capabilities: adminCaps(auth.PermViewUser)},
		func(db *gorm.DB) (*models.User, error) {
			return user.Get(db, id)
		})
}

// ListUsers returns one page of users with their roles.
func (s *Service) ListUsers(ctx context.Context, actorID uint64, opts store.ListOptions) (store.Page[models.User], error) {
	return run(ctx, s, call{op: "user.list", actorID: actorID, capabilities: adminCaps(auth.PermViewUser)},
		func(db *gorm.DB) (store.Page[models.User], error) {
			return user.List(db, opts)
		})
}

// EffectivePermissions returns the permission names of a user. Actors may
// always read their own; reading others requires view-user.
func (s *Service) EffectivePermissions(ctx context.Context, actorID, userID uint64) ([]string, error) {
	return run(ctx, s, call{op: "user.permissions", actorID: actorID, capabilities: s.aboutUser(actorID, userID)},
		func(_ *gorm.DB) ([]string, error) {
			return s.authz.EffectivePermissions(ctx, userID)
		})
}

// HasPermission reports whether a user holds the named permission, with the
// same visibility rule as EffectivePermissions.
func (s *Service) HasPermission(ctx context.Context, actorID, userID uint64, name string) (bool, error) {
	return run(ctx, s, call{op: "user.check", actorID: actorID, capabilities: s.aboutUser(actorID, userID)},
		func(_ *gorm.DB) (bool, error) {
			return s.authz.HasPermission(ctx, userID, name)
		})
}

// RenameLog returns the recorded permission and role renames, oldest first.
func (s *Service) RenameLog(ctx context.Context, actorID uint64) ([]renamelog.Entry, error) {
	return run(ctx, s, call{op: "renames", actorID: actorID, capabilities: []string{auth.PermAccessAdminModule}},
		func(db *gorm.DB) ([]renamelog.Entry, error) {
			return renamelog.Load(db)
		})
}

func (s *Service) aboutUser(actorID, userID uint64) []string {
	if actorID == userID {
		return nil
	}

	return []string{auth.PermViewUser}
}

// IsKind reports whether err is a *Failure of kind k.
func IsKind(err error, k errs.Kind) bool {
	var f *Failure

	return errors.As(err, &f) && f.Kind == k
}
