package auth

import (
	"context"
	"database/sql"
	"fmt"
	"slices"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"

	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/errs"
)

var checkCounter = promauto.NewCounterVec( //nolint:gochecknoglobals
	prometheus.CounterOpts{
		Name: "rbac_authorization_checks_total",
		Help: "Number of permission checks, differentiated by result.",
	},
	[]string{"result"},
)

// Service provides authorization functionality.
type Service struct {
	db *gorm.DB
}

// NewService creates a new auth service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// EffectivePermissions returns the union of the permission names of all roles
// of the user, sorted and without duplicates. A user without roles has none,
// and neither has a deactivated user whatever its roles are.
// An unknown user id yields *errs.NotFoundError.
//
// The union is read with a single statement, so it reflects one consistent
// state even while roles are being edited.
func (s *Service) EffectivePermissions(ctx context.Context, userID uint64) ([]string, error) {
	var rows []sql.NullString

	err := s.db.WithContext(ctx).Table("users").
		Joins("LEFT JOIN user_roles ON user_roles.user_id = users.id AND users.active = ?", true).
		Joins("LEFT JOIN role_permissions ON role_permissions.role_id = user_roles.role_id").
		Joins("LEFT JOIN permissions ON permissions.id = role_permissions.permission_id").
		Where("users.id = ?", userID).
		Pluck("permissions.name", &rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get user permissions: %w", err)
	}

	return collect(rows, userID)
}

// Roles returns the role names of the user, sorted.
// An unknown user id yields *errs.NotFoundError.
func (s *Service) Roles(ctx context.Context, userID uint64) ([]string, error) {
	var rows []sql.NullString

	err := s.db.WithContext(ctx).Table("users").
		Joins("LEFT JOIN user_roles ON user_roles.user_id = users.id").
		Joins("LEFT JOIN roles ON roles.id = user_roles.role_id").
		Where("users.id = ?", userID).
		Pluck("roles.name", &rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get user roles: %w", err)
	}

	return collect(rows, userID)
}

// HasPermission checks if a user has a specific permission through any of its roles.
func (s *Service) HasPermission(ctx context.Context, userID uint64, permission string) (bool, error) {
	perms, err := s.EffectivePermissions(ctx, userID)
	if err != nil {
		return false, err
	}

	_, found := slices.BinarySearch(perms, permission)
	count(found)

	return found, nil
}

// HasAnyPermission checks if a user has at least one of the given permissions.
// An empty list is never satisfied.
func (s *Service) HasAnyPermission(ctx context.Context, userID uint64, permissions []string) (bool, error) {
	perms, err := s.EffectivePermissions(ctx, userID)
	if err != nil {
		return false, err
	}

	for _, p := range permissions {
		if _, found := slices.BinarySearch(perms, p); found {
			count(true)

			return true, nil
		}
	}

	count(false)

	return false, nil
}

// HasAllPermissions checks if a user has all of the given permissions.
// An empty list is always satisfied.
func (s *Service) HasAllPermissions(ctx context.Context, userID uint64, permissions []string) (bool, error) {
	perms, err := s.EffectivePermissions(ctx, userID)
	if err != nil {
		return false, err
	}

	for _, p := range permissions {
		if _, found := slices.BinarySearch(perms, p); !found {
			count(false)

			return false, nil
		}
	}

	count(true)

	return true, nil
}

// HasRole checks if a user holds the named role.
func (s *Service) HasRole(ctx context.Context, userID uint64, role string) (bool, error) {
	roles, err := s.Roles(ctx, userID)
	if err != nil {
		return false, err
	}

	_, found := slices.BinarySearch(roles, role)

	return found, nil
}

// collect turns the outer join result into a sorted unique name list.
// The users row always yields at least one row, so no rows means no user.
func collect(rows []sql.NullString, userID uint64) ([]string, error) {
	if len(rows) == 0 {
		return nil, &errs.NotFoundError{Entity: "user", ID: userID}
	}

	out := make([]string, 0, len(rows))
	for _, r := range rows {
		if r.Valid {
			out = append(out, r.String)
		}
	}

	slices.Sort(out)

	return slices.Compact(out), nil
}

func count(granted bool) {
	if granted {
		checkCounter.WithLabelValues("granted").Inc()

		return
	}

	checkCounter.WithLabelValues("denied").Inc()
}
