package admin

import (
	"context"
	"errors"
	"testing"

	"github.com/alexedwards/argon2id"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/auth"
	store "github.com/GoRBAC-Admin/GoRBAC-Admin/internal/db"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/db/controller/permission"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/db/controller/role"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/db/controller/user"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/db/dbtest"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/errs"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/slug"
)

type fixture struct {
	db      *gorm.DB
	service *Service
	root    uint64 // holds every capability through a system role
	nobody  uint64 // holds no role
}

func setup(t *testing.T, opts Options) fixture {
	t.Helper()

	db := dbtest.New(t)
	hasher := &auth.Argon2id{Params: &argon2id.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}}

	names := make([]string, 0, len(auth.Capabilities()))
	for _, c := range auth.Capabilities() {
		p, err := permission.Create(db, permission.Input{Module: c.Module, Label: c.Label})
		require.NoError(t, err)

		names = append(names, p.Name)
	}

	_, err := role.Create(db, role.Input{Label: "Super Admin", PermissionNames: names, IsSystem: true})
	require.NoError(t, err)

	root, err := user.Create(db, hasher, user.Input{Name: "Root", Email: "root@x.com", Password: "password1", RoleNames: []string{"super-admin"}})
	require.NoError(t, err)

	nobody, err := user.Create(db, hasher, user.Input{Name: "Nobody", Email: "nobody@x.com", Password: "password1"})
	require.NoError(t, err)

	return fixture{
		db:      db,
		service: New(db, auth.NewService(db), hasher, opts),
		root:    root.ID,
		nobody:  nobody.ID,
	}
}

func kindOf(err error) errs.Kind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}

	return ""
}

func TestGrantThroughRole(t *testing.T) {
	f := setup(t, Options{})
	ctx := context.Background()

	p, err := f.service.CreatePermission(ctx, f.root, permission.Input{Module: "posts", Label: "Edit Post"})
	require.NoError(t, err)
	assert.Equal(t, "edit-post", p.Name)

	r, err := f.service.CreateRole(ctx, f.root, role.Input{Label: "Editor", PermissionNames: []string{"edit-post"}})
	require.NoError(t, err)
	assert.Equal(t, "editor", r.Name)

	u, err := f.service.CreateUser(ctx, f.root, user.Input{Name: "A", Email: "a@x.com", Password: "password1", RoleNames: []string{"Editor"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"editor"}, u.RoleNames())

	ok, err := f.service.HasPermission(ctx, f.root, u.ID, "edit-post")
	require.NoError(t, err)
	assert.True(t, ok)

	// the user may inspect itself without view-user
	perms, err := f.service.EffectivePermissions(ctx, u.ID, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"edit-post"}, perms)

	// but not others
	_, err = f.service.EffectivePermissions(ctx, u.ID, f.root)
	assert.Equal(t, errs.KindForbidden, kindOf(err))

	// deleting the permission removes it from the user at once
	require.NoError(t, f.service.DeletePermission(ctx, f.root, p.ID))

	ok, err = f.service.HasPermission(ctx, f.root, u.ID, "edit-post")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestForbidden(t *testing.T) {
	f := setup(t, Options{})
	ctx := context.Background()

	testCases := []struct {
		name string
		call func(actor uint64) error
	}{
		{name: "create permission", call: func(a uint64) error {
			_, err := f.service.CreatePermission(ctx, a, permission.Input{Module: "m", Label: "X"})
			return err
		}},
		{name: "list permissions", call: func(a uint64) error {
			_, err := f.service.ListPermissions(ctx, a, store.ListOptions{})
			return err
		}},
		{name: "modules", call: func(a uint64) error {
			_, err := f.service.PermissionsByModule(ctx, a)
			return err
		}},
		{name: "create role", call: func(a uint64) error {
			_, err := f.service.CreateRole(ctx, a, role.Input{Label: "X"})
			return err
		}},
		{name: "delete role", call: func(a uint64) error {
			return f.service.DeleteRole(ctx, a, 1)
		}},
		{name: "list users", call: func(a uint64) error {
			_, err := f.service.ListUsers(ctx, a, store.ListOptions{})
			return err
		}},
		{name: "delete user", call: func(a uint64) error {
			return f.service.DeleteUser(ctx, a, f.root)
		}},
		{name: "rename log", call: func(a uint64) error {
			_, err := f.service.RenameLog(ctx, a)
			return err
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for _, actor := range []uint64{f.nobody, 12345} {
				err := tc.call(actor)
				assert.Equal(t, errs.KindForbidden, kindOf(err), "actor %d: %v", actor, err)
			}
		})
	}

	// nothing was written
	page, err := f.service.ListRoles(ctx, f.root, store.ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalItems)
}

func TestForbiddenNamesCapability(t *testing.T) {
	f := setup(t, Options{})

	// holds the area capability but not create-role
	_, err := f.service.CreateRole(context.Background(), f.root, role.Input{Label: "Limited", PermissionNames: []string{auth.PermAccessAdminModule}})
	require.NoError(t, err)

	limited, err := f.service.CreateUser(context.Background(), f.root, user.Input{Name: "L", Email: "l@x.com", Password: "password1", RoleNames: []string{"limited"}})
	require.NoError(t, err)

	_, err = f.service.CreateRole(context.Background(), limited.ID, role.Input{Label: "X"})

	var forbidden *errs.ForbiddenError
	require.True(t, errors.As(err, &forbidden))
	assert.Equal(t, auth.PermCreateRole, forbidden.Capability)
}

func TestFailureKinds(t *testing.T) {
	f := setup(t, Options{})
	ctx := context.Background()

	_, err := f.service.CreateRole(ctx, f.root, role.Input{Label: "Editor"})
	require.NoError(t, err)

	testCases := []struct {
		name      string
		call      func() error
		wantKind  errs.Kind
		wantNames []string
	}{
		{
			name: "duplicate name",
			call: func() error {
				_, err := f.service.CreateRole(ctx, f.root, role.Input{Label: "EDITOR"})
				return err
			},
			wantKind: errs.KindDuplicateName,
		},
		{
			name: "duplicate email",
			call: func() error {
				_, err := f.service.CreateUser(ctx, f.root, user.Input{Name: "R", Email: "ROOT@x.com", Password: "password1"})
				return err
			},
			wantKind: errs.KindDuplicateEmail,
		},
		{
			name: "unknown permission",
			call: func() error {
				_, err := f.service.CreateRole(ctx, f.root, role.Input{Label: "Auditor", PermissionNames: []string{"ghost", "view-user"}})
				return err
			},
			wantKind:  errs.KindUnknownPermission,
			wantNames: []string{"ghost"},
		},
		{
			name: "unknown role",
			call: func() error {
				_, err := f.service.CreateUser(ctx, f.root, user.Input{Name: "B", Email: "b@x.com", Password: "password1", RoleNames: []string{"ghost"}})
				return err
			},
			wantKind:  errs.KindUnknownRole,
			wantNames: []string{"ghost"},
		},
		{
			name: "validation",
			call: func() error {
				_, err := f.service.CreatePermission(ctx, f.root, permission.Input{Label: "No Module"})
				return err
			},
			wantKind: errs.KindValidation,
		},
		{
			name: "not found",
			call: func() error {
				return f.service.DeletePermission(ctx, f.root, 4242)
			},
			wantKind: errs.KindNotFound,
		},
		{
			name: "delete self",
			call: func() error {
				return f.service.DeleteUser(ctx, f.root, f.root)
			},
			wantKind: errs.KindValidation,
		},
		{
			name: "deactivate self",
			call: func() error {
				off := false
				_, err := f.service.UpdateUser(ctx, f.root, f.root, user.UpdateInput{Name: "Root", Email: "root@x.com", Active: &off, RoleNames: []string{"super-admin"}})
				return err
			},
			wantKind: errs.KindValidation,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.call()

			var failure *Failure
			require.True(t, errors.As(err, &failure), "got %T %v", err, err)
			assert.Equal(t, tc.wantKind, failure.Kind)
			assert.Equal(t, tc.wantNames, failure.Names)
			assert.NotEmpty(t, failure.Message)
			assert.True(t, IsKind(err, tc.wantKind))
		})
	}
}

func TestDeleteSystemRole(t *testing.T) {
	f := setup(t, Options{})
	ctx := context.Background()

	super, err := role.GetByName(f.db, "super-admin")
	require.NoError(t, err)

	err = f.service.DeleteRole(ctx, f.root, super.ID)
	assert.Equal(t, errs.KindValidation, kindOf(err))

	r, err := f.service.CreateRole(ctx, f.root, role.Input{Label: "Temp"})
	require.NoError(t, err)
	assert.False(t, r.IsSystem)
	require.NoError(t, f.service.DeleteRole(ctx, f.root, r.ID))
}

func TestUpdateSystemRole(t *testing.T) {
	f := setup(t, Options{})
	ctx := context.Background()

	super, err := role.GetByName(f.db, "super-admin")
	require.NoError(t, err)

	testCases := []struct {
		name string
		in   role.Input
	}{
		{name: "rename", in: role.Input{Label: "Janitor", PermissionNames: super.PermissionNames()}},
		{name: "empty permissions", in: role.Input{Label: super.Label}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.service.UpdateRole(ctx, f.root, super.ID, tc.in)
			assert.Equal(t, errs.KindValidation, kindOf(err))

			got, err := role.Get(f.db, super.ID)
			require.NoError(t, err)
			assert.Equal(t, "super-admin", got.Name)
			assert.Equal(t, super.PermissionNames(), got.PermissionNames())
		})
	}

	r, err := f.service.CreateRole(ctx, f.root, role.Input{Label: "Temp"})
	require.NoError(t, err)

	r, err = f.service.UpdateRole(ctx, f.root, r.ID, role.Input{Label: "Temp", PermissionNames: []string{auth.PermViewUser}})
	require.NoError(t, err)
	assert.Equal(t, []string{auth.PermViewUser}, r.PermissionNames())
}

func TestUpdateUserKeepsPassword(t *testing.T) {
	f := setup(t, Options{})
	ctx := context.Background()

	u, err := f.service.CreateUser(ctx, f.root, user.Input{Name: "A", Email: "a@x.com", Password: "password1"})
	require.NoError(t, err)

	before, err := user.Get(f.db, u.ID)
	require.NoError(t, err)

	_, err = f.service.UpdateUser(ctx, f.root, u.ID, user.UpdateInput{Name: "A", Email: "a@x.com", RoleNames: []string{"super-admin"}})
	require.NoError(t, err)

	after, err := user.Get(f.db, u.ID)
	require.NoError(t, err)
	assert.Equal(t, before.Password, after.Password)
}

func TestDeactivatedActorIsForbidden(t *testing.T) {
	f := setup(t, Options{})
	ctx := context.Background()

	second, err := f.service.CreateUser(ctx, f.root, user.Input{Name: "Second", Email: "second@x.com", Password: "password1", RoleNames: []string{"super-admin"}})
	require.NoError(t, err)

	_, err = f.service.CreatePermission(ctx, second.ID, permission.Input{Module: "m", Label: "Before"})
	require.NoError(t, err)

	off := false
	_, err = f.service.UpdateUser(ctx, f.root, second.ID, user.UpdateInput{Name: "Second", Email: "second@x.com", Active: &off, RoleNames: []string{"super-admin"}})
	require.NoError(t, err)

	_, err = f.service.CreatePermission(ctx, second.ID, permission.Input{Module: "m", Label: "After"})
	assert.Equal(t, errs.KindForbidden, kindOf(err))

	_, err = f.service.ListUsers(ctx, second.ID, store.ListOptions{})
	assert.Equal(t, errs.KindForbidden, kindOf(err))

	perms, err := f.service.EffectivePermissions(ctx, second.ID, second.ID)
	require.NoError(t, err)
	assert.Empty(t, perms)
}

func TestCreateRoleIgnoresSystemFlag(t *testing.T) {
	f := setup(t, Options{})

	r, err := f.service.CreateRole(context.Background(), f.root, role.Input{Label: "Sneaky", IsSystem: true})
	require.NoError(t, err)
	assert.False(t, r.IsSystem)
}

func TestNamePolicy(t *testing.T) {
	ctx := context.Background()
	label := "Chief Editor"

	testCases := []struct {
		name     string
		policy   slug.Policy
		wantName string
		wantLog  int
	}{
		{name: "rederive", policy: slug.Rederive, wantName: "chief-editor", wantLog: 1},
		{name: "keep", policy: slug.Keep, wantName: "editor", wantLog: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := setup(t, Options{NamePolicy: tc.policy})

			r, err := f.service.CreateRole(ctx, f.root, role.Input{Label: "Editor"})
			require.NoError(t, err)

			r, err = f.service.UpdateRole(ctx, f.root, r.ID, role.Input{Label: label})
			require.NoError(t, err)
			assert.Equal(t, tc.wantName, r.Name)

			entries, err := f.service.RenameLog(ctx, f.root)
			require.NoError(t, err)
			assert.Len(t, entries, tc.wantLog)
		})
	}
}

func TestUpdateAndList(t *testing.T) {
	f := setup(t, Options{})
	ctx := context.Background()

	p, err := f.service.CreatePermission(ctx, f.root, permission.Input{Module: "posts", Label: "Edit Post"})
	require.NoError(t, err)

	desc := "change posts"
	p, err = f.service.UpdatePermission(ctx, f.root, p.ID, permission.Fields{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, desc, p.Description)

	got, err := f.service.GetPermission(ctx, f.root, p.ID)
	require.NoError(t, err)
	assert.Equal(t, desc, got.Description)

	grouped, err := f.service.PermissionsByModule(ctx, f.root)
	require.NoError(t, err)
	assert.Contains(t, grouped.Modules(), "posts")

	u, err := f.service.CreateUser(ctx, f.root, user.Input{Name: "A", Email: "a@x.com", Password: "password1"})
	require.NoError(t, err)

	u, err = f.service.UpdateUser(ctx, f.root, u.ID, user.UpdateInput{Name: "A2", Email: "a@x.com", RoleNames: []string{"super-admin"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"super-admin"}, u.RoleNames())

	got2, err := f.service.GetUser(ctx, f.root, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "A2", got2.Name)

	users, err := f.service.ListUsers(ctx, f.root, store.ListOptions{Search: "a2"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), users.TotalItems)

	roles, err := f.service.AllRoles(ctx, f.root)
	require.NoError(t, err)
	assert.Len(t, roles, 1)

	r, err := f.service.GetRole(ctx, f.root, roles[0].ID)
	require.NoError(t, err)
	assert.Len(t, r.Permissions, len(auth.Capabilities()))

	require.NoError(t, f.service.DeleteUser(ctx, f.root, u.ID))
	_, err = f.service.GetUser(ctx, f.root, u.ID)
	assert.Equal(t, errs.KindNotFound, kindOf(err))
}

func TestFailureInternal(t *testing.T) {
	f := newFailure(errors.New("connection refused"))
	assert.Equal(t, errs.KindInternal, f.Kind)
	assert.Equal(t, "internal error", f.Message)
	assert.Equal(t, "internal: internal error", f.Error())
	assert.EqualError(t, f.Unwrap(), "connection refused")
}
