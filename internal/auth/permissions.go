package auth

// Capability names guarding the administration operations. They are ordinary
// permissions: each equals the slug of its Capability label, so seeding the
// labels below produces exactly these names.
const (
	// PermAccessAdminModule allows using the administration area at all.
	PermAccessAdminModule = "access-admin-module"

	// PermViewPermission allows listing permissions.
	PermViewPermission = "view-permission"
	// PermCreatePermission allows creating permissions.
	PermCreatePermission = "create-permission"
	// PermEditPermission allows editing permissions.
	PermEditPermission = "edit-permission"
	// PermDeletePermission allows deleting permissions.
	PermDeletePermission = "delete-permission"

	// PermViewRole allows listing roles.
	PermViewRole = "view-role"
	// PermCreateRole allows creating roles.
	PermCreateRole = "create-role"
	// PermEditRole allows editing roles and their permission sets.
	PermEditRole = "edit-role"
	// PermDeleteRole allows deleting roles.
	PermDeleteRole = "delete-role"

	// PermViewUser allows listing users and reading other users' permissions.
	PermViewUser = "view-user"
	// PermCreateUser allows creating users.
	PermCreateUser = "create-user"
	// PermEditUser allows editing users and their role sets.
	PermEditUser = "edit-user"
	// PermDeleteUser allows deleting users.
	PermDeleteUser = "delete-user"
)

// Capability describes a built-in permission for seeding.
type Capability struct {
	Module string
	Label  string
}

// Capabilities lists every built-in permission.
func Capabilities() []Capability {
	return []Capability{
		{Module: "admin", Label: "Access Admin Module"},
		{Module: "permissions", Label: "View Permission"},
		{Module: "permissions", Label: "Create Permission"},
		{Module: "permissions", Label: "Edit Permission"},
		{Module: "permissions", Label: "Delete Permission"},
		{Module: "roles", Label: "View Role"},
		{Module: "roles", Label: "Create Role"},
		{Module: "roles", Label: "Edit Role"},
		{Module: "roles", Label: "Delete Role"},
		{Module: "users", Label: "View User"},
		{Module: "users", Label: "Create User"},
		{Module: "users", Label: "Edit User"},
		{Module: "users", Label: "Delete User"},
	}
}
