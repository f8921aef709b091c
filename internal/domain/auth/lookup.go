package auth

import "context"

// StaticPermissions resolves permissions from RolePermissions by role name.
// Roles come from the identity provider's token; this service keeps no role
// tables of its own.
type StaticPermissions struct{}

func (StaticPermissions) HasPermission(_ context.Context, roleName, permission string) (bool, error) {
	for _, perm := range RolePermissions[roleName] {
		if perm == permission {
			return true, nil
		}
	}
	return false, nil
}
