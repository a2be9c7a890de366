// Package auth implements the portal's access model and the OAuth2 session
// flows against the hosted campus auth service.
package auth

import (
	"github.com/unilife/campus-portal/models"
)

// LoginPath is where unauthenticated page requests are sent
const LoginPath = "/login"

// rolePrefixes maps each role to the page-path prefix it owns. The mapping is
// one-to-one and flat: there are no partial permissions and no inheritance
// beyond the super_admin wildcard in AllowedPrefixes.
var rolePrefixes = map[models.Role]string{
	models.RoleStudent:    "/student",
	models.RoleLecturer:   "/lecturer",
	models.RoleAdmin:      "/admin",
	models.RoleVendor:     "/vendor",
	models.RoleDelivery:   "/delivery",
	models.RoleSuperAdmin: "/super-admin",
}

// RedirectPathForRole returns the dashboard landing path for a role.
// Total over the closed enumeration; unknown roles fall back to the login path.
func RedirectPathForRole(role models.Role) string {
	prefix, ok := rolePrefixes[role]
	if !ok {
		return LoginPath
	}
	return prefix + "/dashboard"
}

// HasAccess reports whether userRole satisfies requiredRole.
// super_admin satisfies any requirement; every other role requires exact
// equality.
func HasAccess(userRole, requiredRole models.Role) bool {
	if userRole == models.RoleSuperAdmin {
		return true
	}
	return userRole == requiredRole
}

// AllowedPrefixes returns the page-path prefixes the role may browse.
// super_admin is allowed every role's prefix; all other roles get exactly
// their own. Unknown roles get none.
func AllowedPrefixes(role models.Role) []string {
	if role == models.RoleSuperAdmin {
		prefixes := make([]string, 0, len(models.Roles))
		for _, r := range models.Roles {
			prefixes = append(prefixes, rolePrefixes[r])
		}
		return prefixes
	}
	prefix, ok := rolePrefixes[role]
	if !ok {
		return nil
	}
	return []string{prefix}
}
