package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/unilife/campus-portal/models"
)

func TestRedirectPathForRole(t *testing.T) {
	t.Run("every role maps to its own dashboard", func(t *testing.T) {
		for _, role := range models.Roles {
			path := RedirectPathForRole(role)
			assert.True(t, strings.HasPrefix(path, "/"), "path for %s must be absolute", role)
			assert.True(t, strings.HasSuffix(path, "/dashboard"), "path for %s must land on a dashboard", role)

			slug := strings.ReplaceAll(string(role), "_", "-")
			assert.Contains(t, path, slug, "path for %s must contain its slug", role)
		}
	})

	t.Run("known mappings", func(t *testing.T) {
		assert.Equal(t, "/student/dashboard", RedirectPathForRole(models.RoleStudent))
		assert.Equal(t, "/super-admin/dashboard", RedirectPathForRole(models.RoleSuperAdmin))
	})

	t.Run("unknown role falls back to login", func(t *testing.T) {
		assert.Equal(t, LoginPath, RedirectPathForRole(models.Role("registrar")))
	})
}

func TestHasAccess(t *testing.T) {
	for _, r := range models.Roles {
		assert.True(t, HasAccess(r, r), "%s must access its own area", r)
		assert.True(t, HasAccess(models.RoleSuperAdmin, r), "super_admin must access %s", r)
	}

	for _, r1 := range models.Roles {
		for _, r2 := range models.Roles {
			if r1 == r2 || r1 == models.RoleSuperAdmin {
				continue
			}
			assert.False(t, HasAccess(r1, r2), "%s must not access %s", r1, r2)
		}
	}
}

func TestAllowedPrefixes(t *testing.T) {
	t.Run("regular roles get exactly their own prefix", func(t *testing.T) {
		assert.Equal(t, []string{"/lecturer"}, AllowedPrefixes(models.RoleLecturer))
		assert.Equal(t, []string{"/vendor"}, AllowedPrefixes(models.RoleVendor))
	})

	t.Run("super_admin gets every prefix", func(t *testing.T) {
		prefixes := AllowedPrefixes(models.RoleSuperAdmin)
		assert.Len(t, prefixes, len(models.Roles))
		assert.Contains(t, prefixes, "/student")
		assert.Contains(t, prefixes, "/super-admin")
	})

	t.Run("unknown role gets none", func(t *testing.T) {
		assert.Empty(t, AllowedPrefixes(models.Role("registrar")))
	})
}
