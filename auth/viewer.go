package auth

import "github.com/fast-admin/fastadmin/models"

// privilegedRoles are exempt from the ownership narrowing applied to list
// queries. Kept as a fixed set; a per-role capability flag would replace
// this if the role catalog ever grows beyond the seeded three.
var privilegedRoles = map[string]struct{}{
	models.RoleCodeSuper: {},
	models.RoleCodeAdmin: {},
}

// Viewer is the caller identity threaded explicitly through queries and
// handlers. It is resolved per request from the verified token plus a role
// lookup, never cached across requests.
type Viewer struct {
	UserID    int64
	UserName  string
	RoleCodes []string
}

// Privileged reports whether any of the viewer's role codes belongs to the
// privileged set.
func (v Viewer) Privileged() bool {
	for _, code := range v.RoleCodes {
		if _, ok := privilegedRoles[code]; ok {
			return true
		}
	}
	return false
}

// HasRole reports membership of a single role code.
func (v Viewer) HasRole(code string) bool {
	for _, c := range v.RoleCodes {
		if c == code {
			return true
		}
	}
	return false
}
