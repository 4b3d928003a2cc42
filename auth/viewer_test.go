package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fast-admin/fastadmin/models"
)

func TestViewerPrivileged(t *testing.T) {
	cases := []struct {
		name  string
		roles []string
		want  bool
	}{
		{"super", []string{models.RoleCodeSuper}, true},
		{"admin", []string{models.RoleCodeAdmin}, true},
		{"user", []string{models.RoleCodeUser}, false},
		{"mixed", []string{models.RoleCodeUser, models.RoleCodeAdmin}, true},
		{"none", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := Viewer{UserID: 1, RoleCodes: tc.roles}
			assert.Equal(t, tc.want, v.Privileged())
		})
	}
}

func TestViewerHasRole(t *testing.T) {
	v := Viewer{RoleCodes: []string{models.RoleCodeUser}}
	assert.True(t, v.HasRole(models.RoleCodeUser))
	assert.False(t, v.HasRole(models.RoleCodeSuper))
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("123456")
	assert.NoError(t, err)
	assert.True(t, CheckPassword(hash, "123456"))
	assert.False(t, CheckPassword(hash, "654321"))
	assert.False(t, CheckPassword("not-a-hash", "123456"))
}
