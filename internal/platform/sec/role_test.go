// Copyright (c) 2026 HallyuLatino. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hallyulatino/api/internal/platform/sec"
)

func TestUserRole_AtLeast(t *testing.T) {
	assert.True(t, sec.RoleAdmin.AtLeast(sec.RoleAdmin))
	assert.True(t, sec.RoleAdmin.AtLeast(sec.RoleUser))
	assert.True(t, sec.RoleModerator.AtLeast(sec.RoleUser))
	assert.False(t, sec.RoleModerator.AtLeast(sec.RoleAdmin))
	assert.False(t, sec.RoleUser.AtLeast(sec.RoleModerator))
	assert.False(t, sec.UserRole("root").AtLeast(sec.RoleUser))
}

func TestUserRole_Valid(t *testing.T) {
	assert.True(t, sec.RoleUser.Valid())
	assert.False(t, sec.UserRole("").Valid())
	assert.False(t, sec.UserRole("member").Valid())
}

func TestHashToken_Deterministic(t *testing.T) {
	token, err := sec.GenerateSecureToken(32)
	assert.NoError(t, err)
	assert.Len(t, token, 43)

	assert.Equal(t, sec.HashToken(token), sec.HashToken(token))
	assert.NotEqual(t, token, sec.HashToken(token))
	assert.Len(t, sec.HashToken(token), 64)
}

func TestRoles_AscendingRank(t *testing.T) {
	roles := sec.Roles()
	assert.Equal(t, []sec.UserRole{sec.RoleUser, sec.RoleModerator, sec.RoleAdmin}, roles)
	for i := 1; i < len(roles); i++ {
		assert.True(t, roles[i].AtLeast(roles[i-1]))
		assert.False(t, roles[i-1].AtLeast(roles[i]))
	}
}
