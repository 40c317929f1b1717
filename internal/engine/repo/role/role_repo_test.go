// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package role

import (
	"context"
	"testing"

	"github.com/go-arcade/groupfiles/internal/engine/model/role"
	"github.com/go-arcade/groupfiles/internal/pkg/matrix"
	"github.com/go-arcade/groupfiles/pkg/cache"
	"github.com/go-arcade/groupfiles/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&role.GroupRole{}))
	return db
}

func TestListMemberRoles(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewGroupRoleRepo(database.NewGormDB(db), nil, cache.Cache{})

	roles := []*role.GroupRole{
		{RoleId: "project-editor", GroupType: "project", Label: "Editor", Weight: 2, IsMember: role.RoleMember, PermissionsUI: role.RoleShownInUI},
		{RoleId: "project-member", GroupType: "project", Label: "Member", Weight: 0, IsMember: role.RoleMember, PermissionsUI: role.RoleShownInUI},
		{RoleId: "project-admin", GroupType: "project", Label: "Admin", Weight: 2, IsMember: role.RoleMember, PermissionsUI: role.RoleShownInUI},
		{RoleId: "project-outsider", GroupType: "project", Label: "Outsider", IsMember: role.RoleNonMember, PermissionsUI: role.RoleShownInUI},
		{RoleId: "project-hidden", GroupType: "project", Label: "Hidden", IsMember: role.RoleMember, PermissionsUI: role.RoleHiddenInUI},
		{RoleId: "team-member", GroupType: "team", Label: "Member", IsMember: role.RoleMember, PermissionsUI: role.RoleShownInUI},
	}
	for _, r := range roles {
		require.NoError(t, repo.CreateRole(ctx, r))
	}

	got, err := repo.ListMemberRoles(ctx, "project")
	require.NoError(t, err)
	assert.Equal(t, []matrix.Role{
		{RoleId: "project-member", Name: "Member"},
		{RoleId: "project-admin", Name: "Admin"},
		{RoleId: "project-editor", Name: "Editor"},
	}, got)

	got, err = repo.ListMemberRoles(ctx, "unknown")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListMemberRoles_Cached(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewGroupRoleRepo(database.NewGormDB(db), cache.NewFastCache(32<<20), cache.Cache{})

	require.NoError(t, repo.CreateRole(ctx, &role.GroupRole{RoleId: "r1", GroupType: "project", Label: "R1", IsMember: role.RoleMember, PermissionsUI: role.RoleShownInUI}))
	got, err := repo.ListMemberRoles(ctx, "project")
	require.NoError(t, err)
	require.Len(t, got, 1)

	// written behind the repository's back: the cached list is served
	require.NoError(t, db.Create(&role.GroupRole{RoleId: "r2", GroupType: "project", Label: "R2", IsMember: role.RoleMember, PermissionsUI: role.RoleShownInUI}).Error)
	got, err = repo.ListMemberRoles(ctx, "project")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	require.NoError(t, repo.Invalidate(ctx, "project"))
	got, err = repo.ListMemberRoles(ctx, "project")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
