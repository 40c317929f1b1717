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
	"fmt"

	"github.com/go-arcade/groupfiles/internal/engine/model/role"
	"github.com/go-arcade/groupfiles/internal/pkg/matrix"
	"github.com/go-arcade/groupfiles/pkg/cache"
	"github.com/go-arcade/groupfiles/pkg/database"
)

type IGroupRoleRepository interface {
	// ListMemberRoles returns the member roles of a group type that are
	// shown in permission UIs, ordered by weight then role id.
	ListMemberRoles(ctx context.Context, groupType string) ([]matrix.Role, error)
	CreateRole(ctx context.Context, r *role.GroupRole) error
	Invalidate(ctx context.Context, groupType string) error
}

type GroupRoleRepo struct {
	db          database.IDatabase
	memberRoles *cache.CachedQuery[[]matrix.Role]
}

func NewGroupRoleRepo(db database.IDatabase, c cache.ICache, conf cache.Cache) IGroupRoleRepository {
	return &GroupRoleRepo{
		db: db,
		memberRoles: cache.NewCachedQuery(c, memberRolesKey,
			cache.WithTTL[[]matrix.Role](conf.TTL),
			cache.WithLogPrefix[[]matrix.Role]("[GroupRoleRepo]"),
		),
	}
}

func memberRolesKey(params ...any) string {
	return fmt.Sprintf("group_roles:member:%v", params[0])
}

func (r *GroupRoleRepo) ListMemberRoles(ctx context.Context, groupType string) ([]matrix.Role, error) {
	return r.memberRoles.Get(ctx, func(ctx context.Context) ([]matrix.Role, error) {
		var rows []role.GroupRole
		err := database.ReadDB(r.db.Database().WithContext(ctx)).
			Select("role_id", "label").
			Where("group_type = ? AND permissions_ui = ? AND is_member = ?", groupType, role.RoleShownInUI, role.RoleMember).
			Order("weight ASC").
			Order("role_id ASC").
			Find(&rows).Error
		if err != nil {
			return nil, err
		}

		roles := make([]matrix.Role, 0, len(rows))
		for _, row := range rows {
			roles = append(roles, matrix.Role{RoleId: row.RoleId, Name: row.Label})
		}
		return roles, nil
	}, groupType)
}

func (r *GroupRoleRepo) CreateRole(ctx context.Context, ro *role.GroupRole) error {
	if err := r.db.Database().WithContext(ctx).Create(ro).Error; err != nil {
		return err
	}
	return r.Invalidate(ctx, ro.GroupType)
}

func (r *GroupRoleRepo) Invalidate(ctx context.Context, groupType string) error {
	return r.memberRoles.Invalidate(ctx, groupType)
}
