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
	"github.com/go-arcade/groupfiles/internal/engine/model"
)

const (
	RoleNonMember = 0
	RoleMember    = 1

	RoleHiddenInUI = 0
	RoleShownInUI  = 1
)

// GroupRole is a role defined for a group type.
type GroupRole struct {
	model.BaseModel
	RoleId        string `gorm:"column:role_id;not null;uniqueIndex;type:varchar(128)" json:"roleId"`
	GroupType     string `gorm:"column:group_type;not null;index;type:varchar(64)" json:"groupType"`
	Label         string `gorm:"column:label;not null" json:"label"`
	Weight        int    `gorm:"column:weight;not null;default:0" json:"weight"`
	IsMember      int    `gorm:"column:is_member;not null" json:"isMember"`           // 0: outsider, 1: member
	PermissionsUI int    `gorm:"column:permissions_ui;not null" json:"permissionsUI"` // 0: hidden, 1: shown
}

func (GroupRole) TableName() string {
	return "t_group_role"
}
