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
package group

import (
	"github.com/go-arcade/groupfiles/internal/engine/model"
)

// Group is a group entity. Type is the group bundle that decides which
// roles are available to its members.
type Group struct {
	model.BaseModel
	Type  string `gorm:"column:type;not null;index;type:varchar(64)" json:"type"`
	Label string `gorm:"column:label;not null" json:"label"`
}

func (Group) TableName() string {
	return "t_group"
}
