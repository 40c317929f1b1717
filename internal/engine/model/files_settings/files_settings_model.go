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
package files_settings

import (
	"fmt"
	"slices"

	"github.com/go-arcade/groupfiles/internal/engine/model"
	"github.com/go-arcade/groupfiles/internal/pkg/matrix"
)

// FilesSettings is the folder permissions record of a group.
type FilesSettings struct {
	model.BaseModel
	Gid         uint64                  `gorm:"column:gid;not null;index" json:"gid"`
	Permissions []GroupFolderPermission `gorm:"foreignKey:SettingsId;constraint:OnDelete:CASCADE" json:"permissions"`
}

func (FilesSettings) TableName() string {
	return "t_files_settings"
}

// GroupFolderPermission is one (folder, role) entry of a record. Delta is
// its position in the record.
type GroupFolderPermission struct {
	ID          uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	SettingsId  uint64 `gorm:"column:settings_id;not null;index" json:"settingsId"`
	Delta       int    `gorm:"column:delta;not null;default:0" json:"delta"`
	Folder      string `gorm:"column:folder;not null;type:varchar(255)" json:"folder"`
	Role        string `gorm:"column:role;not null;type:varchar(128)" json:"role"`
	Permissions string `gorm:"column:permissions;type:text" json:"permissions"` // JSON object key -> bool
}

func (GroupFolderPermission) TableName() string {
	return "t_group_folder_permission"
}

func (s *FilesSettings) ClearEntries() {
	s.Permissions = nil
}

// AppendEntry adds e after the existing entries.
func (s *FilesSettings) AppendEntry(e matrix.Entry) error {
	perms, err := e.Permissions.Encode()
	if err != nil {
		return fmt.Errorf("encode permissions of %s/%s: %w", e.Folder, e.Role, err)
	}
	s.Permissions = append(s.Permissions, GroupFolderPermission{
		SettingsId:  s.ID,
		Delta:       len(s.Permissions),
		Folder:      e.Folder,
		Role:        e.Role,
		Permissions: perms,
	})
	return nil
}

// Entries decodes the stored entries ordered by Delta.
func (s *FilesSettings) Entries() ([]matrix.Entry, error) {
	rows := slices.Clone(s.Permissions)
	slices.SortStableFunc(rows, func(a, b GroupFolderPermission) int {
		return a.Delta - b.Delta
	})

	entries := make([]matrix.Entry, 0, len(rows))
	for _, row := range rows {
		perms, err := matrix.ParsePermissionSet(row.Permissions)
		if err != nil {
			return nil, fmt.Errorf("decode permissions of %s/%s: %w", row.Folder, row.Role, err)
		}
		entries = append(entries, matrix.Entry{Folder: row.Folder, Role: row.Role, Permissions: perms})
	}
	return entries, nil
}
