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
package folder

import (
	"encoding/json"
	"fmt"

	"github.com/go-arcade/groupfiles/internal/engine/model"
	"gorm.io/datatypes"
)

// ProfileFolder is one folder of a profile, stored as JSON.
type ProfileFolder struct {
	Path string `json:"path"`
}

// FolderProfile is a named, ordered list of folders.
type FolderProfile struct {
	model.BaseModel
	Name       string         `gorm:"column:name;not null;uniqueIndex;type:varchar(128)" json:"name"`
	Label      string         `gorm:"column:label" json:"label"`
	FolderData datatypes.JSON `gorm:"column:folders" json:"folders"`
}

func (FolderProfile) TableName() string {
	return "t_folder_profile"
}

// Folders decodes the stored folder list in profile order.
func (p *FolderProfile) Folders() ([]ProfileFolder, error) {
	if len(p.FolderData) == 0 {
		return nil, nil
	}
	var folders []ProfileFolder
	if err := json.Unmarshal(p.FolderData, &folders); err != nil {
		return nil, fmt.Errorf("decode folders of profile %q: %w", p.Name, err)
	}
	return folders, nil
}

func (p *FolderProfile) SetFolders(paths []string) error {
	folders := make([]ProfileFolder, 0, len(paths))
	for _, path := range paths {
		folders = append(folders, ProfileFolder{Path: path})
	}
	data, err := json.Marshal(folders)
	if err != nil {
		return err
	}
	p.FolderData = datatypes.JSON(data)
	return nil
}
