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
	"context"
	"fmt"

	"github.com/go-arcade/groupfiles/internal/engine/model/files_settings"
	"github.com/go-arcade/groupfiles/pkg/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// IFilesSettingsRepository stores the folder permissions records of groups.
type IFilesSettingsRepository interface {
	// FindByGroup returns every record of a group ordered by id, with their
	// entries loaded in position order.
	FindByGroup(ctx context.Context, gid uint64) ([]*files_settings.FilesSettings, error)
	// Create returns a new, unsaved record for gid.
	Create(gid uint64) *files_settings.FilesSettings
	// Save writes the record and replaces all of its entries in one
	// transaction.
	Save(ctx context.Context, s *files_settings.FilesSettings) error
}

type FilesSettingsRepo struct {
	db database.IDatabase
}

func NewFilesSettingsRepo(db database.IDatabase) IFilesSettingsRepository {
	return &FilesSettingsRepo{db: db}
}

func (r *FilesSettingsRepo) FindByGroup(ctx context.Context, gid uint64) ([]*files_settings.FilesSettings, error) {
	var records []*files_settings.FilesSettings
	err := database.WriteDB(r.db.Database().WithContext(ctx)).
		Preload("Permissions", func(db *gorm.DB) *gorm.DB {
			return db.Order("delta ASC")
		}).
		Where("gid = ?", gid).
		Order("id ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("find files settings of group %d: %w", gid, err)
	}
	return records, nil
}

func (r *FilesSettingsRepo) Create(gid uint64) *files_settings.FilesSettings {
	return &files_settings.FilesSettings{Gid: gid}
}

func (r *FilesSettingsRepo) Save(ctx context.Context, s *files_settings.FilesSettings) error {
	err := r.db.Database().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if s.ID == 0 {
			err = tx.Omit(clause.Associations).Create(s).Error
		} else {
			err = tx.Omit(clause.Associations).Save(s).Error
		}
		if err != nil {
			return err
		}

		if err := tx.Where("settings_id = ?", s.ID).Delete(&files_settings.GroupFolderPermission{}).Error; err != nil {
			return err
		}
		if len(s.Permissions) == 0 {
			return nil
		}

		for i := range s.Permissions {
			s.Permissions[i].ID = 0
			s.Permissions[i].SettingsId = s.ID
			s.Permissions[i].Delta = i
		}
		return tx.Create(&s.Permissions).Error
	})
	if err != nil {
		return fmt.Errorf("save files settings of group %d: %w", s.Gid, err)
	}
	return nil
}
