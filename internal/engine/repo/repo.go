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
package repo

import (
	"context"
	"errors"
	"fmt"

	filesmodel "github.com/go-arcade/groupfiles/internal/engine/model/files_settings"
	foldermodel "github.com/go-arcade/groupfiles/internal/engine/model/folder"
	groupmodel "github.com/go-arcade/groupfiles/internal/engine/model/group"
	rolemodel "github.com/go-arcade/groupfiles/internal/engine/model/role"
	"github.com/go-arcade/groupfiles/internal/engine/repo/files_settings"
	"github.com/go-arcade/groupfiles/internal/engine/repo/folder"
	"github.com/go-arcade/groupfiles/internal/engine/repo/group"
	"github.com/go-arcade/groupfiles/internal/engine/repo/role"
	"github.com/go-arcade/groupfiles/pkg/log"
	"github.com/google/wire"
	"gorm.io/gorm"
)

// ProviderSet provides every repository
var ProviderSet = wire.NewSet(
	group.ProviderSet,
	role.ProviderSet,
	folder.ProviderSet,
	files_settings.ProviderSet,
)

// Models lists every persisted model.
func Models() []any {
	return []any{
		&groupmodel.Group{},
		&rolemodel.GroupRole{},
		&foldermodel.FolderProfile{},
		&filesmodel.FilesSettings{},
		&filesmodel.GroupFolderPermission{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// SeedProfile creates the profile with paths when it does not exist yet.
// An existing profile is left untouched.
func SeedProfile(ctx context.Context, folders folder.IFolderProfileRepository, name string, paths []string) error {
	_, err := folders.GetProfile(ctx, name)
	if err == nil {
		return nil
	}
	if !errors.Is(err, folder.ErrProfileNotFound) {
		return err
	}
	if len(paths) == 0 {
		log.Warnw("folder profile does not exist and no seed folders are configured", "profile", name)
		return nil
	}
	if err := folders.SaveProfile(ctx, name, name, paths); err != nil {
		return err
	}
	log.Infow("folder profile seeded", "profile", name, "folders", len(paths))
	return nil
}
