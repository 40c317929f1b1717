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
	"context"
	"errors"
	"fmt"

	"github.com/go-arcade/groupfiles/internal/engine/model/folder"
	"github.com/go-arcade/groupfiles/internal/pkg/matrix"
	"github.com/go-arcade/groupfiles/pkg/cache"
	"github.com/go-arcade/groupfiles/pkg/database"
	"gorm.io/gorm"
)

var ErrProfileNotFound = errors.New("folder profile not found")

type IFolderProfileRepository interface {
	// ListFolders returns the folders of a profile in profile order; Key is
	// the position. Profiles with repeated paths are rejected with
	// matrix.ErrDuplicateFolderPath.
	ListFolders(ctx context.Context, profileName string) ([]matrix.Folder, error)
	GetProfile(ctx context.Context, profileName string) (*folder.FolderProfile, error)
	// SaveProfile creates or replaces the folders of a profile.
	SaveProfile(ctx context.Context, profileName, label string, paths []string) error
}

type FolderProfileRepo struct {
	db      database.IDatabase
	folders *cache.CachedQuery[[]matrix.Folder]
}

func NewFolderProfileRepo(db database.IDatabase, c cache.ICache, conf cache.Cache) IFolderProfileRepository {
	return &FolderProfileRepo{
		db: db,
		folders: cache.NewCachedQuery(c, profileFoldersKey,
			cache.WithTTL[[]matrix.Folder](conf.TTL),
			cache.WithLogPrefix[[]matrix.Folder]("[FolderProfileRepo]"),
		),
	}
}

func profileFoldersKey(params ...any) string {
	return fmt.Sprintf("folder_profile:%v", params[0])
}

func (r *FolderProfileRepo) GetProfile(ctx context.Context, profileName string) (*folder.FolderProfile, error) {
	var p folder.FolderProfile
	err := database.ReadDB(r.db.Database().WithContext(ctx)).
		Where("name = ?", profileName).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, profileName)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *FolderProfileRepo) ListFolders(ctx context.Context, profileName string) ([]matrix.Folder, error) {
	return r.folders.Get(ctx, func(ctx context.Context) ([]matrix.Folder, error) {
		p, err := r.GetProfile(ctx, profileName)
		if err != nil {
			return nil, err
		}
		stored, err := p.Folders()
		if err != nil {
			return nil, err
		}

		paths := make([]string, 0, len(stored))
		for _, f := range stored {
			paths = append(paths, f.Path)
		}
		if err := checkDuplicates(paths); err != nil {
			return nil, fmt.Errorf("profile %s: %w", profileName, err)
		}

		folders := make([]matrix.Folder, 0, len(paths))
		for i, path := range paths {
			folders = append(folders, matrix.Folder{Key: i, Path: path})
		}
		return folders, nil
	}, profileName)
}

func (r *FolderProfileRepo) SaveProfile(ctx context.Context, profileName, label string, paths []string) error {
	if err := checkDuplicates(paths); err != nil {
		return err
	}

	err := r.db.Database().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p folder.FolderProfile
		err := tx.Where("name = ?", profileName).First(&p).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			p = folder.FolderProfile{Name: profileName}
		case err != nil:
			return err
		}
		p.Label = label
		if err := p.SetFolders(paths); err != nil {
			return err
		}
		return tx.Save(&p).Error
	})
	if err != nil {
		return fmt.Errorf("save folder profile %s: %w", profileName, err)
	}
	return r.folders.Invalidate(ctx, profileName)
}

func checkDuplicates(paths []string) error {
	seen := make(map[string]struct{}, len(paths))
	for _, path := range paths {
		if _, ok := seen[path]; ok {
			return fmt.Errorf("%w: %q", matrix.ErrDuplicateFolderPath, path)
		}
		seen[path] = struct{}{}
	}
	return nil
}
