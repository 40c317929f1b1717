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
	"testing"

	"github.com/go-arcade/groupfiles/internal/engine/model/folder"
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
	require.NoError(t, db.AutoMigrate(&folder.FolderProfile{}))
	return db
}

func TestFolderProfileRepo_SaveAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewFolderProfileRepo(database.NewGormDB(newTestDB(t)), cache.NewFastCache(32<<20), cache.Cache{})

	_, err := repo.ListFolders(ctx, "group_member")
	assert.ErrorIs(t, err, ErrProfileNotFound)

	require.NoError(t, repo.SaveProfile(ctx, "group_member", "Group members", []string{"shared", "shared/docs"}))
	got, err := repo.ListFolders(ctx, "group_member")
	require.NoError(t, err)
	assert.Equal(t, []matrix.Folder{{Key: 0, Path: "shared"}, {Key: 1, Path: "shared/docs"}}, got)

	// saving replaces the folders and drops the cached list
	require.NoError(t, repo.SaveProfile(ctx, "group_member", "Group members", []string{"docs"}))
	got, err = repo.ListFolders(ctx, "group_member")
	require.NoError(t, err)
	assert.Equal(t, []matrix.Folder{{Key: 0, Path: "docs"}}, got)

	p, err := repo.GetProfile(ctx, "group_member")
	require.NoError(t, err)
	assert.Equal(t, "Group members", p.Label)
}

func TestFolderProfileRepo_DuplicatePaths(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewFolderProfileRepo(database.NewGormDB(db), nil, cache.Cache{})

	err := repo.SaveProfile(ctx, "dup", "", []string{"a", "b", "a"})
	assert.ErrorIs(t, err, matrix.ErrDuplicateFolderPath)

	// stored by other means
	p := &folder.FolderProfile{Name: "dup"}
	require.NoError(t, p.SetFolders([]string{"a", "a"}))
	require.NoError(t, db.Create(p).Error)

	_, err = repo.ListFolders(ctx, "dup")
	assert.ErrorIs(t, err, matrix.ErrDuplicateFolderPath)
}
