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
	"context"

	"github.com/go-arcade/groupfiles/internal/engine/model/group"
	"github.com/go-arcade/groupfiles/pkg/database"
)

type IGroupRepository interface {
	GetGroup(ctx context.Context, id uint64) (*group.Group, error)
	CreateGroup(ctx context.Context, g *group.Group) error
}

type GroupRepo struct {
	db database.IDatabase
}

func NewGroupRepo(db database.IDatabase) IGroupRepository {
	return &GroupRepo{db: db}
}

// GetGroup returns gorm.ErrRecordNotFound when the group does not exist.
func (r *GroupRepo) GetGroup(ctx context.Context, id uint64) (*group.Group, error) {
	var g group.Group
	err := database.ReadDB(r.db.Database().WithContext(ctx)).
		Where("id = ?", id).
		First(&g).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GroupRepo) CreateGroup(ctx context.Context, g *group.Group) error {
	return r.db.Database().WithContext(ctx).Create(g).Error
}
