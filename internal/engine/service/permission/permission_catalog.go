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
package permission

import (
	"slices"

	"github.com/go-arcade/groupfiles/internal/engine/config"
	"github.com/go-arcade/groupfiles/internal/pkg/matrix"
)

// PermissionCatalog lists the permission definitions a folder can grant.
type PermissionCatalog interface {
	ListDefinitions() []matrix.Definition
}

// DefaultDefinitions is used when no definitions are configured.
var DefaultDefinitions = []matrix.Definition{
	{Key: "browse_files", Label: "Browse files"},
	{Key: "upload_files", Label: "Upload files"},
	{Key: "delete_files", Label: "Delete files"},
	{Key: "rename_files", Label: "Rename files"},
	{Key: "browse_subfolders", Label: "Browse subfolders"},
	{Key: "create_subfolders", Label: "Create subfolders"},
	{Key: "delete_subfolders", Label: "Delete subfolders"},
	{Key: "rename_subfolders", Label: "Rename subfolders"},
	{Key: "resize_images", Label: "Resize images"},
}

// StaticCatalog serves a fixed list of definitions.
type StaticCatalog struct {
	definitions []matrix.Definition
}

func NewStaticCatalog(definitions []matrix.Definition) *StaticCatalog {
	if len(definitions) == 0 {
		definitions = DefaultDefinitions
	}
	return &StaticCatalog{definitions: slices.Clone(definitions)}
}

// ProvidePermissionCatalog builds the catalog from configuration.
func ProvidePermissionCatalog(conf config.PermissionConfig) PermissionCatalog {
	return NewStaticCatalog(conf.Definitions)
}

func (c *StaticCatalog) ListDefinitions() []matrix.Definition {
	return slices.Clone(c.definitions)
}
