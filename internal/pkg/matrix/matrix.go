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

// Package matrix builds and decodes the folder x role permission matrix of a
// group. It has no storage or transport dependency: callers pass in the
// permission definitions, the folder catalog, the member roles and the
// persisted entries, and get back either a renderable matrix or the entries
// to persist.
package matrix

import (
	"errors"
	"fmt"
	"strconv"
)

// ExcludedPermission is never offered in the matrix.
const ExcludedPermission = "resize_images"

var (
	// ErrStaleForm means the submitted folders, roles or columns no longer
	// match the current catalog state. Nothing must be written.
	ErrStaleForm = errors.New("permission form is stale")

	// ErrDuplicateFolderPath means two catalog folders share a path, which
	// would make their stored entries collide.
	ErrDuplicateFolderPath = errors.New("duplicate folder path in catalog")

	// ErrUnknownCell means a cell address does not exist in the matrix.
	ErrUnknownCell = errors.New("unknown matrix cell")
)

// Definition describes one permission column.
type Definition struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Role is a member role of a group.
type Role struct {
	RoleId string `json:"roleId"`
	Name   string `json:"name"`
}

// Folder is a catalog folder. Key is its position in the catalog.
type Folder struct {
	Key  int    `json:"key"`
	Path string `json:"path"`
}

// Entry is the unit of persistence: the permission set of one role on one
// folder. Folder holds the path, not the catalog key.
type Entry struct {
	Folder      string        `json:"folder"`
	Role        string        `json:"role"`
	Permissions PermissionSet `json:"permissions"`
}

// Index is the decoded persisted state: folder path -> role id -> set.
type Index map[string]map[string]PermissionSet

// Lookup returns the stored set for (folder, role), or nil.
func (idx Index) Lookup(folder, role string) PermissionSet {
	if idx == nil {
		return nil
	}
	return idx[folder][role]
}

// Row is one (folder, role) line of the matrix.
type Row struct {
	Key         string        `json:"key"`
	FolderKey   int           `json:"folderKey"`
	FolderPath  string        `json:"folderPath"`
	RoleId      string        `json:"roleId"`
	RoleName    string        `json:"roleName"`
	Permissions PermissionSet `json:"permissions"`
}

// Section groups the rows of one folder.
type Section struct {
	Key    string `json:"key"`
	Title  string `json:"title"`
	Folder Folder `json:"folder"`
	Rows   []Row  `json:"rows"`
}

// Matrix is the renderable folder x role x permission grid of a group.
type Matrix struct {
	GroupId  uint64       `json:"groupId"`
	Label    string       `json:"label,omitempty"`
	Columns  []Definition `json:"columns"`
	Roles    []Role       `json:"roles"`
	Folders  []Folder     `json:"folders"`
	Sections []Section    `json:"sections"`
}

// RowKey is the composite identity of a (folder, role) row.
func RowKey(folderKey int, roleId string) string {
	return strconv.Itoa(folderKey) + "-" + roleId
}

// FolderHeaderKey is the identity of a folder header row.
func FolderHeaderKey(path string, folderKey int) string {
	return path + "-" + strconv.Itoa(folderKey)
}

// Columns filters defs down to the offered columns: excluded keys and
// repeated keys are dropped, order is kept. With no excluded keys given,
// ExcludedPermission is dropped.
func Columns(defs []Definition, excluded ...string) []Definition {
	if len(excluded) == 0 {
		excluded = []string{ExcludedPermission}
	}
	skip := make(map[string]struct{}, len(excluded)+len(defs))
	for _, key := range excluded {
		skip[key] = struct{}{}
	}

	columns := make([]Definition, 0, len(defs))
	for _, d := range defs {
		if _, ok := skip[d.Key]; ok {
			continue
		}
		skip[d.Key] = struct{}{}
		columns = append(columns, d)
	}
	return columns
}

// BuildIndex decodes persisted records into an Index. Each record replaces
// whatever the previous ones produced, so when the store returns more than
// one record for a group the last one wins.
func BuildIndex(records ...[]Entry) Index {
	idx := Index{}
	for _, entries := range records {
		idx = Index{}
		for _, e := range entries {
			roles, ok := idx[e.Folder]
			if !ok {
				roles = map[string]PermissionSet{}
				idx[e.Folder] = roles
			}
			roles[e.Role] = e.Permissions
		}
	}
	return idx
}

// Assemble builds the matrix of a group. Sections follow catalog order,
// rows follow role order and every row holds exactly one cell per column,
// defaulting to false when nothing is stored.
func Assemble(groupId uint64, columns []Definition, folders []Folder, roles []Role, idx Index) *Matrix {
	m := &Matrix{
		GroupId:  groupId,
		Columns:  columns,
		Roles:    roles,
		Folders:  folders,
		Sections: make([]Section, 0, len(folders)),
	}

	for _, f := range folders {
		section := Section{
			Key:    FolderHeaderKey(f.Path, f.Key),
			Title:  fmt.Sprintf("Permissions for folder /%s", f.Path),
			Folder: f,
			Rows:   make([]Row, 0, len(roles)),
		}
		for _, r := range roles {
			section.Rows = append(section.Rows, Row{
				Key:         RowKey(f.Key, r.RoleId),
				FolderKey:   f.Key,
				FolderPath:  f.Path,
				RoleId:      r.RoleId,
				RoleName:    r.Name,
				Permissions: idx.Lookup(f.Path, r.RoleId).Project(columns),
			})
		}
		m.Sections = append(m.Sections, section)
	}
	return m
}

// Cells returns the number of permission cells in the matrix.
func (m *Matrix) Cells() int {
	n := 0
	for _, s := range m.Sections {
		for _, r := range s.Rows {
			n += len(r.Permissions)
		}
	}
	return n
}

// Entries returns the matrix content as persistable entries.
func (m *Matrix) Entries() []Entry {
	entries := make([]Entry, 0, len(m.Folders)*len(m.Roles))
	for _, s := range m.Sections {
		for _, r := range s.Rows {
			entries = append(entries, Entry{
				Folder:      r.FolderPath,
				Role:        r.RoleId,
				Permissions: r.Permissions.Clone(),
			})
		}
	}
	return entries
}

// Submission derives the structured submission that leaves the matrix
// unchanged when saved.
func (m *Matrix) Submission() *Submission {
	sub := &Submission{
		Folders: make([]string, 0, len(m.Folders)),
		Roles:   make([]string, 0, len(m.Roles)),
		Columns: make([]string, 0, len(m.Columns)),
		Cells:   make([][]bool, 0, len(m.Folders)*len(m.Roles)),
	}
	for _, f := range m.Folders {
		sub.Folders = append(sub.Folders, f.Path)
	}
	for _, r := range m.Roles {
		sub.Roles = append(sub.Roles, r.RoleId)
	}
	for _, c := range m.Columns {
		sub.Columns = append(sub.Columns, c.Key)
	}
	for _, s := range m.Sections {
		for _, r := range s.Rows {
			row := make([]bool, len(m.Columns))
			for i, c := range m.Columns {
				row[i] = r.Permissions[c.Key]
			}
			sub.Cells = append(sub.Cells, row)
		}
	}
	return sub
}

// Normalize projects every entry onto columns, so stored sets always carry
// exactly the offered keys.
func Normalize(entries []Entry, columns []Definition) []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = Entry{
			Folder:      e.Folder,
			Role:        e.Role,
			Permissions: e.Permissions.Project(columns),
		}
	}
	return out
}

// Effective returns the union of the grants of roles on folder: a key is
// granted when any of the roles grants it.
func Effective(idx Index, folder string, roles []string, columns []Definition) PermissionSet {
	out := make(PermissionSet, len(columns))
	for _, c := range columns {
		out[c.Key] = false
		for _, role := range roles {
			if idx.Lookup(folder, role).Granted(c.Key) {
				out[c.Key] = true
				break
			}
		}
	}
	return out
}
