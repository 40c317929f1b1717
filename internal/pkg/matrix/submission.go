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

package matrix

import (
	"fmt"
	"slices"
)

// Submission is the edited matrix as sent back by a client. Row
// f*len(Roles)+r of Cells holds the values of folder f and role r, one per
// column.
type Submission struct {
	Folders []string `json:"folders"`
	Roles   []string `json:"roles"`
	Columns []string `json:"columns"`
	Cells   [][]bool `json:"cells"`
}

// Set changes one cell.
func (s *Submission) Set(folder, role, key string, value bool) error {
	fi := slices.Index(s.Folders, folder)
	ri := slices.Index(s.Roles, role)
	ci := slices.Index(s.Columns, key)
	if fi < 0 || ri < 0 || ci < 0 {
		return fmt.Errorf("%w: folder=%s role=%s permission=%s", ErrUnknownCell, folder, role, key)
	}

	row := fi*len(s.Roles) + ri
	if row >= len(s.Cells) || ci >= len(s.Cells[row]) {
		return fmt.Errorf("%w: row %d is not populated", ErrUnknownCell, row)
	}
	s.Cells[row][ci] = value
	return nil
}

// Get returns one cell.
func (s *Submission) Get(folder, role, key string) (bool, error) {
	fi := slices.Index(s.Folders, folder)
	ri := slices.Index(s.Roles, role)
	ci := slices.Index(s.Columns, key)
	if fi < 0 || ri < 0 || ci < 0 {
		return false, fmt.Errorf("%w: folder=%s role=%s permission=%s", ErrUnknownCell, folder, role, key)
	}

	row := fi*len(s.Roles) + ri
	if row >= len(s.Cells) || ci >= len(s.Cells[row]) {
		return false, fmt.Errorf("%w: row %d is not populated", ErrUnknownCell, row)
	}
	return s.Cells[row][ci], nil
}

// Decode turns a submission into the entries to persist. The submitted
// folders, roles and columns must be exactly the current ones, in the same
// order; otherwise the form was built against an older state and ErrStaleForm
// is returned without any entry.
func Decode(sub *Submission, folders []Folder, roles []Role, columns []Definition) ([]Entry, error) {
	if sub == nil {
		return nil, fmt.Errorf("%w: empty submission", ErrStaleForm)
	}

	paths := make([]string, len(folders))
	for i, f := range folders {
		paths[i] = f.Path
	}
	if !slices.Equal(sub.Folders, paths) {
		return nil, fmt.Errorf("%w: folders changed", ErrStaleForm)
	}

	roleIds := make([]string, len(roles))
	for i, r := range roles {
		roleIds[i] = r.RoleId
	}
	if !slices.Equal(sub.Roles, roleIds) {
		return nil, fmt.Errorf("%w: roles changed", ErrStaleForm)
	}

	keys := make([]string, len(columns))
	for i, c := range columns {
		keys[i] = c.Key
	}
	if !slices.Equal(sub.Columns, keys) {
		return nil, fmt.Errorf("%w: permission columns changed", ErrStaleForm)
	}

	if len(sub.Cells) != len(folders)*len(roles) {
		return nil, fmt.Errorf("%w: got %d rows, want %d", ErrStaleForm, len(sub.Cells), len(folders)*len(roles))
	}

	entries := make([]Entry, 0, len(sub.Cells))
	for fi, f := range folders {
		for ri, r := range roles {
			row := sub.Cells[fi*len(roles)+ri]
			if len(row) != len(columns) {
				return nil, fmt.Errorf("%w: row %s has %d cells, want %d",
					ErrStaleForm, RowKey(f.Key, r.RoleId), len(row), len(columns))
			}

			perms := make(PermissionSet, len(columns))
			for ci, c := range columns {
				perms[c.Key] = row[ci]
			}
			entries = append(entries, Entry{Folder: f.Path, Role: r.RoleId, Permissions: perms})
		}
	}
	return entries, nil
}
