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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDefinitions() []Definition {
	return []Definition{
		{Key: "browse_files", Label: "Browse files"},
		{Key: "upload_files", Label: "Upload files"},
		{Key: "delete_files", Label: "Delete files"},
		{Key: "resize_images", Label: "Resize images"},
	}
}

func testFolders() []Folder {
	return []Folder{{Key: 0, Path: "a"}, {Key: 1, Path: "b"}}
}

func testRoles() []Role {
	return []Role{{RoleId: "r1", Name: "Member"}, {RoleId: "r2", Name: "Editor"}}
}

func TestColumns(t *testing.T) {
	tests := []struct {
		name     string
		defs     []Definition
		excluded []string
		want     []string
	}{
		{
			name: "default exclusion",
			defs: testDefinitions(),
			want: []string{"browse_files", "upload_files", "delete_files"},
		},
		{
			name:     "explicit exclusion",
			defs:     testDefinitions(),
			excluded: []string{"upload_files"},
			want:     []string{"browse_files", "delete_files", "resize_images"},
		},
		{
			name: "duplicates dropped",
			defs: []Definition{{Key: "x"}, {Key: "y"}, {Key: "x"}},
			want: []string{"x", "y"},
		},
		{
			name: "empty",
			defs: nil,
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Columns(tt.defs, tt.excluded...)
			keys := make([]string, 0, len(got))
			for _, d := range got {
				keys = append(keys, d.Key)
			}
			assert.Equal(t, tt.want, keys)
		})
	}
}

func TestAssemble_OneCellPerFolderRoleColumn(t *testing.T) {
	columns := Columns(testDefinitions())
	idx := BuildIndex([]Entry{
		{Folder: "a", Role: "r1", Permissions: PermissionSet{"delete_files": true, "resize_images": true}},
	})

	m := Assemble(42, columns, testFolders(), testRoles(), idx)

	require.Len(t, m.Sections, 2)
	assert.Equal(t, 2*2*3, m.Cells())
	assert.Equal(t, "Permissions for folder /a", m.Sections[0].Title)
	assert.Equal(t, "a-0", m.Sections[0].Key)

	for _, s := range m.Sections {
		require.Len(t, s.Rows, 2)
		for _, r := range s.Rows {
			assert.Len(t, r.Permissions, len(columns))
			assert.NotContains(t, r.Permissions, ExcludedPermission)
		}
	}

	row := m.Sections[0].Rows[0]
	assert.Equal(t, "0-r1", row.Key)
	assert.Equal(t, "Member", row.RoleName)
	assert.True(t, row.Permissions["delete_files"])
	assert.False(t, row.Permissions["browse_files"])
	assert.False(t, m.Sections[1].Rows[1].Permissions["delete_files"])
}

func TestAssemble_Empty(t *testing.T) {
	columns := Columns(testDefinitions())

	m := Assemble(1, columns, nil, testRoles(), nil)
	assert.Empty(t, m.Sections)
	assert.Zero(t, m.Cells())
	assert.Empty(t, m.Entries())

	m = Assemble(1, columns, testFolders(), nil, nil)
	assert.Len(t, m.Sections, 2)
	assert.Zero(t, m.Cells())
}

func TestBuildIndex_LastRecordWins(t *testing.T) {
	first := []Entry{
		{Folder: "a", Role: "r1", Permissions: PermissionSet{"browse_files": true}},
		{Folder: "b", Role: "r1", Permissions: PermissionSet{"browse_files": true}},
	}
	second := []Entry{
		{Folder: "a", Role: "r1", Permissions: PermissionSet{"upload_files": true}},
	}

	idx := BuildIndex(first, second)

	assert.True(t, idx.Lookup("a", "r1").Granted("upload_files"))
	assert.False(t, idx.Lookup("a", "r1").Granted("browse_files"))
	assert.Nil(t, idx.Lookup("b", "r1"))
}

func TestRoundTrip_NoOpEdit(t *testing.T) {
	columns := Columns(testDefinitions())
	stored := []Entry{
		{Folder: "a", Role: "r1", Permissions: PermissionSet{"browse_files": true, "delete_files": true}},
		{Folder: "b", Role: "r2", Permissions: PermissionSet{"upload_files": true}},
	}
	m := Assemble(42, columns, testFolders(), testRoles(), BuildIndex(stored))

	entries, err := Decode(m.Submission(), testFolders(), testRoles(), columns)
	require.NoError(t, err)

	again := Assemble(42, columns, testFolders(), testRoles(), BuildIndex(entries))
	assert.Equal(t, m, again)
	assert.Equal(t, m.Entries(), entries)
}

func TestDecode_AllFalseOnEmptyRecord(t *testing.T) {
	columns := Columns(testDefinitions())
	m := Assemble(42, columns, testFolders(), testRoles(), BuildIndex())

	entries, err := Decode(m.Submission(), testFolders(), testRoles(), columns)
	require.NoError(t, err)
	require.Len(t, entries, 4)

	want := [][2]string{{"a", "r1"}, {"a", "r2"}, {"b", "r1"}, {"b", "r2"}}
	for i, e := range entries {
		assert.Equal(t, want[i][0], e.Folder)
		assert.Equal(t, want[i][1], e.Role)
		assert.Len(t, e.Permissions, len(columns))
		for _, granted := range e.Permissions {
			assert.False(t, granted)
		}
	}
}

func TestDecode_SingleCellUpdate(t *testing.T) {
	columns := Columns(testDefinitions())
	stored := []Entry{{Folder: "a", Role: "r1", Permissions: PermissionSet{"delete_files": true}}}
	m := Assemble(42, columns, testFolders(), testRoles(), BuildIndex(stored))

	sub := m.Submission()
	require.NoError(t, sub.Set("a", "r1", "delete_files", false))

	entries, err := Decode(sub, testFolders(), testRoles(), columns)
	require.NoError(t, err)

	var matched []Entry
	for _, e := range entries {
		if e.Folder == "a" && e.Role == "r1" {
			matched = append(matched, e)
		}
	}
	require.Len(t, matched, 1)
	assert.False(t, matched[0].Permissions["delete_files"])
}

func TestDecode_Stale(t *testing.T) {
	columns := Columns(testDefinitions())
	fresh := func() *Submission {
		return Assemble(42, columns, testFolders(), testRoles(), nil).Submission()
	}

	tests := []struct {
		name   string
		mutate func(s *Submission)
	}{
		{name: "folder removed", mutate: func(s *Submission) { s.Folders = s.Folders[:1] }},
		{name: "folder renamed", mutate: func(s *Submission) { s.Folders[1] = "c" }},
		{name: "roles reordered", mutate: func(s *Submission) { s.Roles[0], s.Roles[1] = s.Roles[1], s.Roles[0] }},
		{name: "role added", mutate: func(s *Submission) { s.Roles = append(s.Roles, "r3") }},
		{name: "column added", mutate: func(s *Submission) { s.Columns = append(s.Columns, ExcludedPermission) }},
		{name: "row missing", mutate: func(s *Submission) { s.Cells = s.Cells[:3] }},
		{name: "short row", mutate: func(s *Submission) { s.Cells[2] = s.Cells[2][:1] }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := fresh()
			tt.mutate(sub)
			entries, err := Decode(sub, testFolders(), testRoles(), columns)
			assert.ErrorIs(t, err, ErrStaleForm)
			assert.Nil(t, entries)
		})
	}

	_, err := Decode(nil, testFolders(), testRoles(), columns)
	assert.ErrorIs(t, err, ErrStaleForm)
}

func TestSubmission_SetUnknownCell(t *testing.T) {
	sub := Assemble(42, Columns(testDefinitions()), testFolders(), testRoles(), nil).Submission()

	assert.ErrorIs(t, sub.Set("z", "r1", "browse_files", true), ErrUnknownCell)
	assert.ErrorIs(t, sub.Set("a", "r9", "browse_files", true), ErrUnknownCell)
	assert.ErrorIs(t, sub.Set("a", "r1", ExcludedPermission, true), ErrUnknownCell)

	require.NoError(t, sub.Set("b", "r2", "upload_files", true))
	got, err := sub.Get("b", "r2", "upload_files")
	require.NoError(t, err)
	assert.True(t, got)
}

func TestNormalize_DropsExcluded(t *testing.T) {
	columns := Columns(testDefinitions())
	entries := Normalize([]Entry{
		{Folder: "a", Role: "r1", Permissions: PermissionSet{"resize_images": true, "browse_files": true}},
	}, columns)

	require.Len(t, entries, 1)
	assert.NotContains(t, entries[0].Permissions, ExcludedPermission)
	assert.True(t, entries[0].Permissions["browse_files"])
	assert.Len(t, entries[0].Permissions, len(columns))
}

func TestEffective(t *testing.T) {
	columns := Columns(testDefinitions())
	idx := BuildIndex([]Entry{
		{Folder: "a", Role: "r1", Permissions: PermissionSet{"browse_files": true}},
		{Folder: "a", Role: "r2", Permissions: PermissionSet{"upload_files": true}},
	})

	got := Effective(idx, "a", []string{"r1", "r2"}, columns)
	assert.Equal(t, PermissionSet{"browse_files": true, "upload_files": true, "delete_files": false}, got)

	got = Effective(idx, "b", []string{"r1", "r2"}, columns)
	assert.Equal(t, PermissionSet{"browse_files": false, "upload_files": false, "delete_files": false}, got)

	got = Effective(idx, "a", nil, columns)
	assert.False(t, got.Granted("browse_files"))
}
