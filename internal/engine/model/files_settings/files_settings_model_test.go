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
	"testing"

	"github.com/go-arcade/groupfiles/internal/pkg/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilesSettings_AppendAndEntries(t *testing.T) {
	s := &FilesSettings{Gid: 42}
	require.NoError(t, s.AppendEntry(matrix.Entry{Folder: "a", Role: "r1", Permissions: matrix.PermissionSet{"delete_files": true}}))
	require.NoError(t, s.AppendEntry(matrix.Entry{Folder: "a", Role: "r2", Permissions: matrix.PermissionSet{}}))

	require.Len(t, s.Permissions, 2)
	assert.Equal(t, 0, s.Permissions[0].Delta)
	assert.Equal(t, 1, s.Permissions[1].Delta)
	assert.JSONEq(t, `{"delete_files":true}`, s.Permissions[0].Permissions)

	entries, err := s.Entries()
	require.NoError(t, err)
	assert.Equal(t, []matrix.Entry{
		{Folder: "a", Role: "r1", Permissions: matrix.PermissionSet{"delete_files": true}},
		{Folder: "a", Role: "r2", Permissions: matrix.PermissionSet{}},
	}, entries)

	s.ClearEntries()
	assert.Empty(t, s.Permissions)
}

func TestFilesSettings_EntriesOrderedByDelta(t *testing.T) {
	s := &FilesSettings{Permissions: []GroupFolderPermission{
		{Delta: 1, Folder: "b", Role: "r1", Permissions: `{"browse_files":1}`},
		{Delta: 0, Folder: "a", Role: "r1", Permissions: `[]`},
	}}

	entries, err := s.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].Folder)
	assert.True(t, entries[1].Permissions.Granted("browse_files"))
}

func TestFilesSettings_EntriesBadJSON(t *testing.T) {
	s := &FilesSettings{Permissions: []GroupFolderPermission{{Folder: "a", Role: "r1", Permissions: `{"x":`}}}
	_, err := s.Entries()
	assert.Error(t, err)
}
