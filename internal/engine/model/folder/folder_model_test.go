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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFolderProfile_Folders(t *testing.T) {
	p := &FolderProfile{Name: "group_member"}
	folders, err := p.Folders()
	require.NoError(t, err)
	assert.Empty(t, folders)

	require.NoError(t, p.SetFolders([]string{"shared", "shared/docs"}))
	folders, err = p.Folders()
	require.NoError(t, err)
	assert.Equal(t, []ProfileFolder{{Path: "shared"}, {Path: "shared/docs"}}, folders)

	p.FolderData = []byte("{")
	_, err = p.Folders()
	assert.Error(t, err)
}
