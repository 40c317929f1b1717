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
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// LegacySubmission is the flat form encoding: every row of the table is
// keyed "<folderKey>-<roleId>" and folders are only known by their catalog
// position. Folder header rows ("<path>-<folderKey>") may be present and are
// ignored.
type LegacySubmission struct {
	RoleNames   map[string]string        `json:"role_names"`
	Folders     []string                 `json:"folders"`
	Permissions map[string]PermissionSet `json:"permissions"`
	EntityId    uint64                   `json:"entity_id"`
}

type legacyRow struct {
	folderKey int
	roleId    string
	perms     PermissionSet
}

// DecodeLegacy recovers (folder, role) entries from a flat submission. Rows
// are ordered by folder key then role id and cut into chunks of one row per
// role; chunk i belongs to Folders[i]. A submission whose shape does not fit
// its own folder and role lists is stale.
func DecodeLegacy(sub *LegacySubmission) ([]Entry, error) {
	if sub == nil {
		return nil, fmt.Errorf("%w: empty submission", ErrStaleForm)
	}

	headers := make(map[string]struct{}, len(sub.Folders))
	for i, path := range sub.Folders {
		headers[FolderHeaderKey(path, i)] = struct{}{}
	}

	rows := make([]legacyRow, 0, len(sub.Permissions))
	for key, perms := range sub.Permissions {
		if _, ok := headers[key]; ok {
			continue
		}
		folderKey, roleId, ok := splitRowKey(key)
		if !ok {
			return nil, fmt.Errorf("%w: unrecognized row %q", ErrStaleForm, key)
		}
		rows = append(rows, legacyRow{folderKey: folderKey, roleId: roleId, perms: perms})
	}

	roleCount := len(sub.RoleNames)
	if roleCount == 0 {
		if len(rows) > 0 {
			return nil, fmt.Errorf("%w: %d rows submitted without roles", ErrStaleForm, len(rows))
		}
		return []Entry{}, nil
	}

	slices.SortFunc(rows, func(a, b legacyRow) int {
		if c := cmp.Compare(a.folderKey, b.folderKey); c != 0 {
			return c
		}
		return strings.Compare(a.roleId, b.roleId)
	})

	if len(rows)%roleCount != 0 || len(rows)/roleCount != len(sub.Folders) {
		return nil, fmt.Errorf("%w: %d rows do not fit %d folders x %d roles",
			ErrStaleForm, len(rows), len(sub.Folders), roleCount)
	}

	entries := make([]Entry, 0, len(rows))
	for i, path := range sub.Folders {
		chunk := rows[i*roleCount : (i+1)*roleCount]
		seen := make(map[string]struct{}, roleCount)
		for _, row := range chunk {
			if row.folderKey != i {
				return nil, fmt.Errorf("%w: row %s is outside folder %d",
					ErrStaleForm, RowKey(row.folderKey, row.roleId), i)
			}
			if _, ok := sub.RoleNames[row.roleId]; !ok {
				return nil, fmt.Errorf("%w: unknown role %q", ErrStaleForm, row.roleId)
			}
			if _, dup := seen[row.roleId]; dup {
				return nil, fmt.Errorf("%w: role %q repeated in folder %d", ErrStaleForm, row.roleId, i)
			}
			seen[row.roleId] = struct{}{}
			perms := row.perms.Clone()
			entries = append(entries, Entry{Folder: path, Role: row.roleId, Permissions: perms})
		}
	}
	return entries, nil
}

func splitRowKey(key string) (int, string, bool) {
	prefix, roleId, ok := strings.Cut(key, "-")
	if !ok || roleId == "" {
		return 0, "", false
	}
	folderKey, err := strconv.Atoi(prefix)
	// "00" and "+0" would alias row "0".
	if err != nil || folderKey < 0 || strconv.Itoa(folderKey) != prefix {
		return 0, "", false
	}
	return folderKey, roleId, true
}
