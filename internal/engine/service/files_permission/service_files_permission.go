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
package files_permission

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/go-arcade/groupfiles/internal/engine/config"
	filesmodel "github.com/go-arcade/groupfiles/internal/engine/model/files_settings"
	groupmodel "github.com/go-arcade/groupfiles/internal/engine/model/group"
	filesrepo "github.com/go-arcade/groupfiles/internal/engine/repo/files_settings"
	folderrepo "github.com/go-arcade/groupfiles/internal/engine/repo/folder"
	grouprepo "github.com/go-arcade/groupfiles/internal/engine/repo/group"
	rolerepo "github.com/go-arcade/groupfiles/internal/engine/repo/role"
	"github.com/go-arcade/groupfiles/internal/engine/service/permission"
	"github.com/go-arcade/groupfiles/internal/pkg/matrix"
	"github.com/go-arcade/groupfiles/pkg/log"
	"github.com/go-arcade/groupfiles/pkg/metrics"
	tracing "github.com/go-arcade/groupfiles/pkg/trace"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

const tracerName = "github.com/go-arcade/groupfiles/internal/engine/service/files_permission"

var (
	ErrGroupNotFound  = errors.New("group not found")
	ErrFolderNotFound = errors.New("folder not found")
	ErrEntityMismatch = errors.New("submission belongs to another group")
	ErrPersistence    = errors.New("failed to save folder permissions")
)

// FilesPermissionService manages the folder x role permission matrix of
// groups. Saves are read-modify-write without locking: concurrent saves for
// the same group race and the last one wins, each replacing every entry.
type FilesPermissionService struct {
	groups   grouprepo.IGroupRepository
	roles    rolerepo.IGroupRoleRepository
	folders  folderrepo.IFolderProfileRepository
	settings filesrepo.IFilesSettingsRepository
	catalog  permission.PermissionCatalog
	profile  string
	excluded []string
}

func NewFilesPermissionService(
	groups grouprepo.IGroupRepository,
	roles rolerepo.IGroupRoleRepository,
	folders folderrepo.IFolderProfileRepository,
	settings filesrepo.IFilesSettingsRepository,
	catalog permission.PermissionCatalog,
	conf config.PermissionConfig,
) *FilesPermissionService {
	conf.SetDefaults()
	return &FilesPermissionService{
		groups:   groups,
		roles:    roles,
		folders:  folders,
		settings: settings,
		catalog:  catalog,
		profile:  conf.Profile,
		excluded: conf.Excluded,
	}
}

// snapshot is the current shape of a group's matrix.
type snapshot struct {
	group   *groupmodel.Group
	columns []matrix.Definition
	folders []matrix.Folder
	roles   []matrix.Role
}

// Definitions returns the offered permission columns.
func (s *FilesPermissionService) Definitions() []matrix.Definition {
	return matrix.Columns(s.catalog.ListDefinitions(), s.excluded...)
}

// GetMatrix assembles the permission matrix of a group from its stored
// record.
func (s *FilesPermissionService) GetMatrix(ctx context.Context, groupId uint64) (m *matrix.Matrix, err error) {
	ctx, span := s.start(ctx, "GetMatrix", groupId)
	defer func(start time.Time) { s.finish(span, "get_matrix", start, err) }(time.Now())

	snap, err := s.snapshot(ctx, groupId)
	if err != nil {
		return nil, err
	}
	idx, err := s.index(ctx, groupId)
	if err != nil {
		return nil, err
	}

	m = matrix.Assemble(groupId, snap.columns, snap.folders, snap.roles, idx)
	m.Label = snap.group.Label
	span.SetAttributes(attribute.Int("matrix.cells", m.Cells()))
	metrics.ObserveMatrixCells(m.Cells())
	return m, nil
}

// Save replaces the stored entries of a group with the content of sub. A
// submission built against another folder, role or column list is rejected
// with matrix.ErrStaleForm and nothing is written.
func (s *FilesPermissionService) Save(ctx context.Context, groupId uint64, sub *matrix.Submission) (err error) {
	ctx, span := s.start(ctx, "Save", groupId)
	defer func(start time.Time) { s.finish(span, "save", start, err) }(time.Now())

	snap, err := s.snapshot(ctx, groupId)
	if err != nil {
		return err
	}
	entries, err := matrix.Decode(sub, snap.folders, snap.roles, snap.columns)
	if err != nil {
		log.WithContext(ctx).Warnw("rejected permission form", "groupId", groupId, "error", err)
		return err
	}
	return s.persist(ctx, groupId, matrix.Normalize(entries, snap.columns))
}

// SaveLegacy is Save for the flat form encoding.
func (s *FilesPermissionService) SaveLegacy(ctx context.Context, groupId uint64, sub *matrix.LegacySubmission) (err error) {
	ctx, span := s.start(ctx, "SaveLegacy", groupId)
	defer func(start time.Time) { s.finish(span, "save_legacy", start, err) }(time.Now())

	if sub == nil {
		return fmt.Errorf("%w: empty submission", matrix.ErrStaleForm)
	}
	if sub.EntityId != groupId {
		return fmt.Errorf("%w: got %d, want %d", ErrEntityMismatch, sub.EntityId, groupId)
	}

	snap, err := s.snapshot(ctx, groupId)
	if err != nil {
		return err
	}
	if err := checkLegacyShape(sub, snap); err != nil {
		log.WithContext(ctx).Warnw("rejected permission form", "groupId", groupId, "error", err)
		return err
	}
	entries, err := matrix.DecodeLegacy(sub)
	if err != nil {
		log.WithContext(ctx).Warnw("rejected permission form", "groupId", groupId, "error", err)
		return err
	}
	return s.persist(ctx, groupId, matrix.Normalize(entries, snap.columns))
}

// Effective returns what the given roles may do on folder: a permission is
// granted when any of the roles grants it. No roles means every member role.
// Role ids that are not member roles of the group grant nothing.
func (s *FilesPermissionService) Effective(ctx context.Context, groupId uint64, folder string, roleIds []string) (set matrix.PermissionSet, err error) {
	ctx, span := s.start(ctx, "Effective", groupId)
	defer func(start time.Time) { s.finish(span, "effective", start, err) }(time.Now())

	snap, err := s.snapshot(ctx, groupId)
	if err != nil {
		return nil, err
	}
	if !slices.ContainsFunc(snap.folders, func(f matrix.Folder) bool { return f.Path == folder }) {
		return nil, fmt.Errorf("%w: %q", ErrFolderNotFound, folder)
	}

	current := make([]string, 0, len(snap.roles))
	for _, r := range snap.roles {
		if len(roleIds) == 0 || slices.Contains(roleIds, r.RoleId) {
			current = append(current, r.RoleId)
		}
	}

	idx, err := s.index(ctx, groupId)
	if err != nil {
		return nil, err
	}
	return matrix.Effective(idx, folder, current, snap.columns), nil
}

func (s *FilesPermissionService) snapshot(ctx context.Context, groupId uint64) (*snapshot, error) {
	g, err := s.groups.GetGroup(ctx, groupId)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %d", ErrGroupNotFound, groupId)
	}
	if err != nil {
		log.WithContext(ctx).Errorw("failed to get group", "groupId", groupId, "error", err)
		return nil, fmt.Errorf("get group %d: %w", groupId, err)
	}

	roles, err := s.roles.ListMemberRoles(ctx, g.Type)
	if err != nil {
		log.WithContext(ctx).Errorw("failed to list member roles", "groupType", g.Type, "error", err)
		return nil, fmt.Errorf("list member roles of %s: %w", g.Type, err)
	}

	folders, err := s.folders.ListFolders(ctx, s.profile)
	switch {
	case errors.Is(err, folderrepo.ErrProfileNotFound):
		log.WithContext(ctx).Warnw("folder profile not found, no folders offered", "profile", s.profile)
		folders = nil
	case err != nil:
		log.WithContext(ctx).Errorw("failed to list folders", "profile", s.profile, "error", err)
		return nil, fmt.Errorf("list folders of %s: %w", s.profile, err)
	}

	return &snapshot{
		group:   g,
		columns: s.Definitions(),
		folders: folders,
		roles:   roles,
	}, nil
}

func (s *FilesPermissionService) index(ctx context.Context, groupId uint64) (matrix.Index, error) {
	records, err := s.settings.FindByGroup(ctx, groupId)
	if err != nil {
		log.WithContext(ctx).Errorw("failed to load folder permissions", "groupId", groupId, "error", err)
		return nil, err
	}

	decoded := make([][]matrix.Entry, 0, len(records))
	for _, rec := range records {
		entries, err := rec.Entries()
		if err != nil {
			log.WithContext(ctx).Errorw("failed to decode folder permissions", "groupId", groupId, "recordId", rec.ID, "error", err)
			return nil, err
		}
		decoded = append(decoded, entries)
	}
	if len(records) > 1 {
		log.WithContext(ctx).Warnw("group has more than one folder permissions record, the last one is used",
			"groupId", groupId, "records", len(records))
	}
	return matrix.BuildIndex(decoded...), nil
}

// persist writes entries into the group's record, creating it on first save.
// With several records the first one is written.
func (s *FilesPermissionService) persist(ctx context.Context, groupId uint64, entries []matrix.Entry) error {
	records, err := s.settings.FindByGroup(ctx, groupId)
	if err != nil {
		log.WithContext(ctx).Errorw("failed to load folder permissions", "groupId", groupId, "error", err)
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	var rec *filesmodel.FilesSettings
	if len(records) == 0 {
		rec = s.settings.Create(groupId)
	} else {
		rec = records[0]
	}

	rec.ClearEntries()
	for _, e := range entries {
		if err := rec.AppendEntry(e); err != nil {
			log.WithContext(ctx).Errorw("failed to encode folder permission", "groupId", groupId, "folder", e.Folder, "role", e.Role, "error", err)
			return fmt.Errorf("%w: %w", ErrPersistence, err)
		}
	}
	if err := s.settings.Save(ctx, rec); err != nil {
		log.WithContext(ctx).Errorw("failed to save folder permissions", "groupId", groupId, "error", err)
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	metrics.AddEntriesSaved(len(entries))
	log.WithContext(ctx).Infow("folder permissions saved", "groupId", groupId, "recordId", rec.ID, "entries", len(entries))
	return nil
}

// checkLegacyShape rejects flat submissions whose folder or role lists
// differ from the current ones.
func checkLegacyShape(sub *matrix.LegacySubmission, snap *snapshot) error {
	paths := make([]string, 0, len(snap.folders))
	for _, f := range snap.folders {
		paths = append(paths, f.Path)
	}
	if !slices.Equal(sub.Folders, paths) {
		return fmt.Errorf("%w: folders changed", matrix.ErrStaleForm)
	}
	if len(sub.RoleNames) != len(snap.roles) {
		return fmt.Errorf("%w: %d roles submitted, %d current", matrix.ErrStaleForm, len(sub.RoleNames), len(snap.roles))
	}
	for _, r := range snap.roles {
		if _, ok := sub.RoleNames[r.RoleId]; !ok {
			return fmt.Errorf("%w: role %q missing", matrix.ErrStaleForm, r.RoleId)
		}
	}
	return nil
}

func (s *FilesPermissionService) start(ctx context.Context, op string, groupId uint64) (context.Context, trace.Span) {
	return tracing.GetTracer(tracerName).Start(ctx, "FilesPermissionService."+op,
		trace.WithAttributes(attribute.Int64("group.id", int64(groupId))))
}

func (s *FilesPermissionService) finish(span trace.Span, op string, start time.Time, err error) {
	defer span.End()

	result := metrics.ResultOK
	switch {
	case err == nil:
	case errors.Is(err, matrix.ErrStaleForm):
		result = metrics.ResultStale
	default:
		result = metrics.ResultError
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	metrics.RecordPermissionOperation(op, result, time.Since(start))
}
