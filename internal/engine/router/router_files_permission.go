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

package router

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-arcade/groupfiles/internal/engine/service/files_permission"
	"github.com/go-arcade/groupfiles/internal/pkg/matrix"
	"github.com/go-arcade/groupfiles/pkg/http"
	"github.com/go-arcade/groupfiles/pkg/http/middleware"
	"github.com/go-arcade/groupfiles/pkg/log"
	"github.com/gofiber/fiber/v2"
)

const helpText = "Below is the access matrix for %s. Check a box to grant the permission " +
	"to the role on that folder. A user with several roles gets a permission when any " +
	"of the roles grants it."

// FilesPermissionsReply is the detail of GET /groups/:groupId/files/permissions.
// Submission is pre-filled with the current values and can be edited and sent
// back as is.
type FilesPermissionsReply struct {
	Help       string             `json:"help"`
	Matrix     *matrix.Matrix     `json:"matrix"`
	Submission *matrix.Submission `json:"submission"`
}

// EffectiveReply is the detail of GET .../effective.
type EffectiveReply struct {
	Folder      string               `json:"folder"`
	Roles       []string             `json:"roles,omitempty"`
	Permissions matrix.PermissionSet `json:"permissions"`
}

func (rt *Router) listDefinitions(c *fiber.Ctx) error {
	c.Locals(middleware.DETAIL, rt.Services.FilesPermission.Definitions())
	return nil
}

func (rt *Router) getFilesPermissions(c *fiber.Ctx) error {
	groupId, err := groupIdParam(c)
	if err != nil {
		return http.WithRepErrMsg(c, http.BadRequest.Code, err.Error(), c.Path())
	}

	m, err := rt.Services.FilesPermission.GetMatrix(c.UserContext(), groupId)
	if err != nil {
		return filesPermissionErr(c, err)
	}

	label := m.Label
	if label == "" {
		label = "group " + strconv.FormatUint(groupId, 10)
	}
	c.Locals(middleware.DETAIL, &FilesPermissionsReply{
		Help:       fmt.Sprintf(helpText, label),
		Matrix:     m,
		Submission: m.Submission(),
	})
	return nil
}

func (rt *Router) saveFilesPermissions(c *fiber.Ctx) error {
	groupId, err := groupIdParam(c)
	if err != nil {
		return http.WithRepErrMsg(c, http.BadRequest.Code, err.Error(), c.Path())
	}

	var sub matrix.Submission
	if err := c.BodyParser(&sub); err != nil {
		return http.WithRepErrMsg(c, http.BadRequest.Code, "invalid request parameters", c.Path())
	}

	if err := rt.Services.FilesPermission.Save(c.UserContext(), groupId, &sub); err != nil {
		return filesPermissionErr(c, err)
	}

	c.Locals(middleware.OPERATION, "save folder permissions")
	return nil
}

func (rt *Router) saveFilesPermissionsForm(c *fiber.Ctx) error {
	groupId, err := groupIdParam(c)
	if err != nil {
		return http.WithRepErrMsg(c, http.BadRequest.Code, err.Error(), c.Path())
	}

	var sub matrix.LegacySubmission
	if err := c.BodyParser(&sub); err != nil {
		return http.WithRepErrMsg(c, http.BadRequest.Code, "invalid request parameters", c.Path())
	}

	if err := rt.Services.FilesPermission.SaveLegacy(c.UserContext(), groupId, &sub); err != nil {
		return filesPermissionErr(c, err)
	}

	c.Locals(middleware.OPERATION, "save folder permissions")
	return nil
}

func (rt *Router) getEffectivePermissions(c *fiber.Ctx) error {
	groupId, err := groupIdParam(c)
	if err != nil {
		return http.WithRepErrMsg(c, http.BadRequest.Code, err.Error(), c.Path())
	}

	folder := c.Query("folder")
	if folder == "" {
		return http.WithRepErrMsg(c, http.BadRequest.Code, "folder is required", c.Path())
	}
	roles := splitList(c.Query("roles"))

	set, err := rt.Services.FilesPermission.Effective(c.UserContext(), groupId, folder, roles)
	if err != nil {
		return filesPermissionErr(c, err)
	}

	c.Locals(middleware.DETAIL, &EffectiveReply{
		Folder:      folder,
		Roles:       roles,
		Permissions: set,
	})
	return nil
}

func groupIdParam(c *fiber.Ctx) (uint64, error) {
	id, err := strconv.ParseUint(c.Params("groupId"), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid group id %q", c.Params("groupId"))
	}
	return id, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// filesPermissionErr maps service errors to reply codes.
func filesPermissionErr(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, files_permission.ErrGroupNotFound), errors.Is(err, files_permission.ErrFolderNotFound):
		return http.WithRepErrMsg(c, http.NotFound.Code, err.Error(), c.Path())
	case errors.Is(err, matrix.ErrStaleForm):
		return http.WithRepErrMsg(c, http.StaleForm.Code, http.StaleForm.Msg, c.Path())
	case errors.Is(err, files_permission.ErrEntityMismatch):
		return http.WithRepErrMsg(c, http.BadRequest.Code, err.Error(), c.Path())
	case errors.Is(err, files_permission.ErrPersistence):
		return http.WithRepErrMsg(c, http.Failed.Code, files_permission.ErrPersistence.Error(), c.Path())
	default:
		log.WithContext(c.UserContext()).Errorw("folder permissions request failed", "path", c.Path(), "error", err)
		return http.WithRepErrMsg(c, http.Failed.Code, http.Failed.Msg, c.Path())
	}
}
