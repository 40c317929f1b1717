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
	"bytes"
	"context"
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-arcade/groupfiles/internal/engine/config"
	groupmodel "github.com/go-arcade/groupfiles/internal/engine/model/group"
	rolemodel "github.com/go-arcade/groupfiles/internal/engine/model/role"
	"github.com/go-arcade/groupfiles/internal/engine/repo"
	filesrepo "github.com/go-arcade/groupfiles/internal/engine/repo/files_settings"
	folderrepo "github.com/go-arcade/groupfiles/internal/engine/repo/folder"
	grouprepo "github.com/go-arcade/groupfiles/internal/engine/repo/group"
	rolerepo "github.com/go-arcade/groupfiles/internal/engine/repo/role"
	"github.com/go-arcade/groupfiles/internal/engine/service"
	"github.com/go-arcade/groupfiles/internal/engine/service/files_permission"
	"github.com/go-arcade/groupfiles/internal/engine/service/permission"
	"github.com/go-arcade/groupfiles/internal/pkg/matrix"
	"github.com/go-arcade/groupfiles/pkg/cache"
	"github.com/go-arcade/groupfiles/pkg/database"
	"github.com/go-arcade/groupfiles/pkg/http"
	"github.com/go-arcade/groupfiles/pkg/http/jwt"
	"github.com/go-arcade/groupfiles/pkg/metrics"
	"github.com/go-arcade/groupfiles/pkg/pprof"
	"github.com/go-arcade/groupfiles/pkg/shutdown"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Code   int             `json:"code"`
	Msg    string          `json:"msg"`
	ErrMsg string          `json:"errMsg"`
	Detail json.RawMessage `json:"detail"`
}

func newTestApp(t *testing.T, secretKey string) *fiber.App {
	return newTestAppWith(t, secretKey, pprof.PprofConfig{}, shutdown.NewManager())
}

func newTestAppWith(t *testing.T, secretKey string, pprofConf pprof.PprofConfig, shutdownMgr *shutdown.Manager) *fiber.App {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, repo.AutoMigrate(db))

	ctx := context.Background()
	idb := database.NewGormDB(db)
	groups := grouprepo.NewGroupRepo(idb)
	roles := rolerepo.NewGroupRoleRepo(idb, nil, cache.Cache{})
	folders := folderrepo.NewFolderProfileRepo(idb, nil, cache.Cache{})
	settings := filesrepo.NewFilesSettingsRepo(idb)

	g := &groupmodel.Group{Type: "project", Label: "Apollo"}
	g.ID = 42
	require.NoError(t, groups.CreateGroup(ctx, g))
	for i, id := range []string{"project-member", "project-editor"} {
		require.NoError(t, roles.CreateRole(ctx, &rolemodel.GroupRole{
			RoleId:        id,
			GroupType:     "project",
			Label:         id,
			Weight:        i,
			IsMember:      rolemodel.RoleMember,
			PermissionsUI: rolemodel.RoleShownInUI,
		}))
	}
	require.NoError(t, repo.SeedProfile(ctx, folders, config.DefaultProfile, []string{"a", "b"}))

	conf := config.PermissionConfig{}
	svc := files_permission.NewFilesPermissionService(groups, roles, folders, settings,
		permission.ProvidePermissionCatalog(conf), conf)

	httpConf := &http.Http{Auth: http.Auth{SecretKey: secretKey}}
	httpConf.SetDefaults()
	m := metrics.NewMetricsServer(metrics.MetricsConfig{Enable: true})

	p := pprof.NewPprofServer(pprofConf)

	return NewRouter(httpConf, service.NewServices(svc, permission.ProvidePermissionCatalog(conf)), m, p, shutdownMgr).Router()
}

func doRequest(t *testing.T, app *fiber.App, method, path string, body any, header ...string) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &env))
	}
	return resp.StatusCode, env
}

func getMatrix(t *testing.T, app *fiber.App) FilesPermissionsReply {
	t.Helper()
	status, env := doRequest(t, app, nethttp.MethodGet, "/groups/42/files/permissions", nil)
	require.Equal(t, nethttp.StatusOK, status)
	var reply FilesPermissionsReply
	require.NoError(t, json.Unmarshal(env.Detail, &reply))
	return reply
}

func TestHealthAndVersion(t *testing.T) {
	app := newTestApp(t, "")

	resp, err := app.Test(httptest.NewRequest(nethttp.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)

	status, env := doRequest(t, app, nethttp.MethodGet, "/version", nil)
	assert.Equal(t, nethttp.StatusOK, status)
	assert.Equal(t, http.Success.Code, env.Code)
	assert.Contains(t, string(env.Detail), "version")
}

func TestHealth_Draining(t *testing.T) {
	mgr := shutdown.NewManager()
	app := newTestAppWith(t, "", pprof.PprofConfig{}, mgr)
	mgr.Shutdown("test")

	resp, err := app.Test(httptest.NewRequest(nethttp.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusServiceUnavailable, resp.StatusCode)
}

func TestMetricsRoute(t *testing.T) {
	app := newTestApp(t, "")

	resp, err := app.Test(httptest.NewRequest(nethttp.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
}

func TestPprofRoute(t *testing.T) {
	resp, err := newTestApp(t, "").Test(httptest.NewRequest(nethttp.MethodGet, "/debug/pprof/cmdline", nil))
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)

	app := newTestAppWith(t, "", pprof.PprofConfig{Enable: true}, shutdown.NewManager())
	resp, err = app.Test(httptest.NewRequest(nethttp.MethodGet, "/debug/pprof/cmdline", nil))
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
}

func TestListDefinitions(t *testing.T) {
	app := newTestApp(t, "")

	status, env := doRequest(t, app, nethttp.MethodGet, "/files/permissions/definitions", nil)
	require.Equal(t, nethttp.StatusOK, status)

	var defs []matrix.Definition
	require.NoError(t, json.Unmarshal(env.Detail, &defs))
	assert.Len(t, defs, len(permission.DefaultDefinitions)-1)
	for _, d := range defs {
		assert.NotEqual(t, matrix.ExcludedPermission, d.Key)
	}
}

func TestGetFilesPermissions(t *testing.T) {
	app := newTestApp(t, "")
	reply := getMatrix(t, app)

	assert.Contains(t, reply.Help, "Apollo")
	require.NotNil(t, reply.Matrix)
	assert.Equal(t, uint64(42), reply.Matrix.GroupId)
	assert.Len(t, reply.Matrix.Sections, 2)
	assert.Equal(t, 2*2*len(reply.Matrix.Columns), reply.Matrix.Cells())

	require.NotNil(t, reply.Submission)
	assert.Equal(t, []string{"a", "b"}, reply.Submission.Folders)
	assert.Equal(t, []string{"project-member", "project-editor"}, reply.Submission.Roles)
	for _, row := range reply.Submission.Cells {
		for _, v := range row {
			assert.False(t, v)
		}
	}
}

func TestGetFilesPermissions_Errors(t *testing.T) {
	app := newTestApp(t, "")

	status, env := doRequest(t, app, nethttp.MethodGet, "/groups/7/files/permissions", nil)
	assert.Equal(t, nethttp.StatusNotFound, status)
	assert.Equal(t, http.NotFound.Code, env.Code)

	status, env = doRequest(t, app, nethttp.MethodGet, "/groups/abc/files/permissions", nil)
	assert.Equal(t, nethttp.StatusBadRequest, status)
	assert.Equal(t, http.BadRequest.Code, env.Code)
}

func TestSaveFilesPermissions(t *testing.T) {
	app := newTestApp(t, "")
	sub := getMatrix(t, app).Submission
	require.NoError(t, sub.Set("a", "project-member", "upload_files", true))

	status, env := doRequest(t, app, nethttp.MethodPut, "/groups/42/files/permissions", sub)
	require.Equal(t, nethttp.StatusOK, status, env.ErrMsg)
	assert.Equal(t, http.Success.Code, env.Code)

	got, err := getMatrix(t, app).Submission.Get("a", "project-member", "upload_files")
	require.NoError(t, err)
	assert.True(t, got)

	status, env = doRequest(t, app, nethttp.MethodGet,
		"/groups/42/files/permissions/effective?folder=a&roles=project-member,project-editor", nil)
	require.Equal(t, nethttp.StatusOK, status)
	var eff EffectiveReply
	require.NoError(t, json.Unmarshal(env.Detail, &eff))
	assert.True(t, eff.Permissions.Granted("upload_files"))
	assert.False(t, eff.Permissions.Granted("delete_files"))
	assert.Equal(t, []string{"project-member", "project-editor"}, eff.Roles)

	status, env = doRequest(t, app, nethttp.MethodGet,
		"/groups/42/files/permissions/effective?folder=a&roles=project-editor", nil)
	require.Equal(t, nethttp.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Detail, &eff))
	assert.False(t, eff.Permissions.Granted("upload_files"))
}

func TestSaveFilesPermissions_Stale(t *testing.T) {
	app := newTestApp(t, "")
	sub := getMatrix(t, app).Submission
	sub.Roles = sub.Roles[:1]

	status, env := doRequest(t, app, nethttp.MethodPut, "/groups/42/files/permissions", sub)
	assert.Equal(t, nethttp.StatusConflict, status)
	assert.Equal(t, http.StaleForm.Code, env.Code)
}

func TestSaveFilesPermissions_InvalidBody(t *testing.T) {
	app := newTestApp(t, "")

	req := httptest.NewRequest(nethttp.MethodPut, "/groups/42/files/permissions", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
}

func TestSaveFilesPermissionsForm(t *testing.T) {
	app := newTestApp(t, "")
	form := &matrix.LegacySubmission{
		RoleNames: map[string]string{"project-member": "Member", "project-editor": "Editor"},
		Folders:   []string{"a", "b"},
		Permissions: map[string]matrix.PermissionSet{
			"a-0":              {},
			"b-1":              {},
			"0-project-member": {"browse_files": true},
			"0-project-editor": {},
			"1-project-member": {},
			"1-project-editor": {"delete_files": true, "resize_images": true},
		},
		EntityId: 42,
	}

	status, env := doRequest(t, app, nethttp.MethodPost, "/groups/42/files/permissions/form", form)
	require.Equal(t, nethttp.StatusOK, status, env.ErrMsg)

	sub := getMatrix(t, app).Submission
	got, err := sub.Get("b", "project-editor", "delete_files")
	require.NoError(t, err)
	assert.True(t, got)
	got, err = sub.Get("a", "project-member", "browse_files")
	require.NoError(t, err)
	assert.True(t, got)

	form.EntityId = 43
	status, env = doRequest(t, app, nethttp.MethodPost, "/groups/42/files/permissions/form", form)
	assert.Equal(t, nethttp.StatusBadRequest, status)
	assert.Equal(t, http.BadRequest.Code, env.Code)

	form.EntityId = 42
	form.Folders = []string{"a"}
	status, env = doRequest(t, app, nethttp.MethodPost, "/groups/42/files/permissions/form", form)
	assert.Equal(t, nethttp.StatusConflict, status)
	assert.Equal(t, http.StaleForm.Code, env.Code)

	// a zero padded key aliasing another row is rejected and nothing is written
	form.Folders = []string{"a", "b"}
	delete(form.Permissions, "0-project-editor")
	form.Permissions["00-project-member"] = matrix.PermissionSet{"browse_files": false}
	status, env = doRequest(t, app, nethttp.MethodPost, "/groups/42/files/permissions/form", form)
	assert.Equal(t, nethttp.StatusConflict, status)
	assert.Equal(t, http.StaleForm.Code, env.Code)

	got, err = getMatrix(t, app).Submission.Get("a", "project-member", "browse_files")
	require.NoError(t, err)
	assert.True(t, got)
}

func TestEffective_Errors(t *testing.T) {
	app := newTestApp(t, "")

	status, env := doRequest(t, app, nethttp.MethodGet, "/groups/42/files/permissions/effective", nil)
	assert.Equal(t, nethttp.StatusBadRequest, status)
	assert.Equal(t, http.BadRequest.Code, env.Code)

	status, env = doRequest(t, app, nethttp.MethodGet, "/groups/42/files/permissions/effective?folder=zzz", nil)
	assert.Equal(t, nethttp.StatusNotFound, status)
	assert.Equal(t, http.NotFound.Code, env.Code)
}

func TestAuthorization(t *testing.T) {
	const secret = "router-test-secret"
	app := newTestApp(t, secret)

	status, env := doRequest(t, app, nethttp.MethodGet, "/files/permissions/definitions", nil)
	assert.Equal(t, nethttp.StatusUnauthorized, status)
	assert.Equal(t, http.TokenBeEmpty.Code, env.Code)

	token, err := jwt.GenToken("admin", []byte(secret), time.Hour)
	require.NoError(t, err)
	status, _ = doRequest(t, app, nethttp.MethodGet, "/files/permissions/definitions", nil,
		"Authorization", "Bearer "+token)
	assert.Equal(t, nethttp.StatusOK, status)

	// health stays public
	resp, err := app.Test(httptest.NewRequest(nethttp.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
}
