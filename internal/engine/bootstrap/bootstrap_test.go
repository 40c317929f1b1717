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

package bootstrap

import (
	"context"
	"testing"

	"github.com/go-arcade/groupfiles/internal/engine/config"
	filesrepo "github.com/go-arcade/groupfiles/internal/engine/repo/files_settings"
	folderrepo "github.com/go-arcade/groupfiles/internal/engine/repo/folder"
	grouprepo "github.com/go-arcade/groupfiles/internal/engine/repo/group"
	rolerepo "github.com/go-arcade/groupfiles/internal/engine/repo/role"
	"github.com/go-arcade/groupfiles/internal/engine/router"
	"github.com/go-arcade/groupfiles/internal/engine/service"
	"github.com/go-arcade/groupfiles/internal/engine/service/files_permission"
	"github.com/go-arcade/groupfiles/internal/engine/service/permission"
	"github.com/go-arcade/groupfiles/internal/pkg/matrix"
	"github.com/go-arcade/groupfiles/pkg/cache"
	"github.com/go-arcade/groupfiles/pkg/database"
	"github.com/go-arcade/groupfiles/pkg/log"
	"github.com/go-arcade/groupfiles/pkg/metrics"
	"github.com/go-arcade/groupfiles/pkg/pprof"
	"github.com/go-arcade/groupfiles/pkg/shutdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestNewApp_MigratesAndSeeds(t *testing.T) {
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	idb := database.NewGormDB(db)

	appConf := &config.AppConfig{
		Database:   database.Database{Type: database.TypeSQLite, AutoMigrate: true},
		Permission: config.PermissionConfig{SeedFolders: []string{"docs", "media"}},
	}
	httpConf := &appConf.Http
	httpConf.SetDefaults()
	permConf := appConf.Permission
	permConf.SetDefaults()

	groups := grouprepo.NewGroupRepo(idb)
	roles := rolerepo.NewGroupRoleRepo(idb, nil, cache.Cache{})
	folders := folderrepo.NewFolderProfileRepo(idb, nil, cache.Cache{})
	settings := filesrepo.NewFilesSettingsRepo(idb)
	catalog := permission.ProvidePermissionCatalog(permConf)
	svc := files_permission.NewFilesPermissionService(groups, roles, folders, settings, catalog, permConf)
	metricsServer := metrics.NewMetricsServer(metrics.MetricsConfig{})
	pprofServer := pprof.NewPprofServer(pprof.PprofConfig{})
	shutdownMgr := shutdown.NewManager()
	rt := router.NewRouter(httpConf, service.NewServices(svc, catalog), metricsServer, pprofServer, shutdownMgr)

	logger := &log.Logger{Log: log.GetLogger()}
	app, cleanup, err := NewApp(rt, logger, appConf, metricsServer, pprofServer, shutdownMgr, idb, appConf.Database, folders, permConf, noop.NewTracerProvider())
	require.NoError(t, err)
	defer cleanup()

	assert.NotNil(t, app.HttpApp)
	list, err := folders.ListFolders(context.Background(), config.DefaultProfile)
	require.NoError(t, err)
	assert.Equal(t, []matrix.Folder{{Key: 0, Path: "docs"}, {Key: 1, Path: "media"}}, list)
}
