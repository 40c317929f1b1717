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
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-arcade/groupfiles/internal/engine/config"
	"github.com/go-arcade/groupfiles/internal/engine/repo"
	"github.com/go-arcade/groupfiles/internal/engine/repo/folder"
	"github.com/go-arcade/groupfiles/internal/engine/router"
	"github.com/go-arcade/groupfiles/pkg/database"
	"github.com/go-arcade/groupfiles/pkg/log"
	"github.com/go-arcade/groupfiles/pkg/metrics"
	"github.com/go-arcade/groupfiles/pkg/pprof"
	"github.com/go-arcade/groupfiles/pkg/shutdown"
	"github.com/go-arcade/groupfiles/pkg/version"
	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/trace"
)

type App struct {
	HttpApp  *fiber.App
	Logger   *log.Logger
	Metrics  *metrics.Server
	Pprof    *pprof.Server
	Shutdown *shutdown.Manager
	AppConf  *config.AppConfig
}

// InitAppFunc init app function type
type InitAppFunc func(configPath string) (*App, func(), error)

// NewApp prepares the schema and the folder profile, then builds the HTTP
// app. The tracer provider argument only orders tracing setup before the
// first request.
func NewApp(
	rt *router.Router,
	logger *log.Logger,
	appConf *config.AppConfig,
	metricsServer *metrics.Server,
	pprofServer *pprof.Server,
	shutdownMgr *shutdown.Manager,
	db database.IDatabase,
	dbConf database.Database,
	folders folder.IFolderProfileRepository,
	permConf config.PermissionConfig,
	_ trace.TracerProvider,
) (*App, func(), error) {
	if dbConf.AutoMigrate {
		if err := repo.AutoMigrate(db.Database()); err != nil {
			return nil, nil, err
		}
		logger.Log.Infow("database schema migrated", "type", dbConf.Type)
	}

	if err := repo.SeedProfile(context.Background(), folders, permConf.Profile, permConf.SeedFolders); err != nil {
		return nil, nil, fmt.Errorf("seed folder profile %s: %w", permConf.Profile, err)
	}

	app := &App{
		HttpApp:  rt.Router(),
		Logger:   logger,
		Metrics:  metricsServer,
		Pprof:    pprofServer,
		Shutdown: shutdownMgr,
		AppConf:  appConf,
	}
	return app, func() {}, nil
}

// Bootstrap init app, return App instance and cleanup function
func Bootstrap(configFile string, initApp InitAppFunc) (*App, func(), error) {
	app, cleanup, err := initApp(configFile)
	if err != nil {
		return nil, nil, err
	}
	return app, cleanup, nil
}

// Run start app and wait for exit signal, then gracefully shutdown
func Run(app *App, cleanup func()) {
	logger := app.Logger.Log
	httpConf := app.AppConf.Http

	if err := app.Metrics.Start(); err != nil {
		logger.Errorw("metrics server failed to start", "error", err)
	}
	if err := app.Pprof.Start(); err != nil {
		logger.Errorw("pprof server failed to start", "error", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		addr := httpConf.Addr()
		logger.Infow("HTTP listener started",
			"address", addr,
			"contextPath", httpConf.ContextPath,
			"version", version.GetVersion().String(),
		)
		var err error
		if httpConf.TLS.CertFile != "" && httpConf.TLS.KeyFile != "" {
			err = app.HttpApp.ListenTLS(addr, httpConf.TLS.CertFile, httpConf.TLS.KeyFile)
		} else {
			err = app.HttpApp.Listen(addr)
		}
		if err != nil {
			logger.Errorw("HTTP listener failed", "address", addr, "error", err)
			app.Shutdown.Shutdown("listener failed")
		}
	}()

	select {
	case sig := <-quit:
		app.Shutdown.Shutdown(sig.String())
	case <-app.Shutdown.Done():
	}
	logger.Infow("shutting down gracefully", "reason", app.Shutdown.Reason())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(httpConf.ShutdownTimeout)*time.Second)
	defer shutdownCancel()
	if err := app.HttpApp.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Errorf("HTTP server shutdown error: %v", err)
	} else {
		logger.Info("HTTP server shut down gracefully")
	}

	if err := app.Metrics.Stop(shutdownCtx); err != nil {
		logger.Warnw("metrics server shutdown error", "error", err)
	}
	if err := app.Pprof.Stop(shutdownCtx); err != nil {
		logger.Warnw("pprof server shutdown error", "error", err)
	}

	cleanup()

	logger.Info("Server shutdown complete")
	_ = log.Sync()
}
