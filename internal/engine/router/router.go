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
	"github.com/go-arcade/groupfiles/internal/engine/service"
	"github.com/go-arcade/groupfiles/pkg/http"
	"github.com/go-arcade/groupfiles/pkg/http/middleware"
	"github.com/go-arcade/groupfiles/pkg/metrics"
	"github.com/go-arcade/groupfiles/pkg/pprof"
	"github.com/go-arcade/groupfiles/pkg/shutdown"
	"github.com/go-arcade/groupfiles/pkg/version"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

type Router struct {
	Http     *http.Http
	Services *service.Services
	Metrics  *metrics.Server
	Pprof    *pprof.Server
	Shutdown *shutdown.Manager
}

func NewRouter(
	httpConf *http.Http,
	services *service.Services,
	metricsServer *metrics.Server,
	pprofServer *pprof.Server,
	shutdownMgr *shutdown.Manager,
) *Router {
	return &Router{
		Http:     httpConf,
		Services: services,
		Metrics:  metricsServer,
		Pprof:    pprofServer,
		Shutdown: shutdownMgr,
	}
}

func (rt *Router) Router() *fiber.App {
	app := http.NewFiberApp(rt.Http, middleware.ErrorHandler)

	// panic recover
	app.Use(middleware.ExceptionMiddleware)

	app.Use(middleware.RequestMiddleware())
	app.Use(middleware.TraceMiddleware())
	app.Use(middleware.CorsMiddleware())

	if rt.Http.AccessLog {
		app.Use(middleware.AccessLogMiddleware(rt.Http))
	}

	app.Use(middleware.UnifiedResponseMiddleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		if rt.Shutdown != nil && rt.Shutdown.IsShuttingDown() {
			return c.Status(fiber.StatusServiceUnavailable).SendString("shutting down")
		}
		return c.SendString("ok")
	})

	app.Get("/version", func(c *fiber.Ctx) error {
		c.Locals(middleware.DETAIL, version.GetVersion())
		return nil
	})

	// served here only when no dedicated metrics listener is configured
	if rt.Metrics != nil && rt.Metrics.Enabled() && !rt.Metrics.Standalone() {
		app.Get(rt.Metrics.Path(), adaptor.HTTPHandler(rt.Metrics.Handler()))
	}
	if rt.Pprof != nil && rt.Pprof.Enabled() && !rt.Pprof.Standalone() {
		app.Get(rt.Pprof.Path()+"/*", adaptor.HTTPHandler(rt.Pprof.Handler()))
	}

	rt.routerGroup(app.Group(rt.Http.ContextPath))

	return app
}

func (rt *Router) routerGroup(r fiber.Router) {
	auth := rt.auth()

	r.Get("/files/permissions/definitions", auth, rt.listDefinitions)

	files := r.Group("/groups/:groupId/files/permissions")
	{
		files.Get("", auth, rt.getFilesPermissions)
		files.Put("", auth, rt.saveFilesPermissions)
		files.Post("/form", auth, rt.saveFilesPermissionsForm)
		files.Get("/effective", auth, rt.getEffectivePermissions)
	}
}

// auth checks bearer tokens when a secret key is configured.
func (rt *Router) auth() fiber.Handler {
	if rt.Http.Auth.SecretKey == "" {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return middleware.AuthorizationMiddleware(rt.Http.Auth.SecretKey)
}
