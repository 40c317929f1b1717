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

//go:build wireinject
// +build wireinject

package main

import (
	"github.com/go-arcade/groupfiles/internal/engine/bootstrap"
	"github.com/go-arcade/groupfiles/internal/engine/config"
	"github.com/go-arcade/groupfiles/internal/engine/repo"
	"github.com/go-arcade/groupfiles/internal/engine/router"
	"github.com/go-arcade/groupfiles/internal/engine/service"
	"github.com/go-arcade/groupfiles/pkg/cache"
	"github.com/go-arcade/groupfiles/pkg/database"
	"github.com/go-arcade/groupfiles/pkg/log"
	"github.com/go-arcade/groupfiles/pkg/metrics"
	"github.com/go-arcade/groupfiles/pkg/pprof"
	"github.com/go-arcade/groupfiles/pkg/shutdown"
	"github.com/go-arcade/groupfiles/pkg/trace"
	"github.com/google/wire"
)

func initApp(configPath string) (*bootstrap.App, func(), error) {
	panic(wire.Build(
		config.ProviderSet,
		log.ProviderSet,
		trace.ProviderSet,
		database.ProviderSet,
		cache.ProviderSet,
		metrics.ProviderSet,
		pprof.ProviderSet,
		shutdown.ProviderSet,
		repo.ProviderSet,
		service.ProviderSet,
		router.ProviderSet,
		bootstrap.NewApp,
	))
}
