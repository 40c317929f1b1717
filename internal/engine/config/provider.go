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

package config

import (
	"github.com/go-arcade/groupfiles/pkg/cache"
	"github.com/go-arcade/groupfiles/pkg/database"
	"github.com/go-arcade/groupfiles/pkg/http"
	"github.com/go-arcade/groupfiles/pkg/log"
	"github.com/go-arcade/groupfiles/pkg/metrics"
	"github.com/go-arcade/groupfiles/pkg/pprof"
	"github.com/go-arcade/groupfiles/pkg/trace"
	"github.com/google/wire"
)

// ProviderSet provides the configuration sections
var ProviderSet = wire.NewSet(
	ProvideConf,
	ProvideHttpConfig,
	ProvideLogConfig,
	ProvideDatabaseConfig,
	ProvideRedisConfig,
	ProvideCacheConfig,
	ProvideMetricsConfig,
	ProvidePprofConfig,
	ProvideTraceConfig,
	ProvidePermissionConfig,
)

func ProvideConf(configPath string) (*AppConfig, error) {
	return LoadConfigFile(configPath)
}

func ProvideHttpConfig(appConf *AppConfig) *http.Http {
	httpConfig := &appConf.Http
	httpConfig.SetDefaults()
	return httpConfig
}

func ProvideLogConfig(appConf *AppConfig) *log.Conf {
	return &appConf.Log
}

func ProvideDatabaseConfig(appConf *AppConfig) database.Database {
	databaseConfig := appConf.Database
	databaseConfig.SetDefaults()
	return databaseConfig
}

func ProvideRedisConfig(appConf *AppConfig) cache.Redis {
	return appConf.Redis
}

func ProvideCacheConfig(appConf *AppConfig) cache.Cache {
	cacheConfig := appConf.Cache
	cacheConfig.SetDefaults()
	return cacheConfig
}

func ProvideMetricsConfig(appConf *AppConfig) metrics.MetricsConfig {
	metricsConfig := appConf.Metrics
	metricsConfig.SetDefaults()
	return metricsConfig
}

func ProvidePprofConfig(appConf *AppConfig) pprof.PprofConfig {
	pprofConfig := appConf.Pprof
	pprofConfig.SetDefaults()
	return pprofConfig
}

func ProvidePermissionConfig(appConf *AppConfig) PermissionConfig {
	permissionConfig := appConf.Permission
	permissionConfig.SetDefaults()
	return permissionConfig
}

func ProvideTraceConfig(appConf *AppConfig) trace.Conf {
	traceConfig := appConf.Trace
	traceConfig.SetDefaults()
	return traceConfig
}
