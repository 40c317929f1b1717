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
	"fmt"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/go-arcade/groupfiles/internal/pkg/matrix"
	"github.com/go-arcade/groupfiles/pkg/cache"
	"github.com/go-arcade/groupfiles/pkg/database"
	"github.com/go-arcade/groupfiles/pkg/http"
	"github.com/go-arcade/groupfiles/pkg/log"
	"github.com/go-arcade/groupfiles/pkg/metrics"
	"github.com/go-arcade/groupfiles/pkg/pprof"
	"github.com/go-arcade/groupfiles/pkg/trace"
	"github.com/spf13/viper"
)

const (
	envPrefix      = "GROUPFILES"
	DefaultProfile = "group_member"
)

// PermissionConfig selects the folder profile and the permission columns.
type PermissionConfig struct {
	// Profile is the folder profile every group's matrix is built from.
	Profile string `mapstructure:"profile"`
	// Excluded keys are never offered. Empty means resize_images.
	Excluded []string `mapstructure:"excluded"`
	// Definitions override the built-in permission catalog.
	Definitions []matrix.Definition `mapstructure:"definitions"`
	// SeedFolders creates Profile with these paths when it does not exist.
	SeedFolders []string `mapstructure:"seedFolders"`
}

func (p *PermissionConfig) SetDefaults() {
	if p.Profile == "" {
		p.Profile = DefaultProfile
	}
}

type AppConfig struct {
	Log        log.Conf
	Http       http.Http
	Database   database.Database
	Redis      cache.Redis
	Cache      cache.Cache
	Metrics    metrics.MetricsConfig
	Pprof      pprof.PprofConfig
	Trace      trace.Conf
	Permission PermissionConfig
}

var (
	mu      sync.RWMutex
	current *AppConfig
)

// Current returns the last loaded configuration, or nil before LoadConfigFile.
func Current() *AppConfig {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// LoadConfigFile reads the TOML file at path. Environment variables such as
// GROUPFILES_HTTP_PORT override file values. The file is watched: on change
// it is parsed again and the log level is applied; other sections take
// effect on restart.
func LoadConfigFile(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	setCurrent(cfg)

	v.OnConfigChange(func(e fsnotify.Event) {
		log.Infow("configuration changed, reloading", "file", e.Name)
		reloaded, err := decode(v)
		if err != nil {
			log.Errorw("failed to reload configuration", "file", e.Name, "error", err)
			return
		}
		log.SetLevel(reloaded.Log.Level)
		setCurrent(reloaded)
	})
	v.WatchConfig()

	log.Infow("config file loaded", "path", path)
	return cfg, nil
}

func decode(v *viper.Viper) (*AppConfig, error) {
	cfg := new(AppConfig)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration file: %w", err)
	}
	return cfg, nil
}

func setCurrent(cfg *AppConfig) {
	mu.Lock()
	current = cfg
	mu.Unlock()
}
