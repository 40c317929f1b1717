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

package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	ModeRedis = "redis"
	ModeLocal = "local"
	ModeNone  = "none"
)

// ICache is the subset of redis commands the service caches through. Both
// the redis client and the local fastcache implement it.
type ICache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Cache selects and tunes the cache backend.
type Cache struct {
	Mode          string        `mapstructure:"mode"`
	TTL           time.Duration `mapstructure:"ttl"`
	LocalMaxBytes int           `mapstructure:"localMaxBytes"`
	KeyPrefix     string        `mapstructure:"keyPrefix"`
}

// SetDefaults fills unset fields.
func (c *Cache) SetDefaults() {
	if c.Mode == "" {
		c.Mode = ModeLocal
	}
	if c.TTL <= 0 {
		c.TTL = 5 * time.Minute
	}
	if c.LocalMaxBytes <= 0 {
		c.LocalMaxBytes = defaultLocalMaxBytes
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = "groupfiles"
	}
}
