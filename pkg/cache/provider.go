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
	"fmt"

	"github.com/go-arcade/groupfiles/pkg/log"
	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(ProvideICache)

// ProvideICache builds the configured backend. Mode "none" yields a nil
// ICache, which CachedQuery treats as disabled.
func ProvideICache(conf Cache, redisConf Redis) (ICache, func(), error) {
	conf.SetDefaults()

	switch conf.Mode {
	case ModeRedis:
		client, err := NewRedis(context.Background(), redisConf)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			if err := client.Close(); err != nil {
				log.Warnw("failed to close redis", "error", err)
			}
		}
		return NewRedisCache(client, conf.KeyPrefix), cleanup, nil
	case ModeLocal:
		log.Infow("using local cache", "maxBytes", conf.LocalMaxBytes)
		return NewFastCache(conf.LocalMaxBytes), func() {}, nil
	case ModeNone:
		return nil, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported cache mode %q", conf.Mode)
	}
}
