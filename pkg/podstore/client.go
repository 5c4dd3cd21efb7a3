// Copyright 2021 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package podstore

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Config names the Redis endpoint backing the store.
type Config struct {
	Addr     string
	Password string
	DB       int
	// KeyPrefix is the hash key all records live under. Defaults to
	// DefaultKeyPrefix when empty.
	KeyPrefix string
}

func (c Config) keyPrefix() string {
	if c.KeyPrefix == "" {
		return DefaultKeyPrefix
	}
	return c.KeyPrefix
}

// hashCommands is the narrow slice of the redis.Cmdable surface both
// Manipulator and Monitor need, so tests can substitute a fake client
// without standing up a real server.
type hashCommands interface {
	HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	HGet(ctx context.Context, key, field string) *redis.StringCmd
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
	HDel(ctx context.Context, key string, fields ...string) *redis.IntCmd
}

// errRedisNil is redis.Nil, the sentinel go-redis returns for a
// missing key or field.
var errRedisNil = redis.Nil

// NewClient dials Redis per cfg. The returned client satisfies
// hashCommands and is safe for concurrent use by every Manipulator and
// the single process-wide Monitor.
func NewClient(cfg Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}
