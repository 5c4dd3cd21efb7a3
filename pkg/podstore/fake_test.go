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
	"fmt"

	"github.com/redis/go-redis/v9"
)

// fakeHash is an in-memory hashCommands backing a single hash key,
// enough to exercise Manipulator and Monitor without a live server.
type fakeHash struct {
	key    string
	fields map[string]string
	failOn map[string]bool
}

func newFakeHash(key string) *fakeHash {
	return &fakeHash{key: key, fields: map[string]string{}, failOn: map[string]bool{}}
}

func (f *fakeHash) HSet(_ context.Context, key string, values ...interface{}) *redis.IntCmd {
	cmd := redis.NewIntCmd(context.Background())
	if f.failOn["HSet"] {
		cmd.SetErr(fmt.Errorf("fake HSet failure"))
		return cmd
	}
	if key != f.key || len(values) != 2 {
		cmd.SetErr(fmt.Errorf("unexpected HSet args"))
		return cmd
	}
	field := values[0].(string)
	val := values[1].(string)
	f.fields[field] = val
	cmd.SetVal(1)
	return cmd
}

func (f *fakeHash) HGet(_ context.Context, key, field string) *redis.StringCmd {
	cmd := redis.NewStringCmd(context.Background())
	if f.failOn["HGet"] {
		cmd.SetErr(fmt.Errorf("fake HGet failure"))
		return cmd
	}
	v, ok := f.fields[field]
	if key != f.key || !ok {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(v)
	return cmd
}

func (f *fakeHash) HGetAll(_ context.Context, key string) *redis.MapStringStringCmd {
	cmd := redis.NewMapStringStringCmd(context.Background())
	if f.failOn["HGetAll"] {
		cmd.SetErr(fmt.Errorf("fake HGetAll failure"))
		return cmd
	}
	if key != f.key {
		cmd.SetVal(map[string]string{})
		return cmd
	}
	out := make(map[string]string, len(f.fields))
	for k, v := range f.fields {
		out[k] = v
	}
	cmd.SetVal(out)
	return cmd
}

func (f *fakeHash) HDel(_ context.Context, key string, fields ...string) *redis.IntCmd {
	cmd := redis.NewIntCmd(context.Background())
	if f.failOn["HDel"] {
		cmd.SetErr(fmt.Errorf("fake HDel failure"))
		return cmd
	}
	var n int64
	for _, field := range fields {
		if key != f.key {
			continue
		}
		if _, ok := f.fields[field]; ok {
			delete(f.fields, field)
			n++
		}
	}
	cmd.SetVal(n)
	return cmd
}
