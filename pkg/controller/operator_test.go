// Copyright 2022 Google LLC
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

package controller

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestOptionsDefaultAndValidate(t *testing.T) {
	for _, tc := range []struct {
		desc string
		in   Options
		want time.Duration
	}{
		{desc: "zero interval falls back to default", in: Options{}, want: DefaultSyncInterval},
		{desc: "negative interval falls back to default", in: Options{SyncInterval: -time.Second}, want: DefaultSyncInterval},
		{desc: "explicit interval kept", in: Options{SyncInterval: 90 * time.Second}, want: 90 * time.Second},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			opts := tc.in
			opts.defaultAndValidate()
			require.Equal(t, tc.want, opts.SyncInterval)
		})
	}
}
