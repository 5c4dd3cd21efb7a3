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

package controller

import (
	"strings"
	"testing"
)

func TestChildJobName(t *testing.T) {
	name := childJobName("my-hsj")
	if !strings.HasPrefix(name, "my-hsj-w-") {
		t.Fatalf("expected prefix %q, got %q", "my-hsj-w-", name)
	}
	suffix := strings.TrimPrefix(name, "my-hsj-w-")
	if len(suffix) != 5 {
		t.Fatalf("expected a 5-character suffix, got %q (len %d)", suffix, len(suffix))
	}
}

func TestChildJobNameUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		name := childJobName("hsj")
		if seen[name] {
			t.Fatalf("generated duplicate name %q across %d calls", name, i+1)
		}
		seen[name] = true
	}
}
