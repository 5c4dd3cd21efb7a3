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

package probe

import (
	"context"
	"errors"

	"github.com/paia-tech/hotstandby-controller/pkg/podstore"
)

// ErrStoreUnavailable is returned by Count when store mode is
// configured and the bulk read against the pod-state store fails.
// Callers treat every running pod as busy for that tick rather than
// risk scaling down while blind to real load.
var ErrStoreUnavailable = errors.New("pod-state store unavailable")

// storeMonitor is the narrow read surface Count needs from
// *podstore.Monitor.
type storeMonitor interface {
	GetAll(ctx context.Context) (map[string]podstore.Record, error)
}

// classifyFromStore maps a single pod's store record, if any, to a
// three-way outcome: busy, idle, or neither (starting/absent/error).
// The "neither" bucket is reported separately from idle so a pod
// reported via annotation/http/exec that never answers the store
// is not silently counted as spare capacity.
func classifyFromStore(records map[string]podstore.Record, podName string) (busy, idle bool) {
	rec, ok := records[podName]
	if !ok {
		return false, false
	}
	switch rec.Status {
	case podstore.StatusBusy:
		return true, false
	case podstore.StatusIdle:
		return false, true
	default: // starting, error
		return false, false
	}
}
