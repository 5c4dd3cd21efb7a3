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

// Package podstore holds the optional Redis-backed record of each
// pod's self-reported status, read in bulk by the probe engine's
// store mode and written one pod at a time by the pods themselves.
package podstore

// Status is a pod's self-reported lifecycle state.
type Status string

const (
	StatusStarting Status = "starting"
	StatusIdle     Status = "idle"
	StatusBusy     Status = "busy"
	StatusError    Status = "error"
)

// DefaultKeyPrefix is the hash key used when none is configured.
const DefaultKeyPrefix = "pod-status"

// Record is the value stored per pod, keyed by pod name within the
// shared hash.
type Record struct {
	Status    Status `json:"status"`
	UpdatedAt int64  `json:"updated_at"`
}
