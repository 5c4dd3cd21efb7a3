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
	"encoding/json"
	"fmt"
	"time"
)

// Manipulator is the single-pod half of the store: it registers,
// updates and unregisters exactly one pod's own record. Every method
// is best-effort; callers log and continue on error rather than fail
// the workload over a transient store outage.
type Manipulator struct {
	client  hashCommands
	podName string
	key     string
	now     func() time.Time
}

// NewManipulator builds a Manipulator for podName, writing into the
// hash named by cfg.KeyPrefix (or DefaultKeyPrefix).
func NewManipulator(client hashCommands, podName string, cfg Config) *Manipulator {
	return &Manipulator{
		client:  client,
		podName: podName,
		key:     cfg.keyPrefix(),
		now:     time.Now,
	}
}

func (m *Manipulator) write(ctx context.Context, status Status) error {
	rec := Record{Status: status, UpdatedAt: m.now().Unix()}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record for %s: %w", m.podName, err)
	}
	if err := m.client.HSet(ctx, m.key, m.podName, string(data)).Err(); err != nil {
		return fmt.Errorf("write status for %s: %w", m.podName, err)
	}
	return nil
}

// Register writes the pod's initial record, defaulting to
// StatusStarting.
func (m *Manipulator) Register(ctx context.Context, initial Status) error {
	if initial == "" {
		initial = StatusStarting
	}
	return m.write(ctx, initial)
}

// Unregister removes the pod's record entirely, leaving it absent
// rather than in any terminal status.
func (m *Manipulator) Unregister(ctx context.Context) error {
	if err := m.client.HDel(ctx, m.key, m.podName).Err(); err != nil {
		return fmt.Errorf("unregister %s: %w", m.podName, err)
	}
	return nil
}

// SetStatus overwrites the pod's status and refreshes its timestamp.
func (m *Manipulator) SetStatus(ctx context.Context, status Status) error {
	return m.write(ctx, status)
}

// Heartbeat refreshes the pod's timestamp without changing its
// status. A pod with no existing record is registered as idle rather
// than left absent, matching a worker that came up after its own
// startup probe already lapsed.
func (m *Manipulator) Heartbeat(ctx context.Context) error {
	raw, err := m.client.HGet(ctx, m.key, m.podName).Result()
	if err != nil {
		if err == errRedisNil {
			return m.Register(ctx, StatusIdle)
		}
		return fmt.Errorf("read status for %s: %w", m.podName, err)
	}
	var rec Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return fmt.Errorf("unmarshal record for %s: %w", m.podName, err)
	}
	return m.write(ctx, rec.Status)
}

// Enter registers the pod and returns a function that unregisters it;
// callers defer the returned function so the record is released on
// every exit path, including a panic unwinding through the deferred
// call.
func (m *Manipulator) Enter(ctx context.Context, initial Status) (func(), error) {
	if err := m.Register(ctx, initial); err != nil {
		return func() {}, err
	}
	return func() {
		_ = m.Unregister(context.Background())
	}, nil
}
