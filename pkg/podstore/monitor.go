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

// Monitor is the global-view half of the store: every call reads or
// prunes the whole hash in one round-trip. The controller holds a
// single process-wide Monitor shared by every HSJ worker.
type Monitor struct {
	client hashCommands
	key    string
	now    func() time.Time
}

// NewMonitor builds a Monitor over the hash named by cfg.KeyPrefix (or
// DefaultKeyPrefix).
func NewMonitor(client hashCommands, cfg Config) *Monitor {
	return &Monitor{client: client, key: cfg.keyPrefix(), now: time.Now}
}

// GetAll fetches every pod's record in a single HGETALL. A field whose
// value fails to unmarshal is dropped rather than failing the whole
// call, so one pod writing a malformed record does not blind the
// reconciler to every other pod.
func (m *Monitor) GetAll(ctx context.Context) (map[string]Record, error) {
	raw, err := m.client.HGetAll(ctx, m.key).Result()
	if err != nil {
		return nil, fmt.Errorf("read all pod records: %w", err)
	}
	records := make(map[string]Record, len(raw))
	for podName, data := range raw {
		var rec Record
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			continue
		}
		records[podName] = rec
	}
	return records, nil
}

// Summary tallies how many records are in each status.
func (m *Monitor) Summary(ctx context.Context) (map[Status]int, error) {
	all, err := m.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	summary := map[Status]int{
		StatusStarting: 0,
		StatusIdle:     0,
		StatusBusy:     0,
		StatusError:    0,
	}
	for _, rec := range all {
		summary[rec.Status]++
	}
	return summary, nil
}

// ListByStatus returns the names of every pod currently in status.
func (m *Monitor) ListByStatus(ctx context.Context, status Status) ([]string, error) {
	all, err := m.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	var names []string
	for podName, rec := range all {
		if rec.Status == status {
			names = append(names, podName)
		}
	}
	return names, nil
}

// CleanupStale removes every record whose UpdatedAt is older than
// maxAge and returns how many were removed.
func (m *Monitor) CleanupStale(ctx context.Context, maxAge time.Duration) (int, error) {
	all, err := m.GetAll(ctx)
	if err != nil {
		return 0, err
	}
	cutoff := m.now().Add(-maxAge).Unix()
	var stale []string
	for podName, rec := range all {
		if rec.UpdatedAt < cutoff {
			stale = append(stale, podName)
		}
	}
	if len(stale) == 0 {
		return 0, nil
	}
	removed, err := m.client.HDel(ctx, m.key, stale...).Result()
	if err != nil {
		return 0, fmt.Errorf("cleanup stale records: %w", err)
	}
	return int(removed), nil
}

// Remove deletes a single pod's record, for administrative use outside
// the normal register/unregister lifecycle.
func (m *Monitor) Remove(ctx context.Context, podName string) error {
	if err := m.client.HDel(ctx, m.key, podName).Err(); err != nil {
		return fmt.Errorf("remove %s: %w", podName, err)
	}
	return nil
}

// ClearAll deletes every record under the monitor's key.
func (m *Monitor) ClearAll(ctx context.Context) error {
	all, err := m.GetAll(ctx)
	if err != nil {
		return err
	}
	if len(all) == 0 {
		return nil
	}
	names := make([]string, 0, len(all))
	for podName := range all {
		names = append(names, podName)
	}
	if err := m.client.HDel(ctx, m.key, names...).Err(); err != nil {
		return fmt.Errorf("clear all records: %w", err)
	}
	return nil
}
