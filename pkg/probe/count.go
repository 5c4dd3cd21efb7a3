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
	"sync"

	corev1 "k8s.io/api/core/v1"

	"github.com/paia-tech/hotstandby-controller/pkg/apis/apps/v1alpha1"
)

// maxConcurrentProbes bounds the fan-out of per-pod HTTP/exec probes
// issued within a single tick, so a large pool can't open hundreds of
// simultaneous connections to worker pods.
const maxConcurrentProbes = 16

// Count lists the pods selected by spec's selector, keeps the running
// non-deleting ones, classifies each as busy or idle, and returns
// (busy, idle, runningTotal). For store mode it reads the whole
// pod-state hash once via monitor instead of probing pods one at a
// time; a read failure there returns ErrStoreUnavailable alongside a
// pessimistic result that counts every running pod busy.
func Count(ctx context.Context, gw Gateway, namespace string, selector map[string]string, spec v1alpha1.BusyProbeSpec, monitor storeMonitor) (busy, idle, runningTotal int32, err error) {
	pods, err := gw.ListPods(ctx, namespace, selector)
	if err != nil {
		return 0, 0, 0, err
	}

	running := make([]corev1.Pod, 0, len(pods))
	for _, p := range pods {
		if podRunning(&p) {
			running = append(running, p)
		}
	}
	runningTotal = int32(len(running))

	if spec.Mode == v1alpha1.ProbeModeRedis {
		return countFromStore(ctx, running, monitor)
	}

	prober, proberErr := New(spec, gw)
	if proberErr != nil {
		return 0, 0, runningTotal, proberErr
	}
	b, i := countConcurrent(ctx, running, prober)
	return b, i, runningTotal, nil
}

func countFromStore(ctx context.Context, running []corev1.Pod, monitor storeMonitor) (busy, idle, runningTotal int32, err error) {
	runningTotal = int32(len(running))
	if monitor == nil {
		return runningTotal, 0, runningTotal, ErrStoreUnavailable
	}
	records, storeErr := monitor.GetAll(ctx)
	if storeErr != nil {
		// Pessimistic: every running pod counts as busy so the pool
		// never scales down while blind to real occupancy.
		return runningTotal, 0, runningTotal, ErrStoreUnavailable
	}
	for _, p := range running {
		b, i := classifyFromStore(records, p.Name)
		if b {
			busy++
		} else if i {
			idle++
		}
	}
	return busy, idle, runningTotal, nil
}

func countConcurrent(ctx context.Context, pods []corev1.Pod, prober Prober) (busy, idle int32) {
	sem := make(chan struct{}, maxConcurrentProbes)
	var wg sync.WaitGroup
	var mu sync.Mutex

	for i := range pods {
		pod := &pods[i]
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			decision, _ := prober.Classify(ctx, pod)

			mu.Lock()
			defer mu.Unlock()
			if decision == Busy {
				busy++
			} else {
				idle++
			}
		}()
	}
	wg.Wait()
	return busy, idle
}
