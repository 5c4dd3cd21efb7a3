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
	"fmt"
	"net/http"
	"time"

	corev1 "k8s.io/api/core/v1"

	"github.com/paia-tech/hotstandby-controller/pkg/apis/apps/v1alpha1"
)

// HTTPProber classifies busyness from a GET against the pod's own IP.
type HTTPProber struct {
	spec   *v1alpha1.HTTPProbeSpec
	client *http.Client
}

// NewHTTPProber builds an HTTPProber. spec is assumed already defaulted
// (see v1alpha1.HotStandbyJobSpec.WithDefaults).
func NewHTTPProber(spec *v1alpha1.HTTPProbeSpec) *HTTPProber {
	return &HTTPProber{
		spec:   spec,
		client: &http.Client{},
	}
}

func (p *HTTPProber) Classify(ctx context.Context, pod *corev1.Pod) (BusyDecision, error) {
	if !podRunning(pod) || pod.Status.PodIP == "" {
		return NotBusy, nil
	}

	timeout := time.Duration(p.spec.TimeoutSeconds) * time.Second
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	url := fmt.Sprintf("http://%s:%d%s", pod.Status.PodIP, p.spec.Port, p.spec.Path)
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return NotBusy, nil
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return NotBusy, nil
	}
	defer resp.Body.Close()

	succeeded := resp.StatusCode >= 200 && resp.StatusCode < 300
	return probeResult(succeeded, successIsBusy(p.spec.SuccessIsBusy)), nil
}

// successIsBusy reads the pointer form of SuccessIsBusy, defaulting to
// true for a nil value the way WithDefaults would have filled it in.
func successIsBusy(v *bool) bool {
	if v == nil {
		return true
	}
	return *v
}

// probeResult maps a probe's succeeded/failed outcome to busy/idle
// given the configured polarity: success means busy unless
// successIsBusy is false, in which case it means idle. A failed probe
// is always not-busy.
func probeResult(succeeded, successIsBusy bool) BusyDecision {
	if !succeeded {
		return NotBusy
	}
	if successIsBusy {
		return Busy
	}
	return NotBusy
}
