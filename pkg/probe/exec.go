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
	"time"

	corev1 "k8s.io/api/core/v1"

	"github.com/paia-tech/hotstandby-controller/pkg/apis/apps/v1alpha1"
	"github.com/paia-tech/hotstandby-controller/pkg/gateway"
)

// execGateway is the narrow seam ExecProber needs from Gateway, so
// tests can substitute a fake without standing up a fake exec channel
// end to end.
type execGateway interface {
	ExecInPod(ctx context.Context, namespace, pod, container string, command []string) (gateway.ExecResult, error)
	GetPod(ctx context.Context, namespace, name string) (*corev1.Pod, error)
}

// ExecProber classifies busyness from the exit code of a command run
// inside the pod.
type ExecProber struct {
	spec *v1alpha1.ExecProbeSpec
	gw   execGateway
}

func NewExecProber(spec *v1alpha1.ExecProbeSpec, gw execGateway) *ExecProber {
	return &ExecProber{spec: spec, gw: gw}
}

func (p *ExecProber) Classify(ctx context.Context, pod *corev1.Pod) (BusyDecision, error) {
	if !podRunning(pod) {
		return NotBusy, nil
	}

	timeout := time.Duration(p.spec.TimeoutSeconds) * time.Second
	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result, err := p.gw.ExecInPod(execCtx, pod.Namespace, pod.Name, p.spec.Container, p.spec.Command)
	if err != nil {
		// The probe command may be gone because the workload already
		// finished between the listing that fed this call and the exec
		// itself; re-read the pod and treat a since-Succeeded phase as a
		// successful probe rather than a failed one.
		if live, getErr := p.gw.GetPod(ctx, pod.Namespace, pod.Name); getErr == nil && live.Status.Phase == corev1.PodSucceeded {
			return probeResult(true, successIsBusy(p.spec.SuccessIsBusy)), nil
		}
		return NotBusy, nil
	}

	return probeResult(result.ExitCode == 0, successIsBusy(p.spec.SuccessIsBusy)), nil
}
