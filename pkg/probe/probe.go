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

// Package probe classifies pods as busy or idle using one of several
// mechanisms configured on a HotStandbyJob.
package probe

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"

	"github.com/paia-tech/hotstandby-controller/pkg/apis/apps/v1alpha1"
	"github.com/paia-tech/hotstandby-controller/pkg/gateway"
)

// BusyDecision is the outcome of classifying a single pod. Probe
// errors never produce Unknown from the caller's point of view: every
// Prober implementation collapses a failed probe to NotBusy before
// returning, so a transient failure can never falsely inflate the
// busy count or block scale-down below minReplicas.
type BusyDecision int

const (
	NotBusy BusyDecision = iota
	Busy
)

// Prober classifies a single pod as busy or not. Implementations never
// return a non-nil error for a probe-level failure (network error,
// timeout, non-2xx response, non-zero exit code); those collapse to
// NotBusy. A non-nil error means the prober itself is misconfigured.
type Prober interface {
	Classify(ctx context.Context, pod *corev1.Pod) (BusyDecision, error)
}

// Gateway is the cluster surface the probe engine needs: ListPods to
// drive Count, and ExecInPod/GetPod for exec-mode probing. A
// *gateway.Gateway satisfies it directly.
type Gateway interface {
	ListPods(ctx context.Context, namespace string, selector map[string]string) ([]corev1.Pod, error)
	ExecInPod(ctx context.Context, namespace, pod, container string, command []string) (gateway.ExecResult, error)
	GetPod(ctx context.Context, namespace, name string) (*corev1.Pod, error)
}

// New builds the Prober for the given spec's busyProbe mode. Store
// mode has no single-pod Prober; its counting happens in Count, which
// consults a pre-fetched snapshot instead of probing one pod at a time.
func New(spec v1alpha1.BusyProbeSpec, gw Gateway) (Prober, error) {
	switch spec.Mode {
	case v1alpha1.ProbeModeAnnotation, "":
		return &AnnotationProber{Key: spec.AnnotationKey}, nil
	case v1alpha1.ProbeModeHTTP:
		return NewHTTPProber(spec.HTTP), nil
	case v1alpha1.ProbeModeExec:
		return NewExecProber(spec.Exec, gw), nil
	case v1alpha1.ProbeModeRedis:
		// Store mode is handled entirely inside Count; callers that need
		// a per-pod Prober for it have misused the API.
		return nil, fmt.Errorf("probe mode %q has no per-pod prober, use Count", spec.Mode)
	default:
		return nil, fmt.Errorf("unknown probe mode %q", spec.Mode)
	}
}

// podRunning reports whether pod is in the Running phase and is not
// being deleted.
func podRunning(pod *corev1.Pod) bool {
	return pod.Status.Phase == corev1.PodRunning && pod.DeletionTimestamp == nil
}
