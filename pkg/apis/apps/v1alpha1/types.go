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

package v1alpha1

import (
	batchv1 "k8s.io/api/batch/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// ProbeMode selects the mechanism the controller uses to decide whether a
// pod is currently busy.
type ProbeMode string

const (
	// ProbeModeAnnotation classifies busyness from a pod annotation.
	ProbeModeAnnotation ProbeMode = "annotation"
	// ProbeModeHTTP classifies busyness from an HTTP GET against the pod.
	ProbeModeHTTP ProbeMode = "http"
	// ProbeModeExec classifies busyness from the exit code of a command run
	// inside the pod.
	ProbeModeExec ProbeMode = "exec"
	// ProbeModeRedis classifies busyness from a shared external key-value
	// store. The name is kept for backward compatibility with specs written
	// against the original store-backed deployments.
	ProbeModeRedis ProbeMode = "redis"
)

// +genclient
// +k8s:deepcopy-gen:interfaces=k8s.io/apimachinery/pkg/runtime.Object
// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:resource:scope=Namespaced,shortName=hsj,categories=paia
// +kubebuilder:printcolumn:name="Busy",type="integer",JSONPath=".status.busyCount"
// +kubebuilder:printcolumn:name="Idle",type="integer",JSONPath=".status.idleCount"
// +kubebuilder:printcolumn:name="Desired",type="integer",JSONPath=".status.desiredActive"
// +kubebuilder:printcolumn:name="Age",type="date",JSONPath=".metadata.creationTimestamp"

// HotStandbyJob keeps a warm pool of running worker pods behind a selector,
// sized so that idleTarget additional idle pods are always available beyond
// those currently busy.
type HotStandbyJob struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   HotStandbyJobSpec   `json:"spec,omitempty"`
	Status HotStandbyJobStatus `json:"status,omitempty"`
}

// +k8s:deepcopy-gen:interfaces=k8s.io/apimachinery/pkg/runtime.Object

// HotStandbyJobList is a list of HotStandbyJobs.
type HotStandbyJobList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`

	Items []HotStandbyJob `json:"items"`
}

// HotStandbyJobSpec is the desired state of a HotStandbyJob.
type HotStandbyJobSpec struct {
	// Selector identifies the pods under management. An empty selector
	// matches no pods; the controller still creates up to idleTarget (capped
	// by maxReplicas) warm Jobs in that case.
	// +optional
	Selector PodSelector `json:"selector,omitempty"`

	// JobTemplate is the spec of each child Job. The controller enforces
	// restartPolicy=Never and completions=parallelism=1; it does not
	// otherwise interpret the contents.
	// +kubebuilder:pruning:PreserveUnknownFields
	JobTemplate batchv1.JobSpec `json:"jobTemplate"`

	// IdleTarget is the number of idle pods to keep ready beyond those
	// currently busy.
	// +kubebuilder:validation:Minimum=0
	// +kubebuilder:default=0
	IdleTarget int32 `json:"idleTarget"`

	// MinReplicas lower-bounds the number of active child Jobs.
	// +kubebuilder:validation:Minimum=0
	// +optional
	MinReplicas *int32 `json:"minReplicas,omitempty"`

	// MaxReplicas upper-bounds the number of active child Jobs. If set below
	// MinReplicas, MaxReplicas wins.
	// +kubebuilder:validation:Minimum=0
	// +optional
	MaxReplicas *int32 `json:"maxReplicas,omitempty"`

	// ScaleDownDelaySeconds is the minimum age a child Job must reach before
	// it is eligible for scale-down.
	// +kubebuilder:default=30
	// +optional
	ScaleDownDelaySeconds *int32 `json:"scaleDownDelaySeconds,omitempty"`

	// BusyProbe configures how pod busyness is measured.
	// +optional
	BusyProbe BusyProbeSpec `json:"busyProbe,omitempty"`
}

// PodSelector mirrors metav1.LabelSelector's matchLabels field. Only equality
// match is supported, matching the label-selector string the cluster gateway
// builds against the pod list API.
type PodSelector struct {
	MatchLabels map[string]string `json:"matchLabels,omitempty"`
}

// BusyProbeSpec configures the probe engine for one HotStandbyJob.
type BusyProbeSpec struct {
	// Mode selects the probe mechanism. Defaults to "annotation".
	// +kubebuilder:validation:Enum=annotation;http;exec;redis
	// +optional
	Mode ProbeMode `json:"mode,omitempty"`

	// AnnotationKey is the pod annotation read in annotation mode.
	// +optional
	AnnotationKey string `json:"annotationKey,omitempty"`

	// HTTP configures http mode.
	// +optional
	HTTP *HTTPProbeSpec `json:"http,omitempty"`

	// Exec configures exec mode.
	// +optional
	Exec *ExecProbeSpec `json:"exec,omitempty"`
}

// HTTPProbeSpec configures an HTTP busy probe.
type HTTPProbeSpec struct {
	// +kubebuilder:default=8080
	Port int32 `json:"port,omitempty"`
	// +kubebuilder:default="/busy"
	Path string `json:"path,omitempty"`
	// +kubebuilder:default=1
	TimeoutSeconds int32 `json:"timeoutSeconds,omitempty"`
	// +kubebuilder:default=10
	PeriodSeconds int32 `json:"periodSeconds,omitempty"`
	// SuccessIsBusy inverts the interpretation of a successful probe when
	// false: a 2xx response then means idle rather than busy. Left nil, it
	// defaults to true whether or not the rest of this block was set.
	// +kubebuilder:default=true
	// +optional
	SuccessIsBusy *bool `json:"successIsBusy,omitempty"`
}

// ExecProbeSpec configures an exec busy probe.
type ExecProbeSpec struct {
	// +kubebuilder:default={"cat","/tmp/healthy"}
	Command []string `json:"command,omitempty"`
	// Container selects which pod container to exec into. Empty selects the
	// pod's default container.
	// +optional
	Container string `json:"container,omitempty"`
	// +kubebuilder:default=1
	TimeoutSeconds int32 `json:"timeoutSeconds,omitempty"`
	// SuccessIsBusy works the same as HTTPProbeSpec's field of the same
	// name: nil defaults to true regardless of what else in this block
	// was set.
	// +kubebuilder:default=true
	// +optional
	SuccessIsBusy *bool `json:"successIsBusy,omitempty"`
}

// HotStandbyJobStatus is the controller-owned observed state, written after
// each reconcile tick.
type HotStandbyJobStatus struct {
	// BusyCount is the number of selected, Running, non-deleting pods
	// classified as busy in the last successful tick.
	BusyCount int32 `json:"busyCount"`
	// IdleCount is the number of those pods classified idle. In
	// annotation, http and exec mode that is ActiveCount-BusyCount; in
	// redis (store) mode only pods whose record says idle are counted,
	// and starting, error or absent records count as neither.
	IdleCount int32 `json:"idleCount"`
	// ActiveCount is the number of selected, Running, non-deleting pods.
	ActiveCount int32 `json:"activeCount"`
	// DesiredActive is the computed target number of active child Jobs.
	DesiredActive int32 `json:"desiredActive"`
	// ChildJobs is the total number of child Jobs owned by this HotStandbyJob.
	ChildJobs int32 `json:"childJobs"`
	// ActiveJobs is the number of child Jobs with status.active > 0.
	ActiveJobs int32 `json:"activeJobs"`
	// CompletedJobs is the number of child Jobs that succeeded.
	CompletedJobs int32 `json:"completedJobs"`
	// FailedJobs is the number of child Jobs that failed.
	FailedJobs int32 `json:"failedJobs"`
	// LastSyncTime is set only on a successful tick, so a stuck controller
	// shows up as a stale timestamp rather than a silently wrong status.
	// +optional
	LastSyncTime *metav1.Time `json:"lastSyncTime,omitempty"`
	// ObservedGeneration is the spec generation last acted on.
	ObservedGeneration int64 `json:"observedGeneration"`
}
