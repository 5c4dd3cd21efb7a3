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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/paia-tech/hotstandby-controller/pkg/apis/apps/v1alpha1"
	"github.com/paia-tech/hotstandby-controller/pkg/gateway"
	"github.com/paia-tech/hotstandby-controller/pkg/podstore"
)

type fakeCountGateway struct {
	pods    []corev1.Pod
	listErr error
}

func (f *fakeCountGateway) ListPods(_ context.Context, _ string, _ map[string]string) ([]corev1.Pod, error) {
	return f.pods, f.listErr
}

func (f *fakeCountGateway) ExecInPod(_ context.Context, _, _, _ string, _ []string) (gateway.ExecResult, error) {
	return gateway.ExecResult{}, nil
}

func (f *fakeCountGateway) GetPod(_ context.Context, _, name string) (*corev1.Pod, error) {
	return &corev1.Pod{ObjectMeta: metav1.ObjectMeta{Name: name}}, nil
}

func annotatedPod(name, value string) corev1.Pod {
	return corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Name: name, Annotations: map[string]string{"busy": value}},
		Status:     corev1.PodStatus{Phase: corev1.PodRunning},
	}
}

func TestCountAnnotationMode(t *testing.T) {
	gw := &fakeCountGateway{pods: []corev1.Pod{
		annotatedPod("a", "true"),
		annotatedPod("b", "true"),
		annotatedPod("c", "false"),
	}}
	spec := v1alpha1.BusyProbeSpec{Mode: v1alpha1.ProbeModeAnnotation, AnnotationKey: "busy"}

	busy, idle, total, err := Count(context.Background(), gw, "default", nil, spec, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 2, busy)
	assert.EqualValues(t, 1, idle)
	assert.EqualValues(t, 3, total)
}

func TestCountExcludesNonRunningAndDeletingPods(t *testing.T) {
	deleting := annotatedPod("d", "true")
	now := metav1.Now()
	deleting.DeletionTimestamp = &now

	pending := annotatedPod("e", "true")
	pending.Status.Phase = corev1.PodPending

	gw := &fakeCountGateway{pods: []corev1.Pod{
		annotatedPod("a", "true"),
		deleting,
		pending,
	}}
	spec := v1alpha1.BusyProbeSpec{Mode: v1alpha1.ProbeModeAnnotation, AnnotationKey: "busy"}

	busy, idle, total, err := Count(context.Background(), gw, "default", nil, spec, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, busy)
	assert.EqualValues(t, 0, idle)
	assert.EqualValues(t, 1, total)
}

func TestCountListPodsError(t *testing.T) {
	gw := &fakeCountGateway{listErr: fmt.Errorf("api down")}
	spec := v1alpha1.BusyProbeSpec{Mode: v1alpha1.ProbeModeAnnotation}
	_, _, _, err := Count(context.Background(), gw, "default", nil, spec, nil)
	assert.Error(t, err)
}

type fakeStoreMonitor struct {
	records map[string]podstore.Record
	err     error
}

func (f *fakeStoreMonitor) GetAll(_ context.Context) (map[string]podstore.Record, error) {
	return f.records, f.err
}

func TestCountStoreMode(t *testing.T) {
	gw := &fakeCountGateway{pods: []corev1.Pod{
		{ObjectMeta: metav1.ObjectMeta{Name: "a"}, Status: corev1.PodStatus{Phase: corev1.PodRunning}},
		{ObjectMeta: metav1.ObjectMeta{Name: "b"}, Status: corev1.PodStatus{Phase: corev1.PodRunning}},
		{ObjectMeta: metav1.ObjectMeta{Name: "c"}, Status: corev1.PodStatus{Phase: corev1.PodRunning}},
		{ObjectMeta: metav1.ObjectMeta{Name: "d"}, Status: corev1.PodStatus{Phase: corev1.PodRunning}},
	}}
	monitor := &fakeStoreMonitor{records: map[string]podstore.Record{
		"a": {Status: podstore.StatusBusy},
		"b": {Status: podstore.StatusIdle},
		"c": {Status: podstore.StatusStarting},
		// "d" absent entirely.
	}}
	spec := v1alpha1.BusyProbeSpec{Mode: v1alpha1.ProbeModeRedis}

	busy, idle, total, err := Count(context.Background(), gw, "default", nil, spec, monitor)
	require.NoError(t, err)
	assert.EqualValues(t, 1, busy)
	assert.EqualValues(t, 1, idle)
	assert.EqualValues(t, 4, total)
}

func TestCountStoreModeReadFailureIsPessimistic(t *testing.T) {
	gw := &fakeCountGateway{pods: []corev1.Pod{
		{ObjectMeta: metav1.ObjectMeta{Name: "a"}, Status: corev1.PodStatus{Phase: corev1.PodRunning}},
		{ObjectMeta: metav1.ObjectMeta{Name: "b"}, Status: corev1.PodStatus{Phase: corev1.PodRunning}},
	}}
	monitor := &fakeStoreMonitor{err: fmt.Errorf("connection refused")}
	spec := v1alpha1.BusyProbeSpec{Mode: v1alpha1.ProbeModeRedis}

	busy, idle, total, err := Count(context.Background(), gw, "default", nil, spec, monitor)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.EqualValues(t, 2, busy)
	assert.EqualValues(t, 0, idle)
	assert.EqualValues(t, 2, total)
}
