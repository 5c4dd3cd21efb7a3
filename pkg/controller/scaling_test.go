// Copyright 2024 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package controller

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	batchv1 "k8s.io/api/batch/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	"github.com/paia-tech/hotstandby-controller/pkg/apis/apps/v1alpha1"
	"github.com/paia-tech/hotstandby-controller/pkg/gateway"
)

func int32p(v int32) *int32 { return &v }

func TestDesiredActive(t *testing.T) {
	for _, tc := range []struct {
		desc                string
		busy, idleTarget    int32
		min, max            *int32
		want                int32
	}{
		{desc: "no bounds", busy: 3, idleTarget: 2, want: 5},
		{desc: "below min", busy: 0, idleTarget: 0, min: int32p(2), want: 2},
		{desc: "above max", busy: 10, idleTarget: 5, max: int32p(8), want: 8},
		{desc: "never negative", busy: 0, idleTarget: 0, want: 0},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			got := desiredActive(tc.busy, tc.idleTarget, tc.min, tc.max)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestClassifyJob(t *testing.T) {
	for _, tc := range []struct {
		desc string
		job  batchv1.Job
		want jobPhase
	}{
		{desc: "active", job: batchv1.Job{Status: batchv1.JobStatus{Active: 1}}, want: jobActive},
		{desc: "completed", job: batchv1.Job{Status: batchv1.JobStatus{Succeeded: 1}}, want: jobCompleted},
		{desc: "failed", job: batchv1.Job{Status: batchv1.JobStatus{Failed: 1}}, want: jobFailed},
		{desc: "pending", job: batchv1.Job{}, want: jobPending},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			require.Equal(t, tc.want, classifyJob(&tc.job))
		})
	}
}

func newTestScheme(t *testing.T) *runtime.Scheme {
	t.Helper()
	scheme := runtime.NewScheme()
	require.NoError(t, v1alpha1.AddToScheme(scheme))
	require.NoError(t, batchv1.AddToScheme(scheme))
	return scheme
}

func newTestHSJ(name string) *v1alpha1.HotStandbyJob {
	return &v1alpha1.HotStandbyJob{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: "default", UID: "test-uid"},
		Spec: v1alpha1.HotStandbyJobSpec{
			Selector: v1alpha1.PodSelector{MatchLabels: map[string]string{"app": name}},
		},
	}
}

func TestScalePoolCreatesShortfall(t *testing.T) {
	scheme := newTestScheme(t)
	hsj := newTestHSJ("hsj-a")
	fakeClient := fake.NewClientBuilder().WithScheme(scheme).Build()
	gw := gateway.NewWithClient(fakeClient)

	result, err := scalePool(context.Background(), gw, hsj, nil, 3, time.Second)
	require.NoError(t, err)
	require.Equal(t, 3, result.created)
	require.Equal(t, 0, result.deleted)

	var jobs batchv1.JobList
	require.NoError(t, fakeClient.List(context.Background(), &jobs))
	require.Len(t, jobs.Items, 3)
}

func TestScalePoolDeletesNewestFirstPastDelay(t *testing.T) {
	scheme := newTestScheme(t)
	hsj := newTestHSJ("hsj-b")
	now := time.Now()

	older := batchv1.Job{
		ObjectMeta: metav1.ObjectMeta{
			Name: "hsj-b-w-older", Namespace: "default",
			CreationTimestamp: metav1.NewTime(now.Add(-time.Hour)),
		},
		Status: batchv1.JobStatus{Active: 1},
	}
	newer := batchv1.Job{
		ObjectMeta: metav1.ObjectMeta{
			Name: "hsj-b-w-newer", Namespace: "default",
			CreationTimestamp: metav1.NewTime(now.Add(-time.Minute)),
		},
		Status: batchv1.JobStatus{Active: 1},
	}
	fakeClient := fake.NewClientBuilder().WithScheme(scheme).WithObjects(&older, &newer).Build()
	gw := gateway.NewWithClient(fakeClient)

	result, err := scalePool(context.Background(), gw, hsj, []batchv1.Job{older, newer}, 1, time.Second)
	require.NoError(t, err)
	require.Equal(t, 0, result.created)
	require.Equal(t, 1, result.deleted)

	var remaining batchv1.Job
	err = fakeClient.Get(context.Background(), types.NamespacedName{Namespace: "default", Name: "hsj-b-w-older"}, &remaining)
	require.NoError(t, err)
}

func TestScalePoolRespectsScaleDownDelay(t *testing.T) {
	scheme := newTestScheme(t)
	hsj := newTestHSJ("hsj-c")
	now := time.Now()

	fresh := batchv1.Job{
		ObjectMeta: metav1.ObjectMeta{
			Name: "hsj-c-w-fresh", Namespace: "default",
			CreationTimestamp: metav1.NewTime(now),
		},
		Status: batchv1.JobStatus{Active: 1},
	}
	fakeClient := fake.NewClientBuilder().WithScheme(scheme).WithObjects(&fresh).Build()
	gw := gateway.NewWithClient(fakeClient)

	result, err := scalePool(context.Background(), gw, hsj, []batchv1.Job{fresh}, 0, time.Hour)
	require.NoError(t, err)
	require.Equal(t, 0, result.deleted, "a Job younger than scaleDownDelay must survive")
}

func TestBuildChildJobSetsOwnerAndSingleCompletion(t *testing.T) {
	hsj := newTestHSJ("hsj-d")
	hsj.Spec.JobTemplate = batchv1.JobSpec{}

	job := buildChildJob(hsj)
	require.Equal(t, int32(1), *job.Spec.Completions)
	require.Equal(t, int32(1), *job.Spec.Parallelism)
	require.Len(t, job.OwnerReferences, 1)
	require.Equal(t, "hsj-d", job.OwnerReferences[0].Name)
	require.Equal(t, "hsj-d", job.Labels[gateway.LabelHSJName])
}
