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
	"fmt"
	"sort"
	"time"

	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/paia-tech/hotstandby-controller/pkg/apis/apps/v1alpha1"
	"github.com/paia-tech/hotstandby-controller/pkg/gateway"
)

// jobPhase is a child Job's lifecycle phase as derived from its status
// counters, never from a field the API server sets directly.
type jobPhase int

const (
	jobActive jobPhase = iota
	jobCompleted
	jobFailed
	jobPending
)

func classifyJob(job *batchv1.Job) jobPhase {
	switch {
	case job.Status.Active > 0:
		return jobActive
	case job.Status.Succeeded > 0:
		return jobCompleted
	case job.Status.Failed > 0:
		return jobFailed
	default:
		return jobPending
	}
}

// desiredActive computes the target active-Job count from busy pods,
// the configured idle headroom and the min/max bounds.
func desiredActive(busy, idleTarget int32, min, max *int32) int32 {
	d := busy + idleTarget
	if min != nil && d < *min {
		d = *min
	}
	if max != nil && d > *max {
		d = *max
	}
	if d < 0 {
		d = 0
	}
	return d
}

// scaleResult reports what scalePool actually did, for the status
// patch and for tests.
type scaleResult struct {
	created int
	deleted int
}

// scalePool converges the set of child Jobs owned by hsj toward
// desired. It creates new Jobs from jobTemplate when short, and
// deletes the newest active Jobs first when surplus, skipping any Job
// younger than scaleDownDelay.
func scalePool(ctx context.Context, gw *gateway.Gateway, hsj *v1alpha1.HotStandbyJob, active []batchv1.Job, desired int32, scaleDownDelay time.Duration) (scaleResult, error) {
	var result scaleResult

	current := int32(len(active))
	switch {
	case current < desired:
		for i := int32(0); i < desired-current; i++ {
			job := buildChildJob(hsj)
			if err := gw.CreateJob(ctx, job); err != nil {
				return result, fmt.Errorf("create child job: %w", err)
			}
			result.created++
		}

	case current > desired:
		surplus := current - desired
		sort.Slice(active, func(i, j int) bool {
			return active[i].CreationTimestamp.After(active[j].CreationTimestamp.Time)
		})
		now := time.Now()
		for _, job := range active {
			if surplus == 0 {
				break
			}
			if now.Sub(job.CreationTimestamp.Time) < scaleDownDelay {
				continue
			}
			if err := gw.DeleteJob(ctx, job.Namespace, job.Name); err != nil {
				return result, fmt.Errorf("delete child job %s: %w", job.Name, err)
			}
			result.deleted++
			surplus--
		}
	}
	return result, nil
}

// buildChildJob deep-copies hsj's jobTemplate into a new Job owned by
// hsj, forcing the single-completion semantics and merged labels every
// child Job requires.
func buildChildJob(hsj *v1alpha1.HotStandbyJob) *batchv1.Job {
	spec := *hsj.Spec.JobTemplate.DeepCopy()
	spec.Completions = int32Ptr(1)
	spec.Parallelism = int32Ptr(1)
	spec.Template.Spec.RestartPolicy = corev1.RestartPolicyNever

	labels := resolveLabels(spec.Template.Labels, hsj.Spec.Selector.MatchLabels, hsj.Name)
	spec.Template.Labels = labels

	job := &batchv1.Job{
		ObjectMeta: metav1.ObjectMeta{
			Namespace: hsj.Namespace,
			Name:      childJobName(hsj.Name),
			Labels:    labels,
			OwnerReferences: []metav1.OwnerReference{
				*metav1.NewControllerRef(hsj, v1alpha1.SchemeGroupVersion.WithKind(v1alpha1.Kind)),
			},
		},
		Spec: spec,
	}
	return job
}

func int32Ptr(v int32) *int32 { return &v }
