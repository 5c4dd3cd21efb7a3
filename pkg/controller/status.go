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

package controller

import (
	"context"
	"fmt"

	batchv1 "k8s.io/api/batch/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/paia-tech/hotstandby-controller/pkg/apis/apps/v1alpha1"
)

// tallyJobStatus partitions jobs by derived phase and returns the
// counters the status patch needs.
func tallyJobStatus(jobs []batchv1.Job) (childJobs, activeJobs, completedJobs, failedJobs int32) {
	childJobs = int32(len(jobs))
	for i := range jobs {
		switch classifyJob(&jobs[i]) {
		case jobActive:
			activeJobs++
		case jobCompleted:
			completedJobs++
		case jobFailed:
			failedJobs++
		}
	}
	return childJobs, activeJobs, completedJobs, failedJobs
}

// buildStatus assembles the status this tick computed. lastSyncTime is
// only set by the caller once the whole tick has succeeded, so a
// failed tick leaves the previous successful status in place.
func buildStatus(busy, idle, activeCount, desired int32, jobs []batchv1.Job, generation int64, now metav1.Time) v1alpha1.HotStandbyJobStatus {
	childJobs, activeJobs, completedJobs, failedJobs := tallyJobStatus(jobs)
	return v1alpha1.HotStandbyJobStatus{
		BusyCount:          busy,
		IdleCount:          idle,
		ActiveCount:        activeCount,
		DesiredActive:      desired,
		ChildJobs:          childJobs,
		ActiveJobs:         activeJobs,
		CompletedJobs:      completedJobs,
		FailedJobs:         failedJobs,
		LastSyncTime:       &now,
		ObservedGeneration: generation,
	}
}

// patchStatus writes status onto hsj with a merge patch, so a
// concurrent spec edit between read and write is not clobbered. A
// conflict here is non-fatal; the next reconcile tick overwrites it.
func patchStatus(ctx context.Context, c client.Client, hsj *v1alpha1.HotStandbyJob, status v1alpha1.HotStandbyJobStatus) error {
	patch := client.MergeFrom(hsj.DeepCopy())
	hsj.Status = status
	if err := c.Status().Patch(ctx, hsj, patch); err != nil {
		return fmt.Errorf("patch status for %s/%s: %w", hsj.Namespace, hsj.Name, err)
	}
	return nil
}
