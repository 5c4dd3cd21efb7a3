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

// Code generated by hand to mirror controller-gen output; keep in sync with
// types.go.

package v1alpha1

import (
	runtime "k8s.io/apimachinery/pkg/runtime"
)

// DeepCopyInto is a deepcopy function, copying the receiver, writing into out. in must be non-nil.
func (in *HotStandbyJob) DeepCopyInto(out *HotStandbyJob) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ObjectMeta.DeepCopyInto(&out.ObjectMeta)
	in.Spec.DeepCopyInto(&out.Spec)
	in.Status.DeepCopyInto(&out.Status)
}

// DeepCopy is a deepcopy function, copying the receiver, creating a new HotStandbyJob.
func (in *HotStandbyJob) DeepCopy() *HotStandbyJob {
	if in == nil {
		return nil
	}
	out := new(HotStandbyJob)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyObject is a deepcopy function, copying the receiver, creating a new runtime.Object.
func (in *HotStandbyJob) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

// DeepCopyInto is a deepcopy function, copying the receiver, writing into out. in must be non-nil.
func (in *HotStandbyJobList) DeepCopyInto(out *HotStandbyJobList) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ListMeta.DeepCopyInto(&out.ListMeta)
	if in.Items != nil {
		l := make([]HotStandbyJob, len(in.Items))
		for i := range in.Items {
			in.Items[i].DeepCopyInto(&l[i])
		}
		out.Items = l
	}
}

// DeepCopy is a deepcopy function, copying the receiver, creating a new HotStandbyJobList.
func (in *HotStandbyJobList) DeepCopy() *HotStandbyJobList {
	if in == nil {
		return nil
	}
	out := new(HotStandbyJobList)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyObject is a deepcopy function, copying the receiver, creating a new runtime.Object.
func (in *HotStandbyJobList) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

// DeepCopyInto is a deepcopy function, copying the receiver, writing into out. in must be non-nil.
func (in *HotStandbyJobSpec) DeepCopyInto(out *HotStandbyJobSpec) {
	*out = *in
	in.Selector.DeepCopyInto(&out.Selector)
	in.JobTemplate.DeepCopyInto(&out.JobTemplate)
	if in.MinReplicas != nil {
		v := *in.MinReplicas
		out.MinReplicas = &v
	}
	if in.MaxReplicas != nil {
		v := *in.MaxReplicas
		out.MaxReplicas = &v
	}
	if in.ScaleDownDelaySeconds != nil {
		v := *in.ScaleDownDelaySeconds
		out.ScaleDownDelaySeconds = &v
	}
	in.BusyProbe.DeepCopyInto(&out.BusyProbe)
}

// DeepCopy is a deepcopy function, copying the receiver, creating a new HotStandbyJobSpec.
func (in *HotStandbyJobSpec) DeepCopy() *HotStandbyJobSpec {
	if in == nil {
		return nil
	}
	out := new(HotStandbyJobSpec)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyInto is a deepcopy function, copying the receiver, writing into out. in must be non-nil.
func (in *PodSelector) DeepCopyInto(out *PodSelector) {
	*out = *in
	if in.MatchLabels != nil {
		m := make(map[string]string, len(in.MatchLabels))
		for k, v := range in.MatchLabels {
			m[k] = v
		}
		out.MatchLabels = m
	}
}

// DeepCopy is a deepcopy function, copying the receiver, creating a new PodSelector.
func (in *PodSelector) DeepCopy() *PodSelector {
	if in == nil {
		return nil
	}
	out := new(PodSelector)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyInto is a deepcopy function, copying the receiver, writing into out. in must be non-nil.
func (in *BusyProbeSpec) DeepCopyInto(out *BusyProbeSpec) {
	*out = *in
	if in.HTTP != nil {
		out.HTTP = in.HTTP.DeepCopy()
	}
	if in.Exec != nil {
		out.Exec = in.Exec.DeepCopy()
	}
}

// DeepCopy is a deepcopy function, copying the receiver, creating a new BusyProbeSpec.
func (in *BusyProbeSpec) DeepCopy() *BusyProbeSpec {
	if in == nil {
		return nil
	}
	out := new(BusyProbeSpec)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyInto is a deepcopy function, copying the receiver, writing into out. in must be non-nil.
func (in *HTTPProbeSpec) DeepCopyInto(out *HTTPProbeSpec) {
	*out = *in
	if in.SuccessIsBusy != nil {
		in, out := &in.SuccessIsBusy, &out.SuccessIsBusy
		*out = new(bool)
		**out = **in
	}
}

// DeepCopy is a deepcopy function, copying the receiver, creating a new HTTPProbeSpec.
func (in *HTTPProbeSpec) DeepCopy() *HTTPProbeSpec {
	if in == nil {
		return nil
	}
	out := new(HTTPProbeSpec)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyInto is a deepcopy function, copying the receiver, writing into out. in must be non-nil.
func (in *ExecProbeSpec) DeepCopyInto(out *ExecProbeSpec) {
	*out = *in
	if in.Command != nil {
		c := make([]string, len(in.Command))
		copy(c, in.Command)
		out.Command = c
	}
	if in.SuccessIsBusy != nil {
		in, out := &in.SuccessIsBusy, &out.SuccessIsBusy
		*out = new(bool)
		**out = **in
	}
}

// DeepCopy is a deepcopy function, copying the receiver, creating a new ExecProbeSpec.
func (in *ExecProbeSpec) DeepCopy() *ExecProbeSpec {
	if in == nil {
		return nil
	}
	out := new(ExecProbeSpec)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyInto is a deepcopy function, copying the receiver, writing into out. in must be non-nil.
func (in *HotStandbyJobStatus) DeepCopyInto(out *HotStandbyJobStatus) {
	*out = *in
	if in.LastSyncTime != nil {
		out.LastSyncTime = in.LastSyncTime.DeepCopy()
	}
}

// DeepCopy is a deepcopy function, copying the receiver, creating a new HotStandbyJobStatus.
func (in *HotStandbyJobStatus) DeepCopy() *HotStandbyJobStatus {
	if in == nil {
		return nil
	}
	out := new(HotStandbyJobStatus)
	in.DeepCopyInto(out)
	return out
}
