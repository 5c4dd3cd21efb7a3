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

// Default values for fields a HotStandbyJobSpec may omit. These mirror the
// HTTP_DEFAULTS / EXEC_DEFAULTS base records merged with user overrides.
const (
	DefaultAnnotationKey        = "paia.tech/busy"
	DefaultScaleDownDelaySeconds = int32(30)

	DefaultHTTPPort           = int32(8080)
	DefaultHTTPPath           = "/busy"
	DefaultHTTPTimeoutSeconds = int32(1)
	DefaultHTTPPeriodSeconds  = int32(10)
	DefaultHTTPSuccessIsBusy  = true

	DefaultExecTimeoutSeconds = int32(1)
	DefaultExecSuccessIsBusy  = true
)

// DefaultExecCommand is the exec probe command used when the spec omits one.
func DefaultExecCommand() []string {
	return []string{"cat", "/tmp/healthy"}
}

// WithDefaults returns a copy of the spec with zero-valued optional fields
// replaced by their documented defaults. It never mutates the receiver.
func (s HotStandbyJobSpec) WithDefaults() HotStandbyJobSpec {
	out := *s.DeepCopy()

	if out.BusyProbe.Mode == "" {
		out.BusyProbe.Mode = ProbeModeAnnotation
	}
	if out.BusyProbe.AnnotationKey == "" {
		out.BusyProbe.AnnotationKey = DefaultAnnotationKey
	}
	if out.BusyProbe.HTTP == nil {
		out.BusyProbe.HTTP = &HTTPProbeSpec{}
	}
	httpSpec := out.BusyProbe.HTTP
	if httpSpec.Port == 0 {
		httpSpec.Port = DefaultHTTPPort
	}
	if httpSpec.Path == "" {
		httpSpec.Path = DefaultHTTPPath
	}
	if httpSpec.TimeoutSeconds == 0 {
		httpSpec.TimeoutSeconds = DefaultHTTPTimeoutSeconds
	}
	if httpSpec.PeriodSeconds == 0 {
		httpSpec.PeriodSeconds = DefaultHTTPPeriodSeconds
	}
	if httpSpec.SuccessIsBusy == nil {
		v := DefaultHTTPSuccessIsBusy
		httpSpec.SuccessIsBusy = &v
	}

	if out.BusyProbe.Exec == nil {
		out.BusyProbe.Exec = &ExecProbeSpec{}
	}
	execSpec := out.BusyProbe.Exec
	if len(execSpec.Command) == 0 {
		execSpec.Command = DefaultExecCommand()
	}
	if execSpec.TimeoutSeconds == 0 {
		execSpec.TimeoutSeconds = DefaultExecTimeoutSeconds
	}
	if execSpec.SuccessIsBusy == nil {
		v := DefaultExecSuccessIsBusy
		execSpec.SuccessIsBusy = &v
	}

	if out.ScaleDownDelaySeconds == nil {
		d := DefaultScaleDownDelaySeconds
		out.ScaleDownDelaySeconds = &d
	}
	return out
}

// EffectiveMinMax returns the min/max replica bounds with the "max wins over
// min" tie-break applied when both are set and min > max.
func (s HotStandbyJobSpec) EffectiveMinMax() (min, max *int32) {
	min, max = s.MinReplicas, s.MaxReplicas
	if min != nil && max != nil && *min > *max {
		min = max
	}
	return min, max
}
