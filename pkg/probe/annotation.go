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
	"strings"

	corev1 "k8s.io/api/core/v1"
)

// AnnotationProber classifies a pod busy iff its Key annotation,
// lower-cased, equals "true".
type AnnotationProber struct {
	Key string
}

func (p *AnnotationProber) Classify(_ context.Context, pod *corev1.Pod) (BusyDecision, error) {
	v := strings.ToLower(pod.Annotations[p.Key])
	if v == "true" {
		return Busy, nil
	}
	return NotBusy, nil
}
