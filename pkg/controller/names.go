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
	"fmt"

	utilrand "k8s.io/apimachinery/pkg/util/rand"
)

// childJobName builds a new child Job name for hsjName, suffixed with
// five random lowercase alphanumeric characters. A collision on the
// generated name surfaces as a 409 from the API server; the caller
// lets the next reconcile tick retry with a fresh suffix.
func childJobName(hsjName string) string {
	return fmt.Sprintf("%s-w-%s", hsjName, utilrand.String(5))
}
