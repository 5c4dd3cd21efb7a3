// Copyright 2022 Google LLC
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

import "github.com/paia-tech/hotstandby-controller/pkg/gateway"

// resolveLabels merges the HSJ's pod selector with the owner label
// every child Job's pod template must carry, then with any
// user-supplied template labels. Selector and owner label take
// precedence over the template's own labels, since those two are
// what make a pod a member of the pool.
func resolveLabels(templateLabels, selector map[string]string, hsjName string) map[string]string {
	merged := make(map[string]string, len(templateLabels)+len(selector)+1)
	for k, v := range templateLabels {
		merged[k] = v
	}
	for k, v := range selector {
		merged[k] = v
	}
	merged[gateway.LabelHSJName] = hsjName
	return merged
}
