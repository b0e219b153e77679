// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

// Package defaults provides centralized timing constants for the bootstrap pipeline.
//
// # Timeout Categories
//
// Timeouts are organized by component:
//
//   - Enrollment: fixed log polling interval for the CA server
//   - Probe: retry interval and overall budget for the ingress readiness probe
//   - Kubernetes: pod readiness and single API call budgets
//   - Helm: bound on a single chart install or upgrade
//
// # Usage
//
// Import and use constants directly:
//
//	import "github.com/baileyvw/nephos/pkg/defaults"
//
//	policy := retry.Policy{Interval: defaults.EnrollPollInterval}
package defaults
