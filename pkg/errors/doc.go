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

// Package errors provides structured error types for programmatic error
// handling across the bootstrap pipeline.
//
// Collaborators classify their failures with an ErrorCode so the
// orchestrator can tell an expected transient condition (an ingress that is
// not provisioned yet) from a fatal one (a missing database password secret):
//
//	hosts, err := store.ReadIngress(ctx, name, namespace, false)
//	if errors.IsCode(err, errors.ErrCodeUnavailable) {
//	    // ingress exists but has no hosts yet
//	}
package errors
