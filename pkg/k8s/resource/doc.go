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

// Package resource reads and writes the secrets and ingresses used while
// bootstrapping a CA.
//
// Secret writes are create-or-update so credential publication can be re-run.
// ReadIngress keeps the API server's not-found error intact so callers can
// detect an ingress that has not been provisioned yet with
// k8s.io/apimachinery/pkg/api/errors.IsNotFound.
package resource
