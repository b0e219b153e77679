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

package defaults

import "time"

// Enrollment polling for a freshly deployed CA server.
const (
	// EnrollPollInterval is the fixed wait between two reads of the CA
	// server log while waiting for it to start listening.
	EnrollPollInterval = 15 * time.Second
)

// Readiness probing of the CA ingress endpoint.
const (
	// ProbeRetryInterval is the wait between two failed probe commands.
	ProbeRetryInterval = 5 * time.Second

	// ProbeTimeout bounds the total time spent probing one ingress host.
	ProbeTimeout = 10 * time.Minute
)

// Kubernetes timeouts for K8s API operations.
const (
	// K8sPodReadyTimeout is the timeout for waiting for the CA pod to run.
	K8sPodReadyTimeout = 5 * time.Minute

	// K8sPodPollInterval is the interval between pod phase checks.
	K8sPodPollInterval = 2 * time.Second

	// K8sAPITimeout bounds a single secret or ingress request.
	K8sAPITimeout = 30 * time.Second
)

// Helm command timeouts.
const (
	// HelmCommandTimeout bounds a single helm install or upgrade invocation.
	HelmCommandTimeout = 10 * time.Minute
)

// HTTP client timeouts.
const (
	// HTTPClientTimeout bounds fetching a remote settings document.
	HTTPClientTimeout = 30 * time.Second
)

// Status server timeouts.
const (
	// ServerReadHeaderTimeout bounds reading request headers.
	ServerReadHeaderTimeout = 5 * time.Second

	// ServerWriteTimeout is the maximum duration for writing a response.
	ServerWriteTimeout = 30 * time.Second

	// ServerIdleTimeout is the maximum duration to wait for the next request.
	ServerIdleTimeout = 120 * time.Second

	// ServerShutdownTimeout is the maximum duration for graceful shutdown.
	ServerShutdownTimeout = 30 * time.Second
)
