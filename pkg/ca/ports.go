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

package ca

import (
	"context"

	"github.com/baileyvw/nephos/pkg/helm"
)

// ChartManager installs and upgrades helm releases.
type ChartManager interface {
	Install(ctx context.Context, req helm.Request) error
	Upgrade(ctx context.Context, req helm.Request) error
}

// SecretStore reads and publishes Kubernetes secrets.
type SecretStore interface {
	// ReadSecret returns the decoded secret data.
	ReadSecret(ctx context.Context, name, namespace string, verbose bool) (map[string]string, error)

	// WriteSecretFromFile stores the content of filename under key,
	// creating the secret or updating it in place.
	WriteSecretFromFile(ctx context.Context, name, namespace, key, filename string, verbose bool) error
}

// PodExecutor runs commands in, and reads logs of, one CA server pod.
type PodExecutor interface {
	Execute(ctx context.Context, command string) (string, error)
	Logs(ctx context.Context) (string, error)
}

// PodFinder locates the pod of a release by its app label.
type PodFinder interface {
	Find(ctx context.Context, namespace, release, app string, verbose bool) (PodExecutor, error)
}

// PodFinderFunc adapts a function to PodFinder.
type PodFinderFunc func(ctx context.Context, namespace, release, app string, verbose bool) (PodExecutor, error)

// Find implements PodFinder.
func (f PodFinderFunc) Find(ctx context.Context, namespace, release, app string, verbose bool) (PodExecutor, error) {
	return f(ctx, namespace, release, app, verbose)
}

// IngressReader returns the hosts of an ingress. A missing ingress is
// reported with a Kubernetes NotFound error.
type IngressReader interface {
	ReadIngress(ctx context.Context, name, namespace string, verbose bool) ([]string, error)
}

// CommandRetrier runs a shell command until it succeeds. The backoff policy
// belongs to the implementation.
type CommandRetrier interface {
	RetryUntilSuccess(ctx context.Context, command string, verbose bool) error
}
