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

package pod

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"sort"
	"time"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/labels"
	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/remotecommand"
	utilexec "k8s.io/client-go/util/exec"

	"github.com/baileyvw/nephos/pkg/defaults"
	"github.com/baileyvw/nephos/pkg/errors"
)

// StreamExecutorFunc builds a remote command executor for an exec request URL.
type StreamExecutorFunc func(config *rest.Config, method string, u *url.URL) (remotecommand.Executor, error)

// Finder locates the running pod of a helm release.
type Finder struct {
	clientset    kubernetes.Interface
	restClient   rest.Interface
	config       *rest.Config
	newExecutor  StreamExecutorFunc
	pollInterval time.Duration
	timeout      time.Duration
}

// Option configures a Finder.
type Option func(*Finder)

// WithStreamExecutor overrides how exec streams are opened.
func WithStreamExecutor(fn StreamExecutorFunc) Option {
	return func(f *Finder) {
		f.newExecutor = fn
	}
}

// WithRESTClient overrides the client used to build exec requests.
func WithRESTClient(c rest.Interface) Option {
	return func(f *Finder) {
		f.restClient = c
	}
}

// WithPolling overrides the pod readiness poll interval and timeout.
func WithPolling(interval, timeout time.Duration) Option {
	return func(f *Finder) {
		f.pollInterval = interval
		f.timeout = timeout
	}
}

// NewFinder creates a Finder. config is used to open exec streams.
func NewFinder(clientset kubernetes.Interface, config *rest.Config, opts ...Option) *Finder {
	f := &Finder{
		clientset:    clientset,
		config:       config,
		newExecutor:  remotecommand.NewSPDYExecutor,
		pollInterval: defaults.K8sPodPollInterval,
		timeout:      defaults.K8sPodReadyTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.restClient == nil {
		f.restClient = clientset.CoreV1().RESTClient()
	}
	return f
}

// Find waits for a Running pod labelled app=<app>,release=<release> and
// returns an Executor bound to it.
func (f *Finder) Find(ctx context.Context, namespace, release, app string, verbose bool) (*Executor, error) {
	selector := labels.SelectorFromSet(labels.Set{"app": app, "release": release}).String()

	var found *corev1.Pod
	err := wait.PollUntilContextTimeout(ctx, f.pollInterval, f.timeout, true,
		func(ctx context.Context) (bool, error) {
			pods, err := f.clientset.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{
				LabelSelector: selector,
			})
			if err != nil {
				return false, err
			}

			items := pods.Items
			sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
			for i := range items {
				if items[i].Status.Phase == corev1.PodRunning && items[i].DeletionTimestamp == nil {
					found = &items[i]
					return true, nil
				}
			}
			return false, nil // Keep waiting
		},
	)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeTimeout, "no running pod found", err, map[string]any{
			"namespace": namespace,
			"selector":  selector,
		})
	}

	container := ""
	if len(found.Spec.Containers) > 0 {
		container = found.Spec.Containers[0].Name
	}

	if verbose {
		slog.Info("found pod", "pod", found.Name, "namespace", namespace, "release", release)
	} else {
		slog.Debug("found pod", "pod", found.Name, "namespace", namespace, "release", release)
	}

	return &Executor{
		clientset:   f.clientset,
		restClient:  f.restClient,
		config:      f.config,
		newExecutor: f.newExecutor,
		namespace:   namespace,
		pod:         found.Name,
		container:   container,
		verbose:     verbose,
	}, nil
}

// Executor runs commands in, and reads logs of, one pod container.
type Executor struct {
	clientset   kubernetes.Interface
	restClient  rest.Interface
	config      *rest.Config
	newExecutor StreamExecutorFunc
	namespace   string
	pod         string
	container   string
	verbose     bool
}

// Pod returns the name of the bound pod.
func (e *Executor) Pod() string {
	return e.pod
}

// Execute runs command with "sh -c" inside the container and returns stdout.
// A non-zero exit is returned as an error satisfying IsExitError.
func (e *Executor) Execute(ctx context.Context, command string) (string, error) {
	req := e.restClient.
		Post().
		Resource("pods").
		Name(e.pod).
		Namespace(e.namespace).
		SubResource("exec").
		VersionedParams(&corev1.PodExecOptions{
			Container: e.container,
			Command:   []string{"sh", "-c", command},
			Stdout:    true,
			Stderr:    true,
		}, scheme.ParameterCodec)

	exec, err := e.newExecutor(e.config, "POST", req.URL())
	if err != nil {
		return "", fmt.Errorf("failed to create executor: %w", err)
	}

	var stdout, stderr bytes.Buffer
	err = exec.StreamWithContext(ctx, remotecommand.StreamOptions{
		Stdout: &stdout,
		Stderr: &stderr,
	})
	if err != nil {
		return stdout.String(), errors.WrapWithContext(errors.ErrCodeInternal, "pod command failed", err, map[string]any{
			"pod":     e.pod,
			"command": command,
			"stderr":  stderr.String(),
		})
	}

	if e.verbose {
		slog.Info("pod command", "pod", e.pod, "command", command, "output", stdout.String())
	}
	return stdout.String(), nil
}

// Logs returns the full log of the container.
func (e *Executor) Logs(ctx context.Context) (string, error) {
	req := e.clientset.CoreV1().Pods(e.namespace).GetLogs(e.pod, &corev1.PodLogOptions{
		Container: e.container,
	})

	logs, err := req.Stream(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to stream logs of %s: %w", e.pod, err)
	}
	defer logs.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, logs); err != nil {
		return "", fmt.Errorf("failed to read logs of %s: %w", e.pod, err)
	}
	return buf.String(), nil
}

// IsExitError reports whether err is a command that ran and exited non-zero,
// as opposed to a failure to reach the pod.
func IsExitError(err error) bool {
	var exitErr utilexec.ExitError
	return stderrors.As(err, &exitErr)
}
