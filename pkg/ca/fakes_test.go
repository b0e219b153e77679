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
	"fmt"
	"sort"
	"sync"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/runtime/schema"

	"github.com/baileyvw/nephos/pkg/errors"
	"github.com/baileyvw/nephos/pkg/helm"
)

type writtenSecret struct {
	Name      string
	Namespace string
	Key       string
	Filename  string
}

type findCall struct {
	Namespace string
	Release   string
	App       string
	Verbose   bool
}

type probeCall struct {
	Command string
	Verbose bool
}

// fakeCluster implements every port and records calls in order.
type fakeCluster struct {
	mu sync.Mutex

	calls     []string
	installs  []helm.Request
	upgrades  []helm.Request
	reads     []string
	written   []writtenSecret
	finds     []findCall
	ingresses []string
	probes    []probeCall

	secrets    map[string]map[string]string
	readErr    error
	installErr error
	hosts      map[string][]string
	ingressErr map[string]error
	probeErr   error
	executors  map[string]*fakeExecutor
}

func newFakeCluster(releases ...string) *fakeCluster {
	c := &fakeCluster{
		secrets:    map[string]map[string]string{},
		hosts:      map[string][]string{},
		ingressErr: map[string]error{},
		executors:  map[string]*fakeExecutor{},
	}
	for _, r := range releases {
		c.secrets[r+"-pg-postgresql"] = map[string]string{"postgresql-password": "a_password"}
		c.executors[r] = &fakeExecutor{cluster: c, name: r + "-pod", cert: "-----BEGIN CERTIFICATE-----"}
	}
	return c
}

func (c *fakeCluster) record(format string, args ...any) {
	c.calls = append(c.calls, fmt.Sprintf(format, args...))
}

func (c *fakeCluster) Install(_ context.Context, req helm.Request) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("install %s %s", req.Release, req.ChartRef())
	c.installs = append(c.installs, req)
	return c.installErr
}

func (c *fakeCluster) Upgrade(_ context.Context, req helm.Request) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("upgrade %s %s", req.Release, req.ChartRef())
	c.upgrades = append(c.upgrades, req)
	return nil
}

func (c *fakeCluster) ReadSecret(_ context.Context, name, namespace string, _ bool) (map[string]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("read-secret %s/%s", namespace, name)
	c.reads = append(c.reads, name)
	if c.readErr != nil {
		return nil, c.readErr
	}
	data, ok := c.secrets[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "secret "+name+" not found")
	}
	return data, nil
}

func (c *fakeCluster) WriteSecretFromFile(_ context.Context, name, namespace, key, filename string, _ bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("write-secret %s/%s %s", namespace, name, key)
	c.written = append(c.written, writtenSecret{Name: name, Namespace: namespace, Key: key, Filename: filename})
	return nil
}

func (c *fakeCluster) Find(_ context.Context, namespace, release, app string, verbose bool) (PodExecutor, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("find-pod %s/%s app=%s", namespace, release, app)
	c.finds = append(c.finds, findCall{Namespace: namespace, Release: release, App: app, Verbose: verbose})
	exec, ok := c.executors[release]
	if !ok {
		return nil, errors.New(errors.ErrCodeTimeout, "no running pod found")
	}
	return exec, nil
}

func (c *fakeCluster) ReadIngress(_ context.Context, name, namespace string, _ bool) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("read-ingress %s/%s", namespace, name)
	c.ingresses = append(c.ingresses, name)
	if err, ok := c.ingressErr[name]; ok {
		return nil, err
	}
	hosts, ok := c.hosts[name]
	if !ok {
		return nil, notFound(name)
	}
	return hosts, nil
}

func (c *fakeCluster) RetryUntilSuccess(_ context.Context, command string, verbose bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("retry %s", command)
	c.probes = append(c.probes, probeCall{Command: command, Verbose: verbose})
	return c.probeErr
}

func (c *fakeCluster) deps() Dependencies {
	return Dependencies{
		Charts:    c,
		Secrets:   c,
		Pods:      c,
		Ingresses: c,
		Retrier:   c,
	}
}

func (c *fakeCluster) writtenKeys() []string {
	keys := make([]string, 0, len(c.written))
	for _, w := range c.written {
		keys = append(keys, w.Key)
	}
	sort.Strings(keys)
	return keys
}

// fakeExecutor serves a fixed certificate output and a sequence of logs;
// the last log is repeated once the sequence is exhausted.
type fakeExecutor struct {
	cluster *fakeCluster
	name    string

	cert    string
	certErr error
	logs    []string
	logErr  error

	executed []string
	logCalls int
}

func (e *fakeExecutor) Execute(_ context.Context, command string) (string, error) {
	e.cluster.mu.Lock()
	defer e.cluster.mu.Unlock()
	e.cluster.record("exec %s %s", e.name, command)
	e.executed = append(e.executed, command)
	if command == CertCommand {
		return e.cert, e.certErr
	}
	return "enrollment", nil
}

func (e *fakeExecutor) Logs(context.Context) (string, error) {
	e.cluster.mu.Lock()
	defer e.cluster.mu.Unlock()
	e.cluster.record("logs %s", e.name)
	e.logCalls++
	if e.logErr != nil {
		return "", e.logErr
	}
	if len(e.logs) == 0 {
		return "", nil
	}
	i := e.logCalls - 1
	if i >= len(e.logs) {
		i = len(e.logs) - 1
	}
	return e.logs[i], nil
}

func notFound(name string) error {
	return apierrors.NewNotFound(schema.GroupResource{Group: "networking.k8s.io", Resource: "ingresses"}, name)
}
