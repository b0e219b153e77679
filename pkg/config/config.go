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

package config

import (
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/util/validation"
)

// Core holds the settings shared by every CA instance.
type Core struct {
	// Namespace is the Kubernetes namespace all CA releases live in.
	Namespace string `yaml:"namespace" json:"namespace"`

	// ChartRepo is the helm repository alias hosting the hlf-ca chart.
	ChartRepo string `yaml:"chart_repo" json:"chartRepo"`

	// ValuesDir is the directory holding per-release helm values files.
	ValuesDir string `yaml:"dir_values" json:"valuesDir"`

	// ConfigDir is the local directory holding generated MSP material.
	ConfigDir string `yaml:"dir_config" json:"configDir"`
}

// CAValues are the per-instance settings of one CA.
type CAValues struct {
	// MSP is the MSP directory name, relative to the config directory.
	MSP string `yaml:"msp" json:"msp,omitempty"`

	// OrgAdminCert is the name of the secret receiving the admin certificate.
	OrgAdminCert string `yaml:"org_admincert" json:"orgAdminCert,omitempty"`

	// OrgAdminKey is the name of the secret receiving the admin private key.
	OrgAdminKey string `yaml:"org_adminkey" json:"orgAdminKey,omitempty"`
}

// HasAdminSecrets reports whether both admin secret names are set.
func (v CAValues) HasAdminSecrets() bool {
	return v.MSP != "" && v.OrgAdminCert != "" && v.OrgAdminKey != ""
}

// CAInstance is one named CA deployment. Name doubles as the release name.
type CAInstance struct {
	Name   string   `json:"name"`
	Values CAValues `json:"values"`
}

// Options is the read-only deployment configuration.
// CA instances keep the order they were declared in, root CA first by convention.
type Options struct {
	core Core
	cas  []CAInstance
}

// Core returns a copy of the shared settings.
func (o *Options) Core() Core {
	return o.core
}

// Namespace returns the namespace setting.
func (o *Options) Namespace() string {
	return o.core.Namespace
}

// ChartRepo returns the chart repository setting.
func (o *Options) ChartRepo() string {
	return o.core.ChartRepo
}

// ValuesDir returns the helm values directory.
func (o *Options) ValuesDir() string {
	return o.core.ValuesDir
}

// ConfigDir returns the local MSP configuration directory.
func (o *Options) ConfigDir() string {
	return o.core.ConfigDir
}

// CAs returns a copy of the CA instances in declaration order.
func (o *Options) CAs() []CAInstance {
	out := make([]CAInstance, len(o.cas))
	copy(out, o.cas)
	return out
}

// CA looks up a CA instance by name.
func (o *Options) CA(name string) (CAInstance, bool) {
	for _, ca := range o.cas {
		if ca.Name == name {
			return ca, true
		}
	}
	return CAInstance{}, false
}

// Validate checks if the Options have valid settings.
func (o *Options) Validate() error {
	var problems []string

	if o.core.Namespace == "" {
		problems = append(problems, "core.namespace cannot be empty")
	} else if errs := validation.IsDNS1123Label(o.core.Namespace); len(errs) > 0 {
		problems = append(problems, fmt.Sprintf("core.namespace %q: %s", o.core.Namespace, strings.Join(errs, ", ")))
	}

	if o.core.ChartRepo == "" {
		problems = append(problems, "core.chart_repo cannot be empty")
	}

	if len(o.cas) == 0 {
		problems = append(problems, "at least one CA must be configured under cas")
	}

	seen := make(map[string]bool, len(o.cas))
	for _, ca := range o.cas {
		if seen[ca.Name] {
			problems = append(problems, fmt.Sprintf("duplicate CA %q", ca.Name))
			continue
		}
		seen[ca.Name] = true
		if errs := validation.IsDNS1123Label(ca.Name); len(errs) > 0 {
			problems = append(problems, fmt.Sprintf("CA name %q: %s", ca.Name, strings.Join(errs, ", ")))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid options: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Clone returns a modified copy. The receiver is left untouched.
func (o *Options) Clone(options ...Option) *Options {
	c := &Options{core: o.core, cas: o.CAs()}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Option configures Options.
type Option func(*Options)

// WithNamespace sets the namespace.
func WithNamespace(namespace string) Option {
	return func(o *Options) {
		o.core.Namespace = namespace
	}
}

// WithChartRepo sets the chart repository alias.
func WithChartRepo(repo string) Option {
	return func(o *Options) {
		o.core.ChartRepo = repo
	}
}

// WithValuesDir sets the helm values directory.
func WithValuesDir(dir string) Option {
	return func(o *Options) {
		o.core.ValuesDir = dir
	}
}

// WithConfigDir sets the local MSP configuration directory.
func WithConfigDir(dir string) Option {
	return func(o *Options) {
		o.core.ConfigDir = dir
	}
}

// WithCA appends a CA instance. Call order defines bootstrap order.
func WithCA(name string, values CAValues) Option {
	return func(o *Options) {
		o.cas = append(o.cas, CAInstance{Name: name, Values: values})
	}
}

// New returns Options built from the given options. It does not validate.
func New(options ...Option) *Options {
	o := &Options{}
	for _, opt := range options {
		opt(o)
	}
	return o
}
