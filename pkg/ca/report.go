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
	"strconv"
	"time"

	"github.com/baileyvw/nephos/pkg/header"
)

// Report summarizes one Setup run.
type Report struct {
	header.Header `json:",inline" yaml:",inline"`

	RunID     string           `json:"runId" yaml:"runId"`
	Namespace string           `json:"namespace" yaml:"namespace"`
	Upgrade   bool             `json:"upgrade" yaml:"upgrade"`
	StartedAt time.Time        `json:"startedAt" yaml:"startedAt"`
	Duration  string           `json:"duration" yaml:"duration"`
	Instances []InstanceReport `json:"instances" yaml:"instances"`
}

// InstanceReport is the outcome of bootstrapping one CA.
type InstanceReport struct {
	Release         string     `json:"release" yaml:"release"`
	Deployed        bool       `json:"deployed" yaml:"deployed"`
	Enrolled        bool       `json:"enrolled" yaml:"enrolled"`
	Enrollment      Enrollment `json:"enrollment" yaml:"enrollment"`
	SecretsExported bool       `json:"secretsExported" yaml:"secretsExported"`
	IngressHost     string     `json:"ingressHost,omitempty" yaml:"ingressHost,omitempty"`
	Probed          bool       `json:"probed" yaml:"probed"`
	Duration        string     `json:"duration" yaml:"duration"`
	Error           string     `json:"error,omitempty" yaml:"error,omitempty"`
}

// Failed reports whether any instance failed.
func (r *Report) Failed() bool {
	for _, inst := range r.Instances {
		if inst.Error != "" {
			return true
		}
	}
	return false
}

// Table renders one row per instance.
func (r *Report) Table() ([]string, [][]string) {
	cols := []string{"RELEASE", "DEPLOYED", "ENROLLED", "WAITS", "INGRESS", "PROBED", "SECRETS", "DURATION", "ERROR"}
	rows := make([][]string, 0, len(r.Instances))
	for _, inst := range r.Instances {
		host := inst.IngressHost
		if host == "" {
			host = "-"
		}
		rows = append(rows, []string{
			inst.Release,
			strconv.FormatBool(inst.Deployed),
			enrolledState(inst),
			strconv.Itoa(inst.Enrollment.Waits),
			host,
			strconv.FormatBool(inst.Probed),
			strconv.FormatBool(inst.SecretsExported),
			inst.Duration,
			inst.Error,
		})
	}
	return cols, rows
}

func enrolledState(inst InstanceReport) string {
	switch {
	case !inst.Enrolled:
		return "false"
	case inst.Enrollment.AlreadyEnrolled:
		return "existing"
	default:
		return "true"
	}
}
