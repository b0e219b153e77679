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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	bootstrapDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nephos_ca_bootstrap_duration_seconds",
			Help:    "Time taken to bootstrap all configured CAs",
			Buckets: []float64{10, 30, 60, 120, 300, 600, 1200},
		},
	)

	instanceTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nephos_ca_instance_total",
			Help: "Total number of CA instance bootstraps",
		},
		[]string{"status"}, // success or error
	)

	stepDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nephos_ca_step_duration_seconds",
			Help:    "Time taken by individual bootstrap steps",
			Buckets: []float64{0.5, 1, 5, 15, 30, 60, 300},
		},
		[]string{"step"}, // deploy, find_pod, enroll, probe, export
	)

	enrollmentWaits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nephos_ca_enrollment_waits_total",
			Help: "Number of waits for a CA server to start listening",
		},
	)

	readinessProbes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nephos_ca_readiness_probes_total",
			Help: "Readiness probes run or skipped for lack of an ingress",
		},
		[]string{"result"}, // probed or skipped
	)
)
