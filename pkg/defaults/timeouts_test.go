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

import (
	"testing"
	"time"
)

func TestTimeoutConstants(t *testing.T) {
	tests := []struct {
		name     string
		timeout  time.Duration
		minValue time.Duration
		maxValue time.Duration
	}{
		// Enrollment
		{"EnrollPollInterval", EnrollPollInterval, 15 * time.Second, 15 * time.Second},

		// Probe
		{"ProbeRetryInterval", ProbeRetryInterval, 1 * time.Second, 30 * time.Second},
		{"ProbeTimeout", ProbeTimeout, 1 * time.Minute, 30 * time.Minute},

		// K8s timeouts
		{"K8sPodReadyTimeout", K8sPodReadyTimeout, 30 * time.Second, 10 * time.Minute},
		{"K8sPodPollInterval", K8sPodPollInterval, 500 * time.Millisecond, 10 * time.Second},
		{"K8sAPITimeout", K8sAPITimeout, 10 * time.Second, 60 * time.Second},

		// Helm
		{"HelmCommandTimeout", HelmCommandTimeout, 1 * time.Minute, 30 * time.Minute},

		// HTTP
		{"HTTPClientTimeout", HTTPClientTimeout, 5 * time.Second, 2 * time.Minute},
		{"ServerReadHeaderTimeout", ServerReadHeaderTimeout, time.Second, 30 * time.Second},
		{"ServerWriteTimeout", ServerWriteTimeout, 5 * time.Second, 2 * time.Minute},
		{"ServerIdleTimeout", ServerIdleTimeout, 30 * time.Second, 5 * time.Minute},
		{"ServerShutdownTimeout", ServerShutdownTimeout, 5 * time.Second, 2 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.timeout < tt.minValue {
				t.Errorf("%s (%v) is below minimum expected value (%v)", tt.name, tt.timeout, tt.minValue)
			}
			if tt.timeout > tt.maxValue {
				t.Errorf("%s (%v) is above maximum expected value (%v)", tt.name, tt.timeout, tt.maxValue)
			}
		})
	}
}

func TestProbeIntervalWithinTimeout(t *testing.T) {
	if ProbeRetryInterval >= ProbeTimeout {
		t.Errorf("ProbeRetryInterval (%v) should be less than ProbeTimeout (%v)",
			ProbeRetryInterval, ProbeTimeout)
	}
}

func TestPodPollWithinReadyTimeout(t *testing.T) {
	if K8sPodPollInterval >= K8sPodReadyTimeout {
		t.Errorf("K8sPodPollInterval (%v) should be less than K8sPodReadyTimeout (%v)",
			K8sPodPollInterval, K8sPodReadyTimeout)
	}
}
