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

// Package retry provides the retry policy shared by the enrollment monitor
// and the readiness probe.
//
// A Policy waits a fixed interval between attempts on an injected
// k8s.io/utils/clock.Clock, so tests drive it with a fake clock instead of
// real sleeps:
//
//	p := retry.Policy{Interval: defaults.EnrollPollInterval}
//	err := p.Do(ctx, func(ctx context.Context, attempt int) (bool, error) {
//	    return ready(ctx)
//	})
package retry
