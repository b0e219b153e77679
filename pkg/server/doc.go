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

// Package server provides the optional status endpoint of a bootstrap run.
//
// A bootstrap can spend minutes waiting for CA servers to start listening.
// When enabled, the server reports progress while the run is going on:
//
//	GET /health   always 200 while the process is up
//	GET /ready    200 once the bootstrap succeeded, 503 before
//	GET /status   per-instance progress as JSON
//	GET /metrics  Prometheus metrics
//
// /status and /metrics are rate limited (golang.org/x/time/rate), carry an
// X-Request-Id header and are instrumented with request metrics.
//
// Usage:
//
//	srv := server.New(server.WithAddress(":9090"), server.WithStatus(tracker.Status))
//	go srv.Start(ctx)
//	...
//	srv.SetReady(true)
package server
