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

package cli

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/baileyvw/nephos/pkg/ca"
	"github.com/baileyvw/nephos/pkg/server"
)

// progress tracks a Setup run for the status endpoint.
type progress struct {
	mu        sync.Mutex
	total     int
	instances []ca.InstanceReport
	done      bool
	err       string
}

// progressStatus is the /status document.
type progressStatus struct {
	Total     int                 `json:"total"`
	Completed int                 `json:"completed"`
	Done      bool                `json:"done"`
	Error     string              `json:"error,omitempty"`
	Instances []ca.InstanceReport `json:"instances"`
}

func newProgress(total int) *progress {
	return &progress{total: total}
}

func (p *progress) observe(r ca.InstanceReport) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.instances = append(p.instances, r)
}

func (p *progress) finish(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done = true
	if err != nil {
		p.err = err.Error()
	}
}

// Status returns a snapshot of the run.
func (p *progress) Status() any {
	p.mu.Lock()
	defer p.mu.Unlock()

	instances := make([]ca.InstanceReport, len(p.instances))
	copy(instances, p.instances)
	return progressStatus{
		Total:     p.total,
		Completed: len(instances),
		Done:      p.done,
		Error:     p.err,
		Instances: instances,
	}
}

// runWithStatus runs fn while srv serves. The server keeps answering for
// linger after fn returns, then shuts down. A server failure cancels fn.
func runWithStatus(ctx context.Context, srv *server.Server, linger time.Duration, fn func(context.Context) error) error {
	ln, err := srv.Listen(ctx)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	srvCtx, stop := context.WithCancel(gctx)
	defer stop()

	var runErr error
	g.Go(func() error {
		return srv.Serve(srvCtx, ln)
	})
	g.Go(func() error {
		defer stop()
		runErr = fn(gctx)
		srv.SetReady(runErr == nil)
		if linger > 0 {
			slog.Info("keeping status server up", "linger", linger.String())
			select {
			case <-time.After(linger):
			case <-gctx.Done():
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	return runErr
}
