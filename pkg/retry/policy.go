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

package retry

import (
	"context"
	"time"

	"k8s.io/utils/clock"

	"github.com/baileyvw/nephos/pkg/errors"
)

// Policy describes how long and how often an operation is retried.
// A zero MaxAttempts or Timeout leaves that dimension unbounded.
type Policy struct {
	// Interval is the fixed wait between two attempts.
	Interval time.Duration

	// MaxAttempts caps the number of attempts (0 for unlimited).
	MaxAttempts int

	// Timeout caps the total elapsed time (0 for unlimited).
	Timeout time.Duration

	// Clock is used for all waits. Defaults to the real clock.
	Clock clock.Clock
}

// Func is one attempt. It returns done=true to stop retrying, or a non-nil
// error to abort immediately.
type Func func(ctx context.Context, attempt int) (done bool, err error)

func (p Policy) clock() clock.Clock {
	if p.Clock == nil {
		return clock.RealClock{}
	}
	return p.Clock
}

// Wait blocks for one interval or until ctx is done.
func (p Policy) Wait(ctx context.Context) error {
	timer := p.clock().NewTimer(p.Interval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C():
		return nil
	}
}

// Do runs fn until it reports done, returns an error, or the policy is exhausted.
func (p Policy) Do(ctx context.Context, fn Func) error {
	clk := p.clock()
	start := clk.Now()

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		done, err := fn(ctx, attempt)
		if err != nil {
			return err
		}
		if done {
			return nil
		}

		if p.MaxAttempts > 0 && attempt >= p.MaxAttempts {
			return errors.NewWithContext(errors.ErrCodeTimeout, "retry attempts exhausted", map[string]any{
				"attempts": attempt,
			})
		}
		if p.Timeout > 0 && clk.Since(start) >= p.Timeout {
			return errors.NewWithContext(errors.ErrCodeTimeout, "retry timeout exceeded", map[string]any{
				"attempts": attempt,
				"timeout":  p.Timeout.String(),
			})
		}

		if err := p.Wait(ctx); err != nil {
			return err
		}
	}
}
