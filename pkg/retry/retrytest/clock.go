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

// Package retrytest provides a self-advancing fake clock for retry.Policy tests.
package retrytest

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	testingclock "k8s.io/utils/clock/testing"
)

// Clock is a fake clock that steps forward by a fixed amount whenever
// something is waiting on it, and counts how many waits it released.
type Clock struct {
	*testingclock.FakeClock

	step  time.Duration
	waits atomic.Int32
	stop  chan struct{}
	once  sync.Once
	done  chan struct{}
}

// NewClock starts a Clock that advances by step per pending wait.
// It is stopped automatically when the test finishes.
func NewClock(t testing.TB, step time.Duration) *Clock {
	c := &Clock{
		FakeClock: testingclock.NewFakeClock(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)),
		step:      step,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	go c.run()
	t.Cleanup(c.Stop)
	return c
}

func (c *Clock) run() {
	defer close(c.done)
	for {
		select {
		case <-c.stop:
			return
		default:
		}
		if c.HasWaiters() {
			c.waits.Add(1)
			c.Step(c.step)
			continue
		}
		time.Sleep(time.Millisecond)
	}
}

// Waits returns the number of waits released so far.
func (c *Clock) Waits() int {
	return int(c.waits.Load())
}

// Stop halts the background stepper.
func (c *Clock) Stop() {
	c.once.Do(func() {
		close(c.stop)
		<-c.done
	})
}
