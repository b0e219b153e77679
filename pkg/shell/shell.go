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

package shell

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/baileyvw/nephos/pkg/defaults"
	"github.com/baileyvw/nephos/pkg/errors"
	"github.com/baileyvw/nephos/pkg/retry"
)

// Runner executes a local program and returns its captured stdout.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// ExecRunner runs programs with os/exec.
type ExecRunner struct{}

// Run implements Runner. A non-zero exit is returned as an error carrying stderr.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return stdout.String(), errors.WrapWithContext(errors.ErrCodeInternal,
			fmt.Sprintf("command %s failed", name), err, map[string]any{
				"args":   strings.Join(args, " "),
				"stderr": strings.TrimSpace(stderr.String()),
			})
	}
	return stdout.String(), nil
}

// Retrier re-runs a shell command until it succeeds.
type Retrier struct {
	runner Runner
	policy retry.Policy
}

// Option configures a Retrier.
type Option func(*Retrier)

// WithRunner overrides the command runner.
func WithRunner(r Runner) Option {
	return func(rt *Retrier) {
		rt.runner = r
	}
}

// WithPolicy overrides the retry policy.
func WithPolicy(p retry.Policy) Option {
	return func(rt *Retrier) {
		rt.policy = p
	}
}

// NewRetrier returns a Retrier using sh -c and the default probe policy.
func NewRetrier(opts ...Option) *Retrier {
	rt := &Retrier{
		runner: ExecRunner{},
		policy: retry.Policy{
			Interval: defaults.ProbeRetryInterval,
			Timeout:  defaults.ProbeTimeout,
		},
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// RetryUntilSuccess runs command through "sh -c" until it exits 0 or the
// policy is exhausted. The last command error is attached to a timeout.
func (rt *Retrier) RetryUntilSuccess(ctx context.Context, command string, verbose bool) error {
	var lastErr error
	err := rt.policy.Do(ctx, func(ctx context.Context, attempt int) (bool, error) {
		out, runErr := rt.runner.Run(ctx, "sh", "-c", command)
		if runErr != nil {
			lastErr = runErr
			slog.Debug("command not yet successful",
				"command", command,
				"attempt", attempt,
				"error", runErr)
			return false, nil
		}
		if verbose {
			slog.Info("command succeeded", "command", command, "attempt", attempt, "output", out)
		}
		return true, nil
	})
	if err != nil && lastErr != nil && errors.IsCode(err, errors.ErrCodeTimeout) {
		return errors.WrapWithContext(errors.ErrCodeTimeout, "command never succeeded", lastErr,
			map[string]any{"command": command})
	}
	return err
}
