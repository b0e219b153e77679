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

package helm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/baileyvw/nephos/pkg/defaults"
	"github.com/baileyvw/nephos/pkg/errors"
	"github.com/baileyvw/nephos/pkg/shell"
	"github.com/baileyvw/nephos/pkg/version"
)

// MinimumVersion is the oldest helm client whose command line Client speaks.
var MinimumVersion = version.MustParse("v3.0.0")

// Value sets a chart value path to a literal.
type Value struct {
	Path  string
	Value string
}

// Preserve carries a value over from a live secret on upgrade: Key is read
// from Secret and written to the chart value Path.
type Preserve struct {
	Secret string
	Key    string
	Path   string
}

// Request describes one chart install or upgrade.
type Request struct {
	Repo       string
	Chart      string
	Release    string
	Namespace  string
	ValuesFile string
	Values     []Value
	Preserve   []Preserve
	Verbose    bool
}

// ChartRef returns the repo-qualified chart name.
func (r Request) ChartRef() string {
	if r.Repo == "" {
		return r.Chart
	}
	return r.Repo + "/" + r.Chart
}

// SecretReader reads the decoded data of a secret.
type SecretReader interface {
	ReadSecret(ctx context.Context, name, namespace string, verbose bool) (map[string]string, error)
}

// Client drives the helm binary.
type Client struct {
	runner  shell.Runner
	secrets SecretReader
	binary  string
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithRunner overrides the command runner.
func WithRunner(r shell.Runner) Option {
	return func(c *Client) {
		c.runner = r
	}
}

// WithBinary overrides the helm executable name or path.
func WithBinary(path string) Option {
	return func(c *Client) {
		c.binary = path
	}
}

// WithTimeout bounds every helm invocation.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// NewClient returns a Client reading preserved values through secrets.
func NewClient(secrets SecretReader, opts ...Option) *Client {
	c := &Client{
		runner:  shell.ExecRunner{},
		secrets: secrets,
		binary:  "helm",
		timeout: defaults.HelmCommandTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Version returns the version of the helm client.
func (c *Client) Version(ctx context.Context) (version.Version, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out, err := c.runner.Run(ctx, c.binary, "version", "--short")
	if err != nil {
		return version.Version{}, errors.Wrap(errors.ErrCodeUnavailable, "helm client unavailable", err)
	}
	return parseClientVersion(out)
}

// CheckVersion fails when the helm client is older than MinimumVersion.
func (c *Client) CheckVersion(ctx context.Context) error {
	v, err := c.Version(ctx)
	if err != nil {
		return err
	}
	if !v.AtLeast(MinimumVersion) {
		return errors.NewWithContext(errors.ErrCodeInvalidRequest, "unsupported helm version", map[string]any{
			"version": v.String(),
			"minimum": MinimumVersion.String(),
		})
	}
	slog.Debug("helm client version", "version", v.String(), "binary", c.binary)
	return nil
}

// parseClientVersion reads "v3.14.2+g3fc9f4b" and the helm 2 form
// "Client: v2.16.1+gbbdfe5e".
func parseClientVersion(out string) (version.Version, error) {
	line, _, _ := strings.Cut(strings.TrimSpace(out), "\n")
	return version.Parse(strings.TrimPrefix(line, "Client: "))
}

// Install installs the chart unless the release already exists, in which
// case it is left untouched.
func (c *Client) Install(ctx context.Context, req Request) error {
	if err := validate(req); err != nil {
		return err
	}

	installed, err := c.installed(ctx, req)
	if err != nil {
		return err
	}
	if installed {
		c.log(req.Verbose, "release already installed", "release", req.Release, "namespace", req.Namespace)
		return nil
	}

	args := []string{"install", req.Release, req.ChartRef(), "--namespace", req.Namespace}
	args = append(args, valueArgs(req.ValuesFile, req.Values)...)
	return c.run(ctx, req, args)
}

// Upgrade upgrades the release, carrying over every Preserve entry from its
// live secret.
func (c *Client) Upgrade(ctx context.Context, req Request) error {
	if err := validate(req); err != nil {
		return err
	}

	values := make([]Value, 0, len(req.Values)+len(req.Preserve))
	values = append(values, req.Values...)
	for _, p := range req.Preserve {
		v, err := c.resolve(ctx, req, p)
		if err != nil {
			return err
		}
		values = append(values, v)
	}

	args := []string{"upgrade", req.Release, req.ChartRef(), "--namespace", req.Namespace}
	args = append(args, valueArgs(req.ValuesFile, values)...)
	return c.run(ctx, req, args)
}

func (c *Client) resolve(ctx context.Context, req Request, p Preserve) (Value, error) {
	data, err := c.secrets.ReadSecret(ctx, p.Secret, req.Namespace, req.Verbose)
	if err != nil {
		return Value{}, err
	}
	v, ok := data[p.Key]
	if !ok {
		return Value{}, errors.NewWithContext(errors.ErrCodeNotFound, "preserved key missing from secret", map[string]any{
			"secret":    p.Secret,
			"key":       p.Key,
			"namespace": req.Namespace,
		})
	}
	return Value{Path: p.Path, Value: v}, nil
}

func (c *Client) installed(ctx context.Context, req Request) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	_, err := c.runner.Run(ctx, c.binary, "status", req.Release, "--namespace", req.Namespace)
	if err == nil {
		return true, nil
	}
	// helm reports a missing release with a non-zero exit; a canceled
	// context is not a missing release.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return false, errors.Wrap(errors.ErrCodeTimeout, "helm status interrupted", ctxErr)
	}
	return false, nil
}

func (c *Client) run(ctx context.Context, req Request, args []string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	out, err := c.runner.Run(ctx, c.binary, args...)
	if err != nil {
		return errors.WrapWithContext(errors.ErrCodeInternal, fmt.Sprintf("helm %s failed", args[0]), err, map[string]any{
			"release":   req.Release,
			"chart":     req.ChartRef(),
			"namespace": req.Namespace,
		})
	}

	c.log(req.Verbose, "helm "+args[0]+" completed",
		"release", req.Release,
		"chart", req.ChartRef(),
		"duration", time.Since(start).String())
	if req.Verbose {
		slog.Info("helm output", "release", req.Release, "output", strings.TrimSpace(out))
	}
	return nil
}

func (c *Client) log(verbose bool, msg string, args ...any) {
	if verbose {
		slog.Info(msg, args...)
		return
	}
	slog.Debug(msg, args...)
}

func validate(req Request) error {
	var missing []string
	if req.Chart == "" {
		missing = append(missing, "chart")
	}
	if req.Release == "" {
		missing = append(missing, "release")
	}
	if req.Namespace == "" {
		missing = append(missing, "namespace")
	}
	if len(missing) > 0 {
		return errors.New(errors.ErrCodeInvalidRequest, "helm request missing "+strings.Join(missing, ", "))
	}
	return nil
}

// valueArgs renders the values file and literal values. Literals use
// --set-string so passwords that look numeric stay strings.
func valueArgs(file string, values []Value) []string {
	var args []string
	if file != "" {
		args = append(args, "-f", file)
	}
	for _, v := range values {
		args = append(args, "--set-string", v.Path+"="+escapeValue(v.Value))
	}
	return args
}

var setEscaper = strings.NewReplacer(`\`, `\\`, `,`, `\,`)

func escapeValue(v string) string {
	return setEscaper.Replace(v)
}
