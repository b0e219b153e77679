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

package server

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/baileyvw/nephos/pkg/defaults"
)

// StatusFunc returns the document served on /status. It must be safe for
// concurrent use.
type StatusFunc func() any

// Config holds server configuration.
type Config struct {
	// Server identity
	Name    string
	Version string

	// Address is the host:port to listen on.
	Address string

	// Status produces the /status document. Nil serves an empty object.
	Status StatusFunc

	// Rate limiting of the instrumented endpoints
	RateLimit      rate.Limit // requests per second
	RateLimitBurst int        // burst size

	// Timeouts
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
}

// Option configures a Server.
type Option func(*Config)

// WithAddress sets the listen address.
func WithAddress(addr string) Option {
	return func(c *Config) {
		c.Address = addr
	}
}

// WithName sets the name and version reported on the root route.
func WithName(name, version string) Option {
	return func(c *Config) {
		c.Name = name
		c.Version = version
	}
}

// WithStatus sets the /status document source.
func WithStatus(fn StatusFunc) Option {
	return func(c *Config) {
		c.Status = fn
	}
}

// WithRateLimit sets the sustained rate and burst of instrumented endpoints.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(c *Config) {
		c.RateLimit = limit
		c.RateLimitBurst = burst
	}
}

func newConfig(opts ...Option) *Config {
	cfg := &Config{
		Name:              "nephos",
		Version:           "dev",
		Address:           ":9090",
		RateLimit:         20,
		RateLimitBurst:    40,
		ReadHeaderTimeout: defaults.ServerReadHeaderTimeout,
		WriteTimeout:      defaults.ServerWriteTimeout,
		IdleTimeout:       defaults.ServerIdleTimeout,
		ShutdownTimeout:   defaults.ServerShutdownTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
