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
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/baileyvw/nephos/pkg/errors"
	"github.com/baileyvw/nephos/pkg/serializer"
)

func TestParseOutputFormat(t *testing.T) {
	tests := map[string]struct {
		args []string
		want serializer.Format
		ok   bool
	}{
		"default":     {args: nil, want: serializer.FormatTable, ok: true},
		"yaml":        {args: []string{"--format", "yaml"}, want: serializer.FormatYAML, ok: true},
		"json alias":  {args: []string{"-t", "json"}, want: serializer.FormatJSON, ok: true},
		"unsupported": {args: []string{"--format", "xml"}},
		"empty":       {args: []string{"--format", ""}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var (
				got serializer.Format
				err error
			)
			cmd := &cli.Command{
				Flags: []cli.Flag{&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"t"},
					Value:   string(serializer.FormatTable),
				}},
				Action: func(_ context.Context, c *cli.Command) error {
					got, err = parseOutputFormat(c)
					return nil
				},
			}
			require.NoError(t, cmd.Run(context.Background(), append([]string{"nephos"}, tt.args...)))

			if !tt.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"plain error", fmt.Errorf("boom"), 1},
		{"canceled", context.Canceled, 2},
		{"wrapped deadline", errors.Wrap(errors.ErrCodeTimeout, "enroll", context.DeadlineExceeded), 2},
		{"structured", errors.New(errors.ErrCodeNotFound, "missing"), 1},
		{"pod wait timeout", fmt.Errorf("ca root-ca: %w", errors.New(errors.ErrCodeTimeout, "no running pod found")), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRootCommand(t *testing.T) {
	cmd := newRootCmd()
	if cmd.Name != name {
		t.Errorf("Name = %q, want %q", cmd.Name, name)
	}
	if cmd.Version == "" {
		t.Error("Version should be set")
	}

	var found bool
	for _, sub := range cmd.Commands {
		if sub.Name == "ca" {
			found = true
		}
	}
	if !found {
		t.Error("root command should register the ca command")
	}
}
