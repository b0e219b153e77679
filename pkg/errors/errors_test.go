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

package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructuredError(t *testing.T) {
	exit := errors.New("exit status 1")

	tests := []struct {
		name    string
		err     *StructuredError
		code    ErrorCode
		message string
		cause   error
		context map[string]any
	}{
		{
			name:    "new",
			err:     New(ErrCodeNotFound, "secret not found"),
			code:    ErrCodeNotFound,
			message: "[NOT_FOUND] secret not found",
		},
		{
			name:    "new with context",
			err:     NewWithContext(ErrCodeConflict, "several keys", map[string]any{"matches": 2}),
			code:    ErrCodeConflict,
			message: "[CONFLICT] several keys",
			context: map[string]any{"matches": 2},
		},
		{
			name:    "wrap",
			err:     Wrap(ErrCodeInternal, "chart install failed", exit),
			code:    ErrCodeInternal,
			message: "[INTERNAL] chart install failed: exit status 1",
			cause:   exit,
		},
		{
			name:    "wrap with context",
			err:     WrapWithContext(ErrCodeTimeout, "enroll", exit, map[string]any{"release": "root-ca"}),
			code:    ErrCodeTimeout,
			message: "[TIMEOUT] enroll: exit status 1",
			cause:   exit,
			context: map[string]any{"release": "root-ca"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.message, tt.err.Error())
			assert.Equal(t, tt.context, tt.err.Context)
			if tt.cause == nil {
				assert.Nil(t, tt.err.Unwrap())
				return
			}
			require.ErrorIs(t, tt.err, tt.cause)
			assert.Same(t, tt.cause, tt.err.Unwrap())
		})
	}
}

func TestIsCode(t *testing.T) {
	inner := New(ErrCodeNotFound, "ingress missing")
	tests := []struct {
		name string
		err  error
		code ErrorCode
		want bool
	}{
		{name: "nil error", err: nil, code: ErrCodeNotFound, want: false},
		{name: "plain error", err: errors.New("boom"), code: ErrCodeNotFound, want: false},
		{name: "direct match", err: inner, code: ErrCodeNotFound, want: true},
		{name: "direct mismatch", err: inner, code: ErrCodeConflict, want: false},
		{name: "fmt wrapped", err: fmt.Errorf("setup: %w", inner), code: ErrCodeNotFound, want: true},
		{name: "nested structured", err: Wrap(ErrCodeInternal, "outer", inner), code: ErrCodeNotFound, want: true},
		{name: "nested outer code", err: Wrap(ErrCodeInternal, "outer", inner), code: ErrCodeInternal, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsCode(tt.err, tt.code); got != tt.want {
				t.Errorf("IsCode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCodeOf(t *testing.T) {
	inner := New(ErrCodeNotFound, "keystore empty")

	if got := CodeOf(nil); got != "" {
		t.Errorf("CodeOf(nil) = %q, want empty", got)
	}
	if got := CodeOf(errors.New("boom")); got != "" {
		t.Errorf("CodeOf(plain) = %q, want empty", got)
	}
	if got := CodeOf(fmt.Errorf("ca root-ca: %w", inner)); got != ErrCodeNotFound {
		t.Errorf("CodeOf(fmt wrapped) = %q, want %q", got, ErrCodeNotFound)
	}
	if got := CodeOf(Wrap(ErrCodeInternal, "export failed", inner)); got != ErrCodeInternal {
		t.Errorf("CodeOf(nested) = %q, want %q", got, ErrCodeInternal)
	}
}

func TestContextOf(t *testing.T) {
	inner := NewWithContext(ErrCodeNotFound, "secret missing", map[string]any{
		"secret":    "root-ca-pg-postgresql",
		"namespace": "inner",
	})
	outer := WrapWithContext(ErrCodeInternal, "deploy failed", fmt.Errorf("helm: %w", inner), map[string]any{
		"namespace": "blockchain",
	})

	got := ContextOf(outer)
	if got["secret"] != "root-ca-pg-postgresql" {
		t.Errorf("secret = %v, want root-ca-pg-postgresql", got["secret"])
	}
	if got["namespace"] != "blockchain" {
		t.Errorf("namespace = %v, outer value should win", got["namespace"])
	}

	if n := len(ContextOf(errors.New("boom"))); n != 0 {
		t.Errorf("ContextOf(plain) has %d keys, want 0", n)
	}
}
