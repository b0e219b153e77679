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
	stderrors "errors"
	"fmt"
	"maps"
)

// ErrorCode classifies a failure so callers can branch on it.
type ErrorCode string

const (
	// ErrCodeNotFound: a secret, file, pod or other resource does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeTimeout: a wait ran out of time or attempts.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeInternal: a collaborator failed in an unexpected way.
	ErrCodeInternal ErrorCode = "INTERNAL"
	// ErrCodeInvalidRequest: settings, flags or arguments are unusable.
	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"
	// ErrCodeConflict: several candidates matched where exactly one was required.
	ErrCodeConflict ErrorCode = "CONFLICT"
	// ErrCodeUnavailable: a resource exists but is not ready to serve yet.
	ErrCodeUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
)

// StructuredError carries a code, a message, an optional cause and optional
// key-value context for logs.
type StructuredError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]any
}

// Error formats as "[CODE] message" followed by ": cause" when wrapped.
func (e *StructuredError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// New returns an error without cause.
func New(code ErrorCode, message string) *StructuredError {
	return WrapWithContext(code, message, nil, nil)
}

// NewWithContext returns an error without cause, with context.
func NewWithContext(code ErrorCode, message string, context map[string]any) *StructuredError {
	return WrapWithContext(code, message, nil, context)
}

// Wrap classifies cause under code.
func Wrap(code ErrorCode, message string, cause error) *StructuredError {
	return WrapWithContext(code, message, cause, nil)
}

// WrapWithContext classifies cause under code, with context.
func WrapWithContext(code ErrorCode, message string, cause error, context map[string]any) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
		Cause:   cause,
		Context: context,
	}
}

// IsCode reports whether any StructuredError in err's chain carries code.
func IsCode(err error, code ErrorCode) bool {
	for se := range chain(err) {
		if se.Code == code {
			return true
		}
	}
	return false
}

// CodeOf returns the code of the outermost StructuredError in err's chain,
// or "" when there is none.
func CodeOf(err error) ErrorCode {
	for se := range chain(err) {
		return se.Code
	}
	return ""
}

// ContextOf merges the context of every StructuredError in err's chain.
// Outer values win over inner ones.
func ContextOf(err error) map[string]any {
	var all []*StructuredError
	for se := range chain(err) {
		all = append(all, se)
	}

	merged := make(map[string]any)
	for i := len(all) - 1; i >= 0; i-- {
		maps.Copy(merged, all[i].Context)
	}
	return merged
}

// chain yields every StructuredError reachable from err, outermost first.
func chain(err error) func(yield func(*StructuredError) bool) {
	return func(yield func(*StructuredError) bool) {
		for err != nil {
			var se *StructuredError
			if !stderrors.As(err, &se) {
				return
			}
			if !yield(se) {
				return
			}
			err = se.Cause
		}
	}
}
