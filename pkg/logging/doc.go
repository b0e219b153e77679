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

// Package logging provides structured logging utilities for nephos.
//
// It wraps the standard library slog package with JSON output to stderr,
// module/version context on every record and LOG_LEVEL based configuration.
// Debug level adds source locations.
//
// Setting the default logger early in main:
//
//	logging.SetDefaultStructuredLoggerWithLevel("nephos", version, "info")
//	slog.Info("deploying chart", "release", "root-ca")
//
// Supported levels (case-insensitive): debug, info (default), warn/warning, error.
package logging
