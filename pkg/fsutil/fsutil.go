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

package fsutil

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/baileyvw/nephos/pkg/errors"
)

// FindOne returns the single file matching pattern. No match is a
// NOT_FOUND error and more than one match is a CONFLICT error.
func FindOne(pattern string) (string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidRequest, "bad glob pattern", err)
	}

	switch len(matches) {
	case 0:
		return "", errors.NewWithContext(errors.ErrCodeNotFound, "no file matches pattern", map[string]any{
			"pattern": pattern,
		})
	case 1:
		return matches[0], nil
	default:
		sort.Strings(matches)
		return "", errors.NewWithContext(errors.ErrCodeConflict, "more than one file matches pattern", map[string]any{
			"pattern": pattern,
			"matches": matches,
		})
	}
}

// CopyFile copies src to dst, replacing dst. The mode of src is kept.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeNotFound, fmt.Sprintf("source file %s not found", src), err)
		}
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", src, err)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}

	n, err := io.Copy(out, in)
	if err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", dst, err)
	}

	slog.Debug("file copied",
		"src", src,
		"dst", dst,
		"size_bytes", n,
	)
	return nil
}

// EnsureDir creates dir and any missing parents.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}
