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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baileyvw/nephos/pkg/errors"
)

func touch(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestFindOne(t *testing.T) {
	tests := []struct {
		name     string
		files    []string
		want     string
		wantCode errors.ErrorCode
	}{
		{
			name:  "single key",
			files: []string{"keystore/abc_sk"},
			want:  "keystore/abc_sk",
		},
		{
			name:     "no key",
			files:    []string{"keystore/README"},
			wantCode: errors.ErrCodeNotFound,
		},
		{
			name:     "missing directory",
			wantCode: errors.ErrCodeNotFound,
		},
		{
			name:     "two keys",
			files:    []string{"keystore/abc_sk", "keystore/def_sk"},
			wantCode: errors.ErrCodeConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for _, f := range tt.files {
				touch(t, filepath.Join(dir, f), "key")
			}

			got, err := FindOne(filepath.Join(dir, "keystore", "*_sk"))
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, tt.wantCode), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, tt.want), got)
		})
	}
}

func TestFindOne_BadPattern(t *testing.T) {
	_, err := FindOne("[")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidRequest))
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "signcerts", "cert.pem")
	touch(t, src, "-----BEGIN CERTIFICATE-----")

	dst := filepath.Join(dir, "admincerts", "cert.pem")
	require.NoError(t, EnsureDir(filepath.Dir(dst)))

	// An existing destination is replaced.
	touch(t, dst, "stale content that is longer than the certificate")
	require.NoError(t, CopyFile(src, dst))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "-----BEGIN CERTIFICATE-----", string(got))
}

func TestCopyFile_MissingSource(t *testing.T) {
	dir := t.TempDir()
	err := CopyFile(filepath.Join(dir, "nope.pem"), filepath.Join(dir, "out.pem"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "msp", "admincerts")
	require.NoError(t, EnsureDir(dir))
	require.NoError(t, EnsureDir(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
