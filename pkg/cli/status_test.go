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
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baileyvw/nephos/pkg/ca"
	"github.com/baileyvw/nephos/pkg/server"
)

func TestProgress(t *testing.T) {
	p := newProgress(2)
	p.observe(ca.InstanceReport{Release: "root-ca", Enrolled: true})

	st := p.Status().(progressStatus)
	assert.Equal(t, 2, st.Total)
	assert.Equal(t, 1, st.Completed)
	assert.False(t, st.Done)
	require.Len(t, st.Instances, 1)
	assert.Equal(t, "root-ca", st.Instances[0].Release)

	// Snapshots are detached from later updates.
	st.Instances[0].Release = "mutated"
	p.observe(ca.InstanceReport{Release: "int-ca", Error: "boom"})
	p.finish(fmt.Errorf("boom"))

	st = p.Status().(progressStatus)
	assert.Equal(t, 2, st.Completed)
	assert.True(t, st.Done)
	assert.Equal(t, "boom", st.Error)
	assert.Equal(t, "root-ca", st.Instances[0].Release)
}

func freeAddress(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return addr
}

func TestRunWithStatus(t *testing.T) {
	t.Run("serves while running", func(t *testing.T) {
		addr := freeAddress(t)
		p := newProgress(1)
		srv := server.New(server.WithAddress(addr), server.WithStatus(p.Status))

		var body string
		err := runWithStatus(context.Background(), srv, 0, func(context.Context) error {
			resp, err := http.Get("http://" + addr + "/status")
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			b, err := io.ReadAll(resp.Body)
			body = string(b)
			return err
		})
		require.NoError(t, err)
		assert.Contains(t, body, `"total":1`)
	})

	t.Run("run error is returned", func(t *testing.T) {
		srv := server.New(server.WithAddress(freeAddress(t)))
		err := runWithStatus(context.Background(), srv, 0, func(context.Context) error {
			return fmt.Errorf("enroll failed")
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "enroll failed")
	})

	t.Run("linger ends on cancel", func(t *testing.T) {
		srv := server.New(server.WithAddress(freeAddress(t)))
		ctx, cancel := context.WithCancel(context.Background())

		start := time.Now()
		err := runWithStatus(ctx, srv, time.Hour, func(context.Context) error {
			cancel()
			return nil
		})
		require.NoError(t, err)
		assert.Less(t, time.Since(start), time.Minute)
	})

	t.Run("address in use", func(t *testing.T) {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		defer ln.Close()

		called := false
		srv := server.New(server.WithAddress(ln.Addr().String()))
		err = runWithStatus(context.Background(), srv, 0, func(context.Context) error {
			called = true
			return nil
		})
		require.Error(t, err)
		assert.False(t, called)
	})
}
