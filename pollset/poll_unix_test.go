/*
Copyright (c) Facebook, Inc. and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

//go:build !windows

package pollset

import (
	"testing"

	"golang.org/x/sys/unix"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitReportsReadySocket(t *testing.T) {
	fds, err := unixSocketpair()
	require.NoError(t, err)
	defer unix.Close(fds[0])
	defer unix.Close(fds[1])

	// an idle socket stands in for stdin: nothing is ever written to it, so
	// it never polls readable (unlike /dev/null, which always does).
	idle, err := unixSocketpair()
	require.NoError(t, err)
	defer unix.Close(idle[0])
	defer unix.Close(idle[1])

	s := New(idle[0])
	s.Register(0, KindEvent, fds[0])

	_, err = unix.Write(fds[1], []byte("x"))
	require.NoError(t, err)

	res, err := s.Wait()
	require.NoError(t, err)
	require.Len(t, res.Sockets, 1)
	assert.Equal(t, 0, res.Sockets[0].IfaceIdx)
	assert.Equal(t, KindEvent, res.Sockets[0].Kind)
	assert.False(t, res.Stdin)
}

func TestWaitReportsStdinReady(t *testing.T) {
	fds, err := unixSocketpair()
	require.NoError(t, err)
	defer unix.Close(fds[0])
	defer unix.Close(fds[1])

	s := New(fds[0])
	_, err = unix.Write(fds[1], []byte("y"))
	require.NoError(t, err)

	res, err := s.Wait()
	require.NoError(t, err)
	assert.True(t, res.Stdin)
	assert.Empty(t, res.Sockets)
}

func unixSocketpair() ([2]int, error) {
	return unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
}
