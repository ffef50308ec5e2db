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

package netutil

import (
	"net"
	"testing"

	"golang.org/x/sys/unix"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryInterfacesReturnsUpInterfaces(t *testing.T) {
	infos, err := QueryInterfaces()
	require.NoError(t, err)
	for _, info := range infos {
		assert.NotEmpty(t, info.Name)
		assert.NotNil(t, info.IPv4)
	}
}

func TestByNameNotFound(t *testing.T) {
	_, err := ByName(nil, "nonexistent0")
	require.Error(t, err)
}

func TestByNameFound(t *testing.T) {
	infos := []InterfaceInfo{{Name: "eth0", Index: 2}}
	got, err := ByName(infos, "eth0")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Index)
}

// TestCreateUDPSocketBindsAndCloses exercises socket creation end to end on
// an ephemeral port, since binding 319/320 in a test process usually
// requires root.
func TestCreateUDPSocketBindsAndCloses(t *testing.T) {
	fd, err := CreateUDPSocket(net.IPv4zero, 0, 1)
	require.NoError(t, err)
	defer unix.Close(fd)

	sa, err := unix.Getsockname(fd)
	require.NoError(t, err)
	addr, ok := sa.(*unix.SockaddrInet4)
	require.True(t, ok)
	assert.NotZero(t, addr.Port)
}

func TestJoinMulticastOnLoopback(t *testing.T) {
	lo, err := net.InterfaceByName("lo")
	if err != nil {
		t.Skip("no loopback interface available in this environment")
	}
	fd, err := CreateUDPSocket(net.IPv4zero, 0, 1)
	require.NoError(t, err)
	defer unix.Close(fd)

	info := InterfaceInfo{Name: lo.Name, Index: lo.Index, IPv4: net.IPv4(127, 0, 0, 1)}
	err = JoinMulticast(fd, net.ParseIP(MulticastGroup), info)
	assert.NoError(t, err)
}
