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

//go:build windows

package netutil

import (
	"net"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/pkg/errors"
)

// ws2_32's ioctlsocket isn't wrapped by golang.org/x/sys/windows; resolved
// directly to flip the socket into non-blocking mode (FIONBIO).
var (
	ws2_32          = syscall.NewLazyDLL("ws2_32.dll")
	procIoctlsocket = ws2_32.NewProc("ioctlsocket")
)

const fionbio = 0x8004667e

func setNonblocking(fd windows.Handle) error {
	var enable uint32 = 1
	r, _, callErr := procIoctlsocket.Call(uintptr(fd), uintptr(fionbio), uintptr(unsafe.Pointer(&enable)))
	if r != 0 {
		return callErr
	}
	return nil
}

// CreateUDPSocket mirrors the Unix implementation using the winsock calls
// golang.org/x/sys/windows exposes. Windows has no SO_REUSEPORT or
// multicast-TTL-before-bind subtlety, so this is a smaller surface than its
// Unix counterpart. ttl sets both the unicast and multicast TTL.
func CreateUDPSocket(ip net.IP, port int, ttl int) (windows.Handle, error) {
	fd, err := windows.Socket(windows.AF_INET, windows.SOCK_DGRAM, windows.IPPROTO_UDP)
	if err != nil {
		return windows.InvalidHandle, errors.Wrap(err, "creating UDP socket")
	}
	SetReuse(fd)

	if err := windows.SetsockoptInt(fd, windows.IPPROTO_IP, windows.IP_TTL, ttl); err != nil {
		windows.Closesocket(fd)
		return windows.InvalidHandle, errors.Wrap(err, "setting unicast TTL")
	}
	if err := windows.SetsockoptInt(fd, windows.IPPROTO_IP, windows.IP_MULTICAST_TTL, ttl); err != nil {
		windows.Closesocket(fd)
		return windows.InvalidHandle, errors.Wrap(err, "setting multicast TTL")
	}
	if err := setNonblocking(fd); err != nil {
		windows.Closesocket(fd)
		return windows.InvalidHandle, errors.Wrap(err, "setting socket non-blocking")
	}

	var addr windows.SockaddrInet4
	addr.Port = port
	v4 := ip.To4()
	if v4 == nil {
		v4 = net.IPv4zero.To4()
	}
	copy(addr.Addr[:], v4)
	if err := windows.Bind(fd, &addr); err != nil {
		windows.Closesocket(fd)
		return windows.InvalidHandle, errors.Wrapf(err, "binding socket to %s:%d", ip, port)
	}
	return fd, nil
}

// JoinMulticast joins fd to group, keyed on the interface's own IPv4 address
// since ip_mreqn has no Windows equivalent.
func JoinMulticast(fd windows.Handle, group net.IP, iface InterfaceInfo) error {
	groupV4 := group.To4()
	if groupV4 == nil {
		return errors.Errorf("multicast group %s is not an IPv4 address", group)
	}
	var mreq windows.IPMreq
	copy(mreq.Multiaddr[:], groupV4)
	if iface.IPv4 != nil {
		copy(mreq.Interface[:], iface.IPv4.To4())
	}
	if err := windows.SetsockoptIPMreq(fd, windows.IPPROTO_IP, windows.IP_ADD_MEMBERSHIP, &mreq); err != nil {
		return errors.Wrapf(err, "joining multicast group %s on %s", group, iface.Name)
	}
	return nil
}

// SetReuse applies SO_REUSEADDR. Windows has no SO_REUSEPORT; SO_REUSEADDR
// alone is weaker (it permits silently stealing another socket's bind) but
// is the best this platform offers.
func SetReuse(fd windows.Handle) {
	_ = windows.SetsockoptInt(fd, windows.SOL_SOCKET, windows.SO_REUSEADDR, 1)
}

// EnableDSCP marks outbound packets on fd with the given DSCP codepoint.
func EnableDSCP(fd windows.Handle, dscp int) error {
	if dscp == 0 {
		return nil
	}
	if err := windows.SetsockoptInt(fd, windows.IPPROTO_IP, windows.IP_TOS, dscp<<2); err != nil {
		return errors.Wrap(err, "setting DSCP codepoint")
	}
	return nil
}
