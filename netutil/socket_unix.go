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

	"golang.org/x/sys/unix"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// CreateUDPSocket opens an AF_INET/SOCK_DGRAM socket bound to ip:port. Reuse
// options are applied before bind, as the kernel ignores them afterwards. ttl
// sets both the unicast and multicast TTL, per the operator-configurable
// --ttl flag (default 1).
func CreateUDPSocket(ip net.IP, port int, ttl int) (int, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_DGRAM, unix.IPPROTO_UDP)
	if err != nil {
		return -1, errors.Wrap(err, "creating UDP socket")
	}
	SetReuse(fd)
	applyPlatformSockopts(fd)

	if err := unix.SetsockoptInt(fd, unix.IPPROTO_IP, unix.IP_TTL, ttl); err != nil {
		unix.Close(fd)
		return -1, errors.Wrap(err, "setting unicast TTL")
	}
	if err := unix.SetsockoptInt(fd, unix.IPPROTO_IP, unix.IP_MULTICAST_TTL, ttl); err != nil {
		unix.Close(fd)
		return -1, errors.Wrap(err, "setting multicast TTL")
	}
	if err := unix.SetNonblock(fd, true); err != nil {
		unix.Close(fd)
		return -1, errors.Wrap(err, "setting socket non-blocking")
	}

	var addr unix.SockaddrInet4
	addr.Port = port
	v4 := ip.To4()
	if v4 == nil {
		v4 = net.IPv4zero.To4()
	}
	copy(addr.Addr[:], v4)
	if err := unix.Bind(fd, &addr); err != nil {
		unix.Close(fd)
		return -1, errors.Wrapf(err, "binding socket to %s:%d", ip, port)
	}
	return fd, nil
}

// JoinMulticast joins fd to group on the interface identified by ifindex.
// ip_mreqn (keyed on interface index) is tried first; platforms that lack it
// fall back to ip_mreq keyed on the interface's own IPv4 address. A failure
// to join is fatal: an event socket that can't see multicast traffic is
// useless to the main loop.
func JoinMulticast(fd int, group net.IP, iface InterfaceInfo) error {
	groupV4 := group.To4()
	if groupV4 == nil {
		return errors.Errorf("multicast group %s is not an IPv4 address", group)
	}
	if err := joinMreqn(fd, groupV4, iface.Index); err == nil {
		return nil
	}
	var mreq unix.IPMreq
	copy(mreq.Multiaddr[:], groupV4)
	if iface.IPv4 != nil {
		copy(mreq.Interface[:], iface.IPv4.To4())
	}
	if err := unix.SetsockoptIPMreq(fd, unix.IPPROTO_IP, unix.IP_ADD_MEMBERSHIP, &mreq); err != nil {
		return errors.Wrapf(err, "joining multicast group %s on %s", group, iface.Name)
	}
	return nil
}

func joinMreqn(fd int, groupV4 net.IP, ifindex int) error {
	var mreq unix.IPMreqn
	copy(mreq.Multiaddr[:], groupV4)
	mreq.Ifindex = int32(ifindex)
	return unix.SetsockoptIPMreqn(fd, unix.IPPROTO_IP, unix.IP_ADD_MEMBERSHIP, &mreq)
}

// SetReuse applies SO_REUSEADDR and, where the platform has it, SO_REUSEPORT.
// Best-effort: some kernels refuse the combination silently, so a failure is
// logged as a warning and is never fatal.
func SetReuse(fd int) {
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		log.Warningf("setting SO_REUSEADDR: %v", err)
	}
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEPORT, 1); err != nil {
		log.Warningf("setting SO_REUSEPORT: %v", err)
	}
}

// EnableDSCP marks outbound packets on fd with the given DSCP codepoint.
// dscp 0 is a no-op, matching the helper's "leave untouched" default.
func EnableDSCP(fd int, dscp int) error {
	if dscp == 0 {
		return nil
	}
	if err := unix.SetsockoptInt(fd, unix.IPPROTO_IP, unix.IP_TOS, dscp<<2); err != nil {
		return errors.Wrap(err, "setting DSCP codepoint")
	}
	return nil
}
