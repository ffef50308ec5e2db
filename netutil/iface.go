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

package netutil

import (
	"fmt"
	"net"

	"github.com/pkg/errors"
)

// InterfaceInfo describes one interface selected to carry PTP traffic.
type InterfaceInfo struct {
	Name  string
	Index int
	IPv4  net.IP
	MAC   net.HardwareAddr // nil if the OS doesn't expose one (rare, e.g. some tunnel types)
}

// QueryInterfaces enumerates the host's up, non-loopback, multicast-capable,
// IPv4-addressed interfaces. Unlike the raw getifaddrs/GetAdaptersAddresses
// walk this is modeled on, net.Interfaces already merges per-name entries
// and filters tombstoned/unconfigured adapters, so there is no separate
// "discard broadcast placeholder" step here.
func QueryInterfaces() ([]InterfaceInfo, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, errors.Wrap(err, "listing network interfaces")
	}
	var out []InterfaceInfo
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 {
			continue
		}
		if iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		if iface.Flags&net.FlagMulticast == 0 {
			continue
		}
		ip, err := primaryIPv4(iface)
		if err != nil {
			continue
		}
		out = append(out, InterfaceInfo{
			Name:  iface.Name,
			Index: iface.Index,
			IPv4:  ip,
			MAC:   iface.HardwareAddr,
		})
	}
	return out, nil
}

// primaryIPv4 returns the first non-link-local IPv4 address bound to iface.
func primaryIPv4(iface net.Interface) (net.IP, error) {
	addrs, err := iface.Addrs()
	if err != nil {
		return nil, errors.Wrapf(err, "listing addresses on %s", iface.Name)
	}
	for _, a := range addrs {
		ipNet, ok := a.(*net.IPNet)
		if !ok {
			continue
		}
		v4 := ipNet.IP.To4()
		if v4 == nil || v4.IsLinkLocalUnicast() {
			continue
		}
		return v4, nil
	}
	return nil, fmt.Errorf("interface %s has no usable IPv4 address", iface.Name)
}

// ByName looks up one selected interface by name among those QueryInterfaces
// would return. Used to resolve the -i/--interface flag's operand to a
// kernel index for the multicast join.
func ByName(infos []InterfaceInfo, name string) (InterfaceInfo, error) {
	for _, info := range infos {
		if info.Name == name {
			return info, nil
		}
	}
	return InterfaceInfo{}, fmt.Errorf("interface %q not found among up/multicast-capable interfaces", name)
}
