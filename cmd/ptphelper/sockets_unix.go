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

package main

import (
	"net"

	"golang.org/x/sys/unix"

	"github.com/pkg/errors"

	"github.com/ptpmesh/ptphelper/netutil"
	"github.com/ptpmesh/ptphelper/pollset"
)

// endpoint is one selected interface's pair of bound, joined sockets.
type endpoint struct {
	ifaceIdx  int
	info      netutil.InterfaceInfo
	eventFD   int
	generalFD int
}

// setupSockets creates and binds the event (319) and general (320) sockets
// for every selected interface. It must run before privileges are dropped:
// binding those ports needs elevation on most systems.
func setupSockets(cfg *config, ifaces []netutil.InterfaceInfo) ([]endpoint, error) {
	eps := make([]endpoint, 0, len(ifaces))
	for i, iface := range ifaces {
		eventFD, err := netutil.CreateUDPSocket(net.IPv4zero, netutil.EventPort, cfg.TTL)
		if err != nil {
			return nil, errors.Wrapf(err, "opening event socket for %s", iface.Name)
		}
		if err := netutil.EnableDSCP(eventFD, cfg.DSCP); err != nil {
			unix.Close(eventFD)
			return nil, err
		}

		generalFD, err := netutil.CreateUDPSocket(net.IPv4zero, netutil.GeneralPort, cfg.TTL)
		if err != nil {
			unix.Close(eventFD)
			return nil, errors.Wrapf(err, "opening general socket for %s", iface.Name)
		}
		if err := netutil.EnableDSCP(generalFD, cfg.DSCP); err != nil {
			unix.Close(eventFD)
			unix.Close(generalFD)
			return nil, err
		}

		eps = append(eps, endpoint{ifaceIdx: i, info: iface, eventFD: eventFD, generalFD: generalFD})
	}
	return eps, nil
}

// joinMulticastAll joins every endpoint's sockets to the PTP multicast
// group. A failure here is fatal: an event socket that can't see multicast
// traffic can't do its job.
func joinMulticastAll(eps []endpoint) error {
	group := net.ParseIP(netutil.MulticastGroup)
	for _, ep := range eps {
		if err := netutil.JoinMulticast(ep.eventFD, group, ep.info); err != nil {
			return err
		}
		if err := netutil.JoinMulticast(ep.generalFD, group, ep.info); err != nil {
			return err
		}
	}
	return nil
}

// registerSockets adds every endpoint's sockets to the poll registry.
func registerSockets(ps *pollset.Set, eps []endpoint) error {
	for _, ep := range eps {
		ps.Register(ep.ifaceIdx, pollset.KindEvent, ep.eventFD)
		ps.Register(ep.ifaceIdx, pollset.KindGeneral, ep.generalFD)
	}
	return nil
}

func closeSockets(eps []endpoint) {
	for _, ep := range eps {
		unix.Close(ep.eventFD)
		unix.Close(ep.generalFD)
	}
}
