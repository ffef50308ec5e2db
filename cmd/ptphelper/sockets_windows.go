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

package main

import (
	"net"

	"golang.org/x/sys/windows"

	"github.com/pkg/errors"

	"github.com/ptpmesh/ptphelper/netutil"
	"github.com/ptpmesh/ptphelper/pollset"
)

type endpoint struct {
	ifaceIdx  int
	info      netutil.InterfaceInfo
	eventFD   windows.Handle
	generalFD windows.Handle
}

func setupSockets(cfg *config, ifaces []netutil.InterfaceInfo) ([]endpoint, error) {
	eps := make([]endpoint, 0, len(ifaces))
	for i, iface := range ifaces {
		eventFD, err := netutil.CreateUDPSocket(net.IPv4zero, netutil.EventPort, cfg.TTL)
		if err != nil {
			return nil, errors.Wrapf(err, "opening event socket for %s", iface.Name)
		}
		if err := netutil.EnableDSCP(eventFD, cfg.DSCP); err != nil {
			windows.Closesocket(eventFD)
			return nil, err
		}

		generalFD, err := netutil.CreateUDPSocket(net.IPv4zero, netutil.GeneralPort, cfg.TTL)
		if err != nil {
			windows.Closesocket(eventFD)
			return nil, errors.Wrapf(err, "opening general socket for %s", iface.Name)
		}
		if err := netutil.EnableDSCP(generalFD, cfg.DSCP); err != nil {
			windows.Closesocket(eventFD)
			windows.Closesocket(generalFD)
			return nil, err
		}

		eps = append(eps, endpoint{ifaceIdx: i, info: iface, eventFD: eventFD, generalFD: generalFD})
	}
	return eps, nil
}

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

func registerSockets(ps *pollset.Set, eps []endpoint) error {
	for _, ep := range eps {
		if err := ps.Register(ep.ifaceIdx, pollset.KindEvent, ep.eventFD); err != nil {
			return err
		}
		if err := ps.Register(ep.ifaceIdx, pollset.KindGeneral, ep.generalFD); err != nil {
			return err
		}
	}
	return nil
}

func closeSockets(eps []endpoint) {
	for _, ep := range eps {
		windows.Closesocket(ep.eventFD)
		windows.Closesocket(ep.generalFD)
	}
}
