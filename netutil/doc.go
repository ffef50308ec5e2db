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

// Package netutil enumerates IPv4-capable network interfaces and opens the
// raw multicast UDP sockets the helper pumps PTP event/general traffic
// through: one socket per port per selected interface, joined to the PTP
// multicast group before the main loop ever touches them.
package netutil

// MulticastGroup is the IPv4 PTP multicast group every event/general socket
// joins.
const MulticastGroup = "224.0.1.129"

// Well-known PTP UDP ports.
const (
	EventPort   = 319
	GeneralPort = 320
)
