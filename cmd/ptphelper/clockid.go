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

package main

import (
	"encoding/binary"

	"github.com/ptpmesh/ptphelper/netutil"
	"github.com/ptpmesh/ptphelper/prand"
	"github.com/ptpmesh/ptphelper/ptp/protocol"
)

// deriveClockID picks this process's clockIdentity in priority order: an
// operator override, the first selected interface's MAC expanded to
// EUI-64, or 8 random bytes if neither is available. Once chosen it is
// stable for the process lifetime.
func deriveClockID(cfg *config, ifaces []netutil.InterfaceInfo) protocol.ClockIdentity {
	if cfg.HasClockID {
		return protocol.ClockIdentity(cfg.ClockID)
	}
	for _, iface := range ifaces {
		if len(iface.MAC) == 0 {
			continue
		}
		if id, err := protocol.NewClockIdentity(iface.MAC); err == nil {
			return id
		}
	}
	b := prand.Rand8()
	return protocol.ClockIdentity(binary.BigEndian.Uint64(b[:]))
}
