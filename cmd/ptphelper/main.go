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

// ptphelper is a privileged sidecar: it owns the sockets a PTP ordinary
// clock needs root (or CAP_NET_BIND_SERVICE) for, then drops that privilege
// and spends the rest of its life pumping PTP bytes between its parent
// process, over a length-prefixed stdio protocol, and the network.
package main

import (
	"encoding/binary"
	"fmt"
	"net"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/ptpmesh/ptphelper/framing"
	"github.com/ptpmesh/ptphelper/logging"
	"github.com/ptpmesh/ptphelper/netutil"
	"github.com/ptpmesh/ptphelper/perr"
	"github.com/ptpmesh/ptphelper/pollset"
	"github.com/ptpmesh/ptphelper/privileges"
)

func main() {
	cfg, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if cfg.Verbose {
		log.SetLevel(log.DebugLevel)
	}

	w := framing.NewWriter(os.Stdout)
	r := framing.NewReader(os.Stdin)
	log.AddHook(logging.NewFrameHook(w, "ptphelper"))

	defer func() {
		if rec := recover(); rec != nil {
			log.Errorf("panic: %v", rec)
			os.Exit(1)
		}
	}()

	if err := run(cfg, w, r); err != nil {
		log.Errorf("fatal: %s", perr.Chain(err))
		os.Exit(1)
	}
}

func run(cfg *config, w *framing.Writer, r *framing.Reader) error {
	all, err := netutil.QueryInterfaces()
	if err != nil {
		return err
	}
	selected, err := selectInterfaces(all, cfg.Interfaces)
	if err != nil {
		return err
	}

	eps, err := setupSockets(cfg, selected)
	if err != nil {
		return err
	}
	defer closeSockets(eps)

	if err := raisePriority(); err != nil {
		return err
	}

	if err := privileges.Drop("", ""); err != nil {
		return err
	}

	if err := joinMulticastAll(eps); err != nil {
		return err
	}

	clockID := deriveClockID(cfg, selected)

	var idBytes [8]byte
	binary.BigEndian.PutUint64(idBytes[:], uint64(clockID))
	if err := w.WriteFrame(framing.TypeClockID, idBytes[:]); err != nil {
		return err
	}

	ps := pollset.New(stdinDescriptor())
	if err := registerSockets(ps, eps); err != nil {
		return err
	}

	p := newPump(eps, ps, w, r, clockID)
	return p.run()
}

// selectInterfaces filters all down to the operator's chosen set, matched
// by name or by parsed IPv4 literal. An empty selector list means "every
// up/multicast-capable interface".
func selectInterfaces(all []netutil.InterfaceInfo, selectors []string) ([]netutil.InterfaceInfo, error) {
	if len(selectors) == 0 {
		return all, nil
	}
	var out []netutil.InterfaceInfo
	for _, sel := range selectors {
		match, err := matchInterface(all, sel)
		if err != nil {
			return nil, err
		}
		out = append(out, match)
	}
	return out, nil
}

func matchInterface(all []netutil.InterfaceInfo, sel string) (netutil.InterfaceInfo, error) {
	if ip := net.ParseIP(sel); ip != nil {
		for _, info := range all {
			if info.IPv4.Equal(ip) {
				return info, nil
			}
		}
		return netutil.InterfaceInfo{}, fmt.Errorf("no up/multicast-capable interface has IPv4 address %s", sel)
	}
	return netutil.ByName(all, sel)
}
