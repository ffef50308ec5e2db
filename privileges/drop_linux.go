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

package privileges

import (
	"golang.org/x/sys/unix"

	"github.com/pkg/errors"
)

// Drop clears the process's entire capability set. user and group are
// accepted for interface parity with the setuid-root build but are unused:
// a process that was granted CAP_NET_BIND_SERVICE (rather than run as root)
// needs nothing more than to give that capability back up.
func Drop(_, _ string) error {
	// Version 3 capabilities are 64 bits wide, split across two
	// cap_user_data structs; the kernel expects both when this version is
	// set in the header.
	hdr := unix.CapUserHeader{Version: unix.LINUX_CAPABILITY_VERSION_3}
	var data [2]unix.CapUserData
	if err := unix.Capget(&hdr, &data[0]); err != nil {
		return errors.Wrap(err, "reading current capability set")
	}

	var empty [2]unix.CapUserData
	if err := unix.Capset(&hdr, &empty[0]); err != nil {
		return errors.Wrap(err, "clearing capability set")
	}
	return nil
}
