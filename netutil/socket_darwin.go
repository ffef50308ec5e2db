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

//go:build darwin

package netutil

import "golang.org/x/sys/unix"

// applyPlatformSockopts sets macOS-only socket options: SO_NOSIGPIPE so a
// write to a torn-down peer returns EPIPE instead of raising SIGPIPE, and
// close-on-exec so the socket doesn't leak into anything exec'd after
// privileges are dropped.
func applyPlatformSockopts(fd int) {
	_ = unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_NOSIGPIPE, 1)
	_ = unix.CloseOnExec(fd)
}
