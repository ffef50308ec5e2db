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

package pollset

import (
	"golang.org/x/sys/unix"

	"github.com/pkg/errors"
)

type socketEntry struct {
	ifaceIdx int
	kind     Kind
	fd       int
}

// Set is the Unix poll(2)-backed registry: one pollfd per registered socket
// plus one for stdin, rebuilt fresh on every Wait call since sockets are
// only ever added at startup.
type Set struct {
	entries []socketEntry
	stdinFd int
}

// New creates a registry that also watches stdinFd for readability.
func New(stdinFd int) *Set {
	return &Set{stdinFd: stdinFd}
}

// Register adds a socket to the registry. Called once per interface per
// socket kind during startup, before the first Wait.
func (s *Set) Register(ifaceIdx int, kind Kind, fd int) {
	s.entries = append(s.entries, socketEntry{ifaceIdx: ifaceIdx, kind: kind, fd: fd})
}

// Wait blocks until at least one registered descriptor is readable. It
// builds a pollfd array of length 2N+1 (N interfaces, event+general sockets,
// plus stdin), retries on EINTR, and treats POLLERR/POLLNVAL/POLLHUP on any
// descriptor as fatal: those conditions mean a socket the helper depends on
// has gone bad, not that there's simply no data yet.
func (s *Set) Wait() (Result, error) {
	fds := make([]unix.PollFd, len(s.entries)+1)
	for i, e := range s.entries {
		fds[i] = unix.PollFd{Fd: int32(e.fd), Events: unix.POLLIN}
	}
	stdinIdx := len(s.entries)
	fds[stdinIdx] = unix.PollFd{Fd: int32(s.stdinFd), Events: unix.POLLIN}

	var n int
	var err error
	for {
		n, err = unix.Poll(fds, -1)
		if err == unix.EINTR {
			continue
		}
		break
	}
	if err != nil {
		return Result{}, errors.Wrap(err, "poll")
	}
	if n == 0 {
		return Result{}, nil
	}

	var res Result
	for i, pfd := range fds {
		if pfd.Revents&(unix.POLLERR|unix.POLLNVAL|unix.POLLHUP) != 0 {
			if i == stdinIdx {
				return Result{}, errors.Errorf("stdin descriptor reported error/hangup (revents=%#x)", pfd.Revents)
			}
			e := s.entries[i]
			return Result{}, errors.Errorf("socket for interface %d (%v) reported error/hangup (revents=%#x)", e.ifaceIdx, e.kind, pfd.Revents)
		}
		if pfd.Revents&unix.POLLIN == 0 {
			continue
		}
		if i == stdinIdx {
			res.Stdin = true
			continue
		}
		e := s.entries[i]
		res.Sockets = append(res.Sockets, Ready{IfaceIdx: e.ifaceIdx, Kind: e.kind, Fd: e.fd})
	}
	return res, nil
}
