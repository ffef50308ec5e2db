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

package pollset

import (
	"sync"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// ws2_32 exposes WSAEventSelect and WSAEnumNetworkEvents, neither of which
// golang.org/x/sys/windows wraps; they're resolved the same way that
// package's own generated bindings resolve kernel32 procs.
var (
	ws2_32                   = syscall.NewLazyDLL("ws2_32.dll")
	procWSAEventSelect       = ws2_32.NewProc("WSAEventSelect")
	procWSAEnumNetworkEvents = ws2_32.NewProc("WSAEnumNetworkEvents")
)

const fdRead = 1 // FD_READ

type wsaNetworkEvents struct {
	networkEvents uint32
	errorCode     [10]int32
}

func wsaEventSelect(fd windows.Handle, event windows.Handle, mask uint32) error {
	r, _, e := procWSAEventSelect.Call(uintptr(fd), uintptr(event), uintptr(mask))
	if r != 0 {
		return e
	}
	return nil
}

func wsaEnumNetworkEvents(fd windows.Handle, event windows.Handle) (wsaNetworkEvents, error) {
	var ne wsaNetworkEvents
	r, _, e := procWSAEnumNetworkEvents.Call(uintptr(fd), uintptr(event), uintptr(unsafe.Pointer(&ne)))
	if r != 0 {
		return ne, e
	}
	return ne, nil
}

type socketEntry struct {
	ifaceIdx int
	kind     Kind
	fd       windows.Handle
	event    windows.Handle
}

// Set is the Windows event-based registry. Each socket gets a manual-reset
// WSA event signalled on FD_READ; stdin readiness is synthesized by
// stdinReader since anonymous pipes have no event-based wait primitive.
type Set struct {
	entries []socketEntry
	stdin   *stdinReader
}

// New creates a registry; stdinFd is the OS handle backing the helper's
// stdin.
func New(stdinFd windows.Handle) *Set {
	return &Set{stdin: newStdinReader(stdinFd)}
}

// Register adds a socket and starts watching it for FD_READ.
func (s *Set) Register(ifaceIdx int, kind Kind, fd windows.Handle) error {
	event, err := windows.CreateEvent(nil, 1, 0, nil)
	if err != nil {
		return errors.Wrap(err, "creating WSA event")
	}
	if err := wsaEventSelect(fd, event, fdRead); err != nil {
		return errors.Wrap(err, "WSAEventSelect")
	}
	s.entries = append(s.entries, socketEntry{ifaceIdx: ifaceIdx, kind: kind, fd: fd, event: event})
	return nil
}

// Wait blocks on every socket event plus the stdin-reader's event via
// WaitForMultipleObjects(INFINITE), returning as soon as any one of them is
// signalled - this waits for any, not all.
func (s *Set) Wait() (Result, error) {
	handles := make([]windows.Handle, 0, len(s.entries)+1)
	for _, e := range s.entries {
		handles = append(handles, e.event)
	}
	stdinIdx := len(handles)
	handles = append(handles, s.stdin.event)

	idx, err := windows.WaitForMultipleObjects(handles, false, windows.INFINITE)
	if err != nil {
		return Result{}, errors.Wrap(err, "WaitForMultipleObjects")
	}
	i := int(idx - windows.WAIT_OBJECT_0)
	if i == stdinIdx {
		return Result{Stdin: true}, nil
	}
	if i < 0 || i >= len(s.entries) {
		return Result{}, errors.Errorf("WaitForMultipleObjects returned out-of-range index %d", i)
	}

	e := s.entries[i]
	ne, err := wsaEnumNetworkEvents(e.fd, e.event)
	if err != nil {
		return Result{}, errors.Wrapf(err, "WSAEnumNetworkEvents for interface %d (%v)", e.ifaceIdx, e.kind)
	}
	if ne.networkEvents&fdRead == 0 {
		// Spurious wakeup with no FD_READ bit set: logged, not treated as
		// an error.
		log.Warnf("spurious wakeup with no FD_READ bit set on interface %d (%v)", e.ifaceIdx, e.kind)
		return Result{}, nil
	}
	return Result{Sockets: []Ready{{IfaceIdx: e.ifaceIdx, Kind: e.kind}}}, nil
}

// stdinReader runs a dedicated goroutine that synchronously reads one probe
// byte from an anonymous pipe (which, unlike sockets, has no event-based
// wait) and signals event when a byte is buffered. TakeByte retrieves that
// byte and lets the goroutine read its next probe.
type stdinReader struct {
	fd    windows.Handle
	event windows.Handle

	mu      sync.Mutex
	cond    *sync.Cond
	pending bool
	buf     byte
	probe   bool
}

func newStdinReader(fd windows.Handle) *stdinReader {
	event, _ := windows.CreateEvent(nil, 1, 0, nil)
	r := &stdinReader{fd: fd, event: event}
	r.cond = sync.NewCond(&r.mu)
	go r.loop()
	return r
}

func (r *stdinReader) loop() {
	var b [1]byte
	for {
		r.mu.Lock()
		for r.pending {
			r.cond.Wait()
		}
		r.mu.Unlock()

		var n uint32
		if err := windows.ReadFile(r.fd, b[:], &n, nil); err != nil || n == 0 {
			return
		}

		r.mu.Lock()
		r.buf = b[0]
		r.pending = true
		r.mu.Unlock()
		windows.SetEvent(r.event)
	}
}

// TakeByte returns the probe byte buffered by the reader goroutine and
// clears the event, allowing the goroutine to read its next probe byte.
func (r *stdinReader) TakeByte() (byte, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.pending {
		return 0, false
	}
	b := r.buf
	r.pending = false
	windows.ResetEvent(r.event)
	r.cond.Signal()
	return b, true
}
