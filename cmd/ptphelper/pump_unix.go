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
	"bytes"
	"encoding/binary"
	"net"

	"golang.org/x/sys/unix"

	log "github.com/sirupsen/logrus"

	"github.com/ptpmesh/ptphelper/clock"
	"github.com/ptpmesh/ptphelper/framing"
	"github.com/ptpmesh/ptphelper/netutil"
	"github.com/ptpmesh/ptphelper/pollset"
	"github.com/ptpmesh/ptphelper/ptp/protocol"
)

// maxFramedPayload is the §3 invariant: EVENT/GENERAL frame payloads never
// exceed 8192 bytes. recvBufSize is sized so the 8-byte receive-time prefix
// plus the largest packet this loop will ever read still fits under that
// cap, rather than capping after the fact.
const maxFramedPayload = 8192
const recvBufSize = maxFramedPayload - 8

// pump is the process's single cooperative loop: wait for readiness, drain
// whatever woke it up, repeat. It never returns except on a fatal error.
type pump struct {
	eps     []endpoint
	ps      *pollset.Set
	w       *framing.Writer
	r       *framing.Reader
	clockID protocol.ClockIdentity
	groupSA unix.SockaddrInet4
}

func newPump(eps []endpoint, ps *pollset.Set, w *framing.Writer, r *framing.Reader, clockID protocol.ClockIdentity) *pump {
	var sa unix.SockaddrInet4
	copy(sa.Addr[:], net.ParseIP(netutil.MulticastGroup).To4())
	return &pump{eps: eps, ps: ps, w: w, r: r, clockID: clockID, groupSA: sa}
}

// run blocks forever, servicing readiness events until a fatal error occurs.
func (p *pump) run() error {
	for {
		res, err := p.ps.Wait()
		if err != nil {
			return err
		}
		for _, ready := range res.Sockets {
			if err := p.drainSocket(ready); err != nil {
				return err
			}
		}
		if res.Stdin {
			if err := p.handleStdin(); err != nil {
				return err
			}
		}
	}
}

// drainSocket reads every pending packet off a ready socket until the
// kernel reports WouldBlock, which is the normal, non-error way this loop
// stops draining a socket.
func (p *pump) drainSocket(ready pollset.Ready) error {
	buf := make([]byte, recvBufSize)
	for {
		n, _, err := unix.Recvfrom(ready.Fd, buf, 0)
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			return nil
		}
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return err
		}
		recvTime := clock.Now()
		p.handlePacket(ready, recvTime, buf[:n])
	}
}

func (p *pump) handlePacket(ready pollset.Ready, recvTime uint64, raw []byte) {
	msg, err := protocol.Parse(raw)
	if err != nil {
		log.WithField("reason", "parse-failure").Warnf("dropping packet on interface %d: %v", ready.IfaceIdx, err)
		return
	}
	if msg.SourcePortIdentity.ClockIdentity == p.clockID {
		log.WithField("reason", "self-echo").Debugf("dropping packet on interface %d", ready.IfaceIdx)
		return // our own transmission, looped back by the switch/multicast fabric
	}
	if msg.MessageType() == protocol.MessageDelayResp {
		if dr, ok := msg.Payload.(protocol.DelayRespBody); ok {
			if dr.RequestingPortIdentity.ClockIdentity != p.clockID {
				log.WithField("reason", "foreign-delay-resp").Debugf("dropping packet on interface %d", ready.IfaceIdx)
				return // a delay response addressed to some other clock
			}
		}
	}

	typ := frameTypeFor(ready.Kind)
	payload := make([]byte, 8+len(raw))
	binary.BigEndian.PutUint64(payload, recvTime)
	copy(payload[8:], raw)
	if err := p.w.WriteFrame(typ, payload); err != nil {
		log.Errorf("writing %v frame to parent: %v", typ, err)
	}
}

// handleStdin reads exactly one frame from the parent and, if it is a
// well-formed outbound PTP message, transmits it and acknowledges with a
// SEND_TIME_ACK. A malformed stdin frame is fatal: the parent is never
// allowed to produce one.
func (p *pump) handleStdin() error {
	typ, payload, err := p.r.ReadFrame()
	if err != nil {
		return err
	}
	if typ != framing.TypeEvent && typ != framing.TypeGeneral {
		return errFatalf("parent sent frame of unexpected type %d on stdin", typ)
	}
	if len(payload) < 8 {
		return errFatalf("stdin frame payload of %d bytes is too short to contain a send-time prefix", len(payload))
	}
	ptpBytes := payload[8:]

	msg, err := protocol.Parse(ptpBytes)
	if err != nil {
		return errFatalf("parent sent an unparseable PTP message: %v", err)
	}
	if msg.SourcePortIdentity.ClockIdentity != p.clockID {
		return errFatalf("parent's message carries clockIdentity %s, not ours (%s)", msg.SourcePortIdentity.ClockIdentity, p.clockID)
	}

	port := netutil.EventPort
	if typ == framing.TypeGeneral {
		port = netutil.GeneralPort
	}
	sa := p.groupSA
	sa.Port = port

	fd := p.socketFor(typ)
	var sendErr error
	for {
		sendErr = unix.Sendto(fd, ptpBytes, 0, &sa)
		if sendErr == unix.EINTR {
			continue
		}
		break
	}
	if sendErr != nil {
		return errFatalf("sending PTP message: %v", sendErr)
	}
	sendTime := clock.Now()

	var ack bytes.Buffer
	_ = protocol.WriteUint64(&ack, sendTime)
	_ = protocol.WriteUint8(&ack, byte(msg.MessageType()))
	_ = protocol.WriteUint8(&ack, msg.DomainNumber)
	_ = protocol.WriteUint16(&ack, msg.SequenceID)
	return p.w.WriteFrame(framing.TypeSendTimeAck, ack.Bytes())
}

// socketFor returns the first selected interface's socket of the matching
// kind. Multi-interface transmit fan-out is out of scope: the parent
// addresses one logical PTP port set, and every joined interface shares the
// same multicast group.
func (p *pump) socketFor(typ uint8) int {
	if typ == framing.TypeGeneral {
		return p.eps[0].generalFD
	}
	return p.eps[0].eventFD
}

func frameTypeFor(kind pollset.Kind) uint8 {
	if kind == pollset.KindGeneral {
		return framing.TypeGeneral
	}
	return framing.TypeEvent
}
