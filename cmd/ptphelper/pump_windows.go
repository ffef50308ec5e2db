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
	"bytes"
	"encoding/binary"
	"net"

	"golang.org/x/sys/windows"

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

type pump struct {
	eps     []endpoint
	ps      *pollset.Set
	w       *framing.Writer
	r       *framing.Reader
	clockID protocol.ClockIdentity
	groupSA windows.SockaddrInet4
}

func newPump(eps []endpoint, ps *pollset.Set, w *framing.Writer, r *framing.Reader, clockID protocol.ClockIdentity) *pump {
	var sa windows.SockaddrInet4
	copy(sa.Addr[:], net.ParseIP(netutil.MulticastGroup).To4())
	return &pump{eps: eps, ps: ps, w: w, r: r, clockID: clockID, groupSA: sa}
}

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

func (p *pump) fdFor(ready pollset.Ready) windows.Handle {
	ep := p.eps[ready.IfaceIdx]
	if ready.Kind == pollset.KindGeneral {
		return ep.generalFD
	}
	return ep.eventFD
}

func (p *pump) drainSocket(ready pollset.Ready) error {
	fd := p.fdFor(ready)
	buf := make([]byte, recvBufSize)
	for {
		n, _, err := windows.Recvfrom(fd, buf, 0)
		if err == windows.WSAEWOULDBLOCK {
			return nil
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
	fd := p.eps[0].eventFD
	if typ == framing.TypeGeneral {
		port = netutil.GeneralPort
		fd = p.eps[0].generalFD
	}
	sa := p.groupSA
	sa.Port = port
	if err := windows.Sendto(fd, ptpBytes, 0, &sa); err != nil {
		return errFatalf("sending PTP message: %v", err)
	}
	sendTime := clock.Now()

	var ack bytes.Buffer
	_ = protocol.WriteUint64(&ack, sendTime)
	_ = protocol.WriteUint8(&ack, byte(msg.MessageType()))
	_ = protocol.WriteUint8(&ack, msg.DomainNumber)
	_ = protocol.WriteUint16(&ack, msg.SequenceID)
	return p.w.WriteFrame(framing.TypeSendTimeAck, ack.Bytes())
}

func frameTypeFor(kind pollset.Kind) uint8 {
	if kind == pollset.KindGeneral {
		return framing.TypeGeneral
	}
	return framing.TypeEvent
}
