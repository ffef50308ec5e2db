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

// Package protocol implements just enough of IEEE 1588-2019 PTPv2 to let a
// privileged network helper filter self-originated traffic and report a
// transmit timestamp keyed by (messageType, domain, sequenceId). Management,
// TLV, unicast negotiation and signaling handling live in the full PTP stack
// this package was distilled from; none of that is needed here.
package protocol

import (
	"encoding/binary"
	"fmt"
	"net"
	"time"
)

// MessageType is type for Message Types
type MessageType uint8

// As per Table 36 Values of messageType field
const (
	MessageSync       MessageType = 0x0
	MessageDelayReq   MessageType = 0x1
	MessageFollowUp   MessageType = 0x8
	MessageDelayResp  MessageType = 0x9
	MessageAnnounce   MessageType = 0xB
	MessageSignaling  MessageType = 0xC
	MessageManagement MessageType = 0xD
)

// MessageTypeToString is a map from MessageType to string
var MessageTypeToString = map[MessageType]string{
	MessageSync:       "SYNC",
	MessageDelayReq:   "DELAY_REQ",
	MessageFollowUp:   "FOLLOW_UP",
	MessageDelayResp:  "DELAY_RESP",
	MessageAnnounce:   "ANNOUNCE",
	MessageSignaling:  "SIGNALING",
	MessageManagement: "MANAGEMENT",
}

func (m MessageType) String() string {
	if s, ok := MessageTypeToString[m]; ok {
		return s
	}
	return fmt.Sprintf("OTHER(0x%x)", uint8(m))
}

// SdoIDAndMsgType is a uint8 where the first 4 bits contain the transport-specific
// field (SdoId in later editions) and the last 4 bits are the MessageType.
type SdoIDAndMsgType uint8

// MsgType extracts MessageType from SdoIDAndMsgType
func (m SdoIDAndMsgType) MsgType() MessageType {
	return MessageType(m & 0xf) // last 4 bits
}

// TransportSpecific extracts the transport-specific nibble
func (m SdoIDAndMsgType) TransportSpecific() uint8 {
	return uint8(m >> 4)
}

// NewSdoIDAndMsgType builds new SdoIDAndMsgType from MessageType and transportSpecific nibble
func NewSdoIDAndMsgType(msgType MessageType, transportSpecific uint8) SdoIDAndMsgType {
	return SdoIDAndMsgType(transportSpecific<<4 | uint8(msgType))
}

// The ClockIdentity type identifies unique entities within a PTP Network, e.g. a PTP Instance.
type ClockIdentity uint64

// String formats ClockIdentity the way ptp4l's pmc client does
func (c ClockIdentity) String() string {
	ptr := make([]byte, 8)
	binary.BigEndian.PutUint64(ptr, uint64(c))
	return fmt.Sprintf("%02x%02x%02x.%02x%02x.%02x%02x%02x",
		ptr[0], ptr[1], ptr[2], ptr[3],
		ptr[4], ptr[5], ptr[6], ptr[7],
	)
}

// MAC turns ClockIdentity into the MAC address it was based upon. EUI-48 is assumed.
func (c ClockIdentity) MAC() net.HardwareAddr {
	mac := make(net.HardwareAddr, 6)
	mac[0] = byte(c >> 56)
	mac[1] = byte(c >> 48)
	mac[2] = byte(c >> 40)
	mac[3] = byte(c >> 16)
	mac[4] = byte(c >> 8)
	mac[5] = byte(c)
	return mac
}

// NewClockIdentity creates a new ClockIdentity from a MAC address, inserting the
// ff:fe infix between the OUI and NIC halves (EUI-64 expansion of an EUI-48 MAC).
func NewClockIdentity(mac net.HardwareAddr) (ClockIdentity, error) {
	b := [8]byte{}
	switch len(mac) {
	case 6: // EUI-48
		b[0] = mac[0]
		b[1] = mac[1]
		b[2] = mac[2]
		b[3] = 0xFF
		b[4] = 0xFE
		b[5] = mac[3]
		b[6] = mac[4]
		b[7] = mac[5]
	case 8: // EUI-64
		copy(b[:], mac)
	default:
		return 0, fmt.Errorf("unsupported MAC %v, must be either EUI48 or EUI64", mac)
	}
	return ClockIdentity(binary.BigEndian.Uint64(b[:])), nil
}

// PortIdentity identifies a PTP Port
type PortIdentity struct {
	ClockIdentity ClockIdentity
	PortNumber    uint16
}

// String formats PortIdentity the way ptp4l's pmc client does
func (p PortIdentity) String() string {
	return fmt.Sprintf("%s-%d", p.ClockIdentity, p.PortNumber)
}

// PTPSeconds represents seconds as an unsigned 48-bit integer
type PTPSeconds [6]uint8

// Seconds returns the number of seconds as uint64
func (s PTPSeconds) Seconds() uint64 {
	return uint64(s[5]) | uint64(s[4])<<8 | uint64(s[3])<<16 | uint64(s[2])<<24 |
		uint64(s[1])<<32 | uint64(s[0])<<40
}

// NewPTPSeconds encodes a uint64 count of seconds into a PTPSeconds
func NewPTPSeconds(v uint64) PTPSeconds {
	s := PTPSeconds{}
	s[0] = byte(v >> 40)
	s[1] = byte(v >> 32)
	s[2] = byte(v >> 24)
	s[3] = byte(v >> 16)
	s[4] = byte(v >> 8)
	s[5] = byte(v)
	return s
}

/*
Timestamp represents a positive time with respect to the epoch. Seconds is the
integer portion in units of seconds; Nanoseconds is always less than 10**9.
*/
type Timestamp struct {
	Seconds     PTPSeconds
	Nanoseconds uint32
}

// Time turns Timestamp into a normal Go time.Time
func (t Timestamp) Time() time.Time {
	return time.Unix(int64(t.Seconds.Seconds()), int64(t.Nanoseconds))
}

// ClockClass represents a PTP clock class (Table 5)
type ClockClass uint8

// A subset of available Clock Classes (Table 5); this helper never sets one
// itself, it only decodes what an Announce message carries.
const (
	ClockClass6         ClockClass = 6
	ClockClass7         ClockClass = 7
	ClockClassSlaveOnly ClockClass = 255
)

// ClockAccuracy represents a PTP clock accuracy (Table 6)
type ClockAccuracy uint8

// A subset of available Clock Accuracies (Table 6)
const (
	ClockAccuracyNanosecond25  ClockAccuracy = 0x20
	ClockAccuracyNanosecond100 ClockAccuracy = 0x21
	ClockAccuracyUnknown       ClockAccuracy = 0xFE
)

// ClockQuality represents the quality of a clock (Table 5)
type ClockQuality struct {
	ClockClass              ClockClass
	ClockAccuracy           ClockAccuracy
	OffsetScaledLogVariance uint16
}

// TimeSource indicates the immediate source of time used by the Grandmaster
type TimeSource uint8

// TimeSource values, Table 6 timeSource enumeration
const (
	TimeSourceAtomicClock        TimeSource = 0x10
	TimeSourceGNSS               TimeSource = 0x20
	TimeSourceTerrestrialRadio   TimeSource = 0x30
	TimeSourceSerialTimeCode     TimeSource = 0x39
	TimeSourcePTP                TimeSource = 0x40
	TimeSourceNTP                TimeSource = 0x50
	TimeSourceHandSet            TimeSource = 0x60
	TimeSourceOther              TimeSource = 0x90
	TimeSourceInternalOscillator TimeSource = 0xa0
)

// LogInterval is the logarithm, base 2, of a period in seconds
type LogInterval int8
