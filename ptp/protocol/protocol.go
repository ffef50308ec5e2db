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

package protocol

// all references are given for IEEE 1588-2019 Standard

import (
	"encoding/binary"
	"fmt"
)

// MajorVersion is the only PTP major version this helper understands
const MajorVersion uint8 = 2

const headerSize = 34 // bytes, Table 35 Common PTP message header

// Header is the Table 35 Common PTP message header, shared by every PTP message.
type Header struct {
	SdoIDAndMsgType    SdoIDAndMsgType
	VersionPTP         uint8 // low nibble of the version byte; high nibble is minor version
	MessageLength      uint16
	DomainNumber       uint8
	FlagField          uint16
	CorrectionField    int64
	SourcePortIdentity PortIdentity
	SequenceID         uint16
	ControlField       uint8
	LogMessageInterval LogInterval
}

// MessageType returns the MessageType carried in this header
func (h *Header) MessageType() MessageType {
	return h.SdoIDAndMsgType.MsgType()
}

func unmarshalHeader(h *Header, b []byte) {
	h.SdoIDAndMsgType = SdoIDAndMsgType(b[0])
	h.VersionPTP = b[1] & 0x0f
	h.MessageLength = binary.BigEndian.Uint16(b[2:])
	h.DomainNumber = b[4]
	h.FlagField = binary.BigEndian.Uint16(b[6:])
	h.CorrectionField = int64(binary.BigEndian.Uint64(b[8:]))
	h.SourcePortIdentity.ClockIdentity = ClockIdentity(binary.BigEndian.Uint64(b[20:]))
	h.SourcePortIdentity.PortNumber = binary.BigEndian.Uint16(b[28:])
	h.SequenceID = binary.BigEndian.Uint16(b[30:])
	h.ControlField = b[32]
	h.LogMessageInterval = LogInterval(int8(b[33]))
}

// AnnounceBody carries the Table 43 Announce message fields this helper decodes
type AnnounceBody struct {
	OriginTimestamp         Timestamp
	CurrentUTCOffset        int16
	GrandmasterPriority1    uint8
	GrandmasterClockQuality ClockQuality
	GrandmasterPriority2    uint8
	GrandmasterIdentity     ClockIdentity
	StepsRemoved            uint16
	TimeSource              TimeSource
}

func unmarshalAnnounce(p *AnnounceBody, b []byte) error {
	if len(b) < 30 {
		return fmt.Errorf("not enough data to decode Announce body")
	}
	copy(p.OriginTimestamp.Seconds[:], b[0:])
	p.OriginTimestamp.Nanoseconds = binary.BigEndian.Uint32(b[6:])
	p.CurrentUTCOffset = int16(binary.BigEndian.Uint16(b[10:]))
	p.GrandmasterPriority1 = b[13]
	p.GrandmasterClockQuality.ClockClass = ClockClass(b[14])
	p.GrandmasterClockQuality.ClockAccuracy = ClockAccuracy(b[15])
	p.GrandmasterClockQuality.OffsetScaledLogVariance = binary.BigEndian.Uint16(b[16:])
	p.GrandmasterPriority2 = b[18]
	p.GrandmasterIdentity = ClockIdentity(binary.BigEndian.Uint64(b[19:]))
	p.StepsRemoved = binary.BigEndian.Uint16(b[27:])
	p.TimeSource = TimeSource(b[29])
	return nil
}

// SyncDelayReqBody carries the Table 44 Sync/Delay_Req message fields
type SyncDelayReqBody struct {
	OriginTimestamp Timestamp
}

func unmarshalSyncDelayReq(p *SyncDelayReqBody, b []byte) error {
	if len(b) < 10 {
		return fmt.Errorf("not enough data to decode Sync/DelayReq body")
	}
	copy(p.OriginTimestamp.Seconds[:], b[0:])
	p.OriginTimestamp.Nanoseconds = binary.BigEndian.Uint32(b[6:])
	return nil
}

// FollowUpBody carries the Table 45 Follow_Up message fields
type FollowUpBody struct {
	PreciseOriginTimestamp Timestamp
}

func unmarshalFollowUp(p *FollowUpBody, b []byte) error {
	if len(b) < 10 {
		return fmt.Errorf("not enough data to decode FollowUp body")
	}
	copy(p.PreciseOriginTimestamp.Seconds[:], b[0:])
	p.PreciseOriginTimestamp.Nanoseconds = binary.BigEndian.Uint32(b[6:])
	return nil
}

// DelayRespBody carries the Table 46 Delay_Resp message fields
type DelayRespBody struct {
	ReceiveTimestamp       Timestamp
	RequestingPortIdentity PortIdentity
}

func unmarshalDelayResp(p *DelayRespBody, b []byte) error {
	if len(b) < 20 {
		return fmt.Errorf("not enough data to decode DelayResp body")
	}
	copy(p.ReceiveTimestamp.Seconds[:], b[0:])
	p.ReceiveTimestamp.Nanoseconds = binary.BigEndian.Uint32(b[6:])
	p.RequestingPortIdentity.ClockIdentity = ClockIdentity(binary.BigEndian.Uint64(b[10:]))
	p.RequestingPortIdentity.PortNumber = binary.BigEndian.Uint16(b[18:])
	return nil
}

// Payload is the discriminated union of structurally decoded message bodies.
// Messages this helper does not structurally decode carry an OtherPayload instead.
type Payload interface {
	// payloadType returns the MessageType this payload was decoded for
	payloadType() MessageType
}

func (AnnounceBody) payloadType() MessageType  { return MessageAnnounce }
func (FollowUpBody) payloadType() MessageType  { return MessageFollowUp }
func (DelayRespBody) payloadType() MessageType { return MessageDelayResp }

// OtherPayload preserves the numeric type of a message this helper does not
// structurally decode (PDelay*, Signaling, Management, anything unrecognized).
type OtherPayload struct {
	Type MessageType
}

func (o OtherPayload) payloadType() MessageType { return o.Type }

// Message is the parsed form of a PTPv2 packet: the common header plus a
// discriminated Payload. Type_ returns the header's messageType unchanged;
// PDelay/Signaling/Management and unrecognized types are distinguished by
// their Payload being an OtherPayload, not by Type_.
type Message struct {
	Header
	Payload Payload
}

// Type_ introspects which concrete payload this Message carries
func (m *Message) Type_() MessageType { return m.Header.MessageType() }

// Parse decodes a raw PTPv2 datagram into a Message. It fails if the buffer is
// shorter than the common header, if the declared MessageLength exceeds the
// buffer, or if the PTP version is not 2. messageType values other than
// Sync/DelayReq/FollowUp/DelayResp/Announce are preserved as OtherPayload
// without structural decoding.
func Parse(b []byte) (*Message, error) {
	if len(b) < headerSize {
		return nil, fmt.Errorf("packet too short: got %d bytes, need at least %d", len(b), headerSize)
	}
	m := &Message{}
	unmarshalHeader(&m.Header, b)
	if m.VersionPTP != MajorVersion {
		return nil, fmt.Errorf("unsupported PTP version %d, only version %d is supported", m.VersionPTP, MajorVersion)
	}
	if int(m.MessageLength) > len(b) {
		return nil, fmt.Errorf("declared message length %d exceeds buffer of %d bytes", m.MessageLength, len(b))
	}
	body := b[headerSize:]
	switch m.MessageType() {
	case MessageSync, MessageDelayReq:
		p := &SyncDelayReqBody{}
		if err := unmarshalSyncDelayReq(p, body); err != nil {
			return nil, err
		}
		m.Payload = syncDelayReqPayload{SyncDelayReqBody: *p, msgType: m.MessageType()}
	case MessageFollowUp:
		p := &FollowUpBody{}
		if err := unmarshalFollowUp(p, body); err != nil {
			return nil, err
		}
		m.Payload = *p
	case MessageDelayResp:
		p := &DelayRespBody{}
		if err := unmarshalDelayResp(p, body); err != nil {
			return nil, err
		}
		m.Payload = *p
	case MessageAnnounce:
		p := &AnnounceBody{}
		if err := unmarshalAnnounce(p, body); err != nil {
			return nil, err
		}
		m.Payload = *p
	default:
		m.Payload = OtherPayload{Type: m.MessageType()}
	}
	return m, nil
}

// syncDelayReqPayload disambiguates Sync from DelayReq, which share a wire body.
type syncDelayReqPayload struct {
	SyncDelayReqBody
	msgType MessageType
}

func (s syncDelayReqPayload) payloadType() MessageType { return s.msgType }
