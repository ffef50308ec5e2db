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

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncFixture is the 44-byte SYNC packet from end-to-end scenario 6:
// messageType=0, versionPtp=2, clockIdentity=0x185680FFFE057E77, sequenceId=76,
// originTimestamp={sec=1684748635, nsec=116289267}.
var syncFixture = []byte{
	0x00, 0x02, 0x00, 0x2c, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x18, 0x56, 0x80, 0xff,
	0xfe, 0x05, 0x7e, 0x77, 0x00, 0x01, 0x00, 0x4c,
	0x00, 0x00, 0x00, 0x00, 0x64, 0x6b, 0x39, 0x5b,
	0x06, 0xee, 0x6e, 0xf3,
}

func TestParseSyncFixture(t *testing.T) {
	m, err := Parse(syncFixture)
	require.NoError(t, err)
	assert.Equal(t, MessageSync, m.MessageType())
	assert.Equal(t, uint8(2), m.VersionPTP)
	assert.Equal(t, ClockIdentity(0x185680FFFE057E77), m.SourcePortIdentity.ClockIdentity)
	assert.Equal(t, uint16(76), m.SequenceID)
	body, ok := m.Payload.(syncDelayReqPayload)
	require.True(t, ok)
	assert.Equal(t, uint64(1684748635), body.OriginTimestamp.Seconds.Seconds())
	assert.Equal(t, uint32(116289267), body.OriginTimestamp.Nanoseconds)
}

func TestParseRejectsShortPacket(t *testing.T) {
	_, err := Parse(syncFixture[:33])
	require.Error(t, err)
}

func TestParseRejectsWrongVersion(t *testing.T) {
	bad := append([]byte(nil), syncFixture...)
	bad[1] = 0x01 // version 1
	_, err := Parse(bad)
	require.Error(t, err)
}

func TestParseRejectsOversizedLength(t *testing.T) {
	bad := append([]byte(nil), syncFixture...)
	bad[2], bad[3] = 0xff, 0xff // declared length way beyond buffer
	_, err := Parse(bad)
	require.Error(t, err)
}

func TestParseOtherMessageType(t *testing.T) {
	bad := append([]byte(nil), syncFixture...)
	bad[0] = 0x0c // Signaling
	m, err := Parse(bad)
	require.NoError(t, err)
	other, ok := m.Payload.(OtherPayload)
	require.True(t, ok)
	assert.Equal(t, MessageSignaling, other.Type)
}

func TestParseAnnounce(t *testing.T) {
	header := append([]byte(nil), syncFixture[:headerSize]...)
	header[0] = byte(NewSdoIDAndMsgType(MessageAnnounce, 0))
	header[2], header[3] = 0x00, headerSize+30 // MessageLength = 34+30

	body := make([]byte, 30)
	body[13] = 128                                 // GrandmasterPriority1
	body[14] = byte(ClockClass6)                    // GrandmasterClockQuality.ClockClass
	body[15] = byte(ClockAccuracyNanosecond25)       // GrandmasterClockQuality.ClockAccuracy
	body[18] = 128                                 // GrandmasterPriority2
	copy(body[19:27], syncFixture[20:28])           // GrandmasterIdentity, reuse the fixture's clock id bytes
	body[29] = byte(TimeSourceGNSS)                 // TimeSource

	m, err := Parse(append(header, body...))
	require.NoError(t, err)
	announce, ok := m.Payload.(AnnounceBody)
	require.True(t, ok)
	assert.Equal(t, uint8(128), announce.GrandmasterPriority1)
	assert.Equal(t, ClockClass6, announce.GrandmasterClockQuality.ClockClass)
	assert.Equal(t, TimeSourceGNSS, announce.TimeSource)
	assert.Equal(t, ClockIdentity(0x185680FFFE057E77), announce.GrandmasterIdentity)
}

func TestNewClockIdentityFromMAC(t *testing.T) {
	mac := []byte{0x18, 0x56, 0x80, 0x05, 0x7e, 0x77}
	id, err := NewClockIdentity(mac)
	require.NoError(t, err)
	assert.Equal(t, ClockIdentity(0x185680FFFE057E77), id)
}

func TestClockIdentityMACRoundTrip(t *testing.T) {
	id := ClockIdentity(0x185680FFFE057E77)
	mac := id.MAC()
	assert.Equal(t, []byte{0x18, 0x56, 0x80, 0x05, 0x7e, 0x77}, []byte(mac))
}

func TestWireHelpersWriteBigEndian(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteUint8(&buf, 0xab))
	require.NoError(t, WriteUint16(&buf, 0x1234))
	require.NoError(t, WriteUint64(&buf, 0x0102030405060708))

	b := buf.Bytes()
	assert.Equal(t, byte(0xab), b[0])
	assert.Equal(t, []byte{0x12, 0x34}, b[1:3])
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}, b[3:11])
}
