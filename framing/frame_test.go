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

package framing

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteThenReadFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	payload := []byte{0x01, 0x02, 0x03}
	require.NoError(t, w.WriteFrame(TypeEvent, payload))

	r := NewReader(&buf)
	typ, got, err := r.ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, TypeEvent, typ)
	assert.Equal(t, payload, got)
}

func TestZeroLengthFrame(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteFrame(TypeClockID, nil))

	r := NewReader(&buf)
	typ, got, err := r.ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, TypeClockID, typ)
	assert.Empty(t, got)
}

func TestMaxLengthFrameAccepted(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	payload := make([]byte, MaxStdinPayload)
	require.NoError(t, w.WriteFrame(TypeEvent, payload))

	r := NewReader(&buf)
	_, got, err := r.ReadFrame()
	require.NoError(t, err)
	assert.Len(t, got, MaxStdinPayload)
}

func TestOversizedFrameRejected(t *testing.T) {
	var buf bytes.Buffer
	// hand-craft a header declaring length 8193, one over the cap
	buf.Write([]byte{0x20, 0x01, byte(TypeEvent)})
	buf.Write(make([]byte, 8193))

	r := NewReader(&buf)
	_, _, err := r.ReadFrame()
	require.Error(t, err)
}

func TestWriteFrameIsOneAtomicWrite(t *testing.T) {
	var cw countingWriter
	w := NewWriter(&cw)
	require.NoError(t, w.WriteFrame(TypeSendTimeAck, []byte{1, 2, 3, 4}))
	assert.Equal(t, 1, cw.writes)
}

type countingWriter struct {
	writes int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	c.writes++
	return len(p), nil
}

func TestExactFixedLengths(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteFrame(TypeClockID, make([]byte, 8)))
	require.NoError(t, w.WriteFrame(TypeSendTimeAck, make([]byte, 12)))

	r := NewReader(&buf)
	typ, p, err := r.ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, TypeClockID, typ)
	assert.Len(t, p, 8)

	typ, p, err = r.ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, TypeSendTimeAck, typ)
	assert.Len(t, p, 12)
}
