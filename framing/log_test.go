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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogRecordRoundTrip(t *testing.T) {
	rec := LogRecord{
		Level:   LevelWarning,
		File:    "poll_unix.go",
		Module:  "pollset",
		Line:    142,
		Message: "spurious wakeup with no POLLIN bit set",
	}
	payload, err := EncodeLogPayload(rec)
	require.NoError(t, err)

	got, err := DecodeLogPayload(payload)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestLogRecordEmptyFields(t *testing.T) {
	rec := LogRecord{Level: LevelTrace, Message: "tick"}
	payload, err := EncodeLogPayload(rec)
	require.NoError(t, err)
	got, err := DecodeLogPayload(payload)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestDecodeLogPayloadTooShort(t *testing.T) {
	_, err := DecodeLogPayload([]byte{1})
	require.Error(t, err)
}
