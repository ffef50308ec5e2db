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
	"encoding/binary"
	"io"
)

// WriteUint8 writes a big-endian uint8. Used by cmd/ptphelper when
// assembling the SEND_TIME_ACK frame's message-type and domain-number
// fields.
func WriteUint8(w io.Writer, v uint8) error {
	return writeAll(w, []byte{v})
}

// WriteUint16 writes a big-endian uint16. Used by cmd/ptphelper when
// assembling the SEND_TIME_ACK frame's sequence-ID field.
func WriteUint16(w io.Writer, v uint16) error {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, v)
	return writeAll(w, b)
}

// WriteUint64 writes a big-endian uint64. Used by cmd/ptphelper when
// assembling the SEND_TIME_ACK frame's send-time prefix.
func WriteUint64(w io.Writer, v uint64) error {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return writeAll(w, b)
}

func writeAll(w io.Writer, b []byte) error {
	_, err := w.Write(b)
	return err
}
