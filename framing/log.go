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
	"encoding/binary"
	"fmt"
)

// Level identifies the severity of a structured LOG record.
type Level uint8

// Log levels, as per spec §3.
const (
	LevelError   Level = 1
	LevelWarning Level = 2
	LevelFixme   Level = 3
	LevelInfo    Level = 4
	LevelDebug   Level = 5
	LevelLog     Level = 6
	LevelTrace   Level = 7
)

// LogRecord is the structured payload of a LOG frame.
type LogRecord struct {
	Level   Level
	File    string
	Module  string
	Line    uint32
	Message string
}

// EncodeLogPayload serializes a LogRecord into a LOG frame payload:
// level(u8) || file_len(u16) || file || module_len(u16) || module || line(u32) || message
func EncodeLogPayload(rec LogRecord) ([]byte, error) {
	if len(rec.File) > 0xffff {
		return nil, fmt.Errorf("log record file name of %d bytes does not fit in a u16 length field", len(rec.File))
	}
	if len(rec.Module) > 0xffff {
		return nil, fmt.Errorf("log record module name of %d bytes does not fit in a u16 length field", len(rec.Module))
	}
	buf := make([]byte, 0, 1+2+len(rec.File)+2+len(rec.Module)+4+len(rec.Message))
	buf = append(buf, byte(rec.Level))
	buf = appendLenPrefixed(buf, rec.File)
	buf = appendLenPrefixed(buf, rec.Module)
	var lineBuf [4]byte
	binary.BigEndian.PutUint32(lineBuf[:], rec.Line)
	buf = append(buf, lineBuf[:]...)
	buf = append(buf, []byte(rec.Message)...)
	return buf, nil
}

func appendLenPrefixed(buf []byte, s string) []byte {
	var lenBuf [2]byte
	binary.BigEndian.PutUint16(lenBuf[:], uint16(len(s)))
	buf = append(buf, lenBuf[:]...)
	return append(buf, []byte(s)...)
}

// DecodeLogPayload parses a LOG frame payload back into a LogRecord.
func DecodeLogPayload(payload []byte) (LogRecord, error) {
	var rec LogRecord
	if len(payload) < 1+2 {
		return rec, fmt.Errorf("log payload too short to contain level and file_len")
	}
	rec.Level = Level(payload[0])
	pos := 1

	fileLen := int(binary.BigEndian.Uint16(payload[pos:]))
	pos += 2
	if len(payload) < pos+fileLen+2 {
		return rec, fmt.Errorf("log payload too short to contain file and module_len")
	}
	rec.File = string(payload[pos : pos+fileLen])
	pos += fileLen

	moduleLen := int(binary.BigEndian.Uint16(payload[pos:]))
	pos += 2
	if len(payload) < pos+moduleLen+4 {
		return rec, fmt.Errorf("log payload too short to contain module and line")
	}
	rec.Module = string(payload[pos : pos+moduleLen])
	pos += moduleLen

	rec.Line = binary.BigEndian.Uint32(payload[pos:])
	pos += 4

	rec.Message = string(payload[pos:])
	return rec, nil
}
