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

/*
Package logging wires github.com/sirupsen/logrus - the same logger
cmd/ptp4u and cmd/sptp use - into a second sink: a structured LOG frame on
stdout. log.Info/log.Warn/etc. keep printing to stderr exactly as they
always have (useful when the helper is run by hand); a FrameHook mirrors
every entry into the framing protocol so the parent process, which only
ever reads stdout, observes it too.
*/
package logging

import (
	"path/filepath"
	"runtime"

	log "github.com/sirupsen/logrus"

	"github.com/ptpmesh/ptphelper/framing"
)

// levelToFrame maps a logrus.Level to the spec's LOG frame Level encoding.
var levelToFrame = map[log.Level]framing.Level{
	log.PanicLevel: framing.LevelError,
	log.FatalLevel: framing.LevelError,
	log.ErrorLevel: framing.LevelError,
	log.WarnLevel:  framing.LevelWarning,
	log.InfoLevel:  framing.LevelInfo,
	log.DebugLevel: framing.LevelDebug,
	log.TraceLevel: framing.LevelTrace,
}

// FrameHook is a logrus.Hook that re-encodes every fired entry as a LOG
// frame and writes it to the parent. Installed once, at startup, after the
// framing.Writer wrapping stdout has been constructed.
type FrameHook struct {
	w      *framing.Writer
	module string
}

// NewFrameHook builds a hook that writes LOG frames tagged with module
// (typically the process name) through w.
func NewFrameHook(w *framing.Writer, module string) *FrameHook {
	return &FrameHook{w: w, module: module}
}

// Levels reports this hook fires for every level logrus supports; the frame
// mapping collapses Panic/Fatal down to Error since the wire format only has
// seven levels, one of which (Fixme) logrus has no equivalent for.
func (h *FrameHook) Levels() []log.Level {
	return log.AllLevels
}

// Fire encodes entry as a LOG frame and writes it. A record that cannot be
// encoded is silently dropped. A failure to write is returned to logrus,
// which reports it on stderr rather than through this hook, so it does not
// recurse.
func (h *FrameHook) Fire(entry *log.Entry) error {
	level, ok := levelToFrame[entry.Level]
	if !ok {
		level = framing.LevelInfo
	}
	file, line := callerFileLine()
	rec := framing.LogRecord{
		Level:   level,
		File:    file,
		Module:  h.module,
		Line:    uint32(line),
		Message: entry.Message,
	}
	payload, err := framing.EncodeLogPayload(rec)
	if err != nil {
		return nil
	}
	return h.w.WriteFrame(framing.TypeLog, payload)
}

func callerFileLine() (string, int) {
	_, file, line, ok := runtime.Caller(6) // skim past logrus's own call stack
	if !ok {
		return "", 0
	}
	return filepath.Base(file), line
}
