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
Package perr gives the helper a single vocabulary for errors that carry a
chain of causes, built on github.com/pkg/errors.

Errors here are terminal: by the time main() sees one, it has already been
through Context/WithContext at every layer that had something useful to add,
and the only thing left to do with it is log the full chain and exit.
*/
package perr

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Context wraps err with an eager message, or returns nil if err is nil.
// It is the Go stand-in for the spec's `.context(msg)`.
func Context(err error, msg string) error {
	if err == nil {
		return nil
	}
	return errors.WithMessage(err, msg)
}

// Contextf is Context with a format string.
func Contextf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return errors.WithMessage(err, fmt.Sprintf(format, args...))
}

// WithContext wraps err with a lazily evaluated message, built only when err
// is non-nil. It is the Go stand-in for the spec's `.with_context(|| msg)`.
func WithContext(err error, msgFn func() string) error {
	if err == nil {
		return nil
	}
	return errors.WithMessage(err, msgFn())
}

// Bail constructs a new terminal error from a message, the Go stand-in for
// the spec's `bail!(msg...)` macro. Go has no macros, so callers write
// `return Bail("...")` where the spec would `bail!("...")`.
func Bail(format string, args ...any) error {
	return errors.Errorf(format, args...)
}

// Wrap attaches msg to err as a new causal layer, keeping err as the cause
// so the full chain prints under "Caused by:".
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, msg)
}

// Wrapf is Wrap with a format string.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(err, format, args...)
}

type causer interface {
	Cause() error
}

// Chain renders err and every cause beneath it, one per line, each cause
// prefixed with "Caused by: " - the format the structured LOG frame's message
// field carries for a fatal error.
func Chain(err error) string {
	if err == nil {
		return ""
	}
	var frames []string
	cur := err
	for {
		c, ok := cur.(causer)
		if !ok {
			frames = append(frames, cur.Error())
			break
		}
		next := c.Cause()
		if next == nil {
			frames = append(frames, cur.Error())
			break
		}
		full, nextStr := cur.Error(), next.Error()
		msg := full
		if strings.HasSuffix(full, nextStr) {
			msg = strings.TrimSuffix(strings.TrimSuffix(full, nextStr), ": ")
		}
		if msg != "" {
			frames = append(frames, msg)
		}
		cur = next
	}
	out := frames[0]
	for _, f := range frames[1:] {
		out += "\nCaused by: " + f
	}
	return out
}
