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

//go:build !windows

package main

import (
	"golang.org/x/sys/unix"

	"github.com/pkg/errors"
)

// raisePriority asks for a higher scheduling priority before privileges are
// dropped - this needs CAP_SYS_NICE (or root) on most systems, so it has to
// happen while the process still has it.
func raisePriority() error {
	if err := unix.Setpriority(unix.PRIO_PROCESS, 0, -5); err != nil {
		return errors.Wrap(err, "setpriority")
	}
	return nil
}
