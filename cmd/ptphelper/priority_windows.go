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

//go:build windows

package main

import (
	"syscall"

	"golang.org/x/sys/windows"

	"github.com/pkg/errors"
)

// kernel32 exposes SetThreadPriority, which golang.org/x/sys/windows doesn't
// wrap; resolved the same way GetCurrentThread's own sibling calls are.
var (
	kernel32              = syscall.NewLazyDLL("kernel32.dll")
	procSetThreadPriority = kernel32.NewProc("SetThreadPriority")
)

const threadPriorityTimeCritical = 15

func raisePriority() error {
	thread, err := windows.GetCurrentThread()
	if err != nil {
		return errors.Wrap(err, "GetCurrentThread")
	}
	r, _, callErr := procSetThreadPriority.Call(uintptr(thread), uintptr(threadPriorityTimeCritical))
	if r == 0 {
		return errors.Wrap(callErr, "SetThreadPriority")
	}
	return nil
}
