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

package clock

import (
	"sync"

	"golang.org/x/sys/unix"
)

// mach_timebase_info's numer/denom scale mach_absolute_time() ticks to
// nanoseconds; it's fixed for the life of the process, so we cache it once.
var timebaseOnce sync.Once
var timebaseNumer, timebaseDenom uint64

func timebase() (uint64, uint64) {
	timebaseOnce.Do(func() {
		numer, denom, err := unix.MachTimebaseInfo()
		if err != nil || denom == 0 {
			timebaseNumer, timebaseDenom = 1, 1
			return
		}
		timebaseNumer, timebaseDenom = uint64(numer), uint64(denom)
	})
	return timebaseNumer, timebaseDenom
}

// Now returns nanoseconds since an arbitrary but monotonic epoch, sourced
// from mach_absolute_time scaled by the cached timebase. Returns 0 on failure.
func Now() uint64 {
	ticks := unix.MachAbsoluteTime()
	numer, denom := timebase()
	if denom == 0 {
		return 0
	}
	return ticks * numer / denom
}
