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

	"golang.org/x/sys/windows"
)

var freqOnce sync.Once
var freq int64

func frequency() int64 {
	freqOnce.Do(func() {
		var f int64
		if err := windows.QueryPerformanceFrequency(&f); err != nil || f == 0 {
			freq = 0
			return
		}
		freq = f
	})
	return freq
}

// Now returns nanoseconds since an arbitrary but monotonic epoch, sourced
// from QueryPerformanceCounter scaled by the cached QueryPerformanceFrequency.
// Returns 0 on failure.
func Now() uint64 {
	f := frequency()
	if f == 0 {
		return 0
	}
	var counter int64
	if err := windows.QueryPerformanceCounter(&counter); err != nil || counter < 0 {
		return 0
	}
	// split into whole seconds and remainder ticks to avoid overflowing
	// int64 multiplication for large counter values over long uptimes.
	whole := counter / f
	rem := counter % f
	return uint64(whole)*1e9 + uint64(rem)*1e9/uint64(f)
}
