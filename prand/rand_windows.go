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

package prand

import "golang.org/x/sys/windows"

// platformRand8 uses BCryptGenRandom with the system-preferred RNG
// (BCRYPT_USE_SYSTEM_PREFERRED_RNG), per spec priority (c).
func platformRand8() ([8]byte, bool) {
	var b [8]byte
	if err := windows.BCryptGenRandom(0, b[:], windows.BCRYPT_USE_SYSTEM_PREFERRED_RNG); err != nil {
		return b, false
	}
	return b, true
}
