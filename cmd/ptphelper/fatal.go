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

package main

import "github.com/ptpmesh/ptphelper/perr"

// errFatalf builds an error for conditions the main loop treats as
// unrecoverable - a stdin frame the parent was never supposed to send, or a
// PTP message it was never supposed to send under the wrong clockIdentity.
func errFatalf(format string, args ...interface{}) error {
	return perr.Bail(format, args...)
}
