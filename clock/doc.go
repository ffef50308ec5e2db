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
Package clock provides a single monotonic nanosecond timestamp source, used
to stamp PTP packets at the kernel-to-userspace boundary: once right after a
recvfrom returns, once right after a sendto returns.

This intentionally does not discipline, step, or query the frequency of any
clock - those are PTP servo concerns that live in the engine this helper is a
sidecar to, not here. Now() never allocates and never blocks.
*/
package clock
