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

// Package privileges drops whatever elevation the helper needed to bind
// ports 319/320 and join multicast. There is exactly one operation, Drop,
// and its mechanism is chosen per platform at compile time rather than at
// runtime: Linux clears the process capability set, other Unixes setgid
// then setuid to an unprivileged account, and Windows - which never needed
// elevation to bind a UDP port in the first place - does nothing.
//
// Drop must run after the event/general sockets are bound but before any
// multicast join, so the bind that needs CAP_NET_BIND_SERVICE (or root)
// succeeds while everything that follows runs unprivileged.
package privileges

// DefaultUser is the account setuid-root drops into when none is configured.
const DefaultUser = "nobody"
