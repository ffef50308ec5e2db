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

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ptpmesh/ptphelper/netutil"
)

var testIfaces = []netutil.InterfaceInfo{
	{Name: "eth0", Index: 2, IPv4: net.IPv4(10, 0, 0, 1)},
	{Name: "eth1", Index: 3, IPv4: net.IPv4(10, 0, 0, 2)},
}

func TestSelectInterfacesEmptySelectorReturnsAll(t *testing.T) {
	got, err := selectInterfaces(testIfaces, nil)
	require.NoError(t, err)
	assert.Equal(t, testIfaces, got)
}

func TestSelectInterfacesByName(t *testing.T) {
	got, err := selectInterfaces(testIfaces, []string{"eth1"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "eth1", got[0].Name)
}

func TestSelectInterfacesByIPv4Literal(t *testing.T) {
	got, err := selectInterfaces(testIfaces, []string{"10.0.0.1"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "eth0", got[0].Name)
}

func TestSelectInterfacesUnknownNameIsError(t *testing.T) {
	_, err := selectInterfaces(testIfaces, []string{"eth9"})
	require.Error(t, err)
}
