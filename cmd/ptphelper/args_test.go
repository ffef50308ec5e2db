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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgsDefaults(t *testing.T) {
	cfg, err := parseArgs(nil)
	require.NoError(t, err)
	assert.False(t, cfg.Verbose)
	assert.Empty(t, cfg.Interfaces)
	assert.False(t, cfg.HasClockID)
	assert.Equal(t, 1, cfg.TTL)
	assert.Equal(t, 0, cfg.DSCP)
}

func TestParseArgsRepeatedInterfaces(t *testing.T) {
	cfg, err := parseArgs([]string{"-i", "eth0", "--interface", "eth1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"eth0", "eth1"}, cfg.Interfaces)
}

func TestParseArgsClockID(t *testing.T) {
	cfg, err := parseArgs([]string{"-c", "0x185680FFFE057E77"})
	require.NoError(t, err)
	require.True(t, cfg.HasClockID)
	assert.Equal(t, uint64(0x185680FFFE057E77), cfg.ClockID)
}

func TestParseArgsClockIDMissingPrefixIsError(t *testing.T) {
	_, err := parseArgs([]string{"-c", "185680FFFE057E77"})
	require.Error(t, err)
}

func TestParseArgsUnknownFlagIsFatal(t *testing.T) {
	_, err := parseArgs([]string{"--bogus"})
	require.Error(t, err)
}

func TestParseArgsPositionalArgIsFatal(t *testing.T) {
	_, err := parseArgs([]string{"somefile"})
	require.Error(t, err)
}

func TestParseArgsVerboseAndTTL(t *testing.T) {
	cfg, err := parseArgs([]string{"-v", "--ttl", "4"})
	require.NoError(t, err)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, 4, cfg.TTL)
}
