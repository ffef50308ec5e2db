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
	"flag"
	"fmt"
	"strconv"
	"strings"
)

// config holds the parsed command line: the operator's view of what this
// process should bind to and how it should identify itself on the wire.
type config struct {
	Verbose    bool
	Interfaces []string
	ClockID    uint64
	HasClockID bool
	TTL        int
	DSCP       int
}

// stringList is a flag.Value that accumulates every -i/--interface operand
// instead of keeping only the last one, since interfaces is repeatable.
type stringList struct {
	values *[]string
}

func (s stringList) String() string {
	if s.values == nil {
		return ""
	}
	return strings.Join(*s.values, ",")
}

func (s stringList) Set(v string) error {
	*s.values = append(*s.values, v)
	return nil
}

// parseArgs parses argv (excluding the program name) into a config. Unknown
// flags and stray positional arguments are both fatal, matching a process
// with no config file and no subcommands to dispatch on.
func parseArgs(argv []string) (*config, error) {
	fs := flag.NewFlagSet("ptphelper", flag.ContinueOnError)

	cfg := &config{TTL: 1}
	var clockIDHex string

	fs.BoolVar(&cfg.Verbose, "v", false, "enable verbose logging")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "enable verbose logging")

	ifaces := stringList{values: &cfg.Interfaces}
	fs.Var(ifaces, "i", "interface to bind (repeatable)")
	fs.Var(ifaces, "interface", "interface to bind (repeatable)")

	fs.StringVar(&clockIDHex, "c", "", "clock identity override, as 0x-prefixed hex")
	fs.StringVar(&clockIDHex, "clock-id", "", "clock identity override, as 0x-prefixed hex")

	fs.IntVar(&cfg.TTL, "ttl", 1, "unicast and multicast TTL for outbound packets")
	fs.IntVar(&cfg.DSCP, "dscp", 0, "DSCP codepoint to mark outbound packets with (0 leaves it untouched)")

	if err := fs.Parse(argv); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected positional argument %q", fs.Arg(0))
	}

	if clockIDHex != "" {
		id, err := parseClockIDHex(clockIDHex)
		if err != nil {
			return nil, err
		}
		cfg.ClockID = id
		cfg.HasClockID = true
	}

	return cfg, nil
}

func parseClockIDHex(s string) (uint64, error) {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return 0, fmt.Errorf("clock-id %q must start with 0x or 0X", s)
	}
	id, err := strconv.ParseUint(s[2:], 16, 64)
	if err != nil {
		return 0, fmt.Errorf("clock-id %q is not valid hex: %w", s, err)
	}
	return id, nil
}
