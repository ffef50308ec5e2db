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

//go:build !linux && !windows

package privileges

import (
	"os/user"
	"strconv"

	"golang.org/x/sys/unix"

	"github.com/pkg/errors"
)

// Drop looks up userName (DefaultUser if empty) and its primary group, then
// setgids and setuids into them. setgid runs first: a process that is still
// root can still change its uid after a failed setgid, so on setgid failure
// there is nothing to restore; on setuid failure, the gid change already
// took effect and restoring root's original gid is attempted before
// returning the error.
func Drop(userName, groupName string) error {
	if userName == "" {
		userName = DefaultUser
	}

	u, err := user.Lookup(userName)
	if err != nil {
		if _, ok := err.(user.UnknownUserError); ok {
			return &NotFoundError{Kind: "user", Name: userName}
		}
		return errors.Wrapf(err, "looking up user %q", userName)
	}

	gid := u.Gid
	if groupName != "" {
		g, err := user.LookupGroup(groupName)
		if err != nil {
			if _, ok := err.(user.UnknownGroupError); ok {
				return &NotFoundError{Kind: "group", Name: groupName}
			}
			return errors.Wrapf(err, "looking up group %q", groupName)
		}
		gid = g.Gid
	}

	targetGid, err := strconv.Atoi(gid)
	if err != nil {
		return errors.Wrapf(err, "parsing gid %q", gid)
	}
	targetUid, err := strconv.Atoi(u.Uid)
	if err != nil {
		return errors.Wrapf(err, "parsing uid %q", u.Uid)
	}

	originalGid := unix.Getgid()

	if err := retryEINTR(func() error { return unix.Setgid(targetGid) }); err != nil {
		return errors.Wrapf(err, "setgid(%d)", targetGid)
	}

	if err := retryEINTR(func() error { return unix.Setuid(targetUid) }); err != nil {
		if restoreErr := retryEINTR(func() error { return unix.Setgid(originalGid) }); restoreErr != nil {
			return errors.Wrapf(err, "setuid(%d) failed, and restoring gid %d also failed: %v", targetUid, originalGid, restoreErr)
		}
		return errors.Wrapf(err, "setuid(%d)", targetUid)
	}
	return nil
}

func retryEINTR(f func() error) error {
	for {
		err := f()
		if err != unix.EINTR {
			return err
		}
	}
}
