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

package perr

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextNilIsNil(t *testing.T) {
	assert.NoError(t, Context(nil, "whatever"))
}

func TestContextWrapsMessage(t *testing.T) {
	base := Bail("socket closed")
	wrapped := Context(base, "draining event socket")
	require.Error(t, wrapped)
	assert.Contains(t, wrapped.Error(), "draining event socket")
	assert.Contains(t, wrapped.Error(), "socket closed")
}

func TestWithContextIsLazy(t *testing.T) {
	called := false
	msgFn := func() string {
		called = true
		return "expensive"
	}
	assert.NoError(t, WithContext(nil, msgFn))
	assert.False(t, called, "WithContext must not evaluate msgFn for a nil error")

	err := WithContext(Bail("boom"), msgFn)
	require.Error(t, err)
	assert.True(t, called)
}

func TestChainListsCausesInOrder(t *testing.T) {
	root := Bail("bind failed: address in use")
	mid := Wrap(root, "creating event socket")
	top := Wrap(mid, "starting helper")

	chain := Chain(top)
	lines := strings.Split(chain, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "starting helper", lines[0])
	assert.Equal(t, "Caused by: creating event socket", lines[1])
	assert.Equal(t, "Caused by: bind failed: address in use", lines[2])
}

func TestChainNilIsEmpty(t *testing.T) {
	assert.Equal(t, "", Chain(nil))
}
