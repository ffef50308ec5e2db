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

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFallbackRand8IsDeterministic(t *testing.T) {
	now := time.Unix(1700000000, 123456789)
	a := fallbackRand8(now, 4242)
	b := fallbackRand8(now, 4242)
	assert.Equal(t, a, b)
}

func TestFallbackRand8VariesWithInputs(t *testing.T) {
	now := time.Unix(1700000000, 123456789)
	a := fallbackRand8(now, 4242)
	b := fallbackRand8(now.Add(time.Nanosecond), 4242)
	assert.NotEqual(t, a, b)

	c := fallbackRand8(now, 4243)
	assert.NotEqual(t, a, c)
}

func TestRand8ReturnsEightBytes(t *testing.T) {
	b := Rand8()
	assert.Len(t, b, 8)
}
