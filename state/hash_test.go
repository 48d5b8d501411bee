// Copyright (C) 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package state

import "testing"

func TestComputeHashDeterministic(t *testing.T) {
	h1 := computeHash(42, []byte("hello"))
	h2 := computeHash(42, []byte("hello"))
	if h1 != h2 {
		t.Errorf("computeHash not deterministic: %d != %d", h1, h2)
	}
}

func TestComputeHashHandleOnlyOnNilPayload(t *testing.T) {
	h1 := computeHash(7, nil)
	h2 := computeHash(7, nil)
	if h1 != h2 {
		t.Errorf("nil-payload hash not stable: %d != %d", h1, h2)
	}
	if h1 == computeHash(8, nil) {
		t.Errorf("different handles produced the same handle-only hash")
	}
}

func TestComputeHashDifferentHandlesSamePayload(t *testing.T) {
	payload := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	h10 := computeHash(10, payload)
	h11 := computeHash(11, payload)
	if h10 == h11 {
		t.Errorf("identical payload with different handles hashed to the same value")
	}
}

func TestComputeHashOnlyLow4BytesOfHandle(t *testing.T) {
	// Handles differing only above the low 32 bits must hash identically:
	// the hash explicitly covers only the first 4 little-endian bytes.
	a := computeHash(0x00000000_000000FF, nil)
	b := computeHash(0xDEADBEEF_000000FF, nil)
	if a != b {
		t.Errorf("hash depends on handle bytes above the low 4: %d != %d", a, b)
	}
}
