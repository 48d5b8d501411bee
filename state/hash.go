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

// computeHash returns the content-address of a bin value: a djb2 hash over
// the first four little-endian bytes of handle, followed by every byte of
// payload (if any). Two calls with the same (handle, payload) always
// produce the same hash, and a null payload yields a handle-only hash.
//
// The byte-exact shape of this function is part of the wire contract: the
// same hash must be reproducible across processes and languages, so the
// handle's low 4 bytes are always taken, never all 8.
func computeHash(handle uint64, payload []byte) uint64 {
	h := uint64(5381)
	h = ((h << 5) + h) + uint64(byte(handle))
	h = ((h << 5) + h) + uint64(byte(handle>>8))
	h = ((h << 5) + h) + uint64(byte(handle>>16))
	h = ((h << 5) + h) + uint64(byte(handle>>24))
	for _, b := range payload {
		h = ((h << 5) + h) + uint64(b)
	}
	return h
}
