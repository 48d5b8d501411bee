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

// Update is what the classifier emits for one bin touched by one call. A
// single call can touch several bins (IASetVertexBuffers and friends fan out
// to up to 5 consecutive bins), in which case the classifier produces one
// Update per affected bin.
type Update struct {
	Change ChangeKind
	// Name is the short display name used in text records; it need not
	// match the trace's call name exactly (the original tool used shorter,
	// fixed-width aliases).
	Name string
	// NameID is the classifier's small stable id for the call, used as the
	// binary record's 1-byte nameID field.
	NameID uint8
	Bin    BinID
	// ObjectHandle is the resource the update concerns: a texture, buffer,
	// shader or similar. 0 if not applicable (e.g. a draw or present).
	ObjectHandle uint64
	// DataHandle is a secondary handle used as a fallback bin lookup key
	// when ObjectHandle's bin can't be resolved (mirrors the classifier's
	// practice of passing the same handle twice, or a related one, for
	// calls where either could plausibly carry the resourcemap entry).
	DataHandle uint64
	// Payload is the content driving this update's hash and UPDATE byte
	// count; nil for a pure SWITCH or CREATE-without-content.
	Payload []byte
	// Size is the logical size carried by the call: a draw's primitive
	// count, or an UPDATE's byte count (which can be non-zero while Payload
	// is nil, as with the glUniform*f calls).
	Size int32
}
