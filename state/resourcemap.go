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

// ResourceMap remembers which bin a resource handle belongs to. It is
// populated during pass 1 and only ever grows: handles are never evicted,
// since a trace never reuses a handle for a different bin in practice.
type ResourceMap struct {
	bin      map[uint64]BinID
	handleID map[uint64]int32
}

// NewResourceMap returns an empty ResourceMap.
func NewResourceMap() *ResourceMap {
	return &ResourceMap{bin: map[uint64]BinID{}, handleID: map[uint64]int32{}}
}

// AssignToBin records handle as belonging to bin. Handles classified as
// BinUnknown are not recorded: there's nothing useful to remember about
// them, and recording a placeholder would only cost a lookup miss later
// that correctly falls through to BinUnknown anyway.
func (m *ResourceMap) AssignToBin(handle uint64, bin BinID) {
	if bin == BinUnknown {
		return
	}
	m.bin[handle] = bin
}

// LookupBin returns the bin handle was assigned to in pass 1, or BinUnknown
// if it was never seen.
func (m *ResourceMap) LookupBin(handle uint64) BinID {
	if bin, ok := m.bin[handle]; ok {
		return bin
	}
	return BinUnknown
}

// SetHandleID remembers the dense id most recently assigned to handle within
// its bin, so a later pure SWITCH can recover the id without rehashing.
func (m *ResourceMap) SetHandleID(handle uint64, id int32) {
	m.handleID[handle] = id
}

// GetHandleID returns the dense id last recorded for handle, or -1 if none
// has been recorded.
func (m *ResourceMap) GetHandleID(handle uint64) int32 {
	if id, ok := m.handleID[handle]; ok {
		return id
	}
	return -1
}
