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

// Package state implements the state-sorting analyzer: it reconstructs, per
// draw call, the pipeline state configuration in effect and emits a record
// of which bins changed, how many bytes they carried and how many
// primitives were drawn.
package state

import "fmt"

// BinID identifies one pipeline slot. The enumeration is closed: 25 real
// bins plus the DRAW and PRESENT dispatch sentinels and an UNKNOWN sentinel
// for handles the analyzer can't place.
type BinID int32

const (
	BinShader BinID = iota
	BinRenderTarget
	BinViewport
	BinRasterizer
	BinDepth
	BinBlend
	BinSampler
	BinInputLayout
	BinTexture
	BinVertex0
	BinVertex1
	BinVertex2
	BinVertex3
	BinVertex4
	BinVSConst0
	BinVSConst1
	BinVSConst2
	BinVSConst3
	BinVSConst4
	BinPSConst0
	BinPSConst1
	BinPSConst2
	BinPSConst3
	BinPSConst4
	BinIndex

	// NumBins is the count of real, stored pipeline bins.
	NumBins

	// BinDraw is a dispatch-only sentinel: a draw call. Never stored.
	BinDraw BinID = NumBins
	// BinPresent is a dispatch-only sentinel: a frame boundary. Never stored.
	BinPresent BinID = NumBins + 1
	// BinUnknown marks a handle or call the analyzer could not place.
	BinUnknown BinID = 250
)

func (b BinID) String() string {
	switch b {
	case BinShader:
		return "SHADER"
	case BinRenderTarget:
		return "RENDER"
	case BinViewport:
		return "VIEWPORT"
	case BinRasterizer:
		return "RASTER"
	case BinDepth:
		return "DEPTH"
	case BinBlend:
		return "BLEND"
	case BinSampler:
		return "SAMPLER"
	case BinInputLayout:
		return "INPUT"
	case BinTexture:
		return "TEXTURE"
	case BinIndex:
		return "INDEX"
	case BinDraw:
		return "DRAW"
	case BinPresent:
		return "PRESENT"
	case BinUnknown:
		return "UNKNOWN"
	default:
		switch {
		case b >= BinVertex0 && b <= BinVertex4:
			return fmt.Sprintf("VERTEX%d", b-BinVertex0)
		case b >= BinVSConst0 && b <= BinVSConst4:
			return fmt.Sprintf("VSCONST%d", b-BinVSConst0)
		case b >= BinPSConst0 && b <= BinPSConst4:
			return fmt.Sprintf("PSCONST%d", b-BinPSConst0)
		}
		return fmt.Sprintf("BIN%d", int32(b))
	}
}

// ChangeKind records which kind of update last touched a bin, and the
// relative priority among racing updates within one draw window. Lower
// values are higher priority: CREATE and UPDATE outrank a later SWITCH.
type ChangeKind uint8

const (
	// ChangeUndef means the bin has never been touched.
	ChangeUndef ChangeKind = iota
	// ChangeCreate means a new resource was created into the bin.
	ChangeCreate
	// ChangeUpdate means the bound resource's content was (re)uploaded.
	ChangeUpdate
	// ChangeSwitch means a different, already-known resource was bound.
	ChangeSwitch
	// ChangeNoChange means the bin was reset at a draw boundary and nothing
	// has touched it since.
	ChangeNoChange
)

// char is the single-letter rendering used by the text record encoding.
func (c ChangeKind) char() byte {
	switch c {
	case ChangeCreate:
		return 'c'
	case ChangeUpdate:
		return 'u'
	case ChangeSwitch:
		return 's'
	case ChangeNoChange:
		return '-'
	default:
		return 'x'
	}
}

// outranks implements the "first meaningful change wins" priority test: a
// new change of kind c is allowed to overwrite a bin currently recorded at
// kind recorded only if c is of equal-or-higher priority, or the bin has
// never been touched.
func (c ChangeKind) outranks(recorded ChangeKind) bool {
	return recorded == ChangeUndef || c <= recorded
}

// Bin is one pipeline slot's tracked state.
type Bin struct {
	CurrentID  int32
	LastChange ChangeKind
	Bytes      int32

	hashToID map[uint64]int32
	nextID   int32
}

func newBin() *Bin {
	return &Bin{CurrentID: -1, LastChange: ChangeUndef, hashToID: map[uint64]int32{}}
}

// assignID returns the dense id already registered for hash in this bin, or
// registers hash with the next sequential id and returns that.
func (b *Bin) assignID(hash uint64) int32 {
	if id, ok := b.hashToID[hash]; ok {
		return id
	}
	id := b.nextID
	b.hashToID[hash] = id
	b.nextID++
	return id
}

// resetForDraw clears per-draw-window tracking: bytes go back to zero, and
// any bin that has been touched at least once reverts to NoChange so that
// the next draw window starts from a clean slate.
func (b *Bin) resetForDraw() {
	b.Bytes = 0
	if b.LastChange != ChangeUndef {
		b.LastChange = ChangeNoChange
	}
}

// Table is the fixed array of all real pipeline bins, indexed by BinID.
type Table [NumBins]*Bin

// NewTable constructs a Table with every bin freshly reset.
func NewTable() *Table {
	var t Table
	for i := range t {
		t[i] = newBin()
	}
	return &t
}

// ResetForDraw resets every bin's per-draw-window tracking. Called once per
// draw, after its records have been emitted.
func (t *Table) ResetForDraw() {
	for _, b := range t {
		b.resetForDraw()
	}
}

// TotalBytes sums Bytes across every bin, used for the draw record's
// aggregate byte count.
func (t *Table) TotalBytes() int32 {
	var total int32
	for _, b := range t {
		total += b.Bytes
	}
	return total
}
