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

func TestChangeKindOutranks(t *testing.T) {
	cases := []struct {
		c, recorded ChangeKind
		want        bool
	}{
		{ChangeCreate, ChangeUndef, true},
		{ChangeSwitch, ChangeUndef, true},
		{ChangeUpdate, ChangeCreate, false},  // a later update can't override an earlier create
		{ChangeCreate, ChangeUpdate, true},   // but a create always outranks a recorded update
		{ChangeSwitch, ChangeCreate, false},  // switch never overwrites a create
		{ChangeSwitch, ChangeUpdate, false},  // switch never overwrites an update
		{ChangeNoChange, ChangeCreate, false},
	}
	for _, c := range cases {
		if got := c.c.outranks(c.recorded); got != c.want {
			t.Errorf("%v.outranks(%v) = %v, want %v", c.c, c.recorded, got, c.want)
		}
	}
}

func TestAssignIDMonotonicAndStable(t *testing.T) {
	b := newBin()
	id0 := b.assignID(100)
	id1 := b.assignID(200)
	id0Again := b.assignID(100)

	if id0 != 0 || id1 != 1 {
		t.Fatalf("ids = %d, %d, want 0, 1", id0, id1)
	}
	if id0Again != id0 {
		t.Fatalf("repeat assignID(100) = %d, want %d", id0Again, id0)
	}
}

func TestResetForDraw(t *testing.T) {
	b := newBin()
	b.assignID(1)
	b.LastChange = ChangeUpdate
	b.Bytes = 64

	b.resetForDraw()

	if b.Bytes != 0 {
		t.Errorf("Bytes = %d, want 0", b.Bytes)
	}
	if b.LastChange != ChangeNoChange {
		t.Errorf("LastChange = %v, want NoChange", b.LastChange)
	}

	fresh := newBin()
	fresh.resetForDraw()
	if fresh.LastChange != ChangeUndef {
		t.Errorf("untouched bin's LastChange after reset = %v, want Undef", fresh.LastChange)
	}
}

func TestTableTotalBytes(t *testing.T) {
	tbl := NewTable()
	tbl[BinShader].Bytes = 10
	tbl[BinTexture].Bytes = 54
	if got := tbl.TotalBytes(); got != 64 {
		t.Errorf("TotalBytes() = %d, want 64", got)
	}
	tbl.ResetForDraw()
	if got := tbl.TotalBytes(); got != 0 {
		t.Errorf("TotalBytes() after reset = %d, want 0", got)
	}
}

func TestBinIDString(t *testing.T) {
	cases := map[BinID]string{
		BinShader:   "SHADER",
		BinVertex0:  "VERTEX0",
		BinVertex4:  "VERTEX4",
		BinVSConst2: "VSCONST2",
		BinPSConst3: "PSCONST3",
		BinDraw:     "DRAW",
		BinPresent:  "PRESENT",
		BinUnknown:  "UNKNOWN",
	}
	for b, want := range cases {
		if got := b.String(); got != want {
			t.Errorf("BinID(%d).String() = %q, want %q", int32(b), got, want)
		}
	}
}
