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

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rchoetzlein/apitrace/core/data/endian"
)

func TestBinaryEncoderCallRecordLength(t *testing.T) {
	var buf bytes.Buffer
	enc := NewBinaryEncoder(&buf)
	if err := enc.EncodeCall(7, "BindTexture", BinTexture, 128, 3, 0xDEADBEEF); err != nil {
		t.Fatalf("EncodeCall: %v", err)
	}
	if buf.Len() != 38 {
		t.Fatalf("call record length = %d, want 38", buf.Len())
	}
}

func TestBinaryEncoderFrameRecordLength(t *testing.T) {
	var buf bytes.Buffer
	enc := NewBinaryEncoder(&buf)
	if err := enc.EncodeFrame(5, 1024); err != nil {
		t.Fatalf("EncodeFrame: %v", err)
	}
	if buf.Len() != 26 {
		t.Fatalf("frame record length = %d, want 26", buf.Len())
	}
}

func TestBinaryEncoderDrawRecordLength(t *testing.T) {
	var buf bytes.Buffer
	enc := NewBinaryEncoder(&buf)
	tbl := NewTable()
	if err := enc.EncodeDraw("DrawArrays", tbl, 3, 64); err != nil {
		t.Fatalf("EncodeDraw: %v", err)
	}
	if buf.Len() != 252 {
		t.Fatalf("draw record length = %d, want 252 (18 header + 25*9 bins + 9 trailer)", buf.Len())
	}
}

// TestBinaryEncoderCallRoundTrip decodes a call record byte-for-byte and
// confirms every field survives the encoding (TESTABLE PROPERTIES: round
// trip).
func TestBinaryEncoderCallRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	enc := NewBinaryEncoder(&buf)
	if err := enc.EncodeCall(42, "UpdateSubresource", BinVSConst2, 256, 9, 0x1122334455667788); err != nil {
		t.Fatalf("EncodeCall: %v", err)
	}

	r := endian.Reader(&buf)
	tag := r.Uint8()
	nameID := r.Uint8()
	tstart := r.Uint64()
	tstop := r.Uint64()
	bin := r.Int32()
	size := r.Int32()
	currentID := r.Int32()
	handle := r.Uint64()
	if err := r.Error(); err != nil {
		t.Fatalf("decoding: %v", err)
	}

	if tag != tagCall {
		t.Errorf("tag = %q, want %q", tag, tagCall)
	}
	if nameID != 42 {
		t.Errorf("nameID = %d, want 42", nameID)
	}
	if tstart != 0 || tstop != 0 {
		t.Errorf("tstart/tstop = %d/%d, want 0/0 (reserved)", tstart, tstop)
	}
	if BinID(bin) != BinVSConst2 {
		t.Errorf("bin = %v, want BinVSConst2", BinID(bin))
	}
	if size != 256 {
		t.Errorf("size = %d, want 256", size)
	}
	if currentID != 9 {
		t.Errorf("currentID = %d, want 9", currentID)
	}
	if handle != 0x1122334455667788 {
		t.Errorf("handle = %#x, want 0x1122334455667788", handle)
	}
}

func TestTextEncoderCallFormat(t *testing.T) {
	var buf bytes.Buffer
	enc := NewTextEncoder(&buf)
	if err := enc.EncodeCall(7, "BindTexture", BinTexture, 0, 3, 42); err != nil {
		t.Fatalf("EncodeCall: %v", err)
	}
	want := "C: 08 0 42 3 BindTexture\n"
	if got := buf.String(); got != want {
		t.Errorf("text call record = %q, want %q", got, want)
	}
}

func TestTextEncoderFrameFormat(t *testing.T) {
	var buf bytes.Buffer
	enc := NewTextEncoder(&buf)
	if err := enc.EncodeFrame(5, 1024); err != nil {
		t.Fatalf("EncodeFrame: %v", err)
	}
	want := "FRAME: 5  (1024)\n"
	if got := buf.String(); got != want {
		t.Errorf("text frame record = %q, want %q", got, want)
	}
}

func TestTextEncoderDrawFormatEndsWithPrimAndBytes(t *testing.T) {
	var buf bytes.Buffer
	enc := NewTextEncoder(&buf)
	tbl := NewTable()
	tbl[BinTexture].CurrentID = 2
	tbl[BinTexture].LastChange = ChangeUpdate
	tbl[BinTexture].Bytes = 64
	if err := enc.EncodeDraw("DrawArrays", tbl, 3, 64); err != nil {
		t.Fatalf("EncodeDraw: %v", err)
	}
	got := buf.String()
	if !strings.HasPrefix(got, "DrawArrays: ") {
		t.Errorf("draw record = %q, want prefix %q", got, "DrawArrays: ")
	}
	if !strings.Contains(got, "2u[64]") {
		t.Errorf("draw record = %q, want it to contain the texture bin's \"2u[64]\" entry", got)
	}
	if !strings.HasSuffix(got, " 3D[64]\n") {
		t.Errorf("draw record = %q, want suffix %q", got, " 3D[64]\n")
	}
}

func TestMultiEncoderFansOutToEveryEncoder(t *testing.T) {
	var bin, txt bytes.Buffer
	m := MultiEncoder{NewBinaryEncoder(&bin), NewTextEncoder(&txt)}

	if err := m.EncodeFrame(1, 8); err != nil {
		t.Fatalf("EncodeFrame: %v", err)
	}
	if bin.Len() != 26 {
		t.Errorf("binary side length = %d, want 26", bin.Len())
	}
	if txt.String() != "FRAME: 1  (8)\n" {
		t.Errorf("text side = %q, want %q", txt.String(), "FRAME: 1  (8)\n")
	}
}
