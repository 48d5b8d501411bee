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
	"fmt"
	"io"

	"github.com/rchoetzlein/apitrace/core/data/binary"
	"github.com/rchoetzlein/apitrace/core/data/endian"
)

// Every record shares this 18-byte header: a one-byte type tag, a one-byte
// nameID (0 for frame records), and two reserved 8-byte timing fields that
// are always written as zero — the analyzer doesn't measure wall-clock time
// around calls, it only reserves the field for a future retracer that does.
const (
	tagCall  = 'C'
	tagDraw  = 'D'
	tagFrame = 'F'
)

// BinaryEncoder writes the fixed-width binary record stream described in
// the record layout: an 18-byte header on every record, followed by a
// 20-byte call body, an 8-byte frame body, or a (NumBins*9 + 9)-byte draw
// body.
type BinaryEncoder struct {
	w binary.Writer
}

// NewBinaryEncoder wraps w as a little-endian binary record sink.
func NewBinaryEncoder(w io.Writer) *BinaryEncoder {
	return &BinaryEncoder{w: endian.Writer(w)}
}

func (e *BinaryEncoder) header(tag byte, nameID uint8) {
	e.w.Uint8(tag)
	e.w.Uint8(nameID)
	e.w.Uint64(0) // tstart, reserved
	e.w.Uint64(0) // tstop, reserved
}

// EncodeCall writes a 38-byte call record.
func (e *BinaryEncoder) EncodeCall(nameID uint8, name string, bin BinID, size int32, currentID int32, objectHandle uint64) error {
	e.header(tagCall, nameID)
	e.w.Int32(int32(bin))
	e.w.Int32(size)
	e.w.Int32(currentID)
	e.w.Uint64(objectHandle)
	return e.w.Error()
}

// EncodeFrame writes a 26-byte frame record.
func (e *BinaryEncoder) EncodeFrame(frameNo int32, frameBytes int32) error {
	e.header(tagFrame, 0)
	e.w.Int32(frameNo)
	e.w.Int32(frameBytes)
	return e.w.Error()
}

// EncodeDraw writes a 252-byte draw record: a 9-byte snapshot per real bin
// (current_id, last_change, bytes) followed by the draw's own 9-byte
// trailer (prim_count, the literal tag 'D', draw_bytes).
func (e *BinaryEncoder) EncodeDraw(name string, table *Table, primCount int32, drawBytes int32) error {
	e.header(tagDraw, 0)
	for _, b := range table {
		e.w.Int32(b.CurrentID)
		e.w.Uint8(uint8(b.LastChange))
		e.w.Int32(b.Bytes)
	}
	e.w.Int32(primCount)
	e.w.Uint8(tagDraw)
	e.w.Int32(drawBytes)
	return e.w.Error()
}

// changeChars renders a ChangeKind as the single letter used by the text
// encoding: UNDEF 'x', CREATE 'c', UPDATE 'u', SWITCH 's', NOCHANGE '-'.
var changeChars = [...]byte{ChangeUndef: 'x', ChangeCreate: 'c', ChangeUpdate: 'u', ChangeSwitch: 's', ChangeNoChange: '-'}

// TextEncoder writes the human-readable record stream: one line per call,
// frame, or draw record.
type TextEncoder struct {
	w io.Writer
}

// NewTextEncoder wraps w as a text record sink.
func NewTextEncoder(w io.Writer) *TextEncoder {
	return &TextEncoder{w: w}
}

// EncodeCall writes "C: <bin2d> <size> <object_handle> <current_id> <name>".
func (e *TextEncoder) EncodeCall(nameID uint8, name string, bin BinID, size int32, currentID int32, objectHandle uint64) error {
	_, err := fmt.Fprintf(e.w, "C: %02d %d %d %d %s\n", bin, size, objectHandle, currentID, name)
	return err
}

// EncodeFrame writes "FRAME: <n>  (<bytes>)".
func (e *TextEncoder) EncodeFrame(frameNo int32, frameBytes int32) error {
	_, err := fmt.Fprintf(e.w, "FRAME: %d  (%d)\n", frameNo, frameBytes)
	return err
}

// EncodeDraw writes "<name>: <id><c>[<bytes>] ... <prim>D[<draw_bytes>]".
func (e *TextEncoder) EncodeDraw(name string, table *Table, primCount int32, drawBytes int32) error {
	if _, err := fmt.Fprintf(e.w, "%s: ", name); err != nil {
		return err
	}
	for _, b := range table {
		if _, err := fmt.Fprintf(e.w, "%d%c[%d] ", b.CurrentID, changeChars[b.LastChange], b.Bytes); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(e.w, " %dD[%d]\n", primCount, drawBytes)
	return err
}

// MultiEncoder fans every record out to each of its encoders in order,
// letting binary and text output run side by side behind the
// stateTraceRaw/stateTraceTxt toggles.
type MultiEncoder []Encoder

func (m MultiEncoder) EncodeCall(nameID uint8, name string, bin BinID, size int32, currentID int32, objectHandle uint64) error {
	for _, e := range m {
		if err := e.EncodeCall(nameID, name, bin, size, currentID, objectHandle); err != nil {
			return err
		}
	}
	return nil
}

func (m MultiEncoder) EncodeFrame(frameNo int32, frameBytes int32) error {
	for _, e := range m {
		if err := e.EncodeFrame(frameNo, frameBytes); err != nil {
			return err
		}
	}
	return nil
}

func (m MultiEncoder) EncodeDraw(name string, table *Table, primCount int32, drawBytes int32) error {
	for _, e := range m {
		if err := e.EncodeDraw(name, table, primCount, drawBytes); err != nil {
			return err
		}
	}
	return nil
}
