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
	"context"

	"github.com/pkg/errors"

	"github.com/rchoetzlein/apitrace/trace"
)

// Encoder receives the three record kinds the analyzer emits during pass 2.
// A record layout (binary, text, or both) is a concern of the Encoder
// implementation, not of the analyzer itself.
type Encoder interface {
	// EncodeCall writes a call record: the bin touched (or BinDraw for a
	// draw's own record), the declared size, the bin's current dense id at
	// the moment of emission, and the object handle named by the call.
	EncodeCall(nameID uint8, name string, bin BinID, size int32, currentID int32, objectHandle uint64) error
	// EncodeFrame writes a frame record: the frame being closed and the
	// bytes uploaded since the previous one.
	EncodeFrame(frameNo int32, frameBytes int32) error
	// EncodeDraw writes a draw record: a snapshot of every real bin plus
	// the draw's primitive count and total byte volume.
	EncodeDraw(name string, table *Table, primCount int32, drawBytes int32) error
}

// Analyzer bundles the process-wide mutable state the original tool kept in
// package globals: the bin table, the resource map, the classifier's
// last-bind tracking, the frame counter and the per-frame byte accumulator.
// Construct one before pass 1 and discard it after pass 2 — it is not safe
// to reuse across independent traces.
type Analyzer struct {
	Table     *Table
	Resources *ResourceMap
	Classifier *Classifier
	Encoder    Encoder

	// StartFrame is the first frame (inclusive) whose calls are processed.
	// Calls seen before it are still scanned for frame boundaries (so the
	// frame counter stays correct) but produce no records and no bin
	// updates. Pass 1 is not gated: their resource map entries are recorded.
	StartFrame int32

	frame          int32
	bytesThisFrame int64
}

// NewAnalyzer constructs an Analyzer ready to run pass 1.
func NewAnalyzer(enc Encoder, startFrame int32) *Analyzer {
	return &Analyzer{
		Table:      NewTable(),
		Resources:  NewResourceMap(),
		Classifier: NewClassifier(),
		Encoder:    enc,
		StartFrame: startFrame,
	}
}

// Run performs both passes over src in order: pass 1 discovers resource→bin
// mappings with no output, pass 2 replays the same calls and emits records.
// src must support being walked twice; JSONLSource and List both do.
func (a *Analyzer) Run(ctx context.Context, src trace.Source) error {
	a.frame = 0
	if err := src.ForEach(ctx, a.pass1); err != nil {
		return errors.Wrap(err, "pass 1 (bin discovery)")
	}

	a.frame = 0
	a.bytesThisFrame = 0
	if err := src.ForEach(ctx, a.pass2); err != nil {
		return errors.Wrap(err, "pass 2 (state sorting)")
	}
	return nil
}

// pass1 classifies every call and records object handles against the bins
// they were created or bound into. Draws and presents carry no resource of
// their own and are skipped, matching the classifier's own BinDraw/BinPresent
// sentinel contract.
func (a *Analyzer) pass1(call *trace.Call) error {
	for _, u := range a.Classifier.Classify(call) {
		if u.Bin >= BinDraw {
			continue
		}
		a.Resources.AssignToBin(u.ObjectHandle, u.Bin)
	}
	return nil
}

// pass2 replays the trace, updating bin state and emitting records. The
// frame counter is maintained here rather than in pass1: only pass 2's
// output is gated by StartFrame, and the counter must still cross frame
// boundaries while gated so that by the time StartFrame is reached it holds
// the correct value.
func (a *Analyzer) pass2(call *trace.Call) error {
	for _, u := range a.Classifier.Classify(call) {
		if err := a.dispatch(u); err != nil {
			return err
		}
	}
	return nil
}

func (a *Analyzer) dispatch(u *Update) error {
	switch u.Bin {
	case BinPresent:
		return a.onPresent(u)
	case BinDraw:
		return a.onDraw(u)
	default:
		if a.frame < a.StartFrame {
			return nil
		}
		return a.onUpdate(u)
	}
}

func (a *Analyzer) onPresent(u *Update) error {
	if a.frame >= a.StartFrame {
		if err := a.Encoder.EncodeFrame(a.frame, int32(a.bytesThisFrame)); err != nil {
			return errors.Wrap(err, "encoding frame record")
		}
	}
	a.bytesThisFrame = 0
	a.frame++
	return nil
}

// onDraw emits the draw's own call record (always valid=0: BinDraw is a
// dispatch sentinel and is never stored in the table), then a draw record
// summarising every real bin, then resets all bins for the next window.
func (a *Analyzer) onDraw(u *Update) error {
	if a.frame < a.StartFrame {
		return nil
	}
	if err := a.Encoder.EncodeCall(u.NameID, u.Name, BinDraw, u.Size, 0, u.ObjectHandle); err != nil {
		return errors.Wrap(err, "encoding draw's call record")
	}
	drawBytes := a.Table.TotalBytes()
	if err := a.Encoder.EncodeDraw(u.Name, a.Table, u.Size, drawBytes); err != nil {
		return errors.Wrap(err, "encoding draw record")
	}
	a.bytesThisFrame += int64(drawBytes)
	a.Table.ResetForDraw()
	return nil
}

// onUpdate resolves the effective bin (falling back from the
// classifier-supplied bin through the object and data handles) and, if it
// resolves, emits the call's record. Bin resolution failing is the only
// thing that drops the record entirely ("if still UNKNOWN, drop the call");
// the priority test below gates only whether the bin's own state advances —
// a CREATE/UPDATE/SWITCH the priority test rejects, or a SWITCH with no
// known handle id, still gets a call record, just one carrying the bin's
// unchanged CurrentID rather than a freshly assigned one.
func (a *Analyzer) onUpdate(u *Update) error {
	bin := u.Bin
	if bin == BinUnknown {
		bin = a.Resources.LookupBin(u.ObjectHandle)
	}
	if bin == BinUnknown {
		bin = a.Resources.LookupBin(u.DataHandle)
	}
	if bin == BinUnknown {
		return nil
	}

	b := a.Table[bin]
	switch u.Change {
	case ChangeCreate, ChangeUpdate:
		if u.Change.outranks(b.LastChange) {
			hash := computeHash(u.ObjectHandle, u.Payload)
			id := b.assignID(hash)
			a.Resources.SetHandleID(u.ObjectHandle, id)
			b.CurrentID = id
			b.LastChange = u.Change
			b.Bytes = 0
			if u.Change == ChangeUpdate {
				b.Bytes = u.Size
			}
		}
	case ChangeSwitch:
		if id := a.Resources.GetHandleID(u.ObjectHandle); id != -1 && u.Change.outranks(b.LastChange) {
			b.CurrentID = id
			b.LastChange = u.Change
			b.Bytes = 0
		}
	}

	if err := a.Encoder.EncodeCall(u.NameID, u.Name, bin, u.Size, b.CurrentID, u.ObjectHandle); err != nil {
		return errors.Wrap(err, "encoding call record")
	}
	return nil
}
