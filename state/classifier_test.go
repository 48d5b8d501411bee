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
	"testing"

	"github.com/rchoetzlein/apitrace/trace"
)

func call(name string, args ...*trace.Value) *trace.Call {
	return &trace.Call{Name: name, Args: args}
}

func TestClassifyGenTexturesBiasesHandle(t *testing.T) {
	c := NewClassifier()
	ups := c.Classify(call("glGenTextures",
		trace.NewUInt(1),
		trace.NewArray(trace.NewUInt(42))))
	if len(ups) != 1 {
		t.Fatalf("got %d updates, want 1", len(ups))
	}
	if ups[0].ObjectHandle != 42+textureBias {
		t.Errorf("ObjectHandle = %d, want %d", ups[0].ObjectHandle, 42+textureBias)
	}
	if ups[0].Bin != BinTexture || ups[0].Change != ChangeCreate {
		t.Errorf("got bin=%v change=%v, want BinTexture/ChangeCreate", ups[0].Bin, ups[0].Change)
	}
}

// TestClassifyIASetVertexBuffersFanOut covers S4: a 3-buffer bind fans out
// to 3 independent SWITCH updates landing on consecutive vertex bins.
func TestClassifyIASetVertexBuffersFanOut(t *testing.T) {
	c := NewClassifier()
	ups := c.Classify(call("ID3D11DeviceContext::IASetVertexBuffers",
		trace.NewUInt(0), trace.NewUInt(0), trace.NewUInt(3),
		trace.NewArray(trace.NewUInt(100), trace.NewUInt(200), trace.NewUInt(300))))

	if len(ups) != 3 {
		t.Fatalf("got %d updates, want 3", len(ups))
	}
	wantBins := []BinID{BinVertex0, BinVertex1, BinVertex2}
	for i, u := range ups {
		if u.Bin != wantBins[i] {
			t.Errorf("update %d bin = %v, want %v", i, u.Bin, wantBins[i])
		}
		if u.Change != ChangeSwitch {
			t.Errorf("update %d change = %v, want ChangeSwitch", i, u.Change)
		}
	}
}

// TestClassifyConstantBuffersClampToFive covers S5: a count of 7 is clamped
// to 5 fanned-out updates.
func TestClassifyConstantBuffersClampToFive(t *testing.T) {
	c := NewClassifier()
	handles := make([]*trace.Value, 7)
	for i := range handles {
		handles[i] = trace.NewUInt(uint64(i + 1))
	}
	ups := c.Classify(call("ID3D10Device::VSSetConstantBuffers",
		trace.NewUInt(0), trace.NewUInt(0), trace.NewUInt(7), trace.NewArray(handles...)))

	if len(ups) != 5 {
		t.Fatalf("got %d updates, want 5 (clamped)", len(ups))
	}
	for i, u := range ups {
		if u.Bin != BinVSConst0+BinID(i) {
			t.Errorf("update %d bin = %v, want %v", i, u.Bin, BinVSConst0+BinID(i))
		}
	}
}

func TestClassifyDrawElementsInlineVsBound(t *testing.T) {
	c := NewClassifier()

	inline := c.Classify(call("glDrawElements",
		trace.NewSymbol("GL_TRIANGLES", 4), trace.NewSInt(6),
		trace.NewSymbol("GL_UNSIGNED_SHORT", 0x1403), trace.NewBlob(make([]byte, 24))))
	if len(inline) != 1 || inline[0].Change != ChangeCreate || inline[0].Size != 24 {
		t.Fatalf("inline glDrawElements = %+v, want CREATE size=24", inline)
	}

	bound := c.Classify(call("glDrawElements",
		trace.NewSymbol("GL_TRIANGLES", 4), trace.NewSInt(6),
		trace.NewSymbol("GL_UNSIGNED_SHORT", 0x1403), trace.Null))
	if len(bound) != 1 || bound[0].Change != ChangeSwitch || bound[0].Size != 6 {
		t.Fatalf("bound glDrawElements = %+v, want SWITCH size=6", bound)
	}
}

func TestClassifyBufferDataRequiresBoundBuffer(t *testing.T) {
	c := NewClassifier()
	ups := c.Classify(call("glBufferData",
		trace.NewSymbol("GL_ARRAY_BUFFER", glArrayBuffer), trace.NewSInt(128), trace.NewBlob(make([]byte, 128))))
	if ups != nil {
		t.Fatalf("glBufferData before any glBindBuffer = %+v, want nil", ups)
	}

	c.Classify(call("glBindBuffer", trace.NewSymbol("GL_ARRAY_BUFFER", glArrayBuffer), trace.NewUInt(10)))
	ups = c.Classify(call("glBufferData",
		trace.NewSymbol("GL_ARRAY_BUFFER", glArrayBuffer), trace.NewSInt(128), trace.NewBlob(make([]byte, 128))))
	if len(ups) != 1 || ups[0].Bin != BinVertex0 || ups[0].Change != ChangeUpdate || ups[0].Size != 128 {
		t.Fatalf("glBufferData after bind = %+v, want UPDATE/VERTEX0/size=128", ups)
	}
}

// TestClassifyTexSubImage2DByteInflation exercises the documented
// multiplicative over-count for a multi-byte format combined with a
// multi-byte type (see SPEC_FULL.md's design notes).
func TestClassifyTexSubImage2DByteInflation(t *testing.T) {
	c := NewClassifier()
	c.Classify(call("glBindTexture", trace.NewSymbol("GL_TEXTURE_2D", 3553), trace.NewUInt(42)))

	ups := c.Classify(call("glTexSubImage2D",
		trace.NewSymbol("GL_TEXTURE_2D", 3553), trace.NewSInt(0), trace.NewSInt(0), trace.NewSInt(0),
		trace.NewSInt(4), trace.NewSInt(4),
		trace.NewSymbol("GL_RGBA", glRGBA), trace.NewSymbol("GL_UNSIGNED_INT", glUnsignedInt),
		trace.NewBlob(make([]byte, 16))))

	if len(ups) != 1 {
		t.Fatalf("got %d updates, want 1", len(ups))
	}
	// 4*4 (w*h) * 4 (RGBA) * 4 (UNSIGNED_INT) = 256.
	if ups[0].Size != 256 {
		t.Errorf("Size = %d, want 256", ups[0].Size)
	}
}

func TestClassifyUnknownCallYieldsNoUpdates(t *testing.T) {
	c := NewClassifier()
	if ups := c.Classify(call("glFooBarBaz")); ups != nil {
		t.Errorf("unrecognised call yielded %+v, want nil", ups)
	}
}
