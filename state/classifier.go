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
	"encoding/binary"
	"math"

	"github.com/rchoetzlein/apitrace/trace"
)

// Namespace biases keep OpenGL's small integer object names (which are
// reused independently per namespace) from colliding with each other once
// they share a single resource map.
const (
	textureBias = 10000
	shaderBias  = 20000
)

// GL enum values referenced by the classifier. Only the handful the
// classifier actually switches on are declared.
const (
	glArrayBuffer        = 0x8892
	glElementArrayBuffer = 0x8893

	glRGB  = 0x1907
	glRGBA = 0x1908
	glBGR  = 0x80E0
	glBGRA = 0x80E1

	glUnsignedShort = 0x1403
	glInt           = 0x1404
	glUnsignedInt   = 0x1405
	glFloat         = 0x1406
)

// handleBytes renders handle as the little-endian 8-byte payload some
// CREATE calls hash alongside the handle itself. Several creation entry
// points (glCreateShader, glCreateProgram, and their D3D equivalents) never
// carry real content at creation time; the handle's own bytes stand in as
// the payload so the dense id is still a deterministic function of the
// handle, and two different handles are guaranteed different ids even when
// nothing else distinguishes them (see TESTABLE PROPERTIES S3).
func handleBytes(handle uint64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, handle)
	return buf
}

// Classifier dispatches one decoded Call to zero or more Updates. It holds
// the two pieces of state the classifier itself needs to remember across
// calls: the most recently bound vertex buffer and texture, read by the
// calls that only ever name a binding point and not the resource itself.
type Classifier struct {
	lastVBO uint64
	lastTex uint64
}

// NewClassifier returns a Classifier with no resource bound yet.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify extracts zero or more Updates from call. An unrecognised call
// name yields no Updates — the classifier dispatch is total but many names
// simply aren't interesting to the analyzer.
func (c *Classifier) Classify(call *trace.Call) []*Update {
	switch call.Name {

	case "wglSwapBuffers":
		return []*Update{{Change: ChangeSwitch, Name: "SwapBuffers", NameID: 100, Bin: BinPresent}}
	case "IDXGISwapChain::Present":
		return []*Update{{Change: ChangeSwitch, Name: "Present", NameID: 0, Bin: BinPresent}}

	case "glDrawArrays":
		return []*Update{{Change: ChangeSwitch, Name: "DrawArrays", NameID: 101, Bin: BinDraw, Size: int32(call.Arg(2).AsSInt())}}
	case "glDrawElements":
		return c.drawElements(call)

	case "glGenBuffers", "glGenBuffersARB":
		return c.fanOutCreate(call.Arg(1).AsArray(), "GenBuffers", 104, BinUnknown, 0, nil)
	case "glGenTextures", "glGenTexturesEXT":
		return c.fanOutCreate(call.Arg(1).AsArray(), "GenTextures", 110, BinTexture, textureBias, nil)
	case "ID3D10Device::CreateBuffer", "ID3D11Device::CreateBuffer":
		return c.fanOutCreate(call.Arg(3).AsArray(), "CreateBuffer", 4, BinUnknown, 0, nil)
	case "ID3D10Device::CreateRenderTargetView", "ID3D11Device::CreateRenderTargetView":
		return c.firstOfArrayCreate(call.Arg(3).AsArray(), "CreateRTV", 5, BinRenderTarget, 0)
	case "ID3D10Device::CreateRasterizerState", "ID3D11Device::CreateRasterizerState":
		return c.firstOfArrayCreate(call.Arg(2).AsArray(), "CreateRaster", 7, BinRasterizer, 0)
	case "ID3D10Device1::CreateVertexShader":
		return c.firstOfArrayCreate(call.Arg(3).AsArray(), "CreateVS", 9, BinShader, 0)
	case "ID3D11Device::CreateVertexShader":
		return c.firstOfArrayCreate(call.Arg(4).AsArray(), "CreateVS", 10, BinShader, 0)
	case "ID3D10Device::CreatePixelShader":
		return c.firstOfArrayCreate(call.Arg(3).AsArray(), "CreatePS", 11, BinShader, 0)
	case "ID3D11Device::CreatePixelShader":
		return c.firstOfArrayCreate(call.Arg(4).AsArray(), "CreatePS", 12, BinShader, 0)

	case "glCreateShader":
		h := call.Ret.AsPointer() + shaderBias
		return []*Update{{Change: ChangeCreate, Name: "CreateShader", NameID: 107, Bin: BinShader,
			ObjectHandle: h, DataHandle: h, Payload: handleBytes(h)}}
	case "glCreateProgram":
		h := call.Ret.AsPointer() + shaderBias
		return []*Update{{Change: ChangeCreate, Name: "CreateProgram", NameID: 108, Bin: BinShader,
			ObjectHandle: h, DataHandle: h, Payload: handleBytes(h)}}
	case "glGetUniformLocation":
		h := call.Ret.AsPointer()
		return []*Update{{Change: ChangeCreate, Name: "GetUniformLocation", NameID: 113, Bin: BinUnknown,
			ObjectHandle: h, DataHandle: h}}

	case "glBindBuffer", "glBindBufferARB":
		return c.bindBuffer(call)
	case "glBindTexture":
		h := call.Arg(1).AsPointer() + textureBias
		c.lastTex = h
		return []*Update{{Change: ChangeSwitch, Name: "BindTexture", NameID: 111, Bin: BinTexture, ObjectHandle: h}}
	case "glUseProgram":
		h := call.Arg(0).AsPointer() + shaderBias
		return []*Update{{Change: ChangeSwitch, Name: "UseProgram", NameID: 109, Bin: BinShader, ObjectHandle: h}}

	case "ID3D10Device::OMSetRenderTargets", "ID3D11DeviceContext::OMSetRenderTargets":
		return c.fanOutSwitch(call.Arg(2).AsArray(), "OMSetRenderTargets", 6, BinRenderTarget, 0, 0)
	case "ID3D10Device::RSSetState", "ID3D11DeviceContext::RSSetState":
		return []*Update{{Change: ChangeSwitch, Name: "RSSetState", NameID: 8, Bin: BinRasterizer, ObjectHandle: call.Arg(1).AsPointer()}}
	case "ID3D10Device::VSSetShader", "ID3D11DeviceContext::VSSetShader":
		return []*Update{{Change: ChangeSwitch, Name: "VSSetShader", NameID: 13, Bin: BinShader, ObjectHandle: call.Arg(1).AsPointer()}}
	case "ID3D10Device::PSSetShader", "ID3D11DeviceContext::PSSetShader":
		return []*Update{{Change: ChangeSwitch, Name: "PSSetShader", NameID: 14, Bin: BinShader, ObjectHandle: call.Arg(1).AsPointer()}}
	case "ID3D10Device::IASetVertexBuffers", "ID3D11DeviceContext::IASetVertexBuffers":
		return c.fanOutSwitch(call.Arg(3).AsArray(), "IASetVertexBuffers", 17, BinVertex0, clampSlots(call.Arg(2)), 0)
	case "ID3D10Device::IASetIndexBuffer", "ID3D11DeviceContext::IASetIndexBuffer":
		return []*Update{{Change: ChangeSwitch, Name: "IASetIndexBuffer", NameID: 18, Bin: BinIndex, ObjectHandle: call.Arg(1).AsPointer()}}
	case "ID3D10Device::VSSetConstantBuffers", "ID3D11DeviceContext::VSSetConstantBuffers":
		return c.fanOutSwitch(call.Arg(3).AsArray(), "VSSetConstantBuffers", 19, BinVSConst0, clampSlots(call.Arg(2)), 0)
	case "ID3D10Device::PSSetConstantBuffers", "ID3D11DeviceContext::PSSetConstantBuffers":
		return c.fanOutSwitch(call.Arg(3).AsArray(), "PSSetConstantBuffers", 20, BinPSConst0, clampSlots(call.Arg(2)), 0)

	case "glBufferData", "glBufferDataARB":
		return c.bufferData(call)
	case "glTexSubImage2D":
		return c.texSubImage2D(call)
	case "glUniform1f":
		return c.uniform(call, "Uniform1f", 114, 4)
	case "glUniform3f":
		return c.uniform(call, "Uniform3f", 115, 12)
	case "glUniform4f":
		return c.uniform(call, "Uniform4f", 116, 16)
	case "glUniformMatrix4fv":
		return c.uniformMatrix4fv(call)
	case "glShaderSource":
		return c.shaderSource(call)
	case "glVertexPointer":
		return c.clientPointer(call, 3, "VertexPointer", 119, BinVertex0)
	case "glNormalPointer":
		return c.clientPointer(call, 2, "NormalPointer", 120, BinVertex1)
	case "glLoadMatrixd":
		return c.loadMatrix(call, "LoadMatrixd", 121)
	case "glLoadMatrixf":
		return c.loadMatrix(call, "LoadMatrixf", 122)

	case "ID3D10Buffer::Map":
		return c.mapBuffer(call.Arg(3).AsArray())
	case "ID3D11DeviceContext::Map":
		return c.mapBuffer([]*trace.Value{call.Arg(1)})
	case "ID3D10Device::UpdateSubresource", "ID3D11DeviceContext::UpdateSubresource":
		return c.updateSubresource(call)
	case "ID3D10Device::DrawIndexed", "ID3D11DeviceContext::DrawIndexed":
		return []*Update{{Change: ChangeSwitch, Name: "DrawIdx", NameID: 1, Bin: BinDraw, Size: int32(call.Arg(1).AsUInt())}}
	case "ID3D10Device::DrawInstanced", "ID3D11DeviceContext::DrawInstanced":
		return []*Update{{Change: ChangeSwitch, Name: "DrawIst", NameID: 2, Bin: BinDraw,
			Size: int32(call.Arg(1).AsUInt()) * int32(call.Arg(2).AsUInt())}}
	case "ID3D10Device::Draw", "ID3D11DeviceContext::Draw":
		return []*Update{{Change: ChangeSwitch, Name: "Draw", NameID: 3, Bin: BinDraw, Size: int32(call.Arg(1).AsUInt())}}
	}

	return nil
}

func clampSlots(countArg *trace.Value) int {
	n := int(countArg.AsUInt())
	if n > 5 {
		n = 5
	}
	return n
}

// fanOutCreate builds one CREATE Update per handle in handles, biasing each
// by bias and tagging it into bin. Used for the Gen*/Create* entry points
// whose output is an array of freshly minted names.
func (c *Classifier) fanOutCreate(handles []*trace.Value, name string, nameID uint8, bin BinID, bias uint64, payload []byte) []*Update {
	ups := make([]*Update, 0, len(handles))
	for _, v := range handles {
		h := v.AsPointer() + bias
		ups = append(ups, &Update{Change: ChangeCreate, Name: name, NameID: nameID, Bin: bin,
			ObjectHandle: h, DataHandle: h, Payload: payload})
	}
	return ups
}

// firstOfArrayCreate mirrors the source's habit of only ever populating
// slot 0 of a "ppview"-style out-array for single-resource creation calls.
func (c *Classifier) firstOfArrayCreate(handles []*trace.Value, name string, nameID uint8, bin BinID, bias uint64) []*Update {
	if len(handles) == 0 {
		return nil
	}
	h := handles[0].AsPointer() + bias
	return []*Update{{Change: ChangeCreate, Name: name, NameID: nameID, Bin: bin,
		ObjectHandle: h, DataHandle: h, Payload: handleBytes(h)}}
}

// fanOutSwitch builds one SWITCH Update per handle, landing in consecutive
// bins starting at startBin. count is already clamped by the caller.
func (c *Classifier) fanOutSwitch(handles []*trace.Value, name string, nameID uint8, startBin BinID, count int, bias uint64) []*Update {
	if count > len(handles) {
		count = len(handles)
	}
	ups := make([]*Update, 0, count)
	for n := 0; n < count; n++ {
		h := handles[n].AsPointer() + bias
		ups = append(ups, &Update{Change: ChangeSwitch, Name: name, NameID: nameID, Bin: startBin + BinID(n), ObjectHandle: h})
	}
	return ups
}

// drawElements distinguishes an inline-indexed draw (the call carries its
// own index blob) from one that reuses whatever is currently bound to
// BinIndex. Only the inline form carries a payload; the bound form's size
// is the vertex/index count argument, per the source's fallback reading of
// arg(1) when arg(3) is not a blob (null, or an offset into the bound buffer).
func (c *Classifier) drawElements(call *trace.Call) []*Update {
	if blob := call.Arg(3).AsBlob(); blob != nil {
		return []*Update{{Change: ChangeCreate, Name: "DrawElem", NameID: 102, Bin: BinDraw, Payload: blob, Size: int32(len(blob))}}
	}
	return []*Update{{Change: ChangeSwitch, Name: "DrawElem", NameID: 102, Bin: BinDraw, Size: int32(call.Arg(1).AsSInt())}}
}

func (c *Classifier) bindBuffer(call *trace.Call) []*Update {
	target := call.Arg(0).AsSInt()
	h := call.Arg(1).AsPointer()
	c.lastVBO = h
	switch target {
	case glArrayBuffer:
		return []*Update{{Change: ChangeSwitch, Name: "BindBuffer", NameID: 105, Bin: BinVertex0, ObjectHandle: h}}
	case glElementArrayBuffer:
		return []*Update{{Change: ChangeSwitch, Name: "BindBuffer", NameID: 105, Bin: BinIndex, ObjectHandle: h}}
	}
	return nil
}

// bufferData has no resource argument of its own — it uploads into
// whatever glBindBuffer most recently named. The size argument is trusted
// over the payload blob's own length: the source reads exactly `size`
// bytes from the data pointer regardless of what the decoder captured, so
// the UPDATE's declared byte count follows the call's stated size even if
// the payload is empty (no bound buffer ever means no payload, per the
// original computeHash's null-payload short circuit).
func (c *Classifier) bufferData(call *trace.Call) []*Update {
	if c.lastVBO == 0 {
		return nil
	}
	var bin BinID
	switch call.Arg(0).AsSInt() {
	case glArrayBuffer:
		bin = BinVertex0
	case glElementArrayBuffer:
		bin = BinIndex
	default:
		return nil
	}
	size := int32(call.Arg(1).AsSInt())
	payload := call.Arg(2).AsBlob()
	return []*Update{{Change: ChangeUpdate, Name: "BufferData", NameID: 106, Bin: bin,
		ObjectHandle: c.lastVBO, DataHandle: c.lastVBO, Payload: payload, Size: size}}
}

// texSubImage2D recovers the true uploaded byte count from width*height by
// multiplying in bytes-per-texel (format) and stride (type). The two
// multipliers chain multiplicatively even when both are multi-byte, which
// over-counts for combinations like RGBA/UNSIGNED_INT; preserved as-is.
func (c *Classifier) texSubImage2D(call *trace.Call) []*Update {
	if c.lastTex == 0 {
		return nil
	}
	w := call.Arg(4).AsSInt()
	h := call.Arg(5).AsSInt()
	size := w * h

	switch call.Arg(6).AsSInt() {
	case glRGB, glBGR:
		size *= 3
	case glRGBA, glBGRA:
		size *= 4
	}
	switch call.Arg(7).AsSInt() {
	case glUnsignedShort:
		size *= 2
	case glUnsignedInt, glInt, glFloat:
		size *= 4
	}

	payload := call.Arg(8).AsBlob()
	return []*Update{{Change: ChangeUpdate, Name: "TexSubImage2D", NameID: 112, Bin: BinTexture,
		ObjectHandle: c.lastTex, DataHandle: c.lastTex, Payload: payload, Size: int32(size)}}
}

func (c *Classifier) uniform(call *trace.Call, name string, nameID uint8, size int32) []*Update {
	h := call.Arg(0).AsPointer()
	return []*Update{{Change: ChangeUpdate, Name: name, NameID: nameID, Bin: BinVSConst0,
		ObjectHandle: h, DataHandle: h, Size: size}}
}

func (c *Classifier) uniformMatrix4fv(call *trace.Call) []*Update {
	h := call.Arg(0).AsPointer()
	elems := call.Arg(3).AsArray()
	payload := make([]byte, 0, 16*4)
	for _, v := range elems {
		payload = appendFloat32(payload, float32(v.AsFloat()))
	}
	return []*Update{{Change: ChangeUpdate, Name: "UniformMatrix4fv", NameID: 117, Bin: BinVSConst1,
		ObjectHandle: h, DataHandle: h, Payload: payload, Size: int32(len(payload))}}
}

// shaderSource concatenates the source fragments the call supplies (glShaderSource
// accepts an array of string pieces compiled as one unit) into a single payload.
func (c *Classifier) shaderSource(call *trace.Call) []*Update {
	h := call.Arg(0).AsPointer() + shaderBias
	var payload []byte
	for _, v := range call.Arg(2).AsArray() {
		payload = append(payload, v.AsString()...)
		payload = append(payload, 0)
	}
	return []*Update{{Change: ChangeUpdate, Name: "ShaderSource", NameID: 118, Bin: BinShader,
		ObjectHandle: h, DataHandle: h, Payload: payload, Size: int32(len(payload))}}
}

// clientPointer handles the fixed-function pointer-array calls: a non-null
// blob argument is inline vertex data (UPDATE), while a non-null non-blob
// argument names an externally-bound buffer (SWITCH). A null argument
// means the call doesn't touch the bin at all.
func (c *Classifier) clientPointer(call *trace.Call, argIndex int, name string, nameID uint8, bin BinID) []*Update {
	data := call.Arg(argIndex)
	if data.IsNull() {
		return nil
	}
	if blob := data.AsBlob(); blob != nil {
		return []*Update{{Change: ChangeUpdate, Name: name, NameID: nameID, Bin: bin, Payload: blob, Size: int32(len(blob))}}
	}
	h := data.AsPointer()
	return []*Update{{Change: ChangeSwitch, Name: name, NameID: nameID, Bin: bin, ObjectHandle: h, DataHandle: h}}
}

func (c *Classifier) loadMatrix(call *trace.Call, name string, nameID uint8) []*Update {
	arg := call.Arg(0)
	if arg.IsNull() {
		return nil
	}
	payload := make([]byte, 0, 16*4)
	for _, v := range arg.AsArray() {
		payload = appendFloat32(payload, float32(v.AsFloat()))
	}
	return []*Update{{Change: ChangeUpdate, Name: name, NameID: nameID, Bin: BinPSConst4, Payload: payload, Size: int32(len(payload))}}
}

func (c *Classifier) mapBuffer(handles []*trace.Value) []*Update {
	if len(handles) == 0 {
		return nil
	}
	h := handles[0].AsPointer()
	return []*Update{{Change: ChangeUpdate, Name: "Map", NameID: 15, Bin: BinUnknown, ObjectHandle: h}}
}

func (c *Classifier) updateSubresource(call *trace.Call) []*Update {
	h := call.Arg(1).AsPointer()
	payload := call.Arg(4).AsBlob()
	return []*Update{{Change: ChangeUpdate, Name: "UpdateSubresource", NameID: 16, Bin: BinUnknown,
		ObjectHandle: h, DataHandle: h, Payload: payload, Size: int32(len(payload))}}
}

func appendFloat32(buf []byte, f float32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], math.Float32bits(f))
	return append(buf, b[:]...)
}
