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

package trace_test

import (
	"testing"

	"github.com/rchoetzlein/apitrace/trace"
)

func TestSoftFailingAccessors(t *testing.T) {
	for _, test := range []struct {
		name string
		v    *trace.Value
	}{
		{"nil", nil},
		{"null", trace.Null},
		{"bool", trace.NewBool(true)},
		{"string", trace.NewString("x")},
		{"array", trace.NewArray()},
		{"blob", trace.NewBlob([]byte{1, 2, 3})},
	} {
		v := test.v
		_ = v.AsBool()
		_ = v.AsSInt()
		_ = v.AsUInt()
		_ = v.AsFloat()
		_ = v.AsString()
		_ = v.AsSymbol()
		_ = v.AsArray()
		_ = v.AsBlob()
		_ = v.AsPointer()
		_ = v.IsNull()
		_ = v.Kind()
	}
}

func TestAsPointerCoercion(t *testing.T) {
	cases := []struct {
		name string
		v    *trace.Value
		want uint64
	}{
		{"uint", trace.NewUInt(42), 42},
		{"sint", trace.NewSInt(7), 7},
		{"symbol", trace.NewSymbol("GL_RGBA", 0x1908), 0x1908},
		{"blob", trace.NewBlob([]byte{1, 2, 3, 4}), 0},
		{"array", trace.NewArray(trace.NewUInt(1)), 0},
		{"string", trace.NewString("x"), 0},
		{"null", trace.Null, 0},
	}
	for _, c := range cases {
		if got := c.v.AsPointer(); got != c.want {
			t.Errorf("%s: AsPointer() = %d, want %d", c.name, got, c.want)
		}
	}
}

func TestCallArgOutOfRange(t *testing.T) {
	c := &trace.Call{Args: []*trace.Value{trace.NewUInt(1)}}
	if got := c.Arg(0); got.AsUInt() != 1 {
		t.Errorf("Arg(0) = %v, want 1", got.AsUInt())
	}
	if got := c.Arg(5); !got.IsNull() {
		t.Errorf("Arg(5) = %v, want Null", got)
	}
	if got := c.Arg(-1); !got.IsNull() {
		t.Errorf("Arg(-1) = %v, want Null", got)
	}
	var nilCall *trace.Call
	if got := nilCall.Arg(0); !got.IsNull() {
		t.Errorf("nil.Arg(0) = %v, want Null", got)
	}
	if nilCall.NumArgs() != 0 {
		t.Errorf("nil.NumArgs() = %d, want 0", nilCall.NumArgs())
	}
}
