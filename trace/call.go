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

package trace

// Call is one decoded graphics API call from a recorded trace.
type Call struct {
	// No is the ordinal position of the call within the trace.
	No int
	// Name is the fully qualified call name, e.g. "glBindTexture" or
	// "ID3D11DeviceContext::DrawIndexed".
	Name string
	// Args holds the call's positional arguments, in declaration order.
	Args []*Value
	// Ret is the call's return value, or Null if it returns nothing.
	Ret *Value
	// Thread is the id of the thread that issued the call.
	Thread uint64
}

// Arg returns the i'th argument of c, or Null if i is out of range. This
// mirrors the classifier's need to index arguments positionally without
// bounds-checking every call site.
func (c *Call) Arg(i int) *Value {
	if c == nil || i < 0 || i >= len(c.Args) {
		return Null
	}
	return c.Args[i]
}

// NumArgs returns the number of positional arguments c carries.
func (c *Call) NumArgs() int {
	if c == nil {
		return 0
	}
	return len(c.Args)
}
