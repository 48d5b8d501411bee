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

package log

import "context"

// contextKey stores and retrieves a single value of type T on a
// context.Context. clock.go, filter.go, tag.go and trace.go each used to
// spell out their own private string type, a package-level const and a
// Put/Get pair for this; a context key's real job is just "carry one typed
// value", so that's collapsed into this one generic helper. Distinct T
// instantiations are distinct types even when their underlying string is
// the same, so only keys sharing the same T (such as tagKey and processKey,
// both contextKey[string]) need distinct string values.
type contextKey[T any] string

func (k contextKey[T]) put(ctx context.Context, v T) context.Context {
	return context.WithValue(ctx, k, v)
}

func (k contextKey[T]) get(ctx context.Context) T {
	out, _ := ctx.Value(k).(T)
	return out
}
