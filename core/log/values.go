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

// V is a set of named values that can be bound onto a context, and will show
// up attached to every Message logged through that context.
type V map[string]interface{}

const valuesKey = contextKey[*values]("log.valuesKey")

type values struct {
	v      V
	parent *values
}

// Bind returns ctx with v layered on top of any values already bound to it.
func (v V) Bind(ctx context.Context) context.Context {
	return valuesKey.put(ctx, &values{v: v, parent: getValues(ctx)})
}

func getValues(ctx context.Context) *values { return valuesKey.get(ctx) }
