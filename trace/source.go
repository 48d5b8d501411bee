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

import "context"

// Source yields the recorded sequence of Calls that make up a trace. An
// analyzer that must scan the trace more than once (as a two-pass analyzer
// does) calls ForEach once per pass; a Source therefore has to support being
// walked repeatedly rather than exhausting itself like a plain iterator.
type Source interface {
	// ForEach invokes fn once for every Call in trace order. It stops and
	// returns the first error fn returns, or an error hit while reading the
	// underlying stream.
	ForEach(ctx context.Context, fn func(*Call) error) error
}

// List is a Source backed by an in-memory slice of Calls. It's the Source
// used by tests, and by any trace small enough to load in full up front.
type List []*Call

// ForEach implements Source.
func (l List) ForEach(ctx context.Context, fn func(*Call) error) error {
	for _, c := range l {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(c); err != nil {
			return err
		}
	}
	return nil
}
