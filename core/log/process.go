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

const processKey = contextKey[string]("log.processKey")

// PutProcess returns a new context with the process name assigned to w.
// This is useful when a single log is shared between several cooperating
// processes, such as the analyzer and a driver it is embedded in.
func PutProcess(ctx context.Context, w string) context.Context { return processKey.put(ctx, w) }

// GetProcess returns the process name assigned to ctx.
func GetProcess(ctx context.Context) string { return processKey.get(ctx) }
