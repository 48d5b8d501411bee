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

package log_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rchoetzlein/apitrace/core/log"
)

type recordingHandler struct {
	messages []*log.Message
}

func (h *recordingHandler) Handle(m *log.Message) { h.messages = append(h.messages, m) }
func (h *recordingHandler) Close()                {}

// TestLoggerWriterSplitsLines confirms Writer (the replacement for the
// original's text.Writer-backed io.WriteCloser) buffers partial writes and
// emits exactly one log message per newline-terminated line.
func TestLoggerWriterSplitsLines(t *testing.T) {
	h := &recordingHandler{}
	ctx := log.PutHandler(context.Background(), h)
	w := log.From(ctx).Writer(log.Warning)

	fmt.Fprint(w, "first line\nsecond")
	if len(h.messages) != 1 {
		t.Fatalf("got %d messages after a partial write, want 1", len(h.messages))
	}
	fmt.Fprint(w, " line\n")
	if len(h.messages) != 2 {
		t.Fatalf("got %d messages after completing the second line, want 2", len(h.messages))
	}
	if h.messages[0].Text != "first line" || h.messages[1].Text != "second line" {
		t.Errorf("messages = %q, %q, want %q, %q",
			h.messages[0].Text, h.messages[1].Text, "first line", "second line")
	}
	for _, m := range h.messages {
		if m.Severity != log.Warning {
			t.Errorf("message severity = %v, want %v", m.Severity, log.Warning)
		}
	}
}

// fakeT implements the delegate interface TestHandler needs, recording
// which method was invoked instead of driving a real *testing.T.
type fakeT struct {
	fatals, errors, logs []string
}

func (f *fakeT) Fatal(args ...interface{}) { f.fatals = append(f.fatals, fmt.Sprint(args...)) }
func (f *fakeT) Error(args ...interface{}) { f.errors = append(f.errors, fmt.Sprint(args...)) }
func (f *fakeT) Log(args ...interface{})   { f.logs = append(f.logs, fmt.Sprint(args...)) }

// TestTestingRoutesBySeverity confirms log.Testing wires a context whose log
// output reaches t.Log for ordinary messages and t.Error for Error severity,
// matching the teacher's own test-harness-integration idiom.
func TestTestingRoutesBySeverity(t *testing.T) {
	ft := &fakeT{}
	ctx := log.Testing(ft)

	if got := log.GetProcess(ctx); got != "test" {
		t.Errorf("GetProcess(log.Testing(ft)) = %q, want %q", got, "test")
	}

	log.I(ctx, "info message")
	log.E(ctx, "error message")

	if len(ft.logs) != 1 {
		t.Fatalf("got %d t.Log calls, want 1", len(ft.logs))
	}
	if len(ft.errors) != 1 {
		t.Fatalf("got %d t.Error calls, want 1", len(ft.errors))
	}
}

// TestErrUnwrapMatchesCause confirms the standard library's errors.Is
// reaches a log-wrapped error's cause through Unwrap().
func TestErrUnwrapMatchesCause(t *testing.T) {
	root := errors.New("root cause")
	wrapped := log.Err(context.Background(), root, "wrapping message")

	if !errors.Is(wrapped, root) {
		t.Errorf("errors.Is(wrapped, root) = false, want true")
	}
}
