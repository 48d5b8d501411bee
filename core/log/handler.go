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

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Handler receives and dispatches log Messages.
type Handler interface {
	// Handle processes the message m.
	Handle(m *Message)
	// Close flushes and releases any resources held by the handler.
	Close()
}

type handler struct {
	handle func(m *Message)
	close  func()
}

func (h handler) Handle(m *Message) { h.handle(m) }
func (h handler) Close() {
	if h.close != nil {
		h.close()
	}
}

const handlerKey = contextKey[Handler]("log.handlerKey")

// PutHandler returns a new context with the Handler assigned to w.
func PutHandler(ctx context.Context, w Handler) context.Context { return handlerKey.put(ctx, w) }

// GetHandler gets the active Handler for this context.
func GetHandler(ctx context.Context) Handler { return handlerKey.get(ctx) }

// Writer returns a Handler that formats messages with style and writes them
// to w, one line per message.
func Writer(style Style, w io.Writer) Handler {
	return handler{handle: func(m *Message) {
		fmt.Fprintln(w, style.Print(m))
	}}
}

// Stdout returns a Handler that writes to os.Stdout using style.
func Stdout(style Style) Handler { return Writer(style, os.Stdout) }

// Stderr returns a Handler that writes to os.Stderr using style.
func Stderr(style Style) Handler { return Writer(style, os.Stderr) }

// Std returns a Handler that sends Warning and above to Stderr, the rest to
// Stdout.
func Std(style Style) Handler {
	out, err := Stdout(style), Stderr(style)
	return handler{handle: func(m *Message) {
		if m.Severity >= Warning {
			err.Handle(m)
		} else {
			out.Handle(m)
		}
	}}
}

// Fork forwards every message to all of the supplied handlers.
func Fork(handlers ...Handler) Handler {
	return handler{
		handle: func(m *Message) {
			for _, h := range handlers {
				h.Handle(m)
			}
		},
		close: func() {
			for _, h := range handlers {
				h.Close()
			}
		},
	}
}
