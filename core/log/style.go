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
	"fmt"
	"strings"
)

// Style controls how a Message is rendered to text.
type Style struct {
	// Name identifies the style, for diagnostics.
	Name string
	// Timestamp includes the message time when true.
	Timestamp bool
	// Tag includes the logger tag when true.
	Tag bool
	// Trace includes the Enter() trace-stack when true.
	Trace bool
	// Process includes the process name when true.
	Process bool
	// Severity includes the severity name when true.
	Severity bool
}

var (
	// Normal is the default style: severity, tag and text, no timestamp.
	Normal = Style{Name: "normal", Tag: true, Severity: true}
	// Raw prints only the message text.
	Raw = Style{Name: "raw"}
	// Full renders every field of the Message.
	Full = Style{Name: "full", Timestamp: true, Tag: true, Trace: true, Process: true, Severity: true}
)

// Print renders m according to the style, returning the formatted line.
func (s Style) Print(m *Message) string {
	if s.Name == "raw" {
		return m.Text
	}
	parts := make([]string, 0, 6)
	if s.Timestamp {
		parts = append(parts, m.Time.Format("15:04:05.000"))
	}
	if s.Severity {
		parts = append(parts, m.Severity.String())
	}
	if s.Process && m.Process != "" {
		parts = append(parts, m.Process)
	}
	if s.Tag && m.Tag != "" {
		parts = append(parts, m.Tag)
	}
	if s.Trace && len(m.Trace) > 0 {
		parts = append(parts, strings.Join(m.Trace, ">"))
	}
	line := fmt.Sprintf("%s: %s", strings.Join(parts, " "), m.Text)
	for _, v := range m.Values {
		line += fmt.Sprintf(" %s=%v", v.Name, v.Value)
	}
	return line
}
