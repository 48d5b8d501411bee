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

import (
	"bufio"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"
)

// The real trace decoder — which demuxes a recorded binary capture into
// typed calls — sits upstream of this analyzer and is out of scope here.
// JSONLSource is a minimal stand-in wire format good enough to drive the
// analyzer from the command line and from tests: one JSON object per line,
// each describing a single Call.
type JSONLSource struct {
	// Path is the file to read. It is reopened for every ForEach call so the
	// Source can be walked once per analyzer pass.
	Path string
}

type jsonValue struct {
	Kind  string       `json:"k"`
	Bool  bool         `json:"b,omitempty"`
	Int   int64        `json:"i,omitempty"`
	UInt  uint64       `json:"u,omitempty"`
	Float float64      `json:"f,omitempty"`
	Str   string       `json:"s,omitempty"`
	Name  string       `json:"name,omitempty"`
	Array []*jsonValue `json:"arr,omitempty"`
	Blob  string       `json:"blob,omitempty"` // base64
}

type jsonCall struct {
	No     int          `json:"no"`
	Name   string       `json:"name"`
	Args   []*jsonValue `json:"args,omitempty"`
	Ret    *jsonValue   `json:"ret,omitempty"`
	Thread uint64       `json:"thread,omitempty"`
}

func (v *jsonValue) toValue() (*Value, error) {
	if v == nil {
		return Null, nil
	}
	switch v.Kind {
	case "", "null":
		return Null, nil
	case "bool":
		return NewBool(v.Bool), nil
	case "sint":
		return NewSInt(v.Int), nil
	case "uint":
		return NewUInt(v.UInt), nil
	case "float":
		return NewFloat(v.Float), nil
	case "string":
		return NewString(v.Str), nil
	case "symbol":
		return NewSymbol(v.Name, v.Int), nil
	case "array":
		vs := make([]*Value, len(v.Array))
		for i, c := range v.Array {
			cv, err := c.toValue()
			if err != nil {
				return nil, err
			}
			vs[i] = cv
		}
		return NewArray(vs...), nil
	case "blob":
		buf, err := base64.StdEncoding.DecodeString(v.Blob)
		if err != nil {
			return nil, errors.Wrap(err, "decoding blob value")
		}
		return NewBlob(buf), nil
	default:
		return nil, errors.Errorf("unknown value kind %q", v.Kind)
	}
}

// ForEach implements Source by decoding Path one line at a time.
func (s JSONLSource) ForEach(ctx context.Context, fn func(*Call) error) error {
	f, err := os.Open(s.Path)
	if err != nil {
		return errors.Wrapf(err, "opening trace %s", s.Path)
	}
	defer f.Close()
	return decodeJSONLStream(ctx, f, fn)
}

// decodeJSONLStream reads one JSON-encoded Call per line from r, invoking fn
// for each. Shared by JSONLSource, which reopens a local file per pass, and
// RemoteSource, which decodes the stream it fetched once over SSH.
func decodeJSONLStream(ctx context.Context, r io.Reader, fn func(*Call) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var jc jsonCall
		if err := json.Unmarshal(line, &jc); err != nil {
			return errors.Wrapf(err, "decoding trace line")
		}
		call := &Call{No: jc.No, Name: jc.Name, Thread: jc.Thread}
		call.Args = make([]*Value, len(jc.Args))
		for i, a := range jc.Args {
			av, err := a.toValue()
			if err != nil {
				return errors.Wrapf(err, "call %d arg %d", jc.No, i)
			}
			call.Args[i] = av
		}
		ret, err := jc.Ret.toValue()
		if err != nil {
			return errors.Wrapf(err, "call %d return value", jc.No)
		}
		call.Ret = ret
		if err := fn(call); err != nil {
			return err
		}
	}
	return errors.Wrap(scanner.Err(), "reading trace")
}
