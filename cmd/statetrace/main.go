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

// Command statetrace runs the state-sorting analyzer over a recorded
// graphics API call trace and writes its per-call, per-draw and per-frame
// records in binary and/or text form.
package main

import (
	"context"
	"flag"
	"os"
	"strings"

	"github.com/rchoetzlein/apitrace/core/log"
	"github.com/rchoetzlein/apitrace/state"
	"github.com/rchoetzlein/apitrace/trace"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

var (
	rawOut     = flag.String("raw", "", "path to write the binary record stream to (empty disables it)")
	txtOut     = flag.String("txt", "", "path to write the text record stream to (empty disables it)")
	startFrame = flag.Int("startframe", 0, "first frame (inclusive) to analyze")
	remoteHost = flag.String("remote", "", "user@host:port to fetch the trace from over SSH (empty reads the argument as a local path)")
	remoteKey  = flag.String("identity", "", "private key file for -remote (falls back to a running ssh-agent)")
	knownHosts = flag.String("knownhosts", "", "known_hosts file for verifying -remote's host key (empty trusts any host key)")
)

func main() {
	flag.Parse()
	ctx := log.PutHandler(context.Background(), log.Std(log.Normal))
	ctx = log.PutProcess(ctx, "statetrace")
	ctx = log.V{"cmd": "statetrace"}.Bind(ctx)

	args := flag.Args()
	if len(args) != 1 {
		log.F(ctx, true, "usage: statetrace [flags] <trace.jsonl>")
		os.Exit(2)
	}

	if err := run(ctx, args[0]); err != nil {
		log.F(ctx, true, "%v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, tracePath string) error {
	if *rawOut == "" && *txtOut == "" {
		return log.Errf(ctx, nil, "at least one of -raw or -txt must be set")
	}

	var encoders state.MultiEncoder
	if *rawOut != "" {
		f, err := os.Create(*rawOut)
		if err != nil {
			return log.Errf(ctx, err, "creating %s", *rawOut)
		}
		defer f.Close()
		encoders = append(encoders, state.NewBinaryEncoder(f))
	}
	if *txtOut != "" {
		f, err := os.Create(*txtOut)
		if err != nil {
			return log.Errf(ctx, err, "creating %s", *txtOut)
		}
		defer f.Close()
		encoders = append(encoders, state.NewTextEncoder(f))
	}

	src, err := openSource(ctx, tracePath)
	if err != nil {
		return err
	}
	analyzer := state.NewAnalyzer(encoders, int32(*startFrame))

	log.I(ctx, "analyzing %s from frame %d", tracePath, *startFrame)
	if err := analyzer.Run(ctx, src); err != nil {
		return log.Errf(ctx, err, "analyzing %s", tracePath)
	}
	log.I(ctx, "done")
	return nil
}

// openSource picks a local or SSH-backed trace source. With -remote unset,
// tracePath is a local JSONL file; otherwise it names the remote path and
// -remote carries user@host:port for the SSH connection.
func openSource(ctx context.Context, tracePath string) (trace.Source, error) {
	if *remoteHost == "" {
		return trace.JSONLSource{Path: tracePath}, nil
	}

	user, addr, ok := strings.Cut(*remoteHost, "@")
	if !ok {
		return nil, log.Errf(ctx, nil, "-remote must be user@host:port, got %q", *remoteHost)
	}

	var auths []ssh.AuthMethod
	if *remoteKey != "" {
		auth, err := trace.KeyFileAuth(*remoteKey)
		if err != nil {
			return nil, log.Errf(ctx, err, "loading -identity %s", *remoteKey)
		}
		auths = append(auths, auth)
	} else if agentAuth := trace.AgentAuth(); agentAuth != nil {
		auths = append(auths, agentAuth)
	} else {
		return nil, log.Errf(ctx, nil, "-remote requires -identity or a running ssh-agent")
	}

	hostKeyCallback := ssh.InsecureIgnoreHostKey()
	if *knownHosts != "" {
		cb, err := knownhosts.New(*knownHosts)
		if err != nil {
			return nil, log.Errf(ctx, err, "loading -knownhosts %s", *knownHosts)
		}
		hostKeyCallback = cb
	}

	return &trace.RemoteSource{
		Config: trace.RemoteConfig{
			Addr:            addr,
			User:            user,
			Auth:            auths,
			HostKeyCallback: hostKeyCallback,
		},
		RemotePath: tracePath,
	}, nil
}
