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
	"bytes"
	"context"
	"net"
	"os"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"

	"github.com/rchoetzlein/apitrace/core/log"
)

// RemoteConfig describes an SSH-reachable host holding a capture — a trace
// gathered on a device that isn't the one running the analyzer.
type RemoteConfig struct {
	// Addr is "host:port".
	Addr string
	User string
	Auth []ssh.AuthMethod
	// HostKeyCallback verifies the remote host's key, typically
	// ssh.FixedHostKey or a knownhosts.New callback.
	HostKeyCallback ssh.HostKeyCallback
}

// AgentAuth returns an AuthMethod backed by a running local SSH agent, or
// nil if none is reachable. cmd/statetrace uses it as the fallback when no
// key file is given.
func AgentAuth() ssh.AuthMethod {
	sock := os.Getenv("SSH_AUTH_SOCK")
	if sock == "" {
		return nil
	}
	conn, err := net.Dial("unix", sock)
	if err != nil {
		return nil
	}
	return ssh.PublicKeysCallback(agent.NewClient(conn).Signers)
}

// KeyFileAuth returns an AuthMethod backed by the unencrypted private key at
// path.
func KeyFileAuth(path string) (ssh.AuthMethod, error) {
	key, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading private key %s", path)
	}
	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing private key %s", path)
	}
	return ssh.PublicKeys(signer), nil
}

// RemoteSource is a Source backed by a trace captured on a remote host and
// read over SSH. Unlike JSONLSource, which reopens a local file per pass,
// fetching twice over the network would double the SSH round trip for no
// benefit, so RemoteSource fetches once (on the first ForEach) and serves
// every subsequent pass from the buffered decode — a List satisfies the
// same two-pass replay contract either way.
type RemoteSource struct {
	Config     RemoteConfig
	RemotePath string

	fetched bool
	calls   List
}

// ForEach implements Source, fetching the remote trace on first use and
// replaying the buffered decode on every call after.
func (s *RemoteSource) ForEach(ctx context.Context, fn func(*Call) error) error {
	if !s.fetched {
		calls, err := fetchRemoteTrace(ctx, s.Config, s.RemotePath)
		if err != nil {
			return err
		}
		s.calls = calls
		s.fetched = true
	}
	return s.calls.ForEach(ctx, fn)
}

func fetchRemoteTrace(ctx context.Context, cfg RemoteConfig, remotePath string) (List, error) {
	client, err := ssh.Dial("tcp", cfg.Addr, &ssh.ClientConfig{
		User:            cfg.User,
		Auth:            cfg.Auth,
		HostKeyCallback: cfg.HostKeyCallback,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "dialing %s", cfg.Addr)
	}
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return nil, errors.Wrap(err, "opening ssh session")
	}
	defer session.Close()

	// cat writes any complaint (missing file, permission denied) to stderr
	// rather than stdout; route it into the structured log instead of
	// silently discarding it.
	session.Stderr = log.From(ctx).Writer(log.Warning)

	out, err := session.Output("cat " + shellQuote(remotePath))
	if err != nil {
		return nil, errors.Wrapf(err, "reading remote trace %s", remotePath)
	}

	var calls List
	err = decodeJSONLStream(ctx, bytes.NewReader(out), func(c *Call) error {
		calls = append(calls, c)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "decoding remote trace %s", remotePath)
	}
	return calls, nil
}

// shellQuote wraps s in single quotes so RemotePath survives the remote
// shell's word-splitting, escaping any single quote it already contains.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
