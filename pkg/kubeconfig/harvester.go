/*
Copyright 2019 The Kubernetes Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package kubeconfig implements the SSH-based best-effort extraction of a
// kubeconfig from a ready control-plane node. Host-key verification is
// disabled for bootstrap, the same known limitation the teacher's SSH
// helper (pkg/cloud/vsphere/services/ssh) carries; see Options.HostKeyCallback
// for the seam a future implementation would use to pin host keys sourced
// from the Machine resource instead.
package kubeconfig

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-logr/logr"
	"github.com/pkg/errors"
	"golang.org/x/crypto/ssh"

	nicov1alpha1 "github.com/homystack/nico-cluster-controller/apis/v1alpha1"
)

// knownPaths are tried in order; the first one that yields non-empty
// stdout with a zero exit status wins.
var knownPaths = []string{
	"/etc/rancher/k3s/k3s.yaml",
	"/var/lib/k0s/pki/admin.conf",
	"/etc/kubernetes/admin.conf",
	"/root/.kube/config",
	"/etc/kubernetes/kubeconfig",
}

const perStepTimeout = 10 * time.Second

// SecretReader fetches the named Secret's key; used to materialize a
// machine's SSH private key before dialing.
type SecretReader interface {
	ReadSecretKey(ctx context.Context, namespace, name, key string) ([]byte, error)
}

// Options configures a single Harvest call.
type Options struct {
	// HostKeyCallback overrides the default InsecureIgnoreHostKey. Exposed
	// for a future implementation that pins host keys per Machine.
	HostKeyCallback ssh.HostKeyCallback

	Logger logr.Logger
}

// Harvest connects to the first ready control-plane machine only and tries
// each known kubeconfig path, then `kubectl config view --raw`, until one
// yields a non-empty kubeconfig; it returns empty after exhausting all
// options for that machine. The remaining machines are not tried.
func Harvest(ctx context.Context, secrets SecretReader, namespace string, readyControlPlane []*nicov1alpha1.Machine, opts Options) (string, error) {
	if len(readyControlPlane) == 0 {
		return "", nil
	}
	machine := readyControlPlane[0]

	host := machine.Address()
	if host == "" || host == "unknown" {
		return "", nil
	}

	hostKeyCallback := opts.HostKeyCallback
	if hostKeyCallback == nil {
		hostKeyCallback = ssh.InsecureIgnoreHostKey()
	}

	config := &ssh.ClientConfig{
		User:            machine.SSHUserOrDefault(),
		HostKeyCallback: hostKeyCallback,
		Timeout:         perStepTimeout,
	}

	if machine.Spec.SSHKeySecretRef != nil {
		keyPath, cleanup, err := materializeKey(ctx, secrets, namespace, machine.Spec.SSHKeySecretRef.Name)
		if err != nil {
			return "", errors.Wrap(err, "materialize ssh key")
		}
		defer cleanup()

		signer, err := signerFromFile(keyPath)
		if err != nil {
			return "", errors.Wrap(err, "parse ssh private key")
		}
		config.Auth = []ssh.AuthMethod{ssh.PublicKeys(signer)}
	}

	addr := host + ":22"
	conn, err := ssh.Dial("tcp", addr, config)
	if err != nil {
		return "", errors.Wrapf(err, "dial %s", addr)
	}
	defer conn.Close()

	for _, path := range knownPaths {
		out, ok := runCommand(conn, fmt.Sprintf("cat %s", path))
		if ok && len(bytes.TrimSpace(out)) > 0 {
			return normalize(out), nil
		}
	}

	out, ok := runCommand(conn, "kubectl config view --raw")
	if ok && len(bytes.TrimSpace(out)) > 0 {
		return normalize(out), nil
	}

	return "", nil
}

// runCommand executes cmd over a fresh SSH session bounded by
// perStepTimeout, treating a timeout or non-zero exit as "not present" —
// the caller continues to the next candidate path rather than aborting.
func runCommand(conn *ssh.Client, cmd string) ([]byte, bool) {
	sess, err := conn.NewSession()
	if err != nil {
		return nil, false
	}
	defer sess.Close()

	var stdout bytes.Buffer
	sess.Stdout = &stdout

	done := make(chan error, 1)
	go func() { done <- sess.Run(cmd) }()

	select {
	case err := <-done:
		if err != nil {
			return nil, false
		}
		return stdout.Bytes(), true
	case <-time.After(perStepTimeout):
		_ = sess.Signal(ssh.SIGKILL)
		return nil, false
	}
}

// normalize attempts to round-trip the kubeconfig through a structured
// parse so a future VIP-substitution pass has a clean entry point; on any
// parse failure the raw bytes pass through unchanged (§4.8 step 5).
func normalize(raw []byte) string {
	var doc map[string]interface{}
	if err := yamlUnmarshal(raw, &doc); err != nil {
		return string(raw)
	}
	out, err := yamlMarshal(doc)
	if err != nil {
		return string(raw)
	}
	return string(out)
}

func materializeKey(ctx context.Context, secrets SecretReader, namespace, secretName string) (path string, cleanup func(), err error) {
	data, err := secrets.ReadSecretKey(ctx, namespace, secretName, "ssh-privatekey")
	if err != nil {
		return "", func() {}, err
	}

	f, err := os.CreateTemp("", "nico-ssh-key-*")
	if err != nil {
		return "", func() {}, err
	}
	cleanup = func() { _ = os.Remove(f.Name()) }

	if _, err := f.Write(data); err != nil {
		f.Close()
		cleanup()
		return "", func() {}, err
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", func() {}, err
	}
	if err := os.Chmod(f.Name(), 0o600); err != nil {
		cleanup()
		return "", func() {}, err
	}
	return f.Name(), cleanup, nil
}

func signerFromFile(path string) (ssh.Signer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ssh.ParsePrivateKey(data)
}
