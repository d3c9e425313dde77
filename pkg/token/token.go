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

// Package token defines the pluggable join-token generation seam. Real
// token minting (e.g. a rotating bootstrap token) is future work; today
// the only implementation is Placeholder, which matches the behavior
// described in the design notes.
package token

import (
	"context"
	"fmt"
)

// Provider mints the join-token content stored in the
// "<cluster>-join-token" secret.
type Provider interface {
	Token(ctx context.Context, namespace, clusterName string) (string, error)
}

// Placeholder is a Provider that returns a fixed, non-secret string. It
// exists so the interface seam is real today even though no rotation or
// real credential material is generated yet.
type Placeholder struct{}

// Token returns a deterministic placeholder value.
func (Placeholder) Token(_ context.Context, _, clusterName string) (string, error) {
	return fmt.Sprintf("join-token-for-%s", clusterName), nil
}
