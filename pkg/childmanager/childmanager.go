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

// Package childmanager owns idempotent ensure/update of the per-machine
// NixosConfiguration children and the join-token Secret they reference.
package childmanager

import (
	"context"
	"errors"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	nicov1alpha1 "github.com/homystack/nico-cluster-controller/apis/v1alpha1"
	"github.com/homystack/nico-cluster-controller/pkg/apigateway"
	"github.com/homystack/nico-cluster-controller/pkg/fieldpatch"
	"github.com/homystack/nico-cluster-controller/pkg/metrics"
	"github.com/homystack/nico-cluster-controller/pkg/token"
	"github.com/homystack/nico-cluster-controller/pkg/topology"
)

// Gateway is the subset of apigateway.Gateway the child manager needs,
// narrowed for testability.
type Gateway interface {
	GetConfig(ctx context.Context, namespace, name string) (*nicov1alpha1.NixosConfiguration, error)
	CreateConfig(ctx context.Context, cfg *nicov1alpha1.NixosConfiguration) error
	PatchConfigSpec(ctx context.Context, cfg *nicov1alpha1.NixosConfiguration, patch *fieldpatch.Patch) error
	GetSecret(ctx context.Context, namespace, name string) (*corev1.Secret, error)
	CreateSecret(ctx context.Context, namespace, name, key string, value []byte) error
}

// Manager ensures children and the join-token secret for a cluster exist
// and match the parent's current spec.
type Manager struct {
	Gateway Gateway
	Tokens  token.Provider
}

// NewManager constructs a Manager. tokens may be nil, in which case
// token.Placeholder{} is used.
func NewManager(gw Gateway, tokens token.Provider) *Manager {
	if tokens == nil {
		tokens = token.Placeholder{}
	}
	return &Manager{Gateway: gw, Tokens: tokens}
}

// ChildName is the deterministic name of the child NixosConfiguration for
// (cluster, machine): "<cluster>-<machine>".
func ChildName(clusterName, machineName string) string {
	return fmt.Sprintf("%s-%s", clusterName, machineName)
}

// JoinTokenSecretName is the deterministic name of the cluster's join
// token secret.
func JoinTokenSecretName(clusterName string) string {
	return clusterName + "-join-token"
}

// EnsureJoinTokenSecret ensures "<cluster>-join-token" exists, creating it
// via tokens on first reconcile and reusing it on every subsequent one.
func (m *Manager) EnsureJoinTokenSecret(ctx context.Context, namespace, clusterName string) error {
	name := JoinTokenSecretName(clusterName)
	_, err := m.Gateway.GetSecret(ctx, namespace, name)
	if err == nil {
		return nil
	}
	if !errors.Is(err, apigateway.ErrNotFound) {
		return err
	}
	value, err := m.Tokens.Token(ctx, namespace, clusterName)
	if err != nil {
		return err
	}
	return m.Gateway.CreateSecret(ctx, namespace, name, "token", []byte(value))
}

// MachineInfo is what EnsureChild needs to know about the target machine
// beyond its name: whether it declares an SSH key secret and whether it
// has already received a full install.
type MachineInfo struct {
	Name               string
	SSHKeySecretName   string
	FullInstallApplied bool
}

// EnsureChild creates the child NixosConfiguration for (cluster, machine,
// role) if absent, or — if it already exists — computes and applies a
// drift-repair merge-patch limited to {gitRepo, ref, configurationSubdir,
// credentialsRef}. It returns the child's name.
func (m *Manager) EnsureChild(
	ctx context.Context,
	owner metav1.OwnerReference,
	namespace, clusterName string,
	clusterSpec nicov1alpha1.KubernetesClusterSpec,
	role string,
	machine MachineInfo,
	joinTokenSecretName string,
	clusterDoc string,
) (string, error) {
	name := ChildName(clusterName, machine.Name)

	existing, err := m.Gateway.GetConfig(ctx, namespace, name)
	if err == nil {
		patch := driftPatch(clusterSpec, existing.Spec)
		if !patch.IsEmpty() {
			if err := m.Gateway.PatchConfigSpec(ctx, existing, patch); err != nil {
				return "", err
			}
		}
		return name, nil
	}
	if !errors.Is(err, apigateway.ErrNotFound) {
		return "", err
	}

	additionalFiles := []nicov1alpha1.AdditionalFile{
		{
			Path:      "cluster.nix",
			ValueType: nicov1alpha1.ValueTypeInline,
			Inline:    clusterDoc,
		},
		{
			Path:      "join-token",
			ValueType: nicov1alpha1.ValueTypeSecretRef,
			SecretRef: &nicov1alpha1.SecretKeyRef{Name: joinTokenSecretName},
		},
	}
	if machine.SSHKeySecretName != "" {
		additionalFiles = append(additionalFiles, nicov1alpha1.AdditionalFile{
			Path:      "machine-ssh-key",
			ValueType: nicov1alpha1.ValueTypeSecretRef,
			SecretRef: &nicov1alpha1.SecretKeyRef{Name: machine.SSHKeySecretName},
		})
	}

	cfg := &nicov1alpha1.NixosConfiguration{}
	cfg.Namespace = namespace
	cfg.Name = name
	cfg.Labels = map[string]string{"cluster": clusterName, "role": role}
	cfg.OwnerReferences = []metav1.OwnerReference{owner}
	cfg.Spec = nicov1alpha1.NixosConfigurationSpec{
		GitRepo:             clusterSpec.GitRepo,
		Ref:                 clusterSpec.Ref,
		ConfigurationSubdir: clusterSpec.ConfigurationSubdir,
		CredentialsRef:      clusterSpec.CredentialsRef,
		Flake:               "#" + machine.Name,
		OnRemoveFlake:       "#minimal",
		MachineRef:          nicov1alpha1.MachineRef{Name: machine.Name},
		FullInstall:         !machine.FullInstallApplied,
		AdditionalFiles:     additionalFiles,
	}

	if err := m.Gateway.CreateConfig(ctx, cfg); err != nil {
		return "", err
	}
	metrics.ObserveChildCreated(namespace, clusterName, role)
	return name, nil
}

// driftPatch compares the parent spec against an existing child's
// configurable fields and returns a patch covering exactly the changed
// subset of {gitRepo, ref, configurationSubdir, credentialsRef}. flake,
// machineRef, fullInstall and additionalFiles are never patched here —
// see the Child Manager's write-once fields.
func driftPatch(parent nicov1alpha1.KubernetesClusterSpec, existing nicov1alpha1.NixosConfigurationSpec) *fieldpatch.Patch {
	p := fieldpatch.NewPatch()

	if parent.GitRepo != existing.GitRepo {
		p.Field("gitRepo", fieldpatch.Set(parent.GitRepo))
	}
	if parent.Ref != existing.Ref {
		p.Field("ref", refValue(parent.Ref))
	}
	if parent.ConfigurationSubdir != existing.ConfigurationSubdir {
		p.Field("configurationSubdir", refValue(parent.ConfigurationSubdir))
	}
	if !credentialsRefEqual(parent.CredentialsRef, existing.CredentialsRef) {
		p.Field("credentialsRef", credentialsRefValue(parent.CredentialsRef))
	}

	return p
}

func refValue(ref string) fieldpatch.Value {
	if ref == "" {
		return fieldpatch.Remove
	}
	return fieldpatch.Set(ref)
}

func credentialsRefValue(ref *nicov1alpha1.SecretKeyRef) fieldpatch.Value {
	if ref == nil {
		return fieldpatch.Remove
	}
	return fieldpatch.Set(ref)
}

func credentialsRefEqual(a, b *nicov1alpha1.SecretKeyRef) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a.Name == b.Name
}

// RenderClusterDoc is a thin convenience wrapper over topology.Render.
func RenderClusterDoc(clusterName string, controlPlane, workers []topology.Node) string {
	return topology.Render(clusterName, controlPlane, workers)
}
