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

// Package apigateway is a typed wrapper over the cluster API used by every
// other component in this controller. It is the only package that uses
// sigs.k8s.io/controller-runtime/pkg/client for Machine, NixosConfiguration,
// Secret and cluster-status operations, so the other pkg/ packages can be
// tested against a small interface instead of a full fake client. The
// controllers still get and update the KubernetesCluster object itself
// through client.Client directly.
package apigateway

import (
	"context"

	"github.com/pkg/errors"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	apitypes "k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"

	nicov1alpha1 "github.com/homystack/nico-cluster-controller/apis/v1alpha1"
	"github.com/homystack/nico-cluster-controller/pkg/fieldpatch"
)

// ErrNotFound is returned by Get* operations instead of the raw
// apierrors.IsNotFound error, so callers can distinguish the not-found
// signal with errors.Is without importing apimachinery themselves.
var ErrNotFound = errors.New("apigateway: not found")

// wrapNotFound normalizes a client error: NotFound becomes ErrNotFound,
// nil stays nil, everything else is wrapped with the caller's context.
func wrapNotFound(err error, context string) error {
	if err == nil {
		return nil
	}
	if apierrors.IsNotFound(err) {
		return ErrNotFound
	}
	return errors.Wrap(err, context)
}

// Gateway is a typed wrapper over the cluster API's get/list/create/patch/
// delete operations for Machine, NixosConfiguration, Secret, and the
// KubernetesCluster status subresource.
type Gateway struct {
	Client client.Client
}

// New returns a Gateway backed by c.
func New(c client.Client) *Gateway {
	return &Gateway{Client: c}
}

// GetMachine fetches a Machine by name.
func (g *Gateway) GetMachine(ctx context.Context, namespace, name string) (*nicov1alpha1.Machine, error) {
	m := &nicov1alpha1.Machine{}
	key := apitypes.NamespacedName{Namespace: namespace, Name: name}
	if err := g.Client.Get(ctx, key, m); err != nil {
		return nil, wrapNotFound(err, "get machine "+name)
	}
	return m, nil
}

// ListMachines lists every Machine in namespace.
func (g *Gateway) ListMachines(ctx context.Context, namespace string) ([]nicov1alpha1.Machine, error) {
	list := &nicov1alpha1.MachineList{}
	if err := g.Client.List(ctx, list, client.InNamespace(namespace)); err != nil {
		return nil, errors.Wrap(err, "list machines")
	}
	return list.Items, nil
}

// GetConfig fetches a NixosConfiguration by name.
func (g *Gateway) GetConfig(ctx context.Context, namespace, name string) (*nicov1alpha1.NixosConfiguration, error) {
	c := &nicov1alpha1.NixosConfiguration{}
	key := apitypes.NamespacedName{Namespace: namespace, Name: name}
	if err := g.Client.Get(ctx, key, c); err != nil {
		return nil, wrapNotFound(err, "get nixosconfiguration "+name)
	}
	return c, nil
}

// CreateConfig creates cfg, which must already carry the owner reference
// the caller wants persisted (see childmanager, which is the only caller).
func (g *Gateway) CreateConfig(ctx context.Context, cfg *nicov1alpha1.NixosConfiguration) error {
	if err := g.Client.Create(ctx, cfg); err != nil {
		return errors.Wrapf(err, "create nixosconfiguration %s/%s", cfg.Namespace, cfg.Name)
	}
	return nil
}

// PatchConfigSpec applies patch as a JSON merge-patch to cfg's spec. This
// is the only mutation path that can remove an optional field (via
// fieldpatch.Remove), since merge-patch null deletes a key while
// strategic-merge/replace semantics cannot express that for a scalar.
func (g *Gateway) PatchConfigSpec(ctx context.Context, cfg *nicov1alpha1.NixosConfiguration, patch *fieldpatch.Patch) error {
	body, err := patch.MarshalMergePatch()
	if err != nil {
		return errors.Wrap(err, "marshal merge patch")
	}
	if err := g.Client.Patch(ctx, cfg, client.RawPatch(apitypes.MergePatchType, body)); err != nil {
		return errors.Wrapf(err, "patch nixosconfiguration %s/%s", cfg.Namespace, cfg.Name)
	}
	return nil
}

// DeleteConfig deletes a NixosConfiguration by name. NotFound is returned
// as ErrNotFound, never swallowed here; the controllers deletion path logs
// it and continues, like any other delete failure.
func (g *Gateway) DeleteConfig(ctx context.Context, namespace, name string) error {
	cfg := &nicov1alpha1.NixosConfiguration{}
	cfg.Namespace = namespace
	cfg.Name = name
	if err := g.Client.Delete(ctx, cfg); err != nil {
		return wrapNotFound(err, "delete nixosconfiguration "+name)
	}
	return nil
}

// ReadSecretKey fetches a Secret and returns one key's value. Used by
// pkg/kubeconfig to materialize a machine's SSH private key.
func (g *Gateway) ReadSecretKey(ctx context.Context, namespace, name, key string) ([]byte, error) {
	s, err := g.GetSecret(ctx, namespace, name)
	if err != nil {
		return nil, err
	}
	v, ok := s.Data[key]
	if !ok {
		return nil, errors.Errorf("secret %s/%s has no key %q", namespace, name, key)
	}
	return v, nil
}

// GetSecret fetches a Secret by name.
func (g *Gateway) GetSecret(ctx context.Context, namespace, name string) (*corev1.Secret, error) {
	s := &corev1.Secret{}
	key := apitypes.NamespacedName{Namespace: namespace, Name: name}
	if err := g.Client.Get(ctx, key, s); err != nil {
		return nil, wrapNotFound(err, "get secret "+name)
	}
	return s, nil
}

// CreateSecret creates a single-key Opaque Secret.
func (g *Gateway) CreateSecret(ctx context.Context, namespace, name, key string, value []byte) error {
	s := &corev1.Secret{
		Data: map[string][]byte{key: value},
		Type: corev1.SecretTypeOpaque,
	}
	s.Namespace = namespace
	s.Name = name
	if err := g.Client.Create(ctx, s); err != nil {
		return errors.Wrapf(err, "create secret %s/%s", namespace, name)
	}
	return nil
}

// DeleteSecret deletes a Secret by name. NotFound is returned as
// ErrNotFound, never swallowed here; the caller logs it and continues.
func (g *Gateway) DeleteSecret(ctx context.Context, namespace, name string) error {
	s := &corev1.Secret{}
	s.Namespace = namespace
	s.Name = name
	if err := g.Client.Delete(ctx, s); err != nil {
		return wrapNotFound(err, "delete secret "+name)
	}
	return nil
}

// PatchClusterStatus applies a merge-patch to the KubernetesCluster status
// subresource. Reconciler and the readiness monitor both call this; merge
// semantics let their non-overlapping field writes compose (see Design
// Notes, status-writer contention).
func (g *Gateway) PatchClusterStatus(ctx context.Context, cluster *nicov1alpha1.KubernetesCluster, status map[string]interface{}) error {
	body, err := statusMergePatch(status)
	if err != nil {
		return errors.Wrap(err, "marshal status merge patch")
	}
	if err := g.Client.Status().Patch(ctx, cluster, client.RawPatch(apitypes.MergePatchType, body)); err != nil {
		return errors.Wrapf(err, "patch kubernetescluster %s/%s status", cluster.Namespace, cluster.Name)
	}
	return nil
}
