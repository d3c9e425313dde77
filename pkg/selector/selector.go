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

// Package selector implements deterministic machine selection for a
// cluster role, with status-persisted stability across reconciles.
package selector

import (
	"context"
	"sort"
	"time"

	"k8s.io/apimachinery/pkg/labels"

	nicov1alpha1 "github.com/homystack/nico-cluster-controller/apis/v1alpha1"
	"github.com/homystack/nico-cluster-controller/pkg/metrics"
)

// Lister is the minimal machine-listing capability the selector needs,
// satisfied by *apigateway.Gateway.
type Lister interface {
	ListMachines(ctx context.Context, namespace string) ([]nicov1alpha1.Machine, error)
}

// Select returns the ordered list of machine names for role, applying the
// strict precedence: explicit spec list, then persisted status selection,
// then a fresh label+availability selection over the namespace's pool.
//
// persisted is status.selected<Role>Machines for this role; namespace and
// clusterName are only used to label metrics and do not affect the result.
func Select(ctx context.Context, lister Lister, namespace, clusterName, role string, roleSpec nicov1alpha1.RoleSpec, persisted []string) ([]string, error) {
	start := time.Now()

	if len(roleSpec.Machines) > 0 {
		out := append([]string(nil), roleSpec.Machines...)
		metrics.ObserveMachineSelection(namespace, clusterName, role, time.Since(start).Seconds(), len(out))
		return out, nil
	}

	if len(persisted) > 0 {
		out := append([]string(nil), persisted...)
		metrics.ObserveMachineSelection(namespace, clusterName, role, time.Since(start).Seconds(), len(out))
		return out, nil
	}

	if roleSpec.MachineSelector.Count == 0 {
		metrics.ObserveMachineSelection(namespace, clusterName, role, time.Since(start).Seconds(), 0)
		return nil, nil
	}

	pool, err := lister.ListMachines(ctx, namespace)
	if err != nil {
		return nil, err
	}

	required := labels.SelectorFromSet(roleSpec.MachineSelector.MatchLabels)

	var available []string
	for _, m := range pool {
		if !required.Matches(labels.Set(m.Labels)) {
			continue
		}
		if m.Status.HasConfiguration {
			continue
		}
		available = append(available, m.Name)
	}
	sort.Strings(available)

	count := roleSpec.MachineSelector.Count
	if count > len(available) {
		count = len(available)
	}
	selected := available[:count]

	metrics.ObserveMachineSelection(namespace, clusterName, role, time.Since(start).Seconds(), len(selected))
	return selected, nil
}
