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

// Package metrics registers and updates the Prometheus series this
// controller exposes. All updates go through package-level vector
// variables and are safe for concurrent use without an additional lock,
// the same pattern the vSphere session cache metrics use.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	ctrlmetrics "sigs.k8s.io/controller-runtime/pkg/metrics"
)

const namespace = "nico_cluster_controller"

const (
	labelNamespace = "namespace"
	labelCluster   = "cluster"
	labelRole      = "role"
	labelResult    = "result"
)

var (
	reconcileTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_total",
			Help:      "Total KubernetesCluster reconciles, by result (success|temporary|permanent|unknown).",
		},
		[]string{labelNamespace, labelCluster, labelResult},
	)

	reconcileDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reconcile_duration_seconds",
			Help:      "Duration of a KubernetesCluster reconcile.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{labelNamespace, labelCluster},
	)

	childrenCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "children_created_total",
			Help:      "Total NixosConfiguration children created, by role.",
		},
		[]string{labelNamespace, labelCluster, labelRole},
	)

	childrenDeletedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "children_deleted_total",
			Help:      "Total NixosConfiguration children deleted.",
		},
		[]string{labelNamespace, labelCluster},
	)

	machineSelectionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "machine_selection_duration_seconds",
			Help:      "Duration of machine selection, by role.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{labelNamespace, labelCluster, labelRole},
	)

	machinesSelected = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "machines_selected",
			Help:      "Number of machines selected for a role, as of the last selection.",
		},
		[]string{labelNamespace, labelCluster, labelRole},
	)

	kubeconfigHarvestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kubeconfig_harvest_total",
			Help:      "Total kubeconfig harvest attempts, by result (success|error).",
		},
		[]string{labelNamespace, labelCluster, labelResult},
	)

	clusterPhase = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cluster_phase",
			Help:      "Current phase of the cluster, numeric-encoded (0=Provisioning,1=ControlPlaneReady,2=Ready,3=Deleting,4=Failed).",
		},
		[]string{labelNamespace, labelCluster},
	)

	roleReady = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "role_ready",
			Help:      "Ready node count for a role, as of the last readiness tick.",
		},
		[]string{labelNamespace, labelCluster, labelRole},
	)

	roleTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "role_total",
			Help:      "Total node count for a role, as of the last readiness tick.",
		},
		[]string{labelNamespace, labelCluster, labelRole},
	)
)

func init() {
	ctrlmetrics.Registry.MustRegister(
		reconcileTotal,
		reconcileDuration,
		childrenCreatedTotal,
		childrenDeletedTotal,
		machineSelectionDuration,
		machinesSelected,
		kubeconfigHarvestTotal,
		clusterPhase,
		roleReady,
		roleTotal,
	)
}

// Result labels for ReconcileTotal/KubeconfigHarvestTotal.
const (
	ResultSuccess   = "success"
	ResultTemporary = "temporary"
	ResultPermanent = "permanent"
	ResultUnknown   = "unknown"
	ResultError     = "error"
)

// ObserveReconcile records a reconcile's outcome and duration.
func ObserveReconcile(namespaceVal, cluster, result string, seconds float64) {
	reconcileTotal.With(prometheus.Labels{labelNamespace: namespaceVal, labelCluster: cluster, labelResult: result}).Inc()
	reconcileDuration.With(prometheus.Labels{labelNamespace: namespaceVal, labelCluster: cluster}).Observe(seconds)
}

// ObserveChildCreated increments the children-created counter for role.
func ObserveChildCreated(namespaceVal, cluster, role string) {
	childrenCreatedTotal.With(prometheus.Labels{labelNamespace: namespaceVal, labelCluster: cluster, labelRole: role}).Inc()
}

// ObserveChildDeleted increments the children-deleted counter.
func ObserveChildDeleted(namespaceVal, cluster string) {
	childrenDeletedTotal.With(prometheus.Labels{labelNamespace: namespaceVal, labelCluster: cluster}).Inc()
}

// ObserveMachineSelection records a selection's duration and the size of
// the result, by role.
func ObserveMachineSelection(namespaceVal, cluster, role string, seconds float64, selected int) {
	machineSelectionDuration.With(prometheus.Labels{labelNamespace: namespaceVal, labelCluster: cluster, labelRole: role}).Observe(seconds)
	machinesSelected.With(prometheus.Labels{labelNamespace: namespaceVal, labelCluster: cluster, labelRole: role}).Set(float64(selected))
}

// ObserveKubeconfigHarvest records a harvest attempt's outcome.
func ObserveKubeconfigHarvest(namespaceVal, cluster, result string) {
	kubeconfigHarvestTotal.With(prometheus.Labels{labelNamespace: namespaceVal, labelCluster: cluster, labelResult: result}).Inc()
}

// phaseCode maps a phase string to the numeric encoding ClusterPhase uses.
func phaseCode(phase string) float64 {
	switch phase {
	case "Provisioning":
		return 0
	case "ControlPlaneReady":
		return 1
	case "Ready":
		return 2
	case "Deleting":
		return 3
	case "Failed":
		return 4
	default:
		return -1
	}
}

// ObserveReadiness records the aggregate phase and both roles' ready/total
// gauges for one monitor tick.
func ObserveReadiness(namespaceVal, cluster, phase string, cpReady, cpTotal, dpReady, dpTotal int) {
	clusterPhase.With(prometheus.Labels{labelNamespace: namespaceVal, labelCluster: cluster}).Set(phaseCode(phase))
	roleReady.With(prometheus.Labels{labelNamespace: namespaceVal, labelCluster: cluster, labelRole: "control-plane"}).Set(float64(cpReady))
	roleTotal.With(prometheus.Labels{labelNamespace: namespaceVal, labelCluster: cluster, labelRole: "control-plane"}).Set(float64(cpTotal))
	roleReady.With(prometheus.Labels{labelNamespace: namespaceVal, labelCluster: cluster, labelRole: "worker"}).Set(float64(dpReady))
	roleTotal.With(prometheus.Labels{labelNamespace: namespaceVal, labelCluster: cluster, labelRole: "worker"}).Set(float64(dpTotal))
}
