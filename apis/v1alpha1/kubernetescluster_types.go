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

package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

const (
	// KubernetesClusterFinalizer is added to a KubernetesCluster so the
	// controller can run its deletion orchestration before the object is
	// removed from the API server.
	KubernetesClusterFinalizer = "kubernetescluster.nico.homystack.com"
)

// Phase values for KubernetesClusterStatus.Phase.
const (
	PhaseProvisioning     = "Provisioning"
	PhaseControlPlaneReady = "ControlPlaneReady"
	PhaseReady            = "Ready"
	PhaseDeleting         = "Deleting"
	PhaseFailed           = "Failed"
)

// Role values consumed by the selector and recorded on child labels.
const (
	RoleControlPlane = "control-plane"
	RoleWorker       = "worker"
)

// RoleSelector describes how to pick machines for a role when no explicit
// list is given.
type RoleSelector struct {
	// MatchLabels a Machine's labels must be a superset of.
	// +optional
	MatchLabels map[string]string `json:"matchLabels,omitempty"`

	// Count is the number of machines to select. Zero selects none.
	// +kubebuilder:validation:Minimum=0
	Count int `json:"count,omitempty"`
}

// RoleSpec configures one of the two cluster roles (control-plane or
// data-plane/worker). At most one of Machines or MachineSelector+Count is
// meaningful: an explicit Machines list always wins over the selector.
type RoleSpec struct {
	// Machines is an explicit, ordered list of machine names for this role.
	// When non-empty it takes precedence over MachineSelector/Count.
	// +optional
	Machines []string `json:"machines,omitempty"`

	// MachineSelector and Count are used to select machines when Machines
	// is empty.
	// +optional
	MachineSelector RoleSelector `json:"machineSelector,omitempty"`
}

// SecretKeyRef points at a single key within a Secret.
type SecretKeyRef struct {
	Name string `json:"name"`
}

// KubernetesClusterSpec defines the desired state of a KubernetesCluster.
type KubernetesClusterSpec struct {
	// GitRepo is the git repository containing the NixOS configuration
	// flake for this cluster's nodes.
	GitRepo string `json:"gitRepo"`

	// Ref is an optional git ref (branch, tag, commit) to pin the
	// configuration to.
	// +optional
	Ref string `json:"ref,omitempty"`

	// ConfigurationSubdir is an optional subdirectory within GitRepo that
	// contains the flake.
	// +optional
	ConfigurationSubdir string `json:"configurationSubdir,omitempty"`

	// CredentialsRef optionally names a Secret used to authenticate against
	// GitRepo.
	// +optional
	CredentialsRef *SecretKeyRef `json:"credentialsRef,omitempty"`

	// ControlPlane configures selection of control-plane machines.
	ControlPlane RoleSpec `json:"controlPlane,omitempty"`

	// DataPlane configures selection of worker machines.
	// +optional
	DataPlane RoleSpec `json:"dataPlane,omitempty"`
}

// KubernetesClusterStatus defines the observed state of a KubernetesCluster.
type KubernetesClusterStatus struct {
	// Phase is a high-level summary of cluster readiness.
	// +optional
	Phase string `json:"phase,omitempty"`

	// ControlPlaneReady is a "ready/total" string for control-plane nodes.
	// +optional
	ControlPlaneReady string `json:"controlPlaneReady,omitempty"`

	// DataPlaneReady is a "ready/total" string for worker nodes.
	// +optional
	DataPlaneReady string `json:"dataPlaneReady,omitempty"`

	// KubeconfigSecret names the Secret holding the harvested kubeconfig,
	// once available.
	// +optional
	KubeconfigSecret string `json:"kubeconfigSecret,omitempty"`

	// AppliedMachines maps machine name to the NixosConfiguration child
	// name created for it.
	// +optional
	AppliedMachines map[string]string `json:"appliedMachines,omitempty"`

	// SelectedControlPlaneMachines is the persisted control-plane
	// selection; see the Machine Selector stability invariant.
	// +optional
	SelectedControlPlaneMachines []string `json:"selectedControlPlaneMachines,omitempty"`

	// SelectedDataPlaneMachines is the persisted worker selection.
	// +optional
	SelectedDataPlaneMachines []string `json:"selectedDataPlaneMachines,omitempty"`

	// Conditions are the standard Kubernetes condition set for this
	// resource.
	// +optional
	Conditions []metav1.Condition `json:"conditions,omitempty"`
}

// +kubebuilder:object:root=true
// +kubebuilder:resource:path=kubernetesclusters,scope=Namespaced,shortName=k8c
// +kubebuilder:subresource:status
// +kubebuilder:printcolumn:name="Phase",type="string",JSONPath=".status.phase"
// +kubebuilder:printcolumn:name="ControlPlane",type="string",JSONPath=".status.controlPlaneReady"
// +kubebuilder:printcolumn:name="DataPlane",type="string",JSONPath=".status.dataPlaneReady"
// +kubebuilder:printcolumn:name="Age",type="date",JSONPath=".metadata.creationTimestamp"

// KubernetesCluster declares a bare-metal/VM Kubernetes cluster to be
// provisioned from a pool of Machine resources.
type KubernetesCluster struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   KubernetesClusterSpec   `json:"spec,omitempty"`
	Status KubernetesClusterStatus `json:"status,omitempty"`
}

// +kubebuilder:object:root=true

// KubernetesClusterList contains a list of KubernetesCluster.
type KubernetesClusterList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []KubernetesCluster `json:"items"`
}
