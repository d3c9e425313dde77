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

// FullInstallationAppliedAnnotation, when present (any value) on a Machine,
// means the node already received a full NixOS install and only drift
// repair (not a from-scratch install) is needed going forward.
const FullInstallationAppliedAnnotation = "nico.homystack.com/fullInstallationApplied"

// MachineSpec describes a node available for cluster membership.
type MachineSpec struct {
	// Hostname of the machine, used for IP resolution fallback and as the
	// SSH target when IPAddress is empty.
	// +optional
	Hostname string `json:"hostname,omitempty"`

	// IPAddress of the machine, preferred over Hostname when resolving an
	// SSH/topology target.
	// +optional
	IPAddress string `json:"ipAddress,omitempty"`

	// SSHUser to authenticate as over SSH. Defaults to "root".
	// +kubebuilder:default=root
	// +optional
	SSHUser string `json:"sshUser,omitempty"`

	// SSHKeySecretRef optionally names a Secret with an "ssh-privatekey"
	// entry used to authenticate over SSH.
	// +optional
	SSHKeySecretRef *SecretKeyRef `json:"sshKeySecretRef,omitempty"`
}

// MachineStatus is observed, externally-owned state of a Machine.
type MachineStatus struct {
	// HasConfiguration is true once a NixosConfiguration has claimed this
	// machine. A Machine with HasConfiguration=true is unavailable for
	// fresh selection.
	// +optional
	HasConfiguration bool `json:"hasConfiguration,omitempty"`
}

// SSHUserOrDefault returns Spec.SSHUser, defaulting to "root" when unset.
func (m *Machine) SSHUserOrDefault() string {
	if m.Spec.SSHUser == "" {
		return "root"
	}
	return m.Spec.SSHUser
}

// Address resolves the machine's network address per the order: IPAddress,
// then Hostname, then the literal "unknown".
func (m *Machine) Address() string {
	if m.Spec.IPAddress != "" {
		return m.Spec.IPAddress
	}
	if m.Spec.Hostname != "" {
		return m.Spec.Hostname
	}
	return "unknown"
}

// +kubebuilder:object:root=true
// +kubebuilder:resource:path=machines,scope=Namespaced
// +kubebuilder:subresource:status
// +kubebuilder:printcolumn:name="Hostname",type="string",JSONPath=".spec.hostname"
// +kubebuilder:printcolumn:name="HasConfiguration",type="boolean",JSONPath=".status.hasConfiguration"

// Machine describes a node available for cluster membership. It is owned
// and reconciled by a separate controller; this core only reads it.
type Machine struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   MachineSpec   `json:"spec,omitempty"`
	Status MachineStatus `json:"status,omitempty"`
}

// +kubebuilder:object:root=true

// MachineList contains a list of Machine.
type MachineList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []Machine `json:"items"`
}
