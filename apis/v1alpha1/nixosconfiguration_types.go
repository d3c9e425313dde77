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

// ValueType enumerates how an AdditionalFile's content is provided.
type ValueType string

const (
	// ValueTypeInline embeds the document directly.
	ValueTypeInline ValueType = "Inline"
	// ValueTypeSecretRef references a Secret containing the document.
	ValueTypeSecretRef ValueType = "SecretRef"
)

// AdditionalFile is one document embedded into a NixosConfiguration, to be
// materialized onto the target node by the downstream configuration
// controller.
type AdditionalFile struct {
	// Path the file is written to, relative to the flake checkout.
	Path string `json:"path"`

	// ValueType selects which of Inline/SecretRef is populated.
	ValueType ValueType `json:"valueType"`

	// Inline holds the document content when ValueType is Inline.
	// +optional
	Inline string `json:"inline,omitempty"`

	// SecretRef names a Secret whose content is the document, when
	// ValueType is SecretRef.
	// +optional
	SecretRef *SecretKeyRef `json:"secretRef,omitempty"`
}

// MachineRef names the Machine a NixosConfiguration targets.
type MachineRef struct {
	Name string `json:"name"`
}

// NixosConfigurationSpec defines the desired state of one per-machine NixOS
// configuration. Only GitRepo, Ref, ConfigurationSubdir and CredentialsRef
// are reconciled after creation; Flake, MachineRef, FullInstall and
// AdditionalFiles are write-once.
type NixosConfigurationSpec struct {
	// GitRepo is the flake's git repository.
	GitRepo string `json:"gitRepo"`

	// Ref is an optional git ref to pin to.
	// +optional
	Ref string `json:"ref,omitempty"`

	// ConfigurationSubdir is an optional subdirectory within GitRepo.
	// +optional
	ConfigurationSubdir string `json:"configurationSubdir,omitempty"`

	// CredentialsRef optionally names a Secret used to authenticate
	// against GitRepo.
	// +optional
	CredentialsRef *SecretKeyRef `json:"credentialsRef,omitempty"`

	// Flake is the flake output reference to build, e.g. "#<machine-name>".
	Flake string `json:"flake"`

	// OnRemoveFlake is the flake output to apply when this configuration
	// is removed, reverting the node to a minimal state.
	OnRemoveFlake string `json:"onRemoveFlake"`

	// MachineRef names the target Machine.
	MachineRef MachineRef `json:"machineRef"`

	// FullInstall requests a from-scratch NixOS install rather than an
	// in-place activation. Decided once at creation time.
	FullInstall bool `json:"fullInstall"`

	// AdditionalFiles is the ordered list of documents to materialize
	// alongside the flake.
	// +optional
	AdditionalFiles []AdditionalFile `json:"additionalFiles,omitempty"`
}

// NixosConfigurationStatus is observed state, written by the downstream
// configuration controller.
type NixosConfigurationStatus struct {
	// AppliedCommit is non-empty once the configuration has been applied
	// at least once; it names the git commit that was applied.
	// +optional
	AppliedCommit string `json:"appliedCommit,omitempty"`
}

// +kubebuilder:object:root=true
// +kubebuilder:resource:path=nixosconfigurations,scope=Namespaced,shortName=nixcfg
// +kubebuilder:subresource:status
// +kubebuilder:printcolumn:name="Machine",type="string",JSONPath=".spec.machineRef.name"
// +kubebuilder:printcolumn:name="AppliedCommit",type="string",JSONPath=".status.appliedCommit"

// NixosConfiguration is one per-machine declarative input realized by a
// downstream controller that installs/updates NixOS on the target node.
// Instances of this type are owned and managed by this controller.
type NixosConfiguration struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   NixosConfigurationSpec   `json:"spec,omitempty"`
	Status NixosConfigurationStatus `json:"status,omitempty"`
}

// Role returns the "role" label value, defaulting to worker when absent,
// matching the Readiness Monitor's role-from-label rule.
func (c *NixosConfiguration) Role() string {
	if r := c.Labels["role"]; r != "" {
		return r
	}
	return RoleWorker
}

// +kubebuilder:object:root=true

// NixosConfigurationList contains a list of NixosConfiguration.
type NixosConfigurationList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []NixosConfiguration `json:"items"`
}
