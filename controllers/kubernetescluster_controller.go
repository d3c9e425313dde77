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

package controllers

import (
	"fmt"
	"reflect"
	"strings"

	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/controller"
	"sigs.k8s.io/controller-runtime/pkg/manager"

	nicov1alpha1 "github.com/homystack/nico-cluster-controller/apis/v1alpha1"
	"github.com/homystack/nico-cluster-controller/pkg/apigateway"
	"github.com/homystack/nico-cluster-controller/pkg/childmanager"
	"github.com/homystack/nico-cluster-controller/pkg/record"
	"github.com/homystack/nico-cluster-controller/pkg/token"
)

// ControllerOptions bundles the knobs main.go exposes as flags, mirroring
// the teacher's per-controller options struct.
type ControllerOptions struct {
	MaxConcurrentReconciles int
}

// +kubebuilder:rbac:groups=nico.homystack.com,resources=kubernetesclusters,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=nico.homystack.com,resources=kubernetesclusters/status,verbs=get;update;patch
// +kubebuilder:rbac:groups=nico.homystack.com,resources=machines,verbs=get;list;watch
// +kubebuilder:rbac:groups=nico.homystack.com,resources=nixosconfigurations,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=core,resources=secrets,verbs=get;list;watch;create;delete
// +kubebuilder:rbac:groups=core,resources=events,verbs=create;patch

// AddKubernetesClusterControllerToManager wires component F — the
// create/update/resume reconciler — into mgr, owning the
// NixosConfiguration children it creates so their events re-trigger their
// parent cluster.
func AddKubernetesClusterControllerToManager(mgr manager.Manager, tokens token.Provider, opts ControllerOptions) error {
	controlledType := &nicov1alpha1.KubernetesCluster{}
	controlledTypeName := reflect.TypeOf(controlledType).Elem().Name()
	controllerNameShort := fmt.Sprintf("%s-controller", strings.ToLower(controlledTypeName))
	controllerNameLong := fmt.Sprintf("nico-cluster-controller/%s", controllerNameShort)

	gw := apigateway.New(mgr.GetClient())

	reconciler := &kubernetesClusterReconciler{
		Client:   mgr.GetClient(),
		Gateway:  gw,
		Children: childmanager.NewManager(gw, tokens),
		Recorder: record.New(mgr.GetEventRecorderFor(controllerNameLong)),
	}

	return ctrl.NewControllerManagedBy(mgr).
		For(controlledType).
		Owns(&nicov1alpha1.NixosConfiguration{}).
		WithOptions(controller.Options{MaxConcurrentReconciles: opts.MaxConcurrentReconciles}).
		Complete(reconciler)
}
