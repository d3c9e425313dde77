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
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	apimeta "k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller"
	"sigs.k8s.io/controller-runtime/pkg/manager"

	nicov1alpha1 "github.com/homystack/nico-cluster-controller/apis/v1alpha1"
	"github.com/homystack/nico-cluster-controller/pkg/apigateway"
	"github.com/homystack/nico-cluster-controller/pkg/kubeconfig"
	"github.com/homystack/nico-cluster-controller/pkg/metrics"
)

// readinessTick is the cooperative interval at which the monitor
// re-evaluates every cluster, matching the "fires every 30s" cadence.
const readinessTick = 30 * time.Second

// readinessMonitorReconciler realizes component G as a second
// controller-runtime Reconciler watching KubernetesCluster, always
// requeueing after readinessTick on success.
type readinessMonitorReconciler struct {
	Client  client.Client
	Gateway *apigateway.Gateway
}

func (r *readinessMonitorReconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	log := ctrl.LoggerFrom(ctx).WithValues("cluster", req.NamespacedName)
	ctx = ctrl.LoggerInto(ctx, log)

	cluster := &nicov1alpha1.KubernetesCluster{}
	if err := r.Client.Get(ctx, req.NamespacedName, cluster); err != nil {
		if apierrors.IsNotFound(err) {
			return ctrl.Result{}, nil
		}
		return ctrl.Result{}, errors.Wrap(err, "get kubernetescluster")
	}

	if !cluster.DeletionTimestamp.IsZero() {
		return ctrl.Result{}, nil
	}

	if len(cluster.Status.AppliedMachines) == 0 {
		return ctrl.Result{RequeueAfter: readinessTick}, nil
	}

	cpReady, cpTotal, dpReady, dpTotal := 0, 0, 0, 0
	var readyControlPlaneNames []string

	for machineName, childName := range cluster.Status.AppliedMachines {
		// Without the child's role label, fall back to the persisted selection.
		role := nicov1alpha1.RoleWorker
		for _, name := range cluster.Status.SelectedControlPlaneMachines {
			if name == machineName {
				role = nicov1alpha1.RoleControlPlane
			}
		}
		ready := false

		if child, err := r.Gateway.GetConfig(ctx, cluster.Namespace, childName); err != nil {
			log.Error(err, "failed to fetch child, counting as not-ready", "machine", machineName, "child", childName)
		} else if machine, err := r.Gateway.GetMachine(ctx, cluster.Namespace, machineName); err != nil {
			role = child.Role()
			log.Error(err, "failed to fetch machine, counting as not-ready", "machine", machineName)
		} else {
			role = child.Role()
			ready = child.Status.AppliedCommit != "" && machine.Status.HasConfiguration
		}

		switch role {
		case nicov1alpha1.RoleControlPlane:
			cpTotal++
			if ready {
				cpReady++
				readyControlPlaneNames = append(readyControlPlaneNames, machineName)
			}
		default:
			dpTotal++
			if ready {
				dpReady++
			}
		}
	}

	phase := aggregatePhase(cpReady, cpTotal, dpReady, dpTotal)

	conditions := append([]metav1.Condition{}, cluster.Status.Conditions...)
	readyStatus := metav1.ConditionFalse
	readyReason := phase
	if phase == nicov1alpha1.PhaseReady {
		readyStatus = metav1.ConditionTrue
		readyReason = "AllNodesReady"
	}
	apimeta.SetStatusCondition(&conditions, metav1.Condition{
		Type:    "Ready",
		Status:  readyStatus,
		Reason:  readyReason,
		Message: fmt.Sprintf("control-plane %d/%d, data-plane %d/%d", cpReady, cpTotal, dpReady, dpTotal),
	})

	status := map[string]interface{}{
		"phase":             phase,
		"controlPlaneReady": fmt.Sprintf("%d/%d", cpReady, cpTotal),
		"dataPlaneReady":    fmt.Sprintf("%d/%d", dpReady, dpTotal),
		"conditions":        conditions,
	}

	if phase != nicov1alpha1.PhaseProvisioning && cluster.Status.KubeconfigSecret != "" {
		r.maybeHarvestKubeconfig(ctx, cluster, readyControlPlaneNames)
	}

	if err := r.Gateway.PatchClusterStatus(ctx, cluster, status); err != nil {
		return ctrl.Result{}, errors.Wrap(err, "patch cluster status")
	}
	metrics.ObserveReadiness(cluster.Namespace, cluster.Name, phase, cpReady, cpTotal, dpReady, dpTotal)

	return ctrl.Result{RequeueAfter: readinessTick}, nil
}

// aggregatePhase implements §4.7 step 3's three-way phase decision.
func aggregatePhase(cpReady, cpTotal, dpReady, dpTotal int) string {
	controlPlaneReady := cpReady == cpTotal && cpTotal > 0
	if !controlPlaneReady {
		return nicov1alpha1.PhaseProvisioning
	}
	if dpTotal == 0 || dpReady == dpTotal {
		return nicov1alpha1.PhaseReady
	}
	return nicov1alpha1.PhaseControlPlaneReady
}

// maybeHarvestKubeconfig invokes component H once the control plane is
// fully ready and no kubeconfig secret exists yet; failures are logged,
// never fatal to the tick (§4.7 step 4).
func (r *readinessMonitorReconciler) maybeHarvestKubeconfig(ctx context.Context, cluster *nicov1alpha1.KubernetesCluster, readyControlPlaneNames []string) {
	log := ctrl.LoggerFrom(ctx)

	if len(readyControlPlaneNames) == 0 {
		return
	}

	secretName := cluster.Status.KubeconfigSecret
	if _, err := r.Gateway.GetSecret(ctx, cluster.Namespace, secretName); err == nil {
		return
	} else if !errors.Is(err, apigateway.ErrNotFound) {
		log.Error(err, "failed to check kubeconfig secret existence")
		return
	}

	var readyMachines []*nicov1alpha1.Machine
	for _, name := range readyControlPlaneNames {
		m, err := r.Gateway.GetMachine(ctx, cluster.Namespace, name)
		if err != nil {
			log.Error(err, "failed to fetch ready control-plane machine for harvest", "machine", name)
			continue
		}
		readyMachines = append(readyMachines, m)
	}

	text, err := kubeconfig.Harvest(ctx, r.Gateway, cluster.Namespace, readyMachines, kubeconfig.Options{Logger: log})
	if err != nil || text == "" {
		if err != nil {
			log.Error(err, "kubeconfig harvest failed")
			metrics.ObserveKubeconfigHarvest(cluster.Namespace, cluster.Name, metrics.ResultError)
		}
		return
	}

	if err := r.Gateway.CreateSecret(ctx, cluster.Namespace, secretName, "kubeconfig", []byte(text)); err != nil {
		log.Error(err, "failed to create kubeconfig secret")
		metrics.ObserveKubeconfigHarvest(cluster.Namespace, cluster.Name, metrics.ResultError)
		return
	}
	metrics.ObserveKubeconfigHarvest(cluster.Namespace, cluster.Name, metrics.ResultSuccess)
}

// +kubebuilder:rbac:groups=nico.homystack.com,resources=kubernetesclusters,verbs=get;list;watch
// +kubebuilder:rbac:groups=nico.homystack.com,resources=kubernetesclusters/status,verbs=get;update;patch
// +kubebuilder:rbac:groups=nico.homystack.com,resources=nixosconfigurations,verbs=get;list;watch
// +kubebuilder:rbac:groups=nico.homystack.com,resources=machines,verbs=get;list;watch
// +kubebuilder:rbac:groups=core,resources=secrets,verbs=get;list;watch;create

// AddReadinessMonitorControllerToManager wires component G into mgr.
func AddReadinessMonitorControllerToManager(mgr manager.Manager, opts ControllerOptions) error {
	controlledType := &nicov1alpha1.KubernetesCluster{}

	reconciler := &readinessMonitorReconciler{
		Client:  mgr.GetClient(),
		Gateway: apigateway.New(mgr.GetClient()),
	}

	return ctrl.NewControllerManagedBy(mgr).
		Named("readinessmonitor-controller").
		For(controlledType).
		WithOptions(controller.Options{MaxConcurrentReconciles: opts.MaxConcurrentReconciles}).
		Complete(reconciler)
}
