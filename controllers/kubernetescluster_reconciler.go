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

// Package controllers contains the reconcilers for nico.homystack.com
// types.
package controllers

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	apimeta "k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"
	ctrlutil "sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"

	ctrl "sigs.k8s.io/controller-runtime"

	nicov1alpha1 "github.com/homystack/nico-cluster-controller/apis/v1alpha1"
	"github.com/homystack/nico-cluster-controller/pkg/childmanager"
	"github.com/homystack/nico-cluster-controller/pkg/metrics"
	"github.com/homystack/nico-cluster-controller/pkg/record"
	"github.com/homystack/nico-cluster-controller/pkg/reconcileerr"
	"github.com/homystack/nico-cluster-controller/pkg/selector"
	"github.com/homystack/nico-cluster-controller/pkg/topology"
)

// clusterGateway is the subset of apigateway.Gateway the cluster reconciler
// needs, narrowed for testability against a hand-written fake.
type clusterGateway interface {
	selector.Lister
	childmanager.Gateway
	GetMachine(ctx context.Context, namespace, name string) (*nicov1alpha1.Machine, error)
	DeleteConfig(ctx context.Context, namespace, name string) error
	DeleteSecret(ctx context.Context, namespace, name string) error
	PatchClusterStatus(ctx context.Context, cluster *nicov1alpha1.KubernetesCluster, status map[string]interface{}) error
}

// kubernetesClusterReconciler realizes component F: create/update/resume
// handling for KubernetesCluster, including deletion orchestration.
type kubernetesClusterReconciler struct {
	Client   client.Client
	Gateway  clusterGateway
	Children *childmanager.Manager
	Recorder record.Recorder
}

// Reconcile implements the 8-step algorithm from the Reconciler design:
// deletion delegation, uid assertion, machine selection for both roles,
// join-token provisioning, per-machine child ensure-or-patch, and a single
// status patch recording the provisioning snapshot.
func (r *kubernetesClusterReconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	log := ctrl.LoggerFrom(ctx).WithValues("cluster", req.NamespacedName)
	ctx = ctrl.LoggerInto(ctx, log)

	start := time.Now()

	cluster := &nicov1alpha1.KubernetesCluster{}
	if err := r.Client.Get(ctx, req.NamespacedName, cluster); err != nil {
		if apierrors.IsNotFound(err) {
			return ctrl.Result{}, nil
		}
		return ctrl.Result{}, errors.Wrap(err, "get kubernetescluster")
	}

	if !cluster.DeletionTimestamp.IsZero() {
		return r.reconcileDelete(ctx, cluster)
	}

	if !ctrlutil.ContainsFinalizer(cluster, nicov1alpha1.KubernetesClusterFinalizer) {
		ctrlutil.AddFinalizer(cluster, nicov1alpha1.KubernetesClusterFinalizer)
		if err := r.Client.Update(ctx, cluster); err != nil {
			return ctrl.Result{}, errors.Wrap(err, "add finalizer")
		}
		return ctrl.Result{}, nil
	}

	result, err := r.reconcileNormal(ctx, cluster)

	switch {
	case err == nil:
		metrics.ObserveReconcile(cluster.Namespace, cluster.Name, metrics.ResultSuccess, time.Since(start).Seconds())
		return result, nil
	default:
		if transient, permanent := reconcileerr.Classify(err); transient != nil || permanent != nil {
			if permanent != nil {
				metrics.ObserveReconcile(cluster.Namespace, cluster.Name, metrics.ResultPermanent, time.Since(start).Seconds())
				r.Recorder.EmitEvent(cluster, "ReconcileFailed", permanent)
				if condErr := r.setFailedCondition(ctx, cluster, permanent.Error()); condErr != nil {
					log.Error(condErr, "failed to record Failed condition")
				}
				return ctrl.Result{}, nil
			}
			metrics.ObserveReconcile(cluster.Namespace, cluster.Name, metrics.ResultTemporary, time.Since(start).Seconds())
			log.Error(err, "reconcile failed, will retry")
			return ctrl.Result{RequeueAfter: transient.Delay}, nil
		}
		metrics.ObserveReconcile(cluster.Namespace, cluster.Name, metrics.ResultUnknown, time.Since(start).Seconds())
		log.Error(err, "reconcile failed with unclassified error, will retry")
		return ctrl.Result{RequeueAfter: reconcileerr.DefaultTransientDelay}, nil
	}
}

// reconcileNormal implements steps 2-8 of the algorithm for a
// non-deleting, finalized cluster.
func (r *kubernetesClusterReconciler) reconcileNormal(ctx context.Context, cluster *nicov1alpha1.KubernetesCluster) (ctrl.Result, error) {
	log := ctrl.LoggerFrom(ctx)

	if cluster.UID == "" {
		return ctrl.Result{}, reconcileerr.Permanent("kubernetescluster has no uid")
	}

	controlPlane, err := selector.Select(ctx, r.Gateway, cluster.Namespace, cluster.Name, nicov1alpha1.RoleControlPlane,
		cluster.Spec.ControlPlane, cluster.Status.SelectedControlPlaneMachines)
	if err != nil {
		return ctrl.Result{}, reconcileerr.Transient(errors.Wrap(err, "select control-plane machines").Error())
	}
	if len(controlPlane) == 0 {
		return ctrl.Result{}, reconcileerr.Transient("no control-plane machines available")
	}

	dataPlane, err := selector.Select(ctx, r.Gateway, cluster.Namespace, cluster.Name, nicov1alpha1.RoleWorker,
		cluster.Spec.DataPlane, cluster.Status.SelectedDataPlaneMachines)
	if err != nil {
		return ctrl.Result{}, reconcileerr.Transient(errors.Wrap(err, "select data-plane machines").Error())
	}

	joinTokenSecretName := childmanager.JoinTokenSecretName(cluster.Name)
	if err := r.Children.EnsureJoinTokenSecret(ctx, cluster.Namespace, cluster.Name); err != nil {
		return ctrl.Result{}, reconcileerr.Transient(errors.Wrap(err, "ensure join-token secret").Error())
	}

	machines := make(map[string]*nicov1alpha1.Machine, len(controlPlane)+len(dataPlane))
	for _, name := range append(append([]string{}, controlPlane...), dataPlane...) {
		m, err := r.Gateway.GetMachine(ctx, cluster.Namespace, name)
		if err != nil {
			return ctrl.Result{}, reconcileerr.Transient(errors.Wrapf(err, "get machine %s", name).Error())
		}
		machines[name] = m
	}

	owner := ownerReference(cluster)

	controlPlaneNodes := nodesFor(controlPlane, machines)
	dataPlaneNodes := nodesFor(dataPlane, machines)
	clusterDoc := topology.Render(cluster.Name, controlPlaneNodes, dataPlaneNodes)

	appliedMachines := map[string]string{}
	for _, name := range controlPlane {
		childName, err := r.ensureOne(ctx, owner, cluster, nicov1alpha1.RoleControlPlane, machines[name], joinTokenSecretName, clusterDoc)
		if err != nil {
			return ctrl.Result{}, reconcileerr.Transient(err.Error())
		}
		appliedMachines[name] = childName
	}
	for _, name := range dataPlane {
		childName, err := r.ensureOne(ctx, owner, cluster, nicov1alpha1.RoleWorker, machines[name], joinTokenSecretName, clusterDoc)
		if err != nil {
			return ctrl.Result{}, reconcileerr.Transient(err.Error())
		}
		appliedMachines[name] = childName
	}

	conditions := append([]metav1.Condition{}, cluster.Status.Conditions...)
	apimeta.SetStatusCondition(&conditions, metav1.Condition{
		Type:               "Provisioning",
		Status:             metav1.ConditionTrue,
		Reason:             "ConfigurationsCreated",
		Message:            "NixosConfiguration children created or verified",
		LastTransitionTime: metav1.Now(),
	})
	status := map[string]interface{}{
		"phase":                        nicov1alpha1.PhaseProvisioning,
		"controlPlaneReady":            fmt.Sprintf("0/%d", len(controlPlane)),
		"dataPlaneReady":                fmt.Sprintf("0/%d", len(dataPlane)),
		"appliedMachines":              appliedMachines,
		"selectedControlPlaneMachines": controlPlane,
		"selectedDataPlaneMachines":    dataPlane,
		"kubeconfigSecret":             cluster.Name + "-kubeconfig",
		"conditions":                   conditions,
	}
	if err := r.Gateway.PatchClusterStatus(ctx, cluster, status); err != nil {
		return ctrl.Result{}, reconcileerr.Transient(errors.Wrap(err, "patch cluster status").Error())
	}

	log.Info("reconciled kubernetescluster", "controlPlane", len(controlPlane), "dataPlane", len(dataPlane))
	r.Recorder.EmitEvent(cluster, "ConfigurationsCreated", nil, "controlPlane", fmt.Sprint(len(controlPlane)), "dataPlane", fmt.Sprint(len(dataPlane)))
	return ctrl.Result{}, nil
}

func (r *kubernetesClusterReconciler) ensureOne(
	ctx context.Context,
	owner metav1.OwnerReference,
	cluster *nicov1alpha1.KubernetesCluster,
	role string,
	machine *nicov1alpha1.Machine,
	joinTokenSecretName, clusterDoc string,
) (string, error) {
	_, fullInstallApplied := machine.Annotations[nicov1alpha1.FullInstallationAppliedAnnotation]
	info := childmanager.MachineInfo{
		Name:               machine.Name,
		FullInstallApplied: fullInstallApplied,
	}
	if machine.Spec.SSHKeySecretRef != nil {
		info.SSHKeySecretName = machine.Spec.SSHKeySecretRef.Name
	}
	return r.Children.EnsureChild(ctx, owner, cluster.Namespace, cluster.Name, cluster.Spec, role, info, joinTokenSecretName, clusterDoc)
}

// reconcileDelete implements §4.6.1: best-effort, log-and-continue deletion
// of every applied child, then the join-token and kubeconfig secrets, then
// finalizer removal.
func (r *kubernetesClusterReconciler) reconcileDelete(ctx context.Context, cluster *nicov1alpha1.KubernetesCluster) (ctrl.Result, error) {
	log := ctrl.LoggerFrom(ctx)
	r.Recorder.EmitEvent(cluster, "ClusterDeleting", nil)

	conditions := append([]metav1.Condition{}, cluster.Status.Conditions...)
	apimeta.SetStatusCondition(&conditions, metav1.Condition{
		Type:    "Deleting",
		Status:  metav1.ConditionTrue,
		Reason:  "DeletionInProgress",
		Message: "deleting applied children and secrets",
	})
	if err := r.Gateway.PatchClusterStatus(ctx, cluster, map[string]interface{}{
		"phase":      nicov1alpha1.PhaseDeleting,
		"conditions": conditions,
	}); err != nil {
		log.Error(err, "failed to record Deleting condition, continuing")
	}

	for machineName, childName := range cluster.Status.AppliedMachines {
		if err := r.Gateway.DeleteConfig(ctx, cluster.Namespace, childName); err != nil {
			log.Error(err, "failed to delete child, continuing", "machine", machineName, "child", childName)
			continue
		}
		metrics.ObserveChildDeleted(cluster.Namespace, cluster.Name)
	}

	if err := r.Gateway.DeleteSecret(ctx, cluster.Namespace, childmanager.JoinTokenSecretName(cluster.Name)); err != nil {
		log.Error(err, "failed to delete join-token secret, continuing")
	}
	if err := r.Gateway.DeleteSecret(ctx, cluster.Namespace, cluster.Name+"-kubeconfig"); err != nil {
		log.Error(err, "failed to delete kubeconfig secret, continuing")
	}

	ctrlutil.RemoveFinalizer(cluster, nicov1alpha1.KubernetesClusterFinalizer)
	if err := r.Client.Update(ctx, cluster); err != nil {
		return ctrl.Result{}, errors.Wrap(err, "remove finalizer")
	}
	return ctrl.Result{}, nil
}

// setFailedCondition persists a Failed/True condition without disturbing
// any other status field, used only on the permanent-error path.
func (r *kubernetesClusterReconciler) setFailedCondition(ctx context.Context, cluster *nicov1alpha1.KubernetesCluster, message string) error {
	conditions := append([]metav1.Condition{}, cluster.Status.Conditions...)
	apimeta.SetStatusCondition(&conditions, metav1.Condition{
		Type:    "Failed",
		Status:  metav1.ConditionTrue,
		Reason:  "PermanentError",
		Message: message,
	})
	return r.Gateway.PatchClusterStatus(ctx, cluster, map[string]interface{}{
		"phase":      nicov1alpha1.PhaseFailed,
		"conditions": conditions,
	})
}

// ownerReference builds the controller owner reference child objects carry
// back to cluster, with BlockOwnerDeletion set so the API server won't
// remove cluster while children still reference it.
func ownerReference(cluster *nicov1alpha1.KubernetesCluster) metav1.OwnerReference {
	blockOwnerDeletion := true
	isController := true
	return metav1.OwnerReference{
		APIVersion:         nicov1alpha1.GroupVersion.String(),
		Kind:               "KubernetesCluster",
		Name:               cluster.Name,
		UID:                cluster.UID,
		Controller:         &isController,
		BlockOwnerDeletion: &blockOwnerDeletion,
	}
}

// nodesFor resolves each named machine to a topology.Node via
// Machine.Address(), preserving the input order.
func nodesFor(names []string, machines map[string]*nicov1alpha1.Machine) []topology.Node {
	nodes := make([]topology.Node, 0, len(names))
	for _, name := range names {
		m := machines[name]
		nodes = append(nodes, topology.Node{Name: name, IP: m.Address()})
	}
	return nodes
}
