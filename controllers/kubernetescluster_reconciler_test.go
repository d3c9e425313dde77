package controllers

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	ctrl "sigs.k8s.io/controller-runtime"

	nicov1alpha1 "github.com/homystack/nico-cluster-controller/apis/v1alpha1"
)

func newCluster(namespace, name string) *nicov1alpha1.KubernetesCluster {
	c := &nicov1alpha1.KubernetesCluster{}
	c.Namespace = namespace
	c.Name = name
	c.UID = types.UID(name + "-uid")
	c.Finalizers = []string{nicov1alpha1.KubernetesClusterFinalizer}
	c.Spec = nicov1alpha1.KubernetesClusterSpec{
		GitRepo: "git@example.com/repo",
		ControlPlane: nicov1alpha1.RoleSpec{
			MachineSelector: nicov1alpha1.RoleSelector{MatchLabels: map[string]string{"role": "control-plane"}, Count: 1},
		},
		DataPlane: nicov1alpha1.RoleSpec{
			MachineSelector: nicov1alpha1.RoleSelector{MatchLabels: map[string]string{"role": "worker"}, Count: 1},
		},
	}
	return c
}

func newAvailableMachine(namespace, name, role string) *nicov1alpha1.Machine {
	m := &nicov1alpha1.Machine{}
	m.Namespace = namespace
	m.Name = name
	m.Labels = map[string]string{"role": role}
	m.Spec.IPAddress = "10.0.0.1"
	return m
}

var _ = Describe("kubernetesClusterReconciler", func() {
	var namespace string

	BeforeEach(func() {
		namespace = "ns-" + uniqueSuffix()
	})

	// S4: empty control-plane selection fails transiently with no side effects.
	It("fails transiently and creates nothing when no control-plane machines are available", func() {
		cluster := newCluster(namespace, "demo")
		c := newFakeClient(cluster)
		r := newTestReconciler(c)

		result, err := r.Reconcile(context.Background(), ctrl.Request{NamespacedName: types.NamespacedName{Namespace: namespace, Name: "demo"}})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.RequeueAfter).NotTo(BeZero())

		var configs nicov1alpha1.NixosConfigurationList
		Expect(c.List(context.Background(), &configs)).To(Succeed())
		Expect(configs.Items).To(BeEmpty())
	})

	// P5/P6: owner wiring and idempotence across two reconciles of the same state.
	It("creates owned children and is idempotent across repeated reconciles", func() {
		cluster := newCluster(namespace, "demo")
		cp := newAvailableMachine(namespace, "cp-1", "control-plane")
		worker := newAvailableMachine(namespace, "worker-1", "worker")
		c := newFakeClient(cluster, cp, worker)
		r := newTestReconciler(c)

		req := ctrl.Request{NamespacedName: types.NamespacedName{Namespace: namespace, Name: "demo"}}

		_, err := r.Reconcile(context.Background(), req)
		Expect(err).NotTo(HaveOccurred())

		var configs nicov1alpha1.NixosConfigurationList
		Expect(c.List(context.Background(), &configs)).To(Succeed())
		Expect(configs.Items).To(HaveLen(2))

		for _, cfg := range configs.Items {
			Expect(cfg.OwnerReferences).To(HaveLen(1))
			owner := cfg.OwnerReferences[0]
			Expect(owner.Name).To(Equal("demo"))
			Expect(owner.UID).To(Equal(cluster.UID))
			Expect(owner.Controller).NotTo(BeNil())
			Expect(*owner.Controller).To(BeTrue())
			Expect(owner.BlockOwnerDeletion).NotTo(BeNil())
			Expect(*owner.BlockOwnerDeletion).To(BeTrue())
		}

		// Re-fetch the cluster (the persisted selection must now be reused).
		var refreshed nicov1alpha1.KubernetesCluster
		Expect(c.Get(context.Background(), req.NamespacedName, &refreshed)).To(Succeed())
		Expect(refreshed.Status.SelectedControlPlaneMachines).To(Equal([]string{"cp-1"}))

		_, err = r.Reconcile(context.Background(), req)
		Expect(err).NotTo(HaveOccurred())

		var secondPass nicov1alpha1.NixosConfigurationList
		Expect(c.List(context.Background(), &secondPass)).To(Succeed())
		Expect(secondPass.Items).To(HaveLen(2), "reconciling twice must not duplicate children")
	})

	// S6: deletion best-effort removes every applied child plus both secrets,
	// tolerating an already-missing child.
	It("deletes applied children and both secrets on delete, tolerating a missing child", func() {
		cluster := newCluster(namespace, "demo")
		now := metav1.Now()
		cluster.DeletionTimestamp = &now
		cluster.Status.AppliedMachines = map[string]string{"m1": "demo-m1", "m2": "demo-m2"}

		existingChild := &nicov1alpha1.NixosConfiguration{}
		existingChild.Namespace = namespace
		existingChild.Name = "demo-m1"
		// demo-m2 is intentionally absent, simulating an already-deleted child.

		c := newFakeClient(cluster, existingChild)
		r := newTestReconciler(c)

		_, err := r.Reconcile(context.Background(), ctrl.Request{NamespacedName: types.NamespacedName{Namespace: namespace, Name: "demo"}})
		Expect(err).NotTo(HaveOccurred())

		var configs nicov1alpha1.NixosConfigurationList
		Expect(c.List(context.Background(), &configs)).To(Succeed())
		Expect(configs.Items).To(BeEmpty())

		var refreshed nicov1alpha1.KubernetesCluster
		err = c.Get(context.Background(), types.NamespacedName{Namespace: namespace, Name: "demo"}, &refreshed)
		Expect(err).To(HaveOccurred(), "finalizer removal should allow the fake client to garbage collect the object")
	})

	It("adds the finalizer on first reconcile before doing anything else", func() {
		cluster := newCluster(namespace, "demo")
		cluster.Finalizers = nil
		c := newFakeClient(cluster)
		r := newTestReconciler(c)

		_, err := r.Reconcile(context.Background(), ctrl.Request{NamespacedName: types.NamespacedName{Namespace: namespace, Name: "demo"}})
		Expect(err).NotTo(HaveOccurred())

		var refreshed nicov1alpha1.KubernetesCluster
		Expect(c.Get(context.Background(), types.NamespacedName{Namespace: namespace, Name: "demo"}, &refreshed)).To(Succeed())
		Expect(refreshed.Finalizers).To(ContainElement(nicov1alpha1.KubernetesClusterFinalizer))
	})
})
