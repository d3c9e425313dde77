package record

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pkg/errors"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/client-go/tools/record"

	nicov1alpha1 "github.com/homystack/nico-cluster-controller/apis/v1alpha1"
)

func TestEmitEvent_NilErrorIsNormal(t *testing.T) {
	fake := record.NewFakeRecorder(10)
	r := New(fake)

	cluster := &nicov1alpha1.KubernetesCluster{}
	cluster.Name = "demo"

	r.EmitEvent(cluster, "ConfigurationsCreated", nil, "controlPlane", "1")

	select {
	case event := <-fake.Events:
		assert.Contains(t, event, corev1.EventTypeNormal)
		assert.Contains(t, event, "ConfigurationsCreated")
		assert.Contains(t, event, "controlPlane=1")
	default:
		t.Fatal("expected an event to be recorded")
	}
}

func TestEmitEvent_NonNilErrorIsWarning(t *testing.T) {
	fake := record.NewFakeRecorder(10)
	r := New(fake)

	cluster := &nicov1alpha1.KubernetesCluster{}
	cluster.Name = "demo"

	r.EmitEvent(cluster, "ReconcileFailed", errors.New("boom"))

	event := <-fake.Events
	assert.Contains(t, event, corev1.EventTypeWarning)
	assert.Contains(t, event, "boom")
}

func TestEmitEvent_NilObjectIsNoOp(t *testing.T) {
	fake := record.NewFakeRecorder(10)
	r := New(fake)

	r.EmitEvent(nil, "Ignored", nil)

	select {
	case event := <-fake.Events:
		t.Fatalf("expected no event, got %q", event)
	default:
	}
}
