package controllers

import (
	"testing"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	clientgorecord "k8s.io/client-go/tools/record"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	nicov1alpha1 "github.com/homystack/nico-cluster-controller/apis/v1alpha1"
	"github.com/homystack/nico-cluster-controller/pkg/apigateway"
	"github.com/homystack/nico-cluster-controller/pkg/childmanager"
	"github.com/homystack/nico-cluster-controller/pkg/record"
	"github.com/homystack/nico-cluster-controller/pkg/token"
)

func TestControllers(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Controllers Suite")
}

func testScheme() *runtime.Scheme {
	scheme := runtime.NewScheme()
	utilruntime.Must(clientgoscheme.AddToScheme(scheme))
	utilruntime.Must(nicov1alpha1.AddToScheme(scheme))
	return scheme
}

func newFakeClient(initObjs ...client.Object) client.Client {
	return fake.NewClientBuilder().
		WithScheme(testScheme()).
		WithObjects(initObjs...).
		WithStatusSubresource(&nicov1alpha1.KubernetesCluster{}, &nicov1alpha1.NixosConfiguration{}).
		Build()
}

// uniqueSuffix gives each test its own namespace so fake-client state never
// leaks across specs run in parallel.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

func newTestReconciler(c client.Client) *kubernetesClusterReconciler {
	gw := apigateway.New(c)
	return &kubernetesClusterReconciler{
		Client:   c,
		Gateway:  gw,
		Children: childmanager.NewManager(gw, token.Placeholder{}),
		Recorder: record.New(clientgorecord.NewFakeRecorder(100)),
	}
}
