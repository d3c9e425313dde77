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

package main

import (
	"flag"
	"net/http"
	"os"

	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"k8s.io/klog/v2"
	"k8s.io/klog/v2/klogr"

	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/cache"
	ctrlconfig "sigs.k8s.io/controller-runtime/pkg/client/config"
	ctrllog "sigs.k8s.io/controller-runtime/pkg/log"
	metricsserver "sigs.k8s.io/controller-runtime/pkg/metrics/server"

	nicov1alpha1 "github.com/homystack/nico-cluster-controller/apis/v1alpha1"
	"github.com/homystack/nico-cluster-controller/controllers"
	"github.com/homystack/nico-cluster-controller/pkg/token"
)

var setupLog = ctrllog.Log.WithName("entrypoint")

func main() {
	klog.InitFlags(nil)
	ctrllog.SetLogger(klogr.New())
	if err := flag.Set("v", "2"); err != nil {
		klog.Fatalf("failed to set log level: %v", err)
	}

	var (
		metricsAddr             string
		healthAddr              string
		enableLeaderElection    bool
		leaderElectionID        string
		maxConcurrentReconciles int
		watchNamespace          string
	)

	flag.StringVar(&metricsAddr, "metrics-addr", ":8080", "The address the metric endpoint binds to.")
	flag.StringVar(&healthAddr, "health-addr", ":9440", "The address the health endpoint binds to.")
	flag.BoolVar(&enableLeaderElection, "enable-leader-election", true,
		"Enable leader election for controller manager. Enabling this ensures there is only one active controller manager.")
	flag.StringVar(&leaderElectionID, "leader-election-id", "nico-cluster-controller-leader-election",
		"Name of the resource used as the lock for leader election.")
	flag.IntVar(&maxConcurrentReconciles, "max-concurrent-reconciles", 5,
		"The maximum number of allowed, concurrent reconciles per controller.")
	flag.StringVar(&watchNamespace, "namespace", "",
		"Namespace this controller watches for reconciliation. If unspecified, all namespaces are watched.")
	flag.Parse()

	restConfig, err := ctrlconfig.GetConfig()
	if err != nil {
		setupLog.Error(err, "unable to resolve kubernetes api server configuration")
		os.Exit(1)
	}

	var cacheOpts cache.Options
	if watchNamespace != "" {
		setupLog.Info("watching objects only in namespace for reconciliation", "namespace", watchNamespace)
		cacheOpts.DefaultNamespaces = map[string]cache.Config{watchNamespace: {}}
	}

	mgr, err := ctrl.NewManager(restConfig, ctrl.Options{
		Scheme:                  newScheme(),
		Cache:                   cacheOpts,
		Metrics:                 metricsserver.Options{BindAddress: metricsAddr},
		HealthProbeBindAddress:  healthAddr,
		LeaderElection:          enableLeaderElection,
		LeaderElectionID:        leaderElectionID,
		LeaderElectionNamespace: watchNamespace,
	})
	if err != nil {
		setupLog.Error(err, "unable to create controller manager")
		os.Exit(1)
	}

	tokens := token.Placeholder{}
	opts := controllers.ControllerOptions{MaxConcurrentReconciles: maxConcurrentReconciles}

	if err := controllers.AddKubernetesClusterControllerToManager(mgr, tokens, opts); err != nil {
		setupLog.Error(err, "unable to create kubernetescluster controller")
		os.Exit(1)
	}
	if err := controllers.AddReadinessMonitorControllerToManager(mgr, opts); err != nil {
		setupLog.Error(err, "unable to create readiness monitor controller")
		os.Exit(1)
	}

	if err := mgr.AddHealthzCheck("healthz", healthz); err != nil {
		setupLog.Error(err, "unable to set up health check")
		os.Exit(1)
	}
	if err := mgr.AddReadyzCheck("readyz", healthz); err != nil {
		setupLog.Error(err, "unable to set up ready check")
		os.Exit(1)
	}

	setupLog.Info("starting controller manager")
	if err := mgr.Start(ctrl.SetupSignalHandler()); err != nil {
		setupLog.Error(err, "problem running controller manager")
		os.Exit(1)
	}
}

func newScheme() *runtime.Scheme {
	scheme := runtime.NewScheme()
	utilruntime.Must(clientgoscheme.AddToScheme(scheme))
	utilruntime.Must(nicov1alpha1.AddToScheme(scheme))
	return scheme
}

func healthz(_ *http.Request) error { return nil }
