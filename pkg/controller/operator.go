// Copyright 2021 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package controller

import (
	"context"
	"fmt"
	"time"

	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/rest"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/manager"
	metricsserver "sigs.k8s.io/controller-runtime/pkg/metrics/server"

	"github.com/paia-tech/hotstandby-controller/pkg/apis/apps/v1alpha1"
	"github.com/paia-tech/hotstandby-controller/pkg/gateway"
	"github.com/paia-tech/hotstandby-controller/pkg/podstore"
)

// DefaultSyncInterval is how often a HotStandbyJob is re-reconciled in
// the absence of any triggering watch event.
const DefaultSyncInterval = 10 * time.Second

// Options configures the controller's manager.
type Options struct {
	// SyncInterval is the periodic tick period for every HotStandbyJob.
	SyncInterval time.Duration
	// MetricsAddr is the bind address for the manager's metrics server.
	// An empty string disables it.
	MetricsAddr string
	// HealthProbeAddr is the bind address for the manager's liveness
	// and readiness endpoints.
	HealthProbeAddr string
	// Redis, if Addr is non-empty, enables store-mode busy probing
	// backed by a shared pod-status hash.
	Redis podstore.Config
}

func (o *Options) defaultAndValidate() {
	if o.SyncInterval <= 0 {
		o.SyncInterval = DefaultSyncInterval
	}
}

// Operator owns the controller-runtime manager and the reconciler
// registered against it.
type Operator struct {
	opts    Options
	manager manager.Manager
}

// New builds an Operator from a Kubernetes client config. It registers
// the HotStandbyJob scheme and reconciler against a fresh manager but
// does not start it; call Run for that.
func New(clientConfig *rest.Config, opts Options) (*Operator, error) {
	opts.defaultAndValidate()

	sc := runtime.NewScheme()
	if err := clientgoscheme.AddToScheme(sc); err != nil {
		return nil, fmt.Errorf("add core scheme: %w", err)
	}
	if err := v1alpha1.AddToScheme(sc); err != nil {
		return nil, fmt.Errorf("add hotstandbyjob scheme: %w", err)
	}
	if err := batchv1.AddToScheme(sc); err != nil {
		return nil, fmt.Errorf("add batch scheme: %w", err)
	}
	if err := corev1.AddToScheme(sc); err != nil {
		return nil, fmt.Errorf("add core/v1 scheme: %w", err)
	}

	metricsAddr := opts.MetricsAddr
	if metricsAddr == "" {
		metricsAddr = "0"
	}
	mgr, err := ctrl.NewManager(clientConfig, manager.Options{
		Scheme:                 sc,
		Metrics:                metricsserver.Options{BindAddress: metricsAddr},
		HealthProbeBindAddress: opts.HealthProbeAddr,
	})
	if err != nil {
		return nil, fmt.Errorf("create controller manager: %w", err)
	}

	gw, err := gateway.New(mgr.GetClient(), clientConfig)
	if err != nil {
		return nil, fmt.Errorf("build cluster gateway: %w", err)
	}

	var monitor storeMonitor
	if opts.Redis.Addr != "" {
		redisClient := podstore.NewClient(opts.Redis)
		monitor = podstore.NewMonitor(redisClient, opts.Redis)
	}

	reconciler := NewHotStandbyJobReconciler(mgr.GetClient(), gw, monitor, opts.SyncInterval)
	if err := reconciler.SetupWithManager(mgr); err != nil {
		return nil, fmt.Errorf("register hotstandbyjob reconciler: %w", err)
	}

	return &Operator{opts: opts, manager: mgr}, nil
}

// Run starts the manager and blocks until ctx is canceled or the
// manager exits on its own, whichever happens first.
func (o *Operator) Run(ctx context.Context) error {
	if err := o.manager.Start(ctx); err != nil {
		return fmt.Errorf("controller manager stopped: %w", err)
	}
	return nil
}
