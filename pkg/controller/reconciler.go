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

// Package controller wires the HotStandbyJob reconciler into a
// controller-runtime manager and implements its per-tick convergence
// loop.
package controller

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	batchv1 "k8s.io/api/batch/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	ctrllog "sigs.k8s.io/controller-runtime/pkg/log"
	ctrlmetrics "sigs.k8s.io/controller-runtime/pkg/metrics"
	"sigs.k8s.io/controller-runtime/pkg/reconcile"

	"github.com/paia-tech/hotstandby-controller/pkg/apis/apps/v1alpha1"
	"github.com/paia-tech/hotstandby-controller/pkg/gateway"
	"github.com/paia-tech/hotstandby-controller/pkg/probe"
	"github.com/paia-tech/hotstandby-controller/pkg/podstore"
)

var (
	reconcileDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name: "hsj_reconcile_duration_seconds",
		Help: "Time taken to complete one HotStandbyJob reconcile tick.",
	})
	reconcileErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hsj_reconcile_errors_total",
		Help: "Number of HotStandbyJob reconcile ticks that returned an error.",
	})
)

func init() {
	ctrlmetrics.Registry.MustRegister(reconcileDuration, reconcileErrors)
}

// storeMonitor is the narrow read surface the reconciler needs from
// *podstore.Monitor, mirroring pkg/probe's own seam so the reconciler
// never depends on a concrete Redis client in tests.
type storeMonitor interface {
	GetAll(ctx context.Context) (map[string]podstore.Record, error)
}

// HotStandbyJobReconciler drives one HotStandbyJob's pool toward its
// computed desired size on every create, update, resume and periodic
// tick controller-runtime delivers.
type HotStandbyJobReconciler struct {
	client       client.Client
	gw           *gateway.Gateway
	monitor      storeMonitor
	syncInterval time.Duration
	now          func() time.Time
}

// NewHotStandbyJobReconciler builds a reconciler. monitor may be nil;
// HSJs not configured for store mode never consult it.
func NewHotStandbyJobReconciler(c client.Client, gw *gateway.Gateway, monitor storeMonitor, syncInterval time.Duration) *HotStandbyJobReconciler {
	return &HotStandbyJobReconciler{
		client:       c,
		gw:           gw,
		monitor:      monitor,
		syncInterval: syncInterval,
		now:          time.Now,
	}
}

// SetupWithManager registers the reconciler against mgr, watching
// HotStandbyJob directly and its owned child Jobs so a Job's own
// status transition re-triggers a tick without waiting for the timer.
func (r *HotStandbyJobReconciler) SetupWithManager(mgr ctrl.Manager) error {
	return ctrl.NewControllerManagedBy(mgr).
		Named("hotstandbyjob").
		For(&v1alpha1.HotStandbyJob{}).
		Owns(&batchv1.Job{}).
		Complete(r)
}

// Reconcile implements reconcile_once: observe busyness, compute the
// desired pool size, converge child Jobs, and write a status patch.
// Per spec.md §9 point 4, a failure at any step is returned as a
// non-nil error rather than swallowed, so the event framework's
// backoff takes over; status.lastSyncTime only advances on success.
// probe.ErrStoreUnavailable is the one exception: probe.Count still
// returns a pessimistic busy/idle split alongside it, and the tick
// proceeds with that split instead of bailing out, so a store outage
// never stalls status or blocks the pool from holding its ground.
func (r *HotStandbyJobReconciler) Reconcile(ctx context.Context, req reconcile.Request) (result reconcile.Result, err error) {
	start := r.now()
	defer func() {
		reconcileDuration.Observe(r.now().Sub(start).Seconds())
		if err != nil {
			reconcileErrors.Inc()
		}
	}()

	logger := ctrllog.FromContext(ctx).WithValues("hotstandbyjob", req.NamespacedName)

	var hsj v1alpha1.HotStandbyJob
	if err := r.client.Get(ctx, req.NamespacedName, &hsj); err != nil {
		return reconcile.Result{}, client.IgnoreNotFound(err)
	}

	spec := hsj.Spec.WithDefaults()
	min, max := spec.EffectiveMinMax()

	busy, idle, runningTotal, err := probe.Count(ctx, r.gw, hsj.Namespace, spec.Selector.MatchLabels, spec.BusyProbe, r.monitor)
	if err != nil {
		if !errors.Is(err, probe.ErrStoreUnavailable) {
			logger.Error(err, "counting pod busyness")
			return reconcile.Result{}, err
		}
		logger.Error(err, "pod-state store unavailable, treating all running pods as busy")
	}

	desired := desiredActive(busy, spec.IdleTarget, min, max)

	jobs, err := r.gw.ListJobsByOwnerLabel(ctx, hsj.Namespace, hsj.Name)
	if err != nil {
		return reconcile.Result{}, err
	}
	active := filterJobs(jobs, jobActive)

	scaleDownDelay := time.Duration(*spec.ScaleDownDelaySeconds) * time.Second
	scaled, err := scalePool(ctx, r.gw, &hsj, active, desired, scaleDownDelay)
	if err != nil {
		logger.Error(err, "scaling child job pool")
		return reconcile.Result{}, err
	}
	if scaled.created > 0 || scaled.deleted > 0 {
		logger.Info("scaled child job pool", "created", scaled.created, "deleted", scaled.deleted, "desired", desired)
	}

	jobs, err = r.gw.ListJobsByOwnerLabel(ctx, hsj.Namespace, hsj.Name)
	if err != nil {
		return reconcile.Result{}, err
	}

	status := buildStatus(busy, idle, runningTotal, desired, jobs, hsj.Generation, metav1.NewTime(r.now()))
	if err := patchStatus(ctx, r.client, &hsj, status); err != nil {
		logger.Error(err, "writing status")
		return reconcile.Result{}, err
	}

	return reconcile.Result{RequeueAfter: r.syncInterval}, nil
}

func filterJobs(jobs []batchv1.Job, phase jobPhase) []batchv1.Job {
	var out []batchv1.Job
	for i := range jobs {
		if classifyJob(&jobs[i]) == phase {
			out = append(out, jobs[i])
		}
	}
	return out
}
