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

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/go-logr/logr"
	"github.com/oklog/run"
	"go.uber.org/zap/zapcore"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"
	ctrl "sigs.k8s.io/controller-runtime"
	ctrlzap "sigs.k8s.io/controller-runtime/pkg/log/zap"

	"github.com/paia-tech/hotstandby-controller/pkg/controller"
	"github.com/paia-tech/hotstandby-controller/pkg/podstore"
)

func main() {
	var kubeconfig *string
	if home := homedir.HomeDir(); home != "" {
		kubeconfig = flag.String("kubeconfig", filepath.Join(home, ".kube", "config"), "(optional) absolute path to the kubeconfig file")
	} else {
		kubeconfig = flag.String("kubeconfig", "", "absolute path to the kubeconfig file")
	}
	var (
		apiserverURL = flag.String("apiserver", "", "URL to the Kubernetes API server.")
		metricsAddr  = flag.String("metrics-addr", ":8080", "Address to emit metrics on.")
		healthAddr   = flag.String("health-addr", ":8081", "Address to serve liveness and readiness checks on.")
		logLevel     = flag.String("log-level", "info", "Log level: debug, info, warn, or error.")
	)
	flag.Parse()

	logger := setupLogger(*logLevel)
	ctrl.SetLogger(logger)

	kubeconfigPath := *kubeconfig
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		// Running in a pod: an empty kubeconfig path makes clientcmd use
		// the in-cluster service-account config.
		kubeconfigPath = ""
	}
	cfg, err := clientcmd.BuildConfigFromFlags(*apiserverURL, kubeconfigPath)
	if err != nil {
		logger.Error(err, "building kubeconfig failed")
		os.Exit(1)
	}

	opts := controller.Options{
		SyncInterval:    syncIntervalFromEnv(),
		MetricsAddr:     *metricsAddr,
		HealthProbeAddr: *healthAddr,
		Redis:           redisConfigFromEnv(),
	}

	op, err := controller.New(cfg, opts)
	if err != nil {
		logger.Error(err, "instantiating hotstandbyjob controller failed")
		os.Exit(1)
	}

	var g run.Group
	// Termination handler.
	{
		term := make(chan os.Signal, 1)
		cancel := make(chan struct{})
		signal.Notify(term, os.Interrupt, syscall.SIGTERM)

		g.Add(
			func() error {
				select {
				case <-term:
					logger.Info("received termination signal, exiting gracefully")
				case <-cancel:
				}
				return nil
			},
			func(err error) {
				close(cancel)
			},
		)
	}
	// Controller manager loop.
	{
		ctx, cancel := context.WithCancel(context.Background())
		g.Add(func() error {
			return op.Run(ctx)
		}, func(err error) {
			cancel()
		})
	}
	if err := g.Run(); err != nil {
		logger.Error(err, "exit with error")
		os.Exit(1)
	}
}

// syncIntervalFromEnv reads SYNC_INTERVAL, an integer number of
// seconds. An unset or unparsable value falls back to the
// controller's own default.
func syncIntervalFromEnv() time.Duration {
	v := os.Getenv("SYNC_INTERVAL")
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// redisConfigFromEnv reads the pod-state store's connection settings.
// REDIS_HOST unset means store mode is never consulted by any
// HotStandbyJob, regardless of spec.
func redisConfigFromEnv() podstore.Config {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		return podstore.Config{}
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	return podstore.Config{
		Addr:      fmt.Sprintf("%s:%s", host, port),
		Password:  os.Getenv("REDIS_PASSWORD"),
		DB:        db,
		KeyPrefix: os.Getenv("REDIS_KEY_PREFIX"),
	}
}

func setupLogger(lvl string) logr.Logger {
	var level zapcore.Level
	if err := level.Set(lvl); err != nil {
		level = zapcore.InfoLevel
	}
	return ctrlzap.New(ctrlzap.UseDevMode(false), ctrlzap.Level(level))
}
