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

// Package gateway is the thin façade over the cluster API the
// reconciler, probe engine and scaler issue every mutating and
// read-only call through.
package gateway

import (
	"bytes"
	"context"
	"fmt"

	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/remotecommand"
	utilexec "k8s.io/utils/exec"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// Gateway is the minimum set of cluster verbs the reconciler needs.
// It wraps a cached controller-runtime client for everything the
// manager already watches, and a raw clientset + rest config for the
// exec subresource, which the cached client does not expose.
type Gateway struct {
	c          client.Client
	kubeClient kubernetes.Interface
	restConfig *rest.Config
}

// New builds a Gateway from a controller-runtime client (typically the
// manager's cached client) and the rest.Config used to construct it.
func New(c client.Client, restConfig *rest.Config) (*Gateway, error) {
	kubeClient, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("build kubernetes clientset: %w", err)
	}
	return &Gateway{c: c, kubeClient: kubeClient, restConfig: restConfig}, nil
}

// NewWithClient builds a Gateway around an already-constructed
// controller-runtime client, skipping clientset/exec setup. Used by
// other packages' tests against a fake client, where ExecInPod is
// never exercised.
func NewWithClient(c client.Client) *Gateway {
	return &Gateway{c: c}
}

// ListPods returns pods in namespace matching selector that are not
// being deleted. Callers filter further by phase. An empty selector
// matches no pods.
func (g *Gateway) ListPods(ctx context.Context, namespace string, selector map[string]string) ([]corev1.Pod, error) {
	if len(selector) == 0 {
		return []corev1.Pod{}, nil
	}
	var list corev1.PodList
	if err := g.c.List(ctx, &list, client.InNamespace(namespace), client.MatchingLabels(selector)); err != nil {
		return nil, fmt.Errorf("list pods: %w", err)
	}
	pods := make([]corev1.Pod, 0, len(list.Items))
	for _, p := range list.Items {
		if p.DeletionTimestamp != nil {
			continue
		}
		pods = append(pods, p)
	}
	return pods, nil
}

// GetPod fetches a single pod's current state, used by the exec
// prober to re-check phase after a failed exec.
func (g *Gateway) GetPod(ctx context.Context, namespace, name string) (*corev1.Pod, error) {
	var pod corev1.Pod
	if err := g.c.Get(ctx, types.NamespacedName{Namespace: namespace, Name: name}, &pod); err != nil {
		return nil, err
	}
	return &pod, nil
}

// ListJobsByOwnerLabel returns child Jobs in namespace bearing the
// hsj.paia.tech/name=ownerName label.
func (g *Gateway) ListJobsByOwnerLabel(ctx context.Context, namespace, ownerName string) ([]batchv1.Job, error) {
	var list batchv1.JobList
	if err := g.c.List(ctx, &list, client.InNamespace(namespace), client.MatchingLabels{
		LabelHSJName: ownerName,
	}); err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return list.Items, nil
}

// LabelHSJName is the label child Jobs and their pod templates carry,
// equal to the owning HotStandbyJob's name.
const LabelHSJName = "hsj.paia.tech/name"

// ReadJob fetches a single Job, returning an apierrors.IsNotFound error
// unchanged so callers can distinguish it from other failures.
func (g *Gateway) ReadJob(ctx context.Context, namespace, name string) (*batchv1.Job, error) {
	var job batchv1.Job
	if err := g.c.Get(ctx, types.NamespacedName{Namespace: namespace, Name: name}, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// CreateJob creates the given Job.
func (g *Gateway) CreateJob(ctx context.Context, job *batchv1.Job) error {
	if err := g.c.Create(ctx, job); err != nil {
		return fmt.Errorf("create job %s/%s: %w", job.Namespace, job.Name, err)
	}
	return nil
}

// PatchJob applies a merge patch built from mutate against the named
// Job.
func (g *Gateway) PatchJob(ctx context.Context, namespace, name string, mutate func(*batchv1.Job)) (*batchv1.Job, error) {
	job, err := g.ReadJob(ctx, namespace, name)
	if err != nil {
		return nil, err
	}
	patch := client.MergeFrom(job.DeepCopy())
	mutate(job)
	if err := g.c.Patch(ctx, job, patch); err != nil {
		return nil, fmt.Errorf("patch job %s/%s: %w", namespace, name, err)
	}
	return job, nil
}

// DeleteJob deletes the named Job with background propagation.
// A NotFound error is swallowed; every other failure surfaces.
func (g *Gateway) DeleteJob(ctx context.Context, namespace, name string) error {
	job := &batchv1.Job{
		ObjectMeta: metav1.ObjectMeta{Namespace: namespace, Name: name},
	}
	policy := metav1.DeletePropagationBackground
	err := g.c.Delete(ctx, job, &client.DeleteOptions{PropagationPolicy: &policy})
	if client.IgnoreNotFound(err) != nil {
		return fmt.Errorf("delete job %s/%s: %w", namespace, name, err)
	}
	return nil
}

// ExecResult is the outcome of a synchronous exec call.
type ExecResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// ExecInPod runs command inside container of pod and waits for it to
// complete or ctx to be done. The underlying stream is always closed
// before ExecInPod returns, on every exit path.
func (g *Gateway) ExecInPod(ctx context.Context, namespace, pod, container string, command []string) (ExecResult, error) {
	req := g.kubeClient.CoreV1().RESTClient().Post().
		Resource("pods").
		Name(pod).
		Namespace(namespace).
		SubResource("exec")
	req.VersionedParams(&corev1.PodExecOptions{
		Container: container,
		Command:   command,
		Stdin:     false,
		Stdout:    true,
		Stderr:    true,
		TTY:       false,
	}, scheme.ParameterCodec)

	executor, err := remotecommand.NewSPDYExecutor(g.restConfig, "POST", req.URL())
	if err != nil {
		return ExecResult{}, fmt.Errorf("build exec executor: %w", err)
	}

	var stdout, stderr bytes.Buffer
	streamErr := executor.StreamWithContext(ctx, remotecommand.StreamOptions{
		Stdout: &stdout,
		Stderr: &stderr,
		Tty:    false,
	})
	// StreamWithContext tears down the underlying SPDY connection itself
	// on return; nothing further to close here, but every return path
	// below still produces a definite result even when the command
	// itself failed.
	result := ExecResult{Stdout: stdout.String(), Stderr: stderr.String()}
	if streamErr == nil {
		return result, nil
	}
	if exitErr, ok := streamErr.(utilexec.CodeExitError); ok {
		result.ExitCode = exitErr.Code
		return result, nil
	}
	return result, fmt.Errorf("exec %v in %s/%s: %w", command, namespace, pod, streamErr)
}
