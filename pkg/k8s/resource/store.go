// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package resource

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/baileyvw/nephos/pkg/errors"
)

// Store reads and writes the Kubernetes objects the CA bootstrap depends on.
type Store struct {
	clientset kubernetes.Interface
}

// NewStore creates a Store over the given clientset.
func NewStore(clientset kubernetes.Interface) *Store {
	return &Store{clientset: clientset}
}

// ReadSecret returns the decoded data of a secret.
// A missing secret is reported with ErrCodeNotFound.
func (s *Store) ReadSecret(ctx context.Context, name, namespace string, verbose bool) (map[string]string, error) {
	secret, err := s.clientset.CoreV1().Secrets(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		code := errors.ErrCodeInternal
		if apierrors.IsNotFound(err) {
			code = errors.ErrCodeNotFound
		}
		return nil, errors.WrapWithContext(code, fmt.Sprintf("failed to read secret %s", name), err,
			map[string]any{"namespace": namespace})
	}

	data := make(map[string]string, len(secret.Data)+len(secret.StringData))
	for k, v := range secret.Data {
		data[k] = string(v)
	}
	for k, v := range secret.StringData {
		data[k] = v
	}

	logAt(verbose, "read secret", "name", name, "namespace", namespace, "keys", len(data))
	return data, nil
}

// WriteSecretFromFile stores the content of filename under key in the named
// secret, creating the secret if needed. Other keys of an existing secret are kept.
func (s *Store) WriteSecretFromFile(ctx context.Context, name, namespace, key, filename string, verbose bool) error {
	content, err := os.ReadFile(filename)
	if err != nil {
		return errors.WrapWithContext(errors.ErrCodeNotFound, "failed to read secret source file", err,
			map[string]any{"file": filename})
	}

	secrets := s.clientset.CoreV1().Secrets(namespace)
	existing, err := secrets.Get(ctx, name, metav1.GetOptions{})
	switch {
	case apierrors.IsNotFound(err):
		secret := &corev1.Secret{
			ObjectMeta: metav1.ObjectMeta{
				Name:      name,
				Namespace: namespace,
				Labels: map[string]string{
					"app.kubernetes.io/managed-by": "nephos",
				},
			},
			Type: corev1.SecretTypeOpaque,
			Data: map[string][]byte{key: content},
		}
		if _, err := secrets.Create(ctx, secret, metav1.CreateOptions{}); err != nil {
			return fmt.Errorf("failed to create secret %s: %w", name, err)
		}
		logAt(verbose, "created secret", "name", name, "namespace", namespace, "key", key)
		return nil

	case err != nil:
		return fmt.Errorf("failed to get secret %s: %w", name, err)
	}

	updated := existing.DeepCopy()
	if updated.Data == nil {
		updated.Data = make(map[string][]byte)
	}
	updated.Data[key] = content
	if _, err := secrets.Update(ctx, updated, metav1.UpdateOptions{}); err != nil {
		return fmt.Errorf("failed to update secret %s: %w", name, err)
	}
	logAt(verbose, "updated secret", "name", name, "namespace", namespace, "key", key)
	return nil
}

// ReadIngress returns the hosts routed by an ingress, in rule order.
// A missing ingress returns the API not-found error unchanged; an ingress
// without hosts yet is reported with ErrCodeUnavailable.
func (s *Store) ReadIngress(ctx context.Context, name, namespace string, verbose bool) ([]string, error) {
	ing, err := s.clientset.NetworkingV1().Ingresses(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return nil, err
	}

	hosts := make([]string, 0, len(ing.Spec.Rules))
	for _, rule := range ing.Spec.Rules {
		if rule.Host != "" {
			hosts = append(hosts, rule.Host)
		}
	}
	if len(hosts) == 0 {
		return nil, errors.NewWithContext(errors.ErrCodeUnavailable, fmt.Sprintf("ingress %s has no hosts yet", name),
			map[string]any{"namespace": namespace})
	}

	logAt(verbose, "read ingress", "name", name, "namespace", namespace, "hosts", hosts)
	return hosts, nil
}

func logAt(verbose bool, msg string, args ...any) {
	if verbose {
		slog.Info(msg, args...)
		return
	}
	slog.Debug(msg, args...)
}
