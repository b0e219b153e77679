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

package serializer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	accorev1 "k8s.io/client-go/applyconfigurations/core/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/baileyvw/nephos/pkg/defaults"
	"github.com/baileyvw/nephos/pkg/errors"
	"github.com/baileyvw/nephos/pkg/k8s/client"
)

// FieldManager owns the fields nephos applies with server-side apply.
const FieldManager = "nephos"

// ConfigMapWriter stores a rendered report in a ConfigMap with server-side apply.
type ConfigMapWriter struct {
	clientset kubernetes.Interface
	namespace string
	name      string
	format    Format
}

// NewConfigMapWriter creates a ConfigMapWriter. A nil clientset resolves the
// default connection on first write.
func NewConfigMapWriter(clientset kubernetes.Interface, namespace, name string, format Format) *ConfigMapWriter {
	return &ConfigMapWriter{
		clientset: clientset,
		namespace: namespace,
		name:      name,
		format:    knownOrJSON(format),
	}
}

// Serialize applies a ConfigMap holding:
//   - data.report.{json|yaml|txt}: the serialized value
//   - data.format: the format used
//   - data.timestamp: RFC 3339 time of the write
func (w *ConfigMapWriter) Serialize(ctx context.Context, v any) error {
	writeCtx, cancel := context.WithTimeout(ctx, defaults.K8sAPITimeout)
	defer cancel()

	clientset := w.clientset
	if clientset == nil {
		conn, err := client.Default()
		if err != nil {
			return err
		}
		clientset = conn.Clientset
	}

	content, err := marshal(w.format, v)
	if err != nil {
		return err
	}

	configMap := accorev1.ConfigMap(w.name, w.namespace).
		WithLabels(map[string]string{
			"app.kubernetes.io/name":       "nephos",
			"app.kubernetes.io/component":  "ca-bootstrap-report",
			"app.kubernetes.io/managed-by": "nephos",
		}).
		WithData(map[string]string{
			"report." + w.format.Extension(): string(content),
			"format":                         string(w.format),
			"timestamp":                      time.Now().UTC().Format(time.RFC3339),
		})

	slog.Info("writing report",
		"destination", ConfigMapURIScheme+w.namespace+"/"+w.name,
		"format", w.format)

	_, err = clientset.CoreV1().ConfigMaps(w.namespace).Apply(writeCtx, configMap, metav1.ApplyOptions{
		FieldManager: FieldManager,
		Force:        true,
	})
	if err != nil {
		return errors.WrapWithContext(errors.ErrCodeInternal, "failed to apply ConfigMap", err, map[string]any{
			"namespace": w.namespace,
			"name":      w.name,
		})
	}
	return nil
}

// Close does nothing.
func (w *ConfigMapWriter) Close() error {
	return nil
}

// parseConfigMapURI splits cm://namespace/name into its parts.
func parseConfigMapURI(uri string) (namespace, name string, err error) {
	rest, ok := strings.CutPrefix(uri, ConfigMapURIScheme)
	if !ok {
		return "", "", fmt.Errorf("%q is not a %s URI", uri, ConfigMapURIScheme)
	}

	namespace, name, ok = strings.Cut(rest, "/")
	namespace, name = strings.TrimSpace(namespace), strings.TrimSpace(name)
	if !ok || namespace == "" || name == "" || strings.Contains(name, "/") {
		return "", "", fmt.Errorf("%q: want %snamespace/name", uri, ConfigMapURIScheme)
	}
	return namespace, name, nil
}
