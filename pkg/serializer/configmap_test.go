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
	"strings"
	"testing"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"
)

func TestParseConfigMapURI(t *testing.T) {
	tests := []struct {
		name          string
		uri           string
		wantNamespace string
		wantName      string
		wantErr       bool
	}{
		{
			name:          "valid URI",
			uri:           "cm://blockchain/nephos-report",
			wantNamespace: "blockchain",
			wantName:      "nephos-report",
		},
		{
			name:          "valid URI with spaces",
			uri:           "cm://blockchain / nephos-report ",
			wantNamespace: "blockchain",
			wantName:      "nephos-report",
		},
		{
			name:    "missing scheme",
			uri:     "blockchain/nephos-report",
			wantErr: true,
		},
		{
			name:    "missing name",
			uri:     "cm://blockchain/",
			wantErr: true,
		},
		{
			name:    "missing namespace",
			uri:     "cm:///nephos-report",
			wantErr: true,
		},
		{
			name:    "missing separator",
			uri:     "cm://blockchain",
			wantErr: true,
		},
		{
			name:    "only scheme",
			uri:     "cm://",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			namespace, name, err := parseConfigMapURI(tt.uri)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseConfigMapURI() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if namespace != tt.wantNamespace {
				t.Errorf("parseConfigMapURI() namespace = %v, want %v", namespace, tt.wantNamespace)
			}
			if name != tt.wantName {
				t.Errorf("parseConfigMapURI() name = %v, want %v", name, tt.wantName)
			}
		})
	}
}

func TestConfigMapWriter_Serialize(t *testing.T) {
	clientset := fake.NewClientset()
	writer := NewConfigMapWriter(clientset, "blockchain", "nephos-report", FormatYAML)

	data := releaseTable{{Name: "root-ca", Probed: true}}
	if err := writer.Serialize(context.Background(), data); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	cm, err := clientset.CoreV1().ConfigMaps("blockchain").Get(context.Background(), "nephos-report", metav1.GetOptions{})
	if err != nil {
		t.Fatalf("Get ConfigMap failed: %v", err)
	}
	assertReport(t, cm, "report.yaml", "name: root-ca")
	if cm.Data["format"] != "yaml" {
		t.Errorf("format = %q, want yaml", cm.Data["format"])
	}
	if cm.Labels["app.kubernetes.io/name"] != "nephos" {
		t.Errorf("Unexpected labels: %v", cm.Labels)
	}

	// Applying again updates in place.
	table := NewConfigMapWriter(clientset, "blockchain", "nephos-report", FormatTable)
	if err := table.Serialize(context.Background(), data); err != nil {
		t.Fatalf("second Serialize failed: %v", err)
	}
	cm, err = clientset.CoreV1().ConfigMaps("blockchain").Get(context.Background(), "nephos-report", metav1.GetOptions{})
	if err != nil {
		t.Fatalf("Get ConfigMap failed: %v", err)
	}
	assertReport(t, cm, "report.txt", "RELEASE")
}

func assertReport(t *testing.T, cm *corev1.ConfigMap, key, contains string) {
	t.Helper()
	content, ok := cm.Data[key]
	if !ok {
		t.Fatalf("ConfigMap has no %s key: %v", key, cm.Data)
	}
	if !strings.Contains(content, contains) {
		t.Errorf("%s = %q, want it to contain %q", key, content, contains)
	}
	if cm.Data["timestamp"] == "" {
		t.Error("Expected timestamp")
	}
}

func TestNewConfigMapWriter_UnknownFormat(t *testing.T) {
	writer := NewConfigMapWriter(fake.NewClientset(), "default", "report", Format("unknown"))
	if writer.format != FormatJSON {
		t.Errorf("format = %v, want %v", writer.format, FormatJSON)
	}
	if err := writer.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
}
