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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"

	"github.com/baileyvw/nephos/pkg/errors"
)

const testNamespace = "a-namespace"

func TestStore_ReadSecret(t *testing.T) {
	clientset := fake.NewClientset(&corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{Name: "a-release-pg-postgresql", Namespace: testNamespace},
		Data:       map[string][]byte{"postgresql-password": []byte("a_password")},
	})
	store := NewStore(clientset)

	data, err := store.ReadSecret(context.Background(), "a-release-pg-postgresql", testNamespace, false)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"postgresql-password": "a_password"}, data)
}

func TestStore_ReadSecret_NotFound(t *testing.T) {
	store := NewStore(fake.NewClientset())

	_, err := store.ReadSecret(context.Background(), "missing", testNamespace, true)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))
	assert.True(t, apierrors.IsNotFound(err))
}

func TestStore_WriteSecretFromFile_CreateThenUpdate(t *testing.T) {
	clientset := fake.NewClientset()
	store := NewStore(clientset)
	ctx := context.Background()

	dir := t.TempDir()
	certFile := filepath.Join(dir, "cert.pem")
	require.NoError(t, os.WriteFile(certFile, []byte("CERT-1"), 0o600))

	require.NoError(t, store.WriteSecretFromFile(ctx, "a-secret-cert", testNamespace, "cert.pem", certFile, false))

	secret, err := clientset.CoreV1().Secrets(testNamespace).Get(ctx, "a-secret-cert", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, []byte("CERT-1"), secret.Data["cert.pem"])
	assert.Equal(t, "nephos", secret.Labels["app.kubernetes.io/managed-by"])

	// second run replaces the key and keeps unrelated keys
	secret.Data["other"] = []byte("keep")
	_, err = clientset.CoreV1().Secrets(testNamespace).Update(ctx, secret, metav1.UpdateOptions{})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(certFile, []byte("CERT-2"), 0o600))

	require.NoError(t, store.WriteSecretFromFile(ctx, "a-secret-cert", testNamespace, "cert.pem", certFile, true))

	secret, err = clientset.CoreV1().Secrets(testNamespace).Get(ctx, "a-secret-cert", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, []byte("CERT-2"), secret.Data["cert.pem"])
	assert.Equal(t, []byte("keep"), secret.Data["other"])
}

func TestStore_WriteSecretFromFile_MissingFile(t *testing.T) {
	store := NewStore(fake.NewClientset())

	err := store.WriteSecretFromFile(context.Background(), "s", testNamespace, "key.pem",
		filepath.Join(t.TempDir(), "absent_sk"), false)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))
}

func TestStore_ReadIngress(t *testing.T) {
	tests := []struct {
		name      string
		objects   []*networkingv1.Ingress
		wantHosts []string
		check     func(t *testing.T, err error)
	}{
		{
			name:      "hosts in rule order",
			objects:   []*networkingv1.Ingress{ingress("root-ca-hlf-ca", "ca.example.com", "", "ca2.example.com")},
			wantHosts: []string{"ca.example.com", "ca2.example.com"},
		},
		{
			name: "not found",
			check: func(t *testing.T, err error) {
				assert.True(t, apierrors.IsNotFound(err))
			},
		},
		{
			name:    "no hosts yet",
			objects: []*networkingv1.Ingress{ingress("root-ca-hlf-ca")},
			check: func(t *testing.T, err error) {
				assert.True(t, errors.IsCode(err, errors.ErrCodeUnavailable))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clientset := fake.NewClientset()
			for _, obj := range tt.objects {
				_, err := clientset.NetworkingV1().Ingresses(testNamespace).Create(context.Background(), obj, metav1.CreateOptions{})
				require.NoError(t, err)
			}

			hosts, err := NewStore(clientset).ReadIngress(context.Background(), "root-ca-hlf-ca", testNamespace, false)
			if tt.check != nil {
				require.Error(t, err)
				tt.check(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHosts, hosts)
		})
	}
}

func ingress(name string, hosts ...string) *networkingv1.Ingress {
	ing := &networkingv1.Ingress{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: testNamespace},
	}
	for _, h := range hosts {
		ing.Spec.Rules = append(ing.Spec.Rules, networkingv1.IngressRule{Host: h})
	}
	return ing
}
