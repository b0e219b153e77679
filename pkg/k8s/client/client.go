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

package client

import (
	"os"
	"path/filepath"
	"sync"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"

	"github.com/baileyvw/nephos/pkg/errors"
)

// UserAgent identifies nephos requests in API server audit logs.
const UserAgent = "nephos"

// Connection pairs a clientset with the rest config that built it. The rest
// config is needed to open exec streams into pods.
type Connection struct {
	Clientset kubernetes.Interface
	Config    *rest.Config
}

var (
	defaultOnce sync.Once
	defaultConn *Connection
	defaultErr  error
)

// Default returns the process-wide connection built from automatic kubeconfig
// discovery. It is created on first call and reused afterwards.
func Default() (*Connection, error) {
	defaultOnce.Do(func() {
		defaultConn, defaultErr = Connect("")
	})
	return defaultConn, defaultErr
}

// Connect builds a new connection from kubeconfig. An empty path resolves
// KUBECONFIG, then ~/.kube/config, then the in-cluster service account.
func Connect(kubeconfig string) (*Connection, error) {
	config, err := RestConfig(kubeconfig)
	if err != nil {
		return nil, err
	}

	clientset, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to create kubernetes client", err)
	}
	return &Connection{Clientset: clientset, Config: config}, nil
}

// RestConfig resolves the rest config for kubeconfig without creating a client.
func RestConfig(kubeconfig string) (*rest.Config, error) {
	path := ResolveKubeconfig(kubeconfig)

	var (
		config *rest.Config
		err    error
	)
	if path == "" {
		config, err = rest.InClusterConfig()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeUnavailable, "no kubeconfig found and not running in a cluster", err)
		}
	} else {
		config, err = clientcmd.BuildConfigFromFlags("", path)
		if err != nil {
			return nil, errors.WrapWithContext(errors.ErrCodeInvalidRequest, "failed to load kubeconfig", err,
				map[string]any{"path": path})
		}
	}

	config.UserAgent = rest.DefaultKubernetesUserAgent() + " " + UserAgent
	return config, nil
}

// ResolveKubeconfig returns the kubeconfig path to use, or "" when the
// in-cluster config should be used. An explicit path always wins.
func ResolveKubeconfig(kubeconfig string) string {
	if kubeconfig != "" {
		return kubeconfig
	}
	if env := os.Getenv("KUBECONFIG"); env != "" {
		return env
	}
	home := filepath.Join(homedir.HomeDir(), ".kube", "config")
	if _, err := os.Stat(home); err == nil {
		return home
	}
	return ""
}
