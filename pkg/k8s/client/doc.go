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

// Package client builds Kubernetes connections for nephos.
//
// A Connection carries the clientset used for secrets, ingresses and pods, and
// the rest config needed to exec into the CA pod:
//
//	conn, err := client.Connect(kubeconfig)
//	if err != nil {
//	    return err
//	}
//	finder := pod.NewFinder(conn.Clientset, conn.Config)
//
// Default returns a shared connection built from automatic discovery:
// KUBECONFIG, ~/.kube/config, then the in-cluster service account.
package client
