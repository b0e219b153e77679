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

// Package k8s groups the Kubernetes collaborators of the CA bootstrap.
//
// # Sub-packages
//
// client: kubeconfig discovery and a shared clientset
//
//	conn, err := client.Connect(kubeconfig)
//	if err != nil {
//	    return err
//	}
//
// resource: secrets and ingresses of a namespace
//
//	store := resource.NewStore(conn.Clientset)
//	data, err := store.ReadSecret(ctx, "root-ca-pg-postgresql", "blockchain", false)
//
// pod: locating a running CA pod and executing commands in it
//
//	finder := pod.NewFinder(conn.Clientset, conn.Config)
//	exec, err := finder.Find(ctx, "blockchain", "root-ca", "hlf-ca", false)
//	out, err := exec.Execute(ctx, "cat /var/hyperledger/fabric-ca/msp/signcerts/cert.pem")
//
// # Thread Safety
//
// client.Default initializes once with sync.Once. Stores, finders and
// executors hold no mutable state and may be shared.
package k8s
