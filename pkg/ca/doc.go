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

// Package ca bootstraps Hyperledger Fabric certificate authorities on
// Kubernetes.
//
// A Bootstrapper works through each configured CA in declaration order,
// root CA first by convention:
//
//  1. DeployChart installs the CA database chart, reads the password it
//     generated and installs (or upgrades) the hlf-ca chart with it.
//  2. The CA server pod is located by its app and release labels.
//  3. Enroll waits for the server log to report it is listening and enrolls
//     the CA admin. A CA that already has a signing certificate is skipped.
//  4. When the CA ingress exists, CheckCA polls https://{host}/cainfo until
//     it answers. A missing ingress skips the probe.
//
// ExtractSecrets publishes the admin certificate and key of a local MSP
// directory as secrets under the keys cert.pem and key.pem.
//
// All cluster access goes through the interfaces in ports.go, so the whole
// flow runs against fakes in tests:
//
//	b, err := ca.New(ca.Dependencies{
//	    Charts:    helm.NewClient(store),
//	    Secrets:   store,
//	    Pods:      pods,
//	    Ingresses: store,
//	    Retrier:   shell.NewRetrier(),
//	})
//	report, err := b.Setup(ctx, opts, false, false)
//
// Waits use the retry.Policy given with WithEnrollPolicy; its clock can be
// replaced for deterministic tests.
package ca
