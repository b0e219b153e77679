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

// Package pod finds the running pod of a helm release and runs commands in it.
//
// Find polls until a pod labelled app=<app>,release=<release> is Running and
// returns an Executor for it:
//
//	exec, err := pod.NewFinder(clientset, restConfig).Find(ctx, "blockchain", "root-ca", "hlf-ca", false)
//	out, err := exec.Execute(ctx, "cat /var/hyperledger/fabric-ca/msp/signcerts/cert.pem")
//	logs, err := exec.Logs(ctx)
//
// Commands run through "sh -c" over an SPDY exec stream.
package pod
