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

// Package cli implements the nephos command line.
//
// # Commands
//
// ca - Bootstrap the Fabric CAs declared in the settings:
//
//	nephos ca --settings nephos.yaml [--upgrade] [--export-secrets] [--format table|json|yaml] [--output FILE]
//
// Installs the database and CA server charts of every CA in declaration
// order, enrolls each CA once its server is listening and probes the CA over
// its ingress. A per-instance report is written when the run ends, also when
// an instance fails.
//
// ca secrets - Publish local admin credentials:
//
//	nephos ca secrets --settings nephos.yaml [--ca root-ca]
//
// Copies the admin certificate into the admincerts directory of each MSP
// and publishes the certificate and private key as Kubernetes secrets.
//
// # Settings Locations
//
//	nephos.yaml                 Local file
//	https://host/nephos.yaml    Remote document
//	cm://namespace/name         ConfigMap with a single data key
//
// # Environment Variables
//
//	LOG_LEVEL            Logging verbosity (debug, info, warn, error)
//	NEPHOS_SETTINGS      Settings location
//	NEPHOS_NAMESPACE     Override of core.namespace
//	NEPHOS_METRICS_FILE  Prometheus textfile destination
//	KUBECONFIG           Kubeconfig path
//
// # Exit Codes
//
//	0  Success
//	1  General error (invalid arguments, execution failure)
//	2  Context canceled or timeout
package cli
