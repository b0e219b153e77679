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

// Package helm installs and upgrades charts with the helm binary.
//
// Install is idempotent: a release reported by "helm status" is left alone.
// Upgrade re-applies values from live secrets so generated credentials, such
// as the CA admin user and password, survive the upgrade:
//
//	err := helm.NewClient(store).Upgrade(ctx, helm.Request{
//	    Repo:       "stable",
//	    Chart:      "hlf-ca",
//	    Release:    "root-ca",
//	    Namespace:  "blockchain",
//	    ValuesFile: "values/hlf-ca/root-ca.yaml",
//	    Preserve: []helm.Preserve{
//	        {Secret: "root-ca-hlf-ca", Key: "CA_ADMIN", Path: "adminUsername"},
//	    },
//	})
package helm
