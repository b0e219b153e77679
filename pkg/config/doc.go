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

// Package config loads the deployment options of the CA bootstrap.
//
// Settings are a YAML file with a core section and a cas mapping:
//
//	core:
//	  namespace: blockchain
//	  chart_repo: owkin
//	  dir_values: ./helm_values
//	  dir_config: ./config
//	cas:
//	  root-ca:
//	    msp: AlphaMSP
//	    org_admincert: hlf--alpha-admincert
//	    org_adminkey: hlf--alpha-adminkey
//	  int-ca: {}
//
// The order of the cas mapping is preserved and is the bootstrap order.
// Options are validated once by Load and are read-only afterwards.
package config
