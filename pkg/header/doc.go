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

// Package header provides the kind, apiVersion and metadata fields shared by
// the documents nephos writes.
//
// Documents embed Header inline so the fields appear at the top level:
//
//	type Report struct {
//		header.Header `json:",inline" yaml:",inline"`
//		...
//	}
//
//	r := Report{Header: header.New(header.KindBootstrapReport,
//		header.WithMetadata(header.MetadataRunID, runID))}
//
// Rendered as YAML:
//
//	kind: CABootstrapReport
//	apiVersion: nephos/v1alpha1
//	metadata:
//	  runId: 5b0c...
//	  timestamp: "2025-01-15T10:30:00Z"
package header
