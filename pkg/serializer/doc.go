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

// Package serializer reads input documents and writes reports.
//
// A Writer renders values as JSON or YAML. The table format needs a value
// implementing Tabular and falls back to YAML otherwise:
//
//	w, err := serializer.NewOutput(serializer.FormatTable, "", nil)
//	if err != nil {
//		return err
//	}
//	if err := w.Serialize(ctx, report); err != nil {
//		return err
//	}
//
// An output path of the form cm://namespace/name stores the rendered value
// in a ConfigMap through server-side apply.
//
// A Source opens documents from local files, http(s) URLs or ConfigMaps:
//
//	rc, err := serializer.NewSource(serializer.WithClientset(cs)).Open(ctx, "cm://blockchain/nephos-settings")
package serializer
