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

// Package version parses and compares release versions of external tools.
//
// It is used to reject helm clients older than the minimum supported release
// before any chart is touched:
//
//	v, err := version.Parse("v3.14.2+g3fc9f4b")
//	if err != nil {
//		return err
//	}
//	if !v.AtLeast(version.MustParse("v3.0.0")) {
//		// unsupported
//	}
package version
