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

package version

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"

	"github.com/baileyvw/nephos/pkg/errors"
)

// Version is a major.minor.patch release number. Missing components parse
// as zero. Pre-release and build suffixes are kept in Extras and do not take
// part in comparisons.
type Version struct {
	Major int `json:"major" yaml:"major"`
	Minor int `json:"minor" yaml:"minor"`
	Patch int `json:"patch" yaml:"patch"`

	// Extras holds the suffix after '-' or '+', e.g. "+g3fc9f4b".
	Extras string `json:"extras,omitempty" yaml:"extras,omitempty"`
}

// Parse reads versions such as "3", "v3.14", "v3.14.2" or "v3.14.2+g3fc9f4b".
func Parse(s string) (Version, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return Version{}, errors.New(errors.ErrCodeInvalidRequest, "version string is empty")
	}

	core := strings.TrimPrefix(raw, "v")
	var v Version
	if i := strings.IndexAny(core, "-+"); i >= 0 {
		core, v.Extras = core[:i], core[i:]
	}

	parts := strings.Split(core, ".")
	if len(parts) > 3 {
		return Version{}, errors.New(errors.ErrCodeInvalidRequest, fmt.Sprintf("version %q has more than 3 components", raw))
	}

	fields := []*int{&v.Major, &v.Minor, &v.Patch}
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return Version{}, errors.New(errors.ErrCodeInvalidRequest, fmt.Sprintf("version %q: component %q is not a non-negative number", raw, part))
		}
		*fields[i] = n
	}
	return v, nil
}

// MustParse is Parse for hardcoded versions. It panics on error.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("version.MustParse: %v", err))
	}
	return v
}

// String returns "vMAJOR.MINOR.PATCH" without extras.
func (v Version) String() string {
	return fmt.Sprintf("v%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1, 0 or 1 as v is older than, equal to or newer than other.
func (v Version) Compare(other Version) int {
	if c := cmp.Compare(v.Major, other.Major); c != 0 {
		return c
	}
	if c := cmp.Compare(v.Minor, other.Minor); c != 0 {
		return c
	}
	return cmp.Compare(v.Patch, other.Patch)
}

// AtLeast reports whether v is minimum or newer.
func (v Version) AtLeast(minimum Version) bool {
	return v.Compare(minimum) >= 0
}
