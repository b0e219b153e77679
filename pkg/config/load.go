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

package config

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/baileyvw/nephos/pkg/errors"
)

// document mirrors the parts of the settings file used here. CAs stay a raw
// node so the mapping order survives decoding. Other top-level sections are
// ignored.
type document struct {
	Core Core      `yaml:"core"`
	CAs  yaml.Node `yaml:"cas"`
}

// Load reads and validates a settings file.
func Load(path string) (*Options, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, fmt.Sprintf("failed to open settings %s", path), err)
	}
	defer f.Close()

	opts, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("settings %s: %w", path, err)
	}
	return opts, nil
}

// Parse decodes and validates settings from r.
func Parse(r io.Reader) (*Options, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to read settings", err)
	}

	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "failed to decode settings", err)
	}

	cas, err := decodeCAs(&doc.CAs)
	if err != nil {
		return nil, err
	}

	opts := &Options{core: doc.Core, cas: cas}
	if err := opts.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "settings validation failed", err)
	}
	return opts, nil
}

func decodeCAs(node *yaml.Node) ([]CAInstance, error) {
	if node.Kind == 0 {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest,
			"cas must be a mapping of CA name to values", map[string]any{"line": node.Line})
	}

	cas := make([]CAInstance, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]

		var values CAValues
		if val.Tag != "!!null" {
			if err := val.Decode(&values); err != nil {
				return nil, errors.WrapWithContext(errors.ErrCodeInvalidRequest,
					fmt.Sprintf("failed to decode values of CA %q", key.Value), err,
					map[string]any{"line": val.Line})
			}
		}
		cas = append(cas, CAInstance{Name: key.Value, Values: values})
	}
	return cas, nil
}
