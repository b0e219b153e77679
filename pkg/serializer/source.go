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

package serializer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"strings"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/baileyvw/nephos/pkg/defaults"
	"github.com/baileyvw/nephos/pkg/errors"
	"github.com/baileyvw/nephos/pkg/k8s/client"
)

// HTTPUserAgent is sent when fetching remote sources.
const HTTPUserAgent = "nephos/1.0"

// Source opens documents by location.
type Source struct {
	clientset  kubernetes.Interface
	httpClient *http.Client
	dataKey    string
}

// SourceOption configures a Source.
type SourceOption func(*Source)

// WithClientset sets the clientset used for cm:// locations.
func WithClientset(clientset kubernetes.Interface) SourceOption {
	return func(s *Source) {
		s.clientset = clientset
	}
}

// WithHTTPClient overrides the client used for http(s) locations.
func WithHTTPClient(c *http.Client) SourceOption {
	return func(s *Source) {
		s.httpClient = c
	}
}

// WithDataKey selects the ConfigMap key read for cm:// locations. Without
// it, a ConfigMap with a single key is read and others are rejected.
func WithDataKey(key string) SourceOption {
	return func(s *Source) {
		s.dataKey = key
	}
}

// NewSource creates a Source.
func NewSource(opts ...SourceOption) *Source {
	s := &Source{
		httpClient: &http.Client{Timeout: defaults.HTTPClientTimeout},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open returns the content at location: a local path, an http(s) URL or a
// cm://namespace/name ConfigMap. The caller closes the result.
func (s *Source) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	switch {
	case strings.HasPrefix(location, ConfigMapURIScheme):
		return s.openConfigMap(ctx, location)
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return s.openHTTP(ctx, location)
	default:
		f, err := os.Open(location)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.Wrap(errors.ErrCodeNotFound, fmt.Sprintf("file %s not found", location), err)
			}
			return nil, fmt.Errorf("failed to open %s: %w", location, err)
		}
		return f, nil
	}
}

func (s *Source) openHTTP(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid URL", err)
	}
	req.Header.Set("User-Agent", HTTPUserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnavailable, fmt.Sprintf("failed to fetch %s", url), err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		return nil, errors.New(errors.ErrCodeNotFound, fmt.Sprintf("%s not found", url))
	case resp.StatusCode != http.StatusOK:
		resp.Body.Close()
		return nil, errors.NewWithContext(errors.ErrCodeUnavailable, fmt.Sprintf("failed to fetch %s", url), map[string]any{
			"status": resp.StatusCode,
		})
	}

	slog.Debug("fetched remote document", "url", url, "content_length", resp.ContentLength)
	return resp.Body, nil
}

func (s *Source) openConfigMap(ctx context.Context, uri string) (io.ReadCloser, error) {
	namespace, name, err := parseConfigMapURI(uri)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid ConfigMap URI", err)
	}

	clientset := s.clientset
	if clientset == nil {
		conn, err := client.Default()
		if err != nil {
			return nil, err
		}
		clientset = conn.Clientset
	}

	readCtx, cancel := context.WithTimeout(ctx, defaults.K8sAPITimeout)
	defer cancel()

	cm, err := clientset.CoreV1().ConfigMaps(namespace).Get(readCtx, name, metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, fmt.Sprintf("ConfigMap %s/%s not found", namespace, name), err)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, fmt.Sprintf("failed to get ConfigMap %s/%s", namespace, name), err)
	}

	content, err := s.pickKey(cm.Data)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeInvalidRequest, "unusable ConfigMap", err, map[string]any{
			"namespace": namespace,
			"name":      name,
		})
	}

	slog.Debug("reading from ConfigMap",
		"namespace", namespace,
		"name", name,
		"size", len(content))
	return io.NopCloser(bytes.NewReader([]byte(content))), nil
}

func (s *Source) pickKey(data map[string]string) (string, error) {
	if s.dataKey != "" {
		content, ok := data[s.dataKey]
		if !ok {
			return "", fmt.Errorf("key %q not found", s.dataKey)
		}
		return content, nil
	}

	if len(data) != 1 {
		keys := make([]string, 0, len(data))
		for k := range data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return "", fmt.Errorf("expected exactly one key, found %d %v", len(keys), keys)
	}
	for _, content := range data {
		return content, nil
	}
	return "", nil
}
