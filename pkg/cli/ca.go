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

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"

	"github.com/baileyvw/nephos/pkg/ca"
	"github.com/baileyvw/nephos/pkg/config"
	"github.com/baileyvw/nephos/pkg/defaults"
	"github.com/baileyvw/nephos/pkg/errors"
	"github.com/baileyvw/nephos/pkg/header"
	"github.com/baileyvw/nephos/pkg/helm"
	"github.com/baileyvw/nephos/pkg/k8s/client"
	"github.com/baileyvw/nephos/pkg/k8s/pod"
	"github.com/baileyvw/nephos/pkg/k8s/resource"
	"github.com/baileyvw/nephos/pkg/retry"
	"github.com/baileyvw/nephos/pkg/serializer"
	"github.com/baileyvw/nephos/pkg/server"
	"github.com/baileyvw/nephos/pkg/shell"
)

func caCmd() *cli.Command {
	flags := clusterFlags()
	flags = append(flags,
		&cli.BoolFlag{
			Name:  "upgrade",
			Usage: "upgrade existing CA releases, preserving their admin credentials",
		},
		&cli.BoolFlag{
			Name:  "export-secrets",
			Usage: "publish admin credentials as secrets after enrollment",
		},
		&cli.DurationFlag{
			Name:  "enroll-timeout",
			Usage: "give up waiting for a CA server to start listening after this long (0 waits forever)",
		},
		&cli.StringFlag{
			Name:    "status-address",
			Usage:   "serve health, progress and metrics on this address while the run lasts (e.g. :9090)",
			Sources: cli.EnvVars("NEPHOS_STATUS_ADDRESS"),
		},
		&cli.DurationFlag{
			Name:  "status-linger",
			Usage: "keep the status server up this long after the run ends",
		},
		&cli.StringFlag{
			Name:    "metrics-file",
			Usage:   "write run metrics in Prometheus text format to this file",
			Sources: cli.EnvVars("NEPHOS_METRICS_FILE"),
		},
		outputFlag,
		formatFlag,
	)

	return &cli.Command{
		Name:                  "ca",
		EnableShellCompletion: true,
		Usage:                 "Deploy, enroll and check the Fabric CAs of a network",
		Description: `Bootstrap every CA declared in the settings file, in declaration order:
  1. Install the CA database chart and the CA server chart (or upgrade it)
  2. Wait for the CA server to listen and enroll its bootstrap admin
  3. Probe the CA over its ingress, when one is published

Settings may be read from a local file, an http(s) URL or a ConfigMap.

# Examples

Bootstrap from a local settings file:
  nephos ca --settings nephos.yaml

Upgrade and keep a JSON report in a ConfigMap:
  nephos ca --settings cm://blockchain/nephos --upgrade \
    --format json --output cm://blockchain/nephos-report`,
		Flags: flags,
		Commands: []*cli.Command{
			caSecretsCmd(),
		},
		Action: runCASetup,
	}
}

func caSecretsCmd() *cli.Command {
	return &cli.Command{
		Name:                  "secrets",
		EnableShellCompletion: true,
		Usage:                 "Publish local CA admin credentials as Kubernetes secrets",
		Description: `Copy the admin certificate into the admincerts directory of each CA MSP
and publish the certificate and private key as the secrets named by
org_admincert and org_adminkey. CAs without those settings are skipped.

Settings and cluster flags are shared with the parent ca command:
  nephos ca secrets --settings nephos.yaml --ca root-ca`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "ca",
				Usage: "only publish the credentials of this CA instance",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			env, err := newEnvironment(ctx, cmd)
			if err != nil {
				return err
			}

			b, err := ca.New(env.dependencies())
			if err != nil {
				return err
			}

			instances, err := selectInstances(env.opts, cmd.String("ca"))
			if err != nil {
				return err
			}

			verbose := cmd.Bool("verbose")
			for _, inst := range instances {
				if !inst.Values.HasAdminSecrets() {
					slog.Info("skipping CA without admin secrets", "release", inst.Name)
					continue
				}
				if err := b.ExtractSecrets(ctx, inst.Values, env.opts.Namespace(), env.opts.ConfigDir(), verbose); err != nil {
					return fmt.Errorf("ca %s: %w", inst.Name, err)
				}
			}
			return nil
		},
	}
}

// clusterFlags returns the settings and cluster flags of the ca command.
// Subcommands inherit them.
func clusterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "settings",
			Aliases:  []string{"s"},
			Usage:    "settings location: file path, http(s) URL or cm://namespace/name",
			Sources:  cli.EnvVars("NEPHOS_SETTINGS"),
			Required: true,
		},
		&cli.StringFlag{
			Name:    "namespace",
			Aliases: []string{"n"},
			Usage:   "override core.namespace from the settings",
			Sources: cli.EnvVars("NEPHOS_NAMESPACE"),
		},
		&cli.StringFlag{
			Name:    "kubeconfig",
			Aliases: []string{"k"},
			Usage:   "path to kubeconfig file (overrides KUBECONFIG and ~/.kube/config)",
			Sources: cli.EnvVars("KUBECONFIG"),
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "log collaborator commands and their output at info level",
		},
	}
}

func runCASetup(ctx context.Context, cmd *cli.Command) error {
	format, err := parseOutputFormat(cmd)
	if err != nil {
		return err
	}

	env, err := newEnvironment(ctx, cmd)
	if err != nil {
		return err
	}

	if err := env.charts.CheckVersion(ctx); err != nil {
		return err
	}

	tracker := newProgress(len(env.opts.CAs()))
	b, err := ca.New(env.dependencies(), append(bootstrapOptions(cmd), ca.WithObserver(tracker.observe))...)
	if err != nil {
		return err
	}

	var report *ca.Report
	setup := func(ctx context.Context) error {
		var err error
		report, err = b.Setup(ctx, env.opts, cmd.Bool("upgrade"), cmd.Bool("verbose"))
		tracker.finish(err)
		return err
	}

	var runErr error
	if addr := cmd.String("status-address"); addr != "" {
		srv := server.New(
			server.WithAddress(addr),
			server.WithName(name, version),
			server.WithStatus(tracker.Status),
		)
		runErr = runWithStatus(ctx, srv, cmd.Duration("status-linger"), setup)
	} else {
		runErr = setup(ctx)
	}

	if path := cmd.String("metrics-file"); path != "" {
		if err := writeMetrics(path, prometheus.DefaultGatherer); err != nil {
			slog.Warn("failed to write metrics", "path", path, "error", err)
		}
	}

	if report != nil {
		report.SetMetadata(header.MetadataVersion, version)
		out, err := serializer.NewOutput(format, cmd.String("output"), env.conn.Clientset)
		if err != nil {
			if runErr != nil {
				slog.Error("failed to open report output", "error", err)
				return runErr
			}
			return err
		}
		if closer, ok := out.(serializer.Closer); ok {
			defer func() {
				if err := closer.Close(); err != nil {
					slog.Warn("failed to close report output", "error", err)
				}
			}()
		}
		if err := out.Serialize(ctx, report); err != nil {
			if runErr != nil {
				slog.Error("failed to write report", "error", err)
				return runErr
			}
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	return runErr
}

func bootstrapOptions(cmd *cli.Command) []ca.Option {
	opts := []ca.Option{
		ca.WithCredentialExport(cmd.Bool("export-secrets")),
	}
	if timeout := cmd.Duration("enroll-timeout"); timeout > 0 {
		opts = append(opts, ca.WithEnrollPolicy(enrollPolicy(timeout)))
	}
	return opts
}

func enrollPolicy(timeout time.Duration) retry.Policy {
	return retry.Policy{
		Interval: defaults.EnrollPollInterval,
		Timeout:  timeout,
	}
}

// environment is the cluster connection and settings shared by ca commands.
type environment struct {
	conn   *client.Connection
	opts   *config.Options
	store  *resource.Store
	charts *helm.Client
}

func newEnvironment(ctx context.Context, cmd *cli.Command) (*environment, error) {
	conn, err := client.Connect(cmd.String("kubeconfig"))
	if err != nil {
		return nil, err
	}

	opts, err := loadOptions(ctx, serializer.NewSource(serializer.WithClientset(conn.Clientset)),
		cmd.String("settings"), cmd.String("namespace"))
	if err != nil {
		return nil, err
	}

	slog.Debug("settings loaded",
		"settings", cmd.String("settings"),
		"namespace", opts.Namespace(),
		"cas", len(opts.CAs()))

	store := resource.NewStore(conn.Clientset)
	return &environment{
		conn:   conn,
		opts:   opts,
		store:  store,
		charts: helm.NewClient(store),
	}, nil
}

func (e *environment) dependencies() ca.Dependencies {
	return ca.Dependencies{
		Charts:    e.charts,
		Secrets:   e.store,
		Pods:      podFinder(pod.NewFinder(e.conn.Clientset, e.conn.Config)),
		Ingresses: e.store,
		Retrier:   shell.NewRetrier(),
	}
}

// loadOptions reads settings from location and applies the namespace override.
// Local paths are read directly, URLs and ConfigMaps through src.
func loadOptions(ctx context.Context, src *serializer.Source, location, namespace string) (*config.Options, error) {
	opts, err := readOptions(ctx, src, location)
	if err != nil {
		return nil, err
	}

	if namespace == "" || namespace == opts.Namespace() {
		return opts, nil
	}

	opts = opts.Clone(config.WithNamespace(namespace))
	if err := opts.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid namespace override", err)
	}
	return opts, nil
}

func readOptions(ctx context.Context, src *serializer.Source, location string) (*config.Options, error) {
	if !isRemote(location) {
		return config.Load(location)
	}

	rc, err := src.Open(ctx, location)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	opts, err := config.Parse(rc)
	if err != nil {
		return nil, fmt.Errorf("settings %s: %w", location, err)
	}
	return opts, nil
}

func isRemote(location string) bool {
	for _, prefix := range []string{serializer.ConfigMapURIScheme, "http://", "https://"} {
		if strings.HasPrefix(location, prefix) {
			return true
		}
	}
	return false
}

// podFinder adapts a pod.Finder to the ca.PodFinder port.
func podFinder(f *pod.Finder) ca.PodFinder {
	return ca.PodFinderFunc(func(ctx context.Context, namespace, release, app string, verbose bool) (ca.PodExecutor, error) {
		exec, err := f.Find(ctx, namespace, release, app, verbose)
		if err != nil {
			return nil, err
		}
		return exec, nil
	})
}

// selectInstances returns every CA, or only the named one.
func selectInstances(opts *config.Options, name string) ([]config.CAInstance, error) {
	if name == "" {
		return opts.CAs(), nil
	}

	inst, ok := opts.CA(name)
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, fmt.Sprintf("CA %q is not configured", name))
	}
	if !inst.Values.HasAdminSecrets() {
		return nil, errors.New(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("CA %q does not declare msp, org_admincert and org_adminkey", name))
	}
	return []config.CAInstance{inst}, nil
}

func writeMetrics(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, fmt.Sprintf("failed to write metrics to %s", path), err)
	}
	return nil
}
