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

package ca

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	apierrors "k8s.io/apimachinery/pkg/api/errors"

	"github.com/baileyvw/nephos/pkg/config"
	"github.com/baileyvw/nephos/pkg/defaults"
	"github.com/baileyvw/nephos/pkg/errors"
	"github.com/baileyvw/nephos/pkg/fsutil"
	"github.com/baileyvw/nephos/pkg/header"
	"github.com/baileyvw/nephos/pkg/helm"
	"github.com/baileyvw/nephos/pkg/k8s/pod"
	"github.com/baileyvw/nephos/pkg/retry"
)

const (
	// Chart is the CA server chart, resolved against the configured repo.
	Chart = "hlf-ca"

	// AppLabel is the app label carried by CA server pods.
	AppLabel = "hlf-ca"

	// DatabaseRepo and DatabaseChart locate the CA database chart.
	DatabaseRepo  = "stable"
	DatabaseChart = "postgresql"

	// CertCommand prints the CA signing certificate; empty output means the
	// CA has not been enrolled yet.
	CertCommand = "cat /var/hyperledger/fabric-ca/msp/signcerts/cert.pem"

	// EnrollCommand enrolls the CA admin with credentials from the pod environment.
	EnrollCommand = `bash -c 'fabric-ca-client enroll -d -u http://$CA_ADMIN:$CA_PASSWORD@$SERVICE_DNS:7054'`

	// ListeningMarker appears in the CA server log once it accepts requests.
	ListeningMarker = "Listening on"

	databaseSecretKey    = "postgresql-password"
	databasePasswordPath = "externalDatabase.password"

	adminCertKey = "cert.pem"
	adminKeyKey  = "key.pem"
)

// Dependencies are the cluster collaborators of a Bootstrapper.
type Dependencies struct {
	Charts    ChartManager
	Secrets   SecretStore
	Pods      PodFinder
	Ingresses IngressReader
	Retrier   CommandRetrier
}

// Bootstrapper deploys, enrolls and checks Fabric CAs.
type Bootstrapper struct {
	deps              Dependencies
	enrollPolicy      retry.Policy
	exportCredentials bool
	observer          func(InstanceReport)
}

// Option configures a Bootstrapper.
type Option func(*Bootstrapper)

// WithEnrollPolicy overrides how long and how often enrollment waits for the
// CA server to start listening.
func WithEnrollPolicy(p retry.Policy) Option {
	return func(b *Bootstrapper) {
		b.enrollPolicy = p
	}
}

// WithCredentialExport publishes admin credentials as secrets during Setup
// for every CA that names its admin secrets.
func WithCredentialExport(enabled bool) Option {
	return func(b *Bootstrapper) {
		b.exportCredentials = enabled
	}
}

// WithObserver registers fn to receive the report of every instance as soon
// as it completes or fails. fn runs on the Setup goroutine.
func WithObserver(fn func(InstanceReport)) Option {
	return func(b *Bootstrapper) {
		b.observer = fn
	}
}

// New returns a Bootstrapper. All dependencies are required.
func New(deps Dependencies, opts ...Option) (*Bootstrapper, error) {
	var missing []string
	if deps.Charts == nil {
		missing = append(missing, "charts")
	}
	if deps.Secrets == nil {
		missing = append(missing, "secrets")
	}
	if deps.Pods == nil {
		missing = append(missing, "pods")
	}
	if deps.Ingresses == nil {
		missing = append(missing, "ingresses")
	}
	if deps.Retrier == nil {
		missing = append(missing, "retrier")
	}
	if len(missing) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "missing dependencies: "+strings.Join(missing, ", "))
	}

	b := &Bootstrapper{
		deps: deps,
		enrollPolicy: retry.Policy{
			Interval: defaults.EnrollPollInterval,
		},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// DeployChart installs the CA database and then installs, or upgrades, the
// CA server chart of release. The database password generated by the
// database chart is passed to the CA chart.
func (b *Bootstrapper) DeployChart(ctx context.Context, opts *config.Options, release string, upgrade, verbose bool) error {
	ns := opts.Namespace()
	start := time.Now()
	defer func() {
		stepDuration.WithLabelValues("deploy").Observe(time.Since(start).Seconds())
	}()

	err := b.deps.Charts.Install(ctx, helm.Request{
		Repo:       DatabaseRepo,
		Chart:      DatabaseChart,
		Release:    release + "-pg",
		Namespace:  ns,
		ValuesFile: filepath.Join(opts.ValuesDir(), "postgres-ca", release+"-pg.yaml"),
		Verbose:    verbose,
	})
	if err != nil {
		return err
	}

	secret, err := b.deps.Secrets.ReadSecret(ctx, release+"-pg-postgresql", ns, verbose)
	if err != nil {
		return err
	}
	password, ok := secret[databaseSecretKey]
	if !ok {
		return errors.NewWithContext(errors.ErrCodeNotFound, "database password missing from secret", map[string]any{
			"secret":    release + "-pg-postgresql",
			"key":       databaseSecretKey,
			"namespace": ns,
		})
	}

	req := helm.Request{
		Repo:       opts.ChartRepo(),
		Chart:      Chart,
		Release:    release,
		Namespace:  ns,
		ValuesFile: filepath.Join(opts.ValuesDir(), "hlf-ca", release+".yaml"),
		Values:     []helm.Value{{Path: databasePasswordPath, Value: password}},
		Verbose:    verbose,
	}
	if !upgrade {
		return b.deps.Charts.Install(ctx, req)
	}
	req.Preserve = PreservedOverrides(release)
	return b.deps.Charts.Upgrade(ctx, req)
}

// PreservedOverrides returns the values carried over from the live CA
// secret when the chart of release is upgraded.
func PreservedOverrides(release string) []helm.Preserve {
	secret := release + "-hlf-ca"
	return []helm.Preserve{
		{Secret: secret, Key: "CA_ADMIN", Path: "adminUsername"},
		{Secret: secret, Key: "CA_PASSWORD", Path: "adminPassword"},
	}
}

// Enrollment describes how an Enroll call concluded.
type Enrollment struct {
	// AlreadyEnrolled is set when the signing certificate existed and
	// nothing was done.
	AlreadyEnrolled bool `json:"alreadyEnrolled" yaml:"alreadyEnrolled"`

	// Waits counts the waits for the CA server to start listening.
	Waits int `json:"waits" yaml:"waits"`
}

// Enroll enrolls the CA admin once the CA server is listening. A CA whose
// signing certificate already exists is left untouched.
func (b *Bootstrapper) Enroll(ctx context.Context, exec PodExecutor) (Enrollment, error) {
	start := time.Now()
	defer func() {
		stepDuration.WithLabelValues("enroll").Observe(time.Since(start).Seconds())
	}()

	cert, err := exec.Execute(ctx, CertCommand)
	if err != nil && !pod.IsExitError(err) {
		return Enrollment{}, err
	}
	if strings.TrimSpace(cert) != "" {
		slog.Debug("CA already enrolled")
		return Enrollment{AlreadyEnrolled: true}, nil
	}

	var result Enrollment
	err = b.enrollPolicy.Do(ctx, func(ctx context.Context, attempt int) (bool, error) {
		if attempt > 1 {
			// Do only calls back after a completed wait.
			result.Waits++
			enrollmentWaits.Inc()
		}
		logs, err := exec.Logs(ctx)
		if err != nil {
			return false, err
		}
		if strings.Contains(logs, ListeningMarker) {
			return true, nil
		}
		slog.Info("waiting for CA server to listen", "attempt", attempt, "interval", b.enrollPolicy.Interval.String())
		return false, nil
	})
	if err != nil {
		return result, err
	}

	if _, err := exec.Execute(ctx, EnrollCommand); err != nil {
		return result, err
	}
	slog.Info("CA enrolled", "waits", result.Waits)
	return result, nil
}

// CheckCA blocks until https://{host}/cainfo answers.
func (b *Bootstrapper) CheckCA(ctx context.Context, host string, verbose bool) error {
	start := time.Now()
	defer func() {
		stepDuration.WithLabelValues("probe").Observe(time.Since(start).Seconds())
	}()

	return b.deps.Retrier.RetryUntilSuccess(ctx, fmt.Sprintf("curl https://%s/cainfo", host), verbose)
}

// ExtractSecrets reuses the CA signing certificate as admin certificate and
// publishes it, with the single keystore key, as the admin secrets named in
// values. Rerunning it is safe.
func (b *Bootstrapper) ExtractSecrets(ctx context.Context, values config.CAValues, namespace, baseDir string, verbose bool) error {
	if !values.HasAdminSecrets() {
		return errors.NewWithContext(errors.ErrCodeInvalidRequest, "msp, org_admincert and org_adminkey are required", map[string]any{
			"msp": values.MSP,
		})
	}

	start := time.Now()
	defer func() {
		stepDuration.WithLabelValues("export").Observe(time.Since(start).Seconds())
	}()

	mspDir := filepath.Join(baseDir, values.MSP)
	adminDir := filepath.Join(mspDir, "admincerts")
	if err := fsutil.EnsureDir(adminDir); err != nil {
		return err
	}

	adminCert := filepath.Join(adminDir, "cert.pem")
	if err := fsutil.CopyFile(filepath.Join(mspDir, "signcerts", "cert.pem"), adminCert); err != nil {
		return err
	}

	adminKey, err := fsutil.FindOne(filepath.Join(mspDir, "keystore", "*_sk"))
	if err != nil {
		return err
	}

	if err := b.deps.Secrets.WriteSecretFromFile(ctx, values.OrgAdminCert, namespace, adminCertKey, adminCert, verbose); err != nil {
		return err
	}
	return b.deps.Secrets.WriteSecretFromFile(ctx, values.OrgAdminKey, namespace, adminKeyKey, adminKey, verbose)
}

// Setup bootstraps every configured CA in order: deploy, enroll, then probe
// through the ingress when one exists. The first failure stops the run and
// is returned as is, together with the report of what was done.
func (b *Bootstrapper) Setup(ctx context.Context, opts *config.Options, upgrade, verbose bool) (*Report, error) {
	runID := uuid.NewString()
	startedAt := time.Now().UTC()
	report := &Report{
		Header: header.New(header.KindBootstrapReport,
			header.WithTimestamp(startedAt),
			header.WithMetadata(header.MetadataRunID, runID)),
		RunID:     runID,
		Namespace: opts.Namespace(),
		Upgrade:   upgrade,
		StartedAt: startedAt,
	}
	logger := slog.With("run_id", report.RunID)
	logger.Info("bootstrapping CAs", "namespace", report.Namespace, "count", len(opts.CAs()), "upgrade", upgrade)

	defer func() {
		report.Duration = time.Since(report.StartedAt).Round(time.Millisecond).String()
		bootstrapDuration.Observe(time.Since(report.StartedAt).Seconds())
	}()

	for _, inst := range opts.CAs() {
		start := time.Now()
		result, err := b.setupInstance(ctx, logger.With("release", inst.Name), opts, inst, upgrade, verbose)
		result.Duration = time.Since(start).Round(time.Millisecond).String()
		if err != nil {
			result.Error = err.Error()
			report.Instances = append(report.Instances, result)
			b.observe(result)
			instanceTotal.WithLabelValues("error").Inc()
			logger.Error("CA bootstrap failed", "release", inst.Name, "error", err)
			return report, err
		}
		report.Instances = append(report.Instances, result)
		b.observe(result)
		instanceTotal.WithLabelValues("success").Inc()
	}

	logger.Info("CAs bootstrapped", "count", len(report.Instances))
	return report, nil
}

func (b *Bootstrapper) observe(result InstanceReport) {
	if b.observer != nil {
		b.observer(result)
	}
}

func (b *Bootstrapper) setupInstance(ctx context.Context, logger *slog.Logger, opts *config.Options, inst config.CAInstance, upgrade, verbose bool) (InstanceReport, error) {
	result := InstanceReport{Release: inst.Name}

	logger.Info("deploying CA chart", "upgrade", upgrade)
	if err := b.DeployChart(ctx, opts, inst.Name, upgrade, verbose); err != nil {
		return result, err
	}
	result.Deployed = true

	findStart := time.Now()
	exec, err := b.deps.Pods.Find(ctx, opts.Namespace(), inst.Name, AppLabel, verbose)
	stepDuration.WithLabelValues("find_pod").Observe(time.Since(findStart).Seconds())
	if err != nil {
		return result, err
	}

	enrollment, err := b.Enroll(ctx, exec)
	result.Enrollment = enrollment
	if err != nil {
		return result, err
	}
	result.Enrolled = true

	if b.exportCredentials && inst.Values.HasAdminSecrets() {
		if err := b.ExtractSecrets(ctx, inst.Values, opts.Namespace(), opts.ConfigDir(), verbose); err != nil {
			return result, err
		}
		result.SecretsExported = true
	}

	hosts, err := b.deps.Ingresses.ReadIngress(ctx, inst.Name+"-hlf-ca", opts.Namespace(), verbose)
	switch {
	case IsIngressPending(err):
		readinessProbes.WithLabelValues("skipped").Inc()
		logger.Info("ingress not available, skipping readiness probe", "reason", err.Error())
		return result, nil
	case err != nil:
		return result, err
	case len(hosts) == 0:
		readinessProbes.WithLabelValues("skipped").Inc()
		logger.Info("ingress has no hosts, skipping readiness probe")
		return result, nil
	}

	result.IngressHost = hosts[0]
	logger.Info("probing CA", "host", result.IngressHost)
	if err := b.CheckCA(ctx, result.IngressHost, verbose); err != nil {
		return result, err
	}
	readinessProbes.WithLabelValues("probed").Inc()
	result.Probed = true
	return result, nil
}

// IsIngressPending reports whether err means the ingress is not provisioned
// or not ready yet, which skips the readiness probe instead of failing.
func IsIngressPending(err error) bool {
	if err == nil {
		return false
	}
	return apierrors.IsNotFound(err) ||
		errors.IsCode(err, errors.ErrCodeNotFound) ||
		errors.IsCode(err, errors.ErrCodeUnavailable)
}
