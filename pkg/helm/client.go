// Package helm wraps the Helm SDK operations chartci needs: templating,
// linting, dependency rebuilds, packaging, and OCI registry publishing.
// A ClientInterface allows the real SDK-backed client and a mock to be used
// interchangeably.
package helm

import (
	"context"
	"fmt"
	"io"
	"os"

	"helm.sh/helm/v3/pkg/action"
	"helm.sh/helm/v3/pkg/chart/loader"
	"helm.sh/helm/v3/pkg/chartutil"
	"helm.sh/helm/v3/pkg/cli"
	"helm.sh/helm/v3/pkg/downloader"
	"helm.sh/helm/v3/pkg/getter"
	"helm.sh/helm/v3/pkg/lint/support"
	"helm.sh/helm/v3/pkg/registry"

	"github.com/chartci/chartci/pkg/exitcodes"
)

// TemplateOptions configures a chart rendering pass.
type TemplateOptions struct {
	ChartPath   string
	ReleaseName string
	Namespace   string
	Values      map[string]interface{}
	KubeVersion string
}

// LintOptions configures a lint pass.
type LintOptions struct {
	ChartPath string
	Values    map[string]interface{}
	// Strict promotes warning-level messages to failures.
	Strict bool
	// WithSubcharts lints bundled subcharts as well.
	WithSubcharts bool
}

// LintResult reports the outcome of a lint pass.
type LintResult struct {
	Passed bool
	// Messages holds every linter message, failing or not.
	Messages []string
}

// PackageOptions configures a packaging pass.
type PackageOptions struct {
	ChartPath   string
	Destination string
}

// ClientInterface defines the Helm operations used by the commands and the
// release pipeline. Real and mock implementations are interchangeable.
type ClientInterface interface {
	// TemplateChart renders the chart with the provided values and returns
	// the manifest stream.
	TemplateChart(_ context.Context, opts *TemplateOptions) (string, error)

	// LintChart lints the chart, optionally strictly and with subcharts.
	LintChart(_ context.Context, opts *LintOptions) (*LintResult, error)

	// BuildDependencies rebuilds the chart's dependency archive under charts/.
	BuildDependencies(_ context.Context, chartPath string) error

	// PackageChart packages the chart and returns the archive path.
	PackageChart(_ context.Context, opts *PackageOptions) (string, error)

	// Login authenticates against an OCI registry host.
	Login(_ context.Context, host, username, password string) error

	// PushChart pushes a packaged archive to the remote OCI reference.
	PushChart(_ context.Context, archivePath, remote string) error
}

// RealClient implements ClientInterface using the Helm SDK.
type RealClient struct {
	settings       *cli.EnvSettings
	registryClient *registry.Client
}

// NewRealClient creates a RealClient with the provided settings.
func NewRealClient(settings *cli.EnvSettings) *RealClient {
	if settings == nil {
		settings = cli.New()
	}
	return &RealClient{settings: settings}
}

// GetSettings returns the Helm CLI environment settings.
func GetSettings() *cli.EnvSettings {
	return cli.New()
}

func (c *RealClient) registry() (*registry.Client, error) {
	if c.registryClient != nil {
		return c.registryClient, nil
	}
	client, err := registry.NewClient(
		registry.ClientOptWriter(io.Discard),
		registry.ClientOptDebug(c.settings.Debug),
	)
	if err != nil {
		return nil, &exitcodes.ExitCodeError{
			Code: exitcodes.ExitRegistryAuthFailed,
			Err:  fmt.Errorf("failed to create registry client: %w", err),
		}
	}
	c.registryClient = client
	return client, nil
}

func (c *RealClient) actionConfig(namespace string) (*action.Configuration, error) {
	cfg := new(action.Configuration)
	if err := cfg.Init(c.settings.RESTClientGetter(), namespace, "", func(string, ...interface{}) {}); err != nil {
		return nil, &exitcodes.ExitCodeError{
			Code: exitcodes.ExitInternalError,
			Err:  fmt.Errorf("failed to initialize Helm action config: %w", err),
		}
	}
	return cfg, nil
}

// TemplateChart implements ClientInterface. Rendering is client-only: no
// cluster contact, no install.
func (c *RealClient) TemplateChart(_ context.Context, opts *TemplateOptions) (string, error) {
	cfg, err := c.actionConfig(opts.Namespace)
	if err != nil {
		return "", err
	}

	install := action.NewInstall(cfg)
	install.DryRun = true
	install.ReleaseName = opts.ReleaseName
	install.Namespace = opts.Namespace
	install.Replace = true
	install.ClientOnly = true
	install.IncludeCRDs = false
	if opts.KubeVersion != "" {
		install.KubeVersion = &chartutil.KubeVersion{Version: opts.KubeVersion}
	}

	loadedChart, err := loader.Load(opts.ChartPath)
	if err != nil {
		return "", &exitcodes.ExitCodeError{
			Code: exitcodes.ExitChartLoadFailed,
			Err:  fmt.Errorf("failed to load chart from %s: %w", opts.ChartPath, err),
		}
	}

	rel, err := install.Run(loadedChart, opts.Values)
	if err != nil {
		return "", &exitcodes.ExitCodeError{
			Code: exitcodes.ExitTemplateFailed,
			Err:  fmt.Errorf("failed to template chart %s: %w", opts.ChartPath, err),
		}
	}
	return rel.Manifest, nil
}

// LintChart implements ClientInterface. Strict mode promotes warnings to
// failures, matching `helm lint --strict`.
func (c *RealClient) LintChart(_ context.Context, opts *LintOptions) (*LintResult, error) {
	lint := action.NewLint()
	lint.Strict = opts.Strict
	lint.WithSubcharts = opts.WithSubcharts

	vals := opts.Values
	if vals == nil {
		vals = map[string]interface{}{}
	}
	result := lint.Run([]string{opts.ChartPath}, vals)

	out := &LintResult{Passed: len(result.Errors) == 0}
	failSev := support.ErrorSev
	if opts.Strict {
		failSev = support.WarningSev
	}
	for _, msg := range result.Messages {
		out.Messages = append(out.Messages, msg.Error())
		if msg.Severity >= failSev {
			out.Passed = false
		}
	}
	for _, err := range result.Errors {
		out.Messages = append(out.Messages, err.Error())
	}
	return out, nil
}

// BuildDependencies implements ClientInterface.
func (c *RealClient) BuildDependencies(_ context.Context, chartPath string) error {
	regClient, err := c.registry()
	if err != nil {
		return err
	}

	man := &downloader.Manager{
		Out:              os.Stderr,
		ChartPath:        chartPath,
		Getters:          getter.All(c.settings),
		RegistryClient:   regClient,
		RepositoryConfig: c.settings.RepositoryConfig,
		RepositoryCache:  c.settings.RepositoryCache,
		Debug:            c.settings.Debug,
	}
	if err := man.Build(); err != nil {
		return &exitcodes.ExitCodeError{
			Code: exitcodes.ExitDependencyBuildError,
			Err:  fmt.Errorf("failed to build chart dependencies: %w", err),
		}
	}
	return nil
}

// PackageChart implements ClientInterface.
func (c *RealClient) PackageChart(_ context.Context, opts *PackageOptions) (string, error) {
	pkg := action.NewPackage()
	pkg.Destination = opts.Destination

	archivePath, err := pkg.Run(opts.ChartPath, nil)
	if err != nil {
		return "", &exitcodes.ExitCodeError{
			Code: exitcodes.ExitPackageFailed,
			Err:  fmt.Errorf("failed to package chart %s: %w", opts.ChartPath, err),
		}
	}
	return archivePath, nil
}

// Login implements ClientInterface.
func (c *RealClient) Login(_ context.Context, host, username, password string) error {
	client, err := c.registry()
	if err != nil {
		return err
	}
	if err := client.Login(host, registry.LoginOptBasicAuth(username, password)); err != nil {
		return &exitcodes.ExitCodeError{
			Code: exitcodes.ExitRegistryAuthFailed,
			Err:  fmt.Errorf("failed to log in to registry %s: %w", host, err),
		}
	}
	return nil
}

// PushChart implements ClientInterface. The remote is a full OCI reference
// including chart name and version, e.g. registry.example.com/charts/app-stack:1.2.3.
func (c *RealClient) PushChart(_ context.Context, archivePath, remote string) error {
	client, err := c.registry()
	if err != nil {
		return err
	}
	data, err := os.ReadFile(archivePath)
	if err != nil {
		return &exitcodes.ExitCodeError{
			Code: exitcodes.ExitIOError,
			Err:  fmt.Errorf("failed to read chart archive %s: %w", archivePath, err),
		}
	}
	if _, err := client.Push(data, remote); err != nil {
		return &exitcodes.ExitCodeError{
			Code: exitcodes.ExitPushFailed,
			Err:  fmt.Errorf("failed to push chart to %s: %w", remote, err),
		}
	}
	return nil
}
