// Package pipeline implements the release pipeline: dependency build, lint,
// package, and (for tag refs only) registry login and chart push. Steps run
// in a fixed order; the first failure halts the pipeline and the remaining
// steps are recorded as skipped.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/afero"

	"github.com/chartci/chartci/pkg/exitcodes"
	"github.com/chartci/chartci/pkg/helm"
	"github.com/chartci/chartci/pkg/log"
	"github.com/chartci/chartci/pkg/registry"
)

// TagRefPrefix marks refs that are allowed to publish.
const TagRefPrefix = "refs/tags/"

// Publishable reports whether a Git ref is allowed to publish. Only tag refs
// qualify; branch builds run the validation steps but never push.
func Publishable(ref string) bool {
	return strings.HasPrefix(ref, TagRefPrefix)
}

// StepName identifies a pipeline step.
type StepName string

// Pipeline steps in execution order.
const (
	StepDependencyBuild StepName = "dependency-build"
	StepLint            StepName = "lint"
	StepPackage         StepName = "package"
	StepLogin           StepName = "login"
	StepPush            StepName = "push"
)

var stepOrder = []StepName{StepDependencyBuild, StepLint, StepPackage, StepLogin, StepPush}

// StepStatus is the recorded outcome of a single step.
type StepStatus string

const (
	// StatusPassed means the step ran and succeeded.
	StatusPassed StepStatus = "passed"
	// StatusFailed means the step ran and failed, halting the pipeline.
	StatusFailed StepStatus = "failed"
	// StatusSkipped means an earlier failure prevented the step from running.
	StatusSkipped StepStatus = "skipped"
	// StatusGated means the ref is not publishable so the step was withheld.
	StatusGated StepStatus = "gated"
)

// StepResult records the outcome of one pipeline step.
type StepResult struct {
	Name   StepName
	Status StepStatus
	// Detail carries human-readable context, e.g. lint messages.
	Detail string
	Err    error
}

// Result reports the outcome of a pipeline run.
type Result struct {
	Steps []StepResult
	// ArchivePath is the packaged chart archive, empty if packaging never
	// ran or the archive was discarded after a publish failure.
	ArchivePath string
	// Published is true only when the chart was pushed to the registry.
	Published bool
	// Discarded is true when the packaged archive was removed after a
	// publish failure.
	Discarded bool
}

// Step returns the result for a named step, or nil if it was not recorded.
func (r *Result) Step(name StepName) *StepResult {
	for i := range r.Steps {
		if r.Steps[i].Name == name {
			return &r.Steps[i]
		}
	}
	return nil
}

// Options configures a pipeline run.
type Options struct {
	// ChartPath is the chart directory to build.
	ChartPath string
	// Destination is the directory packaged archives are written to.
	Destination string
	// Ref is the Git ref the pipeline runs for; publishing requires a
	// refs/tags/ prefix.
	Ref string
	// Values are passed to the linter.
	Values map[string]interface{}
	// ChartName and ChartVersion name the OCI reference to push.
	ChartName    string
	ChartVersion string
	// Publish configures the registry target. Required only when the ref is
	// publishable.
	Publish *registry.PublishConfig
}

// Runner executes the release pipeline against a Helm client.
type Runner struct {
	client helm.ClientInterface
	fs     afero.Fs
}

// NewRunner creates a Runner. The filesystem is used to discard the packaged
// archive when a publish step fails.
func NewRunner(client helm.ClientInterface, fs afero.Fs) *Runner {
	return &Runner{client: client, fs: fs}
}

// Run executes the pipeline. It always returns a Result describing every
// step; the error is the failure that halted the run, nil on success. A run
// on a non-tag ref that passes dependency build, lint, and package succeeds
// with the login and push steps recorded as gated.
func (r *Runner) Run(ctx context.Context, opts *Options) (*Result, error) {
	res := &Result{}

	if err := cancelled(ctx); err != nil {
		return res.halt(StepDependencyBuild, err)
	}
	log.Info("Building chart dependencies", "chart", opts.ChartPath)
	if err := r.client.BuildDependencies(ctx, opts.ChartPath); err != nil {
		return res.halt(StepDependencyBuild, err)
	}
	res.record(StepDependencyBuild, StatusPassed, "")

	if err := cancelled(ctx); err != nil {
		return res.halt(StepLint, err)
	}
	log.Info("Linting chart", "chart", opts.ChartPath, "strict", true)
	lintRes, err := r.client.LintChart(ctx, &helm.LintOptions{
		ChartPath:     opts.ChartPath,
		Values:        opts.Values,
		Strict:        true,
		WithSubcharts: true,
	})
	if err != nil {
		return res.halt(StepLint, err)
	}
	if !lintRes.Passed {
		detail := strings.Join(lintRes.Messages, "\n")
		return res.halt(StepLint, &exitcodes.ExitCodeError{
			Code: exitcodes.ExitLintFailed,
			Err:  fmt.Errorf("strict lint failed:\n%s", detail),
		})
	}
	res.record(StepLint, StatusPassed, strings.Join(lintRes.Messages, "\n"))

	if err := cancelled(ctx); err != nil {
		return res.halt(StepPackage, err)
	}
	log.Info("Packaging chart", "chart", opts.ChartPath, "destination", opts.Destination)
	archive, err := r.client.PackageChart(ctx, &helm.PackageOptions{
		ChartPath:   opts.ChartPath,
		Destination: opts.Destination,
	})
	if err != nil {
		return res.halt(StepPackage, err)
	}
	res.ArchivePath = archive
	res.record(StepPackage, StatusPassed, archive)

	if !Publishable(opts.Ref) {
		log.Info("Ref is not a tag, publish withheld", "ref", opts.Ref)
		res.record(StepLogin, StatusGated, "")
		res.record(StepPush, StatusGated, "")
		return res, nil
	}

	if err := cancelled(ctx); err != nil {
		r.discardArchive(res)
		return res.halt(StepLogin, err)
	}
	if opts.Publish == nil {
		r.discardArchive(res)
		return res.halt(StepLogin, &exitcodes.ExitCodeError{
			Code: exitcodes.ExitPublishConfigInvalid,
			Err:  fmt.Errorf("ref %s is publishable but no publish config was provided", opts.Ref),
		})
	}
	password, err := opts.Publish.Password()
	if err != nil {
		r.discardArchive(res)
		return res.halt(StepLogin, &exitcodes.ExitCodeError{
			Code: exitcodes.ExitPublishConfigInvalid,
			Err:  fmt.Errorf("publish credentials unavailable: %w", err),
		})
	}

	log.Info("Logging in to registry", "registry", opts.Publish.Registry)
	if err := r.client.Login(ctx, opts.Publish.Registry, opts.Publish.Username, password); err != nil {
		r.discardArchive(res)
		return res.halt(StepLogin, err)
	}
	res.record(StepLogin, StatusPassed, "")

	remote := opts.Publish.Remote(opts.ChartName, opts.ChartVersion)
	log.Info("Pushing chart", "archive", archive, "remote", remote)
	if err := r.client.PushChart(ctx, archive, remote); err != nil {
		r.discardArchive(res)
		return res.halt(StepPush, err)
	}
	res.record(StepPush, StatusPassed, remote)

	res.Published = true
	return res, nil
}

// cancelled maps a cancelled context to a pipeline failure. Cancellation is
// checked between steps only; a step already running completes first.
func cancelled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return &exitcodes.ExitCodeError{
			Code: exitcodes.ExitGeneralRuntimeError,
			Err:  fmt.Errorf("pipeline cancelled: %w", err),
		}
	}
	return nil
}

// discardArchive removes the packaged archive after a publish failure so a
// half-released artifact is never left behind.
func (r *Runner) discardArchive(res *Result) {
	if res.ArchivePath == "" {
		return
	}
	if err := r.fs.Remove(res.ArchivePath); err != nil {
		log.Warn("Failed to remove chart archive", "archive", res.ArchivePath, "error", err)
	}
	res.ArchivePath = ""
	res.Discarded = true
}

// record appends a step outcome.
func (r *Result) record(name StepName, status StepStatus, detail string) {
	r.Steps = append(r.Steps, StepResult{Name: name, Status: status, Detail: detail})
}

// halt records the failing step, marks every later step skipped, and returns
// the failure.
func (r *Result) halt(failed StepName, err error) (*Result, error) {
	r.Steps = append(r.Steps, StepResult{Name: failed, Status: StatusFailed, Err: err})
	past := false
	for _, name := range stepOrder {
		if name == failed {
			past = true
			continue
		}
		if past {
			r.record(name, StatusSkipped, "")
		}
	}
	return r, err
}
