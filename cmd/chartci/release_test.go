package main

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chartci/chartci/pkg/exitcodes"
	"github.com/chartci/chartci/pkg/helm"
)

func TestReleaseCmdBranchRefGatesPublish(t *testing.T) {
	chartDir := writeTestChart(t)
	restoreFs := SetFs(afero.NewMemMapFs())
	defer restoreFs()

	mock := helm.NewMockClient()
	restore := setHelmClient(mock)
	defer restore()

	output, err := executeCommand(newReleaseCmd(),
		"--chart-path", chartDir,
		"--ref", "refs/heads/main")
	require.NoError(t, err)

	assert.Equal(t, []string{"dependencies", "lint", "package"}, mock.Calls)
	assert.Contains(t, output, "gated")
	assert.NotContains(t, output, "Published")
}

func TestReleaseCmdTagRefPublishes(t *testing.T) {
	chartDir := writeTestChart(t)
	fs := afero.NewMemMapFs()
	restoreFs := SetFs(fs)
	defer restoreFs()
	require.NoError(t, afero.WriteFile(fs, "publish.yaml", []byte(validPublishConfigYAML), 0o644))
	t.Setenv("CHARTCI_TEST_REGISTRY_PW", "hunter2")

	mock := helm.NewMockClient()
	var gotRemote string
	mock.MockPushChart = func(_ context.Context, _, remote string) error {
		gotRemote = remote
		return nil
	}
	restore := setHelmClient(mock)
	defer restore()

	output, err := executeCommand(newReleaseCmd(),
		"--chart-path", chartDir,
		"--ref", "refs/tags/v1.2.3",
		"--publish-config", "publish.yaml")
	require.NoError(t, err)

	assert.Equal(t, []string{"dependencies", "lint", "package", "login", "push"}, mock.Calls)
	assert.Equal(t, "registry.example.com/charts/app-stack:1.2.3", gotRemote)
	assert.Contains(t, output, "Published")
}

func TestReleaseCmdTagRefRequiresPublishConfig(t *testing.T) {
	chartDir := writeTestChart(t)
	restoreFs := SetFs(afero.NewMemMapFs())
	defer restoreFs()

	mock := helm.NewMockClient()
	restore := setHelmClient(mock)
	defer restore()

	_, err := executeCommand(newReleaseCmd(),
		"--chart-path", chartDir,
		"--ref", "refs/tags/v1.2.3")
	require.Error(t, err)

	var exitErr *exitcodes.ExitCodeError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, exitcodes.ExitMissingRequiredFlag, exitErr.Code)
	assert.Empty(t, mock.Calls, "pipeline must not start without publish config")
}

func TestReleaseCmdLintFailureHaltsPipeline(t *testing.T) {
	chartDir := writeTestChart(t)
	restoreFs := SetFs(afero.NewMemMapFs())
	defer restoreFs()

	mock := helm.NewMockClient()
	mock.MockLintChart = func(_ context.Context, _ *helm.LintOptions) (*helm.LintResult, error) {
		return &helm.LintResult{
			Passed:   false,
			Messages: []string{"[ERROR] templates/deployment.yaml: parse error"},
		}, nil
	}
	restore := setHelmClient(mock)
	defer restore()

	output, err := executeCommand(newReleaseCmd(),
		"--chart-path", chartDir,
		"--ref", "refs/heads/main")
	require.Error(t, err)

	var exitErr *exitcodes.ExitCodeError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, exitcodes.ExitLintFailed, exitErr.Code)
	assert.Equal(t, []string{"dependencies", "lint"}, mock.Calls)
	assert.Contains(t, output, "skipped")
}

func TestReleaseCmdChartLoadFailure(t *testing.T) {
	restoreFs := SetFs(afero.NewMemMapFs())
	defer restoreFs()

	mock := helm.NewMockClient()
	restore := setHelmClient(mock)
	defer restore()

	_, err := executeCommand(newReleaseCmd(),
		"--chart-path", t.TempDir(),
		"--ref", "refs/heads/main")
	require.Error(t, err)

	var exitErr *exitcodes.ExitCodeError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, exitcodes.ExitChartLoadFailed, exitErr.Code)
}
