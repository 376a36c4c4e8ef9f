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

const renderedBackendManifests = `apiVersion: apps/v1
kind: Deployment
metadata:
  name: app-stack-backend
spec:
  template:
    spec:
      containers:
        - name: backend
          env:
            - name: MONGODB_URI
              value: mongodb://db.example.com:27017/app
`

func TestRenderCmdChecksPass(t *testing.T) {
	chartDir := writeTestChart(t)
	restoreFs := SetFs(afero.NewMemMapFs())
	defer restoreFs()

	mock := helm.NewMockClient()
	var gotOpts *helm.TemplateOptions
	mock.MockTemplateChart = func(_ context.Context, opts *helm.TemplateOptions) (string, error) {
		gotOpts = opts
		return renderedBackendManifests, nil
	}
	restore := setHelmClient(mock)
	defer restore()

	output, err := executeCommand(newRenderCmd(), "--chart-path", chartDir)
	require.NoError(t, err)

	require.NotNil(t, gotOpts)
	assert.Equal(t, DefaultReleaseName, gotOpts.ReleaseName)
	assert.Equal(t, DefaultKubernetesVersion, gotOpts.KubeVersion)
	assert.Contains(t, output, "app-stack-backend")
}

func TestRenderCmdChecksFailWithoutBackend(t *testing.T) {
	chartDir := writeTestChart(t)
	restoreFs := SetFs(afero.NewMemMapFs())
	defer restoreFs()

	// The default mock output renders only a ConfigMap; the values demand a
	// backend workload carrying a literal MONGODB_URI.
	mock := helm.NewMockClient()
	restore := setHelmClient(mock)
	defer restore()

	_, err := executeCommand(newRenderCmd(), "--chart-path", chartDir)
	require.Error(t, err)

	var exitErr *exitcodes.ExitCodeError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, exitcodes.ExitManifestInvalid, exitErr.Code)
	assert.Contains(t, err.Error(), "no backend workload")
}

func TestRenderCmdSkipChecks(t *testing.T) {
	chartDir := writeTestChart(t)
	restoreFs := SetFs(afero.NewMemMapFs())
	defer restoreFs()

	mock := helm.NewMockClient()
	restore := setHelmClient(mock)
	defer restore()

	output, err := executeCommand(newRenderCmd(), "--chart-path", chartDir, "--skip-checks")
	require.NoError(t, err)
	assert.Contains(t, output, "ConfigMap")
}

func TestRenderCmdOutputFile(t *testing.T) {
	chartDir := writeTestChart(t)
	fs := afero.NewMemMapFs()
	restoreFs := SetFs(fs)
	defer restoreFs()

	mock := helm.NewMockClient()
	mock.MockTemplateChart = func(_ context.Context, _ *helm.TemplateOptions) (string, error) {
		return renderedBackendManifests, nil
	}
	restore := setHelmClient(mock)
	defer restore()

	_, err := executeCommand(newRenderCmd(),
		"--chart-path", chartDir,
		"--output-file", "rendered.yaml")
	require.NoError(t, err)

	content, readErr := afero.ReadFile(fs, "rendered.yaml")
	require.NoError(t, readErr)
	assert.Contains(t, string(content), "app-stack-backend")
}

func TestRenderCmdTemplateFailure(t *testing.T) {
	chartDir := writeTestChart(t)
	restoreFs := SetFs(afero.NewMemMapFs())
	defer restoreFs()

	mock := helm.NewMockClient()
	mock.MockTemplateChart = func(_ context.Context, _ *helm.TemplateOptions) (string, error) {
		return "", &exitcodes.ExitCodeError{
			Code: exitcodes.ExitTemplateFailed,
			Err:  assert.AnError,
		}
	}
	restore := setHelmClient(mock)
	defer restore()

	_, err := executeCommand(newRenderCmd(), "--chart-path", chartDir)
	require.Error(t, err)

	var exitErr *exitcodes.ExitCodeError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, exitcodes.ExitTemplateFailed, exitErr.Code)
}
