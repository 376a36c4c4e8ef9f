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

func publishArgs(overrides map[string]string) []string {
	flags := map[string]string{
		"archive":        "dist/app-stack-1.2.3.tgz",
		"publish-config": "publish.yaml",
		"ref":            "refs/tags/v1.2.3",
		"chart-name":     "app-stack",
		"chart-version":  "1.2.3",
	}
	for k, v := range overrides {
		flags[k] = v
	}
	args := make([]string, 0, len(flags)*2)
	for k, v := range flags {
		args = append(args, "--"+k, v)
	}
	return args
}

func TestPublishCmdPushesOnTagRef(t *testing.T) {
	fs := afero.NewMemMapFs()
	restoreFs := SetFs(fs)
	defer restoreFs()
	require.NoError(t, afero.WriteFile(fs, "publish.yaml", []byte(validPublishConfigYAML), 0o644))
	t.Setenv("CHARTCI_TEST_REGISTRY_PW", "hunter2")

	mock := helm.NewMockClient()
	var gotRemote string
	mock.MockPushChart = func(_ context.Context, archive, remote string) error {
		assert.Equal(t, "dist/app-stack-1.2.3.tgz", archive)
		gotRemote = remote
		return nil
	}
	restore := setHelmClient(mock)
	defer restore()

	output, err := executeCommand(newPublishCmd(), publishArgs(nil)...)
	require.NoError(t, err)

	assert.Equal(t, []string{"login", "push"}, mock.Calls)
	assert.Equal(t, "registry.example.com/charts/app-stack:1.2.3", gotRemote)
	assert.Contains(t, output, "Pushed registry.example.com/charts/app-stack:1.2.3")
}

func TestPublishCmdRefusesBranchRef(t *testing.T) {
	mock := helm.NewMockClient()
	restore := setHelmClient(mock)
	defer restore()

	_, err := executeCommand(newPublishCmd(), publishArgs(map[string]string{
		"ref": "refs/heads/main",
	})...)
	require.Error(t, err)

	var exitErr *exitcodes.ExitCodeError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, exitcodes.ExitRefNotPublishable, exitErr.Code)
	assert.Empty(t, mock.Calls, "no registry contact on a branch ref")
}

func TestPublishCmdForceBypassesGating(t *testing.T) {
	fs := afero.NewMemMapFs()
	restoreFs := SetFs(fs)
	defer restoreFs()
	require.NoError(t, afero.WriteFile(fs, "publish.yaml", []byte(validPublishConfigYAML), 0o644))
	t.Setenv("CHARTCI_TEST_REGISTRY_PW", "hunter2")

	mock := helm.NewMockClient()
	restore := setHelmClient(mock)
	defer restore()

	args := append(publishArgs(map[string]string{"ref": "refs/heads/main"}), "--force")
	_, err := executeCommand(newPublishCmd(), args...)
	require.NoError(t, err)
	assert.Equal(t, []string{"login", "push"}, mock.Calls)
}

func TestPublishCmdRefusesVersionMismatch(t *testing.T) {
	mock := helm.NewMockClient()
	restore := setHelmClient(mock)
	defer restore()

	_, err := executeCommand(newPublishCmd(), publishArgs(map[string]string{
		"ref": "refs/tags/v9.9.9",
	})...)
	require.Error(t, err)

	var exitErr *exitcodes.ExitCodeError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, exitcodes.ExitRefNotPublishable, exitErr.Code)
	assert.Empty(t, mock.Calls)
}

func TestPublishCmdMissingPassword(t *testing.T) {
	fs := afero.NewMemMapFs()
	restoreFs := SetFs(fs)
	defer restoreFs()
	require.NoError(t, afero.WriteFile(fs, "publish.yaml", []byte(validPublishConfigYAML), 0o644))
	t.Setenv("CHARTCI_TEST_REGISTRY_PW", "")

	mock := helm.NewMockClient()
	restore := setHelmClient(mock)
	defer restore()

	_, err := executeCommand(newPublishCmd(), publishArgs(nil)...)
	require.Error(t, err)

	var exitErr *exitcodes.ExitCodeError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, exitcodes.ExitPublishConfigInvalid, exitErr.Code)
	assert.Empty(t, mock.Calls)
}

func TestPublishCmdMissingConfig(t *testing.T) {
	restoreFs := SetFs(afero.NewMemMapFs())
	defer restoreFs()

	mock := helm.NewMockClient()
	restore := setHelmClient(mock)
	defer restore()

	_, err := executeCommand(newPublishCmd(), publishArgs(nil)...)
	require.Error(t, err)

	var exitErr *exitcodes.ExitCodeError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, exitcodes.ExitPublishConfigInvalid, exitErr.Code)
}
