package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const validValuesYAML = `frontend:
  replicaCount: 1
  image:
    repository: example/frontend
    tag: "1.4.0"
  service:
    port: 80
backend:
  replicaCount: 2
  image:
    repository: example/backend
    tag: "2.1.0"
  service:
    port: 8080
  mongodbUri: mongodb://db.example.com:27017/app
mongodb:
  enabled: false
`

const validPublishConfigYAML = `registry: registry.example.com
repository: charts
username: ci-bot
passwordEnv: CHARTCI_TEST_REGISTRY_PW
`

// writeTestChart lays down a minimal chart directory on the real filesystem;
// the Helm loader does not accept an afero handle.
func writeTestChart(t *testing.T) string {
	t.Helper()
	chartDir := filepath.Join(t.TempDir(), "app-stack")
	require.NoError(t, os.MkdirAll(filepath.Join(chartDir, "templates"), 0o755))

	chartYAML := `apiVersion: v2
name: app-stack
version: 1.2.3
`
	tmpl := `apiVersion: v1
kind: ConfigMap
metadata:
  name: {{ .Chart.Name }}-config
`
	require.NoError(t, os.WriteFile(filepath.Join(chartDir, "Chart.yaml"), []byte(chartYAML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(chartDir, "values.yaml"), []byte(validValuesYAML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(chartDir, "templates", "configmap.yaml"), []byte(tmpl), 0o644))
	return chartDir
}
