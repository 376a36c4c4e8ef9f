// Package chart provides functionality for loading the deployment chart and
// summarizing its metadata.
package chart

import (
	"path/filepath"

	"github.com/pkg/errors"
	helmchart "helm.sh/helm/v3/pkg/chart"
	"helm.sh/helm/v3/pkg/chart/loader"

	"github.com/chartci/chartci/pkg/debug"
)

// Loader defines the interface for loading Helm charts.
type Loader interface {
	Load(chartPath string) (*helmchart.Chart, error)
}

// helmLoader implements Loader using the Helm library.
type helmLoader struct{}

// NewLoader creates a new Loader instance backed by the Helm library.
func NewLoader() Loader {
	return &helmLoader{}
}

// Load loads a chart from a directory or .tgz archive.
func (l *helmLoader) Load(chartPath string) (*helmchart.Chart, error) {
	debug.FunctionEnter("[helmLoader] Load")
	defer debug.FunctionExit("[helmLoader] Load")

	debug.Printf("Loading chart from path: %s", chartPath)

	var (
		loaded *helmchart.Chart
		err    error
	)
	if filepath.Ext(chartPath) == ".tgz" {
		loaded, err = loader.Load(chartPath)
	} else {
		// Assume directory if not .tgz. loader.LoadDir handles non-dirs.
		loaded, err = loader.LoadDir(chartPath)
	}
	if err != nil {
		return nil, errors.Wrap(err, "helm chart load failed")
	}

	debug.Printf("Successfully loaded chart: %s", loaded.Name())
	return loaded, nil
}

// Info summarizes the loaded chart for inspection output.
type Info struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	AppVersion   string   `json:"appVersion,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`
}

// Summarize extracts an Info from a loaded chart.
func Summarize(c *helmchart.Chart) Info {
	info := Info{
		Name:       c.Name(),
		Version:    c.Metadata.Version,
		AppVersion: c.Metadata.AppVersion,
	}
	for _, dep := range c.Metadata.Dependencies {
		info.Dependencies = append(info.Dependencies, dep.Name)
	}
	return info
}

// DefaultValuesYAML returns the chart's bundled values.yaml content, if any.
func DefaultValuesYAML(c *helmchart.Chart) []byte {
	for _, f := range c.Raw {
		if f.Name == "values.yaml" {
			return f.Data
		}
	}
	return nil
}
