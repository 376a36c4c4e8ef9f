// Package main declares constants used across the chartci command-line interface.
package main

const (
	// DefaultKubernetesVersion is used for rendering when --kube-version is
	// not specified.
	DefaultKubernetesVersion = "1.31.0"

	// DefaultReleaseName is the release name used for rendering when
	// --release-name is not specified.
	DefaultReleaseName = "chartci-render"

	// DefaultNamespace is used when --namespace is not specified.
	DefaultNamespace = "default"

	// DefaultDestination is where packaged chart archives are written.
	DefaultDestination = "dist"
)
