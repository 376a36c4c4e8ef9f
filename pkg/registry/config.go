// Package registry holds the publish target configuration: which OCI
// registry and namespace path packaged charts are pushed to, and where the
// credentials come from. Credentials are never stored in the file itself;
// the file names the environment variable carrying the password so secrets
// stay in the CI system's secret store.
package registry

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

// Sentinel errors for publish configuration problems.
var (
	ErrConfigEmpty = fmt.Errorf("publish config file is empty")
)

// PublishConfig describes the OCI publish target.
type PublishConfig struct {
	// Registry is the OCI registry host, e.g. "registry.example.com".
	Registry string `yaml:"registry"`
	// Repository is the fixed namespace path under the registry charts are
	// pushed to, e.g. "charts/platform".
	Repository string `yaml:"repository"`
	// Username authenticates the push.
	Username string `yaml:"username"`
	// PasswordEnv names the environment variable carrying the password.
	PasswordEnv string `yaml:"passwordEnv"`
}

// LoadPublishConfig loads and validates a publish config from a YAML file.
func LoadPublishConfig(fs afero.Fs, path string) (*PublishConfig, error) {
	if !strings.HasSuffix(path, ".yaml") && !strings.HasSuffix(path, ".yml") {
		return nil, fmt.Errorf("invalid publish config path: must end with .yaml or .yml")
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("publish config file does not exist: %v", err)
		}
		return nil, fmt.Errorf("failed to read publish config file: %v", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, ErrConfigEmpty
	}

	cfg := &PublishConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse publish config file: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the config for completeness.
func (c *PublishConfig) Validate() error {
	var missing []string
	if c.Registry == "" {
		missing = append(missing, "registry")
	}
	if c.Repository == "" {
		missing = append(missing, "repository")
	}
	if c.Username == "" {
		missing = append(missing, "username")
	}
	if c.PasswordEnv == "" {
		missing = append(missing, "passwordEnv")
	}
	if len(missing) > 0 {
		return fmt.Errorf("publish config missing required field(s): %s", strings.Join(missing, ", "))
	}
	if strings.Contains(c.Registry, "/") {
		return fmt.Errorf("registry must be a bare host, got %q", c.Registry)
	}
	return nil
}

// Password resolves the password from the configured environment variable.
func (c *PublishConfig) Password() (string, error) {
	pw := os.Getenv(c.PasswordEnv)
	if pw == "" {
		return "", fmt.Errorf("environment variable %s is not set or empty", c.PasswordEnv)
	}
	return pw, nil
}

// Remote builds the full OCI reference for a chart name and version, e.g.
// registry.example.com/charts/platform/app-stack:1.2.3.
func (c *PublishConfig) Remote(chartName, version string) string {
	return fmt.Sprintf("%s/%s/%s:%s",
		c.Registry, strings.Trim(c.Repository, "/"), chartName, version)
}
