// Package main implements the command-line interface for chartci, the CI
// tool for the application Helm chart. It validates values documents against
// the chart's schema, renders and checks manifests, and runs the release
// pipeline that lints, packages, and publishes the chart to an OCI registry.
//
// The main CLI commands are:
//   - validate: Validate a values document against the chart schema
//   - render:   Render the chart and check the manifests against the values
//   - lint:     Lint the chart, strictly and with subcharts
//   - package:  Build dependencies and package the chart archive
//   - publish:  Push a packaged archive to the OCI registry (tag refs only)
//   - release:  Run the full pipeline: dependencies, lint, package, publish
package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chartci/chartci/pkg/debug"
	"github.com/chartci/chartci/pkg/exitcodes"
	"github.com/chartci/chartci/pkg/helm"
	"github.com/chartci/chartci/pkg/log"
	"github.com/chartci/chartci/pkg/version"
)

// Global flag variables
var (
	cfgFile      string
	debugEnabled bool
	logLevel     string

	// helmClient is the Helm client commands run against. Tests replace it
	// with a mock.
	helmClient helm.ClientInterface
)

// AppFs defines the filesystem interface to use, allows mocking in tests.
var AppFs = afero.NewOsFs()

// SetFs replaces the current filesystem with the provided one and returns a
// function to restore it. This is primarily used for testing.
func SetFs(newFs afero.Fs) func() {
	oldFs := AppFs
	AppFs = newFs
	return func() { AppFs = oldFs }
}

// setHelmClient replaces the Helm client and returns a restore function.
// Used by tests to install a mock client.
func setHelmClient(client helm.ClientInterface) func() {
	oldClient := helmClient
	helmClient = client
	return func() { helmClient = oldClient }
}

// getHelmClient returns the installed Helm client, creating a real one on
// first use.
func getHelmClient() helm.ClientInterface {
	if helmClient == nil {
		helmClient = helm.NewRealClient(helm.GetSettings())
	}
	return helmClient
}

var rootCmd = &cobra.Command{
	Use:   "chartci",
	Short: "CI tool for validating, packaging, and publishing the application Helm chart",
	Long: `chartci validates values documents against the application chart's schema,
renders the chart and checks the resulting manifests, and runs the release
pipeline: dependency build, strict lint, package, and (for tag refs only)
publish to an OCI registry.`,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		level := log.LevelInfo
		if debugEnabled {
			level = log.LevelDebug
		} else if logLevel != "" {
			parsedLevel, err := log.ParseLevel(logLevel)
			if err != nil {
				log.Warnf("Invalid log level specified: '%s'. Using default: %s. Error: %v", logLevel, level, err)
			} else {
				level = parsedLevel
			}
		}
		log.SetLevel(level)

		// --debug wins; otherwise CHARTCI_DEBUG can enable tracing.
		if debugEnabled {
			debug.Enabled = true
			debug.Printf("--debug flag enabled debug logging.")
		} else if debugEnv := os.Getenv("CHARTCI_DEBUG"); debugEnv != "" {
			debugVal, err := strconv.ParseBool(debugEnv)
			if err != nil {
				debug.Enabled = false
			} else {
				debug.Enabled = debugVal
			}
		} else {
			debug.Enabled = false
		}

		if debug.Enabled {
			debug.Printf("Effective log level set to %s", level)
		}
		return nil
	},
	RunE: func(_ *cobra.Command, args []string) error {
		if len(args) == 0 {
			log.Errorf("Error: a subcommand is required. Use 'chartci --help' for available commands.")
			return errors.New("a subcommand is required")
		}
		return nil
	},
}

// Execute runs the root command. This is called by main.main().
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("execute command: %w", err)
	}
	return nil
}

// exitCodeForError maps an error returned by a command to a process exit
// code.
func exitCodeForError(err error) int {
	if err == nil {
		return exitcodes.ExitSuccess
	}
	var exitErr *exitcodes.ExitCodeError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return exitcodes.ExitGeneralRuntimeError
}

// init sets up the root command and its flags.
func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.chartci.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugEnabled, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "set log level (debug, info, warn, error)")

	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newRenderCmd())
	rootCmd.AddCommand(newLintCmd())
	rootCmd.AddCommand(newPackageCmd())
	rootCmd.AddCommand(newPublishCmd())
	rootCmd.AddCommand(newReleaseCmd())
	rootCmd.AddCommand(newVersionCmd())
}

// initConfig reads in the config file and environment variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			debug.Printf("Could not determine home directory: %v", err)
			return
		}
		viper.SetConfigName(".chartci")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("CHARTCI")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		debug.Printf("Using config file: %s", viper.ConfigFileUsed())
	}
}

// newVersionCmd reports the chartci build version.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the chartci version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "chartci v%s\n", version.BinaryVersion)
			return err
		},
	}
}

// executeCommand is a helper for testing Cobra commands
func executeCommand(root *cobra.Command, args ...string) (output string, err error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err = root.Execute()
	return buf.String(), err
}
