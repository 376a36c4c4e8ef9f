package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chartci/chartci/pkg/chart"
	"github.com/chartci/chartci/pkg/exitcodes"
	"github.com/chartci/chartci/pkg/fileutil"
	"github.com/chartci/chartci/pkg/values"
)

// getRequiredStringFlag reads a string flag that must be non-empty.
func getRequiredStringFlag(cmd *cobra.Command, name string) (string, error) {
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		return "", &exitcodes.ExitCodeError{
			Code: exitcodes.ExitInputConfigurationError,
			Err:  fmt.Errorf("failed to get %s flag: %w", name, err),
		}
	}
	if value == "" {
		return "", &exitcodes.ExitCodeError{
			Code: exitcodes.ExitMissingRequiredFlag,
			Err:  fmt.Errorf("required flag --%s not provided", name),
		}
	}
	return value, nil
}

// getStringFlag reads an optional string flag.
func getStringFlag(cmd *cobra.Command, name string) (string, error) {
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		return "", &exitcodes.ExitCodeError{
			Code: exitcodes.ExitInputConfigurationError,
			Err:  fmt.Errorf("failed to get %s flag: %w", name, err),
		}
	}
	return value, nil
}

// getStringSliceFlag reads a string slice flag.
func getStringSliceFlag(cmd *cobra.Command, name string) ([]string, error) {
	value, err := cmd.Flags().GetStringSlice(name)
	if err != nil {
		return nil, &exitcodes.ExitCodeError{
			Code: exitcodes.ExitInputConfigurationError,
			Err:  fmt.Errorf("failed to get %s flag: %w", name, err),
		}
	}
	return value, nil
}

// getBoolFlag reads a bool flag.
func getBoolFlag(cmd *cobra.Command, name string) (bool, error) {
	value, err := cmd.Flags().GetBool(name)
	if err != nil {
		return false, &exitcodes.ExitCodeError{
			Code: exitcodes.ExitInputConfigurationError,
			Err:  fmt.Errorf("failed to get %s flag: %w", name, err),
		}
	}
	return value, nil
}

// loadMergedValues merges the chart's bundled defaults with the provided
// overlay files, in order. Later files win over earlier ones.
func loadMergedValues(chartPath string, valuesFiles []string) (values.Document, error) {
	merged := values.Document{}

	if chartPath != "" {
		loaded, err := chart.NewLoader().Load(chartPath)
		if err != nil {
			return nil, &exitcodes.ExitCodeError{
				Code: exitcodes.ExitChartLoadFailed,
				Err:  fmt.Errorf("failed to load chart %s: %w", chartPath, err),
			}
		}
		if raw := chart.DefaultValuesYAML(loaded); raw != nil {
			defaults, err := values.Parse(raw)
			if err != nil {
				return nil, &exitcodes.ExitCodeError{
					Code: exitcodes.ExitChartLoadFailed,
					Err:  fmt.Errorf("failed to parse chart default values: %w", err),
				}
			}
			merged = defaults
		}
	}

	for _, path := range valuesFiles {
		overlay, err := values.Load(AppFs, path)
		if err != nil {
			return nil, &exitcodes.ExitCodeError{
				Code: exitcodes.ExitChartNotFound,
				Err:  fmt.Errorf("failed to load values file %s: %w", path, err),
			}
		}
		merged = values.Merge(merged, overlay)
	}

	return merged, nil
}

// writeOutputFile writes command output to a file, or to the command's
// stdout when path is empty.
func writeOutputFile(cmd *cobra.Command, path, content string) error {
	if path == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), content)
		return err
	}
	if err := fileutil.WriteFileString(AppFs, path, content); err != nil {
		return &exitcodes.ExitCodeError{
			Code: exitcodes.ExitIOError,
			Err:  fmt.Errorf("failed to write output file %s: %w", path, err),
		}
	}
	return nil
}
