package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chartci/chartci/pkg/appvalues"
	"github.com/chartci/chartci/pkg/exitcodes"
	"github.com/chartci/chartci/pkg/log"
)

// newValidateCmd creates the validate command. It checks a values document
// against the application chart's schema without contacting a cluster.
func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a values document against the chart schema",
		Long: `Validate a values document against the application chart's schema.

The chart's bundled defaults are merged with the provided values files, in
order, and the result is checked: replica counts, service ports, image
references, environment entries, MongoDB wiring, and ingress rules.`,
		Args: cobra.NoArgs,
		RunE: runValidate,
	}

	cmd.Flags().String("chart-path", "", "Path to the Helm chart (merges its default values first)")
	cmd.Flags().StringSlice("values", []string{}, "Values files to validate (can be specified multiple times)")

	return cmd
}

func runValidate(cmd *cobra.Command, _ []string) error {
	chartPath, err := getStringFlag(cmd, "chart-path")
	if err != nil {
		return err
	}
	valuesFiles, err := getStringSliceFlag(cmd, "values")
	if err != nil {
		return err
	}
	if chartPath == "" && len(valuesFiles) == 0 {
		return &exitcodes.ExitCodeError{
			Code: exitcodes.ExitMissingRequiredFlag,
			Err:  fmt.Errorf("at least one of --chart-path or --values must be provided"),
		}
	}

	merged, err := loadMergedValues(chartPath, valuesFiles)
	if err != nil {
		return err
	}

	vals, err := appvalues.FromDocument(merged)
	if err != nil {
		return &exitcodes.ExitCodeError{
			Code: exitcodes.ExitValuesInvalid,
			Err:  fmt.Errorf("values document does not match the chart schema: %w", err),
		}
	}

	if err := vals.Validate(); err != nil {
		return &exitcodes.ExitCodeError{
			Code: exitcodes.ExitValuesInvalid,
			Err:  fmt.Errorf("values validation failed: %w", err),
		}
	}

	log.Info("Values are valid", "files", len(valuesFiles))
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), "Values are valid."); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
