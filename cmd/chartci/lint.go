package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chartci/chartci/pkg/exitcodes"
	"github.com/chartci/chartci/pkg/helm"
	"github.com/chartci/chartci/pkg/log"
)

// newLintCmd creates the lint command. The pipeline always lints strictly;
// the flag exists so local runs can relax it.
func newLintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint",
		Short: "Lint the chart",
		Long: `Lint the application chart. In strict mode (the default) warnings fail
the lint, matching the release pipeline. Subcharts are linted as well unless
--with-subcharts=false.`,
		Args: cobra.NoArgs,
		RunE: runLint,
	}

	cmd.Flags().String("chart-path", "", "Path to the Helm chart")
	cmd.Flags().StringSlice("values", []string{}, "Values files to lint with (can be specified multiple times)")
	cmd.Flags().Bool("strict", true, "Fail on lint warnings")
	cmd.Flags().Bool("with-subcharts", true, "Lint bundled subcharts as well")

	return cmd
}

func runLint(cmd *cobra.Command, _ []string) error {
	chartPath, err := getRequiredStringFlag(cmd, "chart-path")
	if err != nil {
		return err
	}
	valuesFiles, err := getStringSliceFlag(cmd, "values")
	if err != nil {
		return err
	}
	strict, err := getBoolFlag(cmd, "strict")
	if err != nil {
		return err
	}
	withSubcharts, err := getBoolFlag(cmd, "with-subcharts")
	if err != nil {
		return err
	}

	merged, err := loadMergedValues("", valuesFiles)
	if err != nil {
		return err
	}

	result, err := getHelmClient().LintChart(cmd.Context(), &helm.LintOptions{
		ChartPath:     chartPath,
		Values:        merged,
		Strict:        strict,
		WithSubcharts: withSubcharts,
	})
	if err != nil {
		return err
	}

	for _, msg := range result.Messages {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), msg); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}

	if !result.Passed {
		return &exitcodes.ExitCodeError{
			Code: exitcodes.ExitLintFailed,
			Err:  fmt.Errorf("lint failed for chart %s", chartPath),
		}
	}

	log.Info("Lint passed", "chart", chartPath, "strict", strict)
	return nil
}
