package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/chartci/chartci/pkg/chart"
	"github.com/chartci/chartci/pkg/exitcodes"
	"github.com/chartci/chartci/pkg/log"
	"github.com/chartci/chartci/pkg/pipeline"
	"github.com/chartci/chartci/pkg/registry"
)

// newReleaseCmd creates the release command, which runs the full pipeline.
func newReleaseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "release",
		Short: "Run the release pipeline: dependencies, lint, package, publish",
		Long: `Run the release pipeline for the chart: rebuild dependencies, lint
strictly with subcharts, package the archive, and, when the ref is a tag,
log in to the registry and push. On a branch ref the publish steps are
withheld and the run still succeeds. The first failing step halts the
pipeline and later steps are recorded as skipped.`,
		Args: cobra.NoArgs,
		RunE: runRelease,
	}

	cmd.Flags().String("chart-path", "", "Path to the Helm chart")
	cmd.Flags().StringSlice("values", []string{}, "Values files to lint with (can be specified multiple times)")
	cmd.Flags().String("destination", DefaultDestination, "Directory to write the packaged archive to")
	cmd.Flags().String("ref", "", "Git ref the pipeline runs for")
	cmd.Flags().String("publish-config", "", "Path to the publish config file (required for tag refs)")

	return cmd
}

func runRelease(cmd *cobra.Command, _ []string) error {
	chartPath, err := getRequiredStringFlag(cmd, "chart-path")
	if err != nil {
		return err
	}
	valuesFiles, err := getStringSliceFlag(cmd, "values")
	if err != nil {
		return err
	}
	destination, err := getStringFlag(cmd, "destination")
	if err != nil {
		return err
	}
	ref, err := getRequiredStringFlag(cmd, "ref")
	if err != nil {
		return err
	}
	configPath, err := getStringFlag(cmd, "publish-config")
	if err != nil {
		return err
	}

	loaded, err := chart.NewLoader().Load(chartPath)
	if err != nil {
		return &exitcodes.ExitCodeError{
			Code: exitcodes.ExitChartLoadFailed,
			Err:  fmt.Errorf("failed to load chart %s: %w", chartPath, err),
		}
	}
	info := chart.Summarize(loaded)

	merged, err := loadMergedValues("", valuesFiles)
	if err != nil {
		return err
	}

	var publishCfg *registry.PublishConfig
	if pipeline.Publishable(ref) {
		if configPath == "" {
			return &exitcodes.ExitCodeError{
				Code: exitcodes.ExitMissingRequiredFlag,
				Err:  fmt.Errorf("--publish-config is required for tag ref %s", ref),
			}
		}
		publishCfg, err = registry.LoadPublishConfig(AppFs, configPath)
		if err != nil {
			return &exitcodes.ExitCodeError{
				Code: exitcodes.ExitPublishConfigInvalid,
				Err:  fmt.Errorf("invalid publish config %s: %w", configPath, err),
			}
		}
	}

	log.Info("Running release pipeline", "chart", info.Name, "version", info.Version, "ref", ref)
	runner := pipeline.NewRunner(getHelmClient(), AppFs)
	result, runErr := runner.Run(cmd.Context(), &pipeline.Options{
		ChartPath:    chartPath,
		Destination:  destination,
		Ref:          ref,
		Values:       merged,
		ChartName:    info.Name,
		ChartVersion: info.Version,
		Publish:      publishCfg,
	})

	if err := printPipelineResult(cmd, result); err != nil {
		return err
	}
	return runErr
}

// printPipelineResult writes a step summary table to the command output.
func printPipelineResult(cmd *cobra.Command, result *pipeline.Result) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	for _, step := range result.Steps {
		detail := step.Detail
		if step.Err != nil {
			detail = step.Err.Error()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", step.Name, step.Status, detail)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write pipeline summary: %w", err)
	}
	if result.Published {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), "Published", result.ArchivePath); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}
