package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chartci/chartci/pkg/helm"
	"github.com/chartci/chartci/pkg/log"
)

// newPackageCmd creates the package command.
func newPackageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "package",
		Short: "Build dependencies and package the chart archive",
		Long: `Rebuild the chart's dependency archives and package the chart into a
versioned .tgz under the destination directory.`,
		Args: cobra.NoArgs,
		RunE: runPackage,
	}

	cmd.Flags().String("chart-path", "", "Path to the Helm chart")
	cmd.Flags().String("destination", DefaultDestination, "Directory to write the packaged archive to")
	cmd.Flags().Bool("skip-dependencies", false, "Package without rebuilding dependencies")

	return cmd
}

func runPackage(cmd *cobra.Command, _ []string) error {
	chartPath, err := getRequiredStringFlag(cmd, "chart-path")
	if err != nil {
		return err
	}
	destination, err := getStringFlag(cmd, "destination")
	if err != nil {
		return err
	}
	skipDeps, err := getBoolFlag(cmd, "skip-dependencies")
	if err != nil {
		return err
	}

	client := getHelmClient()

	if !skipDeps {
		log.Info("Building chart dependencies", "chart", chartPath)
		if err := client.BuildDependencies(cmd.Context(), chartPath); err != nil {
			return err
		}
	}

	archive, err := client.PackageChart(cmd.Context(), &helm.PackageOptions{
		ChartPath:   chartPath,
		Destination: destination,
	})
	if err != nil {
		return err
	}

	log.Info("Chart packaged", "archive", archive)
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), archive); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
