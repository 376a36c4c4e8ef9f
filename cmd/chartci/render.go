package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chartci/chartci/pkg/appvalues"
	"github.com/chartci/chartci/pkg/exitcodes"
	"github.com/chartci/chartci/pkg/helm"
	"github.com/chartci/chartci/pkg/log"
	"github.com/chartci/chartci/pkg/manifest"
)

// newRenderCmd creates the render command. Rendering is client-only: no
// cluster contact.
func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the chart and check the manifests against the values",
		Long: `Render the application chart with the provided values and check the
resulting manifests: every object must carry apiVersion, kind, and a name;
the Ingress object must track ingress.enabled; and the backend's MONGODB_URI
environment variable must match the MongoDB wiring in the values.

Defaults to Kubernetes version ` + DefaultKubernetesVersion + ` if --kube-version is not specified.`,
		Args: cobra.NoArgs,
		RunE: runRender,
	}

	cmd.Flags().String("chart-path", "", "Path to the Helm chart")
	cmd.Flags().StringSlice("values", []string{}, "Values files to use (can be specified multiple times)")
	cmd.Flags().String("release-name", DefaultReleaseName, "Release name to render with")
	cmd.Flags().String("namespace", DefaultNamespace, "Namespace to render with")
	cmd.Flags().String("kube-version", DefaultKubernetesVersion, "Kubernetes version for rendering (e.g., '1.31.0')")
	cmd.Flags().String("output-file", "", "Write rendered manifests to file instead of stdout")
	cmd.Flags().Bool("skip-checks", false, "Render only, skip manifest checks")

	return cmd
}

func runRender(cmd *cobra.Command, _ []string) error {
	chartPath, err := getRequiredStringFlag(cmd, "chart-path")
	if err != nil {
		return err
	}
	valuesFiles, err := getStringSliceFlag(cmd, "values")
	if err != nil {
		return err
	}
	releaseName, err := getStringFlag(cmd, "release-name")
	if err != nil {
		return err
	}
	namespace, err := getStringFlag(cmd, "namespace")
	if err != nil {
		return err
	}
	kubeVersion, err := getStringFlag(cmd, "kube-version")
	if err != nil {
		return err
	}
	outputFile, err := getStringFlag(cmd, "output-file")
	if err != nil {
		return err
	}
	skipChecks, err := getBoolFlag(cmd, "skip-checks")
	if err != nil {
		return err
	}

	merged, err := loadMergedValues(chartPath, valuesFiles)
	if err != nil {
		return err
	}

	log.Debug("Rendering chart", "chart", chartPath, "release", releaseName, "kubeVersion", kubeVersion)
	rendered, err := getHelmClient().TemplateChart(cmd.Context(), &helm.TemplateOptions{
		ChartPath:   chartPath,
		ReleaseName: releaseName,
		Namespace:   namespace,
		Values:      merged,
		KubeVersion: kubeVersion,
	})
	if err != nil {
		return err
	}

	if !skipChecks {
		if err := checkRendered(rendered, merged); err != nil {
			return err
		}
		log.Info("Manifest checks passed", "chart", chartPath)
	}

	return writeOutputFile(cmd, outputFile, rendered)
}

// checkRendered parses the manifest stream and runs the structural and
// values-consistency checks.
func checkRendered(rendered string, merged map[string]interface{}) error {
	set, err := manifest.Parse(rendered)
	if err != nil {
		return &exitcodes.ExitCodeError{
			Code: exitcodes.ExitManifestInvalid,
			Err:  fmt.Errorf("failed to parse rendered manifests: %w", err),
		}
	}

	findings := set.CheckShape()

	vals, err := appvalues.FromDocument(merged)
	if err != nil {
		return &exitcodes.ExitCodeError{
			Code: exitcodes.ExitValuesInvalid,
			Err:  fmt.Errorf("values document does not match the chart schema: %w", err),
		}
	}
	findings = append(findings, set.CheckAgainstValues(vals)...)

	if len(findings) > 0 {
		msgs := make([]string, 0, len(findings))
		for _, f := range findings {
			msgs = append(msgs, f.String())
		}
		return &exitcodes.ExitCodeError{
			Code: exitcodes.ExitManifestInvalid,
			Err:  fmt.Errorf("manifest checks failed:\n%s", strings.Join(msgs, "\n")),
		}
	}
	return nil
}
