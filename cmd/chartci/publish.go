package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chartci/chartci/pkg/exitcodes"
	"github.com/chartci/chartci/pkg/log"
	"github.com/chartci/chartci/pkg/pipeline"
	"github.com/chartci/chartci/pkg/registry"
	"github.com/chartci/chartci/pkg/version"
)

// newPublishCmd creates the publish command. Publishing is gated on tag
// refs: a branch ref is refused before any registry contact.
func newPublishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Push a packaged chart archive to the OCI registry",
		Long: `Push a packaged chart archive to the configured OCI registry.

Publishing is allowed only for tag refs (refs/tags/...). The tag must name
the same version as the chart archive. Credentials come from the environment
variable named in the publish config; they are never stored on disk.`,
		Args: cobra.NoArgs,
		RunE: runPublish,
	}

	cmd.Flags().String("archive", "", "Path to the packaged chart archive (.tgz)")
	cmd.Flags().String("publish-config", "", "Path to the publish config file")
	cmd.Flags().String("ref", "", "Git ref the publish runs for (must be refs/tags/...)")
	cmd.Flags().String("chart-name", "", "Chart name for the OCI reference")
	cmd.Flags().String("chart-version", "", "Chart version for the OCI reference")
	cmd.Flags().Bool("force", false, "Publish even when the ref is not a tag or does not match the chart version")

	return cmd
}

func runPublish(cmd *cobra.Command, _ []string) error {
	archive, err := getRequiredStringFlag(cmd, "archive")
	if err != nil {
		return err
	}
	configPath, err := getRequiredStringFlag(cmd, "publish-config")
	if err != nil {
		return err
	}
	ref, err := getRequiredStringFlag(cmd, "ref")
	if err != nil {
		return err
	}
	chartName, err := getRequiredStringFlag(cmd, "chart-name")
	if err != nil {
		return err
	}
	chartVersion, err := getRequiredStringFlag(cmd, "chart-version")
	if err != nil {
		return err
	}

	force, err := getBoolFlag(cmd, "force")
	if err != nil {
		return err
	}

	if force {
		log.Warn("Publishing with --force, ref gating bypassed", "ref", ref)
	} else {
		if !pipeline.Publishable(ref) {
			return &exitcodes.ExitCodeError{
				Code: exitcodes.ExitRefNotPublishable,
				Err:  fmt.Errorf("ref %s is not a tag ref; only refs/tags/* may publish", ref),
			}
		}
		matches, err := version.MatchesChart(ref, chartVersion)
		if err != nil {
			return &exitcodes.ExitCodeError{
				Code: exitcodes.ExitRefNotPublishable,
				Err:  err,
			}
		}
		if !matches {
			return &exitcodes.ExitCodeError{
				Code: exitcodes.ExitRefNotPublishable,
				Err:  fmt.Errorf("tag ref %s does not match chart version %s", ref, chartVersion),
			}
		}
	}

	cfg, err := registry.LoadPublishConfig(AppFs, configPath)
	if err != nil {
		return &exitcodes.ExitCodeError{
			Code: exitcodes.ExitPublishConfigInvalid,
			Err:  fmt.Errorf("invalid publish config %s: %w", configPath, err),
		}
	}
	password, err := cfg.Password()
	if err != nil {
		return &exitcodes.ExitCodeError{
			Code: exitcodes.ExitPublishConfigInvalid,
			Err:  fmt.Errorf("publish credentials unavailable: %w", err),
		}
	}

	client := getHelmClient()
	if err := client.Login(cmd.Context(), cfg.Registry, cfg.Username, password); err != nil {
		return err
	}

	remote := cfg.Remote(chartName, chartVersion)
	if err := client.PushChart(cmd.Context(), archive, remote); err != nil {
		return err
	}

	log.Info("Chart published", "remote", remote)
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Pushed %s\n", remote); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
