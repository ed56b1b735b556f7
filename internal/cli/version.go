package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrz1836/beacon/internal/output"
	"github.com/mrz1836/beacon/internal/version"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level state
var (
	versionCheck bool

	// releaseChecker is replaced in tests.
	releaseChecker = version.NewChecker()
)

// versionCmd prints build information.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	versionCmd.Flags().BoolVar(&versionCheck, "check", false, "check GitHub for a newer release")
	rootCmd.AddCommand(versionCmd)
}

type versionResult struct {
	version.Info

	Latest    string `json:"latest,omitempty"`
	UpdateURL string `json:"update_url,omitempty"`
}

// formatVersion renders build info on one line.
func formatVersion(info version.Info) string {
	commit, date := info.Commit, info.Date
	if commit == "" {
		commit = "unknown"
	}
	if date == "" {
		date = "unknown"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s, %s %s)", info.Version, commit, date, info.GoVersion, info.Platform)
}

func runVersion(cmd *cobra.Command, _ []string) error {
	result := versionResult{Info: version.Current()}

	if versionCheck {
		ctx, cancel := contextWithTimeout(cmd, defaultQueryTimeout)
		defer cancel()

		rel, err := releaseChecker.Latest(ctx, version.Owner, version.Repo)
		if err != nil {
			return err
		}
		if version.IsNewer(result.Version, rel.TagName) {
			result.Latest = rel.TagName
			result.UpdateURL = rel.HTMLURL
		}
	}

	if formatter.IsJSON() {
		return formatter.Emit("", result)
	}

	if err := formatter.Emit(formatVersion(result.Info), result); err != nil {
		return err
	}
	if versionCheck {
		if result.Latest != "" {
			output.Warnf(cmd.OutOrStdout(), "A newer release is available: %s (%s)", result.Latest, result.UpdateURL)
		} else {
			output.Successf(cmd.OutOrStdout(), "You are on the latest release")
		}
	}
	return nil
}
