package cmd

import (
	"fmt"
	"runtime"

	"github.com/blang/semver"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

const defaultUpdateRepository = "s0up4200/freshlearn"

var (
	appVersion = "dev"
	buildTime  = "unknown"

	updateRepository string
	checkOnly        bool
)

// SetVersion records the build metadata injected by main
func SetVersion(version, built string) {
	appVersion = version
	buildTime = built
	rootCmd.Version = version
}

// skipInit lets a command run without loading config or building a client
func skipInit(cmd *cobra.Command, args []string) error {
	return nil
}

var versionCmd = &cobra.Command{
	Use:               "version",
	Short:             "Print version information",
	PersistentPreRunE: skipInit,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "freshlearn %s\n", appVersion)
		fmt.Fprintf(out, "Built:  %s\n", buildTime)
		fmt.Fprintf(out, "Go:     %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)

		if _, err := parseVersion(appVersion); err != nil {
			fmt.Fprintln(out, "(development build)")
		}
		return nil
	},
}

var updateCmd = &cobra.Command{
	Use:               "update",
	Short:             "Update freshlearn to the latest release",
	PersistentPreRunE: skipInit,
	RunE:              runUpdate,
}

func init() {
	updateCmd.Flags().StringVar(&updateRepository, "repository", defaultUpdateRepository, "GitHub repository to fetch releases from")
	updateCmd.Flags().BoolVar(&checkOnly, "check", false, "only report whether a newer release exists")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

// parseVersion accepts tags with or without a leading "v"
func parseVersion(v string) (semver.Version, error) {
	return semver.ParseTolerant(v)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	current, err := parseVersion(appVersion)
	if err != nil {
		return fmt.Errorf("cannot update a development build (version %q)", appVersion)
	}

	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(updateRepository))
	if err != nil {
		return fmt.Errorf("failed to detect latest release: %w", err)
	}
	if !found {
		return fmt.Errorf("no release found for %s/%s in %s", runtime.GOOS, runtime.GOARCH, updateRepository)
	}

	if latest.LessOrEqual(current.String()) {
		fmt.Fprintf(out, "✓ freshlearn %s is up to date\n", current)
		return nil
	}

	if checkOnly {
		fmt.Fprintf(out, "A newer release is available: %s (current %s)\n", latest.Version(), current)
		return nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("could not locate executable path: %w", err)
	}

	if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("failed to update binary: %w", err)
	}

	fmt.Fprintf(out, "✓ Updated freshlearn %s -> %s\n", current, latest.Version())
	return nil
}
