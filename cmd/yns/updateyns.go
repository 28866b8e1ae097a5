package main

import (
	"errors"
	"fmt"

	"github.com/spitkov/yns/internal/common/config"
	"github.com/spitkov/yns/internal/common/github"
	"github.com/spitkov/yns/internal/common/logger"
	"github.com/spitkov/yns/internal/common/output"
	"github.com/spitkov/yns/internal/selfupdate"
	"github.com/spf13/cobra"
)

var updateYnsCmd = &cobra.Command{
	Use:   "updateyns",
	Short: "Update yns itself",
	Long: `Check the latest GitHub release of yns and replace the running binary
when the release version differs from this one.`,
	Args:        cobra.NoArgs,
	Annotations: rootOnly(),
	Run:         runUpdateYns,
}

func init() {
	rootCmd.AddCommand(updateYnsCmd)
}

func runUpdateYns(cmd *cobra.Command, args []string) {
	a := newApp(cmd.Context(), cfg)
	ctx := cmd.Context()

	client := newReleaseClient(cfg, a.fetcher)
	updater := selfupdate.NewUpdater(client, a.fetcher, cfg.SelfUpdate.Repository)

	a.term.Progress("Checking for yns updates", 0)
	check, err := updater.Check(ctx)
	if err != nil {
		if errors.Is(err, github.ErrRateLimit) {
			if remaining, reset, rlErr := client.GetRateLimitInfo(ctx); rlErr == nil {
				logger.Warn("GitHub API rate limit low: %d requests remaining (resets at %s)",
					remaining, reset.Format("15:04:05"))
			}
		}
		a.fail(err)
	}

	if !check.UpgradeAvailable {
		a.term.Success("yns is already up to date (%s)", check.CurrentVersion)
		return
	}

	if !quiet {
		output.Box("yns update available", fmt.Sprintf("%s -> %s", check.CurrentVersion, check.LatestVersion))
	}
	if !a.term.Confirm(ctx, "Would you like to update yns?") {
		if ctx.Err() != nil {
			a.fail(ctx.Err())
		}
		a.term.Success("Keeping current version %s", check.CurrentVersion)
		return
	}

	a.term.Progress("Downloading "+check.Asset.Name, 50)
	if err := updater.Apply(ctx, check); err != nil {
		a.fail(err)
	}
	a.term.Progress("Downloading "+check.Asset.Name, 100)
	a.term.Success("yns updated to version %s", check.LatestVersion)
}

// newReleaseClient builds the GitHub client on the configured fetcher so
// release lookups get the same timeout and retries as downloads
func newReleaseClient(c *config.Config, doer github.Doer) *github.Client {
	client := github.NewClient()
	client.Token = c.SelfUpdate.Token
	client.HTTPClient = doer
	return client
}
