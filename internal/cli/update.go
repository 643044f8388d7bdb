package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/guiyumin/vdl/internal/version"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const repoSlug = "guiyumin/vdl"

var errDevBuild = errors.New("development builds cannot self-update")

func (a *App) updateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Update vdl to the latest release",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(cmd.Context(), cmd.OutOrStdout(), version.Version, a.log)
		},
	}
}

func runUpdate(ctx context.Context, out io.Writer, current string, log *zap.Logger) error {
	if current == "" || current == "dev" {
		return errDevBuild
	}

	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(repoSlug))
	if err != nil {
		return fmt.Errorf("failed to detect latest version: %w", err)
	}
	if !found {
		return fmt.Errorf("no release found for %s/%s", runtime.GOOS, runtime.GOARCH)
	}
	log.Debug("latest release", zap.String("version", latest.Version()), zap.String("asset", latest.AssetName))

	if latest.LessOrEqual(current) {
		fmt.Fprintf(out, "Already up to date (%s)\n", current)
		return nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("failed to locate executable: %w", err)
	}
	if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("failed to update binary: %w", err)
	}

	fmt.Fprintf(out, "Updated to %s\n", latest.Version())
	return nil
}
