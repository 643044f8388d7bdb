package cli

import (
	"fmt"
	"os"

	"github.com/guiyumin/vdl/internal/config"
	"github.com/guiyumin/vdl/internal/downloader"
	"github.com/spf13/cobra"
)

func (a *App) configCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage vdl configuration",
		Long:  "View and modify vdl settings stored in config.yml",
	}

	// vdl config show - show current config
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			out := cmd.OutOrStdout()

			outputDir := cfg.OutputDir
			if outputDir == "" {
				if def, err := downloader.DefaultOutputDir(); err == nil {
					outputDir = def + " (default)"
				}
			}

			fmt.Fprintln(out, "Current configuration:")
			fmt.Fprintf(out, "  Language:   %s\n", cfg.Language)
			fmt.Fprintf(out, "  OutputDir:  %s\n", outputDir)
			fmt.Fprintf(out, "  Quality:    %s\n", orDefault(cfg.Quality, "(auto)"))
			fmt.Fprintf(out, "  Proxy:      %s\n", orDefault(cfg.Proxy, "(none)"))
			fmt.Fprintf(out, "  Verbose:    %t\n", cfg.Verbose)
			fmt.Fprintln(out, "\nyt-dlp:")
			fmt.Fprintf(out, "  Path:        %s\n", orDefault(cfg.YtDlp.Path, "(PATH)"))
			fmt.Fprintf(out, "  AutoInstall: %t\n", cfg.YtDlp.AutoInstall)
			fmt.Fprintf(out, "  Cookies:     %s\n", orDefault(cfg.YtDlp.Cookies, "(none)"))
			fmt.Fprintf(out, "\n  Config:     %s\n", orDefault(a.configPath, "(unavailable)"))
			return nil
		},
	}

	// vdl config path - show config file path
	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Show config file path",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), a.configPath)
		},
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with default values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(a.configPath); err == nil {
				return fmt.Errorf("config already exists: %s", a.configPath)
			}
			if err := config.SaveTo(config.Default(), a.configPath); err != nil {
				return fmt.Errorf("failed to save: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Config written to %s\n", a.configPath)
			return nil
		},
	}

	getCmd := &cobra.Command{
		Use:               "get <key>",
		Short:             "Print a config value",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeKeys,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.cfg.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}

	setCmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a config value",
		Long: `Set a config value and save the config file.

Keys:
  language            zh | en
  output_dir          default output directory
  quality             default format selector
  proxy               proxy URL passed to yt-dlp
  verbose             true | false
  ytdlp.path          yt-dlp executable
  ytdlp.auto_install  true | false, download yt-dlp when missing
  ytdlp.cookies       cookies.txt passed to yt-dlp

Examples:
  vdl config set language en
  vdl config set ytdlp.auto_install true`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeKeys,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfgErr != nil {
				return fmt.Errorf("not overwriting %s until it parses: %w", a.configPath, a.cfgErr)
			}
			if err := a.cfg.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := config.SaveTo(a.cfg, a.configPath); err != nil {
				return fmt.Errorf("failed to save: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], args[1])
			return nil
		},
	}

	configCmd.AddCommand(showCmd, pathCmd, initCmd, getCmd, setCmd)
	return configCmd
}

// completeKeys offers config keys for the first argument
func completeKeys(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return config.Keys, cobra.ShellCompDirectiveNoFileComp
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
