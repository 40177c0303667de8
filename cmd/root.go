package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"repo-export/config"
	"repo-export/gh"
	"repo-export/model"
	"repo-export/parse"
	"repo-export/ui"
)

var cmdFlags struct {
	ref         string
	token       string
	outputDir   string
	concurrency int
	ignores     []string
	debug       bool
}

var rootCmd = &cobra.Command{
	Use:   "repo-export [repository]",
	Short: "Export a GitHub repository's files into a single Markdown document",
	Long: "repo-export fetches a repository's file tree via the GitHub REST API,\n" +
		"filters out binaries, build artifacts and oversized files, and writes\n" +
		"the remaining contents into one timestamped Markdown document.",
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		setupLogging(cmdFlags.debug)

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		applyFlags(&cfg)

		ref, err := resolveRepo(args)
		if err != nil {
			return err
		}
		if cmdFlags.ref != "" {
			ref.Ref = cmdFlags.ref
		}

		return runExport(cmd.Context(), cfg, ref)
	},
}

func init() {
	rootCmd.Flags().StringVarP(&cmdFlags.ref, "ref", "r", "", "branch, tag or commit (defaults to HEAD)")
	rootCmd.Flags().StringVarP(&cmdFlags.token, "token", "t", "", "GitHub access token (defaults to GITHUB_TOKEN)")
	rootCmd.Flags().StringVarP(&cmdFlags.outputDir, "output-dir", "o", "", "directory for the generated document")
	rootCmd.Flags().IntVarP(&cmdFlags.concurrency, "concurrency", "c", 0, "number of concurrent content fetches")
	rootCmd.Flags().StringSliceVarP(&cmdFlags.ignores, "ignore", "i", nil, "additional ignore patterns (matched against file names)")
	rootCmd.Flags().BoolVar(&cmdFlags.debug, "debug", false, "enable debug logging")
}

// Execute runs the root command, printing diagnosis hints on fatal
// errors before exiting non-zero.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.PrintError(fmt.Sprintf("Error: %v", err))
		printSuggestions(err)
		os.Exit(1)
	}
}

func setupLogging(debug bool) {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

func applyFlags(cfg *config.Config) {
	if cmdFlags.token != "" {
		cfg.Token = cmdFlags.token
	}
	if cmdFlags.outputDir != "" {
		cfg.OutputDir = cmdFlags.outputDir
	}
	if cmdFlags.concurrency > 0 {
		cfg.Concurrency = cmdFlags.concurrency
	}
	cfg.ExtraIgnores = append(cfg.ExtraIgnores, cmdFlags.ignores...)
}

func resolveRepo(args []string) (model.RepoRef, error) {
	if len(args) > 0 {
		return parse.RepoInput(args[0])
	}
	ui.PrintHeader("GitHub Repository Exporter")
	return ui.PromptRepository()
}

func runExport(ctx context.Context, cfg config.Config, ref model.RepoRef) error {
	client := gh.NewClient(cfg.Token)

	info, err := client.FetchRepoInfo(ctx, ref.Owner, ref.Name)
	if err != nil {
		return err
	}
	if info.Private && cfg.Token == "" {
		ui.PrintWarning("Repository is private and no token is set; fetches will likely fail")
	}

	ui.PrintInfo(fmt.Sprintf("Fetching repository contents for %s...", ref))
	sum, err := exportRepo(ctx, client, cfg, ref)
	if err != nil {
		return err
	}

	if sum.OutputPath == "" {
		ui.PrintWarning("No files found in the repository or all files were skipped")
		return nil
	}

	ui.PrintSuccess(fmt.Sprintf("Export complete: %s", sum.OutputPath))
	ui.PrintDetail(fmt.Sprintf(
		"%d exported, %d skipped, %d failed",
		sum.Exported, sum.Skipped, sum.Failed,
	))
	if sum.Failed > 0 {
		ui.PrintWarning(fmt.Sprintf(
			"%d file(s) could not be fetched; see the Excluded Files section",
			sum.Failed,
		))
	}
	return nil
}

func printSuggestions(err error) {
	fmt.Println("\nPossible causes:")
	switch {
	case errors.Is(err, gh.ErrRepositoryNotFound):
		fmt.Println("  - Repository doesn't exist (check for typos)")
		fmt.Println("  - Repository is private (set GITHUB_TOKEN with repo access)")
	case errors.Is(err, gh.ErrRateLimitExceeded):
		fmt.Println("  - Rate limit exceeded; wait for the window to reset")
		fmt.Println("  - Set GITHUB_TOKEN to raise the limit")
	case errors.Is(err, gh.ErrInvalidToken):
		fmt.Println("  - The configured token was rejected; check its scopes and expiry")
	case errors.Is(err, parse.ErrInvalidInput):
		fmt.Println("  - Use 'owner/repo' or a full https://github.com/owner/repo URL")
	default:
		fmt.Println("  - Network issues or the GitHub API is down")
	}
}
