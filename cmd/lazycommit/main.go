// Package main is the entry point for the lazycommit command.
package main

import (
	"fmt"
	"os"

	"github.com/chmouel/lazycommit/internal/buildinfo"
	"github.com/chmouel/lazycommit/internal/cli"
	"github.com/chmouel/lazycommit/internal/config"
	"github.com/chmouel/lazycommit/internal/git"
	"github.com/chmouel/lazycommit/internal/llm"
	"github.com/chmouel/lazycommit/internal/log"
	"github.com/chmouel/lazycommit/internal/utils"
	urfavecli "github.com/urfave/cli/v2"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	buildinfo.Set(version, commit, date, builtBy)
	buildinfo.Enrich()

	urfavecli.VersionPrinter = printVersion

	cliApp := &urfavecli.App{
		Name:                 "lazycommit",
		Usage:                "Generate and review git commit messages with a local language model",
		Version:              buildinfo.Version(),
		EnableBashCompletion: true,

		Flags: globalFlags(),

		Action: runCommit,

		BashComplete: completeGlobalFlags,
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// runCommit is the default action; there are no subcommands. It resolves the
// configuration, wires the git and model clients together and hands off to
// the commit pipeline.
func runCommit(c *urfavecli.Context) error {
	if c.NArg() > 0 {
		return fmt.Errorf("unexpected argument: %q", c.Args().First())
	}

	logger := log.New()

	cfg, err := config.LoadConfig(c.String("config-file"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		cfg = config.DefaultConfig()
	}

	// Git config overlays the file; a failure here only costs the overlay.
	if cfg, err = config.ApplyGitConfig(cfg, ""); err != nil {
		logger.Printf("config: git overlay skipped: %v", err)
	}

	// Apply CLI config overrides (highest precedence)
	if configOverrides := c.StringSlice("config"); len(configOverrides) > 0 {
		if cfg, err = config.ApplyCLIOverrides(cfg, configOverrides); err != nil {
			return fmt.Errorf("error applying config overrides: %w", err)
		}
	}

	if model := c.String("model"); model != "" {
		cfg.Model = model
	}
	if c.Bool("no-icons") {
		cfg.ShowIcons = false
	}

	setupDebugLog(c.String("debug-log"), cfg, logger)
	defer func() {
		if err := logger.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing debug log: %v\n", err)
		}
	}()

	gitSvc := git.NewService(cliNotify, cliNotifyOnce, logger)

	client, err := llm.NewOpenAIClient(llm.Settings{
		Model:   cfg.Model,
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
	}, logger)
	if err != nil {
		return err
	}

	result, err := cli.RunFromStdio(c.Context, gitSvc, client, cfg, "", c.Bool("yes"), c.Bool("dry-run"), logger)
	if err != nil {
		return err
	}

	if result == cli.ResultCancelled {
		// os.Exit skips deferred calls, so flush the debug log first.
		_ = logger.Close()
		os.Exit(1)
	}

	return nil
}

// setupDebugLog points the logger at its destination, flag over config.
// The logger buffers until the destination is known, so messages emitted
// while the config was being resolved still land in the file.
func setupDebugLog(flagPath string, cfg *config.AppConfig, logger *log.DebugLogger) {
	path := flagPath
	if path == "" {
		path = cfg.DebugLog
	}
	if path == "" {
		// No debug log configured, discard any buffered logs
		_ = logger.SetFile("")
		return
	}

	expanded, err := utils.ExpandPath(path)
	if err != nil {
		expanded = path
	}
	if err := logger.SetFile(expanded); err != nil {
		fmt.Fprintf(os.Stderr, "Error opening debug log file %q: %v\n", expanded, err)
	}
}

// cliNotify prints git notifications to stderr.
func cliNotify(message, severity string) {
	if severity == "error" {
		fmt.Fprintf(os.Stderr, "Error: %s\n", message)
		return
	}
	fmt.Fprintf(os.Stderr, "%s\n", message)
}

// cliNotifyOnce matches the dedup-capable notifier shape the git service
// expects; a single pipeline run never repeats a key, so it just delegates.
func cliNotifyOnce(_, message, severity string) {
	cliNotify(message, severity)
}

// printVersion prints enriched build metadata for --version.
func printVersion(_ *urfavecli.Context) {
	fmt.Printf("lazycommit %s (commit: %s, built: %s, by: %s)\n",
		buildinfo.Version(), buildinfo.Commit(), buildinfo.Date(), buildinfo.BuiltBy())
}
