package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chmouel/lazycommit/internal/config"
	"github.com/chmouel/lazycommit/internal/git"
	"github.com/chmouel/lazycommit/internal/llm"
	"github.com/chmouel/lazycommit/internal/log"
	"github.com/chmouel/lazycommit/internal/models"
	"github.com/chmouel/lazycommit/internal/theme"
)

var osGetwd = os.Getwd

// Result is the terminal outcome of one commit run. Exit codes are
// derived from it in main: committed and nothing-to-commit exit 0,
// cancelled exits 1.
type Result int

const (
	ResultCancelled Result = iota
	ResultCommitted
	ResultNothingToCommit
)

type gitService interface {
	IsInsideWorkTree(ctx context.Context, cwd string) bool
	ChangedFiles(ctx context.Context, cwd string) []models.StatusFile
	StageFiles(ctx context.Context, cwd string, paths []string) int
	HasStagedChanges(ctx context.Context, cwd string) (bool, error)
	StagedNameStatus(ctx context.Context, cwd string) (string, error)
	Commit(ctx context.Context, cwd string, message string) error
}

var _ gitService = (*git.Service)(nil)

// Options tunes a single Run invocation.
type Options struct {
	RepoPath   string
	AutoAccept bool // commit the first draft without the review menu
	DryRun     bool // print the chosen message instead of committing
	Stdin      io.Reader
	Stdout     io.Writer
	Stderr     io.Writer
	Logger     *log.DebugLogger
}

// Run executes one commit round: stage modified and untracked files,
// check the index, build a draft from the staged name-status listing,
// review it, commit. The generator is invoked once up front and again
// for every regenerate choice; drafts are never cached.
func Run(ctx context.Context, gitSvc gitService, client llm.Client, cfg *config.AppConfig, opts Options) (Result, error) {
	logger := opts.Logger
	thm := theme.Default()

	repoPath := opts.RepoPath
	if repoPath == "" {
		var err error
		repoPath, err = osGetwd()
		if err != nil {
			return ResultCancelled, fmt.Errorf("failed to get working directory: %w", err)
		}
	}

	if !gitSvc.IsInsideWorkTree(ctx, repoPath) {
		return ResultCancelled, fmt.Errorf("not inside a git work tree: %s", repoPath)
	}

	if cfg.AutoStage {
		stageChanges(ctx, gitSvc, repoPath, logger)
	}

	staged, err := gitSvc.HasStagedChanges(ctx, repoPath)
	if err != nil {
		return ResultCancelled, err
	}
	if !staged {
		logger.Printf("pipeline: index empty, nothing to commit")
		fmt.Fprintln(opts.Stderr, "No changes to commit.")
		return ResultNothingToCommit, nil
	}

	listing, err := gitSvc.StagedNameStatus(ctx, repoPath)
	if err != nil {
		return ResultCancelled, err
	}
	listing = llm.TruncateListing(listing, cfg.MaxSummaryChars)

	renderChangedFiles(opts.Stderr, thm, git.ParseNameStatus(listing), cfg.ShowIcons)

	generate := func() (string, error) {
		raw, err := client.Complete(ctx, llm.BuildPrompt(listing, cfg.MessageStyle))
		if err != nil {
			return "", fmt.Errorf("generate commit message: %w", err)
		}
		return llm.ExtractMessage(raw)
	}

	fmt.Fprintf(opts.Stderr, "Generating commit message...\n")
	draft, err := generate()
	if err != nil {
		return ResultCancelled, err
	}
	logger.Printf("pipeline: draft ready (%d chars)", len(draft))

	message := draft
	if opts.AutoAccept {
		renderDraft(opts.Stderr, thm, message)
	} else {
		var cancelled bool
		message, cancelled, err = reviewLoop(draft, generate, opts.Stdin, opts.Stderr, thm, logger)
		if err != nil {
			return ResultCancelled, err
		}
		if cancelled {
			fmt.Fprintln(opts.Stderr, "Cancelled.")
			return ResultCancelled, nil
		}
	}

	if opts.DryRun {
		logger.Printf("pipeline: dry run, skipping commit")
		fmt.Fprintln(opts.Stdout, message)
		return ResultCommitted, nil
	}

	if err := gitSvc.Commit(ctx, repoPath, message); err != nil {
		return ResultCancelled, err
	}

	logger.Printf("pipeline: committed %q", message)
	fmt.Fprintf(opts.Stderr, "✓ Committed.\n")
	return ResultCommitted, nil
}

// RunFromStdio is a convenience wrapper using os.Stdin/os.Stdout/os.Stderr.
func RunFromStdio(ctx context.Context, gitSvc gitService, client llm.Client, cfg *config.AppConfig, repoPath string, autoAccept, dryRun bool, logger *log.DebugLogger) (Result, error) {
	return Run(ctx, gitSvc, client, cfg, Options{
		RepoPath:   repoPath,
		AutoAccept: autoAccept,
		DryRun:     dryRun,
		Stdin:      os.Stdin,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		Logger:     logger,
	})
}

// stageChanges stages every modified or untracked working-tree entry.
// Paths that fail to stage are reported by the service and skipped; the
// staged-changes check afterwards decides whether the run continues.
func stageChanges(ctx context.Context, gitSvc gitService, repoPath string, logger *log.DebugLogger) {
	files := gitSvc.ChangedFiles(ctx, repoPath)
	paths := stageCandidates(files)
	if len(paths) == 0 {
		logger.Printf("pipeline: no stage candidates among %d entr(ies)", len(files))
		return
	}

	staged := gitSvc.StageFiles(ctx, repoPath, paths)
	logger.Printf("pipeline: staged %d of %d candidate file(s)", staged, len(paths))
}

// stageCandidates filters the status listing down to the entries worth
// staging: anything with a modification in either column, plus
// untracked files. Deletions stay unstaged.
func stageCandidates(files []models.StatusFile) []string {
	paths := make([]string, 0, len(files))
	for _, f := range files {
		if f.IsUntracked || strings.Contains(f.Status, "M") {
			paths = append(paths, f.Filename)
		}
	}
	return paths
}
