package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/chmouel/lazycommit/internal/config"
	"github.com/chmouel/lazycommit/internal/llm"
	"github.com/chmouel/lazycommit/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func workTreeWithChanges() *fakeGitService {
	return &fakeGitService{
		insideWorkTree: true,
		changed: []models.StatusFile{
			{Filename: "foo.py", Status: " M"},
			{Filename: "bar.py", Status: "??", IsUntracked: true},
		},
		hasStaged: true,
		listing:   "M\tfoo.py\nA\tbar.py",
	}
}

func TestRun_AcceptCommitsDraftVerbatim(t *testing.T) {
	ctx := context.Background()
	gitSvc := workTreeWithChanges()
	client := &llm.MockClient{Responses: []string{"Update foo and add bar"}}
	opts, _, stderr := testOptions("a\n")

	result, err := Run(ctx, gitSvc, client, config.DefaultConfig(), opts)
	require.NoError(t, err)
	assert.Equal(t, ResultCommitted, result)

	assert.Equal(t, []string{"foo.py", "bar.py"}, gitSvc.stagedPaths)
	assert.Equal(t, 1, client.Calls)
	require.Len(t, gitSvc.commits, 1)
	assert.Equal(t, "Update foo and add bar", gitSvc.commits[0])
	assert.Contains(t, stderr.String(), "✓ Committed.")
}

func TestRun_NothingToCommit(t *testing.T) {
	ctx := context.Background()
	gitSvc := &fakeGitService{
		insideWorkTree: true,
		hasStaged:      false,
	}
	client := &llm.MockClient{Responses: []string{"never used"}}
	opts, _, stderr := testOptions("")

	result, err := Run(ctx, gitSvc, client, config.DefaultConfig(), opts)
	require.NoError(t, err)
	assert.Equal(t, ResultNothingToCommit, result)

	assert.Equal(t, 0, client.Calls)
	assert.Empty(t, gitSvc.commits)
	assert.Contains(t, stderr.String(), "No changes to commit.")
}

func TestRun_CancelOnFirstPrompt(t *testing.T) {
	ctx := context.Background()
	gitSvc := workTreeWithChanges()
	client := &llm.MockClient{Responses: []string{"A draft"}}
	opts, _, stderr := testOptions("c\n")

	result, err := Run(ctx, gitSvc, client, config.DefaultConfig(), opts)
	require.NoError(t, err)
	assert.Equal(t, ResultCancelled, result)

	assert.Equal(t, 1, client.Calls)
	assert.Empty(t, gitSvc.commits)
	assert.Contains(t, stderr.String(), "Cancelled.")
}

func TestRun_RegenerateCallsGeneratorAgain(t *testing.T) {
	ctx := context.Background()
	gitSvc := workTreeWithChanges()
	client := &llm.MockClient{Responses: []string{"First draft", "Second draft"}}
	opts, _, _ := testOptions("r\na\n")

	result, err := Run(ctx, gitSvc, client, config.DefaultConfig(), opts)
	require.NoError(t, err)
	assert.Equal(t, ResultCommitted, result)

	assert.Equal(t, 2, client.Calls)
	require.Len(t, gitSvc.commits, 1)
	assert.Equal(t, "Second draft", gitSvc.commits[0])
}

func TestRun_EmptyEditKeepsDraftThenCancel(t *testing.T) {
	ctx := context.Background()
	gitSvc := workTreeWithChanges()
	client := &llm.MockClient{Responses: []string{"Original draft"}}
	opts, _, stderr := testOptions("e\n\nc\n")

	result, err := Run(ctx, gitSvc, client, config.DefaultConfig(), opts)
	require.NoError(t, err)
	assert.Equal(t, ResultCancelled, result)

	assert.Equal(t, 1, client.Calls)
	assert.Empty(t, gitSvc.commits)
	assert.Contains(t, stderr.String(), "Empty message, keeping current draft.")
}

func TestRun_EditCommitsReplacement(t *testing.T) {
	ctx := context.Background()
	gitSvc := workTreeWithChanges()
	client := &llm.MockClient{Responses: []string{"Generated draft"}}
	opts, _, _ := testOptions("e\nHand-written message\n")

	result, err := Run(ctx, gitSvc, client, config.DefaultConfig(), opts)
	require.NoError(t, err)
	assert.Equal(t, ResultCommitted, result)

	require.Len(t, gitSvc.commits, 1)
	assert.Equal(t, "Hand-written message", gitSvc.commits[0])
}

func TestRun_NotInsideWorkTree(t *testing.T) {
	ctx := context.Background()
	gitSvc := &fakeGitService{insideWorkTree: false}
	client := &llm.MockClient{}
	opts, _, _ := testOptions("")

	_, err := Run(ctx, gitSvc, client, config.DefaultConfig(), opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not inside a git work tree")
	assert.Equal(t, 0, client.Calls)
}

func TestRun_AutoAcceptSkipsReview(t *testing.T) {
	ctx := context.Background()
	gitSvc := workTreeWithChanges()
	client := &llm.MockClient{Responses: []string{"Auto-accepted draft"}}
	opts, _, _ := testOptions("c\n") // would cancel if the menu ran
	opts.AutoAccept = true

	result, err := Run(ctx, gitSvc, client, config.DefaultConfig(), opts)
	require.NoError(t, err)
	assert.Equal(t, ResultCommitted, result)

	require.Len(t, gitSvc.commits, 1)
	assert.Equal(t, "Auto-accepted draft", gitSvc.commits[0])
}

func TestRun_DryRunPrintsWithoutCommitting(t *testing.T) {
	ctx := context.Background()
	gitSvc := workTreeWithChanges()
	client := &llm.MockClient{Responses: []string{"Dry run draft"}}
	opts, stdout, _ := testOptions("a\n")
	opts.DryRun = true

	result, err := Run(ctx, gitSvc, client, config.DefaultConfig(), opts)
	require.NoError(t, err)
	assert.Equal(t, ResultCommitted, result)

	assert.Empty(t, gitSvc.commits)
	assert.Equal(t, "Dry run draft\n", stdout.String())
}

func TestRun_CommitFailurePropagates(t *testing.T) {
	ctx := context.Background()
	gitSvc := workTreeWithChanges()
	gitSvc.commitErr = errors.New("git commit: pre-commit hook failed")
	client := &llm.MockClient{Responses: []string{"Doomed draft"}}
	opts, _, _ := testOptions("a\n")

	result, err := Run(ctx, gitSvc, client, config.DefaultConfig(), opts)
	require.Error(t, err)
	assert.Equal(t, ResultCancelled, result)
	assert.Contains(t, err.Error(), "pre-commit hook failed")
}

func TestRun_GeneratorFailurePropagates(t *testing.T) {
	ctx := context.Background()
	gitSvc := workTreeWithChanges()
	client := &llm.MockClient{Err: errors.New("connection refused")}
	opts, _, _ := testOptions("")

	result, err := Run(ctx, gitSvc, client, config.DefaultConfig(), opts)
	require.Error(t, err)
	assert.Equal(t, ResultCancelled, result)
	assert.Contains(t, err.Error(), "generate commit message")
	assert.Empty(t, gitSvc.commits)
}

func TestRun_StagedChangesCheckFailurePropagates(t *testing.T) {
	ctx := context.Background()
	gitSvc := &fakeGitService{
		insideWorkTree: true,
		hasStagedErr:   errors.New("check staged changes: exit status 128"),
	}
	client := &llm.MockClient{}
	opts, _, _ := testOptions("")

	_, err := Run(ctx, gitSvc, client, config.DefaultConfig(), opts)
	require.Error(t, err)
	assert.Equal(t, 0, client.Calls)
}

func TestRun_AutoStageDisabled(t *testing.T) {
	ctx := context.Background()
	gitSvc := workTreeWithChanges()
	client := &llm.MockClient{Responses: []string{"Commit staged only"}}
	cfg := config.DefaultConfig()
	cfg.AutoStage = false
	opts, _, _ := testOptions("a\n")

	result, err := Run(ctx, gitSvc, client, cfg, opts)
	require.NoError(t, err)
	assert.Equal(t, ResultCommitted, result)

	assert.False(t, gitSvc.changedCalled)
	assert.Empty(t, gitSvc.stagedPaths)
	require.Len(t, gitSvc.commits, 1)
}

func TestRun_ListingTruncatedBeforePrompt(t *testing.T) {
	ctx := context.Background()
	gitSvc := workTreeWithChanges()
	gitSvc.listing = "M\tfirst.go\nM\tsecond.go\nM\tthird.go"
	client := &llm.MockClient{Responses: []string{"Trim the listing"}}
	cfg := config.DefaultConfig()
	cfg.MaxSummaryChars = 15
	opts, _, _ := testOptions("a\n")

	_, err := Run(ctx, gitSvc, client, cfg, opts)
	require.NoError(t, err)

	require.Len(t, client.Prompts, 1)
	assert.Contains(t, client.Prompts[0].User, "[truncated]")
	assert.NotContains(t, client.Prompts[0].User, "third.go")
}
