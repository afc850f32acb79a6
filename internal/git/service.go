// Package git wraps the git commands behind the lazycommit pipeline.
package git

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"slices"
	"strings"

	"github.com/chmouel/lazycommit/internal/log"
	"github.com/chmouel/lazycommit/internal/models"
)

// LookupPath is used to find executables in PATH. It's exposed as a package variable
// so tests can mock it and avoid depending on system binaries being installed.
var LookupPath = exec.LookPath

// NotifyFn receives ongoing notifications.
type NotifyFn func(message string, severity string)

// NotifyOnceFn reports deduplicated notification messages.
type NotifyOnceFn func(key string, message string, severity string)

// Service runs the git operations the commit pipeline needs: the status
// query, per-path staging, the staged-changes check, the name-status
// listing and the final commit.
type Service struct {
	notify     NotifyFn
	notifyOnce NotifyOnceFn
	logger     *log.DebugLogger
}

// NewService constructs a Service. The logger may be nil, which disables
// debug output.
func NewService(notify NotifyFn, notifyOnce NotifyOnceFn, logger *log.DebugLogger) *Service {
	return &Service{
		notify:     notify,
		notifyOnce: notifyOnce,
		logger:     logger,
	}
}

func (s *Service) debugf(format string, args ...any) {
	s.logger.Printf(format, args...)
}

func prepareAllowedCommand(ctx context.Context, args []string) (*exec.Cmd, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("no command provided")
	}

	switch args[0] {
	case "git":
		// #nosec G204 -- arguments for git command come from internal logic and are not shell interpolated
		return exec.CommandContext(ctx, "git", args[1:]...), nil
	default:
		return nil, fmt.Errorf("unsupported command %q", args[0])
	}
}

// RunGit executes a git command and optionally trims its output.
func (s *Service) RunGit(ctx context.Context, args []string, cwd string, okReturncodes []int, strip, silent bool) string {
	command := strings.Join(args, " ")
	if command == "" {
		command = "<empty>"
	}
	s.debugf("run: %s (cwd=%s)", command, cwd)

	cmd, err := prepareAllowedCommand(ctx, args)
	if err != nil {
		key := fmt.Sprintf("unsupported_cmd:%s", command)
		s.notifyOnce(key, fmt.Sprintf("Unsupported command: %s", command), "error")
		s.debugf("error: %s (unsupported command)", command)
		return ""
	}
	if cwd != "" {
		cmd.Dir = cwd
	}

	output, err := cmd.Output()
	if err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			returnCode := exitError.ExitCode()
			allowed := slices.Contains(okReturncodes, returnCode)
			if !allowed {
				if silent {
					s.debugf("error: %s (exit %d, silenced)", command, returnCode)
					return ""
				}
				stderr := string(exitError.Stderr)
				suffix := ""
				if stderr != "" {
					suffix = ": " + strings.TrimSpace(stderr)
				} else {
					suffix = fmt.Sprintf(" (exit %d)", returnCode)
				}
				key := fmt.Sprintf("git_fail:%s:%s", cwd, command)
				s.notifyOnce(key, fmt.Sprintf("Command failed: %s%s", command, suffix), "error")
				s.debugf("error: %s%s", command, suffix)
				return ""
			}
		} else {
			if !silent {
				command := "<unknown>"
				if len(args) > 0 {
					command = args[0]
				}
				key := fmt.Sprintf("cmd_missing:%s", command)
				s.notifyOnce(key, fmt.Sprintf("Command not found: %s", command), "error")
				s.debugf("error: command not found: %s", command)
			}
			return ""
		}
	}

	out := string(output)
	if strip {
		out = strings.TrimSpace(out)
	}
	s.debugf("ok: %s", command)
	return out
}

// RunCommandChecked runs the provided git command and reports failures via notify callbacks.
func (s *Service) RunCommandChecked(ctx context.Context, args []string, cwd, errorPrefix string) bool {
	command := strings.Join(args, " ")
	if command == "" {
		command = "<empty>"
	}
	s.debugf("run: %s (cwd=%s)", command, cwd)

	cmd, err := prepareAllowedCommand(ctx, args)
	if err != nil {
		message := fmt.Sprintf("%s: %v", errorPrefix, err)
		if errorPrefix == "" {
			message = fmt.Sprintf("command error: %v", err)
		}
		s.notify(message, "error")
		s.debugf("error: %s", message)
		return false
	}
	if cwd != "" {
		cmd.Dir = cwd
	}

	output, err := cmd.CombinedOutput()
	if err != nil {
		detail := strings.TrimSpace(string(output))
		if detail != "" {
			s.notify(fmt.Sprintf("%s: %s", errorPrefix, detail), "error")
			s.debugf("error: %s: %s", errorPrefix, detail)
		} else {
			s.notify(fmt.Sprintf("%s: %v", errorPrefix, err), "error")
			s.debugf("error: %s: %v", errorPrefix, err)
		}
		return false
	}

	s.debugf("ok: %s", command)
	return true
}

// runChecked runs a git command and returns the combined output as error
// detail on failure. Used by the operations whose failures must stop the
// pipeline instead of just notifying.
func (s *Service) runChecked(ctx context.Context, args []string, cwd string, stdin io.Reader) error {
	command := strings.Join(args, " ")
	s.debugf("run: %s (cwd=%s)", command, cwd)

	cmd, err := prepareAllowedCommand(ctx, args)
	if err != nil {
		return err
	}
	if cwd != "" {
		cmd.Dir = cwd
	}
	if stdin != nil {
		cmd.Stdin = stdin
	}

	output, err := cmd.CombinedOutput()
	if err != nil {
		detail := strings.TrimSpace(string(output))
		s.debugf("error: %s: %v", command, err)
		if detail != "" {
			return fmt.Errorf("%s", detail)
		}
		return err
	}

	s.debugf("ok: %s", command)
	return nil
}

// IsInsideWorkTree reports whether cwd is inside a git working tree.
func (s *Service) IsInsideWorkTree(ctx context.Context, cwd string) bool {
	out := s.RunGit(ctx, []string{"git", "rev-parse", "--is-inside-work-tree"}, cwd, []int{0}, true, true)
	return out == "true"
}

// ChangedFiles returns the working tree entries reported by git status in
// porcelain short format, in output order.
func (s *Service) ChangedFiles(ctx context.Context, cwd string) []models.StatusFile {
	statusRaw := s.RunGit(ctx, []string{"git", "status", "--porcelain"}, cwd, []int{0}, false, false)
	return parseStatusFiles(statusRaw)
}

// StageFiles stages each path with its own git add invocation. A path
// that fails to stage is reported through the notify callback and does
// not stop the rest of the batch; HasStagedChanges decides what happens
// next. Returns the number of paths staged.
func (s *Service) StageFiles(ctx context.Context, cwd string, paths []string) int {
	staged := 0
	for _, path := range paths {
		if s.RunCommandChecked(ctx, []string{"git", "add", "--", path}, cwd, fmt.Sprintf("Failed to stage %q", path)) {
			staged++
		}
	}
	return staged
}

// HasStagedChanges reports whether the index differs from HEAD.
// git diff --cached --quiet exits 0 for an empty index and 1 when staged
// changes exist; both are regular outcomes, anything else is an error.
func (s *Service) HasStagedChanges(ctx context.Context, cwd string) (bool, error) {
	args := []string{"git", "diff", "--cached", "--quiet"}
	command := strings.Join(args, " ")
	s.debugf("run: %s (cwd=%s)", command, cwd)

	cmd, err := prepareAllowedCommand(ctx, args)
	if err != nil {
		return false, err
	}
	if cwd != "" {
		cmd.Dir = cwd
	}

	if err := cmd.Run(); err != nil {
		if exitError, ok := err.(*exec.ExitError); ok && exitError.ExitCode() == 1 {
			s.debugf("ok: %s (staged changes present)", command)
			return true, nil
		}
		s.debugf("error: %s: %v", command, err)
		return false, fmt.Errorf("check staged changes: %w", err)
	}

	s.debugf("ok: %s (index clean)", command)
	return false, nil
}

// StagedNameStatus returns the staged diff as a trimmed name-status
// listing. Callers check HasStagedChanges first, so an empty listing
// here means the underlying git invocation failed.
func (s *Service) StagedNameStatus(ctx context.Context, cwd string) (string, error) {
	out := s.RunGit(ctx, []string{"git", "diff", "--cached", "--name-status"}, cwd, []int{0}, true, false)
	if out == "" {
		return "", fmt.Errorf("staged diff listing came back empty")
	}
	return out, nil
}

// Commit records the staged changes with the given message. The message
// travels verbatim on stdin so git never reinterprets it.
func (s *Service) Commit(ctx context.Context, cwd, message string) error {
	if err := s.runChecked(ctx, []string{"git", "commit", "-F", "-"}, cwd, strings.NewReader(message)); err != nil {
		return fmt.Errorf("git commit: %w", err)
	}
	return nil
}

// parseStatusFiles parses git status --porcelain output. Each line is
// "XY path" with a two-character status code; "??" marks untracked
// entries. Lines too short to carry a code and a path are skipped.
func parseStatusFiles(statusRaw string) []models.StatusFile {
	statusRaw = strings.TrimRight(statusRaw, "\n")
	if strings.TrimSpace(statusRaw) == "" {
		return nil
	}

	statusLines := strings.Split(statusRaw, "\n")
	parsedFiles := make([]models.StatusFile, 0, len(statusLines))
	for _, line := range statusLines {
		if len(line) < 4 {
			continue
		}

		status := line[:2]
		filename := line[3:]

		// Renames list both paths; the new path is the one to stage.
		if _, after, found := strings.Cut(filename, " -> "); found {
			filename = after
		}

		parsedFiles = append(parsedFiles, models.StatusFile{
			Filename:    filename,
			Status:      status,
			IsUntracked: status == "??",
		})
	}

	return parsedFiles
}

// ParseNameStatus parses name-status diff output into commit files.
// Format: "M\tpath" or "R100\told\tnew" for renames.
func ParseNameStatus(raw string) []models.CommitFile {
	lines := strings.Split(raw, "\n")
	files := make([]models.CommitFile, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		parts := strings.Split(line, "\t")
		if len(parts) < 2 {
			continue
		}

		changeType := parts[0]
		filename := parts[1]
		oldPath := ""

		// Handle renames (R100) and copies (C100)
		if len(changeType) > 1 && (changeType[0] == 'R' || changeType[0] == 'C') {
			changeType = string(changeType[0])
			if len(parts) >= 3 {
				oldPath = parts[1]
				filename = parts[2]
			}
		}

		files = append(files, models.CommitFile{
			Filename:   filename,
			ChangeType: changeType,
			OldPath:    oldPath,
		})
	}
	return files
}
