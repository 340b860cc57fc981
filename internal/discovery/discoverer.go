package discovery

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/temirov/lintfmt/internal/execshell"
)

const (
	gitDiffSubcommandConstant           = "diff"
	gitDiffFilterFlagConstant           = "--diff-filter=ACMRTUX"
	gitNameOnlyFlagConstant             = "--name-only"
	gitLsFilesSubcommandConstant        = "ls-files"
	gitOthersFlagConstant               = "--others"
	gitExcludeStandardFlagConstant      = "--exclude-standard"
	gitRevParseSubcommandConstant       = "rev-parse"
	gitShowTopLevelFlagConstant         = "--show-toplevel"
	outputLineSeparatorConstant         = "\n"
	gitExecutorMissingMessageConstant   = "git executor not configured"
	repositoryRootEmptyMessageConstant  = "git reported an empty repository root"
	changedFilesErrorTemplateConstant   = "unable to list files changed against %s: %w"
	untrackedFilesErrorTemplateConstant = "unable to list untracked files: %w"
	repositoryRootErrorTemplateConstant = "unable to resolve repository root: %w"
	excludeFileErrorTemplateConstant    = "unable to read exclude file %s: %w"
	carriageReturnConstant              = "\r"
	quotedPathDelimiterConstant         = `"`
)

// DefaultBaselineReference is the branch that changed files are compared against.
const DefaultBaselineReference = "master"

// ErrGitExecutorNotConfigured indicates that NewDiscoverer received a nil executor.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// ErrEmptyRepositoryRoot indicates git succeeded but printed no repository root.
var ErrEmptyRepositoryRoot = errors.New(repositoryRootEmptyMessageConstant)

// GitExecutor runs git and fails on non-zero exit codes.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Settings configures discovery. ExcludeFile names a gitignore-style file relative to the
// repository root; a missing file is ignored.
type Settings struct {
	Baseline        string
	GitBinary       string
	ExcludePatterns []string
	ExcludeFile     string
}

// Discoverer enumerates changed and untracked files through git.
type Discoverer struct {
	executor GitExecutor
	settings Settings
}

// NewDiscoverer constructs a Discoverer. A blank baseline selects DefaultBaselineReference.
func NewDiscoverer(executor GitExecutor, settings Settings) (*Discoverer, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	settings.Baseline = strings.TrimSpace(settings.Baseline)
	if len(settings.Baseline) == 0 {
		settings.Baseline = DefaultBaselineReference
	}
	return &Discoverer{executor: executor, settings: settings}, nil
}

// Discover returns changed files followed by untracked files, minus excluded paths.
func (discoverer *Discoverer) Discover(executionContext context.Context, repositoryRoot string) ([]string, error) {
	changedFiles, changedError := discoverer.ChangedFiles(executionContext, repositoryRoot)
	if changedError != nil {
		return nil, changedError
	}

	untrackedFiles, untrackedError := discoverer.UntrackedFiles(executionContext, repositoryRoot)
	if untrackedError != nil {
		return nil, untrackedError
	}

	discoveredFiles := append(changedFiles, untrackedFiles...)
	return discoverer.applyExclusions(repositoryRoot, discoveredFiles)
}

// ChangedFiles lists files added, copied, modified, renamed, retyped, unmerged, or unknown relative to the baseline.
func (discoverer *Discoverer) ChangedFiles(executionContext context.Context, repositoryRoot string) ([]string, error) {
	result, executionError := discoverer.executor.ExecuteGit(executionContext, discoverer.gitDetails(
		repositoryRoot,
		gitDiffSubcommandConstant,
		gitDiffFilterFlagConstant,
		gitNameOnlyFlagConstant,
		discoverer.settings.Baseline,
	))
	if executionError != nil {
		return nil, fmt.Errorf(changedFilesErrorTemplateConstant, discoverer.settings.Baseline, executionError)
	}
	return splitOutputLines(result.StandardOutput), nil
}

// UntrackedFiles lists files git does not track and does not ignore.
func (discoverer *Discoverer) UntrackedFiles(executionContext context.Context, repositoryRoot string) ([]string, error) {
	result, executionError := discoverer.executor.ExecuteGit(executionContext, discoverer.gitDetails(
		repositoryRoot,
		gitLsFilesSubcommandConstant,
		gitOthersFlagConstant,
		gitExcludeStandardFlagConstant,
	))
	if executionError != nil {
		return nil, fmt.Errorf(untrackedFilesErrorTemplateConstant, executionError)
	}
	return splitOutputLines(result.StandardOutput), nil
}

// RepositoryRoot asks git for the top-level directory of the working tree containing workingDirectory.
func (discoverer *Discoverer) RepositoryRoot(executionContext context.Context, workingDirectory string) (string, error) {
	result, executionError := discoverer.executor.ExecuteGit(executionContext, discoverer.gitDetails(
		workingDirectory,
		gitRevParseSubcommandConstant,
		gitShowTopLevelFlagConstant,
	))
	if executionError != nil {
		return "", fmt.Errorf(repositoryRootErrorTemplateConstant, executionError)
	}
	repositoryRoot := strings.TrimSpace(result.StandardOutput)
	if len(repositoryRoot) == 0 {
		return "", ErrEmptyRepositoryRoot
	}
	return filepath.Clean(repositoryRoot), nil
}

func (discoverer *Discoverer) gitDetails(workingDirectory string, arguments ...string) execshell.CommandDetails {
	return execshell.CommandDetails{
		Executable:       discoverer.settings.GitBinary,
		Arguments:        arguments,
		WorkingDirectory: workingDirectory,
	}
}

func (discoverer *Discoverer) applyExclusions(repositoryRoot string, filePaths []string) ([]string, error) {
	matcher, matcherError := discoverer.compileExclusions(repositoryRoot)
	if matcherError != nil {
		return nil, matcherError
	}
	if matcher == nil {
		return filePaths, nil
	}

	retainedPaths := make([]string, 0, len(filePaths))
	for _, filePath := range filePaths {
		if matcher.MatchesPath(filePath) {
			continue
		}
		retainedPaths = append(retainedPaths, filePath)
	}
	return retainedPaths, nil
}

func (discoverer *Discoverer) compileExclusions(repositoryRoot string) (*ignore.GitIgnore, error) {
	patterns := sanitizePatterns(discoverer.settings.ExcludePatterns)

	excludeFile := strings.TrimSpace(discoverer.settings.ExcludeFile)
	if len(excludeFile) > 0 {
		if !filepath.IsAbs(excludeFile) {
			excludeFile = filepath.Join(repositoryRoot, excludeFile)
		}
		matcher, compileError := ignore.CompileIgnoreFileAndLines(excludeFile, patterns...)
		switch {
		case compileError == nil:
			return matcher, nil
		case !errors.Is(compileError, fs.ErrNotExist):
			return nil, fmt.Errorf(excludeFileErrorTemplateConstant, excludeFile, compileError)
		}
	}

	if len(patterns) == 0 {
		return nil, nil
	}
	return ignore.CompileIgnoreLines(patterns...), nil
}

// splitOutputLines splits git output into paths, dropping blank entries.
// git C-quotes paths with special or non-ASCII bytes unless core.quotePath is off; those are unquoted.
func splitOutputLines(output string) []string {
	trimmedOutput := strings.TrimSpace(output)
	if len(trimmedOutput) == 0 {
		return []string{}
	}

	lines := strings.Split(trimmedOutput, outputLineSeparatorConstant)
	filePaths := make([]string, 0, len(lines))
	for _, line := range lines {
		filePath := strings.TrimRight(line, carriageReturnConstant)
		if len(strings.TrimSpace(filePath)) == 0 {
			continue
		}
		filePaths = append(filePaths, unquotePath(filePath))
	}
	return filePaths
}

func unquotePath(filePath string) string {
	if len(filePath) < 2 || !strings.HasPrefix(filePath, quotedPathDelimiterConstant) || !strings.HasSuffix(filePath, quotedPathDelimiterConstant) {
		return filePath
	}
	unquotedPath, unquoteError := strconv.Unquote(filePath)
	if unquoteError != nil {
		return filePath
	}
	return unquotedPath
}

func sanitizePatterns(rawPatterns []string) []string {
	patterns := make([]string, 0, len(rawPatterns))
	for _, rawPattern := range rawPatterns {
		pattern := strings.TrimSpace(rawPattern)
		if len(pattern) == 0 {
			continue
		}
		patterns = append(patterns, pattern)
	}
	return patterns
}
