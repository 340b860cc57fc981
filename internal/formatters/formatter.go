package formatters

import (
	"context"

	"github.com/temirov/lintfmt/internal/execshell"
)

// Formatter checks or rewrites a single file.
type Formatter interface {
	Name() string
	Check(executionContext context.Context, filePath string) (bool, error)
	Apply(executionContext context.Context, filePath string) error
}

// NativeToolExecutor runs clang-format.
type NativeToolExecutor interface {
	RunClangFormat(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// ScriptToolExecutor runs black.
type ScriptToolExecutor interface {
	RunBlack(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// ExitCodePolicy names the one non-zero exit code that means "needs formatting".
// The zero value treats every non-zero exit as a failure.
type ExitCodePolicy struct {
	NeedsFormattingExitCode int
}

// InterpretExitCode reports whether the file is formatted according to the exit code.
// Exit code zero means formatted, the policy code means unformatted, and anything else fails with CommandFailedError.
func InterpretExitCode(command execshell.ShellCommand, result execshell.ExecutionResult, policy ExitCodePolicy) (bool, error) {
	switch {
	case result.ExitCode == 0:
		return true, nil
	case policy.NeedsFormattingExitCode != 0 && result.ExitCode == policy.NeedsFormattingExitCode:
		return false, nil
	default:
		return false, result.RequireSuccess(command)
	}
}
