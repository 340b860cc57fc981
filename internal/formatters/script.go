package formatters

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/lintfmt/internal/execshell"
)

const (
	scriptFormatterNameConstant            = "black"
	scriptQuietFlagConstant                = "-q"
	scriptCheckFlagConstant                = "--check"
	scriptTargetVersionFlagConstant        = "--target-version"
	scriptExecutorMissingMessageConstant   = "black executor not configured"
	scriptCheckFailedErrorTemplateConstant = "black check of %s failed: %w"
	scriptApplyFailedErrorTemplateConstant = "black rewrite of %s failed: %w"
)

// DefaultNeedsFormattingExitCode is the exit code black uses in check mode for files it would reformat.
const DefaultNeedsFormattingExitCode = 1

// ErrScriptExecutorNotConfigured indicates that NewScriptFormatter received a nil executor.
var ErrScriptExecutorNotConfigured = errors.New(scriptExecutorMissingMessageConstant)

// ScriptSettings configures black invocations.
type ScriptSettings struct {
	Binary                  string
	TargetVersion           string
	NeedsFormattingExitCode int
	WorkingDirectory        string
}

// ScriptFormatter formats Python sources with black.
type ScriptFormatter struct {
	executor ScriptToolExecutor
	settings ScriptSettings
}

// NewScriptFormatter constructs a black backed formatter. A zero NeedsFormattingExitCode selects the default.
func NewScriptFormatter(executor ScriptToolExecutor, settings ScriptSettings) (*ScriptFormatter, error) {
	if executor == nil {
		return nil, ErrScriptExecutorNotConfigured
	}
	if settings.NeedsFormattingExitCode == 0 {
		settings.NeedsFormattingExitCode = DefaultNeedsFormattingExitCode
	}
	return &ScriptFormatter{executor: executor, settings: settings}, nil
}

// Name identifies the formatter in diagnostics.
func (formatter *ScriptFormatter) Name() string {
	return scriptFormatterNameConstant
}

// Check runs black in check mode and interprets its exit code.
func (formatter *ScriptFormatter) Check(executionContext context.Context, filePath string) (bool, error) {
	details := formatter.commandDetails(true, filePath)
	result, runError := formatter.executor.RunBlack(executionContext, details)
	if runError != nil {
		return false, fmt.Errorf(scriptCheckFailedErrorTemplateConstant, filePath, runError)
	}

	command := execshell.ShellCommand{Name: execshell.CommandBlack, Details: details}
	formatted, interpretError := InterpretExitCode(command, result, ExitCodePolicy{NeedsFormattingExitCode: formatter.settings.NeedsFormattingExitCode})
	if interpretError != nil {
		return false, fmt.Errorf(scriptCheckFailedErrorTemplateConstant, filePath, interpretError)
	}
	return formatted, nil
}

// Apply rewrites the file in place.
func (formatter *ScriptFormatter) Apply(executionContext context.Context, filePath string) error {
	details := formatter.commandDetails(false, filePath)
	result, runError := formatter.executor.RunBlack(executionContext, details)
	if runError != nil {
		return fmt.Errorf(scriptApplyFailedErrorTemplateConstant, filePath, runError)
	}
	if _, interpretError := InterpretExitCode(execshell.ShellCommand{Name: execshell.CommandBlack, Details: details}, result, ExitCodePolicy{}); interpretError != nil {
		return fmt.Errorf(scriptApplyFailedErrorTemplateConstant, filePath, interpretError)
	}
	return nil
}

func (formatter *ScriptFormatter) commandDetails(checkOnly bool, filePath string) execshell.CommandDetails {
	arguments := []string{scriptQuietFlagConstant}
	if targetVersion := strings.TrimSpace(formatter.settings.TargetVersion); len(targetVersion) > 0 {
		arguments = append(arguments, scriptTargetVersionFlagConstant, targetVersion)
	}
	if checkOnly {
		arguments = append(arguments, scriptCheckFlagConstant)
	}
	arguments = append(arguments, filePath)

	return execshell.CommandDetails{
		Executable:       formatter.settings.Binary,
		Arguments:        arguments,
		WorkingDirectory: formatter.settings.WorkingDirectory,
	}
}
