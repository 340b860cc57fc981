package execshell

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	commandGitNameConstant                  = "git"
	commandClangFormatNameConstant          = "clang-format"
	commandBlackNameConstant                = "black"
	loggerNotConfiguredMessageConstant      = "shell executor logger not configured"
	commandRunnerNotConfiguredMessageConst  = "shell executor command runner not configured"
	commandFailedErrorTemplateConstant      = "%s exited with code %d"
	commandFailedStandardErrorTemplateConst = "%s exited with code %d: %s"
	commandExecutionErrorTemplateConstant   = "%s could not be executed: %v"
	logFieldCommandConstant                 = "command"
	logFieldArgumentsConstant               = "arguments"
	logFieldWorkingDirectoryConstant        = "working_directory"
	logFieldExitCodeConstant                = "exit_code"
	logFieldStandardErrorConstant           = "stderr"
	commandDescriptionSeparatorConstant     = " "
)

// CommandName identifies an external tool understood by the executor.
type CommandName string

// Supported external tools.
const (
	CommandGit         CommandName = CommandName(commandGitNameConstant)
	CommandClangFormat CommandName = CommandName(commandClangFormatNameConstant)
	CommandBlack       CommandName = CommandName(commandBlackNameConstant)
)

// ErrLoggerNotConfigured indicates that NewShellExecutor received a nil logger.
var ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)

// ErrCommandRunnerNotConfigured indicates that NewShellExecutor received a nil runner.
var ErrCommandRunnerNotConfigured = errors.New(commandRunnerNotConfiguredMessageConst)

// CommandDetails describes the arguments and environment of a single invocation.
type CommandDetails struct {
	// Executable overrides the binary derived from the command name, for example "clang-format-17".
	Executable           string
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	StandardInput        []byte
}

// ShellCommand pairs a tool with its invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutableName returns the binary that will be launched for the command.
func (command ShellCommand) ExecutableName() string {
	trimmedExecutable := strings.TrimSpace(command.Details.Executable)
	if len(trimmedExecutable) > 0 {
		return trimmedExecutable
	}
	return string(command.Name)
}

func (command ShellCommand) describe() string {
	parts := append([]string{command.ExecutableName()}, command.Details.Arguments...)
	return strings.Join(parts, commandDescriptionSeparatorConstant)
}

// ExecutionResult captures the observable outcome of a finished process.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// RequireSuccess reports a CommandFailedError when the process exited with a non-zero code.
// Callers use it only where any non-zero exit is unexpected.
func (result ExecutionResult) RequireSuccess(command ShellCommand) error {
	if result.ExitCode == 0 {
		return nil
	}
	return CommandFailedError{Command: command, Result: result}
}

// CommandFailedError reports a process that ran to completion with an unexpected exit code.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error describes the failed command.
func (commandError CommandFailedError) Error() string {
	trimmedStandardError := strings.TrimSpace(commandError.Result.StandardError)
	if len(trimmedStandardError) == 0 {
		return fmt.Sprintf(commandFailedErrorTemplateConstant, commandError.Command.describe(), commandError.Result.ExitCode)
	}
	return fmt.Sprintf(commandFailedStandardErrorTemplateConst, commandError.Command.describe(), commandError.Result.ExitCode, trimmedStandardError)
}

// CommandExecutionError reports a process that could not be started or awaited.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the execution failure.
func (executionError CommandExecutionError) Error() string {
	return fmt.Sprintf(commandExecutionErrorTemplateConstant, executionError.Command.describe(), executionError.Cause)
}

// Unwrap exposes the underlying cause.
func (executionError CommandExecutionError) Unwrap() error {
	return executionError.Cause
}

// CommandRunner launches a process and waits for it to exit.
// A non-zero exit is reported through ExecutionResult.ExitCode, never as an error.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// ShellExecutor runs external tools with logging and lifecycle notifications.
type ShellExecutor struct {
	logger           *zap.Logger
	runner           CommandRunner
	observer         CommandEventObserver
	messageFormatter CommandMessageFormatter
}

// NewShellExecutor constructs a ShellExecutor. The first non-nil observer, if any, receives lifecycle events.
func NewShellExecutor(logger *zap.Logger, runner CommandRunner, observers ...CommandEventObserver) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if runner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}

	var observer CommandEventObserver = noopCommandEventObserver{}
	for _, candidateObserver := range observers {
		if candidateObserver != nil {
			observer = candidateObserver
			break
		}
	}

	return &ShellExecutor{
		logger:           logger,
		runner:           runner,
		observer:         observer,
		messageFormatter: CommandMessageFormatter{},
	}, nil
}

// Run executes the command and returns its result regardless of the exit code.
// The only errors returned are CommandExecutionError values.
func (executor *ShellExecutor) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	commandFields := []zap.Field{
		zap.String(logFieldCommandConstant, command.ExecutableName()),
		zap.Strings(logFieldArgumentsConstant, command.Details.Arguments),
		zap.String(logFieldWorkingDirectoryConstant, command.Details.WorkingDirectory),
	}

	executor.logger.Debug(executor.messageFormatter.BuildStartedMessage(command), commandFields...)
	executor.observer.CommandStarted(command)

	executionResult, runError := executor.runner.Run(executionContext, command)
	if runError != nil {
		executor.logger.Error(executor.messageFormatter.BuildExecutionFailureMessage(command, runError), append(commandFields, zap.Error(runError))...)
		executor.observer.CommandExecutionFailed(command, runError)
		return ExecutionResult{}, CommandExecutionError{Command: command, Cause: runError}
	}

	if executionResult.ExitCode == 0 {
		executor.logger.Debug(executor.messageFormatter.BuildSuccessMessage(command, executionResult), commandFields...)
	} else {
		executor.logger.Debug(
			executor.messageFormatter.BuildFailureMessage(command, executionResult),
			append(commandFields,
				zap.Int(logFieldExitCodeConstant, executionResult.ExitCode),
				zap.String(logFieldStandardErrorConstant, strings.TrimSpace(executionResult.StandardError)),
			)...,
		)
	}
	executor.observer.CommandCompleted(command, executionResult)

	return executionResult, nil
}

// Execute runs the command and fails on any non-zero exit code.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	executionResult, runError := executor.Run(executionContext, command)
	if runError != nil {
		return ExecutionResult{}, runError
	}
	if failure := executionResult.RequireSuccess(command); failure != nil {
		return ExecutionResult{}, failure
	}
	return executionResult, nil
}

// ExecuteGit runs git and fails on any non-zero exit code.
func (executor *ShellExecutor) ExecuteGit(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandGit, Details: details})
}

// RunClangFormat runs clang-format and returns its result without interpreting the exit code.
func (executor *ShellExecutor) RunClangFormat(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Run(executionContext, ShellCommand{Name: CommandClangFormat, Details: details})
}

// RunBlack runs black and returns its result without interpreting the exit code.
func (executor *ShellExecutor) RunBlack(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Run(executionContext, ShellCommand{Name: CommandBlack, Details: details})
}
