package ui

import (
	"go.uber.org/zap"

	"github.com/temirov/lintfmt/internal/execshell"
)

// ConsoleCommandEventLogger renders process lifecycle events through a zap logger configured for human-readable output.
type ConsoleCommandEventLogger struct {
	logger    *zap.Logger
	formatter execshell.CommandMessageFormatter
}

// NewConsoleCommandEventLogger constructs a console event logger backed by the provided zap logger.
func NewConsoleCommandEventLogger(logger *zap.Logger) *ConsoleCommandEventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleCommandEventLogger{logger: logger, formatter: execshell.CommandMessageFormatter{}}
}

// CommandStarted logs that a formatter or git query is about to run.
func (eventLogger *ConsoleCommandEventLogger) CommandStarted(command execshell.ShellCommand) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Info(eventLogger.formatter.BuildStartedMessage(command))
}

// CommandCompleted logs the outcome of a finished process.
// Non-zero exits are warnings unless the tool uses its exit code to report findings.
func (eventLogger *ConsoleCommandEventLogger) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	if eventLogger == nil {
		return
	}
	switch {
	case result.ExitCode == 0:
		eventLogger.logger.Info(eventLogger.formatter.BuildSuccessMessage(command, result))
	case eventLogger.formatter.ReportsFindingsThroughExitCode(command):
		eventLogger.logger.Info(eventLogger.formatter.BuildFailureMessage(command, result))
	default:
		eventLogger.logger.Warn(eventLogger.formatter.BuildFailureMessage(command, result))
	}
}

// CommandExecutionFailed logs a process that could not be launched.
func (eventLogger *ConsoleCommandEventLogger) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Error(eventLogger.formatter.BuildExecutionFailureMessage(command, failure))
}
