package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
	optionPrefixConstant                    = "-"
	outputLineSeparatorConstant             = "\n"
)

const (
	gitDiffSubcommandNameConstant          = "diff"
	gitLSFilesSubcommandNameConstant       = "ls-files"
	gitOthersFlagConstant                  = "--others"
	gitRevParseSubcommandNameConstant      = "rev-parse"
	gitShowTopLevelFlagConstant            = "--show-toplevel"
	clangFormatInPlaceFlagConstant         = "-i"
	clangFormatReplacementsXMLFlagConstant = "--output-replacements-xml"
	blackCheckFlagConstant                 = "--check"
)

const (
	gitDiffStartTemplateConstant                   = "Listing files changed against %s in %s"
	gitDiffSuccessTemplateConstant                 = "Found %d file(s) changed against %s in %s"
	gitDiffFailureTemplateConstant                 = "Failed to list files changed against %s in %s (exit code %d%s)"
	gitDiffExecutionFailureTemplateConstant        = "Unable to list files changed against %s in %s: %s"
	gitUntrackedStartTemplateConstant              = "Listing untracked files in %s"
	gitUntrackedSuccessTemplateConstant            = "Found %d untracked file(s) in %s"
	gitUntrackedFailureTemplateConstant            = "Failed to list untracked files in %s (exit code %d%s)"
	gitUntrackedExecutionFailureTemplateConstant   = "Unable to list untracked files in %s: %s"
	gitTopLevelStartTemplateConstant               = "Locating repository root from %s"
	gitTopLevelSuccessTemplateConstant             = "Repository root for %s is %s"
	gitTopLevelFailureTemplateConstant             = "Failed to locate repository root from %s (exit code %d%s)"
	gitTopLevelExecutionFailureTemplateConstant    = "Unable to locate repository root from %s: %s"
	formatterCheckStartTemplateConstant            = "Checking formatting of %s with %s"
	formatterCheckSuccessTemplateConstant          = "%s checked %s"
	formatterCheckFailureTemplateConstant          = "%s reported %s with exit code %d%s"
	formatterCheckExecutionFailureTemplateConstant = "Unable to check %s with %s: %s"
	formatterApplyStartTemplateConstant            = "Formatting %s with %s"
	formatterApplySuccessTemplateConstant          = "%s formatted %s"
	formatterApplyFailureTemplateConstant          = "%s failed to format %s (exit code %d%s)"
	formatterApplyExecutionFailureTemplateConstant = "Unable to format %s with %s: %s"
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a command that exited with code zero.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing a command that could not run.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

// ReportsFindingsThroughExitCode reports whether a non-zero exit is an expected result rather than a fault.
// Only black in check mode qualifies: it exits non-zero for files it would reformat.
func (formatter CommandMessageFormatter) ReportsFindingsThroughExitCode(command ShellCommand) bool {
	return command.Name == CommandBlack && containsArgument(command.Details.Arguments, blackCheckFlagConstant)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	switch command.Name {
	case CommandGit:
		return formatter.describeGitMessage(command, result, failure, stage)
	case CommandClangFormat:
		return formatter.describeFormatterMessage(command, result, failure, stage, !containsArgument(command.Details.Arguments, clangFormatInPlaceFlagConstant) && containsArgument(command.Details.Arguments, clangFormatReplacementsXMLFlagConstant))
	case CommandBlack:
		return formatter.describeFormatterMessage(command, result, failure, stage, containsArgument(command.Details.Arguments, blackCheckFlagConstant))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if len(arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	workingDirectory := formatter.describeWorkingDirectory(command)
	standardErrorSuffix := formatter.formatStandardErrorSuffix(result.StandardError)

	switch strings.TrimSpace(arguments[0]) {
	case gitDiffSubcommandNameConstant:
		reference := formatter.resolveTrailingOperand(arguments[1:])
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(gitDiffStartTemplateConstant, reference, workingDirectory)
		case messageStageSuccess:
			return fmt.Sprintf(gitDiffSuccessTemplateConstant, countOutputLines(result.StandardOutput), reference, workingDirectory)
		case messageStageFailure:
			return fmt.Sprintf(gitDiffFailureTemplateConstant, reference, workingDirectory, result.ExitCode, standardErrorSuffix)
		case messageStageExecutionFailure:
			return fmt.Sprintf(gitDiffExecutionFailureTemplateConstant, reference, workingDirectory, formatter.describeFailure(failure))
		}
	case gitLSFilesSubcommandNameConstant:
		if !containsArgument(arguments, gitOthersFlagConstant) {
			break
		}
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(gitUntrackedStartTemplateConstant, workingDirectory)
		case messageStageSuccess:
			return fmt.Sprintf(gitUntrackedSuccessTemplateConstant, countOutputLines(result.StandardOutput), workingDirectory)
		case messageStageFailure:
			return fmt.Sprintf(gitUntrackedFailureTemplateConstant, workingDirectory, result.ExitCode, standardErrorSuffix)
		case messageStageExecutionFailure:
			return fmt.Sprintf(gitUntrackedExecutionFailureTemplateConstant, workingDirectory, formatter.describeFailure(failure))
		}
	case gitRevParseSubcommandNameConstant:
		if !containsArgument(arguments, gitShowTopLevelFlagConstant) {
			break
		}
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(gitTopLevelStartTemplateConstant, workingDirectory)
		case messageStageSuccess:
			return fmt.Sprintf(gitTopLevelSuccessTemplateConstant, workingDirectory, formatter.ensureValue(result.StandardOutput))
		case messageStageFailure:
			return fmt.Sprintf(gitTopLevelFailureTemplateConstant, workingDirectory, result.ExitCode, standardErrorSuffix)
		case messageStageExecutionFailure:
			return fmt.Sprintf(gitTopLevelExecutionFailureTemplateConstant, workingDirectory, formatter.describeFailure(failure))
		}
	}

	return formatter.buildGenericMessage(command, result, failure, stage)
}

func (formatter CommandMessageFormatter) describeFormatterMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage, checkMode bool) string {
	toolName := command.ExecutableName()
	target := formatter.resolveTrailingOperand(command.Details.Arguments)
	standardErrorSuffix := formatter.formatStandardErrorSuffix(result.StandardError)

	if checkMode {
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(formatterCheckStartTemplateConstant, target, toolName)
		case messageStageSuccess:
			return fmt.Sprintf(formatterCheckSuccessTemplateConstant, toolName, target)
		case messageStageFailure:
			return fmt.Sprintf(formatterCheckFailureTemplateConstant, toolName, target, result.ExitCode, standardErrorSuffix)
		case messageStageExecutionFailure:
			return fmt.Sprintf(formatterCheckExecutionFailureTemplateConstant, target, toolName, formatter.describeFailure(failure))
		}
		return emptyStringConstant
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(formatterApplyStartTemplateConstant, target, toolName)
	case messageStageSuccess:
		return fmt.Sprintf(formatterApplySuccessTemplateConstant, toolName, target)
	case messageStageFailure:
		return fmt.Sprintf(formatterApplyFailureTemplateConstant, toolName, target, result.ExitCode, standardErrorSuffix)
	case messageStageExecutionFailure:
		return fmt.Sprintf(formatterApplyExecutionFailureTemplateConstant, target, toolName, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandLabel := command.ExecutableName()
	if len(command.Details.Arguments) > 0 {
		commandLabel = commandLabel + commandArgumentsJoinSeparatorConstant + strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant)
	}
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return commandLabel
	}
	return commandLabel + fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

// resolveTrailingOperand returns the last argument that is not an option.
func (formatter CommandMessageFormatter) resolveTrailingOperand(arguments []string) string {
	for index := len(arguments) - 1; index >= 0; index-- {
		argument := strings.TrimSpace(arguments[index])
		if len(argument) == 0 || strings.HasPrefix(argument, optionPrefixConstant) {
			continue
		}
		return argument
	}
	return fallbackUnknownValueLabelConstant
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return trimmed
}

func containsArgument(arguments []string, value string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == value {
			return true
		}
	}
	return false
}

func countOutputLines(output string) int {
	trimmedOutput := strings.TrimSpace(output)
	if len(trimmedOutput) == 0 {
		return 0
	}
	return len(strings.Split(trimmedOutput, outputLineSeparatorConstant))
}
