package formatters_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/lintfmt/internal/execshell"
	"github.com/temirov/lintfmt/internal/formatters"
)

func TestScriptFormatterCheck(testInstance *testing.T) {
	testCases := []struct {
		name              string
		settings          formatters.ScriptSettings
		exitCode          int
		expectedFormatted bool
		expectError       bool
	}{
		{name: "Formatted", exitCode: 0, expectedFormatted: true},
		{name: "WouldReformat", exitCode: 1, expectedFormatted: false},
		{name: "InternalError", exitCode: 123, expectError: true},
		{name: "CustomNeedsFormattingCode", settings: formatters.ScriptSettings{NeedsFormattingExitCode: 2}, exitCode: 2, expectedFormatted: false},
		{name: "DefaultCodeFailsWithCustomPolicy", settings: formatters.ScriptSettings{NeedsFormattingExitCode: 2}, exitCode: 1, expectError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			executor := &scriptedExecutor{results: []execshell.ExecutionResult{{ExitCode: testCase.exitCode}}}
			formatter, creationError := formatters.NewScriptFormatter(executor, testCase.settings)
			require.NoError(subtest, creationError)

			formatted, checkError := formatter.Check(context.Background(), "b.py")

			require.Equal(subtest, []string{"-q", "--check", "b.py"}, executor.recordedDetails[0].Arguments)
			if testCase.expectError {
				var failedError execshell.CommandFailedError
				require.ErrorAs(subtest, checkError, &failedError)
				require.Equal(subtest, testCase.exitCode, failedError.Result.ExitCode)
				return
			}
			require.NoError(subtest, checkError)
			require.Equal(subtest, testCase.expectedFormatted, formatted)
		})
	}
}

func TestScriptFormatterApply(testInstance *testing.T) {
	executor := &scriptedExecutor{}
	formatter, creationError := formatters.NewScriptFormatter(executor, formatters.ScriptSettings{
		Binary:           "/opt/venv/bin/black",
		TargetVersion:    "py36",
		WorkingDirectory: "/repo",
	})
	require.NoError(testInstance, creationError)

	require.NoError(testInstance, formatter.Apply(context.Background(), "scripts/lint.py"))

	require.Equal(testInstance, []execshell.CommandDetails{{
		Executable:       "/opt/venv/bin/black",
		Arguments:        []string{"-q", "--target-version", "py36", "scripts/lint.py"},
		WorkingDirectory: "/repo",
	}}, executor.recordedDetails)
}

func TestScriptFormatterApplyTreatsEveryNonZeroExitAsFailure(testInstance *testing.T) {
	executor := &scriptedExecutor{results: []execshell.ExecutionResult{{ExitCode: 1, StandardError: "cannot parse"}}}
	formatter, creationError := formatters.NewScriptFormatter(executor, formatters.ScriptSettings{})
	require.NoError(testInstance, creationError)

	applyError := formatter.Apply(context.Background(), "b.py")
	require.ErrorContains(testInstance, applyError, "black rewrite of b.py failed")
	require.ErrorContains(testInstance, applyError, "cannot parse")
}

func TestScriptFormatterRequiresExecutor(testInstance *testing.T) {
	formatter, creationError := formatters.NewScriptFormatter(nil, formatters.ScriptSettings{})
	require.ErrorIs(testInstance, creationError, formatters.ErrScriptExecutorNotConfigured)
	require.Nil(testInstance, formatter)
}
