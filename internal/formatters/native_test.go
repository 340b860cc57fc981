package formatters_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/lintfmt/internal/execshell"
	"github.com/temirov/lintfmt/internal/formatters"
)

const (
	emptyReplacementsReport = "<?xml version='1.0'?>\n<replacements xml:space='preserve' incomplete_format='false'>\n</replacements>\n"
	twoReplacementsReport   = "<?xml version='1.0'?>\n<replacements xml:space='preserve' incomplete_format='false'>\n<replacement offset='12' length='1'>&#10;  </replacement>\n<replacement offset='40' length='0'> </replacement>\n</replacements>\n"
)

func TestNativeFormatterCheck(testInstance *testing.T) {
	testCases := []struct {
		name              string
		result            execshell.ExecutionResult
		expectedFormatted bool
		expectedErrorType any
	}{
		{name: "NoReplacements", result: execshell.ExecutionResult{StandardOutput: emptyReplacementsReport}, expectedFormatted: true},
		{name: "TwoReplacements", result: execshell.ExecutionResult{StandardOutput: twoReplacementsReport}, expectedFormatted: false},
		{name: "NonZeroExit", result: execshell.ExecutionResult{ExitCode: 1, StandardError: "error: unable to open a.cpp"}, expectedErrorType: &execshell.CommandFailedError{}},
		{name: "MalformedReport", result: execshell.ExecutionResult{StandardOutput: "<replacements><replacement"}, expectedErrorType: &formatters.ReportParseError{}},
		{name: "EmptyReport", result: execshell.ExecutionResult{}, expectedErrorType: &formatters.ReportParseError{}},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			executor := &scriptedExecutor{results: []execshell.ExecutionResult{testCase.result}}
			formatter, creationError := formatters.NewNativeFormatter(executor, formatters.NativeSettings{WorkingDirectory: "/repo"})
			require.NoError(subtest, creationError)

			formatted, checkError := formatter.Check(context.Background(), "src/a.cpp")

			require.Len(subtest, executor.recordedDetails, 1)
			require.Equal(subtest, []string{"--output-replacements-xml", "src/a.cpp"}, executor.recordedDetails[0].Arguments)
			require.Equal(subtest, "/repo", executor.recordedDetails[0].WorkingDirectory)

			switch expected := testCase.expectedErrorType.(type) {
			case *execshell.CommandFailedError:
				require.ErrorAs(subtest, checkError, expected)
				require.Equal(subtest, 1, expected.Result.ExitCode)
			case *formatters.ReportParseError:
				require.ErrorAs(subtest, checkError, expected)
				require.Equal(subtest, "src/a.cpp", expected.FilePath)
			default:
				require.NoError(subtest, checkError)
				require.Equal(subtest, testCase.expectedFormatted, formatted)
			}
		})
	}
}

func TestNativeFormatterAppliesStyleAndBinaryOverride(testInstance *testing.T) {
	executor := &scriptedExecutor{}
	formatter, creationError := formatters.NewNativeFormatter(executor, formatters.NativeSettings{Binary: "clang-format-17", Style: "file"})
	require.NoError(testInstance, creationError)

	require.NoError(testInstance, formatter.Apply(context.Background(), "include/a.h"))

	require.Equal(testInstance, []execshell.CommandDetails{{
		Executable: "clang-format-17",
		Arguments:  []string{"-i", "--style=file", "include/a.h"},
	}}, executor.recordedDetails)
}

func TestNativeFormatterApplyPropagatesFailures(testInstance *testing.T) {
	executor := &scriptedExecutor{results: []execshell.ExecutionResult{{ExitCode: 1, StandardError: "invalid style"}}}
	formatter, creationError := formatters.NewNativeFormatter(executor, formatters.NativeSettings{})
	require.NoError(testInstance, creationError)

	applyError := formatter.Apply(context.Background(), "src/a.cpp")
	require.ErrorContains(testInstance, applyError, "clang-format rewrite of src/a.cpp failed")
	require.ErrorContains(testInstance, applyError, "invalid style")

	launchFailure := errors.New("executable not found")
	failingFormatter, failingCreationError := formatters.NewNativeFormatter(&scriptedExecutor{executionError: launchFailure}, formatters.NativeSettings{})
	require.NoError(testInstance, failingCreationError)
	require.ErrorIs(testInstance, failingFormatter.Apply(context.Background(), "src/a.cpp"), launchFailure)
}

func TestNativeFormatterRequiresExecutor(testInstance *testing.T) {
	formatter, creationError := formatters.NewNativeFormatter(nil, formatters.NativeSettings{})
	require.ErrorIs(testInstance, creationError, formatters.ErrNativeExecutorNotConfigured)
	require.Nil(testInstance, formatter)
}

// rewritingClangFormat reports replacements until the file has been rewritten in place.
type rewritingClangFormat struct {
	rewrittenFiles map[string]bool
}

func (executor *rewritingClangFormat) RunClangFormat(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	filePath := details.Arguments[len(details.Arguments)-1]
	if details.Arguments[0] == "-i" {
		executor.rewrittenFiles[filePath] = true
		return execshell.ExecutionResult{}, nil
	}
	if executor.rewrittenFiles[filePath] {
		return execshell.ExecutionResult{StandardOutput: emptyReplacementsReport}, nil
	}
	return execshell.ExecutionResult{StandardOutput: twoReplacementsReport}, nil
}

func TestNativeFormatterCheckAfterApplyReportsFormatted(testInstance *testing.T) {
	executor := &rewritingClangFormat{rewrittenFiles: map[string]bool{}}
	formatter, creationError := formatters.NewNativeFormatter(executor, formatters.NativeSettings{})
	require.NoError(testInstance, creationError)

	formattedBefore, checkError := formatter.Check(context.Background(), "src/a.cpp")
	require.NoError(testInstance, checkError)
	require.False(testInstance, formattedBefore)

	require.NoError(testInstance, formatter.Apply(context.Background(), "src/a.cpp"))

	formattedAfter, recheckError := formatter.Check(context.Background(), "src/a.cpp")
	require.NoError(testInstance, recheckError)
	require.True(testInstance, formattedAfter)
	require.Equal(testInstance, "clang-format", formatter.Name())
}
