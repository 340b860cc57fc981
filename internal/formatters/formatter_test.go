package formatters_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/lintfmt/internal/execshell"
	"github.com/temirov/lintfmt/internal/formatters"
)

func TestInterpretExitCode(testInstance *testing.T) {
	command := execshell.ShellCommand{Name: execshell.CommandBlack, Details: execshell.CommandDetails{Arguments: []string{"-q", "--check", "b.py"}}}

	testCases := []struct {
		name              string
		exitCode          int
		policy            formatters.ExitCodePolicy
		expectedFormatted bool
		expectError       bool
	}{
		{name: "ZeroExitIsFormatted", exitCode: 0, policy: formatters.ExitCodePolicy{NeedsFormattingExitCode: 1}, expectedFormatted: true},
		{name: "DesignatedExitIsUnformatted", exitCode: 1, policy: formatters.ExitCodePolicy{NeedsFormattingExitCode: 1}, expectedFormatted: false},
		{name: "OtherExitFails", exitCode: 123, policy: formatters.ExitCodePolicy{NeedsFormattingExitCode: 1}, expectError: true},
		{name: "ZeroPolicyTreatsEveryExitAsFailure", exitCode: 1, policy: formatters.ExitCodePolicy{}, expectError: true},
		{name: "ZeroPolicyAcceptsSuccess", exitCode: 0, policy: formatters.ExitCodePolicy{}, expectedFormatted: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			result := execshell.ExecutionResult{ExitCode: testCase.exitCode, StandardError: "error: cannot format b.py"}

			formatted, interpretError := formatters.InterpretExitCode(command, result, testCase.policy)
			if testCase.expectError {
				var failedError execshell.CommandFailedError
				require.True(subtest, errors.As(interpretError, &failedError))
				require.Equal(subtest, testCase.exitCode, failedError.Result.ExitCode)
				require.False(subtest, formatted)
				return
			}
			require.NoError(subtest, interpretError)
			require.Equal(subtest, testCase.expectedFormatted, formatted)
		})
	}
}
