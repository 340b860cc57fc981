package formatters_test

import (
	"context"

	"github.com/temirov/lintfmt/internal/execshell"
)

type scriptedExecutor struct {
	results         []execshell.ExecutionResult
	executionError  error
	recordedDetails []execshell.CommandDetails
}

func (executor *scriptedExecutor) RunClangFormat(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	return executor.next(details)
}

func (executor *scriptedExecutor) RunBlack(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	return executor.next(details)
}

func (executor *scriptedExecutor) next(details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recordedDetails = append(executor.recordedDetails, details)
	if executor.executionError != nil {
		return execshell.ExecutionResult{}, executor.executionError
	}
	if len(executor.results) == 0 {
		return execshell.ExecutionResult{}, nil
	}
	result := executor.results[0]
	executor.results = executor.results[1:]
	return result, nil
}
