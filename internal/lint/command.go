package lint

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/lintfmt/internal/discovery"
	"github.com/temirov/lintfmt/internal/execshell"
	"github.com/temirov/lintfmt/internal/formatters"
	"github.com/temirov/lintfmt/internal/ui"
	"github.com/temirov/lintfmt/internal/utils"
	pathutils "github.com/temirov/lintfmt/internal/utils/path"
)

const (
	commandUseConstant                    = "lintfmt [files...]"
	commandShortDescriptionConstant       = "Check or fix formatting of changed files"
	commandLongDescriptionConstant        = "lintfmt runs clang-format on C-family sources and black on Python sources that changed against the baseline branch or are untracked. Without -i it only reports files that need formatting."
	commandExampleConstant                = "  lintfmt\n  lintfmt -i\n  lintfmt --baseline origin/main src/main.cpp"
	commandExecutionErrorTemplateConstant = "lint failed: %w"
	workingDirectoryErrorTemplateConstant = "unable to determine working directory: %w"
	inPlaceFlagNameConstant               = "in-place"
	inPlaceFlagShorthandConstant          = "i"
	inPlaceFlagDescriptionConstant        = "Rewrite files in place instead of reporting them"
	baselineFlagNameConstant              = "baseline"
	baselineFlagDescriptionConstant       = "Reference that changed files are compared against (overrides lint.baseline)"
	repositoryRootResolvedMessageConstant = "repository root resolved"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider returns the current lint configuration.
type ConfigurationProvider func() Configuration

// CommandBuilder assembles the lint cobra command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        ConfigurationProvider
	CommandRunner                execshell.CommandRunner
	WorkingDirectory             string
}

// Build constructs the lint command. Positional arguments replace git discovery.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:     commandUseConstant,
		Short:   commandShortDescriptionConstant,
		Long:    commandLongDescriptionConstant,
		Example: commandExampleConstant,
		Args:    cobra.ArbitraryArgs,
		RunE:    builder.run,
	}

	command.Flags().BoolP(inPlaceFlagNameConstant, inPlaceFlagShorthandConstant, false, inPlaceFlagDescriptionConstant)
	command.Flags().String(baselineFlagNameConstant, "", baselineFlagDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration, configurationError := builder.resolveConfiguration(command)
	if configurationError != nil {
		return configurationError
	}

	inPlace, inPlaceError := command.Flags().GetBool(inPlaceFlagNameConstant)
	if inPlaceError != nil {
		return inPlaceError
	}

	executionContext := command.Context()
	if executionContext == nil {
		executionContext = context.Background()
	}
	if configuration.Timeout > 0 {
		var cancel context.CancelFunc
		executionContext, cancel = context.WithTimeout(executionContext, configuration.Timeout)
		defer cancel()
	}

	logger := builder.resolveLogger()
	executor, executorError := builder.resolveExecutor(logger)
	if executorError != nil {
		return executorError
	}

	discoverer, discovererError := discovery.NewDiscoverer(executor, discovery.Settings{
		Baseline:        configuration.Baseline,
		GitBinary:       configuration.Git.Binary,
		ExcludePatterns: configuration.Exclude,
		ExcludeFile:     configuration.ExcludeFile,
	})
	if discovererError != nil {
		return discovererError
	}

	workingDirectory, workingDirectoryError := builder.resolveWorkingDirectory()
	if workingDirectoryError != nil {
		return workingDirectoryError
	}

	repositoryRoot, repositoryRootError := resolveRepositoryRoot(executionContext, discoverer, configuration.RepositoryRoot, workingDirectory)
	if repositoryRootError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, repositoryRootError)
	}
	logger.Debug(repositoryRootResolvedMessageConstant, zap.String(logFieldRepositoryRootConstant, repositoryRoot))
	command.SetContext(utils.NewCommandContextAccessor().WithRepositoryRoot(command.Context(), repositoryRoot))

	registry, registryError := buildRegistry(executor, configuration, repositoryRoot)
	if registryError != nil {
		return registryError
	}

	service, serviceError := NewService(ServiceDependencies{
		Logger:     logger,
		Discoverer: discoverer,
		Formatters: registry,
		Reporter:   ui.NewReportPrinter(command.OutOrStdout()),
	})
	if serviceError != nil {
		return serviceError
	}

	options := Options{
		InPlace:         inPlace,
		RepositoryRoot:  repositoryRoot,
		RemediationHint: configuration.RemediationHint,
	}
	if len(arguments) > 0 {
		options.Files = pathutils.NewFilePathNormalizer(nil, workingDirectory).Normalize(repositoryRoot, arguments)
	}

	runError := service.Run(executionContext, options)
	switch {
	case runError == nil:
		return nil
	case errors.Is(runError, ErrFormattingRequired):
		return runError
	default:
		return fmt.Errorf(commandExecutionErrorTemplateConstant, runError)
	}
}

func (builder *CommandBuilder) resolveConfiguration(command *cobra.Command) (Configuration, error) {
	configuration := DefaultConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}

	if command.Flags().Changed(baselineFlagNameConstant) {
		baselineValue, baselineError := command.Flags().GetString(baselineFlagNameConstant)
		if baselineError != nil {
			return Configuration{}, baselineError
		}
		configuration.Baseline = baselineValue
	}

	configuration = configuration.Sanitize()
	if validationError := configuration.Validate(); validationError != nil {
		return Configuration{}, validationError
	}
	return configuration, nil
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) resolveWorkingDirectory() (string, error) {
	if workingDirectory := strings.TrimSpace(builder.WorkingDirectory); len(workingDirectory) > 0 {
		return workingDirectory, nil
	}
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return "", fmt.Errorf(workingDirectoryErrorTemplateConstant, workingDirectoryError)
	}
	return workingDirectory, nil
}

func (builder *CommandBuilder) humanReadableLoggingEnabled() bool {
	return builder.HumanReadableLoggingProvider != nil && builder.HumanReadableLoggingProvider()
}

func resolveRepositoryRoot(executionContext context.Context, discoverer *discovery.Discoverer, configuredRoot string, workingDirectory string) (string, error) {
	if len(configuredRoot) == 0 {
		return discoverer.RepositoryRoot(executionContext, workingDirectory)
	}
	if filepath.IsAbs(configuredRoot) {
		return filepath.Clean(configuredRoot), nil
	}
	return filepath.Join(workingDirectory, configuredRoot), nil
}

func buildRegistry(executor *execshell.ShellExecutor, configuration Configuration, repositoryRoot string) (*formatters.Registry, error) {
	nativeFormatter, nativeError := formatters.NewNativeFormatter(executor, formatters.NativeSettings{
		Binary:           configuration.Native.Binary,
		Style:            configuration.Native.Style,
		WorkingDirectory: repositoryRoot,
	})
	if nativeError != nil {
		return nil, nativeError
	}

	scriptFormatter, scriptError := formatters.NewScriptFormatter(executor, formatters.ScriptSettings{
		Binary:                  configuration.Script.Binary,
		TargetVersion:           configuration.Script.TargetVersion,
		NeedsFormattingExitCode: configuration.Script.NeedsFormattingExitCode,
		WorkingDirectory:        repositoryRoot,
	})
	if scriptError != nil {
		return nil, scriptError
	}

	registry := formatters.NewRegistry()
	registry.Register(nativeFormatter, configuration.Native.Extensions...)
	registry.Register(scriptFormatter, configuration.Script.Extensions...)
	return registry, nil
}
