package lint

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/temirov/lintfmt/internal/formatters"
)

const (
	formattingRequiredMessageConstant       = "one or more files need formatting"
	discovererMissingMessageConstant        = "lint file discoverer not configured"
	formatterResolverMissingMessageConstant = "lint formatter resolver not configured"
	reporterMissingMessageConstant          = "lint reporter not configured"
	discoveryErrorTemplateConstant          = "file discovery failed: %w"
	reportWriteErrorTemplateConstant        = "unable to write lint report: %w"
	filesDiscoveredMessageConstant          = "files selected for linting"
	fileSkippedMessageConstant              = "no formatter registered for file"
	fileCheckedMessageConstant              = "file checked"
	fileFormattedMessageConstant            = "file formatted"
	logFieldFileConstant                    = "file"
	logFieldFileCountConstant               = "file_count"
	logFieldFormatterConstant               = "formatter"
	logFieldFormattedConstant               = "formatted"
	logFieldRepositoryRootConstant          = "repository_root"
	logFieldInPlaceConstant                 = "in_place"
)

// ErrFormattingRequired is returned by Run when the check found unformatted files.
var ErrFormattingRequired = errors.New(formattingRequiredMessageConstant)

// ErrDiscovererNotConfigured indicates that NewService received no FileDiscoverer.
var ErrDiscovererNotConfigured = errors.New(discovererMissingMessageConstant)

// ErrFormatterResolverNotConfigured indicates that NewService received no FormatterResolver.
var ErrFormatterResolverNotConfigured = errors.New(formatterResolverMissingMessageConstant)

// ErrReporterNotConfigured indicates that NewService received no Reporter.
var ErrReporterNotConfigured = errors.New(reporterMissingMessageConstant)

// FileDiscoverer lists the files a run should inspect.
type FileDiscoverer interface {
	Discover(executionContext context.Context, repositoryRoot string) ([]string, error)
}

// FormatterResolver selects the formatter for a file.
type FormatterResolver interface {
	Resolve(filePath string) (formatters.Formatter, bool)
}

// Reporter renders check diagnostics.
type Reporter interface {
	PrintUnformattedFile(filePath string) error
	PrintSummary(unformattedCount int, remediationHint string) error
}

// ServiceDependencies wires the collaborators of Service.
type ServiceDependencies struct {
	Logger     *zap.Logger
	Discoverer FileDiscoverer
	Formatters FormatterResolver
	Reporter   Reporter
}

// Options controls a single run. A non-nil Files list replaces discovery.
type Options struct {
	InPlace         bool
	RepositoryRoot  string
	RemediationHint string
	Files           []string
}

// Report summarizes a check run.
type Report struct {
	CheckedFiles     []string
	UnformattedFiles []string
}

// UnformattedCount returns the number of files that failed the check.
func (report Report) UnformattedCount() int {
	return len(report.UnformattedFiles)
}

// Service dispatches files to their formatters in check or apply mode.
type Service struct {
	logger     *zap.Logger
	discoverer FileDiscoverer
	formatters FormatterResolver
	reporter   Reporter
}

// NewService validates dependencies and constructs a Service.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.Discoverer == nil {
		return nil, ErrDiscovererNotConfigured
	}
	if dependencies.Formatters == nil {
		return nil, ErrFormatterResolverNotConfigured
	}
	if dependencies.Reporter == nil {
		return nil, ErrReporterNotConfigured
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		logger:     logger,
		discoverer: dependencies.Discoverer,
		formatters: dependencies.Formatters,
		reporter:   dependencies.Reporter,
	}, nil
}

// Run selects files and either rewrites them or checks them.
// A check that finds unformatted files prints a summary and returns ErrFormattingRequired.
func (service *Service) Run(executionContext context.Context, options Options) error {
	files := options.Files
	if files == nil {
		discoveredFiles, discoveryError := service.discoverer.Discover(executionContext, options.RepositoryRoot)
		if discoveryError != nil {
			return fmt.Errorf(discoveryErrorTemplateConstant, discoveryError)
		}
		files = discoveredFiles
	}

	service.logger.Debug(
		filesDiscoveredMessageConstant,
		zap.Int(logFieldFileCountConstant, len(files)),
		zap.String(logFieldRepositoryRootConstant, options.RepositoryRoot),
		zap.Bool(logFieldInPlaceConstant, options.InPlace),
	)

	if options.InPlace {
		return service.Apply(executionContext, files)
	}

	report, checkError := service.Check(executionContext, files)
	if checkError != nil {
		return checkError
	}
	if report.UnformattedCount() == 0 {
		return nil
	}

	if summaryError := service.reporter.PrintSummary(report.UnformattedCount(), options.RemediationHint); summaryError != nil {
		return fmt.Errorf(reportWriteErrorTemplateConstant, summaryError)
	}
	return ErrFormattingRequired
}

// Check verifies each file with its formatter and reports every unformatted one.
// Files without a formatter are skipped. The first tooling failure aborts the run.
func (service *Service) Check(executionContext context.Context, files []string) (Report, error) {
	report := Report{}
	for _, filePath := range files {
		formatter, found := service.resolve(filePath)
		if !found {
			continue
		}

		formatted, checkError := formatter.Check(executionContext, filePath)
		if checkError != nil {
			return report, checkError
		}
		report.CheckedFiles = append(report.CheckedFiles, filePath)
		service.logger.Debug(
			fileCheckedMessageConstant,
			zap.String(logFieldFileConstant, filePath),
			zap.String(logFieldFormatterConstant, formatter.Name()),
			zap.Bool(logFieldFormattedConstant, formatted),
		)
		if formatted {
			continue
		}

		report.UnformattedFiles = append(report.UnformattedFiles, filePath)
		if printError := service.reporter.PrintUnformattedFile(filePath); printError != nil {
			return report, fmt.Errorf(reportWriteErrorTemplateConstant, printError)
		}
	}
	return report, nil
}

// Apply rewrites each file with its formatter. Files without a formatter are skipped.
func (service *Service) Apply(executionContext context.Context, files []string) error {
	for _, filePath := range files {
		formatter, found := service.resolve(filePath)
		if !found {
			continue
		}
		if applyError := formatter.Apply(executionContext, filePath); applyError != nil {
			return applyError
		}
		service.logger.Debug(
			fileFormattedMessageConstant,
			zap.String(logFieldFileConstant, filePath),
			zap.String(logFieldFormatterConstant, formatter.Name()),
		)
	}
	return nil
}

func (service *Service) resolve(filePath string) (formatters.Formatter, bool) {
	formatter, found := service.formatters.Resolve(filePath)
	if !found || formatter == nil {
		service.logger.Debug(fileSkippedMessageConstant, zap.String(logFieldFileConstant, filePath))
		return nil, false
	}
	return formatter, true
}
