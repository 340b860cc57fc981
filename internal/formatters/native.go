package formatters

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/lintfmt/internal/execshell"
)

const (
	nativeFormatterNameConstant            = "clang-format"
	nativeInPlaceFlagConstant              = "-i"
	nativeReplacementsReportFlagConstant   = "--output-replacements-xml"
	nativeStyleFlagTemplateConstant        = "--style=%s"
	nativeExecutorMissingMessageConstant   = "clang-format executor not configured"
	reportParseErrorTemplateConstant       = "unable to parse replacement report for %s: %v"
	nativeCheckFailedErrorTemplateConstant = "clang-format check of %s failed: %w"
	nativeApplyFailedErrorTemplateConstant = "clang-format rewrite of %s failed: %w"
)

// ErrNativeExecutorNotConfigured indicates that NewNativeFormatter received a nil executor.
var ErrNativeExecutorNotConfigured = errors.New(nativeExecutorMissingMessageConstant)

// NativeSettings configures clang-format invocations.
type NativeSettings struct {
	Binary           string
	Style            string
	WorkingDirectory string
}

// NativeFormatter formats C-family sources with clang-format.
type NativeFormatter struct {
	executor NativeToolExecutor
	settings NativeSettings
}

// ReportParseError indicates clang-format produced a replacement report that is not valid XML.
type ReportParseError struct {
	FilePath string
	Cause    error
}

// Error describes the parse failure.
func (parseError ReportParseError) Error() string {
	return fmt.Sprintf(reportParseErrorTemplateConstant, parseError.FilePath, parseError.Cause)
}

// Unwrap exposes the underlying decoder error.
func (parseError ReportParseError) Unwrap() error {
	return parseError.Cause
}

type replacementsReport struct {
	XMLName          xml.Name      `xml:"replacements"`
	IncompleteFormat bool          `xml:"incomplete_format,attr"`
	Replacements     []replacement `xml:"replacement"`
}

type replacement struct {
	Offset int    `xml:"offset,attr"`
	Length int    `xml:"length,attr"`
	Text   string `xml:",chardata"`
}

// NewNativeFormatter constructs a clang-format backed formatter.
func NewNativeFormatter(executor NativeToolExecutor, settings NativeSettings) (*NativeFormatter, error) {
	if executor == nil {
		return nil, ErrNativeExecutorNotConfigured
	}
	return &NativeFormatter{executor: executor, settings: settings}, nil
}

// Name identifies the formatter in diagnostics.
func (formatter *NativeFormatter) Name() string {
	return nativeFormatterNameConstant
}

// Check asks clang-format for the replacements it would make. No replacements means the file is formatted.
func (formatter *NativeFormatter) Check(executionContext context.Context, filePath string) (bool, error) {
	details := formatter.commandDetails(nativeReplacementsReportFlagConstant, filePath)
	result, runError := formatter.executor.RunClangFormat(executionContext, details)
	if runError != nil {
		return false, fmt.Errorf(nativeCheckFailedErrorTemplateConstant, filePath, runError)
	}
	if failure := result.RequireSuccess(execshell.ShellCommand{Name: execshell.CommandClangFormat, Details: details}); failure != nil {
		return false, fmt.Errorf(nativeCheckFailedErrorTemplateConstant, filePath, failure)
	}

	replacementCount, parseError := countReplacements(result.StandardOutput)
	if parseError != nil {
		return false, ReportParseError{FilePath: filePath, Cause: parseError}
	}
	return replacementCount == 0, nil
}

// Apply rewrites the file in place.
func (formatter *NativeFormatter) Apply(executionContext context.Context, filePath string) error {
	details := formatter.commandDetails(nativeInPlaceFlagConstant, filePath)
	result, runError := formatter.executor.RunClangFormat(executionContext, details)
	if runError != nil {
		return fmt.Errorf(nativeApplyFailedErrorTemplateConstant, filePath, runError)
	}
	if failure := result.RequireSuccess(execshell.ShellCommand{Name: execshell.CommandClangFormat, Details: details}); failure != nil {
		return fmt.Errorf(nativeApplyFailedErrorTemplateConstant, filePath, failure)
	}
	return nil
}

func (formatter *NativeFormatter) commandDetails(modeFlag string, filePath string) execshell.CommandDetails {
	arguments := []string{modeFlag}
	if style := strings.TrimSpace(formatter.settings.Style); len(style) > 0 {
		arguments = append(arguments, fmt.Sprintf(nativeStyleFlagTemplateConstant, style))
	}
	arguments = append(arguments, filePath)

	return execshell.CommandDetails{
		Executable:       formatter.settings.Binary,
		Arguments:        arguments,
		WorkingDirectory: formatter.settings.WorkingDirectory,
	}
}

func countReplacements(report string) (int, error) {
	var parsedReport replacementsReport
	if decodeError := xml.Unmarshal([]byte(report), &parsedReport); decodeError != nil {
		return 0, decodeError
	}
	return len(parsedReport.Replacements), nil
}
