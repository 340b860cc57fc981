package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

const (
	unformattedFileTemplateConstant    = "[ERROR] %s is unformatted\n"
	summaryLeadTemplateConstant        = "Linting failed. %d file(s) need formatting. Run "
	summaryTrailConstant               = " to attempt to automatically fix this"
	summaryPrefixConstant              = "\n"
	lineTerminatorConstant             = "\n"
	noColorEnvironmentVariableConstant = "NO_COLOR"
)

// ReportPrinter writes check-mode diagnostics. Colors are used only when the destination is a terminal.
type ReportPrinter struct {
	writer        io.Writer
	failureColor  *color.Color
	emphasisColor *color.Color
}

// NewReportPrinter constructs a ReportPrinter for the writer.
func NewReportPrinter(writer io.Writer) *ReportPrinter {
	if writer == nil {
		writer = io.Discard
	}

	failureColor := color.New(color.FgRed)
	emphasisColor := color.New(color.FgRed, color.Bold)
	if colorsSupported(writer) {
		failureColor.EnableColor()
		emphasisColor.EnableColor()
	} else {
		failureColor.DisableColor()
		emphasisColor.DisableColor()
	}

	return &ReportPrinter{writer: writer, failureColor: failureColor, emphasisColor: emphasisColor}
}

// PrintUnformattedFile reports one file that failed the formatting check.
func (printer *ReportPrinter) PrintUnformattedFile(filePath string) error {
	_, writeError := fmt.Fprintf(printer.writer, unformattedFileTemplateConstant, filePath)
	return writeError
}

// PrintSummary reports how many files failed and how to fix them.
func (printer *ReportPrinter) PrintSummary(unformattedCount int, remediationHint string) error {
	summary := summaryPrefixConstant +
		printer.failureColor.Sprintf(summaryLeadTemplateConstant, unformattedCount) +
		printer.emphasisColor.Sprint(remediationHint) +
		printer.failureColor.Sprint(summaryTrailConstant) +
		lineTerminatorConstant
	_, writeError := io.WriteString(printer.writer, summary)
	return writeError
}

func colorsSupported(writer io.Writer) bool {
	if _, disabled := os.LookupEnv(noColorEnvironmentVariableConstant); disabled {
		return false
	}
	file, isFile := writer.(*os.File)
	if !isFile {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
