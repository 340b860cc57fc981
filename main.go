package main

import (
	"fmt"
	"os"

	"github.com/temirov/lintfmt/cmd/cli"
)

const (
	exitErrorTemplateConstant = "%v\n"
	failureExitCodeConstant   = 1
)

// main runs lintfmt. Unformatted files were already reported, so that outcome exits without an extra message.
func main() {
	executionError := cli.Execute()
	if executionError == nil {
		return
	}
	if !cli.IsFormattingRequired(executionError) {
		fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
	}
	os.Exit(failureExitCodeConstant)
}
