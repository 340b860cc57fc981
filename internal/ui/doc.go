// Package ui renders human-readable console output.
//
// ConsoleCommandEventLogger turns process lifecycle events into log lines for
// console logging, and ReportPrinter writes the check-mode diagnostics and the
// failure summary, colored only when the destination is a terminal.
package ui
