// Package formatters maps file extensions to the external tools that format them.
//
// A Registry resolves a Formatter by extension. NativeFormatter drives
// clang-format and inspects its replacement report; ScriptFormatter drives
// black and interprets its check-mode exit codes through InterpretExitCode.
package formatters
