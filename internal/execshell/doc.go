// Package execshell runs the external tools lintfmt depends on.
//
// OSCommandRunner launches processes through os/exec and reports exit codes
// without treating them as failures. ShellExecutor layers structured logging
// and lifecycle events on top and offers both an interpreting mode (Run) and a
// strict mode (Execute) that turns any non-zero exit into CommandFailedError.
package execshell
