package lint

import (
	"go.uber.org/zap"

	"github.com/temirov/lintfmt/internal/execshell"
	"github.com/temirov/lintfmt/internal/ui"
)

// resolveExecutor builds the shell executor shared by discovery and both formatters.
// With console logging the lifecycle events are rendered as readable lines and the structured executor log is silenced.
func (builder *CommandBuilder) resolveExecutor(logger *zap.Logger) (*execshell.ShellExecutor, error) {
	var commandRunner execshell.CommandRunner = execshell.NewOSCommandRunner()
	if builder.CommandRunner != nil {
		commandRunner = builder.CommandRunner
	}

	if !builder.humanReadableLoggingEnabled() {
		return execshell.NewShellExecutor(logger, commandRunner)
	}
	return execshell.NewShellExecutor(zap.NewNop(), commandRunner, ui.NewConsoleCommandEventLogger(logger))
}
