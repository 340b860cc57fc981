// Package utils exposes reusable helpers consumed by the CLI and the lint service.
//
// ConfigurationLoader layers embedded defaults, configuration files and
// environment variables through Viper, LoggerFactory builds zap loggers, and
// CommandContextAccessor carries run-scoped values through command contexts.
package utils
